package domain

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidWalletAddress is returned for addresses that are not 20-byte hex addresses.
var ErrInvalidWalletAddress = errors.New("invalid wallet address")

// NormalizeWalletAddress validates an EVM wallet address and returns it in
// its EIP-55 checksummed form.
func NormalizeWalletAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", ErrInvalidWalletAddress
	}
	return common.HexToAddress(address).Hex(), nil
}
