package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/simaogato/walletpnl/internal/domain"
	"github.com/simaogato/walletpnl/internal/usecase/pnl"
)

// PnLCalculator computes the PnL series of a wallet
type PnLCalculator interface {
	CalculatePnL(ctx context.Context, walletAddress string) (*pnl.Result, error)
}

// Server implements the WalletPnLService gRPC server
type Server struct {
	PnLService PnLCalculator
}

// NewServer creates a new gRPC server instance
func NewServer(pnlService PnLCalculator) *Server {
	return &Server{PnLService: pnlService}
}

// CalculatePnL handles the CalculatePnL RPC
func (s *Server) CalculatePnL(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "wallet address is required")
	}

	result, err := s.PnLService.CalculatePnL(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}

	// Build response
	points := make([]interface{}, 0, len(result.Points))
	for _, p := range result.Points {
		points = append(points, map[string]interface{}{
			"timestamp": p.Timestamp.UTC().Format(time.RFC3339Nano),
			"pnl":       p.PnL.String(),
		})
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		"wallet_address": result.WalletAddress,
		"pnl":            points,
		"missing_prices": result.MissingPrices,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	return resp, nil
}

// mapError maps domain errors to gRPC status codes
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidWalletAddress):
		return status.Errorf(codes.InvalidArgument, "%s", err)
	case errors.Is(err, domain.ErrProviderFailure):
		return status.Errorf(codes.Unavailable, "%s", err)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err)
}
