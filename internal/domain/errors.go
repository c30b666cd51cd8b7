package domain

import "errors"

// ErrProviderFailure marks failures of an external data provider
// (unreachable, non-2xx response, unexpected payload shape).
var ErrProviderFailure = errors.New("provider failure")
