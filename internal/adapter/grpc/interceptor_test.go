package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestAuthInterceptor(t *testing.T) {
	interceptor := AuthInterceptor(testToken)
	info := &grpc.UnaryServerInfo{FullMethod: CalculatePnLFullMethod}

	incoming := func(kv ...string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs(kv...))
	}

	tests := []struct {
		name     string
		ctx      context.Context
		wantCode codes.Code
		wantMsg  string
	}{
		{name: "accepts the configured token", ctx: incoming("authorization", testToken), wantCode: codes.OK},
		{name: "rejects another token", ctx: incoming("authorization", testToken+"-old"), wantCode: codes.Unauthenticated, wantMsg: "invalid token"},
		{name: "rejects an empty token", ctx: incoming("authorization", ""), wantCode: codes.Unauthenticated, wantMsg: "invalid token"},
		{name: "rejects calls without metadata", ctx: context.Background(), wantCode: codes.Unauthenticated, wantMsg: "missing metadata"},
		{name: "rejects metadata without a token", ctx: incoming(RequestIDKey, "req-7"), wantCode: codes.Unauthenticated, wantMsg: "missing authorization header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			resp, err := interceptor(tt.ctx, wrapperspb.String(testWallet), info, func(ctx context.Context, req interface{}) (interface{}, error) {
				calls++
				return &structpb.Struct{}, nil
			})

			assert.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantCode == codes.OK {
				assert.Equal(t, 1, calls)
				assert.NotNil(t, resp)
				return
			}
			assert.Zero(t, calls)
			assert.Nil(t, resp)
			assert.Contains(t, status.Convert(err).Message(), tt.wantMsg)
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	interceptor := LoggingInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: CalculatePnLFullMethod}

	t.Run("passes the response through", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDKey, "req-1"))
		resp, err := interceptor(ctx, "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return "ok", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})

	t.Run("passes the error through", func(t *testing.T) {
		handlerErr := status.Error(codes.Unavailable, "provider down")
		resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, handlerErr
		})
		assert.Nil(t, resp)
		assert.Equal(t, codes.Unavailable, status.Code(err))
	})
}
