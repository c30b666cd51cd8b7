package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Service and method names of the PnL API
const (
	ServiceName              = "walletpnl.v1.WalletPnLService"
	CalculatePnLFullMethod   = "/" + ServiceName + "/CalculatePnL"
	calculatePnLMethodName   = "CalculatePnL"
	walletPnLServiceMetadata = "walletpnl/v1/walletpnl.proto"
)

// WalletPnLServiceServer is the server API for the WalletPnLService.
// Requests carry the wallet address; responses mirror the JSON body of the HTTP API.
type WalletPnLServiceServer interface {
	CalculatePnL(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// WalletPnLServiceDesc describes the WalletPnLService using well-known protobuf types only
var WalletPnLServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WalletPnLServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: calculatePnLMethodName,
			Handler:    calculatePnLHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: walletPnLServiceMetadata,
}

// RegisterWalletPnLServiceServer registers srv on the gRPC server
func RegisterWalletPnLServiceServer(s grpc.ServiceRegistrar, srv WalletPnLServiceServer) {
	s.RegisterService(&WalletPnLServiceDesc, srv)
}

func calculatePnLHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WalletPnLServiceServer).CalculatePnL(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CalculatePnLFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(WalletPnLServiceServer).CalculatePnL(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// WalletPnLServiceClient is the client API for the WalletPnLService
type WalletPnLServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewWalletPnLServiceClient creates a client on top of an existing connection
func NewWalletPnLServiceClient(cc grpc.ClientConnInterface) *WalletPnLServiceClient {
	return &WalletPnLServiceClient{cc: cc}
}

// CalculatePnL calls the CalculatePnL RPC for a wallet address
func (c *WalletPnLServiceClient) CalculatePnL(ctx context.Context, walletAddress string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CalculatePnLFullMethod, wrapperspb.String(walletAddress), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
