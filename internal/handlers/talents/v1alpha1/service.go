package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "talents.v1alpha1.TalentService"

// Full method names.
const (
	ListClassesMethod          = "/" + ServiceName + "/ListClasses"
	GetTalentTreesMethod       = "/" + ServiceName + "/GetTalentTrees"
	GetTalentDescriptionMethod = "/" + ServiceName + "/GetTalentDescription"
	InvalidateMethod           = "/" + ServiceName + "/Invalidate"
)

// TalentServiceServer is the server API. Requests and responses travel as
// google.protobuf.Struct documents shaped like the wire types in messages.go.
type TalentServiceServer interface {
	ListClasses(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTalentTrees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTalentDescription(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Invalidate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// TalentServiceDesc describes the service for grpc.Server registration.
var TalentServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TalentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListClasses", Handler: unaryHandler(ListClassesMethod, TalentServiceServer.ListClasses)},
		{MethodName: "GetTalentTrees", Handler: unaryHandler(GetTalentTreesMethod, TalentServiceServer.GetTalentTrees)},
		{MethodName: "GetTalentDescription", Handler: unaryHandler(GetTalentDescriptionMethod, TalentServiceServer.GetTalentDescription)},
		{MethodName: "Invalidate", Handler: unaryHandler(InvalidateMethod, TalentServiceServer.Invalidate)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "talents/v1alpha1/talent_service.proto",
}

// RegisterTalentServiceServer registers srv on s.
func RegisterTalentServiceServer(s grpc.ServiceRegistrar, srv TalentServiceServer) {
	s.RegisterService(&TalentServiceDesc, srv)
}

type unaryMethod func(TalentServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TalentServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TalentServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TalentServiceClient is the client API.
type TalentServiceClient interface {
	ListClasses(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetTalentTrees(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetTalentDescription(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Invalidate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type talentServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTalentServiceClient returns a client bound to cc.
func NewTalentServiceClient(cc grpc.ClientConnInterface) TalentServiceClient {
	return &talentServiceClient{cc: cc}
}

func (c *talentServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *talentServiceClient) ListClasses(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListClassesMethod, in, opts)
}

func (c *talentServiceClient) GetTalentTrees(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetTalentTreesMethod, in, opts)
}

func (c *talentServiceClient) GetTalentDescription(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetTalentDescriptionMethod, in, opts)
}

func (c *talentServiceClient) Invalidate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, InvalidateMethod, in, opts)
}
