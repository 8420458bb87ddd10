package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReconcilerServiceName is the fully qualified gRPC service name.
const ReconcilerServiceName = "tebligat.v1.Reconciler"

// ReconcilerServer is served over google.protobuf.Struct messages, so no
// generated code is needed on either side.
type ReconcilerServer interface {
	Similarity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ParseDescription(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolveCourt(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SuggestCourts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ImportText(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(ReconcilerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ReconcilerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ReconcilerServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ReconcilerServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ReconcilerServiceDesc registers ReconcilerServer with a grpc.Server.
var ReconcilerServiceDesc = grpc.ServiceDesc{
	ServiceName: ReconcilerServiceName,
	HandlerType: (*ReconcilerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Similarity", Handler: unaryHandler("Similarity", ReconcilerServer.Similarity)},
		{MethodName: "ParseDescription", Handler: unaryHandler("ParseDescription", ReconcilerServer.ParseDescription)},
		{MethodName: "ResolveCourt", Handler: unaryHandler("ResolveCourt", ReconcilerServer.ResolveCourt)},
		{MethodName: "SuggestCourts", Handler: unaryHandler("SuggestCourts", ReconcilerServer.SuggestCourts)},
		{MethodName: "ImportText", Handler: unaryHandler("ImportText", ReconcilerServer.ImportText)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tebligat/v1/reconciler.proto",
}

func RegisterReconcilerServer(s grpc.ServiceRegistrar, srv ReconcilerServer) {
	s.RegisterService(&ReconcilerServiceDesc, srv)
}

// ReconcilerClient calls the Reconciler service with plain maps.
type ReconcilerClient struct {
	cc grpc.ClientConnInterface
}

func NewReconcilerClient(cc grpc.ClientConnInterface) *ReconcilerClient {
	return &ReconcilerClient{cc: cc}
}

// Call invokes method with in and returns the decoded response. Numbers come
// back as float64.
func (c *ReconcilerClient) Call(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ReconcilerServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
