package domain

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Messages of the ShortLink rpc service. They travel with the json codec of
// kit/grpc.
type CreateLinkRequest struct {
	RedirectURL string `json:"redirect_url"`
}

type CreateLinkReply struct {
	HashKey  string `json:"hash_key"`
	ShortURL string `json:"short_url"`
}

type DeleteLinkRequest struct {
	HashKey string `json:"hash_key"`
}

type DeleteLinkReply struct{}

const (
	ShortLink_CreateLink_FullMethodName = "/shortlink.ShortLink/CreateLink"
	ShortLink_DeleteLink_FullMethodName = "/shortlink.ShortLink/DeleteLink"
)

type ShortLinkClient interface {
	CreateLink(ctx context.Context, in *CreateLinkRequest, opts ...grpc.CallOption) (*CreateLinkReply, error)
	DeleteLink(ctx context.Context, in *DeleteLinkRequest, opts ...grpc.CallOption) (*DeleteLinkReply, error)
}

type shortLinkClient struct {
	cc grpc.ClientConnInterface
}

func NewShortLinkClient(cc grpc.ClientConnInterface) ShortLinkClient {
	return &shortLinkClient{cc}
}

func (c *shortLinkClient) CreateLink(ctx context.Context, in *CreateLinkRequest, opts ...grpc.CallOption) (*CreateLinkReply, error) {
	out := new(CreateLinkReply)
	if err := c.cc.Invoke(ctx, ShortLink_CreateLink_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *shortLinkClient) DeleteLink(ctx context.Context, in *DeleteLinkRequest, opts ...grpc.CallOption) (*DeleteLinkReply, error) {
	out := new(DeleteLinkReply)
	if err := c.cc.Invoke(ctx, ShortLink_DeleteLink_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type ShortLinkServer interface {
	CreateLink(context.Context, *CreateLinkRequest) (*CreateLinkReply, error)
	DeleteLink(context.Context, *DeleteLinkRequest) (*DeleteLinkReply, error)
	mustEmbedUnimplementedShortLinkServer()
}

type UnimplementedShortLinkServer struct{}

func (UnimplementedShortLinkServer) CreateLink(context.Context, *CreateLinkRequest) (*CreateLinkReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateLink not implemented")
}

func (UnimplementedShortLinkServer) DeleteLink(context.Context, *DeleteLinkRequest) (*DeleteLinkReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteLink not implemented")
}

func (UnimplementedShortLinkServer) mustEmbedUnimplementedShortLinkServer() {}

func RegisterShortLinkServer(s grpc.ServiceRegistrar, srv ShortLinkServer) {
	s.RegisterService(&ShortLink_ServiceDesc, srv)
}

func _ShortLink_CreateLink_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateLinkRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortLinkServer).CreateLink(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ShortLink_CreateLink_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ShortLinkServer).CreateLink(ctx, req.(*CreateLinkRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ShortLink_DeleteLink_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeleteLinkRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortLinkServer).DeleteLink(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ShortLink_DeleteLink_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ShortLinkServer).DeleteLink(ctx, req.(*DeleteLinkRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ShortLink_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "shortlink.ShortLink",
	HandlerType: (*ShortLinkServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateLink",
			Handler:    _ShortLink_CreateLink_Handler,
		},
		{
			MethodName: "DeleteLink",
			Handler:    _ShortLink_DeleteLink_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shortlink.proto",
}
