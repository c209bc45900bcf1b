package grpc

import (
	"github.com/go-kit/kit/endpoint"
	grpctransport "github.com/go-kit/kit/transport/grpc"
	"github.com/superj80820/url-shortener/domain"
)

type ShortLinkServer struct {
	domain.UnimplementedShortLinkServer
	createLink grpctransport.Handler
	deleteLink grpctransport.Handler
}

// CreateShortLinkServer serves link creation and deletion over rpc. Redirects
// stay on http.
func CreateShortLinkServer(svc domain.ShortLinkUseCase, customMiddleware endpoint.Middleware, options ...grpctransport.ServerOption) domain.ShortLinkServer {
	return &ShortLinkServer{
		createLink: grpctransport.NewServer(
			customMiddleware(MakeLinkCreateEndpoint(svc)),
			decodeGRPCLinkCreateRequest,
			encodeGRPCLinkCreateResponse,
			options...,
		),
		deleteLink: grpctransport.NewServer(
			customMiddleware(MakeLinkDeleteEndpoint(svc)),
			decodeGRPCLinkDeleteRequest,
			encodeGRPCLinkDeleteResponse,
			options...,
		),
	}
}
