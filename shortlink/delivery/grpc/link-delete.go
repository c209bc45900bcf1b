package grpc

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/superj80820/url-shortener/domain"
	grpcKit "github.com/superj80820/url-shortener/kit/grpc"
	"github.com/superj80820/url-shortener/shortlink/delivery"
)

type linkDeleteRequest struct {
	Code string
}

func MakeLinkDeleteEndpoint(svc domain.ShortLinkUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(*linkDeleteRequest)
		if err := svc.DeleteLink(ctx, req.Code); err != nil {
			return nil, delivery.EncodeDomainError(err)
		}
		return nil, nil
	}
}

func decodeGRPCLinkDeleteRequest(ctx context.Context, grpcReq interface{}) (request interface{}, err error) {
	req := grpcReq.(*domain.DeleteLinkRequest)
	return &linkDeleteRequest{Code: req.HashKey}, nil
}

func encodeGRPCLinkDeleteResponse(ctx context.Context, response interface{}) (grpcReply interface{}, err error) {
	return &domain.DeleteLinkReply{}, nil
}

func (s *ShortLinkServer) DeleteLink(ctx context.Context, req *domain.DeleteLinkRequest) (*domain.DeleteLinkReply, error) {
	_, res, err := s.deleteLink.ServeGRPC(ctx, req)
	if err != nil {
		return nil, grpcKit.EncodeGRPCError(err)
	}
	return res.(*domain.DeleteLinkReply), nil
}
