package grpc

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/superj80820/url-shortener/domain"
	grpcKit "github.com/superj80820/url-shortener/kit/grpc"
	"github.com/superj80820/url-shortener/shortlink/delivery"
)

type linkCreateRequest struct {
	URL string
}

func MakeLinkCreateEndpoint(svc domain.ShortLinkUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(*linkCreateRequest)
		createdLink, err := svc.CreateLink(ctx, req.URL)
		if err != nil {
			return nil, delivery.EncodeDomainError(err)
		}
		return createdLink, nil
	}
}

func decodeGRPCLinkCreateRequest(ctx context.Context, grpcReq interface{}) (request interface{}, err error) {
	req := grpcReq.(*domain.CreateLinkRequest)
	return &linkCreateRequest{URL: req.RedirectURL}, nil
}

func encodeGRPCLinkCreateResponse(ctx context.Context, response interface{}) (grpcReply interface{}, err error) {
	createdLink := response.(*domain.CreatedLink)
	return &domain.CreateLinkReply{HashKey: createdLink.Code, ShortURL: createdLink.URL}, nil
}

func (s *ShortLinkServer) CreateLink(ctx context.Context, req *domain.CreateLinkRequest) (*domain.CreateLinkReply, error) {
	_, res, err := s.createLink.ServeGRPC(ctx, req)
	if err != nil {
		return nil, grpcKit.EncodeGRPCError(err)
	}
	return res.(*domain.CreateLinkReply), nil
}
