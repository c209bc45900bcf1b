package http

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/superj80820/url-shortener/domain"
	"github.com/superj80820/url-shortener/shortlink/delivery"
)

func MakeLinkDeleteEndpoint(svc domain.ShortLinkUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(linkCodeRequest)
		if err := svc.DeleteLink(ctx, req.Code); err != nil {
			return nil, delivery.EncodeDomainError(err)
		}
		return nil, nil
	}
}
