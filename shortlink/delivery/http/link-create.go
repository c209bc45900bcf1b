package http

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/superj80820/url-shortener/domain"
	"github.com/superj80820/url-shortener/shortlink/delivery"
)

type linkCreateRequest struct {
	URL string `json:"url"`
}

type linkCreateResponse struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}

func (linkCreateResponse) SuccessHTTPCode() int {
	return http.StatusCreated
}

func MakeLinkCreateEndpoint(svc domain.ShortLinkUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(linkCreateRequest)
		createdLink, err := svc.CreateLink(ctx, req.URL)
		if err != nil {
			return nil, delivery.EncodeDomainError(err)
		}
		return linkCreateResponse{Code: createdLink.Code, URL: createdLink.URL}, nil
	}
}
