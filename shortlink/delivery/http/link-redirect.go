package http

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"
	"github.com/superj80820/url-shortener/domain"
	"github.com/superj80820/url-shortener/kit/code"
	"github.com/superj80820/url-shortener/shortlink/delivery"
)

type linkCodeRequest struct {
	Code string
}

type linkRedirectResponse struct {
	TargetURL string
}

func (l linkRedirectResponse) RedirectLocation() string {
	return l.TargetURL
}

func MakeLinkRedirectEndpoint(svc domain.ShortLinkUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(linkCodeRequest)
		targetURL, err := svc.GetLink(ctx, req.Code)
		if err != nil {
			return nil, delivery.EncodeDomainError(err)
		}
		return linkRedirectResponse{TargetURL: targetURL}, nil
	}
}

func DecodeLinkCodeRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	linkCode, ok := mux.Vars(r)["code"]
	if !ok {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidKey)
	}
	return linkCodeRequest{Code: linkCode}, nil
}
