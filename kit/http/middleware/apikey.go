package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/superj80820/url-shortener/kit/code"
	httpKit "github.com/superj80820/url-shortener/kit/http"
)

// CreateAPIKeyMiddleware rejects requests whose x-api-key header differs from
// apiKey. An empty apiKey lets every request through.
func CreateAPIKeyMiddleware(apiKey string) endpoint.Middleware {
	return func(e endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			if apiKey == "" {
				return e(ctx, request)
			}
			if subtle.ConstantTimeCompare([]byte(httpKit.GetAPIKey(ctx)), []byte(apiKey)) != 1 {
				return nil, code.CreateErrorCode(http.StatusUnauthorized).AddCode(code.APIKeyInvalid)
			}
			return e(ctx, request)
		}
	}
}
