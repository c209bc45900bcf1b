package http

import (
	"net/http"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/superj80820/url-shortener/domain"
	httpTransportKit "github.com/superj80820/url-shortener/kit/http/transport"
)

// MakeHandler routes the short link endpoints on r. mutatingMiddleware wraps
// only the endpoints that change state.
func MakeHandler(
	r *mux.Router,
	svc domain.ShortLinkUseCase,
	customMiddleware endpoint.Middleware,
	mutatingMiddleware endpoint.Middleware,
	options ...httptransport.ServerOption,
) http.Handler {
	linkCreateHandler := httptransport.NewServer(
		customMiddleware(mutatingMiddleware(MakeLinkCreateEndpoint(svc))),
		httpTransportKit.DecodeJsonRequest[linkCreateRequest],
		httpTransportKit.EncodeJsonResponse,
		options...,
	)
	linkDeleteHandler := httptransport.NewServer(
		customMiddleware(mutatingMiddleware(MakeLinkDeleteEndpoint(svc))),
		DecodeLinkCodeRequest,
		httpTransportKit.EncodeJsonResponse,
		options...,
	)
	linkRedirectHandler := httptransport.NewServer(
		customMiddleware(MakeLinkRedirectEndpoint(svc)),
		DecodeLinkCodeRequest,
		httpTransportKit.EncodeRedirectResponse,
		options...,
	)

	r.Methods("POST").Path("/api/v1/links").Handler(linkCreateHandler)
	r.Methods("DELETE").Path("/api/v1/links/{code}").Handler(linkDeleteHandler)
	r.Methods("GET").Path("/{code}").Handler(linkRedirectHandler)

	return r
}
