package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/superj80820/url-shortener/kit/code"
)

func DecodeEmptyRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	return nil, nil
}

func DecodeJsonRequest[T any](ctx context.Context, r *http.Request) (interface{}, error) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(err)
	}
	return req, nil
}

// EncodeJsonResponse writes response as JSON with the status picked by
// code.ParseResponseSuccessCode. A nil response becomes an empty 204.
func EncodeJsonResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	successCode := code.ParseResponseSuccessCode(response)
	if successCode.HTTPCode == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(successCode.HTTPCode)
	return json.NewEncoder(w).Encode(response)
}

func EncodeEmptyResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type Redirect interface {
	RedirectLocation() string
}

func EncodeRedirectResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	redirect, ok := response.(Redirect)
	if !ok {
		return code.CreateErrorCode(http.StatusInternalServerError)
	}
	w.Header().Set("Location", redirect.RedirectLocation())
	w.WriteHeader(http.StatusFound)
	return nil
}
