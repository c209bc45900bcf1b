package delivery

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	"github.com/superj80820/url-shortener/kit/code"
)

// EncodeDomainError maps domain errors to error codes shared by every transport.
func EncodeDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidURL).AddErrorMetaData(err)
	case errors.Is(err, domain.ErrInvalidKey):
		return code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidKey).AddErrorMetaData(err)
	case errors.Is(err, domain.ErrKeyNotFound):
		return code.CreateErrorCode(http.StatusNotFound).AddErrorMetaData(err)
	case errors.Is(err, domain.ErrExpiredLink):
		return code.CreateErrorCode(http.StatusNotFound).AddCode(code.Expired).AddErrorMetaData(err)
	case errors.Is(err, domain.ErrGenerationFailed):
		return code.CreateErrorCode(http.StatusServiceUnavailable).AddCode(code.GenerationFailed).AddErrorMetaData(err)
	case errors.Is(err, domain.ErrRequestCancelled):
		return code.CreateErrorCode(http.StatusRequestTimeout).AddCode(code.Cancelled).AddErrorMetaData(err)
	}
	return err
}
