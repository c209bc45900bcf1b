package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/superj80820/url-shortener/kit/code"
	httpKit "github.com/superj80820/url-shortener/kit/http"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
)

func CreateLoggingMiddleware(logger *loggerKit.Logger) endpoint.Middleware {
	return func(e endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			defer func(begin time.Time) {
				url := httpKit.GetURL(ctx)

				var (
					errorMsg       string
					errorCallStack string
					errorHTTPCode  int
				)
				if err != nil {
					errorCode := code.ParseErrorCode(err)
					errorHTTPCode = errorCode.GeneralCode
					errorMsg = errorCode.Error()
					errorCallStack = fmt.Sprintf("%+v", err)
				}
				loggerWithMetadata := logger.With(
					loggerKit.Int("status", errorHTTPCode),
					loggerKit.String("error", errorMsg),
					loggerKit.String("method", httpKit.GetMethod(ctx)),
					loggerKit.String("path", url),
					loggerKit.String("ip", httpKit.GetIP(ctx)),
					loggerKit.String("user-agent", httpKit.GetUserAgent(ctx)),
					loggerKit.String("trace-id", httpKit.GetTraceID(ctx)),
					loggerKit.Duration("latency", time.Since(begin)),
				)

				if errorHTTPCode >= http.StatusInternalServerError {
					loggerWithMetadata.Error(url, loggerKit.String("error-call-stack", errorCallStack))
				} else {
					loggerWithMetadata.Info(url)
				}
			}(time.Now())

			return e(ctx, request)
		}
	}
}
