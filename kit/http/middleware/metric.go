package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/kit/endpoint"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	httpKit "github.com/superj80820/url-shortener/kit/http"
)

// CreateMetrics counts requests and records their latency per method, route
// and outcome. Collectors are registered on registerer.
func CreateMetrics(namespace, subsystem string, registerer stdprometheus.Registerer) endpoint.Middleware {
	fieldKeys := []string{"method", "path", "error"}
	requestCountVec := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_count",
		Help:      "Number of requests received.",
	}, fieldKeys)
	requestLatencyVec := stdprometheus.NewSummaryVec(stdprometheus.SummaryOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_latency_seconds",
		Help:      "Total duration of requests in seconds.",
	}, fieldKeys)
	registerer.MustRegister(requestCountVec, requestLatencyVec)

	requestCount := kitprometheus.NewCounter(requestCountVec)
	requestLatency := kitprometheus.NewSummary(requestLatencyVec)

	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			defer func(begin time.Time) {
				lvs := []string{"method", httpKit.GetMethod(ctx), "path", httpKit.GetRoute(ctx), "error", fmt.Sprint(err != nil)}
				requestCount.With(lvs...).Add(1)
				requestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
			}(time.Now())
			return next(ctx, request)
		}
	}
}
