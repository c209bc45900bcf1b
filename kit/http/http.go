package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/superj80820/url-shortener/kit/code"
	"go.opentelemetry.io/otel/trace"
)

type ctxKeyType int

const (
	_CTX_IP_KEY ctxKeyType = iota
	_CTX_HOST
	_CTX_URL_PATH
	_CTX_METHOD
	_CTX_USER_AGENT
	_CTX_TRACE_ID
	_CTX_API_KEY
	_CTX_ROUTE
)

const APIKeyHeader = "x-api-key"

func ReadUserIP(r *http.Request) string {
	IPAddress := r.Header.Get("X-Real-Ip")
	if IPAddress == "" {
		IPAddress = strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0])
	}
	if IPAddress == "" {
		IPAddress = r.RemoteAddr
	}
	return strings.Split(IPAddress, ":")[0]
}

// CustomBeforeCtx copies request metadata into ctx and starts a server span
// that CustomAfterCtx ends.
func CustomBeforeCtx(tracer trace.Tracer) func(ctx context.Context, r *http.Request) context.Context {
	return func(ctx context.Context, r *http.Request) context.Context {
		ctx = context.WithValue(ctx, _CTX_API_KEY, r.Header.Get(APIKeyHeader))
		ctx = context.WithValue(ctx, _CTX_HOST, r.Host)
		ctx = context.WithValue(ctx, _CTX_URL_PATH, r.URL.Path)
		ctx = context.WithValue(ctx, _CTX_METHOD, r.Method)
		ctx = context.WithValue(ctx, _CTX_USER_AGENT, r.UserAgent())
		ctx = context.WithValue(ctx, _CTX_IP_KEY, ReadUserIP(r))
		ctx = context.WithValue(ctx, _CTX_ROUTE, readRoute(r))

		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))

		ctx = AddTraceID(ctx, span.SpanContext().TraceID().String())

		return ctx
	}
}

// readRoute returns the matched mux path template so that metric labels do
// not grow with every short code.
func readRoute(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return r.URL.Path
}

// AddRPCMethod fills the request metadata of an rpc call so that endpoint
// middlewares log and count it like an http request.
func AddRPCMethod(ctx context.Context, fullMethod string) context.Context {
	ctx = context.WithValue(ctx, _CTX_METHOD, "RPC")
	ctx = context.WithValue(ctx, _CTX_URL_PATH, fullMethod)
	ctx = context.WithValue(ctx, _CTX_ROUTE, fullMethod)
	return ctx
}

func CustomAfterCtx(ctx context.Context, w http.ResponseWriter) context.Context {
	span := trace.SpanFromContext(ctx)
	w.Header().Add("X-B3-TraceId", span.SpanContext().TraceID().String())
	span.End()
	return ctx
}

func getString(ctx context.Context, key ctxKeyType) string {
	value, _ := ctx.Value(key).(string)
	return value
}

func GetTraceID(ctx context.Context) string {
	return getString(ctx, _CTX_TRACE_ID)
}

func AddTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, _CTX_TRACE_ID, traceID)
}

func GetIP(ctx context.Context) string {
	return getString(ctx, _CTX_IP_KEY)
}

func GetURL(ctx context.Context) string {
	return getString(ctx, _CTX_URL_PATH)
}

func GetRoute(ctx context.Context) string {
	return getString(ctx, _CTX_ROUTE)
}

func GetMethod(ctx context.Context) string {
	return getString(ctx, _CTX_METHOD)
}

func GetUserAgent(ctx context.Context) string {
	return getString(ctx, _CTX_USER_AGENT)
}

func GetAPIKey(ctx context.Context) string {
	return getString(ctx, _CTX_API_KEY)
}

func EncodeHTTPErrorResponse() func(ctx context.Context, err error, w http.ResponseWriter) {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		if err == nil {
			panic("encodeError with nil error")
		}

		ctx = CustomAfterCtx(ctx, w)

		errorCode := code.ParseErrorCode(err)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(errorCode.GeneralCode)
		json.NewEncoder(w).Encode(errorCode)
	}
}
