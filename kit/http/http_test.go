package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superj80820/url-shortener/kit/code"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestCustomCtx(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	var ctx context.Context
	r := mux.NewRouter()
	r.Methods("GET").Path("/{code}").HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx = CustomBeforeCtx(tracer)(req.Context(), req)
		CustomAfterCtx(ctx, w)
	})

	req := httptest.NewRequest(http.MethodGet, "/aB3Xy9Km", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	req.Header.Set(APIKeyHeader, "secret")
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.NotNil(t, ctx)
	assert.Equal(t, "10.0.0.1", GetIP(ctx))
	assert.Equal(t, "/aB3Xy9Km", GetURL(ctx))
	assert.Equal(t, "/{code}", GetRoute(ctx))
	assert.Equal(t, http.MethodGet, GetMethod(ctx))
	assert.Equal(t, "secret", GetAPIKey(ctx))
	assert.Equal(t, "test-agent", GetUserAgent(ctx))
	assert.NotEmpty(t, GetTraceID(ctx))
	assert.Equal(t, GetTraceID(ctx), w.Header().Get("X-B3-TraceId"))

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, "GET /aB3Xy9Km", recorder.Ended()[0].Name())
}

func TestEmptyCtx(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetIP(ctx))
	assert.Equal(t, "", GetAPIKey(ctx))
	assert.Equal(t, "", GetTraceID(ctx))
}

func TestEncodeHTTPErrorResponse(t *testing.T) {
	testCases := []struct {
		scenario     string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			scenario:     "error code",
			err:          errors.Wrap(code.CreateErrorCode(http.StatusNotFound).AddCode(code.Expired), "get link failed"),
			expectedCode: http.StatusNotFound,
			expectedBody: `{"http_code":404,"code":4,"message":"link expired"}`,
		},
		{
			scenario:     "unknown error",
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"http_code":500,"code":0,"message":"internal error"}`,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.scenario, func(t *testing.T) {
			w := httptest.NewRecorder()
			EncodeHTTPErrorResponse()(context.Background(), testCase.err, w)

			assert.Equal(t, testCase.expectedCode, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.JSONEq(t, testCase.expectedBody, w.Body.String())
		})
	}
}
