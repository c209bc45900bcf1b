package grpc

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superj80820/url-shortener/kit/code"
	httpKit "github.com/superj80820/url-shortener/kit/http"
	traceKit "github.com/superj80820/url-shortener/kit/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestEncodeGRPCError(t *testing.T) {
	testCases := []struct {
		err      error
		expected codes.Code
	}{
		{code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidURL), codes.InvalidArgument},
		{code.CreateErrorCode(http.StatusNotFound).AddCode(code.Expired), codes.NotFound},
		{code.CreateErrorCode(http.StatusRequestTimeout).AddCode(code.Cancelled), codes.Canceled},
		{code.CreateErrorCode(http.StatusServiceUnavailable).AddCode(code.GenerationFailed), codes.ResourceExhausted},
		{errors.Wrap(code.CreateErrorCode(http.StatusUnauthorized), "wrapped"), codes.Unauthenticated},
		{errors.New("boom"), codes.Internal},
		{status.Error(codes.Aborted, "aborted"), codes.Aborted},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, status.Code(EncodeGRPCError(testCase.err)), testCase.err.Error())
	}
	assert.NoError(t, EncodeGRPCError(nil))
}

func TestJSONCodec(t *testing.T) {
	type message struct {
		HashKey string `json:"hash_key"`
	}

	data, err := JSONCodec.Marshal(&message{HashKey: "aB3Xy9Km"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hash_key":"aB3Xy9Km"}`, string(data))

	var got message
	require.NoError(t, JSONCodec.Unmarshal(data, &got))
	assert.Equal(t, "aB3Xy9Km", got.HashKey)
	assert.NoError(t, JSONCodec.Unmarshal(nil, &got))
}

func TestInterceptors(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/shortlink.ShortLink/CreateLink"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return httpKit.GetRoute(ctx), nil
	}

	testCases := []struct {
		scenario string
		fn       func(t *testing.T)
	}{
		{
			scenario: "api key matches",
			fn: func(t *testing.T) {
				ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(APIKeyMetadata, "secret"))
				_, err := CreateAPIKeyInterceptor("secret")(ctx, nil, info, handler)
				assert.NoError(t, err)
			},
		},
		{
			scenario: "api key differs",
			fn: func(t *testing.T) {
				ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(APIKeyMetadata, "other"))
				_, err := CreateAPIKeyInterceptor("secret")(ctx, nil, info, handler)
				assert.Equal(t, codes.Unauthenticated, status.Code(err))

				_, err = CreateAPIKeyInterceptor("secret")(context.Background(), nil, info, handler)
				assert.Equal(t, codes.Unauthenticated, status.Code(err))
			},
		},
		{
			scenario: "empty api key disables the check",
			fn: func(t *testing.T) {
				_, err := CreateAPIKeyInterceptor("")(context.Background(), nil, info, handler)
				assert.NoError(t, err)
			},
		},
		{
			scenario: "trace interceptor fills the route",
			fn: func(t *testing.T) {
				route, err := CreateTraceInterceptor(traceKit.CreateNoOpTracer())(context.Background(), nil, info, handler)
				require.NoError(t, err)
				assert.Equal(t, info.FullMethod, route)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.scenario, testCase.fn)
	}
}
