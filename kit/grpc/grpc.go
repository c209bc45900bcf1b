package grpc

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/kit/code"
	httpKit "github.com/superj80820/url-shortener/kit/http"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const APIKeyMetadata = "x-api-key"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal json failed")
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "unmarshal json failed")
	}
	return nil
}

func (jsonCodec) Name() string {
	return "json"
}

// JSONCodec carries plain go structs instead of protobuf messages.
var JSONCodec encoding.Codec = jsonCodec{}

func init() {
	encoding.RegisterCodec(JSONCodec)
}

// CreateAPIKeyInterceptor rejects calls whose x-api-key metadata differs from
// apiKey. An empty apiKey lets every call through.
func CreateAPIKeyInterceptor(apiKey string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if apiKey == "" {
			return handler(ctx, req)
		}
		var got string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(APIKeyMetadata); len(values) > 0 {
				got = values[0]
			}
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
			return nil, status.Error(codes.Unauthenticated, "invalid api key")
		}
		return handler(ctx, req)
	}
}

// CreateTraceInterceptor starts a server span for each call and copies the
// call metadata into ctx for the endpoint middlewares.
func CreateTraceInterceptor(tracer trace.Tracer) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx = httpKit.AddRPCMethod(ctx, info.FullMethod)

		ctx, span := tracer.Start(ctx, info.FullMethod, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		ctx = httpKit.AddTraceID(ctx, span.SpanContext().TraceID().String())

		return handler(ctx, req)
	}
}

var grpcCodes = map[int]codes.Code{
	http.StatusBadRequest:         codes.InvalidArgument,
	http.StatusUnauthorized:       codes.Unauthenticated,
	http.StatusNotFound:           codes.NotFound,
	http.StatusRequestTimeout:     codes.Canceled,
	http.StatusServiceUnavailable: codes.ResourceExhausted,
}

// EncodeGRPCError turns an error code into a status. Errors without a code
// become codes.Internal.
func EncodeGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	errorCode := code.ParseErrorCode(err)
	grpcCode, ok := grpcCodes[errorCode.GeneralCode]
	if !ok {
		grpcCode = codes.Internal
	}
	return status.Error(grpcCode, errorCode.Message)
}
