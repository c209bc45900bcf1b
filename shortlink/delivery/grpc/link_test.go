package grpc

import (
	"context"
	"net"
	"testing"

	kitgrpc "github.com/go-kit/kit/transport/grpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superj80820/url-shortener/domain"
	grpcKit "github.com/superj80820/url-shortener/kit/grpc"
	httpMiddlewareKit "github.com/superj80820/url-shortener/kit/http/middleware"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
	traceKit "github.com/superj80820/url-shortener/kit/trace"
	utilKit "github.com/superj80820/url-shortener/kit/util"
	linkMemoryRepo "github.com/superj80820/url-shortener/shortlink/repository/link/memory"
	lockMemoryRepo "github.com/superj80820/url-shortener/shortlink/repository/lock/memory"
	"github.com/superj80820/url-shortener/shortlink/usecase/link"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const apiKey = "secret"

type testSetup struct {
	client           domain.ShortLinkClient
	shortLinkUseCase domain.ShortLinkUseCase
}

func testSetupFn(t *testing.T) *testSetup {
	logger := loggerKit.NewNoopLogger()
	uniqueIDGenerate, err := utilKit.CreateUniqueIDGenerate(1)
	require.NoError(t, err)
	shortLinkUseCase := link.CreateShortLinkUseCase(
		linkMemoryRepo.CreateShortLinkRepo(),
		lockMemoryRepo.CreateDedupLockRepo(logger),
		uniqueIDGenerate,
		logger,
		"https://s.example",
	)

	listener := bufconn.Listen(1 << 20)
	baseServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		kitgrpc.Interceptor,
		grpcKit.CreateTraceInterceptor(traceKit.CreateNoOpTracer()),
		grpcKit.CreateAPIKeyInterceptor(apiKey),
	))
	domain.RegisterShortLinkServer(baseServer, CreateShortLinkServer(shortLinkUseCase, httpMiddlewareKit.CreateLoggingMiddleware(logger)))
	go baseServer.Serve(listener)
	t.Cleanup(baseServer.Stop)

	conn, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(grpcKit.JSONCodec.Name())),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &testSetup{
		client:           domain.NewShortLinkClient(conn),
		shortLinkUseCase: shortLinkUseCase,
	}
}

func withAPIKey(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, grpcKit.APIKeyMetadata, apiKey)
}

func TestShortLinkServer(t *testing.T) {
	testCases := []struct {
		scenario string
		fn       func(t *testing.T)
	}{
		{
			scenario: "create and delete",
			fn: func(t *testing.T) {
				setup := testSetupFn(t)
				ctx := withAPIKey(context.Background())

				reply, err := setup.client.CreateLink(ctx, &domain.CreateLinkRequest{RedirectURL: "https://example.com/a"})
				require.NoError(t, err)
				assert.Len(t, reply.HashKey, 8)
				assert.Equal(t, "https://s.example/"+reply.HashKey, reply.ShortURL)

				targetURL, err := setup.shortLinkUseCase.GetLink(context.Background(), reply.HashKey)
				require.NoError(t, err)
				assert.Equal(t, "https://example.com/a", targetURL)

				again, err := setup.client.CreateLink(ctx, &domain.CreateLinkRequest{RedirectURL: "https://example.com/a"})
				require.NoError(t, err)
				assert.Equal(t, reply.HashKey, again.HashKey)

				_, err = setup.client.DeleteLink(ctx, &domain.DeleteLinkRequest{HashKey: reply.HashKey})
				require.NoError(t, err)
				_, err = setup.shortLinkUseCase.GetLink(context.Background(), reply.HashKey)
				assert.ErrorIs(t, err, domain.ErrKeyNotFound)

				_, err = setup.client.DeleteLink(ctx, &domain.DeleteLinkRequest{HashKey: reply.HashKey})
				assert.NoError(t, err)
			},
		},
		{
			scenario: "missing api key",
			fn: func(t *testing.T) {
				setup := testSetupFn(t)

				_, err := setup.client.CreateLink(context.Background(), &domain.CreateLinkRequest{RedirectURL: "https://example.com/a"})
				assert.Equal(t, codes.Unauthenticated, status.Code(err))
			},
		},
		{
			scenario: "invalid url",
			fn: func(t *testing.T) {
				setup := testSetupFn(t)

				_, err := setup.client.CreateLink(withAPIKey(context.Background()), &domain.CreateLinkRequest{RedirectURL: "ftp://example.com"})
				assert.Equal(t, codes.InvalidArgument, status.Code(err))
				assert.Equal(t, "invalid url", status.Convert(err).Message())
			},
		},
		{
			scenario: "invalid key",
			fn: func(t *testing.T) {
				setup := testSetupFn(t)

				_, err := setup.client.DeleteLink(withAPIKey(context.Background()), &domain.DeleteLinkRequest{HashKey: "bad-key"})
				assert.Equal(t, codes.InvalidArgument, status.Code(err))
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.scenario, testCase.fn)
	}
}
