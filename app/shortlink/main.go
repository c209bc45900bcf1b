package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/go-kit/kit/endpoint"
	kitgrpc "github.com/go-kit/kit/transport/grpc"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/superj80820/url-shortener/domain"
	grpcKit "github.com/superj80820/url-shortener/kit/grpc"
	httpKit "github.com/superj80820/url-shortener/kit/http"
	httpMiddlewareKit "github.com/superj80820/url-shortener/kit/http/middleware"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
	ormKit "github.com/superj80820/url-shortener/kit/orm"
	redisKit "github.com/superj80820/url-shortener/kit/redis"
	traceKit "github.com/superj80820/url-shortener/kit/trace"
	utilKit "github.com/superj80820/url-shortener/kit/util"
	"github.com/superj80820/url-shortener/shortlink/delivery/background"
	deliveryGRPC "github.com/superj80820/url-shortener/shortlink/delivery/grpc"
	deliveryHTTP "github.com/superj80820/url-shortener/shortlink/delivery/http"
	linkMemoryRepo "github.com/superj80820/url-shortener/shortlink/repository/link/memory"
	linkORMRepo "github.com/superj80820/url-shortener/shortlink/repository/link/orm"
	lockMemoryRepo "github.com/superj80820/url-shortener/shortlink/repository/lock/memory"
	lockMySQLRepo "github.com/superj80820/url-shortener/shortlink/repository/lock/mysql"
	lockRedisRepo "github.com/superj80820/url-shortener/shortlink/repository/lock/redis"
	"github.com/superj80820/url-shortener/shortlink/usecase/link"
	"github.com/superj80820/url-shortener/shortlink/usecase/sweeper"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

const (
	SYSTEM_NAME     = "system"
	SERVICE_NAME    = "shortlink"
	SERVICE_VERSION = "0.1.0"
)

func main() {
	if err := utilKit.LoadEnvFile(".env"); err != nil {
		panic(err)
	}

	var (
		enableTracer = utilKit.GetEnvBool("ENABLE_TRACER", false)
		enableMetric = utilKit.GetEnvBool("ENABLE_METRIC", false)
		env          = utilKit.GetEnvString("ENV", "development")
		logPath      = utilKit.GetEnvString("LOG_PATH", "./go.log")
		httpAddr     = utilKit.GetEnvString("HTTP_ADDR", ":9090")
		grpcAddr     = utilKit.GetEnvString("GRPC_ADDR", ":8083")

		dbDriver    = utilKit.GetEnvString("DB_DRIVER", "sqlite")
		dbDSN       = utilKit.GetEnvString("DB_DSN", "./shortlink.db")
		lockBackend = utilKit.GetEnvString("LOCK_BACKEND", "memory")
		redisURI    = utilKit.GetEnvString("REDIS_URI", "localhost:6379")

		redirectionDomain = utilKit.GetEnvString("REDIRECTION_DOMAIN", "http://localhost:9090")
		codeLength        = utilKit.GetEnvInt("SHORT_CODE_LENGTH", 8)
		codeRetry         = utilKit.GetEnvInt("SHORT_CODE_RETRY", 3)
		maxURLLength      = utilKit.GetEnvInt("MAX_URL_LENGTH", 2048)
		lockTimeout       = time.Duration(utilKit.GetEnvInt("LOCK_TIMEOUT_SECONDS", 3)) * time.Second
		expiration        = time.Duration(utilKit.GetEnvInt("DEFAULT_EXPIRATION_DAYS", 7)) * 24 * time.Hour
		sweepBatchSize    = utilKit.GetEnvInt("SWEEP_BATCH_SIZE", 500)
		sweepInterval     = time.Duration(utilKit.GetEnvInt("SWEEP_INTERVAL_SECONDS", 3600)) * time.Second
		snowflakeNode     = utilKit.GetEnvInt64("SNOWFLAKE_NODE", 1)
		apiKey            = utilKit.GetEnvString("API_KEY", "")
	)

	logLevel := loggerKit.InfoLevel
	if env == "development" {
		logLevel = loggerKit.DebugLevel
	}
	logger, err := loggerKit.NewLogger(logPath, logLevel, loggerKit.WithRotateLog(100, 10, 30))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var tracer trace.Tracer
	if enableTracer {
		var shutdown traceKit.ShutdownFunc
		tracer, shutdown, err = traceKit.CreateTracer(context.Background(), SERVICE_NAME, SERVICE_VERSION)
		if err != nil {
			panic(err)
		}
		defer shutdown(context.Background())
	} else {
		tracer = traceKit.CreateNoOpTracer()
	}

	uniqueIDGenerate, err := utilKit.CreateUniqueIDGenerate(snowflakeNode)
	if err != nil {
		panic(err)
	}

	var (
		shortLinkRepo domain.ShortLinkRepo
		db            *ormKit.DB
	)
	switch dbDriver {
	case "memory":
		shortLinkRepo = linkMemoryRepo.CreateShortLinkRepo()
	case "mysql", "postgres", "sqlite":
		db, err = createDB(dbDriver, dbDSN)
		if err != nil {
			panic(err)
		}
		defer db.Close()
		if !db.IsMySQL() {
			if err := linkORMRepo.AutoMigrate(db); err != nil {
				panic(err)
			}
		}
		shortLinkRepo = linkORMRepo.CreateShortLinkRepo(db)
	default:
		panic("unknown db driver: " + dbDriver)
	}

	var dedupLockRepo domain.DedupLockRepo
	switch lockBackend {
	case "memory":
		dedupLockRepo = lockMemoryRepo.CreateDedupLockRepo(logger)
	case "mysql":
		if db == nil {
			panic("mysql lock needs DB_DRIVER=mysql")
		}
		dedupLockRepo, err = lockMySQLRepo.CreateDedupLockRepo(db, logger)
		if err != nil {
			panic(err)
		}
	case "redis":
		cache, err := redisKit.CreateCache(redisURI, "", 0)
		if err != nil {
			panic(err)
		}
		defer cache.Close()
		dedupLockRepo = lockRedisRepo.CreateDedupLockRepo(cache, logger)
	default:
		panic("unknown lock backend: " + lockBackend)
	}

	shortLinkUseCase := link.CreateShortLinkUseCase(
		shortLinkRepo,
		dedupLockRepo,
		uniqueIDGenerate,
		logger,
		redirectionDomain,
		link.WithCodeLength(codeLength),
		link.WithRetry(codeRetry),
		link.WithMaxURLLength(maxURLLength),
		link.WithLockTimeout(lockTimeout),
		link.WithExpiration(expiration),
	)
	expirySweeperUseCase := sweeper.CreateExpirySweeperUseCase(shortLinkRepo, logger, sweeper.WithBatchSize(sweepBatchSize))

	middlewares := []endpoint.Middleware{httpMiddlewareKit.CreateLoggingMiddleware(logger)}
	if enableMetric {
		middlewares = append(middlewares, httpMiddlewareKit.CreateMetrics(SYSTEM_NAME, SERVICE_NAME, prometheus.DefaultRegisterer))
	}
	customMiddleware := endpoint.Chain(middlewares[0], middlewares[1:]...)

	grpcListener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		panic(err)
	}

	g := new(run.Group)
	{
		g.Add(run.SignalHandler(context.Background(), os.Interrupt, syscall.SIGTERM))
	}
	{
		baseServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
			kitgrpc.Interceptor,
			grpcKit.CreateTraceInterceptor(tracer),
			grpcKit.CreateAPIKeyInterceptor(apiKey),
		))
		domain.RegisterShortLinkServer(baseServer, deliveryGRPC.CreateShortLinkServer(shortLinkUseCase, customMiddleware))
		g.Add(func() error {
			logger.Info("grpc server started", loggerKit.String("addr", grpcAddr))
			return baseServer.Serve(grpcListener)
		}, func(err error) {
			baseServer.GracefulStop()
			grpcListener.Close()
		})
	}
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			return background.RunAsyncExpirySweep(ctx, expirySweeperUseCase, logger, sweepInterval)
		}, func(err error) {
			cancel()
		})
	}
	{
		r := mux.NewRouter()
		if enableMetric {
			r.Handle("/metrics", promhttp.Handler())
		}
		deliveryHTTP.MakeHandler(
			r,
			shortLinkUseCase,
			customMiddleware,
			httpMiddlewareKit.CreateAPIKeyMiddleware(apiKey),
			httptransport.ServerBefore(httpKit.CustomBeforeCtx(tracer)),
			httptransport.ServerAfter(httpKit.CustomAfterCtx),
			httptransport.ServerErrorEncoder(httpKit.EncodeHTTPErrorResponse()),
		)
		httpSrv := http.Server{
			Addr:    httpAddr,
			Handler: r,
		}
		g.Add(func() error {
			logger.Info("http server started", loggerKit.String("addr", httpAddr))
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}, func(err error) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			httpSrv.Shutdown(ctx)
		})
	}
	if err := g.Run(); err != nil {
		logger.Info("shortlink stopped", loggerKit.Error(err))
	}
}

func createDB(dbDriver, dbDSN string) (*ormKit.DB, error) {
	switch dbDriver {
	case "mysql":
		return ormKit.CreateDB(ormKit.UseMySQL(dbDSN))
	case "postgres":
		return ormKit.CreateDB(ormKit.UsePostgres(dbDSN))
	case "sqlite":
		return ormKit.CreateDB(ormKit.UseSQLite(dbDSN), ormKit.WithMaxOpenConns(1))
	}
	return nil, errors.New("unknown db driver: " + dbDriver)
}
