package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/totegamma/brandproof/internal/config"
	"github.com/totegamma/brandproof/internal/domain"
	"github.com/totegamma/brandproof/internal/infra/cache"
	"github.com/totegamma/brandproof/internal/infra/database"
	"github.com/totegamma/brandproof/internal/infra/repository"
	"github.com/totegamma/brandproof/internal/present/rest"
	"github.com/totegamma/brandproof/internal/service"
	"github.com/totegamma/brandproof/internal/usecase"
)

const serviceName = "brandproof"

func main() {
	configPath := flag.String("config", "", "path to config yaml")
	seedDir := flag.String("seed", "", "directory of brand json files to store in postgres before serving")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(conf.Server.LogLevel),
	})))

	ctx := context.Background()

	if conf.Trace.Enable {
		cleanup, err := setupTraceProvider(ctx, conf.Trace.Endpoint)
		if err != nil {
			slog.Error("failed to setup tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cleanup()
	}

	brands, invalidator, err := setupBrands(ctx, conf.Brands, *seedDir, conf.Server.LogLevel == "debug")
	if err != nil {
		slog.Error("failed to setup brand store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	recovery, err := domain.ParseLedgerRecovery(conf.Ledger.OnCorrupt)
	if err != nil {
		slog.Error("invalid ledger config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	ledger := repository.NewFileLedgerRepository(recovery)

	var opts []usecase.Option
	var realtime rest.Realtime
	if conf.Redis.Addr != "" {
		rdb, err := database.NewRedis(ctx, conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			slog.Error("failed to connect redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		signal := service.NewSignalService(rdb)
		opts = append(opts, usecase.WithPublisher(signal))
		realtime = signal
	}

	validate := usecase.NewValidateUsecase(brands, ledger, opts...)
	auth := service.NewAuthService(conf.Server.APIToken)
	if !auth.Enabled() {
		slog.Warn("no api token configured, endpoints are open")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if conf.Trace.Enable {
		e.Use(otelecho.Middleware(serviceName))
	}

	rest.NewHandler(validate, auth, realtime, invalidator).RegisterRoutes(e)

	slog.Info("brandproof starting", slog.String("listen", conf.Server.Listen), slog.String("brands", conf.Brands.Source))
	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

func setupBrands(ctx context.Context, conf config.Brands, seedDir string, debug bool) (usecase.BrandRepository, rest.Invalidator, error) {
	var brands usecase.BrandRepository
	switch conf.Source {
	case "postgres":
		db, err := database.NewPostgres(conf.PostgresDsn, debug)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigratePostgres(db); err != nil {
			return nil, nil, err
		}
		store := repository.NewPostgresBrandRepository(db)
		if seedDir != "" {
			n, err := store.Seed(ctx, repository.NewFileBrandRepository(seedDir))
			if err != nil {
				return nil, nil, err
			}
			slog.Info("brands seeded", slog.Int("count", n), slog.String("dir", seedDir))
		}
		brands = store
	default:
		if seedDir != "" {
			slog.Warn("-seed only applies to the postgres brand source", slog.String("dir", seedDir))
		}
		brands = repository.NewFileBrandRepository(conf.Dir)
	}

	var cached *repository.CachedBrandRepository
	switch conf.Cache {
	case "memory":
		cached = repository.NewCachedBrandRepository(brands, cache.NewMemoryCache(conf.CacheTTL))
	case "memcached":
		mc := database.NewMemcached(conf.MemcachedAddr)
		cached = repository.NewCachedBrandRepository(brands, cache.NewMemcacheCache(mc, conf.CacheTTL))
	default:
		return brands, nil, nil
	}
	return cached, cached, nil
}

func setupTraceProvider(ctx context.Context, endpoint string) (func(), error) {
	exporter, err := otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(1))),
	)
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown tracer provider", slog.String("error", err.Error()))
		}
	}, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
