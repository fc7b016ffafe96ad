package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	cartapp "github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/adapter"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/memory"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/notify"
	cartpg "github.com/dwikikusuma/shoping-cart/internal/cart/infra/postgres"
	cartmq "github.com/dwikikusuma/shoping-cart/internal/cart/infra/rabbitmq"
	cartredis "github.com/dwikikusuma/shoping-cart/internal/cart/infra/redis"
	"github.com/dwikikusuma/shoping-cart/internal/cart/rest"

	catalogapp "github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shoping-cart/internal/catalog/infra/httpapi"

	"github.com/dwikikusuma/shoping-cart/pkg/config"
	"github.com/dwikikusuma/shoping-cart/pkg/logger"
	"github.com/dwikikusuma/shoping-cart/pkg/metrics"
	"github.com/dwikikusuma/shoping-cart/pkg/postgres"
	"github.com/dwikikusuma/shoping-cart/pkg/rabbitmq"
	"github.com/dwikikusuma/shoping-cart/pkg/redis"
	"github.com/dwikikusuma/shoping-cart/pkg/shutdown"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "cart",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
		Text:      cfg.AppEnv == "dev",
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("cart service stopped", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.CartID == "" {
		cfg.CartID = uuid.NewString()
		log.Warn("CART_ID not set, snapshot will not survive a restart", slog.String("cart_id", cfg.CartID))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Catalog
	catalogClient := httpapi.NewClient(cfg.CatalogURL, cfg.CatalogTimeout)
	catalogSvc := catalogapp.NewService(catalogClient, catalogClient)

	// Cart
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	notifier, closeNotifier, err := openNotifier(cfg, log)
	if err != nil {
		return err
	}
	defer closeNotifier()

	mgr, err := cartapp.NewManager(ctx, cartapp.Deps{
		Stock:    adapter.NewStockServiceReader(catalogSvc),
		Catalog:  adapter.NewCatalogServiceReader(catalogSvc),
		Store:    store,
		Notifier: notifier,
		Recorder: metrics.NewCartMetrics(reg),
		Logger:   log.With(slog.String("cart_id", cfg.CartID)),
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", metrics.Handler(reg))
	rest.NewServer(mgr, log, metrics.NewServerMetrics(reg, "cart")).Register(mux)

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", grpcAddr, err)
	}

	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", httpAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("grpc starting", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := shutdown.Graceful(ctx, 10*time.Second, server.Shutdown, func() {
			log.Warn("http shutdown timeout, closing connections")
			_ = server.Close()
		})
		if err != nil {
			log.Error("http shutdown error", slog.Any("err", err))
		}
		return nil
	})

	g.Go(func() error {
		_ = shutdown.Graceful(ctx, 10*time.Second, func(context.Context) error {
			hs.Shutdown()
			grpcServer.GracefulStop()
			return nil
		}, func() {
			log.Warn("graceful stop timeout, forcing stop")
			grpcServer.Stop()
		})
		return nil
	})

	<-ctx.Done()
	log.Info("shutdown requested")

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (cartapp.CartStore, func(), error) {
	switch cfg.CartStore {
	case "redis":
		rdb, err := redis.Open(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		key := cartredis.Key(cfg.CartKeyPrefix, cfg.CartID)
		log.Info("cart store: redis", slog.String("addr", cfg.Redis.Addr), slog.String("key", key))
		return cartredis.NewCartStore(rdb, key), closer(log, "redis", rdb), nil

	case "postgres":
		db, err := postgres.Open(postgres.Config{
			Host: cfg.Postgres.Host,
			Port: cfg.Postgres.Port,
			User: cfg.Postgres.User,
			Pass: cfg.Postgres.Pass,
			DB:   cfg.Postgres.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		store, err := cartpg.NewCartStore(db, cfg.CartID)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		log.Info("cart store: postgres", slog.String("host", cfg.Postgres.Host))
		return store, closer(log, "postgres", db), nil

	case "memory", "":
		log.Info("cart store: memory")
		return memory.NewCartStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown CART_STORE %q", cfg.CartStore)
	}
}

func openNotifier(cfg config.Config, log *slog.Logger) (cartapp.Notifier, func(), error) {
	notifiers := notify.Fanout{notify.NewLogNotifier(log)}
	if cfg.AMQPURL == "" {
		return notifiers, func() {}, nil
	}

	conn, ch, err := rabbitmq.SetupConn(cfg.AMQPURL, cfg.NotifyExchange, log)
	if err != nil {
		return nil, nil, err
	}
	mq := cartmq.NewNotifier(ch, cfg.NotifyExchange, cartmq.DefaultBuffer, log)
	notifiers = append(notifiers, mq)

	return notifiers, func() {
		mq.Close()
		_ = ch.Close()
		closer(log, "rabbitmq", conn)()
	}, nil
}

type closable interface {
	Close() error
}

func closer(log *slog.Logger, name string, c closable) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Error("close failed", slog.String("resource", name), slog.Any("err", err))
		}
	}
}
