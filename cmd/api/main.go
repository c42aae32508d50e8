package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-inventory-orders/internal/catalog"
	"github.com/ariefcatur/go-inventory-orders/internal/config"
	"github.com/ariefcatur/go-inventory-orders/internal/httpx"
	kafkax "github.com/ariefcatur/go-inventory-orders/internal/kafka"
	"github.com/ariefcatur/go-inventory-orders/internal/memstore"
	"github.com/ariefcatur/go-inventory-orders/internal/orders"
	"github.com/ariefcatur/go-inventory-orders/internal/postgres"
	"github.com/ariefcatur/go-inventory-orders/internal/redisx"
	"github.com/ariefcatur/go-inventory-orders/internal/users"
)

func main() {
	_ = godotenv.Load()

	log, _ := zap.NewProduction()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores: postgres (default) atau memory untuk local dev.
	var (
		orderStore   orders.Store
		catalogStore catalog.Store
		userStore    users.Store
	)
	switch cfg.StoreDriver {
	case "memory":
		mem := memstore.New()
		orderStore, catalogStore, userStore = mem.Orders(), mem.Catalog(), mem.Users()
		log.Warn("running with in-memory store; data is not persisted")
	default:
		if err := postgres.Migrate(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("db connect", zap.Error(err))
		}
		defer db.Close()
		orderStore = &orders.PostgresStore{DB: db}
		catalogStore = &catalog.Repo{DB: db}
		userStore = &users.Repo{DB: db}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	orderEvents := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, log)
	orderEvents.Start()
	stockEvents := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicStockDepleted, 256, log)
	stockEvents.Start()

	// Services
	auth := &users.AuthService{
		Users:    userStore,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
		Log:      log,
	}
	catalogSvc := &catalog.Service{Store: catalogStore, Log: log}
	orderSvc := &orders.Service{
		Store:       orderStore,
		Users:       userStore,
		OrderEvents: orderEvents,
		StockEvents: stockEvents,
		ServiceName: cfg.ServiceName,
		Log:         log,
	}

	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		if err := auth.EnsureAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			log.Fatal("seed admin", zap.Error(err))
		}
	}

	// HTTP
	router := httpx.NewRouter()
	(&httpx.AuthHandler{Auth: auth}).Register(router)
	(&httpx.ProductsHandler{Catalog: catalogSvc, Auth: auth}).Register(router)
	(&httpx.OrdersHandler{Orders: orderSvc, Auth: auth, Redis: rdb}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exit", zap.Error(err))
	}

	log.Info("shutting down...")
	orderEvents.Close() // tutup inbox -> flush & close writer
	stockEvents.Close()
	orderEvents.WaitClosed()
	stockEvents.WaitClosed()
}
