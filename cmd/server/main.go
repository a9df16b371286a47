package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/webshop/internal/config"
	"github.com/Skotchmaster/webshop/internal/db"
	"github.com/Skotchmaster/webshop/internal/es"
	"github.com/Skotchmaster/webshop/internal/handlers"
	"github.com/Skotchmaster/webshop/internal/logging"
	"github.com/Skotchmaster/webshop/internal/metrics"
	"github.com/Skotchmaster/webshop/internal/middleware/auth"
	"github.com/Skotchmaster/webshop/internal/models"
	"github.com/Skotchmaster/webshop/internal/mykafka"
	"github.com/Skotchmaster/webshop/internal/repo"
	"github.com/Skotchmaster/webshop/internal/service"
	"github.com/Skotchmaster/webshop/internal/tokens"
	httpserver "github.com/Skotchmaster/webshop/internal/transport/http"
)

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		logger.Error("db_open_failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		cancel()
		logger.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	prod, err := mykafka.New(cfg.KafkaBrokers)
	if err != nil {
		cancel()
		logger.Error("kafka_init_failed", "error", err)
		os.Exit(1)
	}

	index, err := es.New(ctx, es.Config{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex})
	if err != nil {
		logger.Warn("es_unavailable", "error", err)
		index = es.Noop{}
	}
	if client, ok := index.(*es.Client); ok {
		if err := client.EnsureIndex(ctx); err != nil {
			logger.Warn("es_ensure_index_failed", "error", err)
		}
	}
	cancel()

	m := metrics.New(cfg.ServiceName)
	store := &repo.GormRepo{DB: gdb}
	products := repo.NewStore[models.Product](gdb)

	authSvc := &service.AuthService{
		Store:   store,
		Access:  tokens.NewCodec(cfg.JWTAccessSecret, cfg.Tokens.AccessTTL, tokens.WithIssuer(cfg.Tokens.Issuer)),
		Refresh: tokens.NewCodec(cfg.JWTRefreshSecret, cfg.Tokens.RefreshTTL, tokens.WithIssuer(cfg.Tokens.Issuer)),
		Events:  prod,
		Metrics: m,
	}
	userSvc := &service.UserService{Creds: store, Users: repo.NewStore[models.User](gdb), Events: prod}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userSvc.EnsureUser(seedCtx, cfg.AdminUsername, cfg.AdminPassword, models.RoleAdmin); err != nil {
		seedCancel()
		logger.Error("admin_seed_failed", "error", err)
		os.Exit(1)
	}
	seedCancel()

	e := httpserver.NewEcho(logger, m)
	httpserver.Register(e, &httpserver.Deps{
		Gate:    auth.NewGate(authSvc, m),
		Metrics: m,
		Health:  &handlers.HealthHTTP{DB: gdb},
		Auth:    &handlers.AuthHTTP{Svc: authSvc},
		Users:   &handlers.UsersHTTP{Svc: userSvc},
		Catalog: &handlers.CatalogHTTP{Svc: &service.CatalogService{Products: products, Index: index, Events: prod}},
		Orders:  &handlers.OrdersHTTP{Svc: &service.OrderService{Repo: &repo.OrderRepo{DB: gdb}, Events: prod}},
		Reviews: &handlers.ReviewsHTTP{Svc: &service.ReviewService{Reviews: repo.NewStore[models.Review](gdb), Products: products}},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if err := prod.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
