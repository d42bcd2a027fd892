package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dwiprasetya/laundrypos-backend/api/routes"
	"github.com/dwiprasetya/laundrypos-backend/internal/auth"
	"github.com/dwiprasetya/laundrypos-backend/internal/catalog"
	"github.com/dwiprasetya/laundrypos-backend/internal/customers"
	"github.com/dwiprasetya/laundrypos-backend/internal/orders"
	"github.com/dwiprasetya/laundrypos-backend/internal/outlets"
	"github.com/dwiprasetya/laundrypos-backend/internal/pos"
	"github.com/dwiprasetya/laundrypos-backend/internal/reports"
	"github.com/dwiprasetya/laundrypos-backend/internal/settings"
	"github.com/dwiprasetya/laundrypos-backend/internal/users"
	"github.com/dwiprasetya/laundrypos-backend/pkg/auth/session"
	"github.com/dwiprasetya/laundrypos-backend/pkg/config"
	"github.com/dwiprasetya/laundrypos-backend/pkg/db"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
	"github.com/dwiprasetya/laundrypos-backend/pkg/metrics"
	"github.com/dwiprasetya/laundrypos-backend/pkg/migrate"
	"github.com/dwiprasetya/laundrypos-backend/pkg/outbox"
	"github.com/dwiprasetya/laundrypos-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	gormDB := dbClient.DB()

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB))
	requireResource(ctx, logg, "catalog service", err)

	settingsService, err := settings.NewService(settings.NewRepository(gormDB))
	requireResource(ctx, logg, "settings service", err)

	customersRepo := customers.NewRepository(gormDB)
	customersService, err := customers.NewService(customersRepo)
	requireResource(ctx, logg, "customers service", err)

	outletsService, err := outlets.NewService(outlets.NewRepository(gormDB))
	requireResource(ctx, logg, "outlets service", err)

	usersService, err := users.NewService(users.NewRepository(gormDB), outletsService, cfg.Password)
	requireResource(ctx, logg, "users service", err)

	authService, err := auth.NewService(usersService, sessionManager, cfg.JWT, logg)
	requireResource(ctx, logg, "auth service", err)

	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	ordersService, err := orders.NewService(
		orders.NewRepository(gormDB),
		customersRepo,
		catalogService,
		settingsService,
		outletsService,
		dbClient,
		redisClient,
		outboxService,
		logg,
		metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
	)
	requireResource(ctx, logg, "orders service", err)

	posService, err := pos.NewService(catalogService, settingsService, customersService, ordersService)
	requireResource(ctx, logg, "pos service", err)

	reportsService, err := reports.NewService(reports.NewRepository(gormDB))
	requireResource(ctx, logg, "reports service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DBPinger:    dbClient,
			RedisClient: redisClient,
			Sessions:    sessionManager,
			Auth:        authService,
			Catalog:     catalogService,
			Customers:   customersService,
			POS:         posService,
			Orders:      ordersService,
			Reports:     reportsService,
			Settings:    settingsService,
			Outlets:     outletsService,
			Users:       usersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
