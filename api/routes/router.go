package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dwiprasetya/laundrypos-backend/api/controllers"
	"github.com/dwiprasetya/laundrypos-backend/api/middleware"
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
	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
	"github.com/dwiprasetya/laundrypos-backend/pkg/logger"
	"github.com/dwiprasetya/laundrypos-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers. cmd/api builds
// one of these after bootstrapping the clients and services.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger       pinger
	RedisClient    *redis.Client
	PubSubPinger   pinger
	BigQueryPinger pinger

	Sessions session.AccessSessionChecker

	Auth      auth.Service
	Catalog   catalog.Service
	Customers customers.Service
	POS       pos.Service
	Orders    orders.Service
	Reports   reports.Service
	Settings  settings.Service
	Outlets   outlets.Service
	Users     users.Service
}

type pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisClient, deps.PubSubPinger, deps.BigQueryPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.RedisClient, logg))

		r.Get("/catalog", controllers.CatalogIndex(deps.Catalog, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerSearch(deps.Customers, logg))
			r.Post("/", controllers.CustomerCreate(deps.Customers, logg))
			r.Get("/{customerID}", controllers.CustomerDetail(deps.Customers, logg))
			r.Put("/{customerID}/address", controllers.CustomerUpdateAddress(deps.Customers, logg))
			r.Post("/{customerID}/reactivate", controllers.CustomerReactivate(deps.Customers, logg))
			r.Post("/{customerID}/deactivate", controllers.CustomerDeactivate(deps.Customers, logg))
		})

		r.Route("/pos", func(r chi.Router) {
			r.Post("/quote", controllers.POSQuote(deps.POS, logg))
			r.Post("/checkout", controllers.POSCheckout(deps.POS, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderID}", controllers.OrderDetail(deps.Orders, logg))
			r.Get("/{orderID}/stages", controllers.OrderStageLogs(deps.Orders, logg))
			r.Post("/{orderID}/stage", controllers.OrderAdvanceStage(deps.Orders, logg))
			r.Post("/{orderID}/settle", controllers.OrderSettle(deps.Orders, logg))
		})

		// everything below is owner only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.StaffRoleOwner), logg))

			r.Route("/catalog", func(r chi.Router) {
				r.Post("/categories", controllers.CategoryCreate(deps.Catalog, logg))
				r.Post("/services", controllers.ServiceCreate(deps.Catalog, logg))
				r.Post("/packages", controllers.PackageCreate(deps.Catalog, logg))
				r.Put("/packages/{packageID}", controllers.PackageUpdate(deps.Catalog, logg))
				r.Post("/packages/{packageID}/deactivate", controllers.PackageDeactivate(deps.Catalog, logg))
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", controllers.SettingsGet(deps.Settings, logg))
				r.Put("/", controllers.SettingsUpdate(deps.Settings, logg))
			})

			r.Route("/outlets", func(r chi.Router) {
				r.Get("/", controllers.OutletList(deps.Outlets, logg))
				r.Post("/", controllers.OutletCreate(deps.Outlets, logg))
				r.Get("/{outletID}", controllers.OutletDetail(deps.Outlets, logg))
				r.Post("/{outletID}/deactivate", controllers.OutletDeactivate(deps.Outlets, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UserList(deps.Users, logg))
				r.Post("/", controllers.UserCreate(deps.Users, logg))
				r.Get("/{userID}", controllers.UserDetail(deps.Users, logg))
				r.Put("/{userID}", controllers.UserUpdate(deps.Users, logg))
				r.Post("/{userID}/reset-password", controllers.UserResetPassword(deps.Users, logg))
				r.Post("/{userID}/deactivate", controllers.UserDeactivate(deps.Users, logg))
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/revenue", controllers.ReportRevenueByOutlet(deps.Reports, logg))
				r.Get("/daily", controllers.ReportDailyRevenue(deps.Reports, logg))
				r.Get("/backlog", controllers.ReportStageBacklog(deps.Reports, logg))
			})
		})
	})

	return r
}
