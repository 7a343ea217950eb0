package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foamwash/foamwash-backend/api/controllers"
	"github.com/foamwash/foamwash-backend/api/middleware"
	authsvc "github.com/foamwash/foamwash-backend/internal/auth"
	bookingsvc "github.com/foamwash/foamwash-backend/internal/bookings"
	cartsvc "github.com/foamwash/foamwash-backend/internal/cart"
	"github.com/foamwash/foamwash-backend/internal/catalog"
	notificationsvc "github.com/foamwash/foamwash-backend/internal/notifications"
	quotesvc "github.com/foamwash/foamwash-backend/internal/quotes"
	reportsvc "github.com/foamwash/foamwash-backend/internal/reports"
	usersvc "github.com/foamwash/foamwash-backend/internal/users"
	"github.com/foamwash/foamwash-backend/pkg/auth/session"
	"github.com/foamwash/foamwash-backend/pkg/config"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	"github.com/foamwash/foamwash-backend/pkg/logger"
	"github.com/foamwash/foamwash-backend/pkg/metrics"
	"github.com/foamwash/foamwash-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps carries everything the router needs wired in.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Redis         *redis.Client
	Sessions      sessionManager
	HTTPMetrics   *metrics.HTTPMetrics
	Catalog       *catalog.Catalog
	Auth          authsvc.Service
	Cart          cartsvc.Service
	Quotes        quotesvc.Service
	Bookings      bookingsvc.Service
	Notifications notificationsvc.Service
	Users         usersvc.Service
	Reports       reportsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(deps.Catalog, logg))
			r.Get("/{serviceID}", controllers.CatalogGet(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Put("/items/{serviceID}/quantity", controllers.CartSetQuantity(deps.Cart, logg))
			r.Put("/items/{serviceID}/detail", controllers.CartSetDetail(deps.Cart, logg))
			r.Delete("/items/{serviceID}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/readiness", controllers.QuoteReadiness(deps.Quotes, logg))
			r.Post("/", controllers.QuoteGenerate(deps.Quotes, logg))
			r.Get("/", controllers.QuoteList(deps.Quotes, logg))
			r.Get("/{quotationID}", controllers.QuoteGet(deps.Quotes, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", controllers.BookingSchedule(deps.Bookings, logg))
			r.Post("/cancel-flow", controllers.BookingCancelFlow(deps.Bookings, logg))
			r.Get("/", controllers.BookingListMine(deps.Bookings, logg))
			r.Get("/{bookingID}", controllers.BookingGet(deps.Bookings, logg))
			r.Post("/{bookingID}/cancel", controllers.BookingCancel(deps.Bookings, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(deps.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.NotificationMarkRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(deps.Notifications, logg))
		})
	})

	r.Route("/api/employee/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole(enums.MemberRoleEmployee.String(), logg))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", controllers.TaskList(deps.Bookings, logg))
			r.Post("/{bookingID}/status", controllers.TaskUpdateStatus(deps.Bookings, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole(enums.MemberRoleAdmin.String(), logg))

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.AdminBookingList(deps.Bookings, logg))
			r.Post("/{bookingID}/assign", controllers.AdminBookingAssign(deps.Bookings, logg))
			r.Post("/{bookingID}/status", controllers.AdminBookingUpdateStatus(deps.Bookings, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.AdminUserCreate(deps.Users, logg))
			r.Get("/", controllers.AdminUserList(deps.Users, logg))
			r.Get("/{userID}", controllers.AdminUserGet(deps.Users, logg))
			r.Post("/{userID}/active", controllers.AdminUserSetActive(deps.Users, logg))
		})

		r.Get("/stats", controllers.AdminStats(deps.Reports, logg))
		r.Get("/reports/bookings.xlsx", controllers.AdminBookingsExport(deps.Reports, logg))
	})

	return r
}
