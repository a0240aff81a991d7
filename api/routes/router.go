package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rmarquezdev/supplycart-backend/api/controllers"
	"github.com/rmarquezdev/supplycart-backend/api/middleware"
	"github.com/rmarquezdev/supplycart-backend/internal/auth"
	"github.com/rmarquezdev/supplycart-backend/internal/cart"
	checkoutsvc "github.com/rmarquezdev/supplycart-backend/internal/checkout"
	"github.com/rmarquezdev/supplycart-backend/internal/notifications"
	"github.com/rmarquezdev/supplycart-backend/internal/orders"
	"github.com/rmarquezdev/supplycart-backend/pkg/auth/session"
	"github.com/rmarquezdev/supplycart-backend/pkg/config"
	"github.com/rmarquezdev/supplycart-backend/pkg/db"
	"github.com/rmarquezdev/supplycart-backend/pkg/logger"
	"github.com/rmarquezdev/supplycart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/validate", controllers.PublicValidate(logg))
	})

	// Legacy alias kept for clients that predate the /api/v1 prefix.
	r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		// Idempotency attaches per route: the middleware resolves its TTL
		// from the terminal route pattern, which is only composed once
		// routing reaches the endpoint.
		idempotency := middleware.Idempotency(redisClient, logg)

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Put("/items/{productId}", controllers.CartUpdateItem(cartService, logg))
			r.Put("/items/{productId}/supplier", controllers.CartSelectSupplier(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.With(idempotency).Post("/v1/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.With(idempotency).Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.With(idempotency).Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})
	})

	return r
}
