package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SaraKachchaf/flowermarketneo4j/api/controllers"
	"github.com/SaraKachchaf/flowermarketneo4j/api/middleware"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/admin"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/auth"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/cart"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/marketplace"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/notifications"
	"github.com/SaraKachchaf/flowermarketneo4j/internal/prestataire"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/logger"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	GraphPinger   controllers.Pinger
	Redis         *redis.Client
	Auth          auth.Service
	Admin         admin.Service
	Prestataire   prestataire.Service
	Marketplace   marketplace.Service
	Cart          cart.Service
	Notifications notifications.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	authed := middleware.Auth(cfg.JWT, logg)
	adminOnly := middleware.RequireRole(logg, enums.RoleAdmin)
	prestataireOnly := middleware.RequireRole(logg, enums.RolePrestataire)
	clientOnly := middleware.RequireRole(logg, enums.RoleClient)

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

	var cache controllers.Pinger
	var limiter middleware.RateLimiterStore
	if deps.Redis != nil {
		cache = deps.Redis
		limiter = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.GraphPinger, cache))
	})
	r.Get("/api/ping", controllers.PublicPing())

	r.Route("/api/Auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).
			Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).
			Post("/register-prestataire", controllers.AuthRegisterPrestataire(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
			Post("/send-verification", controllers.AuthSendVerification(deps.Auth, logg))
		r.Post("/verify-email", controllers.AuthVerifyEmail(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Get("/me", controllers.AuthMe(deps.Auth, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authed, adminOnly)
		r.Get("/me", controllers.AuthMe(deps.Auth, logg))
		r.Get("/stats", controllers.AdminStats(deps.Admin, logg))
		r.Get("/users", controllers.AdminListUsers(deps.Admin, logg))
		r.Delete("/users/{id}", controllers.AdminDeleteUser(deps.Admin, logg))
		r.Get("/products", controllers.AdminListProducts(deps.Admin, logg))
		r.Get("/orders", controllers.AdminListOrders(deps.Admin, logg))
		r.Get("/prestataires", controllers.AdminListPrestataires(deps.Admin, logg))
		r.Get("/prestataires/pending", controllers.AdminPendingPrestataires(deps.Admin, logg))
		r.Post("/prestataires/{id}/approve", controllers.AdminApprovePrestataire(deps.Admin, logg))
		r.Delete("/prestataires/{id}/reject", controllers.AdminRejectPrestataire(deps.Admin, logg))
		r.Get("/notifications", controllers.AdminNotifications(deps.Notifications, logg))
		r.Put("/notifications/{id}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
	})

	r.Route("/api/prestataire", func(r chi.Router) {
		r.Use(authed)

		r.Group(func(r chi.Router) {
			r.Use(prestataireOnly)
			r.Get("/store", controllers.PrestataireStore(deps.Prestataire, logg))
			r.Post("/store", controllers.PrestataireUpsertStore(deps.Prestataire, logg))
			r.Get("/products", controllers.PrestataireProducts(deps.Prestataire, logg))
			r.Post("/products", controllers.PrestataireAddProduct(deps.Prestataire, logg))
			r.Put("/products/{id}", controllers.PrestataireUpdateProduct(deps.Prestataire, logg))
			r.Delete("/products/{id}", controllers.PrestataireDeleteProduct(deps.Prestataire, logg))
			r.Get("/orders", controllers.PrestataireOrders(deps.Prestataire, logg))
			r.Put("/orders/{id}/status", controllers.PrestataireUpdateOrderStatus(deps.Prestataire, logg))
			r.Get("/stats", controllers.PrestataireStats(deps.Prestataire, logg))
			r.Get("/reviews", controllers.PrestataireReviews(deps.Prestataire, logg))
			r.Get("/promotions", controllers.PrestatairePromotions(deps.Prestataire, logg))
			r.Post("/promotions", controllers.PrestataireAddPromotion(deps.Prestataire, logg))
			r.Put("/promotions/{id}", controllers.PrestataireUpdatePromotion(deps.Prestataire, logg))
			r.Delete("/promotions/{id}", controllers.PrestataireDeletePromotion(deps.Prestataire, logg))
			r.Get("/notifications", controllers.PrestataireNotifications(deps.Notifications, logg))
			r.Put("/notifications/{id}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
		})

		// Review mutations stay under the vendor prefix for frontend
		// compatibility, but only the review's author (a client) may call them.
		r.Group(func(r chi.Router) {
			r.Use(clientOnly)
			r.Post("/reviews", controllers.ReviewCreate(deps.Prestataire, logg))
			r.Put("/reviews/{id}", controllers.ReviewUpdate(deps.Prestataire, logg))
			r.Delete("/reviews/{id}", controllers.ReviewDelete(deps.Prestataire, logg))
		})
	})

	r.Route("/api/market", func(r chi.Router) {
		r.Get("/products", controllers.MarketProducts(deps.Marketplace, logg))
		r.Get("/promoted", controllers.MarketPromotedProducts(deps.Marketplace, logg))
		r.Post("/track-visit", controllers.MarketTrackVisit(deps.Marketplace, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed, clientOnly)
			r.Post("/orders", controllers.MarketPlaceOrder(deps.Marketplace, logg))
			r.Get("/my-orders", controllers.MarketMyOrders(deps.Marketplace, logg))
			r.Post("/orders/{id}/pay", controllers.MarketPayOrder(deps.Marketplace, logg))
			r.Delete("/orders/{id}", controllers.MarketDeleteOrder(deps.Marketplace, logg))
		})
	})

	r.Route("/api/Cart", func(r chi.Router) {
		r.Use(authed, clientOnly)
		r.Get("/", controllers.CartGet(deps.Cart, logg))
		r.Post("/add", controllers.CartAdd(deps.Cart, logg))
		r.Put("/update/{productId}", controllers.CartUpdateQuantity(deps.Cart, logg))
		r.Delete("/remove/{productId}", controllers.CartRemove(deps.Cart, logg))
		r.Delete("/clear", controllers.CartClear(deps.Cart, logg))
		r.Post("/checkout", controllers.CartCheckout(deps.Cart, logg))
	})

	return r
}
