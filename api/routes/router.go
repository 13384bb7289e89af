package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/egorvolkov/storefront-backend/api/controllers"
	"github.com/egorvolkov/storefront-backend/api/middleware"
	"github.com/egorvolkov/storefront-backend/internal/auth"
	"github.com/egorvolkov/storefront-backend/internal/cart"
	"github.com/egorvolkov/storefront-backend/internal/catalog"
	"github.com/egorvolkov/storefront-backend/internal/orders"
	"github.com/egorvolkov/storefront-backend/internal/users"
	"github.com/egorvolkov/storefront-backend/pkg/auth/session"
	"github.com/egorvolkov/storefront-backend/pkg/config"
	"github.com/egorvolkov/storefront-backend/pkg/db"
	"github.com/egorvolkov/storefront-backend/pkg/logger"
	"github.com/egorvolkov/storefront-backend/pkg/metrics"
	"github.com/egorvolkov/storefront-backend/pkg/redis"
)

// Deps bundles everything the router needs to wire the handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	SessionChecker  session.AccessSessionChecker
	HTTPMetrics     *metrics.HTTPMetrics
	AuthService     auth.Service
	RegisterService auth.RegisterService
	CatalogService  catalog.Service
	CartService     cart.Service
	OrdersService   orders.Service
	UsersRepo       *users.Repository
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
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).
			Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	// Public catalog browsing.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", controllers.CategoryList(deps.CatalogService, logg))
		r.Get("/categories/{categoryId}", controllers.CategoryDetail(deps.CatalogService, logg))
		r.Get("/products", controllers.ProductList(deps.CatalogService, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(deps.CatalogService, logg))
		r.Get("/products/{productId}/photo", controllers.ProductPhotoDownload(deps.CatalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Get("/me", controllers.UserProfile(deps.UsersRepo, logg))
		r.Patch("/me", controllers.UserProfileUpdate(deps.UsersRepo, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Put("/items/{itemId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/checkout", controllers.Checkout(deps.OrdersService, logg))
			r.Get("/", controllers.OrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))

			r.Get("/users", controllers.AdminUserList(deps.UsersRepo, logg))
			r.Delete("/users/{userId}", controllers.AdminUserDelete(deps.UsersRepo, logg))

			r.Post("/categories", controllers.CategoryCreate(deps.CatalogService, logg))
			r.Patch("/categories/{categoryId}", controllers.CategoryRename(deps.CatalogService, logg))
			r.Delete("/categories/{categoryId}", controllers.CategoryDelete(deps.CatalogService, logg))

			r.Post("/products", controllers.ProductCreate(deps.CatalogService, logg))
			r.Patch("/products/{productId}", controllers.ProductUpdate(deps.CatalogService, logg))
			r.Delete("/products/{productId}", controllers.ProductDelete(deps.CatalogService, logg))
			r.Post("/products/{productId}/photo", controllers.ProductPhotoUpload(deps.CatalogService, cfg.Media.MaxUploadBytes(), logg))

			r.Get("/orders", controllers.AdminOrderList(deps.OrdersService, logg))
			r.Patch("/orders/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.OrdersService, logg))
		})
	})

	return r
}
