package router

import (
	"net/http"

	"threadcart/internal/handler"
	"threadcart/internal/middleware"
	"threadcart/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	webhookHandler *handler.WebhookHandler,
	accountHandler *handler.AccountHandler,
	adminHandler *handler.AdminHandler,
	sessions session.Store,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: Recovery -> Logging -> CORS -> Auth
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Auth(sessions, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Public catalogue and auth routes
		r.Get("/products", catalogHandler.List)
		r.Get("/products/{slug}", catalogHandler.Get)
		r.Get("/categories", catalogHandler.Categories)

		r.Post("/auth/signup", accountHandler.Signup)
		r.Post("/auth/login", accountHandler.Login)

		// Provider callback, authenticated by signature instead of session
		r.Post("/checkout/webhook", webhookHandler.Handle)

		// Customer routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/cart", cartHandler.Get)
			r.Delete("/cart", cartHandler.Clear)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{productId}", cartHandler.SetQuantity)
			r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)

			r.Post("/checkout/session", checkoutHandler.CreateSession)

			r.Get("/dashboard", accountHandler.Dashboard)
			r.Get("/orders", accountHandler.Orders)
			r.Get("/addresses", accountHandler.Addresses)

			r.Get("/wishlist", accountHandler.Wishlist)
			r.Post("/wishlist", accountHandler.AddToWishlist)
			r.Delete("/wishlist/{productId}", accountHandler.RemoveFromWishlist)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/admin/cleanup", adminHandler.Cleanup)
		})
	})

	return r
}
