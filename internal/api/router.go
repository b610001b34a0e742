package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/example/ec-shop-core/internal/auth"
)

type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	Tokens       *auth.TokenService
	Logger       logrus.FieldLogger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandlers.Register)
			r.Post("/login", cfg.AuthHandlers.Login)
			r.Post("/logout", cfg.AuthHandlers.Logout)
		})

		// Catalog reads are public. The session, when present, widens what
		// an admin can see.
		r.Group(func(r chi.Router) {
			r.Use(OptionalAuth(cfg.Tokens))
			r.Get("/products", cfg.Handlers.ListProducts)
			r.Get("/products/{id}", cfg.Handlers.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(cfg.Tokens, cfg.Logger))

			r.Post("/products", cfg.Handlers.CreateProduct)
			r.Patch("/products/{id}", cfg.Handlers.UpdateProduct)
			r.Patch("/products/{id}/status", cfg.Handlers.UpdateProductStatus)
			r.Delete("/products/{id}", cfg.Handlers.DeleteProduct)

			r.Get("/cart", cfg.Handlers.GetCart)
			r.Post("/cart/items", cfg.Handlers.AddCartItem)
			r.Patch("/cart/items/{productID}", cfg.Handlers.UpdateCartItem)
			r.Delete("/cart/items/{productID}", cfg.Handlers.RemoveCartItem)

			r.Post("/orders", cfg.Handlers.PlaceOrder)
			r.Get("/orders", cfg.Handlers.ListOrders)
			r.Get("/orders/{id}", cfg.Handlers.GetOrder)
			r.Patch("/orders/{id}/status", cfg.Handlers.UpdateOrderStatus)
		})
	})

	return r
}
