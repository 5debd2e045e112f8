package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterConfig bundles the handlers behind the public API surface.
type RouterConfig struct {
	Shops          *ShopHandler
	Flowers        *FlowerHandler
	Orders         *OrderHandler
	Wizard         *WizardHandler
	RequestTimeout time.Duration
}

// NewRouter builds the full API router with the global middleware stack.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MockAuthMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/shops", func(r chi.Router) {
			r.Get("/", cfg.Shops.Search)
			r.With(AdminOnly).Post("/", cfg.Shops.Create)

			r.Route("/{shop_id}", func(r chi.Router) {
				r.Get("/", cfg.Shops.Get)
				r.With(AdminOnly).Put("/owner", cfg.Shops.AssignOwner)

				r.Get("/flowers", cfg.Flowers.List)
				r.With(OwnerOnly).Post("/flowers", cfg.Flowers.Create)

				r.With(OwnerOnly).Get("/orders", cfg.Orders.ListByShop)

				r.Post("/wizard", cfg.Wizard.Start)
			})
		})

		r.Route("/flowers/{flower_id}", func(r chi.Router) {
			r.With(OwnerOnly).Post("/restock", cfg.Flowers.Restock)
			r.With(OwnerOnly).Delete("/", cfg.Flowers.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", cfg.Orders.Checkout)
			r.Route("/{order_id}", func(r chi.Router) {
				r.Get("/", cfg.Orders.Get)
				r.Post("/cancel", cfg.Orders.Cancel)
				r.With(OwnerOnly).Patch("/status", cfg.Orders.UpdateStatus)
				r.With(OwnerOnly).Put("/notes", cfg.Orders.SetInternalNotes)
			})
		})

		r.Route("/wizard/{session_id}", func(r chi.Router) {
			r.Get("/", cfg.Wizard.Get)
			r.Post("/messages", cfg.Wizard.Message)
			r.Post("/approve", cfg.Wizard.Approve)
			r.Post("/reject", cfg.Wizard.Reject)
			r.Post("/reset", cfg.Wizard.Reset)
		})
	})

	return otelhttp.NewHandler(r, "floriisrael-api")
}
