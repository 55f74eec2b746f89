// Package router wires the HTTP surface of the lead-capture service.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/funnel"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/gallery"
	httpmiddleware "github.com/neighborhoodkrew/krew-leads-platform/internal/http/middleware"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/leads"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/newsletter"
	"github.com/neighborhoodkrew/krew-leads-platform/internal/webhook"
	"github.com/neighborhoodkrew/krew-leads-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	FunnelHandler      *funnel.Handler
	GalleryHandler     *gallery.Handler
	NewsletterHandler  *newsletter.Handler
	LeadsHandler       *leads.Handler
	WebhookHandler     *webhook.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Visitor-facing endpoints.
	if cfg.FunnelHandler != nil {
		r.Post("/funnel", cfg.FunnelHandler.Start)
		r.Route("/funnel/{id}", func(r chi.Router) {
			r.Get("/", cfg.FunnelHandler.Get)
			r.Patch("/fields", cfg.FunnelHandler.UpdateFields)
			r.Post("/advance", cfg.FunnelHandler.Advance)
			r.Post("/retreat", cfg.FunnelHandler.Retreat)
			r.Post("/submit", cfg.FunnelHandler.Submit)
			r.Post("/reset", cfg.FunnelHandler.Reset)
			r.Post("/promo", cfg.FunnelHandler.Promo)
		})
	}
	if cfg.GalleryHandler != nil {
		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", cfg.GalleryHandler.List)
			r.Post("/url", cfg.GalleryHandler.AddURL)
			r.Post("/upload", cfg.GalleryHandler.Upload)
			r.Delete("/{index}", cfg.GalleryHandler.Remove)
		})
	}
	if cfg.NewsletterHandler != nil {
		r.Post("/newsletter/subscribe", cfg.NewsletterHandler.Subscribe)
	}

	// Operator endpoints.
	r.Route("/admin", func(r chi.Router) {
		if cfg.LeadsHandler != nil {
			r.Get("/leads", cfg.LeadsHandler.List)
			r.Get("/leads/export", cfg.LeadsHandler.Export)
		}
		if cfg.WebhookHandler != nil {
			r.Get("/webhook", cfg.WebhookHandler.GetConfig)
			r.Put("/webhook", cfg.WebhookHandler.UpdateConfig)
			r.Post("/webhook/test", cfg.WebhookHandler.Test)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
