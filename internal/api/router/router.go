// Package router assembles the HTTP surface of the intake platform.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/drsayuj/intake-platform/internal/booking"
	"github.com/drsayuj/intake-platform/internal/conversation"
	httpmiddleware "github.com/drsayuj/intake-platform/internal/http/middleware"
	"github.com/drsayuj/intake-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	BookingHandler      *booking.Handler
	TurnLimiter         httpmiddleware.Limiter
	SubmitLimiter       httpmiddleware.Limiter
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
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

	r.Get("/health", handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Route("/ai-booking", func(turn chi.Router) {
			if cfg.TurnLimiter != nil {
				turn.Use(httpmiddleware.RateLimit(cfg.TurnLimiter, cfg.Logger))
			}
			turn.Post("/", cfg.ConversationHandler.HandleTurn)
			turn.Get("/", cfg.ConversationHandler.HandleStatus)
		})

		api.Route("/appointments", func(appt chi.Router) {
			if cfg.SubmitLimiter != nil {
				appt.Use(httpmiddleware.RateLimit(cfg.SubmitLimiter, cfg.Logger))
			}
			appt.Post("/submit", cfg.BookingHandler.HandleSubmit)
		})
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
