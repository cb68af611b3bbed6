package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type RouterConfig struct {
	// APIPrefix is "" or starts with "/".
	APIPrefix string
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
}

// corsOptions allows credentials, so "any origin" is served by echoing the
// request origin; browsers reject "*" on credentialed requests.
func corsOptions(allowed []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if len(allowed) == 0 {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	return opts
}

func Routes(h *Handler, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(cfg.AllowedOrigins)))
	r.Use(RequestLogger(logger.Named("access")))

	r.Get("/", h.Info)
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route(cfg.APIPrefix+"/stories", func(r chi.Router) {
		r.Post("/create", h.CreateStory)
		r.Get("/jobs/{job_id}", h.GetJob)
		r.Get("/{story_id}/complete", h.GetCompleteStory)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
