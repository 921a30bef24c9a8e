package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"adstudio/internal/observability"
)

func Router(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.Measure)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Generation calls can take minutes; the ceiling here is a safety
	// net, not the expected path.
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Post("/v1/campaign", h.Campaign)
	r.Post("/v1/image", h.Image)
	r.Post("/v1/image/refine", h.Refine)
	r.Post("/v1/advise", h.Advise)
	r.Get("/v1/credential", h.CredentialStatus)
	r.Post("/v1/credential", h.SelectCredential)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.MetricsHandler())

	return r
}
