package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, h *ConvertHandler, showDocs bool) {
	r.With(httputil.RecoverMiddleware).Get("/healthz", h.Healthz)

	if showDocs {
		r.With(httputil.RecoverMiddleware).Get("/", h.Index)
	}

	// --- conversion ---
	r.Group(func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(30, time.Minute),
		)

		pr.Post("/convert", h.Convert)
		pr.Post("/convert_multipart", h.ConvertMultipart)
		pr.Post("/convert_and_parse", h.ConvertAndParse)
	})
}
