package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vaultmcp/internal/noteservice"
)

// NewRouter creates a chi router with the read-only vault routes mounted.
// The router is intended to be mounted under /api.
func NewRouter(svc *noteservice.Service, logger *slog.Logger) chi.Router {
	if logger == nil {
		logger = slog.Default()
	}
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(RequestLogger(logger))

	r.Get("/files", h.ListFiles)
	r.Get("/notes/*", h.GetNote)
	r.Get("/pdfs/*", h.GetPDF)
	r.Get("/search", h.Search)
	r.Get("/tags", h.Tags)

	return r
}
