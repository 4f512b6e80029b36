package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vaultmcp/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *noteservice.Service
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// filePath extracts the vault path from the wildcard segment of the URL.
// chi matches on the escaped path when one exists, so encoded slashes from
// OpenAPI clients (e.g. folder%2Fnote.md) arrive intact and are decoded once
// by the path guard.
func filePath(r *http.Request) string {
	return strings.TrimPrefix(chi.URLParam(r, "*"), "/")
}

// ListFiles handles GET /api/files.
//
//	@Summary		List vault files by extension
//	@Tags			files
//	@Produce		json
//	@Param			types	query		string	false	"Comma-separated extensions"	default(md,pdf)
//	@Success		200		{object}	FileListResponse
//	@Failure		400		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Router			/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	types := r.URL.Query().Get("types")
	if types == "" {
		types = noteservice.DefaultFileTypes
	}
	exts := noteservice.ParseFileTypes(types)
	if len(exts) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("no valid file types specified"))
		return
	}
	files, err := h.svc.ListFiles(r.Context(), exts)
	if err != nil {
		h.writeError(w, "list files", types, err)
		return
	}
	writeJSON(w, http.StatusOK, FileListResponse{Files: files})
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Read a Markdown note
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	NoteResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := filePath(r)
	content, err := h.svc.ReadMarkdown(r.Context(), path)
	if err != nil {
		h.writeError(w, "read markdown", path, err)
		return
	}
	writeJSON(w, http.StatusOK, NoteResponse{Path: path, Content: content})
}

// GetPDF handles GET /api/pdfs/*.
//
//	@Summary		Extract the text of a PDF
//	@Tags			pdfs
//	@Produce		json
//	@Param			path	path		string	true	"PDF path"
//	@Success		200		{object}	PDFResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Router			/pdfs/{path} [get]
func (h *Handler) GetPDF(w http.ResponseWriter, r *http.Request) {
	path := filePath(r)
	res, err := h.svc.ReadPDF(r.Context(), path)
	if err != nil {
		h.writeError(w, "read pdf", path, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Search handles GET /api/search.
//
//	@Summary		Case-insensitive substring search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	SearchResponse
//	@Failure		400	{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	results, err := h.svc.Search(r.Context(), q)
	if err != nil {
		h.writeError(w, "search", q, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: q, Results: results})
}

// Tags handles GET /api/tags.
//
//	@Summary		List inline tags used across the vault
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context())
	if err != nil {
		h.writeError(w, "tags", "", err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}
