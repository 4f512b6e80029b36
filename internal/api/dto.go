package api

import "github.com/starford/vaultmcp/internal/models"

// FileListResponse wraps a file listing.
type FileListResponse struct {
	Files []models.NoteEntry `json:"files" validate:"required"`
}

// NoteResponse is the body of GET /notes/{path}.
type NoteResponse struct {
	Path    string `json:"path" example:"folder/note.md" validate:"required"`
	Content string `json:"content" example:"# Title\nBody" validate:"required"`
}

// PDFResponse is the body of GET /pdfs/{path} (aliased from the domain layer).
type PDFResponse = models.PdfText

// SearchResponse wraps search hits. Results are relative note paths in path order.
type SearchResponse struct {
	Query   string   `json:"query" example:"meeting" validate:"required"`
	Results []string `json:"results" validate:"required"`
}

// TagsResponse wraps the vault's tag set.
type TagsResponse struct {
	Tags []string `json:"tags" example:"project,meeting_notes" validate:"required"`
}
