// Package models defines the domain types for the vault tools.
package models

// NoteEntry is one file found by a vault listing.
type NoteEntry struct {
	Filename string `json:"filename"`
	Path     string `json:"path"` // vault-relative, forward slashes
}

// PdfText is the text extracted from a PDF, page blocks already joined.
type PdfText struct {
	Path        string `json:"path"`
	Pages       int    `json:"pages"`
	FailedPages int    `json:"failed_pages"`
	Text        string `json:"text"`
	// HasText is false when no page produced any non-blank text.
	HasText bool `json:"has_text"`
}

// NothingExtracted reports whether the document yielded neither text nor
// page errors, as with image-only scans and empty documents.
func (p PdfText) NothingExtracted() bool {
	return !p.HasText && p.FailedPages == 0
}
