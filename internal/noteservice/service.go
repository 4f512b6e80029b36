// Package noteservice implements the read-only vault operations exposed to
// tool callers: listing, Markdown reads, search, tags and PDF text.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/starford/vaultmcp/internal/apperr"
	"github.com/starford/vaultmcp/internal/models"
	"github.com/starford/vaultmcp/internal/parser"
	"github.com/starford/vaultmcp/internal/pdftext"
	"github.com/starford/vaultmcp/internal/storage"
)

const (
	// DefaultMaxSearchResults caps Search when Options leaves it unset.
	DefaultMaxSearchResults = 50
	// DefaultFileTypes is the listing filter used when a caller gives none.
	DefaultFileTypes = "md,pdf"
)

// Options carries the content settings resolved at startup.
type Options struct {
	IncludeFrontmatter bool
	MaxSearchResults   int
}

// Service coordinates storage, parsing and PDF extraction. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	store  storage.Provider
	pdf    *pdftext.Extractor
	opts   Options
	logger *slog.Logger
}

// NewService creates a new note service.
func NewService(store storage.Provider, pdf *pdftext.Extractor, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if pdf == nil {
		pdf = pdftext.New(nil, logger)
	}
	if opts.MaxSearchResults <= 0 {
		opts.MaxSearchResults = DefaultMaxSearchResults
	}
	return &Service{store: store, pdf: pdf, opts: opts, logger: logger}
}

// VaultAvailable reports whether the vault root is currently readable.
func (s *Service) VaultAvailable() bool {
	return s.store.Available()
}

// ListFiles returns every file whose extension is in exts, sorted by path.
func (s *Service) ListFiles(_ context.Context, exts []string) ([]models.NoteEntry, error) {
	if !s.store.Available() {
		s.logger.Error("list files: vault unavailable", slog.String("root", s.store.Root()))
		return nil, apperr.ErrVaultUnavailable
	}
	return nonNilSlice(s.store.List(exts...)), nil
}

// ReadMarkdown confines rawPath and returns the note text.
func (s *Service) ReadMarkdown(_ context.Context, rawPath string) (string, error) {
	if !s.store.Available() {
		return "", apperr.ErrVaultUnavailable
	}
	rel, err := s.store.Confine(rawPath)
	if err != nil {
		return "", err
	}
	content, err := s.readNote(rel)
	if err != nil {
		s.logger.Warn("read markdown failed", slog.String("path", rel), slog.String("error", err.Error()))
		return "", err
	}
	return content, nil
}

// ReadPDF confines rawPath and extracts the text of the PDF it names.
func (s *Service) ReadPDF(_ context.Context, rawPath string) (models.PdfText, error) {
	if !s.store.Available() {
		return models.PdfText{}, apperr.ErrVaultUnavailable
	}
	rel, err := s.store.Confine(rawPath)
	if err != nil {
		return models.PdfText{}, err
	}
	if !hasExt(rel, ".pdf") {
		return models.PdfText{}, fmt.Errorf("%w: %s is not a .pdf file", apperr.ErrWrongFileType, rel)
	}
	abs, err := s.store.Resolve(rel)
	if err != nil {
		s.logger.Warn("read pdf failed", slog.String("path", rel), slog.String("error", err.Error()))
		return models.PdfText{}, err
	}

	s.logger.Info("pdf extraction started", slog.String("path", rel))
	res, err := s.pdf.Extract(abs)
	if err != nil {
		s.logger.Error("pdf extraction failed", slog.String("path", rel), slog.String("error", err.Error()))
		return models.PdfText{}, err
	}
	s.logger.Info("pdf extraction finished",
		slog.String("path", rel),
		slog.Int("pages", res.Pages),
		slog.Int("failed_pages", res.FailedPages),
		slog.Int("chars", len(res.Text)))

	return models.PdfText{
		Path:        rel,
		Pages:       res.Pages,
		FailedPages: res.FailedPages,
		Text:        res.Text,
		HasText:     res.HasText,
	}, nil
}

// Search returns the notes whose content contains query, ignoring case, in
// path order. Scanning stops once MaxSearchResults matches are collected, so
// the result is a prefix of the sorted matches, not a relevance ranking.
func (s *Service) Search(_ context.Context, query string) ([]string, error) {
	out := []string{}
	if query == "" || !s.store.Available() {
		return out, nil
	}
	needle := strings.ToLower(query)
	for _, p := range s.store.MarkdownPaths() {
		content, err := s.readNote(p)
		if err != nil {
			s.logger.Debug("search: skipped note", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		if !strings.Contains(strings.ToLower(content), needle) {
			continue
		}
		out = append(out, p)
		if len(out) >= s.opts.MaxSearchResults {
			break
		}
	}
	return out, nil
}

// Tags returns every inline tag used across the vault, sorted and unique.
func (s *Service) Tags(_ context.Context) ([]string, error) {
	if !s.store.Available() {
		return []string{}, nil
	}
	set := parser.TagSet{}
	for _, p := range s.store.MarkdownPaths() {
		content, err := s.readNote(p)
		if err != nil {
			s.logger.Debug("tags: skipped note", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		set.Add(content)
	}
	return set.Sorted(), nil
}

// readNote is the content reader shared by ReadMarkdown, Search and Tags.
// rel must already be confined.
func (s *Service) readNote(rel string) (string, error) {
	if !hasExt(rel, ".md") {
		return "", fmt.Errorf("%w: %s is not a .md file", apperr.ErrWrongFileType, rel)
	}
	data, err := s.store.Read(rel)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", apperr.ErrDecode, rel)
	}
	content := string(data)
	if !s.opts.IncludeFrontmatter {
		content = parser.StripFrontmatter(content)
	}
	return content, nil
}

// ParseFileTypes splits a comma-separated extension list such as
// "md, .PDF,,png" into normalized extensions ["md" "pdf" "png"].
func ParseFileTypes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		ext := strings.TrimLeft(strings.ToLower(strings.TrimSpace(part)), ".")
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

func hasExt(p, ext string) bool {
	return strings.HasSuffix(strings.ToLower(p), ext)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
