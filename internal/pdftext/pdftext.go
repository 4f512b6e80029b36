// Package pdftext extracts the embedded digital text of PDF files page by page.
package pdftext

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/starford/vaultmcp/internal/apperr"
)

// Document is an open PDF. Pages are numbered from 1.
type Document interface {
	NumPage() int
	PageText(n int) (string, error)
	Close() error
}

// Opener opens the PDF at an absolute path.
type Opener func(path string) (Document, error)

// Result is the outcome of a successful extraction.
type Result struct {
	Text        string
	Pages       int
	FailedPages int
	HasText     bool
}

// Extractor turns PDFs into page-marked plain text.
type Extractor struct {
	open   Opener
	logger *slog.Logger
}

// New creates an Extractor. A nil opener uses OpenFile.
func New(open Opener, logger *slog.Logger) *Extractor {
	if open == nil {
		open = OpenFile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{open: open, logger: logger}
}

// Extract opens the document at path and concatenates the text of every
// page, each block headed by "--- Page i/N ---". A page that fails is
// replaced by an "(Extraction Error)" marker instead of aborting. The
// document is closed on every return path.
//
// Extraction cannot be interrupted; its duration is bounded by page count.
func (e *Extractor) Extract(path string) (Result, error) {
	doc, err := e.safeOpen(path)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			e.logger.Warn("pdftext: close failed", slog.String("path", path), slog.String("error", cerr.Error()))
		}
	}()

	n, err := numPages(doc)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", apperr.ErrOpen, err)
	}

	var b strings.Builder
	hasText := false
	failed := 0
	for i := 1; i <= n; i++ {
		text, perr := pageText(doc, i)
		if perr != nil {
			e.logger.Warn("pdftext: page extraction failed",
				slog.String("path", path),
				slog.Int("page", i),
				slog.String("error", perr.Error()))
			fmt.Fprintf(&b, "--- Page %d/%d (Extraction Error) ---\n\n", i, n)
			failed++
			continue
		}
		if strings.TrimSpace(text) != "" {
			hasText = true
		}
		fmt.Fprintf(&b, "--- Page %d/%d ---\n%s\n\n", i, n, text)
	}

	return Result{
		Text:        strings.TrimSpace(b.String()),
		Pages:       n,
		FailedPages: failed,
		HasText:     hasText,
	}, nil
}

func (e *Extractor) safeOpen(path string) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", apperr.ErrOpen, r)
		}
	}()
	doc, err = e.open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrOpen, err)
	}
	return doc, nil
}

func numPages(doc Document) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read page tree: %v", r)
		}
	}()
	return doc.NumPage(), nil
}

func pageText(doc Document, i int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return doc.PageText(i)
}

// newReader is swapped in tests to simulate library failures.
var newReader = pdf.NewReader

// fileDocument adapts github.com/ledongthuc/pdf to Document.
type fileDocument struct {
	f *os.File
	r *pdf.Reader
}

// OpenFile opens a PDF from disk with github.com/ledongthuc/pdf. The file
// is closed again if the reader cannot be built, including when the library
// panics on a malformed trailer.
func OpenFile(path string) (doc Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if doc != nil {
			return
		}
		_ = f.Close()
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	r, err := newReader(f, info.Size())
	if err != nil {
		return nil, err
	}
	return &fileDocument{f: f, r: r}, nil
}

func (d *fileDocument) NumPage() int {
	return d.r.NumPage()
}

func (d *fileDocument) PageText(n int) (string, error) {
	p := d.r.Page(n)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d: missing page object", n)
	}
	return p.GetPlainText(nil)
}

func (d *fileDocument) Close() error {
	return d.f.Close()
}
