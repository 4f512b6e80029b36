package pdftext

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/starford/vaultmcp/internal/apperr"
	"github.com/starford/vaultmcp/internal/testutil"
)

type fakeDoc struct {
	pages  []func() (string, error)
	closed int
}

func (d *fakeDoc) NumPage() int { return len(d.pages) }

func (d *fakeDoc) PageText(n int) (string, error) { return d.pages[n-1]() }

func (d *fakeDoc) Close() error {
	d.closed++
	return nil
}

func text(s string) func() (string, error) {
	return func() (string, error) { return s, nil }
}

func opener(doc *fakeDoc) Opener {
	return func(string) (Document, error) { return doc, nil }
}

func TestExtract_PageFailureBecomesPlaceholder(t *testing.T) {
	doc := &fakeDoc{pages: []func() (string, error){
		text("alpha"),
		func() (string, error) { return "", errors.New("bad content stream") },
		text("gamma"),
	}}
	res, err := New(opener(doc), nil).Extract("doc.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "--- Page 1/3 ---\nalpha\n\n" +
		"--- Page 2/3 (Extraction Error) ---\n\n" +
		"--- Page 3/3 ---\ngamma"
	if res.Text != want {
		t.Errorf("text = %q, want %q", res.Text, want)
	}
	if res.Pages != 3 || !res.HasText {
		t.Errorf("result = %+v", res)
	}
	if doc.closed != 1 {
		t.Errorf("closed %d times, want 1", doc.closed)
	}
}

func TestExtract_PagePanicRecovered(t *testing.T) {
	doc := &fakeDoc{pages: []func() (string, error){
		text("one"),
		func() (string, error) { panic("malformed operator") },
	}}
	res, err := New(opener(doc), nil).Extract("doc.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.HasSuffix(res.Text, "--- Page 2/2 (Extraction Error) ---") {
		t.Errorf("text = %q", res.Text)
	}
	if doc.closed != 1 {
		t.Errorf("closed %d times, want 1", doc.closed)
	}
}

func TestExtract_AllPagesFailKeepsPlaceholders(t *testing.T) {
	fail := func() (string, error) { return "", errors.New("bad content stream") }
	doc := &fakeDoc{pages: []func() (string, error){fail, fail}}
	res, err := New(opener(doc), nil).Extract("doc.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "--- Page 1/2 (Extraction Error) ---\n\n--- Page 2/2 (Extraction Error) ---"
	if res.Text != want {
		t.Errorf("text = %q, want %q", res.Text, want)
	}
	if res.HasText || res.FailedPages != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestExtract_OpenError(t *testing.T) {
	open := func(string) (Document, error) { return nil, errors.New("not a PDF file: invalid header") }
	_, err := New(open, nil).Extract("bad.pdf")
	if !errors.Is(err, apperr.ErrOpen) {
		t.Fatalf("err = %v, want ErrOpen", err)
	}
	if !strings.Contains(err.Error(), "invalid header") {
		t.Errorf("underlying message lost: %v", err)
	}
}

func TestExtract_OpenPanic(t *testing.T) {
	open := func(string) (Document, error) { panic("xref corrupted") }
	if _, err := New(open, nil).Extract("bad.pdf"); !errors.Is(err, apperr.ErrOpen) {
		t.Fatalf("err = %v, want ErrOpen", err)
	}
}

func TestExtract_NoText(t *testing.T) {
	doc := &fakeDoc{pages: []func() (string, error){text("  "), text("\n")}}
	res, err := New(opener(doc), nil).Extract("scan.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.HasText || res.FailedPages != 0 {
		t.Errorf("blank pages reported as text: %+v", res)
	}

	empty := &fakeDoc{}
	res, err = New(opener(empty), nil).Extract("empty.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.HasText || res.Text != "" || res.Pages != 0 {
		t.Errorf("zero-page result = %+v", res)
	}
	if empty.closed != 1 {
		t.Errorf("closed %d times, want 1", empty.closed)
	}
}

func TestExtract_RealFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "paper.pdf", testutil.PDF("Hello vault", "Second page"))

	res, err := New(nil, nil).Extract(filepath.Join(dir, "paper.pdf"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Pages != 2 || !res.HasText {
		t.Fatalf("result = %+v", res)
	}
	for _, want := range []string{"--- Page 1/2 ---", "Hello vault", "--- Page 2/2 ---", "Second page"} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("text %q missing %q", res.Text, want)
		}
	}
	if strings.Index(res.Text, "Hello vault") > strings.Index(res.Text, "Second page") {
		t.Error("pages out of order")
	}
}

func TestExtract_RealFileNotPDF(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "fake.pdf", []byte("this is plain text"))
	if _, err := New(nil, nil).Extract(filepath.Join(dir, "fake.pdf")); !errors.Is(err, apperr.ErrOpen) {
		t.Fatalf("err = %v, want ErrOpen", err)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.pdf", testutil.PDF("Stable output"))
	ex := New(nil, nil)
	first, err := ex.Extract(filepath.Join(dir, "a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := ex.Extract(filepath.Join(dir, "a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
}

func TestOpenFile_ClosesFileWhenReaderFails(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "x.pdf", []byte("%PDF-1.4"))

	cases := map[string]func(io.ReaderAt, int64) (*pdf.Reader, error){
		"error": func(io.ReaderAt, int64) (*pdf.Reader, error) { return nil, errors.New("malformed trailer") },
		"panic": func(io.ReaderAt, int64) (*pdf.Reader, error) { panic("xref out of range") },
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			var seen *os.File
			orig := newReader
			newReader = func(r io.ReaderAt, size int64) (*pdf.Reader, error) {
				seen = r.(*os.File)
				return build(r, size)
			}
			t.Cleanup(func() { newReader = orig })

			doc, err := OpenFile(filepath.Join(dir, "x.pdf"))
			if err == nil || doc != nil {
				t.Fatalf("OpenFile = %v, %v; want error", doc, err)
			}
			if seen == nil {
				t.Fatal("reader was not built from the opened file")
			}
			if _, err := seen.Stat(); !errors.Is(err, os.ErrClosed) {
				t.Errorf("file still open: Stat err = %v", err)
			}
		})
	}
}
