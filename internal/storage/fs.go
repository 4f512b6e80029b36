package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/vaultmcp/internal/apperr"
	"github.com/starford/vaultmcp/internal/models"
	"github.com/starford/vaultmcp/internal/pathguard"
)

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)

// FS implements Provider backed by the local file system. It never writes.
type FS struct {
	root   string // absolute path to vault directory, empty when unresolved
	logger *slog.Logger
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory does not have to exist; a missing vault is reported by
// Available and by every operation, not here. An empty root yields a
// provider that is permanently unavailable.
func NewFS(root string, logger *slog.Logger) (*FS, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if root == "" {
		return &FS{logger: logger}, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	return &FS{root: abs, logger: logger}, nil
}

// Root returns the absolute vault root.
func (f *FS) Root() string {
	return f.root
}

// Available reports whether the root is an existing directory right now.
func (f *FS) Available() bool {
	if f.root == "" {
		return false
	}
	info, err := os.Stat(f.root)
	return err == nil && info.IsDir()
}

// List walks the vault and returns every regular file whose extension is in
// exts. Extensions are compared case-insensitively and without the leading
// dot. Symlinks are not followed and dot-prefixed files and directories are
// skipped. A missing vault yields an empty result.
func (f *FS) List(exts ...string) []models.NoteEntry {
	want := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(e)), ".")
		if e != "" {
			want[e] = struct{}{}
		}
	}
	if len(want) == 0 || !f.Available() {
		return nil
	}

	base := f.realRoot()
	var out []models.NoteEntry
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == base {
				return walkErr
			}
			f.logger.Warn("storage: walk skipped entry",
				slog.String("path", p),
				slog.String("error", walkErr.Error()))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p != base && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Name())), ".")
		if _, ok := want[ext]; !ok {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return nil
		}
		out = append(out, models.NoteEntry{
			Filename: d.Name(),
			Path:     filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		f.logger.Warn("storage: list failed", slog.String("root", base), slog.String("error", err.Error()))
		return nil
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// MarkdownPaths returns the relative path of every Markdown note, sorted.
func (f *FS) MarkdownPaths() []string {
	entries := f.List("md")
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

// Confine validates a caller-supplied path. Rejections are logged with the
// raw input; the returned error carries no filesystem detail.
func (f *FS) Confine(raw string) (string, error) {
	rel, err := pathguard.Confine(raw)
	if err != nil {
		f.logger.Warn("storage: path rejected",
			slog.String("raw_path", raw),
			slog.String("reason", err.Error()))
		return "", err
	}
	return rel, nil
}

// Resolve joins a confined relative path onto the root and checks, both
// lexically and after resolving symlinks, that the result stays inside the
// vault and names a regular file.
func (f *FS) Resolve(rel string) (string, error) {
	if !f.Available() {
		return "", apperr.ErrVaultUnavailable
	}
	clean, err := pathguard.Clean(rel)
	if err != nil {
		f.logger.Warn("storage: path rejected", slog.String("raw_path", rel), slog.String("reason", err.Error()))
		return "", err
	}
	abs := filepath.Join(f.root, filepath.FromSlash(clean))
	if err := pathguard.EnsureWithinRoot(abs, f.root); err != nil {
		f.logger.Error("storage: path outside vault blocked", slog.String("raw_path", rel), slog.String("resolved", abs))
		return "", err
	}
	if abs == f.root {
		return "", fmt.Errorf("%w: %s is not a file", apperr.ErrNotFound, clean)
	}

	target, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", apperr.ErrNotFound, clean)
		}
		return "", fmt.Errorf("storage: resolve %s: %w", clean, err)
	}
	if err := pathguard.EnsureWithinRoot(target, f.realRoot()); err != nil {
		f.logger.Error("storage: symlink outside vault blocked",
			slog.String("raw_path", rel),
			slog.String("target", target))
		return "", err
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", apperr.ErrNotFound, clean)
		}
		return "", fmt.Errorf("storage: stat %s: %w", clean, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", apperr.ErrNotFound, clean)
	}
	return target, nil
}

// Read returns the raw bytes of a vault file.
func (f *FS) Read(rel string) ([]byte, error) {
	abs, err := f.Resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, rel)
		}
		return nil, fmt.Errorf("storage: read %s: %w", rel, err)
	}
	return data, nil
}

// realRoot is the root with symlinks resolved, or the root itself when
// resolution fails.
func (f *FS) realRoot() string {
	resolved, err := filepath.EvalSymlinks(f.root)
	if err != nil {
		return f.root
	}
	return resolved
}
