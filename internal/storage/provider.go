// Package storage defines the read-only vault file-system abstraction.
package storage

import "github.com/starford/vaultmcp/internal/models"

// Provider is the interface for vault file operations.
type Provider interface {
	// Root returns the absolute vault root.
	Root() string
	// Available reports whether the vault root currently is a readable directory.
	Available() bool
	// List returns every regular file whose extension is in exts, sorted by path.
	List(exts ...string) []models.NoteEntry
	// MarkdownPaths returns the relative paths of all .md files, sorted.
	MarkdownPaths() []string
	// Confine validates a caller-supplied path and returns its clean relative form.
	Confine(raw string) (string, error)
	// Resolve maps a confined relative path to an absolute regular file inside the vault.
	Resolve(rel string) (string, error)
	// Read returns the raw bytes of the file at rel.
	Read(rel string) ([]byte, error)
}
