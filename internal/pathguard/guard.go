// Package pathguard confines caller-supplied relative paths to a vault root.
package pathguard

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/starford/vaultmcp/internal/apperr"
)

// Confine decodes and normalizes raw and rejects anything that could escape
// the vault. The result uses forward slashes and is never absolute.
func Confine(raw string) (string, error) {
	if raw == "" {
		return "", apperr.ErrEmptyPath
	}
	return Clean(unescape(raw))
}

// unescape decodes every valid %XX escape once. A '%' that does not start a
// valid escape is kept literally, so "%2e%2e/100%.md" becomes "../100%.md".
func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// Clean runs the post-decoding checks of Confine on an already decoded path.
func Clean(p string) (string, error) {
	if p == "" {
		return "", apperr.ErrEmptyPath
	}
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: NUL byte", apperr.ErrUnsafePath)
	}
	slashed := strings.ReplaceAll(p, `\`, "/")
	if isAbs(slashed) {
		return "", fmt.Errorf("%w: absolute path", apperr.ErrUnsafePath)
	}
	if hasParentSegment(slashed) {
		return "", fmt.Errorf("%w: parent segment", apperr.ErrUnsafePath)
	}
	cleaned := path.Clean(slashed)
	if isAbs(cleaned) || hasParentSegment(cleaned) {
		return "", fmt.Errorf("%w: parent segment", apperr.ErrUnsafePath)
	}
	return cleaned, nil
}

// EnsureWithinRoot fails unless abs is root itself or a descendant of it.
// Both arguments must be absolute and cleaned.
func EnsureWithinRoot(abs, root string) error {
	if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return nil
	}
	return fmt.Errorf("%w: %s", apperr.ErrOutsideVault, abs)
}

func hasParentSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// isAbs is platform neutral: "/x", "//host/share" and "C:..." all count.
func isAbs(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	if len(p) >= 2 && p[1] == ':' && isLetter(p[0]) {
		return true
	}
	return filepath.IsAbs(p)
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
