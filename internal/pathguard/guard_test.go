package pathguard

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/vaultmcp/internal/apperr"
)

func TestConfine_Accepts(t *testing.T) {
	cases := map[string]string{
		"note.md":                  "note.md",
		"folder/note.md":           "folder/note.md",
		"folder%2Fnote.md":         "folder/note.md",
		"my%20note.md":             "my note.md",
		"./a//b/./c.md":            "a/b/c.md",
		`win\style\path.md`:        "win/style/path.md",
		"100%.md":                  "100%.md",
		"folder/..hidden/x.md":     "folder/..hidden/x.md",
		"%252e%252e/literal.md":    "%2e%2e/literal.md",
		"deep/nested/dir/file.pdf": "deep/nested/dir/file.pdf",
		"a%2Fb%zz.md":              "a/b%zz.md",
		"50%25%.md":                "50%%.md",
	}
	for in, want := range cases {
		got, err := Confine(in)
		if err != nil {
			t.Errorf("Confine(%q) unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Confine(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfine_Empty(t *testing.T) {
	if _, err := Confine(""); !errors.Is(err, apperr.ErrEmptyPath) {
		t.Fatalf("err = %v, want ErrEmptyPath", err)
	}
}

func TestConfine_ParentSegments(t *testing.T) {
	cases := []string{
		"..",
		"../outside.md",
		"../../etc/passwd",
		"a/../b.md",
		"a/b/../../c.md",
		"%2e%2e/secret.md",
		"%2E%2E%2Fsecret.md",
		"folder%2F..%2F..%2Fsecret.md",
		`..\windows\system.ini`,
		`a\..\..\b.md`,
		"%2e%2e/100%.md",
		"..%2Fx%zz.md",
		"%2e%2e%2f%2e%2e%2fetc%2fpasswd%",
	}
	for _, in := range cases {
		if _, err := Confine(in); !errors.Is(err, apperr.ErrUnsafePath) {
			t.Errorf("Confine(%q) err = %v, want ErrUnsafePath", in, err)
		}
	}
}

func TestConfine_Absolute(t *testing.T) {
	cases := []string{
		"/etc/shadow",
		"%2Fetc%2Fshadow",
		"//server/share/file.md",
		`C:\Windows\win.ini`,
		"c:/notes/a.md",
		`\\server\share\a.md`,
		"a:b.md",
	}
	for _, in := range cases {
		if _, err := Confine(in); !errors.Is(err, apperr.ErrUnsafePath) {
			t.Errorf("Confine(%q) err = %v, want ErrUnsafePath", in, err)
		}
	}
}

func TestConfine_NulByte(t *testing.T) {
	if _, err := Confine("note%00.md"); !errors.Is(err, apperr.ErrUnsafePath) {
		t.Fatalf("err = %v, want ErrUnsafePath", err)
	}
}

func TestEnsureWithinRoot(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "vault")

	ok := []string{
		root,
		filepath.Join(root, "note.md"),
		filepath.Join(root, "a", "b", "c.pdf"),
	}
	for _, p := range ok {
		if err := EnsureWithinRoot(p, root); err != nil {
			t.Errorf("EnsureWithinRoot(%q) unexpected error: %v", p, err)
		}
	}

	bad := []string{
		filepath.Join(string(filepath.Separator), "srv", "vault-evil", "x.md"),
		filepath.Join(string(filepath.Separator), "srv", "vaultx"),
		filepath.Join(string(filepath.Separator), "srv"),
		filepath.Join(string(filepath.Separator), "etc", "passwd"),
	}
	for _, p := range bad {
		if err := EnsureWithinRoot(p, root); !errors.Is(err, apperr.ErrOutsideVault) {
			t.Errorf("EnsureWithinRoot(%q) err = %v, want ErrOutsideVault", p, err)
		}
	}
}

func TestConfine_Idempotent(t *testing.T) {
	first, err := Confine("a%2Fb%2Fc.md")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Confine("a%2Fb%2Fc.md")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("results differ: %q vs %q", first, second)
	}
}
