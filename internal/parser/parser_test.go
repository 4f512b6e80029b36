package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStripFrontmatter_Basic(t *testing.T) {
	got := StripFrontmatter("---\nTitle: X\n---\nBody")
	if got != "Body" {
		t.Errorf("got %q, want %q", got, "Body")
	}
}

func TestStripFrontmatter_TrimsSurroundingWhitespace(t *testing.T) {
	got := StripFrontmatter("---\ntitle: Hello\ntags:\n  - go\n---\n\n# Hello\nBody text.\n\n")
	if got != "# Hello\nBody text." {
		t.Errorf("got %q", got)
	}
}

func TestStripFrontmatter_EmptyBlock(t *testing.T) {
	got := StripFrontmatter("---\n---\nBody")
	if got != "Body" {
		t.Errorf("got %q, want %q", got, "Body")
	}
}

func TestStripFrontmatter_Unclosed(t *testing.T) {
	in := "---\ntitle: never closed\nBody"
	if got := StripFrontmatter(in); got != in {
		t.Errorf("unclosed block should be untouched, got %q", got)
	}
}

func TestStripFrontmatter_NoFrontmatter(t *testing.T) {
	in := "  # Heading\n---\nnot front-matter\n---\n"
	if got := StripFrontmatter(in); got != in {
		t.Errorf("content not starting with --- should be untouched, got %q", got)
	}
}

func TestStripFrontmatter_CRLF(t *testing.T) {
	got := StripFrontmatter("---\r\ntitle: x\r\n---\r\nBody\r\n")
	if got != "Body" {
		t.Errorf("got %q, want %q", got, "Body")
	}
}

func TestExtractTags_BoundaryRule(t *testing.T) {
	got := ExtractTags("#go #Go2 #3x no#tag")
	if diff := cmp.Diff([]string{"go", "Go2"}, got); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractTags_Inclusion(t *testing.T) {
	in := "line one #alpha\n#beta-gamma at line start\ttab\t#snake_case and #x1-y2.\n"
	want := []string{"alpha", "beta-gamma", "snake_case", "x1-y2"}
	if diff := cmp.Diff(want, ExtractTags(in)); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractTags_Exclusion(t *testing.T) {
	cases := []string{
		"no#tag",
		"#3x",
		"# heading",
		"#_under",
		"#-dash",
		"(#paren)",
		"url.com/#anchor",
		"##double",
	}
	for _, in := range cases {
		if got := ExtractTags(in); len(got) != 0 {
			t.Errorf("ExtractTags(%q) = %v, want none", in, got)
		}
	}
}

func TestExtractTags_StopsAtInvalidRune(t *testing.T) {
	got := ExtractTags("#tag/sub #naïve")
	if diff := cmp.Diff([]string{"tag", "na"}, got); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestTagSet_SortedDeduplicated(t *testing.T) {
	s := TagSet{}
	s.Add("#go #Go2 #3x no#tag")
	s.Add("more #go and #alpha")
	if diff := cmp.Diff([]string{"Go2", "alpha", "go"}, s.Sorted()); diff != "" {
		t.Errorf("sorted tags mismatch (-want +got):\n%s", diff)
	}
}
