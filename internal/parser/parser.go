// Package parser normalizes Markdown note content: front-matter removal and
// inline #tag extraction.
package parser

import (
	"regexp"
	"sort"
	"strings"
)

const frontmatterDelim = "---"

// A tag is '#' + letter + letters/digits/'_'/'-'. The '#' must open the text
// or follow whitespace, so "no#tag" and "a.b#c" are not tags.
var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_-]*)`)

// StripFrontmatter removes a leading block delimited by "---" lines. The
// closing delimiter is the first "\n---" at or after offset 3; everything up
// to and including it is dropped and the remainder is trimmed. Content without
// a well-formed closing delimiter is returned unchanged.
func StripFrontmatter(content string) string {
	if !strings.HasPrefix(content, frontmatterDelim) {
		return content
	}
	rest := content[len(frontmatterDelim):]
	idx := strings.Index(rest, "\n"+frontmatterDelim)
	if idx < 0 {
		return content
	}
	body := rest[idx+1+len(frontmatterDelim):]
	return strings.TrimSpace(body)
}

// ExtractTags returns the tags found in content in order of appearance,
// duplicates included.
func ExtractTags(content string) []string {
	matches := tagRe.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// TagSet accumulates tags across notes.
type TagSet map[string]struct{}

// Add inserts every tag found in content.
func (s TagSet) Add(content string) {
	for _, t := range ExtractTags(content) {
		s[t] = struct{}{}
	}
}

// Sorted returns the tags in byte order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
