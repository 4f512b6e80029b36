package mcpserver

// GuideURI identifies the guide resource.
const GuideURI = "vault://guide"

// VaultGuide tells LLM consumers how the vault tools fit together.
const VaultGuide = `# Vault Tools Guide

The vault is a read-only directory tree of Markdown notes and PDF documents.
Nothing can be created, changed or deleted through these tools.

## Workflow

1. **Discover** files with ` + "`list_files`" + `. It defaults to ` + "`md,pdf`" + ` and returns
   ` + "`[{\"filename\": \"name.ext\", \"path\": \"relative/path/name.ext\"}, ...]`" + `.
2. **Read** a file by passing its ` + "`path`" + ` unchanged:
   - ` + "`.md`" + ` files → ` + "`read_markdown`" + ` (argument ` + "`note_path`" + `)
   - ` + "`.pdf`" + ` files → ` + "`read_pdf`" + ` (argument ` + "`pdf_path`" + `)
3. **Search** note text with ` + "`search_notes`" + `. Matching is a case-insensitive
   substring test; results come back in path order, not by relevance, and are capped.
4. **Explore topics** with ` + "`extract_tags`" + `, which lists every inline ` + "`#tag`" + `.

## Paths

- Always relative to the vault root, forward slashes (` + "`folder/note.md`" + `).
- Percent-encoding is accepted (` + "`folder%2Fnote.md`" + `).
- Absolute paths and ` + "`..`" + ` segments are rejected.

## Tags

A tag is ` + "`#`" + ` followed by a letter and then letters, digits, ` + "`_`" + ` or ` + "`-`" + `.
It must start the text or follow whitespace: ` + "`#project-x`" + ` counts,
` + "`no#tag`" + ` and ` + "`#3d`" + ` do not.

## PDFs

Only embedded digital text is extracted; there is no OCR. Each page is headed by
` + "`--- Page i/N ---`" + `. A page that cannot be decoded is shown as
` + "`--- Page i/N (Extraction Error) ---`" + ` and the rest of the document is still returned.
`
