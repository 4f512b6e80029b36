package mcpserver

import (
	"errors"
	"fmt"

	"github.com/starford/vaultmcp/internal/apperr"
)

// Messages returned to callers. Path violations share one
// message that reveals nothing about the filesystem.
const (
	msgUnsafePath       = "Error: Invalid or potentially unsafe path requested."
	msgVaultUnavailable = "Vault path is not configured or accessible."
)

func listErrorMessage(err error) string {
	if errors.Is(err, apperr.ErrVaultUnavailable) {
		return msgVaultUnavailable
	}
	return "Error listing files. Check server logs."
}

func markdownErrorMessage(rawPath string, err error) string {
	switch {
	case apperr.IsPathViolation(err):
		return msgUnsafePath
	case errors.Is(err, apperr.ErrVaultUnavailable):
		return "Error: " + msgVaultUnavailable
	case errors.Is(err, apperr.ErrWrongFileType):
		return fmt.Sprintf("Error: The read_markdown tool only works for Markdown (.md) files. Cannot read '%s'.", rawPath)
	case errors.Is(err, apperr.ErrNotFound):
		return fmt.Sprintf("Error: Markdown file not found at path: %s", rawPath)
	case errors.Is(err, apperr.ErrDecode):
		return fmt.Sprintf("Error: Could not read Markdown content from path: %s. Check server logs.", rawPath)
	default:
		return "Error reading Markdown note. Check server logs."
	}
}

func pdfErrorMessage(rawPath string, err error) string {
	switch {
	case apperr.IsPathViolation(err):
		return msgUnsafePath
	case errors.Is(err, apperr.ErrVaultUnavailable):
		return "Error: " + msgVaultUnavailable
	case errors.Is(err, apperr.ErrWrongFileType):
		return fmt.Sprintf("Error: The read_pdf tool only works for PDF (.pdf) files. Cannot read '%s'.", rawPath)
	case errors.Is(err, apperr.ErrNotFound):
		return fmt.Sprintf("Error: PDF file not found at path: %s", rawPath)
	case errors.Is(err, apperr.ErrOpen):
		return fmt.Sprintf("Error: Failed to process PDF file '%s': %v", rawPath, err)
	default:
		return "Error reading PDF: An unexpected error occurred. Check server logs."
	}
}
