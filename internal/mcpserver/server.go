// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the read-only vault tools to LLM agents.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vaultmcp/internal/noteservice"
)

// Tool names.
const (
	ToolListFiles    = "list_files"
	ToolReadMarkdown = "read_markdown"
	ToolReadPDF      = "read_pdf"
	ToolSearchNotes  = "search_notes"
	ToolExtractTags  = "extract_tags"
	ToolVaultGuide   = "get_vault_guide"
)

// Tool pairs an MCP tool definition with its handler.
type Tool struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// Server wraps the MCP server with the vault tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *noteservice.Service
	logger *slog.Logger
	tools  map[string]server.ToolHandlerFunc
}

// New creates a new MCP server with all vault tools registered.
func New(svc *noteservice.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{svc: svc, logger: logger}

	s.mcp = server.NewMCPServer(
		"Vault",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithToolHandlerMiddleware(s.logCalls),
		server.WithRecovery(),
	)

	s.tools = make(map[string]server.ToolHandlerFunc)
	for _, t := range s.registry() {
		s.tools[t.Tool.Name] = t.Handler
		s.mcp.AddTool(t.Tool, t.Handler)
	}

	s.mcp.AddResource(
		mcp.NewResource(GuideURI, "Vault Tools Guide",
			mcp.WithResourceDescription("How to discover and read files in the vault with the available tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// registry is the complete, static list of tools this server exposes.
func (s *Server) registry() []Tool {
	return []Tool{
		{
			Tool: mcp.NewTool(ToolListFiles,
				mcp.WithDescription("List vault files by extension. Returns a JSON array of "+
					`{"filename", "path"} objects; "path" is relative to the vault and uses forward slashes. `+
					"Pass the path to read_markdown for .md files and to read_pdf for .pdf files."),
				mcp.WithString("file_types",
					mcp.DefaultString(noteservice.DefaultFileTypes),
					mcp.Description("Comma-separated extensions, e.g. 'md', 'pdf', 'md,pdf,png'")),
			),
			Handler: s.listFiles,
		},
		{
			Tool: mcp.NewTool(ToolReadMarkdown,
				mcp.WithDescription("Read the text of a Markdown (.md) note. Only works for .md files; use read_pdf for PDFs."),
				mcp.WithString("note_path", mcp.Required(), mcp.Description("Relative path from list_files (e.g. folder/my_note.md)")),
			),
			Handler: s.readMarkdown,
		},
		{
			Tool: mcp.NewTool(ToolReadPDF,
				mcp.WithDescription("Extract the embedded digital text of a PDF (.pdf) page by page. "+
					"No OCR: scanned or image-only PDFs yield little or no text."),
				mcp.WithString("pdf_path", mcp.Required(), mcp.Description("Relative path from list_files (e.g. folder/document.pdf)")),
			),
			Handler: s.readPDF,
		},
		{
			Tool: mcp.NewTool(ToolSearchNotes,
				mcp.WithDescription("Case-insensitive substring search over the content of all Markdown notes. "+
					"Returns a JSON array of relative paths in path order, capped at the configured maximum."),
				mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
			),
			Handler: s.searchNotes,
		},
		{
			Tool: mcp.NewTool(ToolExtractTags,
				mcp.WithDescription("List every inline #tag used in the vault's Markdown notes as a sorted JSON array (without '#')."),
			),
			Handler: s.extractTags,
		},
		{
			Tool: mcp.NewTool(ToolVaultGuide,
				mcp.WithDescription("Returns a short guide on how to use the vault tools together."),
			),
			Handler: s.getVaultGuide,
		},
	}
}

// ServeStdio serves the MCP protocol over stdin/stdout until ctx is done or
// stdin is closed.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// HTTPHandler returns a streamable-HTTP transport for the server.
func (s *Server) HTTPHandler() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.mcp)
}

// ToolNames returns the registered tool names, sorted.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.tools))
	for n := range s.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Call dispatches a tool call through the registry with the same logging the
// transports apply.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	h, ok := s.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args
	return s.logCalls(h)(ctx, req)
}

func (s *Server) logCalls(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()
		start := time.Now()
		s.logger.Info("tool call received",
			slog.String("call_id", callID),
			slog.String("tool", req.Params.Name),
			slog.Any("arguments", req.GetArguments()))

		res, err := next(ctx, req)

		attrs := []any{
			slog.String("call_id", callID),
			slog.String("tool", req.Params.Name),
			slog.Duration("duration", time.Since(start)),
		}
		switch {
		case err != nil:
			s.logger.Error("tool call failed", append(attrs, slog.String("error", err.Error()))...)
		case res != nil && res.IsError:
			s.logger.Warn("tool call returned error result", attrs...)
		default:
			s.logger.Info("tool call finished", attrs...)
		}
		return res, err
	}
}

func (s *Server) listFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fileTypes := req.GetString("file_types", noteservice.DefaultFileTypes)
	exts := noteservice.ParseFileTypes(fileTypes)
	if len(exts) == 0 {
		return jsonError("No valid file types specified."), nil
	}

	entries, err := s.svc.ListFiles(ctx, exts)
	if err != nil {
		return jsonError(listErrorMessage(err)), nil
	}
	if len(entries) == 0 {
		return jsonText(map[string]string{
			"message": fmt.Sprintf("No files found matching types '%s'.", fileTypes),
		}), nil
	}
	return jsonText(entries), nil
}

func (s *Server) readMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notePath, err := req.RequireString("note_path")
	if err != nil {
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}
	content, err := s.svc.ReadMarkdown(ctx, notePath)
	if err != nil {
		return mcp.NewToolResultError(markdownErrorMessage(notePath, err)), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) readPDF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pdfPath, err := req.RequireString("pdf_path")
	if err != nil {
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}
	res, err := s.svc.ReadPDF(ctx, pdfPath)
	if err != nil {
		return mcp.NewToolResultError(pdfErrorMessage(pdfPath, err)), nil
	}
	if res.NothingExtracted() {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No digital text content could be extracted from PDF: %s. It might be an image-only or scanned document.",
			res.Path)), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError("Error: search failed. Check server logs."), nil
	}
	return jsonText(results), nil
}

func (s *Server) extractTags(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.svc.Tags(ctx)
	if err != nil {
		return mcp.NewToolResultError("Error: tag extraction failed. Check server logs."), nil
	}
	return jsonText(tags), nil
}

func (s *Server) getVaultGuide(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(VaultGuide), nil
}

func (s *Server) readGuideResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GuideURI,
			MIMEType: "text/markdown",
			Text:     VaultGuide,
		},
	}, nil
}

func jsonText(v any) *mcp.CallToolResult {
	out, _ := json.Marshal(v)
	return mcp.NewToolResultText(string(out))
}

func jsonError(msg string) *mcp.CallToolResult {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return mcp.NewToolResultError(string(out))
}
