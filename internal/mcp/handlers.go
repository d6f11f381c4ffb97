// Package mcp provides MCP tool handlers for the notes search server.
// These handlers parse MCP request arguments and delegate to the vault Service.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bad33ndj3/notes-search/internal/vault"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxListDisplay caps notes_list output so a large vault doesn't flood the context.
const maxListDisplay = 50

// SearchArgs defines the arguments for the notes_search tool.
type SearchArgs struct {
	Query string `json:"query" jsonschema_description:"Words to look for (e.g. 'quarterly budget')"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Max notes to return (default 5)"`
}

// KeywordsArgs defines the arguments for the notes_keywords tool.
type KeywordsArgs struct {
	Path  string `json:"path" jsonschema_description:"Note path, absolute or relative to the vault (e.g. 'work/ideas.md')"`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Max keywords to return (default 10)"`
}

// Handlers wraps the vault service and provides MCP tool handlers.
type Handlers struct {
	svc    *vault.Service
	logger *slog.Logger
}

// NewHandlers creates handlers with the given service and logger.
func NewHandlers(svc *vault.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{svc: svc, logger: logger}
}

// NotesSearch handles the notes_search tool call.
// It ranks every note in the vault against the query.
func (h *Handlers) NotesSearch(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	h.logger.Debug("notes_search: searching", "query", args.Query, "limit", args.Limit)

	result, err := h.svc.Search(ctx, args.Query, args.Limit)
	if err != nil {
		if errors.Is(err, vault.ErrEmptyQuery) {
			h.logger.Warn("notes_search: empty query", "query", args.Query)
		} else {
			h.logger.Error("notes_search: failed", "query", args.Query, "error", err)
		}
		return nil, nil, err
	}

	h.logger.Info("notes_search: success",
		"query", args.Query,
		"hits", len(result.Hits),
		"scanned", result.Scanned,
		"skipped", result.Skipped,
	)

	if len(result.Hits) == 0 {
		return textResult(fmt.Sprintf("No notes matched. (searched %d notes)", result.Scanned)), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d notes (searched %d):\n\n", len(result.Hits), result.Scanned))
	for i, hit := range result.Hits {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, hit.Title))
		sb.WriteString(fmt.Sprintf("   path: %s\n", hit.RelPath))
		sb.WriteString(fmt.Sprintf("   score: %.4f\n", hit.Score))
	}
	if result.Skipped > 0 {
		sb.WriteString(fmt.Sprintf("\n%d notes could not be read.\n", result.Skipped))
	}

	return textResult(sb.String()), nil, nil
}

// NotesKeywords handles the notes_keywords tool call.
// It returns the terms that set one note apart from the rest of the vault.
func (h *Handlers) NotesKeywords(ctx context.Context, req *mcp.CallToolRequest, args KeywordsArgs) (*mcp.CallToolResult, any, error) {
	path := strings.TrimSpace(args.Path)
	if path == "" {
		h.logger.Error("notes_keywords: path is required")
		return nil, nil, fmt.Errorf("path is required")
	}

	h.logger.Debug("notes_keywords: extracting", "path", path, "limit", args.Limit)

	keywords, err := h.svc.Keywords(ctx, path, args.Limit)
	if err != nil {
		h.logger.Error("notes_keywords: failed", "path", path, "error", err)
		return nil, nil, err
	}

	h.logger.Info("notes_keywords: success", "path", path, "count", len(keywords))

	if len(keywords) == 0 {
		return textResult(fmt.Sprintf("No distinctive keywords in %s.", path)), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Keywords for %s:\n\n", path))
	for _, kw := range keywords {
		sb.WriteString(fmt.Sprintf("- %s (%.4f)\n", kw.Term, kw.Weight))
	}

	return textResult(sb.String()), nil, nil
}

// NotesList handles the notes_list tool call.
// It returns every note currently in the vault.
func (h *Handlers) NotesList(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, any, error) {
	h.logger.Debug("notes_list: listing vault", "root", h.svc.Root())

	notes, err := h.svc.List(ctx)
	if err != nil {
		h.logger.Error("notes_list: failed", "error", err)
		return nil, nil, err
	}

	if len(notes) == 0 {
		return textResult(fmt.Sprintf("No notes found in %s.", h.svc.Root())), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Notes in vault: %d\n\n", len(notes)))
	for i, n := range notes {
		if i >= maxListDisplay {
			sb.WriteString(fmt.Sprintf("\n... and %d more notes.", len(notes)-maxListDisplay))
			break
		}
		sb.WriteString(fmt.Sprintf("- %s (%d words)\n", n.RelPath, n.Words))
	}

	h.logger.Info("notes_list: success", "count", len(notes))

	return textResult(sb.String()), nil, nil
}

func textResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
