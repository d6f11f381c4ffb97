// Package main is the entry point for the notes-search server.
// It wires together all dependencies and starts the MCP server.
//
// This file is intentionally minimal - all business logic lives in internal/.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bad33ndj3/notes-search/internal/config"
	mcphandlers "github.com/bad33ndj3/notes-search/internal/mcp"
	"github.com/bad33ndj3/notes-search/internal/metrics"
	"github.com/bad33ndj3/notes-search/internal/note"
	"github.com/bad33ndj3/notes-search/internal/search"
	"github.com/bad33ndj3/notes-search/internal/vault"
)

const (
	serverName    = "notes-search"
	serverVersion = "v0.1.0"
)

// setupLogger creates an slog logger that writes to a debug file in the log directory.
// File format: debug-YYYY-MM-DD.txt
func setupLogger(logDir string, level slog.Level) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.txt", date))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler), file, nil
}

func main() {
	// IMPORTANT: MCP stdio servers must log to stderr only (for standard log package).
	log.SetOutput(os.Stderr)

	// --- 0. Parse flags and load config ---
	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	vaultRoot := flag.String("vault", "", "Vault directory to search (overrides config)")
	logDir := flag.String("log-dir", "", "Directory for debug log files (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090 (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *vaultRoot != "" {
		cfg.Vault.Root = *vaultRoot
	}
	if *logDir != "" {
		cfg.Logging.Dir = *logDir
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// --- 1. Setup file-based debug logger ---
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		log.Printf("Warning: unknown log level %q, using debug", cfg.Logging.Level)
		level = slog.LevelDebug
	}

	logger, logFile, err := setupLogger(cfg.Logging.Dir, level)
	if err != nil {
		log.Printf("Warning: failed to setup file logger: %v", err)
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	} else {
		defer logFile.Close()
	}

	logger.Info("server starting",
		"name", serverName,
		"version", serverVersion,
		"vault", cfg.Vault.Root,
		"extensions", cfg.Vault.Extensions,
	)

	// --- 2. Create all dependencies ---

	// Registry: picks a parser by file extension
	registry, err := note.NewRegistry(cfg.Vault.Extensions)
	if err != nil {
		logger.Error("invalid note extensions", "error", err)
		log.Fatalf("Invalid note extensions: %v", err)
	}

	opts := []vault.Option{
		vault.WithLogger(logger),
		vault.WithConcurrency(cfg.Vault.ReadConcurrency),
		vault.WithResultLimit(cfg.Search.ResultLimit),
		vault.WithKeywordLimit(cfg.Search.KeywordLimit),
	}

	// Metrics: only exposed when an address is configured
	if cfg.Metrics.Addr != "" {
		m := metrics.New(prometheus.NewRegistry())
		shutdown := m.StartServer(cfg.Metrics.Addr, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
		opts = append(opts, vault.WithMetrics(m))
	}

	// --- 3. Wire up the vault service ---
	svc := vault.New(cfg.Vault.Root, registry, search.NewTFIDFRanker(),
		vault.OSFileReader{}, vault.RealClock{}, opts...)

	handlers := mcphandlers.NewHandlers(svc, logger)

	// --- 4. Create and configure the MCP server ---

	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &mcp.ServerOptions{
		Instructions: "Use notes_search to find notes by keywords, notes_keywords to see what a note is about, and notes_list to browse the vault. The vault is re-read on every call.",
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "notes_search",
		Description: "Rank the notes in the vault against a query (TF-IDF). Returns title, path and score of the best matches.",
	}, handlers.NotesSearch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "notes_keywords",
		Description: "List the terms that set one note apart from the rest of the vault, highest weight first.",
	}, handlers.NotesKeywords)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "notes_list",
		Description: "List the notes currently in the vault with their word counts.",
	}, handlers.NotesList)

	logger.Info("server ready, waiting for requests")

	// --- 5. Run the server ---

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("server error", "error", err)
		log.Fatal(err)
	}
}
