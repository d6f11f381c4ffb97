package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/bad33ndj3/notes-search/internal/domain"
	"github.com/bad33ndj3/notes-search/internal/metrics"
	"github.com/bad33ndj3/notes-search/internal/note"
	"github.com/bad33ndj3/notes-search/internal/search"
	"github.com/bad33ndj3/notes-search/internal/text"
)

var (
	// ErrEmptyQuery is returned when a query has no searchable words.
	ErrEmptyQuery = errors.New("query is empty: type something to search for")

	// ErrOutsideVault is returned for note paths that escape the vault root.
	ErrOutsideVault = errors.New("path is outside the vault")

	// ErrNoteNotFound is returned when a path names no readable note.
	ErrNoteNotFound = errors.New("note not found")
)

// Hit is one search result, ready to display.
type Hit struct {
	Path    string  `json:"path"`
	RelPath string  `json:"rel_path"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	Query string
	Hits  []Hit

	// Scanned is how many notes were ranked
	Scanned int

	// Skipped is how many notes couldn't be read
	Skipped int
}

// NoteInfo describes a note for listings.
type NoteInfo struct {
	RelPath string `json:"rel_path"`
	Title   string `json:"title"`
	Words   int    `json:"words"`
}

// Service searches a vault. It owns no notes: each call walks the vault anew
// and hands the snapshot to the ranker.
type Service struct {
	root         string
	loader       *Loader
	ranker       search.Ranker
	logger       *slog.Logger
	metrics      *metrics.Metrics
	concurrency  int
	resultLimit  int
	keywordLimit int
}

// Option configures optional Service behavior.
type Option func(*Service)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics records every search on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithConcurrency bounds parallel note reads (default 8).
func WithConcurrency(n int) Option {
	return func(s *Service) { s.concurrency = n }
}

// WithResultLimit sets how many hits Search returns when the caller passes 0.
func WithResultLimit(n int) Option {
	return func(s *Service) { s.resultLimit = n }
}

// WithKeywordLimit sets how many keywords Keywords returns when the caller passes 0.
func WithKeywordLimit(n int) Option {
	return func(s *Service) { s.keywordLimit = n }
}

// New creates a Service over the vault at root with all its dependencies injected.
func New(root string, reg *note.Registry, r search.Ranker, fr FileReader, clk Clock, opts ...Option) *Service {
	s := &Service{
		root:         root,
		ranker:       r,
		logger:       slog.Default(),
		concurrency:  8,
		resultLimit:  domain.DefaultResultLimit,
		keywordLimit: domain.DefaultKeywordLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.loader = NewLoader(reg, fr, clk, s.concurrency, s.logger)
	return s
}

// Root returns the vault directory.
func (s *Service) Root() string {
	return s.root
}

// Search ranks every note in the vault against query and returns the best
// limit hits (limit <= 0 uses the configured default).
//
// A query without searchable words returns ErrEmptyQuery before the vault is
// touched. No matches is not an error: Hits is simply empty.
func (s *Service) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	start := time.Now()

	if len(text.Tokens(query)) == 0 {
		s.observe(metrics.ResultEmptyQuery, start, 0, 0)
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = s.resultLimit
	}

	snap, err := s.loader.Load(ctx, s.root)
	if err != nil {
		s.observe(metrics.ResultError, start, 0, 0)
		return nil, fmt.Errorf("load vault: %w", err)
	}

	ranked := search.Top(s.ranker.Rank(query, snap.Documents), limit)

	hits := make([]Hit, 0, len(ranked))
	for _, r := range ranked {
		hits = append(hits, s.hit(r))
	}

	resultType := metrics.ResultHit
	if len(hits) == 0 {
		resultType = metrics.ResultZero
	}
	s.observe(resultType, start, len(snap.Documents), len(snap.Skipped))

	s.logger.Debug("search complete",
		"query", query,
		"scanned", len(snap.Documents),
		"skipped", len(snap.Skipped),
		"hits", len(hits),
		"took", time.Since(start),
	)

	return &SearchResult{
		Query:   query,
		Hits:    hits,
		Scanned: len(snap.Documents),
		Skipped: len(snap.Skipped),
	}, nil
}

// Keywords returns the terms that best characterise one note compared with the
// rest of the vault. path may be absolute or relative to the vault root.
func (s *Service) Keywords(ctx context.Context, path string, limit int) ([]domain.Keyword, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}
	if limit <= 0 {
		limit = s.keywordLimit
	}

	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	snap, err := s.loader.Load(ctx, s.root)
	if err != nil {
		return nil, fmt.Errorf("load vault: %w", err)
	}

	var targetText string
	found := false
	corpus := make([]string, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		abs, err := filepath.Abs(doc.Path)
		if err == nil && abs == target {
			targetText = doc.Text
			found = true
			continue
		}
		corpus = append(corpus, doc.Text)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, path)
	}

	return s.ranker.Keywords(targetText, corpus, limit), nil
}

// List returns every readable note in the vault, in walk order.
func (s *Service) List(ctx context.Context) ([]NoteInfo, error) {
	snap, err := s.loader.Load(ctx, s.root)
	if err != nil {
		return nil, fmt.Errorf("load vault: %w", err)
	}

	out := make([]NoteInfo, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		out = append(out, NoteInfo{
			RelPath: s.relPath(doc.Path),
			Title:   title(doc.Path),
			Words:   len(text.Tokens(doc.Text)),
		})
	}
	return out, nil
}

// resolve turns a user-supplied note path into a clean absolute path inside the vault.
func (s *Service) resolve(path string) (string, error) {
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("resolve vault root: %w", err)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(rootAbs, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(rootAbs, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, path)
	}
	return path, nil
}

func (s *Service) hit(r domain.Result) Hit {
	return Hit{
		Path:    r.Path,
		RelPath: s.relPath(r.Path),
		Title:   title(r.Path),
		Score:   r.Score,
	}
}

// relPath is path relative to the vault root, or path itself if that fails.
func (s *Service) relPath(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return path
	}
	return rel
}

func (s *Service) observe(resultType string, start time.Time, scanned, skipped int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveSearch(resultType, time.Since(start), scanned, skipped)
}

// title is the file name without its extension.
func title(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
