// Package testutil provides shared test helpers and mock implementations.
// This avoids duplicating mock code across test files.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bad33ndj3/notes-search/internal/domain"
)

// WriteVault creates a vault under a fresh temp dir from relative path -> content
// and returns its root.
func WriteVault(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return root
}

// FailingReader reads from disk except for paths listed in Fail,
// which return the given error instead.
type FailingReader struct {
	Fail map[string]error
}

func (r FailingReader) ReadFile(path string) ([]byte, error) {
	if err, ok := r.Fail[path]; ok {
		return nil, err
	}
	return os.ReadFile(path)
}

// MockRanker returns fixed results and records what it was given.
type MockRanker struct {
	mu sync.Mutex

	Results  []domain.Result
	Keys     []domain.Keyword
	Queries  []string
	LastDocs []domain.Document

	LastTarget string
	LastCorpus []string
	LastLimit  int
}

func (m *MockRanker) Rank(query string, docs []domain.Document) []domain.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	m.LastDocs = docs
	return m.Results
}

func (m *MockRanker) Keywords(target string, corpus []string, limit int) []domain.Keyword {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastTarget = target
	m.LastCorpus = corpus
	m.LastLimit = limit
	return m.Keys
}

// MockClock returns a fixed time for reproducible tests.
type MockClock struct {
	Time time.Time
}

// NewMockClock creates a clock fixed at the given time.
// If t is zero, uses 2024-01-01 00:00:00 UTC.
func NewMockClock(t time.Time) MockClock {
	if t.IsZero() {
		t = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return MockClock{Time: t}
}

func (m MockClock) Now() time.Time { return m.Time }
