// Package vault reads a directory tree of notes and searches it.
// Every search takes a fresh snapshot of the vault: nothing is cached between
// calls, so edits show up immediately.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bad33ndj3/notes-search/internal/domain"
	"github.com/bad33ndj3/notes-search/internal/note"
)

// ErrVaultNotFound is returned when the vault root doesn't exist.
var ErrVaultNotFound = errors.New("vault not found")

// FileReader abstracts file system access for testability.
// In tests, you can inject one that fails for chosen paths.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Clock abstracts time access for reproducible tests.
type Clock interface {
	Now() time.Time
}

// SkippedFile is a note left out of a snapshot, with the reason.
type SkippedFile struct {
	Path string
	Err  error
}

// Snapshot is the vault's notes at one point in time, in walk order.
// It is never modified after Load returns.
type Snapshot struct {
	Root      string
	Documents []domain.Document
	Skipped   []SkippedFile
	TakenAt   time.Time
}

// Loader walks a vault and reads every note in it.
type Loader struct {
	registry    *note.Registry
	reader      FileReader
	clock       Clock
	concurrency int
	logger      *slog.Logger
}

// NewLoader creates a Loader. concurrency bounds parallel file reads (minimum 1).
func NewLoader(reg *note.Registry, r FileReader, clk Clock, concurrency int, logger *slog.Logger) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		registry:    reg,
		reader:      r,
		clock:       clk,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Load walks root recursively and reads every note it finds.
//
// A note that can't be read or parsed is logged and listed in Skipped; it
// never fails the whole load. Hidden directories (".git", ".obsidian", the
// log directory) are not descended into.
func (l *Loader) Load(ctx context.Context, root string) (*Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrVaultNotFound, root)
		}
		return nil, fmt.Errorf("stat vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", root)
	}

	// 1. Collect note paths in lexical walk order
	var paths []string
	var skipped []SkippedFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			l.logger.Warn("skipping unreadable vault entry", "path", path, "error", err)
			skipped = append(skipped, SkippedFile{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := l.registry.For(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}

	// 2. Read and parse in parallel; slots keep walk order
	docs := make([]domain.Document, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs[i], errs[i] = l.readNote(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("read vault: %w", err)
	}

	// 3. Drop the failures, keeping the order of the rest
	kept := docs[:0]
	for i, doc := range docs {
		if errs[i] != nil {
			l.logger.Warn("skipping unreadable note", "path", paths[i], "error", errs[i])
			skipped = append(skipped, SkippedFile{Path: paths[i], Err: errs[i]})
			continue
		}
		kept = append(kept, doc)
	}

	return &Snapshot{
		Root:      root,
		Documents: kept,
		Skipped:   skipped,
		TakenAt:   l.clock.Now(),
	}, nil
}

// readNote reads one file and runs it through its parser.
func (l *Loader) readNote(path string) (domain.Document, error) {
	parser, ok := l.registry.For(path)
	if !ok {
		return domain.Document{}, fmt.Errorf("no parser for %s", path)
	}

	content, err := l.reader.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read file: %w", err)
	}

	doc, err := parser.Parse(path, content)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse note: %w", err)
	}
	return doc, nil
}

// OSFileReader is the production implementation using the real filesystem.
type OSFileReader struct{}

// ReadFile reads a file from the real filesystem.
func (OSFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// RealClock uses the actual system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
