// Package note turns note files into searchable documents.
// Notes are either plain Markdown or the editor's structured JSON format;
// either way only the text ends up in front of the ranker.
package note

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bad33ndj3/notes-search/internal/domain"
)

// ErrInvalidUTF8 is returned for files that aren't valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("note is not valid UTF-8")

// utf8BOM is written by some editors at the start of text files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser defines how a note file's bytes become a Document.
type Parser interface {
	Parse(path string, content []byte) (domain.Document, error)
}

// MarkdownParser handles plain Markdown notes: the file content is the text.
type MarkdownParser struct{}

// Parse returns the file content with any byte-order mark removed.
func (MarkdownParser) Parse(path string, content []byte) (domain.Document, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return domain.Document{}, fmt.Errorf("%s: %w", path, ErrInvalidUTF8)
	}
	return domain.Document{Path: path, Text: string(content)}, nil
}

// JSONParser handles structured notes written by the editor:
//
//	{"version": 1.3, "text": "# Title ...", "drawings": [...]}
//
// Only "text" is searched. A file that doesn't decode as a note object is
// searched as raw text instead, the same way the editor displays it.
type JSONParser struct{}

// Parse extracts the note text, falling back to the raw content.
func (JSONParser) Parse(path string, content []byte) (domain.Document, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return domain.Document{}, fmt.Errorf("%s: %w", path, ErrInvalidUTF8)
	}

	n, err := Decode(content)
	if err != nil {
		return domain.Document{Path: path, Text: string(content)}, nil
	}
	return domain.Document{Path: path, Text: n.Text}, nil
}

// Decode parses a structured note. The top level must be a JSON object.
func Decode(content []byte) (*domain.Note, error) {
	content = bytes.TrimSpace(bytes.TrimPrefix(content, utf8BOM))
	if len(content) == 0 || content[0] != '{' {
		return nil, errors.New("decode note: not a JSON object")
	}

	var n domain.Note
	if err := json.Unmarshal(content, &n); err != nil {
		return nil, fmt.Errorf("decode note: %w", err)
	}
	return &n, nil
}

// builtin maps every extension we know how to read to its parser.
var builtin = map[string]Parser{
	".md":       MarkdownParser{},
	".markdown": MarkdownParser{},
	".txt":      MarkdownParser{},
	".json":     JSONParser{},
}

// Registry picks a parser by file extension.
// Only extensions it was built with count as notes.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a registry for the given extensions (e.g. ".md", "json").
// Extensions are case-insensitive; the leading dot is optional.
func NewRegistry(extensions []string) (*Registry, error) {
	if len(extensions) == 0 {
		return nil, errors.New("at least one note extension is required")
	}

	parsers := make(map[string]Parser, len(extensions))
	for _, ext := range extensions {
		ext = normalizeExt(ext)
		p, ok := builtin[ext]
		if !ok {
			return nil, fmt.Errorf("unsupported note extension %q (supported: %s)",
				ext, strings.Join(Supported(), ", "))
		}
		parsers[ext] = p
	}
	return &Registry{parsers: parsers}, nil
}

// For returns the parser for path, or false if path isn't a note.
func (r *Registry) For(path string) (Parser, bool) {
	p, ok := r.parsers[normalizeExt(filepath.Ext(path))]
	return p, ok
}

// Extensions lists the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Supported lists every extension a Registry can be built with.
func Supported() []string {
	out := make([]string, 0, len(builtin))
	for ext := range builtin {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
