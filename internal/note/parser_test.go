package note

import (
	"errors"
	"strings"
	"testing"
)

func TestMarkdownParser_ReturnsContent(t *testing.T) {
	doc, err := MarkdownParser{}.Parse("vault/a.md", []byte("# Title\n\nBody"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Path != "vault/a.md" {
		t.Errorf("Path = %q, want vault/a.md", doc.Path)
	}
	if doc.Text != "# Title\n\nBody" {
		t.Errorf("Text = %q", doc.Text)
	}
}

func TestMarkdownParser_StripsBOM(t *testing.T) {
	doc, err := MarkdownParser{}.Parse("a.md", append([]byte{0xEF, 0xBB, 0xBF}, "hello"...))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Text != "hello" {
		t.Errorf("Text = %q, want hello", doc.Text)
	}
}

func TestMarkdownParser_RejectsInvalidUTF8(t *testing.T) {
	_, err := MarkdownParser{}.Parse("bad.md", []byte{0xff, 0xfe, 'a'})
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("Expected ErrInvalidUTF8, got %v", err)
	}
}

func TestJSONParser(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "structured note",
			content: `{"version": 1.3, "text": "# Shopping\n- milk", "drawings": [{"points": [1.5, 2.0, 3.5, 4.0], "color": [1, 0, 0, 1], "width": 2.0, "is_new": true}]}`,
			want:    "# Shopping\n- milk",
		},
		{
			name:    "missing text",
			content: `{"version": 1.3, "drawings": []}`,
			want:    "",
		},
		{
			name:    "malformed falls back to raw",
			content: `{"text": "unterminated`,
			want:    `{"text": "unterminated`,
		},
		{
			name:    "array falls back to raw",
			content: `["not", "a", "note"]`,
			want:    `["not", "a", "note"]`,
		},
		{
			name:    "null falls back to raw",
			content: `null`,
			want:    `null`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := JSONParser{}.Parse("n.json", []byte(tc.content))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if doc.Text != tc.want {
				t.Errorf("Text = %q, want %q", doc.Text, tc.want)
			}
		})
	}
}

func TestDecode_KeepsDrawings(t *testing.T) {
	n, err := Decode([]byte(`{"version": 1.3, "text": "x", "drawings": [{"points": [0, 0, 10, 10], "color": [0, 0, 1, 1], "width": 3.5}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n.Version != 1.3 {
		t.Errorf("Version = %v, want 1.3", n.Version)
	}
	if len(n.Drawings) != 1 || len(n.Drawings[0].Points) != 4 || n.Drawings[0].Width != 3.5 {
		t.Errorf("Unexpected drawings: %+v", n.Drawings)
	}
}

func TestRegistry_For(t *testing.T) {
	reg, err := NewRegistry([]string{".md", "JSON"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	tests := []struct {
		path   string
		isNote bool
	}{
		{"a.md", true},
		{"dir/B.MD", true},
		{"c.json", true},
		{"d.txt", false},
		{"noext", false},
		{"e.md.bak", false},
	}

	for _, tc := range tests {
		_, ok := reg.For(tc.path)
		if ok != tc.isNote {
			t.Errorf("For(%q) = %v, want %v", tc.path, ok, tc.isNote)
		}
	}

	if got := strings.Join(reg.Extensions(), ","); got != ".json,.md" {
		t.Errorf("Extensions = %s, want .json,.md", got)
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	if _, err := NewRegistry(nil); err == nil {
		t.Error("Expected error for empty extension list")
	}
	if _, err := NewRegistry([]string{".docx"}); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}
