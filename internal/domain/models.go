// Package domain contains core data types used across the notes-search server.
// These are pure data structures with no behavior - the "nouns" of the application.
package domain

// DefaultResultLimit is how many hits a search shows when the caller doesn't say.
const DefaultResultLimit = 5

// DefaultKeywordLimit is how many keywords are reported for a single note.
const DefaultKeywordLimit = 10

// Document is one note handed to the ranker.
// It is built fresh for every query and never mutated afterwards.
type Document struct {
	// Path identifies the note (the file path inside the vault)
	Path string `json:"path"`

	// Text is the raw, unnormalized note content (Markdown source)
	Text string `json:"text"`
}

// Result is a ranked document. Score is always > 0.
type Result struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// Keyword is a term of one note weighted by TF-IDF against the rest of the vault.
type Keyword struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Note is the structured (.json) note format written by the editor.
// Only Text is searchable; drawings are carried along untouched.
type Note struct {
	Version  float64   `json:"version"`
	Text     string    `json:"text"`
	Drawings []Drawing `json:"drawings"`
}

// Drawing is one freehand stroke stored alongside a structured note.
type Drawing struct {
	// Points is a flat x0,y0,x1,y1,... list of canvas coordinates
	Points []float64 `json:"points"`

	// Color is RGBA in the 0..1 range
	Color []float64 `json:"color"`

	Width float64 `json:"width"`
	IsNew bool    `json:"is_new,omitempty"`
}
