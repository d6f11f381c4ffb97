package search

import (
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/bad33ndj3/notes-search/internal/domain"
)

const epsilon = 1e-12

func docs(pairs ...string) []domain.Document {
	out := make([]domain.Document, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Document{Path: pairs[i], Text: pairs[i+1]})
	}
	return out
}

func TestRank_RanksRelevantFirst(t *testing.T) {
	corpus := docs(
		"a.md", "cats are great pets",
		"b.md", "dogs are loyal friends",
	)

	results := NewTFIDFRanker().Rank("cats pets", corpus)

	if len(results) != 1 {
		t.Fatalf("Expected only a.md, got %+v", results)
	}
	if results[0].Path != "a.md" {
		t.Errorf("Top result = %q, want a.md", results[0].Path)
	}

	// QTF 0.5 each, DTF 0.25 each, IDF ln(3/2) each
	want := 0.25 * math.Log(1.5)
	if math.Abs(results[0].Score-want) > epsilon {
		t.Errorf("Score = %v, want %v", results[0].Score, want)
	}
}

func TestRank_NoOverlapIsEmpty(t *testing.T) {
	corpus := docs(
		"a.md", "cats are great pets",
		"b.md", "dogs are loyal friends",
	)

	results := NewTFIDFRanker().Rank("xyzzy_nonexistent_term", corpus)
	if len(results) != 0 {
		t.Errorf("Expected no results, got %+v", results)
	}
}

func TestRank_EmptyQuery(t *testing.T) {
	corpus := docs("a.md", "anything at all")

	for _, q := range []string{"", "   ", "# ** ``", "?!"} {
		if results := NewTFIDFRanker().Rank(q, corpus); len(results) != 0 {
			t.Errorf("Rank(%q) = %+v, want empty", q, results)
		}
	}
}

func TestRank_EmptyCorpus(t *testing.T) {
	if results := NewTFIDFRanker().Rank("cats", nil); len(results) != 0 {
		t.Errorf("Expected no results for empty corpus, got %+v", results)
	}
}

func TestRank_SupersetBeatsPartialMatch(t *testing.T) {
	corpus := docs(
		"both.md", "apple banana apple banana",
		"one.md", "apple cherry apple cherry",
		"other.md", "grape melon kiwi lime",
	)

	results := NewTFIDFRanker().Rank("apple banana", corpus)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %+v", results)
	}
	if results[0].Path != "both.md" || results[1].Path != "one.md" {
		t.Errorf("Unexpected order: %+v", results)
	}
	if !(results[0].Score > results[1].Score) {
		t.Errorf("Superset should score strictly higher: %+v", results)
	}
}

func TestRank_TermInEveryDocumentScoresZero(t *testing.T) {
	// "are" is in both notes and the query: IDF = ln(3/3) = 0
	corpus := docs(
		"a.md", "cats are great",
		"b.md", "dogs are loyal",
	)

	if results := NewTFIDFRanker().Rank("are", corpus); len(results) != 0 {
		t.Errorf("Expected zero-score notes to be dropped, got %+v", results)
	}
}

func TestRank_EmptyDocumentSkippedButCounted(t *testing.T) {
	corpus := docs(
		"a.md", "cats",
		"blank.md", "*** --- !!!",
	)

	results := NewTFIDFRanker().Rank("cats", corpus)
	if len(results) != 1 || results[0].Path != "a.md" {
		t.Fatalf("Expected only a.md, got %+v", results)
	}

	// T = 2 notes + query = 3, DF(cats) = 2
	want := math.Log(1.5)
	if math.Abs(results[0].Score-want) > epsilon {
		t.Errorf("Score = %v, want %v", results[0].Score, want)
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	corpus := docs(
		"first.md", "cats",
		"filler.md", "dogs",
		"second.md", "cats",
		"third.md", "cats",
	)

	results := NewTFIDFRanker().Rank("cats", corpus)

	var got []string
	for _, r := range results {
		got = append(got, r.Path)
	}
	want := []string{"first.md", "second.md", "third.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Order = %v, want %v", got, want)
	}
}

func TestRank_StripsMarkdownAndCase(t *testing.T) {
	corpus := docs(
		"marked.md", "# Cats\n\n- **Great** pets, see [link](http://x)",
		"other.md", "dogs",
	)

	results := NewTFIDFRanker().Rank("CATS", corpus)
	if len(results) != 1 || results[0].Path != "marked.md" {
		t.Errorf("Expected marked.md to match, got %+v", results)
	}
}

func TestRank_SortedAndPositive(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	vocab := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}

	var corpus []domain.Document
	for i := 0; i < 50; i++ {
		n := 1 + rng.Intn(12)
		words := make([]string, n)
		for j := range words {
			words[j] = vocab[rng.Intn(len(vocab))]
		}
		corpus = append(corpus, domain.Document{
			Path: "note" + string(rune('A'+i%26)) + ".md",
			Text: strings.Join(words, " "),
		})
	}

	results := NewTFIDFRanker().Rank("alpha beta beta theta", corpus)
	if len(results) == 0 {
		t.Fatal("Expected some results")
	}
	for i, r := range results {
		if r.Score <= 0 {
			t.Errorf("Result %d has non-positive score %v", i, r.Score)
		}
		if i > 0 && results[i-1].Score < r.Score {
			t.Errorf("Results not sorted at %d: %v < %v", i, results[i-1].Score, r.Score)
		}
	}
}

func TestRank_Deterministic(t *testing.T) {
	corpus := docs(
		"a.md", "one two three four five",
		"b.md", "five six seven one",
		"c.md", "three three nine ten one",
		"d.md", "eleven",
	)
	query := "one three five nine"

	ranker := NewTFIDFRanker()
	first := ranker.Rank(query, corpus)
	for i := 0; i < 20; i++ {
		if again := ranker.Rank(query, corpus); !reflect.DeepEqual(first, again) {
			t.Fatalf("Run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestTop(t *testing.T) {
	results := []domain.Result{{Path: "a", Score: 3}, {Path: "b", Score: 2}, {Path: "c", Score: 1}}

	tests := []struct {
		k    int
		want int
	}{
		{0, 3},
		{-1, 3},
		{2, 2},
		{5, 3},
	}

	for _, tc := range tests {
		if got := Top(results, tc.k); len(got) != tc.want {
			t.Errorf("Top(k=%d) returned %d results, want %d", tc.k, len(got), tc.want)
		}
	}
}

func TestKeywords_RareTermsFirst(t *testing.T) {
	corpus := []string{"go is fun", "go go go"}

	got := NewTFIDFRanker().Keywords("rust rust go", corpus, 0)
	if len(got) != 2 {
		t.Fatalf("Expected 2 keywords, got %+v", got)
	}
	if got[0].Term != "rust" {
		t.Errorf("Top keyword = %q, want rust", got[0].Term)
	}

	// rust: TF 2/3, DF 1 of 3 documents
	want := (2.0 / 3.0) * math.Log(3)
	if math.Abs(got[0].Weight-want) > epsilon {
		t.Errorf("Weight(rust) = %v, want %v", got[0].Weight, want)
	}

	// go appears everywhere
	if got[1].Term != "go" || got[1].Weight != 0 {
		t.Errorf("Expected go with weight 0, got %+v", got[1])
	}
}

func TestKeywords_LimitAndTieBreak(t *testing.T) {
	got := NewTFIDFRanker().Keywords("zeta alpha mu", nil, 2)
	want := []string{"alpha", "mu"}

	if len(got) != 2 {
		t.Fatalf("Expected 2 keywords, got %+v", got)
	}
	for i := range want {
		if got[i].Term != want[i] {
			t.Errorf("Keyword[%d] = %q, want %q", i, got[i].Term, want[i])
		}
	}
}

func TestKeywords_EmptyTarget(t *testing.T) {
	if got := NewTFIDFRanker().Keywords("", []string{"a b"}, 5); got != nil {
		t.Errorf("Expected nil, got %+v", got)
	}
}

// --- Benchmarks ---

// createTestCorpus creates n notes for benchmarking.
func createTestCorpus(n int) []domain.Document {
	out := make([]domain.Document, n)
	for i := 0; i < n; i++ {
		body := "## Daily log\n\n- reviewed **search** results\n- wrote notes about cats and pets\n"
		if i%2 == 0 {
			body += "1. groceries: apples, bananas\n"
		}
		if i%3 == 0 {
			body += "Read [an article](https://example.com) on `tf-idf` ranking.\n"
		}
		out[i] = domain.Document{Path: "note.md", Text: strings.Repeat(body, 5)}
	}
	return out
}

// BenchmarkRank_Small measures ranking a small vault.
func BenchmarkRank_Small(b *testing.B) {
	corpus := createTestCorpus(10)
	ranker := NewTFIDFRanker()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ranker.Rank("tf-idf ranking", corpus)
	}
}

// BenchmarkRank_Large measures ranking a large vault.
func BenchmarkRank_Large(b *testing.B) {
	corpus := createTestCorpus(500)
	ranker := NewTFIDFRanker()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ranker.Rank("tf-idf ranking", corpus)
	}
}
