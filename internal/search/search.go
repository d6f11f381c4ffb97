// Package search implements TF-IDF relevance ranking over a set of notes.
// Statistics are rebuilt from scratch on every call: there is no index to keep in sync.
package search

import (
	"math"
	"sort"

	"github.com/bad33ndj3/notes-search/internal/domain"
	"github.com/bad33ndj3/notes-search/internal/text"
)

// ─────────────────────────────────────────────────────────────────────────────
// Types
// ─────────────────────────────────────────────────────────────────────────────

// Ranker scores documents against a query.
type Ranker interface {
	// Rank returns the documents that share at least one term with the query,
	// best first.
	Rank(query string, docs []domain.Document) []domain.Result

	// Keywords returns the most characteristic terms of target relative to corpus.
	Keywords(target string, corpus []string, limit int) []domain.Keyword
}

// TFIDFRanker is the production Ranker. It holds no state, so one value can
// serve any number of concurrent callers.
type TFIDFRanker struct{}

// NewTFIDFRanker creates a ranker.
func NewTFIDFRanker() *TFIDFRanker {
	return &TFIDFRanker{}
}

// termFrequency maps each term to its share of a document's tokens.
type termFrequency map[string]float64

// ─────────────────────────────────────────────────────────────────────────────
// Statistics
// ─────────────────────────────────────────────────────────────────────────────

// calcTF computes count(t)/len(tokens) for every distinct token.
// An empty token list gives an empty table (nothing to divide by).
func calcTF(tokens []string) termFrequency {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	tf := make(termFrequency, len(counts))
	total := float64(len(tokens))
	for t, c := range counts {
		tf[t] = float64(c) / total
	}
	return tf
}

// distinct returns the unique tokens in first-occurrence order.
// Iterating this instead of a map keeps float summation order fixed.
func distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// docFrequency counts, for each term, how many documents contain it.
// extra is the query (or keyword target) counted as one more document.
func docFrequency(docs []termFrequency, extra termFrequency) map[string]int {
	df := make(map[string]int)
	for _, tf := range docs {
		for term := range tf {
			df[term]++
		}
	}
	for term := range extra {
		df[term]++
	}
	return df
}

// calcIDF computes ln(total/df). df is never 0 for a term we look up, since
// every looked-up term comes from the extra document.
func calcIDF(totalDocs, df int) float64 {
	return math.Log(float64(totalDocs) / float64(df))
}

// ─────────────────────────────────────────────────────────────────────────────
// Ranking
// ─────────────────────────────────────────────────────────────────────────────

// Rank scores every document against the query with TF-IDF and returns those
// with a positive score, highest first. Equal scores keep their input order.
//
// score(d) = Σ over distinct query terms t of QTF[t] · DTF_d[t] · IDF[t]
func (r *TFIDFRanker) Rank(query string, docs []domain.Document) []domain.Result {
	queryTerms := text.Tokens(query)
	if len(queryTerms) == 0 || len(docs) == 0 {
		return nil
	}

	queryTF := calcTF(queryTerms)
	docTFs := make([]termFrequency, len(docs))
	for i, d := range docs {
		docTFs[i] = calcTF(text.Tokens(d.Text))
	}

	df := docFrequency(docTFs, queryTF)
	totalDocs := len(docs) + 1

	// IDF only matters for terms the query can match
	uniqueQuery := distinct(queryTerms)
	idf := make(map[string]float64, len(uniqueQuery))
	for _, t := range uniqueQuery {
		idf[t] = calcIDF(totalDocs, df[t])
	}

	results := make([]domain.Result, 0, len(docs))
	for i, docTF := range docTFs {
		// Empty notes have nothing to match
		if len(docTF) == 0 {
			continue
		}

		score := 0.0
		for _, t := range uniqueQuery {
			dtf, ok := docTF[t]
			if !ok {
				continue
			}
			score += queryTF[t] * dtf * idf[t]
		}

		if score > 0 {
			results = append(results, domain.Result{Path: docs[i].Path, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// Top truncates ranked results to at most k entries. k <= 0 means no limit.
func Top(results []domain.Result, k int) []domain.Result {
	if k <= 0 || len(results) <= k {
		return results
	}
	return results[:k]
}

// ─────────────────────────────────────────────────────────────────────────────
// Keywords
// ─────────────────────────────────────────────────────────────────────────────

// Keywords weights each distinct term of target by TF-IDF, treating target as
// one extra document next to corpus. Terms shared with many notes fall to the
// bottom; terms unique to target rise to the top.
//
// Results are sorted by weight (descending), then term, and cut to limit
// (limit <= 0 returns all). Empty target yields nil.
func (r *TFIDFRanker) Keywords(target string, corpus []string, limit int) []domain.Keyword {
	targetTerms := text.Tokens(target)
	if len(targetTerms) == 0 {
		return nil
	}

	targetTF := calcTF(targetTerms)
	corpusTFs := make([]termFrequency, len(corpus))
	for i, doc := range corpus {
		corpusTFs[i] = calcTF(text.Tokens(doc))
	}

	df := docFrequency(corpusTFs, targetTF)
	totalDocs := len(corpus) + 1

	uniqueTarget := distinct(targetTerms)
	keywords := make([]domain.Keyword, 0, len(uniqueTarget))
	for _, t := range uniqueTarget {
		keywords = append(keywords, domain.Keyword{
			Term:   t,
			Weight: targetTF[t] * calcIDF(totalDocs, df[t]),
		})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Weight != keywords[j].Weight {
			return keywords[i].Weight > keywords[j].Weight
		}
		return keywords[i].Term < keywords[j].Term
	})

	if limit > 0 && len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}
