// Package semantic implements a pure sparse TF-IDF engine for code search:
// tokenization, vocabulary selection, smooth IDF, sublinear TF, L2
// normalization, and cosine-similarity ranking over already-normalized
// sparse vectors.
package semantic

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/panbanda/omen/internal/model"
)

// MaxVocab bounds the engine's vocabulary to the top terms by document
// frequency, keeping both memory and query latency bounded on large corpora.
const MaxVocab = 10_000

var wordRe = regexp.MustCompile(`\w+`)

// Engine is a fitted TF-IDF index: a fixed vocabulary, its IDF weights, and
// one L2-normalized sparse vector per indexed document.
type Engine struct {
	vocab   map[string]uint32
	idf     []float32
	vectors []model.SparseVector
	docs    []model.DocMetadata
}

// Fit builds an Engine from a corpus of documents using the package's
// default vocabulary cap. A zero-length corpus yields a cold-start Engine
// whose queries always return no results.
func Fit(docs []model.Document) *Engine {
	return FitN(docs, MaxVocab)
}

// FitN builds an Engine like Fit, but caps the vocabulary at maxVocab terms
// instead of the package default, honoring a configured semantic.max_vocab.
// A non-positive maxVocab falls back to the package default.
func FitN(docs []model.Document, maxVocab int) *Engine {
	if maxVocab <= 0 {
		maxVocab = MaxVocab
	}

	if len(docs) == 0 {
		return &Engine{}
	}

	n := float32(len(docs))

	tokenized := make([][]string, len(docs))
	for i, d := range docs {
		tokenized[i] = tokenize(d.Text)
	}

	df := make(map[string]int)
	for _, tokens := range tokenized {
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			seen[t] = struct{}{}
		}
		for t := range seen {
			df[t]++
		}
	}

	terms := make([]termDF, 0, len(df))
	for term, count := range df {
		terms = append(terms, termDF{term: term, df: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].df != terms[j].df {
			return terms[i].df > terms[j].df
		}
		return terms[i].term < terms[j].term
	})
	if len(terms) > maxVocab {
		terms = terms[:maxVocab]
	}

	vocab := make(map[string]uint32, len(terms))
	idf := make([]float32, len(terms))
	for idx, t := range terms {
		vocab[t.term] = uint32(idx)
		idf[idx] = float32(math.Log(1+float64(n)/(1+float64(t.df)))) + 1
	}

	vectors := make([]model.SparseVector, len(docs))
	for i, tokens := range tokenized {
		vectors[i] = buildVector(tokens, vocab, idf)
	}

	meta := make([]model.DocMetadata, len(docs))
	for i, d := range docs {
		meta[i] = d.Metadata
	}

	return &Engine{vocab: vocab, idf: idf, vectors: vectors, docs: meta}
}

// Search returns the topK documents most similar to query, scored by cosine
// similarity, descending, ties broken by original document order.
func (e *Engine) Search(query string, topK int) []model.SearchResult {
	return e.search(query, topK, nil)
}

// SearchInFiles restricts Search to documents whose file path is in files.
func (e *Engine) SearchInFiles(query string, files []string, topK int) []model.SearchResult {
	allowed := make(map[string]struct{}, len(files))
	for _, f := range files {
		allowed[f] = struct{}{}
	}
	return e.search(query, topK, allowed)
}

func (e *Engine) search(query string, topK int, allowed map[string]struct{}) []model.SearchResult {
	if len(e.vectors) == 0 {
		return nil
	}

	queryVec := buildVector(tokenize(query), e.vocab, e.idf)

	type scored struct {
		idx   int
		score float32
	}

	candidates := make([]scored, 0, len(e.vectors))
	for i, vec := range e.vectors {
		if allowed != nil {
			if _, ok := allowed[e.docs[i].FilePath]; !ok {
				continue
			}
		}
		candidates = append(candidates, scored{idx: i, score: queryVec.Dot(vec)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if topK >= 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]model.SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = model.SearchResult{Metadata: e.docs[c.idx], Score: c.score}
	}

	return results
}

// VocabSize reports the number of terms retained after MaxVocab truncation.
func (e *Engine) VocabSize() int { return len(e.vocab) }

// Terms returns the engine's vocabulary terms ordered by column index,
// suitable for persisting alongside the IDF weights and rebuilding an
// identical Engine later via Restore.
func (e *Engine) Terms() []string {
	terms := make([]string, len(e.vocab))
	for term, idx := range e.vocab {
		terms[idx] = term
	}
	return terms
}

// IDF returns the engine's IDF weights, parallel to Terms.
func (e *Engine) IDF() []float32 { return e.idf }

// Vectors returns the engine's document vectors, parallel to Docs.
func (e *Engine) Vectors() []model.SparseVector { return e.vectors }

// Docs returns the engine's document metadata, parallel to Vectors.
func (e *Engine) Docs() []model.DocMetadata { return e.docs }

// Restore reconstructs an Engine directly from a previously fitted
// vocabulary, IDF weights, document vectors, and metadata, without
// re-tokenizing or re-fitting — the persistent cache's fast path when
// nothing in the corpus has changed since the last index build.
func Restore(terms []string, idf []float32, vectors []model.SparseVector, docs []model.DocMetadata) *Engine {
	vocab := make(map[string]uint32, len(terms))
	for idx, term := range terms {
		vocab[term] = uint32(idx)
	}
	return &Engine{vocab: vocab, idf: idf, vectors: vectors, docs: docs}
}

type termDF struct {
	term string
	df   int
}

// tokenize lower-cases \w+ runs and emits unigrams plus adjacent-pair
// bigrams, matching the word boundaries of a Unicode-aware \w.
func tokenize(text string) []string {
	words := wordRe.FindAllString(text, -1)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}

	tokens := make([]string, len(words), len(words)*2)
	copy(tokens, words)

	for i := 0; i+1 < len(words); i++ {
		tokens = append(tokens, words[i]+" "+words[i+1])
	}

	return tokens
}

// buildVector computes an L2-normalized sparse TF-IDF vector from tokens,
// keeping only in-vocabulary terms and applying sublinear TF (1 + ln(tf)).
func buildVector(tokens []string, vocab map[string]uint32, idf []float32) model.SparseVector {
	if len(tokens) == 0 || len(vocab) == 0 {
		return model.SparseVector{}
	}

	tf := make(map[uint32]int)
	for _, t := range tokens {
		if idx, ok := vocab[t]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return model.SparseVector{}
	}

	indices := make([]uint32, 0, len(tf))
	for idx := range tf {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	values := make([]float32, len(indices))
	for i, idx := range indices {
		sublinearTF := float32(1 + math.Log(float64(tf[idx])))
		values[i] = sublinearTF * idf[idx]
	}

	vec := model.SparseVector{Indices: indices, Values: values}
	l2Normalize(vec.Values)
	return vec
}

func l2Normalize(values []float32) {
	var sumSquares float32
	for _, v := range values {
		sumSquares += v * v
	}
	if sumSquares <= 0 {
		return
	}
	norm := float32(math.Sqrt(float64(sumSquares)))
	for i := range values {
		values[i] /= norm
	}
}
