// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package recommend

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrNoVocabulary indicates fitting produced an empty vocabulary, meaning
// every document was empty or pure stop words.
var ErrNoVocabulary = errors.New("empty vocabulary after stop-word removal")

// tokenPattern matches word tokens of two or more characters.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// SparseVector is a term-index -> weight mapping. Vectors produced by the
// vectorizer are L2-normalized, so their dot product is a cosine similarity.
type SparseVector map[int]float64

// Dot returns the dot product of two sparse vectors.
func (v SparseVector) Dot(other SparseVector) float64 {
	// Iterate the smaller side.
	if len(other) < len(v) {
		v, other = other, v
	}
	var sum float64
	for i, w := range v {
		if ow, ok := other[i]; ok {
			sum += w * ow
		}
	}
	return sum
}

// Vectorizer converts tag documents into TF-IDF weighted sparse vectors.
// The vocabulary is fixed at fit time; there are no online updates.
type Vectorizer struct {
	vocabulary map[string]int // term -> column
	idf        []float64      // column -> inverse document frequency
}

// FitTransform learns the vocabulary and IDF weights from docs and returns
// the L2-normalized TF-IDF vector of every document, in input order.
//
// Term weighting uses smoothed IDF: idf(t) = ln((1+n)/(1+df(t))) + 1.
// Vocabulary columns are assigned in sorted term order so identical inputs
// always produce identical vectors.
func FitTransform(docs []string) (*Vectorizer, []SparseVector, error) {
	tokenized := make([][]string, len(docs))
	termSet := map[string]struct{}{}
	for i, doc := range docs {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		for _, t := range tokens {
			termSet[t] = struct{}{}
		}
	}

	if len(termSet) == 0 {
		return nil, nil, ErrNoVocabulary
	}

	terms := make([]string, 0, len(termSet))
	for t := range termSet {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	for col, t := range terms {
		vocab[t] = col
	}

	// Document frequencies.
	df := make([]int, len(terms))
	for _, tokens := range tokenized {
		seen := map[int]struct{}{}
		for _, t := range tokens {
			col := vocab[t]
			if _, dup := seen[col]; !dup {
				seen[col] = struct{}{}
				df[col]++
			}
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for col, d := range df {
		idf[col] = math.Log((1+n)/(1+float64(d))) + 1
	}

	v := &Vectorizer{vocabulary: vocab, idf: idf}
	vectors := make([]SparseVector, len(docs))
	for i, tokens := range tokenized {
		vectors[i] = v.transform(tokens)
	}
	return v, vectors, nil
}

// Transform vectorizes a single document against the fitted vocabulary.
// Terms outside the vocabulary are ignored.
func (v *Vectorizer) Transform(doc string) SparseVector {
	return v.transform(tokenize(doc))
}

// VocabularySize returns the number of terms learned at fit time.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocabulary)
}

func (v *Vectorizer) transform(tokens []string) SparseVector {
	counts := map[int]float64{}
	for _, t := range tokens {
		if col, ok := v.vocabulary[t]; ok {
			counts[col]++
		}
	}

	vec := make(SparseVector, len(counts))
	var norm float64
	for col, tf := range counts {
		w := tf * v.idf[col]
		vec[col] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range vec {
			vec[col] /= norm
		}
	}
	return vec
}

// tokenize lowercases the document, extracts word tokens of length >= 2, and
// drops English stop words.
func tokenize(doc string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, stop := englishStopWords[t]; !stop {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
