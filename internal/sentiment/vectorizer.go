package sentiment

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches runs of two or more letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer turns raw text into sparse term-weight vectors using a fixed,
// pre-fitted vocabulary. When IDF is empty it behaves as a plain count
// vectorizer.
type Vectorizer struct {
	Vocabulary  map[string]int
	IDF         []float64
	Lowercase   bool
	NgramMin    int
	NgramMax    int
	SublinearTF bool
	Binary      bool
	Norm        string // "l2" or ""
}

// NumFeatures reports the width of the feature space.
func (v *Vectorizer) NumFeatures() int {
	return len(v.Vocabulary)
}

// Transform vectorizes every text in order. It never fails; unknown terms are
// dropped and an empty text yields an empty row.
func (v *Vectorizer) Transform(texts []string) FeatureMatrix {
	out := make(FeatureMatrix, len(texts))
	for i, text := range texts {
		out[i] = v.transformOne(text)
	}
	return out
}

func (v *Vectorizer) transformOne(text string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range v.analyze(text) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		tf := counts[idx]
		switch {
		case v.Binary:
			tf = 1
		case v.SublinearTF:
			tf = 1 + math.Log(tf)
		}
		if len(v.IDF) > 0 && idx < len(v.IDF) {
			tf *= v.IDF[idx]
		}
		values[i] = tf
	}

	if v.Norm == "l2" {
		var sq float64
		for _, x := range values {
			sq += x * x
		}
		if sq > 0 {
			norm := math.Sqrt(sq)
			for i := range values {
				values[i] /= norm
			}
		}
	}

	return SparseVector{Indices: indices, Values: values}
}

// analyze tokenizes text and expands it into the configured n-gram range.
func (v *Vectorizer) analyze(text string) []string {
	if v.Lowercase {
		text = strings.ToLower(text)
	}
	tokens := tokenPattern.FindAllString(text, -1)

	minN, maxN := v.NgramMin, v.NgramMax
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	if minN == 1 && maxN == 1 {
		return tokens
	}

	terms := make([]string, 0, len(tokens)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}
