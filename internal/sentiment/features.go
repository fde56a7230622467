package sentiment

// SparseVector is one row of a feature matrix. Indices are strictly increasing.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// NNZ returns the number of stored (non-zero) features.
func (v SparseVector) NNZ() int {
	return len(v.Indices)
}

// Dot computes v·w against a dense weight row. Indices outside w are ignored.
func (v SparseVector) Dot(w []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		if idx < len(w) {
			sum += v.Values[i] * w[idx]
		}
	}
	return sum
}

// FeatureMatrix is the vectorized form of a batch of texts, one row per text.
type FeatureMatrix []SparseVector

// NNZ returns the number of stored features across all rows.
func (m FeatureMatrix) NNZ() int {
	n := 0
	for _, row := range m {
		n += row.NNZ()
	}
	return n
}
