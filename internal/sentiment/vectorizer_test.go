package sentiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVectorizer() *Vectorizer {
	return &Vectorizer{
		Vocabulary: map[string]int{"good": 0, "bad": 1, "not good": 2, "movie": 3},
		IDF:        []float64{1, 2, 3, 1},
		Lowercase:  true,
		NgramMin:   1,
		NgramMax:   2,
		Norm:       "l2",
	}
}

func TestVectorizerTransform(t *testing.T) {
	v := testVectorizer()

	X := v.Transform([]string{"Not GOOD movie", "", "nothing known here"})
	require.Len(t, X, 3)

	row := X[0]
	assert.Equal(t, []int{0, 2, 3}, row.Indices)
	norm := math.Sqrt(1 + 9 + 1)
	assert.InDeltaSlice(t, []float64{1 / norm, 3 / norm, 1 / norm}, row.Values, 1e-9)

	assert.Zero(t, X[1].NNZ())
	assert.Zero(t, X[2].NNZ())
	assert.Equal(t, 3, X.NNZ())
}

func TestVectorizerCountsAndSublinear(t *testing.T) {
	v := &Vectorizer{
		Vocabulary: map[string]int{"bad": 0, "good": 1},
		Lowercase:  true,
		NgramMin:   1,
		NgramMax:   1,
	}
	row := v.Transform([]string{"bad bad good"})[0]
	assert.Equal(t, []float64{2, 1}, row.Values)

	v.SublinearTF = true
	row = v.Transform([]string{"bad bad good"})[0]
	assert.InDeltaSlice(t, []float64{1 + math.Log(2), 1}, row.Values, 1e-9)

	v.Binary = true
	row = v.Transform([]string{"bad bad good"})[0]
	assert.Equal(t, []float64{1, 1}, row.Values)
}

func TestVectorizerCaseSensitive(t *testing.T) {
	v := &Vectorizer{Vocabulary: map[string]int{"good": 0}, NgramMin: 1, NgramMax: 1}
	assert.Zero(t, v.Transform([]string{"GOOD"}).NNZ())
	assert.Equal(t, 1, v.Transform([]string{"good"}).NNZ())
}

func TestVectorizerSkipsSingleCharacterTokens(t *testing.T) {
	v := &Vectorizer{Vocabulary: map[string]int{"a": 0, "ok": 1}, Lowercase: true, NgramMin: 1, NgramMax: 1}
	row := v.Transform([]string{"a ok"})[0]
	assert.Equal(t, []int{1}, row.Indices)
}
