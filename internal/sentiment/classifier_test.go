package sentiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func oneHot(idx int) FeatureMatrix {
	return FeatureMatrix{{Indices: []int{idx}, Values: []float64{1}}}
}

func TestLogisticRegressionBinary(t *testing.T) {
	m := &LogisticRegression{
		Labels:    []string{"negative", "positive"},
		Coef:      [][]float64{{2, -2}},
		Intercept: []float64{0},
	}

	proba := m.PredictProba(oneHot(0))[0]
	assert.InDelta(t, 1/(1+math.Exp(-2)), proba[1], 1e-9)
	assert.InDelta(t, 1.0, proba[0]+proba[1], 1e-9)
	assert.Equal(t, []string{"positive"}, m.Predict(oneHot(0)))
	assert.Equal(t, []string{"negative"}, m.Predict(oneHot(1)))
}

func TestLogisticRegressionMultinomial(t *testing.T) {
	m := &LogisticRegression{
		Labels:    []string{"negative", "neutral", "positive"},
		Coef:      [][]float64{{1, 0}, {0, 0}, {0, 3}},
		Intercept: []float64{0, 0, 0},
	}
	assert.Equal(t, []string{"positive"}, m.Predict(oneHot(1)))

	proba := m.PredictProba(oneHot(1))[0]
	var sum float64
	for _, p := range proba {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestMultinomialNB(t *testing.T) {
	m := &MultinomialNB{
		Labels:         []string{"negative", "positive"},
		ClassLogPrior:  []float64{math.Log(0.5), math.Log(0.5)},
		FeatureLogProb: [][]float64{{math.Log(0.2), math.Log(0.8)}, {math.Log(0.8), math.Log(0.2)}},
	}
	assert.Equal(t, []string{"positive"}, m.Predict(oneHot(0)))
	assert.InDelta(t, 0.8, m.PredictProba(oneHot(0))[0][1], 1e-9)
	assert.Equal(t, []string{"negative"}, m.Predict(oneHot(1)))
}

func TestLinearSVMPlattScaling(t *testing.T) {
	m := &LinearSVM{
		Labels:    []string{"negative", "positive"},
		Coef:      [][]float64{{1.5, -1.5}},
		Intercept: []float64{0},
		ProbA:     -2,
		ProbB:     0,
	}
	assert.Equal(t, []string{"positive"}, m.Predict(oneHot(0)))
	assert.InDelta(t, 1/(1+math.Exp(-3)), m.PredictProba(oneHot(0))[0][1], 1e-9)
	assert.Equal(t, []string{"negative"}, m.Predict(oneHot(1)))
}

func TestPredictWithConfidenceUsesMaxProbability(t *testing.T) {
	m := &LogisticRegression{
		Labels:    []string{"negative", "positive"},
		Coef:      [][]float64{{2, -2}},
		Intercept: []float64{0},
	}
	preds := PredictWithConfidence(m, oneHot(1))
	assert.Equal(t, "negative", preds[0].Label)
	assert.InDelta(t, 1/(1+math.Exp(-2)), preds[0].Confidence, 1e-9)
}
