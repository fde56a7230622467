package sentiment

import (
	"math"
)

// Classifier is a pre-fitted text classifier operating on vectorized input.
type Classifier interface {
	// Classes returns the label set in the column order used by PredictProba.
	Classes() []string
	Predict(X FeatureMatrix) []string
	PredictProba(X FeatureMatrix) [][]float64
}

// LogisticRegression is a linear model with a sigmoid (binary, one weight
// row) or softmax (multinomial) link.
type LogisticRegression struct {
	Labels    []string
	Coef      [][]float64
	Intercept []float64
}

func (m *LogisticRegression) Classes() []string { return m.Labels }

func (m *LogisticRegression) Predict(X FeatureMatrix) []string {
	return argmaxLabels(m.Labels, m.PredictProba(X))
}

func (m *LogisticRegression) PredictProba(X FeatureMatrix) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		scores := linearScores(row, m.Coef, m.Intercept)
		if len(scores) == 1 {
			p := sigmoid(scores[0])
			out[i] = []float64{1 - p, p}
			continue
		}
		out[i] = softmax(scores)
	}
	return out
}

// MultinomialNB is a multinomial naive bayes model stored in log space.
type MultinomialNB struct {
	Labels         []string
	ClassLogPrior  []float64
	FeatureLogProb [][]float64
}

func (m *MultinomialNB) Classes() []string { return m.Labels }

func (m *MultinomialNB) Predict(X FeatureMatrix) []string {
	out := make([]string, len(X))
	for i, row := range X {
		out[i] = m.Labels[argmax(m.jointLogLikelihood(row))]
	}
	return out
}

func (m *MultinomialNB) PredictProba(X FeatureMatrix) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = softmax(m.jointLogLikelihood(row))
	}
	return out
}

func (m *MultinomialNB) jointLogLikelihood(row SparseVector) []float64 {
	jll := make([]float64, len(m.ClassLogPrior))
	for k := range jll {
		jll[k] = m.ClassLogPrior[k] + row.Dot(m.FeatureLogProb[k])
	}
	return jll
}

// LinearSVM is a linear support vector classifier. Binary models carry Platt
// scaling parameters so that P(Labels[1]) = 1 / (1 + exp(A*f + B)).
// Multiclass models are one-vs-rest and use a softmax over decisions.
type LinearSVM struct {
	Labels    []string
	Coef      [][]float64
	Intercept []float64
	ProbA     float64
	ProbB     float64
}

func (m *LinearSVM) Classes() []string { return m.Labels }

// Predict follows the decision function, not the calibrated probabilities,
// so the two can disagree close to the margin.
func (m *LinearSVM) Predict(X FeatureMatrix) []string {
	out := make([]string, len(X))
	for i, row := range X {
		scores := linearScores(row, m.Coef, m.Intercept)
		if len(scores) == 1 {
			if scores[0] > 0 {
				out[i] = m.Labels[1]
			} else {
				out[i] = m.Labels[0]
			}
			continue
		}
		out[i] = m.Labels[argmax(scores)]
	}
	return out
}

func (m *LinearSVM) PredictProba(X FeatureMatrix) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		scores := linearScores(row, m.Coef, m.Intercept)
		if len(scores) == 1 {
			p := 1 / (1 + math.Exp(m.ProbA*scores[0]+m.ProbB))
			out[i] = []float64{1 - p, p}
			continue
		}
		out[i] = softmax(scores)
	}
	return out
}

func linearScores(row SparseVector, coef [][]float64, intercept []float64) []float64 {
	scores := make([]float64, len(coef))
	for k, w := range coef {
		scores[k] = row.Dot(w)
		if k < len(intercept) {
			scores[k] += intercept[k]
		}
	}
	return scores
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	maxScore := scores[argmax(scores)]
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}

func argmaxLabels(labels []string, proba [][]float64) []string {
	out := make([]string, len(proba))
	for i, p := range proba {
		out[i] = labels[argmax(p)]
	}
	return out
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[argmax(xs)]
}
