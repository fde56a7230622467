package sentiment

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"sentiment-webapi/internal/pkg/validation"
)

// vectorizerArtifact is the on-disk JSON form of a fitted vectorizer.
type vectorizerArtifact struct {
	Type        string         `json:"type" validate:"required,oneof=tfidf count"`
	Lowercase   *bool          `json:"lowercase"`
	NgramRange  []int          `json:"ngram_range" validate:"omitempty,len=2,dive,min=1"`
	SublinearTF bool           `json:"sublinear_tf"`
	Binary      bool           `json:"binary"`
	Norm        string         `json:"norm" validate:"omitempty,oneof=l2"`
	Vocabulary  map[string]int `json:"vocabulary" validate:"required,min=1"`
	IDF         []float64      `json:"idf"`
}

// classifierArtifact is the on-disk JSON form of a fitted classifier. Which
// weight fields are used depends on Type.
type classifierArtifact struct {
	Type           string      `json:"type" validate:"required,oneof=logistic_regression multinomial_nb linear_svm"`
	Classes        []string    `json:"classes" validate:"required,min=2,dive,required"`
	Coef           [][]float64 `json:"coef"`
	Intercept      []float64   `json:"intercept"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
	ProbA          *float64    `json:"prob_a"`
	ProbB          *float64    `json:"prob_b"`
}

// LoadVectorizer reads and validates a vectorizer artifact.
func LoadVectorizer(path string) (*Vectorizer, error) {
	var a vectorizerArtifact
	if err := readArtifact(path, &a); err != nil {
		return nil, err
	}
	return a.build(path)
}

// LoadClassifier reads and validates a classifier artifact. numFeatures is the
// width of the vectorizer it will be fed by.
func LoadClassifier(path string, numFeatures int) (Classifier, error) {
	var a classifierArtifact
	if err := readArtifact(path, &a); err != nil {
		return nil, err
	}
	return a.build(path, numFeatures)
}

func readArtifact(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode model artifact %s: %w", path, err)
	}
	if verrs := validation.ValidateStruct(dst); verrs != nil {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Message
		}
		return fmt.Errorf("invalid model artifact %s: %s", path, strings.Join(msgs, " "))
	}
	return nil
}

func (a *vectorizerArtifact) build(path string) (*Vectorizer, error) {
	n := len(a.Vocabulary)
	for term, idx := range a.Vocabulary {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("vectorizer %s: term %q has index %d outside [0,%d)", path, term, idx, n)
		}
	}
	if a.Type == "tfidf" && len(a.IDF) != n {
		return nil, fmt.Errorf("vectorizer %s: idf has %d entries, vocabulary has %d", path, len(a.IDF), n)
	}

	v := &Vectorizer{
		Vocabulary:  a.Vocabulary,
		Lowercase:   true,
		NgramMin:    1,
		NgramMax:    1,
		SublinearTF: a.SublinearTF,
		Binary:      a.Binary,
		Norm:        a.Norm,
	}
	if a.Type == "tfidf" {
		v.IDF = a.IDF
	}
	if a.Lowercase != nil {
		v.Lowercase = *a.Lowercase
	}
	if len(a.NgramRange) == 2 {
		v.NgramMin, v.NgramMax = a.NgramRange[0], a.NgramRange[1]
		if v.NgramMax < v.NgramMin {
			return nil, fmt.Errorf("vectorizer %s: invalid ngram_range %v", path, a.NgramRange)
		}
	}
	return v, nil
}

func (a *classifierArtifact) build(path string, numFeatures int) (Classifier, error) {
	switch a.Type {
	case "logistic_regression":
		if err := checkLinear(path, a.Classes, a.Coef, a.Intercept, numFeatures); err != nil {
			return nil, err
		}
		return &LogisticRegression{Labels: a.Classes, Coef: a.Coef, Intercept: a.Intercept}, nil

	case "linear_svm":
		if err := checkLinear(path, a.Classes, a.Coef, a.Intercept, numFeatures); err != nil {
			return nil, err
		}
		m := &LinearSVM{Labels: a.Classes, Coef: a.Coef, Intercept: a.Intercept, ProbA: -1}
		if a.ProbA != nil {
			m.ProbA = *a.ProbA
		}
		if a.ProbB != nil {
			m.ProbB = *a.ProbB
		}
		return m, nil

	case "multinomial_nb":
		k := len(a.Classes)
		if len(a.ClassLogPrior) != k {
			return nil, fmt.Errorf("classifier %s: class_log_prior has %d entries, want %d", path, len(a.ClassLogPrior), k)
		}
		if len(a.FeatureLogProb) != k {
			return nil, fmt.Errorf("classifier %s: feature_log_prob has %d rows, want %d", path, len(a.FeatureLogProb), k)
		}
		for i, row := range a.FeatureLogProb {
			if len(row) != numFeatures {
				return nil, fmt.Errorf("classifier %s: feature_log_prob row %d has %d features, vectorizer has %d", path, i, len(row), numFeatures)
			}
		}
		return &MultinomialNB{Labels: a.Classes, ClassLogPrior: a.ClassLogPrior, FeatureLogProb: a.FeatureLogProb}, nil
	}
	return nil, fmt.Errorf("classifier %s: unknown type %q", path, a.Type)
}

// checkLinear enforces the linear model layout: one weight row for binary
// problems, one row per class otherwise.
func checkLinear(path string, classes []string, coef [][]float64, intercept []float64, numFeatures int) error {
	wantRows := len(classes)
	if wantRows == 2 {
		wantRows = 1
	}
	if len(coef) != wantRows {
		return fmt.Errorf("classifier %s: coef has %d rows, want %d for %d classes", path, len(coef), wantRows, len(classes))
	}
	if len(intercept) != wantRows {
		return fmt.Errorf("classifier %s: intercept has %d entries, want %d", path, len(intercept), wantRows)
	}
	for i, row := range coef {
		if len(row) != numFeatures {
			return fmt.Errorf("classifier %s: coef row %d has %d features, vectorizer has %d", path, i, len(row), numFeatures)
		}
	}
	return nil
}
