package sentiment

import (
	"fmt"

	"go.uber.org/zap"
)

// ModelName identifies one of the loaded classifiers. It is also the prefix
// of the per-model output columns (e.g. "lr_sentiment").
type ModelName string

const (
	ModelLogisticRegression ModelName = "lr"
	ModelNaiveBayes         ModelName = "nb"
	ModelSVM                ModelName = "svm"
)

// ModelOrder is the fixed order in which per-model columns are emitted.
var ModelOrder = []ModelName{ModelLogisticRegression, ModelNaiveBayes, ModelSVM}

// NeutralLabel is returned by the quick prediction path when the input shares
// no terms with the vocabulary.
const NeutralLabel = "neutral"

// Prediction is one label with its confidence (max class probability).
type Prediction struct {
	Label      string
	Confidence float64
}

// Paths locates the model artifacts on disk.
type Paths struct {
	Vectorizer         string
	LogisticRegression string
	NaiveBayes         string
	SVM                string
}

// Engine holds the vectorizer and classifiers shared by every request. It is
// read-only after construction and safe for concurrent use.
type Engine struct {
	vectorizer *Vectorizer
	models     map[ModelName]Classifier
	primary    ModelName
}

// NewEngine assembles an engine from already-built parts. All models in
// ModelOrder must be present; logistic regression serves quick predictions.
func NewEngine(vectorizer *Vectorizer, models map[ModelName]Classifier) (*Engine, error) {
	if vectorizer == nil {
		return nil, fmt.Errorf("vectorizer is required")
	}
	for _, name := range ModelOrder {
		if models[name] == nil {
			return nil, fmt.Errorf("model %q is required", name)
		}
	}
	return &Engine{
		vectorizer: vectorizer,
		models:     models,
		primary:    ModelLogisticRegression,
	}, nil
}

// Load reads every artifact once. Any failure is meant to abort startup.
func Load(paths Paths, logger *zap.Logger) (*Engine, error) {
	logger.Info("Loading sentiment model artifacts...",
		zap.String("vectorizer", paths.Vectorizer),
		zap.String("lr", paths.LogisticRegression),
		zap.String("nb", paths.NaiveBayes),
		zap.String("svm", paths.SVM),
	)

	vectorizer, err := LoadVectorizer(paths.Vectorizer)
	if err != nil {
		return nil, err
	}
	n := vectorizer.NumFeatures()
	logger.Debug("Vectorizer loaded", zap.Int("features", n))

	models := make(map[ModelName]Classifier, len(ModelOrder))
	for name, path := range map[ModelName]string{
		ModelLogisticRegression: paths.LogisticRegression,
		ModelNaiveBayes:         paths.NaiveBayes,
		ModelSVM:                paths.SVM,
	} {
		m, err := LoadClassifier(path, n)
		if err != nil {
			return nil, err
		}
		models[name] = m
		logger.Debug("Classifier loaded", zap.String("model", string(name)), zap.Strings("classes", m.Classes()))
	}

	engine, err := NewEngine(vectorizer, models)
	if err != nil {
		return nil, err
	}
	logger.Info("Sentiment model artifacts loaded", zap.Int("features", n), zap.Int("models", len(models)))
	return engine, nil
}

// Transform vectorizes texts with the shared vectorizer.
func (e *Engine) Transform(texts []string) FeatureMatrix {
	return e.vectorizer.Transform(texts)
}

// Model returns the named classifier.
func (e *Engine) Model(name ModelName) (Classifier, bool) {
	m, ok := e.models[name]
	return m, ok
}

// PredictText is the quick single-model path. An input without any known
// term yields ("neutral", 0.0) and the classifier is not consulted.
func (e *Engine) PredictText(text string) Prediction {
	X := e.vectorizer.Transform([]string{text})
	if X.NNZ() == 0 {
		return Prediction{Label: NeutralLabel, Confidence: 0.0}
	}
	return PredictWithConfidence(e.models[e.primary], X)[0]
}

// PredictColumn labels every text with every model.
func (e *Engine) PredictColumn(texts []string) map[ModelName][]string {
	X := e.vectorizer.Transform(texts)
	out := make(map[ModelName][]string, len(ModelOrder))
	for _, name := range ModelOrder {
		out[name] = Predict(e.models[name], X)
	}
	return out
}

// PredictColumnWithConfidence labels every text with every model and keeps
// each model's confidence.
func (e *Engine) PredictColumnWithConfidence(texts []string) map[ModelName][]Prediction {
	X := e.vectorizer.Transform(texts)
	out := make(map[ModelName][]Prediction, len(ModelOrder))
	for _, name := range ModelOrder {
		out[name] = PredictWithConfidence(e.models[name], X)
	}
	return out
}

// Predict returns one label per row.
func Predict(model Classifier, X FeatureMatrix) []string {
	return model.Predict(X)
}

// PredictWithConfidence returns one label per row together with the highest
// class probability for that row.
func PredictWithConfidence(model Classifier, X FeatureMatrix) []Prediction {
	labels := model.Predict(X)
	proba := model.PredictProba(X)
	out := make([]Prediction, len(labels))
	for i := range labels {
		out[i] = Prediction{Label: labels[i], Confidence: maxOf(proba[i])}
	}
	return out
}
