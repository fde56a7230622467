package sentiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testdataPaths() Paths {
	return Paths{
		Vectorizer:         filepath.Join("testdata", "vectorizer.json"),
		LogisticRegression: filepath.Join("testdata", "logistic-regression-model.json"),
		NaiveBayes:         filepath.Join("testdata", "naive-bayes-model.json"),
		SVM:                filepath.Join("testdata", "svm-model.json"),
	}
}

func loadTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := Load(testdataPaths(), zap.NewNop())
	require.NoError(t, err)
	return engine
}

func TestLoad(t *testing.T) {
	engine := loadTestEngine(t)
	for _, name := range ModelOrder {
		m, ok := engine.Model(name)
		require.True(t, ok, string(name))
		assert.Equal(t, []string{"negative", "positive"}, m.Classes())
	}
}

func TestLoadRejectsBadArtifacts(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
		return p
	}

	paths := testdataPaths()
	paths.Vectorizer = filepath.Join(dir, "missing.json")
	_, err := Load(paths, zap.NewNop())
	assert.Error(t, err)

	paths = testdataPaths()
	paths.SVM = write("svm.json", `{"type":"linear_svm","classes":["negative","positive"],"coef":[[1,2]],"intercept":[0]}`)
	_, err = Load(paths, zap.NewNop())
	assert.ErrorContains(t, err, "coef row 0 has 2 features")

	paths = testdataPaths()
	paths.NaiveBayes = write("nb.json", `{"type":"random_forest","classes":["negative","positive"]}`)
	_, err = Load(paths, zap.NewNop())
	assert.ErrorContains(t, err, "invalid model artifact")

	paths = testdataPaths()
	paths.LogisticRegression = write("lr.json", `{not json`)
	_, err = Load(paths, zap.NewNop())
	assert.ErrorContains(t, err, "failed to decode")
}

func TestPredictTextPositive(t *testing.T) {
	engine := loadTestEngine(t)
	p := engine.PredictText("this product is amazing")
	assert.Equal(t, "positive", p.Label)
	assert.Greater(t, p.Confidence, 0.5)
	assert.LessOrEqual(t, p.Confidence, 1.0)
}

func TestPredictTextNegative(t *testing.T) {
	engine := loadTestEngine(t)
	p := engine.PredictText("Terrible, I hate it")
	assert.Equal(t, "negative", p.Label)
	assert.Greater(t, p.Confidence, 0.5)
}

func TestPredictTextNeutralWhenNoKnownTerms(t *testing.T) {
	engine := loadTestEngine(t)
	for _, text := range []string{"qwerty zxcvb", "", "!!!"} {
		p := engine.PredictText(text)
		assert.Equal(t, Prediction{Label: NeutralLabel, Confidence: 0.0}, p, text)
	}
}

func TestPredictColumnDoesNotUseNeutral(t *testing.T) {
	engine := loadTestEngine(t)
	out := engine.PredictColumn([]string{"qwerty"})
	for _, name := range ModelOrder {
		require.Len(t, out[name], 1)
		assert.NotEqual(t, NeutralLabel, out[name][0])
	}
}

func TestNewEngineRequiresAllModels(t *testing.T) {
	v := testVectorizer()
	_, err := NewEngine(v, map[ModelName]Classifier{
		ModelLogisticRegression: &LogisticRegression{},
	})
	assert.ErrorContains(t, err, `model "nb" is required`)

	_, err = NewEngine(nil, nil)
	assert.Error(t, err)
}
