package sentiment

import (
	"strings"

	"sentiment-webapi/internal/tabular"
)

// SentimentColumn and ProbabilityColumn name the per-model output columns.
func SentimentColumn(m ModelName) string   { return string(m) + "_sentiment" }
func ProbabilityColumn(m ModelName) string { return string(m) + "_probability" }

// resolveColumn lower-cases the table headers in place and finds col among
// them, ignoring case.
func resolveColumn(t *tabular.Table, col string) (int, error) {
	t.NormalizeColumns()
	idx, ok := t.ColumnIndex(strings.ToLower(col))
	if !ok {
		return -1, &ColumnNotFoundError{Column: col}
	}
	return idx, nil
}

// PredictCSV returns a new table holding the target column followed by a
// label column and a probability column for every model. Missing output
// cells are blanked.
func (e *Engine) PredictCSV(t *tabular.Table, col string) (*tabular.Table, error) {
	idx, err := resolveColumn(t, col)
	if err != nil {
		return nil, err
	}
	preds := e.PredictColumnWithConfidence(t.ColumnStrings(idx))

	rows := make([][]any, t.Len())
	for i := range rows {
		rows[i] = []any{t.Cell(i, idx)}
	}
	out := tabular.New([]string{t.Columns[idx]}, rows)

	for _, name := range ModelOrder {
		labels := make([]any, t.Len())
		for i, p := range preds[name] {
			labels[i] = p.Label
		}
		if err := out.AddColumn(SentimentColumn(name), labels); err != nil {
			return nil, err
		}
	}
	for _, name := range ModelOrder {
		probs := make([]any, t.Len())
		for i, p := range preds[name] {
			probs[i] = p.Confidence
		}
		if err := out.AddColumn(ProbabilityColumn(name), probs); err != nil {
			return nil, err
		}
	}

	out.FillMissing("")
	return out, nil
}

// PredictSpreadsheet appends one label column per model to t and returns it.
// All original columns are kept; no probabilities are produced.
func (e *Engine) PredictSpreadsheet(t *tabular.Table, col string) (*tabular.Table, error) {
	idx, err := resolveColumn(t, col)
	if err != nil {
		return nil, err
	}
	preds := e.PredictColumn(t.ColumnStrings(idx))

	for _, name := range ModelOrder {
		labels := make([]any, t.Len())
		for i, l := range preds[name] {
			labels[i] = l
		}
		if err := t.AddColumn(SentimentColumn(name), labels); err != nil {
			return nil, err
		}
	}
	return t, nil
}
