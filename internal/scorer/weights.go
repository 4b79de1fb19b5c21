package scorer

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Weights holds the six factor weights of the composite relevance score.
type Weights struct {
	Similarity           float64 `json:"similarity"`
	KeywordMatch         float64 `json:"keyword_match"`
	DomainRelevance      float64 `json:"domain_relevance"`
	StructuralImportance float64 `json:"structural_importance"`
	TechnicalAlignment   float64 `json:"technical_alignment"`
	ObjectiveAlignment   float64 `json:"objective_alignment"`
}

// calibrationFile is the JSON structure of a weights calibration file.
type calibrationFile struct {
	Version string  `json:"version"`
	Weights Weights `json:"weights"`
}

const weightSumTolerance = 1e-9

// DefaultWeights returns the calibrated default table.
func DefaultWeights() Weights {
	return Weights{
		Similarity:           0.25,
		KeywordMatch:         0.25,
		DomainRelevance:      0.20,
		StructuralImportance: 0.10,
		TechnicalAlignment:   0.10,
		ObjectiveAlignment:   0.10,
	}
}

// Sum returns the total of all six weights.
func (w Weights) Sum() float64 {
	return w.Similarity + w.KeywordMatch + w.DomainRelevance +
		w.StructuralImportance + w.TechnicalAlignment + w.ObjectiveAlignment
}

// Validate enforces the weight-sum invariant: non-negative weights summing
// to 1.0. Violations are construction errors, not runtime surprises.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"similarity":            w.Similarity,
		"keyword_match":         w.KeywordMatch,
		"domain_relevance":      w.DomainRelevance,
		"structural_importance": w.StructuralImportance,
		"technical_alignment":   w.TechnicalAlignment,
		"objective_alignment":   w.ObjectiveAlignment,
	} {
		if v < 0 {
			return fmt.Errorf("factor weight %s is negative: %v", name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("factor weights sum to %v, want 1.0", sum)
	}
	return nil
}

// LoadWeights reads a JSON calibration file and merges non-zero fields over
// the defaults, so partial files stay valid. A missing or malformed file
// falls back to the defaults; the error is returned so callers can log it
// once.
func LoadWeights(path string) (Weights, error) {
	if path == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultWeights(), fmt.Errorf("read weights calibration: %w", err)
	}

	var cal calibrationFile
	if err := json.Unmarshal(data, &cal); err != nil {
		return DefaultWeights(), fmt.Errorf("parse weights calibration: %w", err)
	}

	return mergeWeights(DefaultWeights(), cal.Weights), nil
}

// mergeWeights overlays non-zero override fields on the base table.
func mergeWeights(base, override Weights) Weights {
	merged := base
	if override.Similarity != 0 {
		merged.Similarity = override.Similarity
	}
	if override.KeywordMatch != 0 {
		merged.KeywordMatch = override.KeywordMatch
	}
	if override.DomainRelevance != 0 {
		merged.DomainRelevance = override.DomainRelevance
	}
	if override.StructuralImportance != 0 {
		merged.StructuralImportance = override.StructuralImportance
	}
	if override.TechnicalAlignment != 0 {
		merged.TechnicalAlignment = override.TechnicalAlignment
	}
	if override.ObjectiveAlignment != 0 {
		merged.ObjectiveAlignment = override.ObjectiveAlignment
	}
	return merged
}
