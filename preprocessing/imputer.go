// Package preprocessing provides the transformer stages used by the
// model pipelines: missing-value imputation and feature scaling.
package preprocessing

import (
	"fmt"
	"math"

	"cardiobench/core/model"
	"cardiobench/pkg/errors"

	"gonum.org/v1/gonum/mat"
)

// MeanImputer replaces missing values (NaN) with the column mean
// computed over the non-missing training values.
type MeanImputer struct {
	model.BaseEstimator

	// Statistics holds the per-column fill value learned by Fit.
	Statistics []float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int
}

// NewMeanImputer creates a mean-strategy imputer.
func NewMeanImputer() *MeanImputer {
	return &MeanImputer{}
}

// Fit computes per-column means over non-NaN entries.
func (m *MeanImputer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MeanImputer.Fit", "empty data", errors.ErrEmptyData)
	}

	m.NFeatures = c
	m.Statistics = make([]float64, c)

	for j := 0; j < c; j++ {
		sum := 0.0
		count := 0
		for i := 0; i < r; i++ {
			v := X.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			// Entirely missing column imputes to zero.
			m.Statistics[j] = 0
			continue
		}
		m.Statistics[j] = sum / float64(count)
	}

	m.SetFitted()
	return nil
}

// Transform replaces NaN entries with the learned column means.
func (m *MeanImputer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MeanImputer", "Transform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MeanImputer.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if math.IsNaN(v) {
				v = m.Statistics[j]
			}
			result.Set(i, j, v)
		}
	}
	return result, nil
}

// FitTransform fits the imputer and transforms the same data.
func (m *MeanImputer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// GetParams returns the imputer's parameters.
func (m *MeanImputer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"strategy": "mean",
	}
}

// String returns a printable representation of the imputer.
func (m *MeanImputer) String() string {
	if !m.IsFitted() {
		return "MeanImputer(strategy=mean)"
	}
	return fmt.Sprintf("MeanImputer(strategy=mean, n_features=%d)", m.NFeatures)
}
