package pipeline

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// noisyClusters returns two separated clusters with a few missing
// entries, exercising the imputer stage.
func noisyClusters() (*mat.Dense, *mat.Dense) {
	nan := math.NaN()
	X := mat.NewDense(12, 2, []float64{
		-2.0, -2.0,
		-2.2, nan,
		-1.8, -2.2,
		-2.1, -2.1,
		nan, -1.9,
		-2.3, -2.0,
		2.0, 2.0,
		2.2, 1.8,
		nan, 2.2,
		2.1, 2.1,
		1.9, nan,
		2.3, 2.0,
	})
	y := mat.NewDense(12, 1, []float64{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1})
	return X, y
}

func TestVariants(t *testing.T) {
	variants := Variants()
	want := []string{"KNeighbors", "Logistic Regression", "SVM", "XGBoost"}
	if len(variants) != len(want) {
		t.Fatalf("Variants() returned %d variants, want %d", len(variants), len(want))
	}
	for i, v := range variants {
		if v.String() != want[i] {
			t.Errorf("variant %d = %q, want %q", i, v.String(), want[i])
		}
	}
}

func TestBuildAllVariants(t *testing.T) {
	X, y := noisyClusters()

	opts := DefaultBuildOptions()
	opts.Seed = 42

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			p, err := Build(v, opts)
			if err != nil {
				t.Fatalf("Build(%v) unexpected error: %v", v, err)
			}
			if p.Name != v.String() {
				t.Errorf("pipeline name = %q, want %q", p.Name, v.String())
			}
			if err := p.Fit(X, y); err != nil {
				t.Fatalf("Fit() unexpected error: %v", err)
			}
			if got := p.Score(X, y); got < 0.9 {
				t.Errorf("Score() on separable data = %v, want >= 0.9", got)
			}
		})
	}
}

func TestBuildUnknownVariant(t *testing.T) {
	if _, err := Build(Variant(99), DefaultBuildOptions()); err == nil {
		t.Error("Build() with unknown variant expected error")
	}
}

func TestPipelineNotFitted(t *testing.T) {
	p, err := Build(KNeighbors, DefaultBuildOptions())
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if _, err := p.Predict(mat.NewDense(1, 2, []float64{0, 0})); err == nil {
		t.Error("Predict() before Fit() expected error")
	}
}

func TestPipelineHandlesMissingAtPredict(t *testing.T) {
	X, y := noisyClusters()

	p, err := Build(LogisticRegression, BuildOptions{Seed: 7, Boosting: DefaultBuildOptions().Boosting})
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if err := p.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	// A query with a missing coordinate goes through the fitted imputer.
	query := mat.NewDense(1, 2, []float64{math.NaN(), 2.0})
	predictions, err := p.Predict(query)
	if err != nil {
		t.Fatalf("Predict() unexpected error: %v", err)
	}
	if got := predictions.At(0, 0); math.IsNaN(got) {
		t.Error("prediction is NaN, imputer did not run")
	}
}
