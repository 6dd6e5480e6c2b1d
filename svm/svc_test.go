package svm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func clusters() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 2, []float64{
		-2.0, -2.0,
		-2.2, -1.8,
		-1.8, -2.2,
		-2.1, -2.1,
		-1.9, -1.9,
		2.0, 2.0,
		2.2, 1.8,
		1.8, 2.2,
		2.1, 2.1,
		1.9, 1.9,
	})
	y := mat.NewDense(10, 1, []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1})
	return X, y
}

func TestSVCSeparable(t *testing.T) {
	X, y := clusters()

	svc := NewSVC(WithSVCRandomState(1))
	if err := svc.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if got := svc.Score(X, y); got != 1.0 {
		t.Errorf("Score() on separable data = %v, want 1.0", got)
	}

	predictions, err := svc.Predict(mat.NewDense(2, 2, []float64{
		-2.0, -1.9,
		2.0, 1.9,
	}))
	if err != nil {
		t.Fatalf("Predict() unexpected error: %v", err)
	}
	if got := predictions.At(0, 0); got != 0 {
		t.Errorf("prediction near negative cluster = %v, want 0", got)
	}
	if got := predictions.At(1, 0); got != 1 {
		t.Errorf("prediction near positive cluster = %v, want 1", got)
	}
}

func TestSVCScaleGamma(t *testing.T) {
	// Variance of {-1, 1} is 1, one feature, so gamma = 1.
	X := mat.NewDense(2, 1, []float64{-1, 1})
	if got := scaleGamma(X); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("scaleGamma() = %v, want 1", got)
	}

	// Constant input falls back to unit variance.
	constant := mat.NewDense(3, 2, []float64{4, 4, 4, 4, 4, 4})
	if got := scaleGamma(constant); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("scaleGamma() on constant input = %v, want 0.5", got)
	}
}

func TestSVCValidation(t *testing.T) {
	svc := NewSVC()

	if _, err := svc.Predict(mat.NewDense(1, 2, []float64{0, 0})); err == nil {
		t.Error("Predict() before Fit() expected error")
	}

	X := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	yBad := mat.NewDense(3, 1, []float64{0, 1, 0})
	if err := svc.Fit(X, yBad); err == nil {
		t.Error("Fit() with mismatched rows expected error")
	}

	X3 := mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2})
	y3 := mat.NewDense(3, 1, []float64{0, 1, 2})
	if err := svc.Fit(X3, y3); err == nil {
		t.Error("Fit() with three classes expected error")
	}
}

func TestSVCReproducible(t *testing.T) {
	X, y := clusters()

	a := NewSVC(WithSVCRandomState(9))
	b := NewSVC(WithSVCRandomState(9))
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	for i := range a.alphas {
		if a.alphas[i] != b.alphas[i] {
			t.Errorf("alphas[%d] differs between identically seeded fits: %v vs %v", i, a.alphas[i], b.alphas[i])
		}
	}
	if a.b != b.b {
		t.Errorf("bias differs: %v vs %v", a.b, b.b)
	}
}
