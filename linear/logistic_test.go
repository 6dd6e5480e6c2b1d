package linear

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// separable returns two well-separated clusters labeled 0 and 1.
func separable() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		-2.0, -1.5,
		-1.5, -2.0,
		-2.5, -2.5,
		-1.8, -1.2,
		2.0, 1.5,
		1.5, 2.0,
		2.5, 2.5,
		1.8, 1.2,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func TestLogisticRegressionSeparable(t *testing.T) {
	X, y := separable()

	lr := NewLogisticRegression(WithLRRandomState(1))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if got := lr.Score(X, y); got != 1.0 {
		t.Errorf("Score() on separable data = %v, want 1.0", got)
	}

	probas, err := lr.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() unexpected error: %v", err)
	}
	for i := 0; i < 8; i++ {
		sum := probas.At(i, 0) + probas.At(i, 1)
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("probabilities for sample %d sum to %v", i, sum)
		}
	}
}

func TestLogisticRegressionReproducible(t *testing.T) {
	X, y := separable()

	a := NewLogisticRegression(WithLRRandomState(7))
	b := NewLogisticRegression(WithLRRandomState(7))
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	for j := range a.coef {
		if a.coef[j] != b.coef[j] {
			t.Errorf("coef[%d] differs between identically seeded fits: %v vs %v", j, a.coef[j], b.coef[j])
		}
	}
	if a.intercept != b.intercept {
		t.Errorf("intercept differs: %v vs %v", a.intercept, b.intercept)
	}
}

func TestLogisticRegressionValidation(t *testing.T) {
	lr := NewLogisticRegression()

	if _, err := lr.Predict(mat.NewDense(1, 2, []float64{0, 0})); err == nil {
		t.Error("Predict() before Fit() expected error")
	}

	X := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	yBad := mat.NewDense(3, 1, []float64{0, 1, 0})
	if err := lr.Fit(X, yBad); err == nil {
		t.Error("Fit() with mismatched rows expected error")
	}

	X3 := mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2})
	y3 := mat.NewDense(3, 1, []float64{0, 1, 2})
	if err := lr.Fit(X3, y3); err == nil {
		t.Error("Fit() with three classes expected error")
	}
}

func TestLogisticRegressionClasses(t *testing.T) {
	X, y := separable()
	lr := NewLogisticRegression(WithLRRandomState(1))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	classes := lr.Classes()
	if len(classes) != 2 || classes[0] != 0 || classes[1] != 1 {
		t.Errorf("Classes() = %v, want [0 1]", classes)
	}
}
