package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMeanImputer(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		nan, 20,
		3, nan,
		4, 30,
	})

	imputer := NewMeanImputer()
	imputed, err := imputer.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	// Column means over non-missing entries: (1+3+4)/3 and (10+20+30)/3.
	wantCol0 := 8.0 / 3.0
	wantCol1 := 20.0
	if got := imputed.At(1, 0); math.Abs(got-wantCol0) > 1e-9 {
		t.Errorf("imputed(1,0) = %v, want %v", got, wantCol0)
	}
	if got := imputed.At(2, 1); math.Abs(got-wantCol1) > 1e-9 {
		t.Errorf("imputed(2,1) = %v, want %v", got, wantCol1)
	}

	// Non-missing entries pass through untouched.
	if got := imputed.At(0, 0); got != 1 {
		t.Errorf("imputed(0,0) = %v, want 1", got)
	}

	r, c := imputed.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(imputed.At(i, j)) {
				t.Errorf("imputed(%d,%d) is still NaN", i, j)
			}
		}
	}
}

func TestMeanImputerAllMissingColumn(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(2, 1, []float64{nan, nan})

	imputer := NewMeanImputer()
	imputed, err := imputer.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if imputed.At(i, 0) != 0 {
			t.Errorf("all-missing column imputed to %v, want 0", imputed.At(i, 0))
		}
	}
}

func TestMeanImputerNotFitted(t *testing.T) {
	imputer := NewMeanImputer()
	if _, err := imputer.Transform(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Transform() before Fit() expected error")
	}
}
