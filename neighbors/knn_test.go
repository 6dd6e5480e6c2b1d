package neighbors

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func clusters() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 2, []float64{
		0.0, 0.0,
		0.1, 0.2,
		-0.2, 0.1,
		0.2, -0.1,
		-0.1, -0.2,
		5.0, 5.0,
		5.1, 4.8,
		4.9, 5.2,
		5.2, 5.1,
		4.8, 4.9,
	})
	y := mat.NewDense(10, 1, []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1})
	return X, y
}

func TestKNeighborsClassifier(t *testing.T) {
	X, y := clusters()

	knn := NewKNeighborsClassifier()
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	queries := mat.NewDense(2, 2, []float64{
		0.05, 0.05,
		5.05, 5.05,
	})
	predictions, err := knn.Predict(queries)
	if err != nil {
		t.Fatalf("Predict() unexpected error: %v", err)
	}
	if got := predictions.At(0, 0); got != 0 {
		t.Errorf("query near cluster 0 predicted %v, want 0", got)
	}
	if got := predictions.At(1, 0); got != 1 {
		t.Errorf("query near cluster 1 predicted %v, want 1", got)
	}

	if got := knn.Score(X, y); got != 1.0 {
		t.Errorf("Score() on training data = %v, want 1.0", got)
	}
}

func TestKNeighborsSingleNeighbor(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{0, 10, 20})
	y := mat.NewDense(3, 1, []float64{0, 1, 0})

	knn := NewKNeighborsClassifier(WithNNeighbors(1))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	predictions, err := knn.Predict(mat.NewDense(1, 1, []float64{9}))
	if err != nil {
		t.Fatalf("Predict() unexpected error: %v", err)
	}
	if got := predictions.At(0, 0); got != 1 {
		t.Errorf("nearest-neighbor prediction = %v, want 1", got)
	}
}

func TestKNeighborsTieBreak(t *testing.T) {
	// Two neighbors split the vote; the smaller label must win.
	X := mat.NewDense(2, 1, []float64{-1, 1})
	y := mat.NewDense(2, 1, []float64{0, 1})

	knn := NewKNeighborsClassifier(WithNNeighbors(2))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	predictions, err := knn.Predict(mat.NewDense(1, 1, []float64{0}))
	if err != nil {
		t.Fatalf("Predict() unexpected error: %v", err)
	}
	if got := predictions.At(0, 0); got != 0 {
		t.Errorf("tied vote predicted %v, want 0", got)
	}
}

func TestKNeighborsValidation(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{0, 1, 0})

	knn := NewKNeighborsClassifier(WithNNeighbors(10))
	if err := knn.Fit(X, y); err == nil {
		t.Error("Fit() with k > n_samples expected error")
	}

	knn = NewKNeighborsClassifier(WithNNeighbors(0))
	if err := knn.Fit(X, y); err == nil {
		t.Error("Fit() with k = 0 expected error")
	}

	knn = NewKNeighborsClassifier()
	if _, err := knn.Predict(X); err == nil {
		t.Error("Predict() before Fit() expected error")
	}
}
