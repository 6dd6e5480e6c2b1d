package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect predictions",
			yTrue: []float64{1, 2, 3},
			yPred: []float64{1, 2, 3},
			want:  0.0,
		},
		{
			name:  "Binary labels",
			yTrue: []float64{0, 1, 0, 1},
			yPred: []float64{0, 0, 0, 1},
			want:  0.25,
		},
		{
			name:  "Constant offset",
			yTrue: []float64{1, 2, 3},
			yPred: []float64{2, 3, 4},
			want:  1.0,
		},
		{
			name:    "Dimension mismatch",
			yTrue:   []float64{1, 2},
			yPred:   []float64{1},
			wantErr: true,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(vec(tt.yTrue), vec(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("MSE() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMSEMatrix(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{0, 1, 0, 1})
	yPred := mat.NewDense(4, 1, []float64{1, 1, 0, 1})

	got, err := MSEMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("MSEMatrix() unexpected error: %v", err)
	}
	if math.Abs(got-0.25) > 1e-6 {
		t.Errorf("MSEMatrix() = %v, want 0.25", got)
	}
}

func TestRMSE(t *testing.T) {
	got, err := RMSE(vec([]float64{0, 0, 0, 0}), vec([]float64{2, 2, 2, 2}))
	if err != nil {
		t.Fatalf("RMSE() unexpected error: %v", err)
	}
	if math.Abs(got-2.0) > 1e-6 {
		t.Errorf("RMSE() = %v, want 2", got)
	}
}
