// Package svm provides the support-vector classifier used by the SVM
// pipeline variant.
package svm

import (
	"fmt"
	"math"
	"math/rand"

	"cardiobench/core/model"
	"cardiobench/pkg/errors"

	"gonum.org/v1/gonum/mat"
)

// SVC is a C-support vector classifier with an RBF kernel, trained by a
// simplified SMO procedure. Defaults match scikit-learn's SVC():
// C=1.0, gamma="scale".
type SVC struct {
	model.BaseEstimator

	// Hyperparameters
	c           float64
	gamma       float64 // <= 0 means "scale": 1 / (n_features * var(X))
	tol         float64
	maxPasses   int
	maxIter     int
	randomState int64

	// Fitted state
	supportX  *mat.Dense
	supportY  []float64 // labels mapped to -1/+1
	alphas    []float64
	b         float64
	gammaUsed float64
	classes   []int
	nFeatures int

	rand *rand.Rand
}

// SVCOption configures an SVC.
type SVCOption func(*SVC)

// NewSVC creates a classifier with scikit-learn's defaults.
func NewSVC(opts ...SVCOption) *SVC {
	s := &SVC{
		c:           1.0,
		gamma:       -1, // scale
		tol:         1e-3,
		maxPasses:   5,
		maxIter:     1000,
		randomState: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.randomState >= 0 {
		s.rand = rand.New(rand.NewSource(s.randomState))
	} else {
		s.rand = rand.New(rand.NewSource(rand.Int63()))
	}
	return s
}

// WithSVCC sets the regularization parameter C.
func WithSVCC(c float64) SVCOption {
	return func(s *SVC) { s.c = c }
}

// WithSVCGamma sets the RBF kernel coefficient. Values <= 0 select the
// "scale" heuristic.
func WithSVCGamma(gamma float64) SVCOption {
	return func(s *SVC) { s.gamma = gamma }
}

// WithSVCTol sets the KKT violation tolerance.
func WithSVCTol(tol float64) SVCOption {
	return func(s *SVC) { s.tol = tol }
}

// WithSVCMaxIter sets the iteration budget of the SMO loop.
func WithSVCMaxIter(maxIter int) SVCOption {
	return func(s *SVC) { s.maxIter = maxIter }
}

// WithSVCRandomState seeds the SMO working-pair selection, making
// training reproducible.
func WithSVCRandomState(seed int64) SVCOption {
	return func(s *SVC) {
		s.randomState = seed
		if seed >= 0 {
			s.rand = rand.New(rand.NewSource(seed))
		}
	}
}

// Fit trains the classifier. y must be a binary n x 1 column.
func (s *SVC) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 {
		return errors.NewModelError("SVC.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("SVC.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("SVC.Fit", 1, yCols, 1)
	}

	s.extractClasses(y)
	if len(s.classes) > 2 {
		return errors.NewValueError("SVC.Fit", "only binary targets are supported")
	}
	s.nFeatures = nFeatures

	s.supportX = mat.DenseCopyOf(X)
	s.supportY = make([]float64, nSamples)
	positive := s.classes[len(s.classes)-1]
	for i := 0; i < nSamples; i++ {
		if int(y.At(i, 0)) == positive && len(s.classes) == 2 {
			s.supportY[i] = 1
		} else {
			s.supportY[i] = -1
		}
	}

	s.gammaUsed = s.gamma
	if s.gammaUsed <= 0 {
		s.gammaUsed = scaleGamma(X)
	}

	s.alphas = make([]float64, nSamples)
	s.b = 0

	// Simplified SMO: sweep samples, pair each KKT violator with a
	// random partner and solve the two-variable subproblem analytically.
	passes := 0
	iter := 0
	for nSamples > 1 && passes < s.maxPasses && iter < s.maxIter {
		changed := 0
		for i := 0; i < nSamples; i++ {
			ei := s.decision(s.supportX.RawRowView(i)) - s.supportY[i]
			if (s.supportY[i]*ei < -s.tol && s.alphas[i] < s.c) ||
				(s.supportY[i]*ei > s.tol && s.alphas[i] > 0) {
				j := s.rand.Intn(nSamples - 1)
				if j >= i {
					j++
				}
				if s.optimizePair(i, j, ei) {
					changed++
				}
			}
		}
		if changed == 0 {
			passes++
		} else {
			passes = 0
		}
		iter++
	}

	if iter >= s.maxIter {
		errors.Warn(errors.NewConvergenceWarning("SVC", s.maxIter, "SMO iteration budget exhausted"))
	}

	s.SetFitted()
	return nil
}

// optimizePair jointly optimizes alphas[i] and alphas[j]; reports
// whether either moved meaningfully.
func (s *SVC) optimizePair(i, j int, ei float64) bool {
	xi := s.supportX.RawRowView(i)
	xj := s.supportX.RawRowView(j)
	ej := s.decision(xj) - s.supportY[j]

	alphaIOld := s.alphas[i]
	alphaJOld := s.alphas[j]

	var lo, hi float64
	if s.supportY[i] != s.supportY[j] {
		lo = math.Max(0, alphaJOld-alphaIOld)
		hi = math.Min(s.c, s.c+alphaJOld-alphaIOld)
	} else {
		lo = math.Max(0, alphaIOld+alphaJOld-s.c)
		hi = math.Min(s.c, alphaIOld+alphaJOld)
	}
	if lo == hi {
		return false
	}

	kii := s.kernel(xi, xi)
	kjj := s.kernel(xj, xj)
	kij := s.kernel(xi, xj)
	eta := 2*kij - kii - kjj
	if eta >= 0 {
		return false
	}

	alphaJ := alphaJOld - s.supportY[j]*(ei-ej)/eta
	alphaJ = math.Min(hi, math.Max(lo, alphaJ))
	if math.Abs(alphaJ-alphaJOld) < 1e-5 {
		return false
	}

	alphaI := alphaIOld + s.supportY[i]*s.supportY[j]*(alphaJOld-alphaJ)

	b1 := s.b - ei - s.supportY[i]*(alphaI-alphaIOld)*kii - s.supportY[j]*(alphaJ-alphaJOld)*kij
	b2 := s.b - ej - s.supportY[i]*(alphaI-alphaIOld)*kij - s.supportY[j]*(alphaJ-alphaJOld)*kjj

	s.alphas[i] = alphaI
	s.alphas[j] = alphaJ
	switch {
	case alphaI > 0 && alphaI < s.c:
		s.b = b1
	case alphaJ > 0 && alphaJ < s.c:
		s.b = b2
	default:
		s.b = (b1 + b2) / 2
	}
	return true
}

// decision evaluates the kernel expansion at x.
func (s *SVC) decision(x []float64) float64 {
	nSamples, _ := s.supportX.Dims()
	sum := s.b
	for t := 0; t < nSamples; t++ {
		if s.alphas[t] == 0 {
			continue
		}
		sum += s.alphas[t] * s.supportY[t] * s.kernel(s.supportX.RawRowView(t), x)
	}
	return sum
}

// kernel computes the RBF kernel exp(-gamma * ||a-b||²).
func (s *SVC) kernel(a, b []float64) float64 {
	sum := 0.0
	for j := range a {
		diff := a[j] - b[j]
		sum += diff * diff
	}
	return math.Exp(-s.gammaUsed * sum)
}

// scaleGamma implements sklearn's gamma="scale": 1 / (n_features * var(X)).
func scaleGamma(X mat.Matrix) float64 {
	r, c := X.Dims()
	n := float64(r * c)
	var mean float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			mean += X.At(i, j)
		}
	}
	mean /= n

	var variance float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			diff := X.At(i, j) - mean
			variance += diff * diff
		}
	}
	variance /= n
	if variance < 1e-8 {
		variance = 1
	}
	return 1.0 / (float64(c) * variance)
}

// extractClasses records the sorted unique labels in y.
func (s *SVC) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = true
	}
	s.classes = s.classes[:0]
	for class := range seen {
		s.classes = append(s.classes, class)
	}
	for i := 0; i < len(s.classes)-1; i++ {
		for j := i + 1; j < len(s.classes); j++ {
			if s.classes[i] > s.classes[j] {
				s.classes[i], s.classes[j] = s.classes[j], s.classes[i]
			}
		}
	}
}

// Predict returns the predicted class labels for X.
func (s *SVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SVC", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != s.nFeatures {
		return nil, errors.NewDimensionError("SVC.Predict", s.nFeatures, nFeatures, 1)
	}

	negative := s.classes[0]
	positive := s.classes[len(s.classes)-1]
	predictions := mat.NewDense(nSamples, 1, nil)
	row := make([]float64, nFeatures)
	for i := 0; i < nSamples; i++ {
		for j := 0; j < nFeatures; j++ {
			row[j] = X.At(i, j)
		}
		if s.decision(row) >= 0 {
			predictions.Set(i, 0, float64(positive))
		} else {
			predictions.Set(i, 0, float64(negative))
		}
	}
	return predictions, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (s *SVC) Score(X, y mat.Matrix) float64 {
	predictions, err := s.Predict(X)
	if err != nil {
		return 0
	}
	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples)
}

// GetParams returns the model hyperparameters.
func (s *SVC) GetParams() map[string]interface{} {
	gamma := "scale"
	if s.gamma > 0 {
		gamma = fmt.Sprintf("%g", s.gamma)
	}
	return map[string]interface{}{
		"C":            s.c,
		"kernel":       "rbf",
		"gamma":        gamma,
		"tol":          s.tol,
		"max_iter":     s.maxIter,
		"random_state": s.randomState,
	}
}
