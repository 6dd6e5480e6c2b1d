// Package neighbors provides the k-nearest-neighbors classifier used by
// the KN pipeline variant.
package neighbors

import (
	"fmt"
	"math"
	"sort"

	"cardiobench/core/model"
	"cardiobench/pkg/errors"

	"gonum.org/v1/gonum/mat"
)

// KNeighborsClassifier classifies samples by majority vote among the k
// nearest training samples under euclidean distance.
type KNeighborsClassifier struct {
	model.BaseEstimator

	// NNeighbors is the number of neighbors consulted per prediction.
	NNeighbors int

	// Fitted state: the stored training set.
	trainX    *mat.Dense
	trainY    []float64
	nFeatures int
}

// KNeighborsOption configures a KNeighborsClassifier.
type KNeighborsOption func(*KNeighborsClassifier)

// NewKNeighborsClassifier creates a classifier with scikit-learn's
// default of 5 neighbors.
func NewKNeighborsClassifier(opts ...KNeighborsOption) *KNeighborsClassifier {
	knn := &KNeighborsClassifier{NNeighbors: 5}
	for _, opt := range opts {
		opt(knn)
	}
	return knn
}

// WithNNeighbors sets the number of neighbors.
func WithNNeighbors(k int) KNeighborsOption {
	return func(knn *KNeighborsClassifier) { knn.NNeighbors = k }
}

// Fit stores the training set. KNN is a lazy learner; all work happens
// at prediction time.
func (knn *KNeighborsClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 {
		return errors.NewModelError("KNeighborsClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("KNeighborsClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("KNeighborsClassifier.Fit", 1, yCols, 1)
	}
	if knn.NNeighbors < 1 {
		return errors.NewValueError("KNeighborsClassifier.Fit", fmt.Sprintf("n_neighbors must be >= 1, got %d", knn.NNeighbors))
	}
	if knn.NNeighbors > nSamples {
		return errors.NewValueError("KNeighborsClassifier.Fit",
			fmt.Sprintf("n_neighbors (%d) exceeds number of samples (%d)", knn.NNeighbors, nSamples))
	}

	knn.trainX = mat.DenseCopyOf(X)
	knn.trainY = make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		knn.trainY[i] = y.At(i, 0)
	}
	knn.nFeatures = nFeatures

	knn.SetFitted()
	return nil
}

// neighbor pairs a training index with its distance to the query.
type neighbor struct {
	index    int
	distance float64
}

// Predict returns the majority-vote label among the k nearest training
// samples for each row of X. Ties break toward the smaller label.
func (knn *KNeighborsClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !knn.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsClassifier", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != knn.nFeatures {
		return nil, errors.NewDimensionError("KNeighborsClassifier.Predict", knn.nFeatures, nFeatures, 1)
	}

	nTrain, _ := knn.trainX.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	distances := make([]neighbor, nTrain)

	for i := 0; i < nSamples; i++ {
		for t := 0; t < nTrain; t++ {
			sum := 0.0
			for j := 0; j < nFeatures; j++ {
				diff := X.At(i, j) - knn.trainX.At(t, j)
				sum += diff * diff
			}
			distances[t] = neighbor{index: t, distance: math.Sqrt(sum)}
		}

		sort.Slice(distances, func(a, b int) bool {
			if distances[a].distance != distances[b].distance {
				return distances[a].distance < distances[b].distance
			}
			return distances[a].index < distances[b].index
		})

		votes := make(map[float64]int)
		for _, nb := range distances[:knn.NNeighbors] {
			votes[knn.trainY[nb.index]]++
		}

		best := math.Inf(1)
		bestCount := -1
		for label, count := range votes {
			if count > bestCount || (count == bestCount && label < best) {
				best = label
				bestCount = count
			}
		}
		predictions.Set(i, 0, best)
	}

	return predictions, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (knn *KNeighborsClassifier) Score(X, y mat.Matrix) float64 {
	predictions, err := knn.Predict(X)
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
func (knn *KNeighborsClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": knn.NNeighbors,
		"metric":      "euclidean",
	}
}

// String returns a printable representation of the classifier.
func (knn *KNeighborsClassifier) String() string {
	return fmt.Sprintf("KNeighborsClassifier(n_neighbors=%d)", knn.NNeighbors)
}
