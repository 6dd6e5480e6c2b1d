// Package evaluate implements the train/test splitting, k-fold
// cross-validation and the single-run and iterative evaluation
// harnesses over the four model pipelines.
package evaluate

import (
	"math/rand"
	"sort"

	"cardiobench/pkg/errors"

	"gonum.org/v1/gonum/mat"
)

// TrainTestSplit randomly partitions X and y into disjoint train and
// test subsets. testSize is the fraction assigned to the test subset.
// The provided rand.Rand drives the shuffle; the caller controls
// reproducibility by seeding it.
func TrainTestSplit(X, y mat.Matrix, testSize float64, r *rand.Rand) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if nSamples == 0 {
		return nil, nil, nil, nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", nSamples, yRows, 0)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "test_size must be in (0, 1)")
	}

	nTest := int(float64(nSamples) * testSize)
	if nTest == 0 {
		nTest = 1
	}
	if nTest >= nSamples {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "test_size leaves no training samples")
	}

	indices := r.Perm(nSamples)
	testIdx := indices[:nTest]
	trainIdx := indices[nTest:]

	XTrain, yTrain = gather(X, y, trainIdx)
	XTest, yTest = gather(X, y, testIdx)
	return XTrain, XTest, yTrain, yTest, nil
}

// CVFold holds the train/test row indices of one cross-validation fold.
type CVFold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold splits data into k consecutive folds (optionally shuffled).
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int64
}

// NewKFold creates a k-fold splitter; fewer than 2 splits falls back to 5.
func NewKFold(nSplits int, shuffle bool, randomSeed int64) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// Split generates the train/test indices for each fold.
func (kf *KFold) Split(X mat.Matrix) []CVFold {
	nSamples, _ := X.Dims()

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewSource(kf.RandomSeed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]CVFold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	current := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[current:current+testSize])

		trainIndices := make([]int, 0, nSamples-testSize)
		trainIndices = append(trainIndices, indices[:current]...)
		trainIndices = append(trainIndices, indices[current+testSize:]...)

		folds[i] = CVFold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}
		current += testSize
	}

	return folds
}

// CrossValScore fits a fresh estimator per fold and returns the
// per-fold test accuracies. build must return an unfitted estimator;
// folds run sequentially.
func CrossValScore(build func() (Estimator, error), X, y mat.Matrix, kf *KFold) ([]float64, error) {
	folds := kf.Split(X)
	scores := make([]float64, len(folds))

	for foldIdx, fold := range folds {
		trainX, trainY := gather(X, y, fold.TrainIndices)
		testX, testY := gather(X, y, fold.TestIndices)

		est, err := build()
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d estimator construction failed", foldIdx)
		}
		if err := est.Fit(trainX, trainY); err != nil {
			return nil, errors.Wrapf(err, "fold %d training failed", foldIdx)
		}
		scores[foldIdx] = est.Score(testX, testY)
	}

	return scores, nil
}

// Estimator is the minimal surface CrossValScore needs.
type Estimator interface {
	Fit(X, y mat.Matrix) error
	Score(X, y mat.Matrix) float64
}

// MeanScore returns the arithmetic mean of scores.
func MeanScore(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// gather copies the selected rows of X and y into new matrices,
// preserving sorted row order for stable downstream access.
func gather(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	rows := len(indices)
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	xOut := mat.NewDense(rows, xCols, nil)
	yOut := mat.NewDense(rows, yCols, nil)
	for i, idx := range sorted {
		for j := 0; j < xCols; j++ {
			xOut.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			yOut.Set(i, j, y.At(idx, j))
		}
	}
	return xOut, yOut
}
