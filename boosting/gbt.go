// Package boosting provides the gradient-boosted tree classifier used
// by the XGB pipeline variant.
package boosting

import (
	"math"
	"math/rand"
	"sort"

	"cardiobench/core/model"
	"cardiobench/pkg/errors"

	"gonum.org/v1/gonum/mat"
)

// Params holds the boosting hyperparameters.
type Params struct {
	// NEstimators is the number of boosting rounds.
	NEstimators int

	// LearningRate shrinks each tree's contribution.
	LearningRate float64

	// MaxDepth limits tree depth; 1 grows decision stumps.
	MaxDepth int

	// ColsampleByTree is the fraction of features sampled per tree.
	ColsampleByTree float64

	// Lambda is the L2 regularization on leaf weights.
	Lambda float64

	// MinChildWeight is the minimum hessian sum required in a leaf.
	MinChildWeight float64

	// Seed drives feature subsampling; negative seeds from entropy.
	Seed int64
}

// DefaultParams returns the configuration used by the evaluation
// harness: 50 shallow trees with aggressive column subsampling.
func DefaultParams() Params {
	return Params{
		NEstimators:     50,
		LearningRate:    0.1,
		MaxDepth:        1,
		ColsampleByTree: 0.5,
		Lambda:          1.0,
		MinChildWeight:  1.0,
		Seed:            -1,
	}
}

// node is a single tree node; leaves carry the output weight.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	value     float64
	leaf      bool
}

// tree is one fitted regression tree over gradient statistics.
type tree struct {
	root *node
}

func (t *tree) predict(row []float64) float64 {
	n := t.root
	for !n.leaf {
		if row[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// GradientBoosting is a binary classifier boosted on the logistic loss.
// Each round fits a depth-limited regression tree to the loss gradients
// using second-order (Newton) leaf weights.
type GradientBoosting struct {
	model.BaseEstimator

	params Params

	// Fitted state
	trees     []tree
	initScore float64
	classes   []int
	nFeatures int

	rand *rand.Rand
}

// NewGradientBoosting creates a classifier with the given parameters.
func NewGradientBoosting(params Params) *GradientBoosting {
	if params.NEstimators <= 0 {
		params.NEstimators = 50
	}
	if params.LearningRate <= 0 {
		params.LearningRate = 0.1
	}
	if params.MaxDepth <= 0 {
		params.MaxDepth = 1
	}
	if params.ColsampleByTree <= 0 || params.ColsampleByTree > 1 {
		params.ColsampleByTree = 1
	}

	gb := &GradientBoosting{params: params}
	if params.Seed >= 0 {
		gb.rand = rand.New(rand.NewSource(params.Seed))
	} else {
		gb.rand = rand.New(rand.NewSource(rand.Int63()))
	}
	return gb
}

// Fit trains the boosted ensemble. y must be a binary n x 1 column.
func (gb *GradientBoosting) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 {
		return errors.NewModelError("GradientBoosting.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("GradientBoosting.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("GradientBoosting.Fit", 1, yCols, 1)
	}

	gb.extractClasses(y)
	if len(gb.classes) > 2 {
		return errors.NewValueError("GradientBoosting.Fit", "only binary targets are supported")
	}
	gb.nFeatures = nFeatures

	// Dense copies for row access during tree construction.
	rows := make([][]float64, nSamples)
	labels := make([]float64, nSamples)
	positive := gb.classes[len(gb.classes)-1]
	positives := 0
	for i := 0; i < nSamples; i++ {
		rows[i] = make([]float64, nFeatures)
		for j := 0; j < nFeatures; j++ {
			rows[i][j] = X.At(i, j)
		}
		if int(y.At(i, 0)) == positive && len(gb.classes) == 2 {
			labels[i] = 1
			positives++
		}
	}

	// Initial score is the log-odds of the base rate.
	p := float64(positives) / float64(nSamples)
	p = math.Min(math.Max(p, 1e-12), 1-1e-12)
	gb.initScore = math.Log(p / (1 - p))

	raw := make([]float64, nSamples)
	for i := range raw {
		raw[i] = gb.initScore
	}

	gradients := make([]float64, nSamples)
	hessians := make([]float64, nSamples)
	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	gb.trees = make([]tree, 0, gb.params.NEstimators)
	for round := 0; round < gb.params.NEstimators; round++ {
		for i := 0; i < nSamples; i++ {
			prob := sigmoid(raw[i])
			gradients[i] = prob - labels[i]
			hessians[i] = prob * (1 - prob)
		}

		features := gb.sampleFeatures(nFeatures)
		root := gb.buildNode(rows, gradients, hessians, indices, features, 0)
		tr := tree{root: root}
		gb.trees = append(gb.trees, tr)

		for i := 0; i < nSamples; i++ {
			raw[i] += gb.params.LearningRate * tr.predict(rows[i])
		}
	}

	gb.SetFitted()
	return nil
}

// sampleFeatures draws the per-tree feature subset without replacement.
func (gb *GradientBoosting) sampleFeatures(nFeatures int) []int {
	k := int(math.Ceil(gb.params.ColsampleByTree * float64(nFeatures)))
	if k >= nFeatures {
		all := make([]int, nFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := gb.rand.Perm(nFeatures)
	features := perm[:k]
	sort.Ints(features)
	return features
}

// buildNode grows the tree recursively down to MaxDepth.
func (gb *GradientBoosting) buildNode(rows [][]float64, gradients, hessians []float64, indices, features []int, depth int) *node {
	var sumGrad, sumHess float64
	for _, idx := range indices {
		sumGrad += gradients[idx]
		sumHess += hessians[idx]
	}

	if depth >= gb.params.MaxDepth || len(indices) < 2 {
		return gb.leafNode(sumGrad, sumHess)
	}

	split, ok := gb.findBestSplit(rows, gradients, hessians, indices, features, sumGrad, sumHess)
	if !ok {
		return gb.leafNode(sumGrad, sumHess)
	}

	left := make([]int, 0, len(indices))
	right := make([]int, 0, len(indices))
	for _, idx := range indices {
		if rows[idx][split.feature] < split.threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &node{
		feature:   split.feature,
		threshold: split.threshold,
		left:      gb.buildNode(rows, gradients, hessians, left, features, depth+1),
		right:     gb.buildNode(rows, gradients, hessians, right, features, depth+1),
	}
}

// leafNode computes the Newton-optimal leaf weight -G / (H + lambda).
func (gb *GradientBoosting) leafNode(sumGrad, sumHess float64) *node {
	return &node{
		leaf:  true,
		value: -sumGrad / (sumHess + gb.params.Lambda),
	}
}

// splitInfo describes a candidate split.
type splitInfo struct {
	feature   int
	threshold float64
	gain      float64
}

// findBestSplit scans the sampled features for the exact greedy split
// maximizing the regularized gain.
func (gb *GradientBoosting) findBestSplit(rows [][]float64, gradients, hessians []float64, indices, features []int, sumGrad, sumHess float64) (splitInfo, bool) {
	best := splitInfo{gain: 0}
	found := false

	order := make([]int, len(indices))
	for _, feature := range features {
		copy(order, indices)
		sort.Slice(order, func(a, b int) bool {
			return rows[order[a]][feature] < rows[order[b]][feature]
		})

		var leftGrad, leftHess float64
		for pos := 0; pos < len(order)-1; pos++ {
			idx := order[pos]
			leftGrad += gradients[idx]
			leftHess += hessians[idx]

			cur := rows[idx][feature]
			next := rows[order[pos+1]][feature]
			if cur == next {
				continue
			}

			rightGrad := sumGrad - leftGrad
			rightHess := sumHess - leftHess
			if leftHess < gb.params.MinChildWeight || rightHess < gb.params.MinChildWeight {
				continue
			}

			gain := gb.splitGain(leftGrad, leftHess, rightGrad, rightHess, sumGrad, sumHess)
			if gain > best.gain {
				best = splitInfo{
					feature:   feature,
					threshold: (cur + next) / 2,
					gain:      gain,
				}
				found = true
			}
		}
	}

	return best, found
}

// splitGain is the standard second-order gain:
// 0.5 * (GL²/(HL+λ) + GR²/(HR+λ) - G²/(H+λ)).
func (gb *GradientBoosting) splitGain(leftGrad, leftHess, rightGrad, rightHess, totalGrad, totalHess float64) float64 {
	lambda := gb.params.Lambda
	return 0.5 * (leftGrad*leftGrad/(leftHess+lambda) +
		rightGrad*rightGrad/(rightHess+lambda) -
		totalGrad*totalGrad/(totalHess+lambda))
}

// extractClasses records the sorted unique labels in y.
func (gb *GradientBoosting) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = true
	}
	gb.classes = gb.classes[:0]
	for class := range seen {
		gb.classes = append(gb.classes, class)
	}
	sort.Ints(gb.classes)
}

// Predict returns the predicted class labels for X.
func (gb *GradientBoosting) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := gb.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	negative := gb.classes[0]
	positive := gb.classes[len(gb.classes)-1]
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if probas.At(i, 1) >= 0.5 {
			predictions.Set(i, 0, float64(positive))
		} else {
			predictions.Set(i, 0, float64(negative))
		}
	}
	return predictions, nil
}

// PredictProba returns class probability estimates, one column per
// class in sorted label order.
func (gb *GradientBoosting) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoosting", "PredictProba")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != gb.nFeatures {
		return nil, errors.NewDimensionError("GradientBoosting.PredictProba", gb.nFeatures, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, 2, nil)
	row := make([]float64, nFeatures)
	for i := 0; i < nSamples; i++ {
		for j := 0; j < nFeatures; j++ {
			row[j] = X.At(i, j)
		}
		raw := gb.initScore
		for t := range gb.trees {
			raw += gb.params.LearningRate * gb.trees[t].predict(row)
		}
		p := sigmoid(raw)
		probas.Set(i, 0, 1-p)
		probas.Set(i, 1, p)
	}
	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (gb *GradientBoosting) Score(X, y mat.Matrix) float64 {
	predictions, err := gb.Predict(X)
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
func (gb *GradientBoosting) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":     gb.params.NEstimators,
		"learning_rate":    gb.params.LearningRate,
		"max_depth":        gb.params.MaxDepth,
		"colsample_bytree": gb.params.ColsampleByTree,
		"lambda":           gb.params.Lambda,
		"min_child_weight": gb.params.MinChildWeight,
		"seed":             gb.params.Seed,
	}
}

// NTrees returns the number of fitted trees.
func (gb *GradientBoosting) NTrees() int {
	return len(gb.trees)
}

// sigmoid computes the logistic function.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
