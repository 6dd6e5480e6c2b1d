// Package metrics provides evaluation metrics for the classification
// pipelines: accuracy, precision, recall and mean squared error.
//
// Precision and recall follow the zero_division=1 convention: when the
// denominator is empty (no predicted positives, or no actual positives)
// the metric resolves to 1 and an UndefinedMetricWarning is emitted
// instead of failing.
package metrics

import (
	"cardiobench/pkg/errors"

	"gonum.org/v1/gonum/mat"
)

// Accuracy computes the fraction of exactly matching labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Precision computes TP / (TP + FP) for the positive class (label 1).
// With no positive predictions the result is 1 by the zero-division
// convention.
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Precision", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Precision", n, yPred.Len(), 0)
	}

	var tp, fp int
	for i := 0; i < n; i++ {
		if yPred.AtVec(i) == 1 {
			if yTrue.AtVec(i) == 1 {
				tp++
			} else {
				fp++
			}
		}
	}

	if tp+fp == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positive samples", 1))
		return 1, nil
	}
	return float64(tp) / float64(tp+fp), nil
}

// Recall computes TP / (TP + FN) for the positive class (label 1).
// With no actual positives the result is 1 by the zero-division
// convention.
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Recall", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Recall", n, yPred.Len(), 0)
	}

	var tp, fn int
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			if yPred.AtVec(i) == 1 {
				tp++
			} else {
				fn++
			}
		}
	}

	if tp+fn == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true positive samples", 1))
		return 1, nil
	}
	return float64(tp) / float64(tp+fn), nil
}

// AccuracyMatrix computes accuracy from n x 1 matrix inputs.
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, pv, err := columnVectors("AccuracyMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(tv, pv)
}

// PrecisionMatrix computes precision from n x 1 matrix inputs.
func PrecisionMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, pv, err := columnVectors("PrecisionMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return Precision(tv, pv)
}

// RecallMatrix computes recall from n x 1 matrix inputs.
func RecallMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, pv, err := columnVectors("RecallMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return Recall(tv, pv)
}

// columnVectors validates matrix inputs and extracts their first columns.
func columnVectors(op string, yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	if yTrue == nil || yPred == nil {
		return nil, nil, errors.NewValueError(op, "nil matrix")
	}

	rTrue, cTrue := yTrue.Dims()
	rPred, _ := yPred.Dims()
	if rTrue == 0 || cTrue == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}
	if rTrue != rPred {
		return nil, nil, errors.NewDimensionError(op, rTrue, rPred, 0)
	}

	tv := mat.NewVecDense(rTrue, nil)
	pv := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		tv.SetVec(i, yTrue.At(i, 0))
		pv.SetVec(i, yPred.At(i, 0))
	}
	return tv, pv, nil
}
