package model

import (
	"gonum.org/v1/gonum/mat"
)

// Transformer is a fitted preprocessing step: imputers and scalers.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is a supervised estimator producing class labels.
type Classifier interface {
	// Fit trains the classifier on X (n_samples x n_features) and
	// y (n_samples x 1).
	Fit(X, y mat.Matrix) error

	// Predict returns predicted labels as an n_samples x 1 matrix.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is implemented by classifiers that can report mean accuracy.
type Scorer interface {
	Score(X, y mat.Matrix) float64
}

// ParameterGetter exposes an estimator's hyperparameters.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}
