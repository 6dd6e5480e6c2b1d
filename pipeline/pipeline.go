// Package pipeline composes the fixed three-stage modeling pipeline:
// mean imputation, feature scaling, classification. The four evaluated
// variants differ only in their scaler and classifier choices and are
// all built by one parameterized constructor.
package pipeline

import (
	"fmt"

	"cardiobench/boosting"
	"cardiobench/core/model"
	"cardiobench/linear"
	"cardiobench/neighbors"
	"cardiobench/pkg/errors"
	"cardiobench/preprocessing"
	"cardiobench/svm"

	"gonum.org/v1/gonum/mat"
)

// Pipeline chains an imputer, a scaler and a classifier behind a single
// Fit/Predict surface. Transformers are fitted on training data only
// and reused as-is at prediction time.
type Pipeline struct {
	model.BaseEstimator

	// Name is the display name used in reports and accuracy traces.
	Name string

	imputer    model.Transformer
	scaler     model.Transformer
	classifier model.Classifier
}

// New creates a pipeline from its three stages.
func New(name string, imputer, scaler model.Transformer, classifier model.Classifier) *Pipeline {
	return &Pipeline{
		Name:       name,
		imputer:    imputer,
		scaler:     scaler,
		classifier: classifier,
	}
}

// Fit fits every stage in order on the training data.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	imputed, err := p.imputer.FitTransform(X)
	if err != nil {
		return errors.Wrap(err, "pipeline: imputer stage failed")
	}
	scaled, err := p.scaler.FitTransform(imputed)
	if err != nil {
		return errors.Wrap(err, "pipeline: scaler stage failed")
	}
	if err := p.classifier.Fit(scaled, y); err != nil {
		return errors.Wrap(err, "pipeline: classifier stage failed")
	}
	p.SetFitted()
	return nil
}

// Predict runs X through the fitted transformers and classifier.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}
	imputed, err := p.imputer.Transform(X)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: imputer stage failed")
	}
	scaled, err := p.scaler.Transform(imputed)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: scaler stage failed")
	}
	return p.classifier.Predict(scaled)
}

// Score returns the mean accuracy of the pipeline on X against y.
func (p *Pipeline) Score(X, y mat.Matrix) float64 {
	predictions, err := p.Predict(X)
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

// Variant identifies one of the four evaluated pipeline configurations.
type Variant int

const (
	// KNeighbors: standard scaling, k-NN with library defaults.
	KNeighbors Variant = iota
	// LogisticRegression: standard scaling, logistic regression with
	// library defaults.
	LogisticRegression
	// SVM: robust scaling, RBF support-vector classifier.
	SVM
	// XGBoost: robust scaling, gradient-boosted stumps.
	XGBoost
)

// Variants returns the four variants in their fixed evaluation order.
func Variants() []Variant {
	return []Variant{KNeighbors, LogisticRegression, SVM, XGBoost}
}

// String returns the variant's display name.
func (v Variant) String() string {
	switch v {
	case KNeighbors:
		return "KNeighbors"
	case LogisticRegression:
		return "Logistic Regression"
	case SVM:
		return "SVM"
	case XGBoost:
		return "XGBoost"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// BuildOptions carries the knobs shared by all pipeline builds.
type BuildOptions struct {
	// Seed seeds the stochastic classifiers (weight init, SMO pair
	// selection, feature subsampling). Negative draws from entropy.
	Seed int64

	// Boosting holds the XGBoost-variant hyperparameters.
	Boosting boosting.Params
}

// DefaultBuildOptions returns the harness defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Seed:     -1,
		Boosting: boosting.DefaultParams(),
	}
}

// Build constructs the pipeline for a variant. Tree and SVM variants
// scale robustly; k-NN and logistic regression standardize.
func Build(v Variant, opts BuildOptions) (*Pipeline, error) {
	imputer := preprocessing.NewMeanImputer()

	switch v {
	case KNeighbors:
		return New(v.String(), imputer,
			preprocessing.NewStandardScalerDefault(),
			neighbors.NewKNeighborsClassifier()), nil
	case LogisticRegression:
		return New(v.String(), imputer,
			preprocessing.NewStandardScalerDefault(),
			linear.NewLogisticRegression(linear.WithLRRandomState(opts.Seed))), nil
	case SVM:
		return New(v.String(), imputer,
			preprocessing.NewRobustScalerDefault(),
			svm.NewSVC(svm.WithSVCRandomState(opts.Seed))), nil
	case XGBoost:
		params := opts.Boosting
		if params.Seed < 0 {
			params.Seed = opts.Seed
		}
		return New(v.String(), imputer,
			preprocessing.NewRobustScalerDefault(),
			boosting.NewGradientBoosting(params)), nil
	default:
		return nil, errors.NewValueError("pipeline.Build", fmt.Sprintf("unknown variant %d", int(v)))
	}
}
