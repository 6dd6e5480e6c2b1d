package evaluate

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"cardiobench/boosting"
	"cardiobench/dataset"
	"cardiobench/metrics"
	"cardiobench/pipeline"
	"cardiobench/pkg/log"
	"cardiobench/report"

	"gonum.org/v1/gonum/mat"
)

// Config gathers every knob of the evaluation harness in one place
// instead of scattering literals across the pipelines.
type Config struct {
	// TestSize is the held-out fraction of each train/test split.
	TestSize float64

	// CVFolds is the number of cross-validation folds reported per
	// pipeline fit. CV accuracy is diagnostic only; it never drives
	// model selection.
	CVFolds int

	// Iterations is the number of random splits in an iterative run.
	Iterations int

	// Seed drives the iterative run's splits and stochastic
	// classifiers. Negative keeps every iteration's split independent
	// and non-reproducible (Monte-Carlo variance estimation).
	Seed int64

	// SingleRunSeed fixes the single run's split for reproducibility.
	SingleRunSeed int64

	// ClipColumns are the feature columns bounded to their Tukey
	// fences during cleaning.
	ClipColumns []string

	// Boosting holds the XGBoost-variant hyperparameters.
	Boosting boosting.Params
}

// DefaultConfig returns the evaluation defaults: 80/20 splits, 5-fold
// CV, 100 iterations, unseeded iterative splits, seed 42 single run.
func DefaultConfig() Config {
	return Config{
		TestSize:      0.2,
		CVFolds:       5,
		Iterations:    100,
		Seed:          -1,
		SingleRunSeed: 42,
		ClipColumns:   dataset.DefaultClipColumns(),
		Boosting:      boosting.DefaultParams(),
	}
}

// PipelineResult is one pipeline's evaluation on one split.
type PipelineResult struct {
	Name     string
	CVScores []float64
	CVMean   float64
	Metrics  report.Metrics
}

// IterativeResult aggregates accuracy traces across an iterative run.
type IterativeResult struct {
	// Order lists model names in their fixed evaluation order.
	Order []string

	// Traces maps model name to its per-iteration test accuracies;
	// each trace has exactly Iterations entries.
	Traces map[string][]float64

	// Means maps model name to the arithmetic mean of its trace.
	Means map[string]float64
}

// Harness runs the four pipelines over fixed or repeated random splits.
type Harness struct {
	cfg    Config
	out    io.Writer
	logger log.Logger
}

// NewHarness creates a harness writing its tables to stdout.
func NewHarness(cfg Config) *Harness {
	return &Harness{
		cfg:    cfg,
		out:    os.Stdout,
		logger: log.GetLoggerWithName("harness"),
	}
}

// SetOutput redirects console output, e.g. for tests.
func (h *Harness) SetOutput(w io.Writer) {
	h.out = w
}

// RunOnce evaluates all four pipelines on a single fixed-seed 80/20
// split and prints each pipeline's metrics table.
func (h *Harness) RunOnce(X, y mat.Matrix) ([]PipelineResult, error) {
	r := rand.New(rand.NewSource(h.cfg.SingleRunSeed))
	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, h.cfg.TestSize, r)
	if err != nil {
		return nil, err
	}

	opts := pipeline.BuildOptions{Seed: h.cfg.SingleRunSeed, Boosting: h.cfg.Boosting}
	results := make([]PipelineResult, 0, len(pipeline.Variants()))
	for _, variant := range pipeline.Variants() {
		res, err := h.runPipeline(variant, opts, XTrain, XTest, yTrain, yTest)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunIterative draws Iterations random splits, evaluates all four
// pipelines on each, and returns the per-model accuracy traces with
// their means.
func (h *Harness) RunIterative(X, y mat.Matrix) (*IterativeResult, error) {
	var r *rand.Rand
	if h.cfg.Seed >= 0 {
		r = rand.New(rand.NewSource(h.cfg.Seed))
	} else {
		r = rand.New(rand.NewSource(rand.Int63()))
	}

	variants := pipeline.Variants()
	result := &IterativeResult{
		Order:  make([]string, 0, len(variants)),
		Traces: make(map[string][]float64, len(variants)),
		Means:  make(map[string]float64, len(variants)),
	}
	for _, variant := range variants {
		result.Order = append(result.Order, variant.String())
	}

	opts := pipeline.BuildOptions{Seed: h.cfg.Seed, Boosting: h.cfg.Boosting}
	for iter := 0; iter < h.cfg.Iterations; iter++ {
		XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, h.cfg.TestSize, r)
		if err != nil {
			return nil, err
		}

		for _, variant := range variants {
			res, err := h.runPipeline(variant, opts, XTrain, XTest, yTrain, yTest)
			if err != nil {
				return nil, err
			}
			result.Traces[res.Name] = append(result.Traces[res.Name], res.Metrics.Accuracy)
		}

		h.logger.Debug("iteration complete", log.IterationKey, iter+1)
	}

	for name, trace := range result.Traces {
		result.Means[name] = MeanScore(trace)
	}
	return result, nil
}

// runPipeline reports a pipeline's cross-validated training accuracy,
// fits it on the training subset, and evaluates it on the test subset.
func (h *Harness) runPipeline(variant pipeline.Variant, opts pipeline.BuildOptions, XTrain, XTest, yTrain, yTest mat.Matrix) (PipelineResult, error) {
	build := func() (Estimator, error) {
		return pipeline.Build(variant, opts)
	}

	cvScores, err := CrossValScore(build, XTrain, yTrain, NewKFold(h.cfg.CVFolds, false, 0))
	if err != nil {
		return PipelineResult{}, err
	}
	cvMean := MeanScore(cvScores)

	fmt.Fprintf(h.out, "\n Results for %s pipeline:\n", variant)
	fmt.Fprintf(h.out, "Mean CV accuracy: %.3f\n", cvMean)

	p, err := pipeline.Build(variant, opts)
	if err != nil {
		return PipelineResult{}, err
	}
	if err := p.Fit(XTrain, yTrain); err != nil {
		return PipelineResult{}, err
	}
	yPred, err := p.Predict(XTest)
	if err != nil {
		return PipelineResult{}, err
	}

	m, err := testMetrics(yTest, yPred)
	if err != nil {
		return PipelineResult{}, err
	}
	fmt.Fprint(h.out, report.MetricsTable(m))

	nTrain, nFeatures := XTrain.Dims()
	h.logger.Debug("pipeline evaluated",
		log.ModelNameKey, variant.String(),
		log.SamplesKey, nTrain,
		log.FeaturesKey, nFeatures,
		log.AccuracyKey, m.Accuracy,
	)

	return PipelineResult{
		Name:     variant.String(),
		CVScores: cvScores,
		CVMean:   cvMean,
		Metrics:  m,
	}, nil
}

// testMetrics computes the held-out metric set from labels and
// predictions.
func testMetrics(yTest, yPred mat.Matrix) (report.Metrics, error) {
	precision, err := metrics.PrecisionMatrix(yTest, yPred)
	if err != nil {
		return report.Metrics{}, err
	}
	recall, err := metrics.RecallMatrix(yTest, yPred)
	if err != nil {
		return report.Metrics{}, err
	}
	accuracy, err := metrics.AccuracyMatrix(yTest, yPred)
	if err != nil {
		return report.Metrics{}, err
	}
	mse, err := metrics.MSEMatrix(yTest, yPred)
	if err != nil {
		return report.Metrics{}, err
	}
	return report.Metrics{
		Precision: precision,
		Recall:    recall,
		Accuracy:  accuracy,
		MSE:       mse,
	}, nil
}
