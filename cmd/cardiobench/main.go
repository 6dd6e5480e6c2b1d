// Command cardiobench fetches the heart-disease dataset, cleans it, and
// compares four classification pipelines (k-NN, logistic regression,
// SVM, gradient-boosted trees) on the binary disease-presence target.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"cardiobench/dataset"
	"cardiobench/evaluate"
	"cardiobench/pkg/log"
	"cardiobench/report"
)

func main() {
	var (
		dataPath   = flag.String("data", dataset.DefaultPath, "path to the input CSV")
		iterations = flag.Int("iterations", 100, "random-split iterations for the range chart (0 skips the iterative run)")
		seed       = flag.Int64("seed", -1, "seed for iterative splits; negative draws fresh splits every run")
		plotPath   = flag.String("plot", "accuracy_ranges.png", "output path for the accuracy range chart")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		log.SetLevel(zerolog.DebugLevel)
	}
	logger := log.GetLoggerWithName("cardiobench")

	df, err := dataset.LoadOrFetch(*dataPath, dataset.NewHTTPFetcher())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error fetching data. Please try again.")
		logger.Error("data acquisition failed", err, log.PathKey, *dataPath)
		os.Exit(1)
	}

	cfg := evaluate.DefaultConfig()
	cfg.Iterations = *iterations
	cfg.Seed = *seed

	df = dataset.DropMissing(df)
	df, err = dataset.EncodeTarget(df)
	if err != nil {
		fatal(logger, "target encoding failed", err)
	}
	df, err = dataset.ClipOutliers(df, cfg.ClipColumns)
	if err != nil {
		fatal(logger, "outlier clipping failed", err)
	}

	X, y, err := dataset.Matrices(df)
	if err != nil {
		fatal(logger, "feature extraction failed", err)
	}
	rows, cols := X.Dims()
	logger.Info("dataset ready", log.SamplesKey, rows, log.FeaturesKey, cols)

	harness := evaluate.NewHarness(cfg)

	if cfg.Iterations > 0 {
		result, err := harness.RunIterative(X, y)
		if err != nil {
			fatal(logger, "iterative evaluation failed", err)
		}
		if err := report.RangePlot(result.Order, result.Traces, *plotPath); err != nil {
			fatal(logger, "range chart rendering failed", err)
		}
		fmt.Printf("\nAccuracy range chart written to %s\n", *plotPath)
		for _, name := range result.Order {
			fmt.Printf("Mean accuracy for %s: %.3f\n", name, result.Means[name])
		}
	}

	if _, err := harness.RunOnce(X, y); err != nil {
		fatal(logger, "single-run evaluation failed", err)
	}
}

func fatal(logger log.Logger, msg string, err error) {
	logger.Error(msg, err)
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
