// Package dataset loads and prepares the heart-disease table: CSV
// acquisition with a single fetch-and-retry, dropping incomplete rows,
// binarizing the severity column into the target label, and clamping
// outlier-prone columns to their Tukey fences.
package dataset

import (
	"os"
	"sort"

	"cardiobench/pkg/errors"
	"cardiobench/pkg/log"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultPath is the expected location of the input CSV.
const DefaultPath = "heart_disease.csv"

// TargetColumn is the binary label column produced by EncodeTarget.
const TargetColumn = "target"

// severityColumn is the raw multi-valued severity score in the source data.
const severityColumn = "num"

// FeatureColumns returns the thirteen clinical attribute columns in
// their canonical order.
func FeatureColumns() []string {
	return []string{
		"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
		"thalach", "exang", "oldpeak", "slope", "ca", "thal",
	}
}

// DefaultClipColumns returns the five numeric columns bounded to their
// IQR-derived fences during cleaning.
func DefaultClipColumns() []string {
	return []string{"age", "trestbps", "chol", "thalach", "oldpeak"}
}

// Load reads the CSV at path into a dataframe, treating "?" and empty
// fields as missing.
func Load(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, "dataset: open csv")
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.NaNValues([]string{"?", "", "NA"}),
		dataframe.DefaultType(series.Float),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(df.Err, "dataset: parse csv")
	}
	return df, nil
}

// LoadOrFetch loads the CSV, invoking the acquisition collaborator once
// when the file is absent. A second miss returns ErrDataNotFound.
func LoadOrFetch(path string, fetcher Fetcher) (dataframe.DataFrame, error) {
	logger := log.GetLoggerWithName("dataset")

	df, err := Load(path)
	if err == nil {
		return df, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return dataframe.DataFrame{}, err
	}

	logger.Warn("input file missing, fetching", log.PathKey, path)
	if fetchErr := fetcher.Ensure(path); fetchErr != nil {
		logger.Error("fetch failed", fetchErr, log.PathKey, path)
	}

	df, err = Load(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.ErrDataNotFound, path)
	}
	return df, nil
}

// DropMissing removes every row containing at least one missing value.
func DropMissing(df dataframe.DataFrame) dataframe.DataFrame {
	nRows := df.Nrow()
	bad := make([]bool, nRows)
	for _, name := range df.Names() {
		for i, isNaN := range df.Col(name).IsNaN() {
			if isNaN {
				bad[i] = true
			}
		}
	}

	keep := make([]int, 0, nRows)
	for i := 0; i < nRows; i++ {
		if !bad[i] {
			keep = append(keep, i)
		}
	}
	return df.Subset(keep)
}

// EncodeTarget binarizes the severity column: severity > 0 becomes 1,
// otherwise 0. The severity column is replaced by the target column.
func EncodeTarget(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !hasColumn(df, severityColumn) {
		return dataframe.DataFrame{}, errors.NewMissingColumnError("EncodeTarget", severityColumn)
	}

	severity := df.Col(severityColumn).Float()
	labels := make([]int, len(severity))
	for i, v := range severity {
		if v > 0 {
			labels[i] = 1
		}
	}

	out := df.Mutate(series.New(labels, series.Int, TargetColumn)).Drop(severityColumn)
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(out.Err, "dataset: encode target")
	}
	return out, nil
}

// ClipOutliers clamps each named column to [Q1-1.5*IQR, Q3+1.5*IQR].
// Fences are computed from the full dataframe at clip time, before any
// train/test split; this mirrors the source analysis and is not
// leakage-safe.
func ClipOutliers(df dataframe.DataFrame, columns []string) (dataframe.DataFrame, error) {
	out := df
	for _, name := range columns {
		if !hasColumn(out, name) {
			return dataframe.DataFrame{}, errors.NewMissingColumnError("ClipOutliers", name)
		}

		values := out.Col(name).Float()
		lower, upper := TukeyFences(values)
		clipped := make([]float64, len(values))
		for i, v := range values {
			switch {
			case v < lower:
				clipped[i] = lower
			case v > upper:
				clipped[i] = upper
			default:
				clipped[i] = v
			}
		}

		out = out.Mutate(series.New(clipped, series.Float, name))
		if out.Err != nil {
			return dataframe.DataFrame{}, errors.Wrap(out.Err, "dataset: clip "+name)
		}
	}
	return out, nil
}

// TukeyFences returns the [Q1-1.5*IQR, Q3+1.5*IQR] bounds of values.
func TukeyFences(values []float64) (lower, upper float64) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// Matrices extracts the feature matrix and target column for modeling.
func Matrices(df dataframe.DataFrame) (X, y *mat.Dense, err error) {
	if !hasColumn(df, TargetColumn) {
		return nil, nil, errors.NewMissingColumnError("Matrices", TargetColumn)
	}

	nRows := df.Nrow()
	features := FeatureColumns()
	X = mat.NewDense(nRows, len(features), nil)
	for j, name := range features {
		if !hasColumn(df, name) {
			return nil, nil, errors.NewMissingColumnError("Matrices", name)
		}
		for i, v := range df.Col(name).Float() {
			X.Set(i, j, v)
		}
	}

	y = mat.NewDense(nRows, 1, nil)
	for i, v := range df.Col(TargetColumn).Float() {
		y.Set(i, 0, v)
	}
	return X, y, nil
}

// hasColumn reports whether df contains a column with the given name.
func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
