// Package stats holds the summary statistics used to describe a generated forecast.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoFeatures         = errors.New("need at least 1 feature to compute importance")
	ErrFeatureLenMismatch = errors.New("some feature length is not consistent with the target")
	ErrFeatureLen         = errors.New("must have at least 2 points per feature")
)

// DetectOutliers returns the indexes of values outside of the Tukey fences built from the
// lower and upper percentiles. NaN values are ignored and never reported.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, 0, len(y))
	for _, v := range y {
		if math.IsNaN(v) {
			continue
		}
		yCopy = append(yCopy, v)
	}
	if len(yCopy) == 0 {
		return nil
	}
	sort.Float64s(yCopy)
	lowerIdx := int(math.Floor(float64(len(yCopy)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(yCopy))*upperPerc)) - 1
	lowerIdx = min(max(lowerIdx, 0), len(yCopy)-1)
	upperIdx = min(max(upperIdx, lowerIdx), len(yCopy)-1)

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if math.IsNaN(y[i]) {
			continue
		}
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// Importance is the share of explained variation attributed to a single feature.
type Importance struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// FeatureImportance ranks features by the absolute Pearson correlation with the target.
// Scores are normalized to sum to 1, rounded to 3 decimals and sorted in descending order
// with ties broken by name. Features with no variation score 0.
func FeatureImportance(features map[string][]float64, target []float64) ([]Importance, error) {
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}
	if len(target) < 2 {
		return nil, ErrFeatureLen
	}

	raw := make([]Importance, 0, len(features))
	for name, feature := range features {
		if len(feature) != len(target) {
			return nil, ErrFeatureLenMismatch
		}
		corr := math.Abs(stat.Correlation(feature, target, nil))
		if math.IsNaN(corr) {
			corr = 0
		}
		raw = append(raw, Importance{Name: name, Score: corr})
	}

	scores := make([]float64, len(raw))
	for i, imp := range raw {
		scores[i] = imp.Score
	}
	total := floats.Sum(scores)
	for i := range raw {
		if total > 0 {
			raw[i].Score /= total
		}
		raw[i].Score = decimal.NewFromFloat(raw[i].Score).Round(3).InexactFloat64()
	}

	sort.Slice(raw, func(i, j int) bool {
		if raw[i].Score != raw[j].Score {
			return raw[i].Score > raw[j].Score
		}
		return raw[i].Name < raw[j].Name
	})
	return raw, nil
}
