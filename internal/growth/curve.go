package growth

import (
	"math"
	"strconv"
)

// DefaultCurveOffsets are the standard-deviation bands drawn on growth charts
var DefaultCurveOffsets = []float64{-2, -1, 0, 1, 2}

// ValueAtZ back-transforms a z-score to a measurement using the LMS parameters
func ValueAtZ(lms LMS, z float64) float64 {
	if lms.L == 0 {
		return lms.M * math.Exp(lms.S*z)
	}
	return lms.M * math.Pow(1+lms.L*lms.S*z, 1/lms.L)
}

// CurveLabel names a z offset the way chart renderers expect:
// 0 is "median", -2 is "minus2sd", 1.5 is "plus1.5sd".
func CurveLabel(z float64) string {
	switch {
	case z == 0:
		return "median"
	case z < 0:
		return "minus" + strconv.FormatFloat(-z, 'f', -1, 64) + "sd"
	default:
		return "plus" + strconv.FormatFloat(z, 'f', -1, 64) + "sd"
	}
}

// PercentileCurve returns one point per reference checkpoint with the
// measurement value at every requested z offset, rounded to one decimal.
// With no offsets the DefaultCurveOffsets are used.
func PercentileCurve(sex Sex, typ MeasurementType, offsets ...float64) ([]CurvePoint, error) {
	table, err := lookup(sex, typ)
	if err != nil {
		return nil, err
	}
	if len(offsets) == 0 {
		offsets = DefaultCurveOffsets
	}

	labels := make([]string, len(offsets))
	for i, z := range offsets {
		labels[i] = CurveLabel(z)
	}

	points := make([]CurvePoint, 0, len(table))
	for _, row := range table {
		values := make(map[string]float64, len(offsets))
		for i, z := range offsets {
			values[labels[i]] = round(ValueAtZ(row, z), 1)
		}
		points = append(points, CurvePoint{Age: row.AgeMonths, Values: values})
	}

	return points, nil
}
