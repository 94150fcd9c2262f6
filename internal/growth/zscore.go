package growth

import (
	"math"
)

// Z-scores saturate at this magnitude before percentile conversion and
// classification so data-entry errors cannot produce unbounded results.
const maxAbsZ = 4.0

// Zelen & Severo (1964) approximation of the standard normal tail. The
// constants are part of the scoring contract and must not be replaced by a
// more precise CDF.
const (
	zsP  = 0.2316419
	zsB1 = 0.319381530
	zsB2 = -0.356563782
	zsB3 = 1.781477937
	zsB4 = -1.821255978
	zsB5 = 1.330274429
)

// InterpolateLMS returns the LMS parameters at an arbitrary age.
//
// Ages at or beyond either end of the table return that boundary entry
// unchanged; the WHO tables are not extrapolated. An age on a checkpoint
// returns that row. Between checkpoints L, M and S are interpolated linearly
// and independently.
func InterpolateLMS(table []LMS, ageMonths float64) LMS {
	if len(table) == 0 {
		return LMS{}
	}

	first, last := table[0], table[len(table)-1]
	if ageMonths <= first.AgeMonths {
		return first
	}
	if ageMonths >= last.AgeMonths {
		return last
	}

	for i := 0; i < len(table)-1; i++ {
		lower, upper := table[i], table[i+1]
		if ageMonths < lower.AgeMonths || ageMonths > upper.AgeMonths {
			continue
		}
		if ageMonths == lower.AgeMonths {
			return lower
		}
		if ageMonths == upper.AgeMonths {
			return upper
		}

		frac := (ageMonths - lower.AgeMonths) / (upper.AgeMonths - lower.AgeMonths)

		return LMS{
			AgeMonths: ageMonths,
			L:         lerp(lower.L, upper.L, frac),
			M:         lerp(lower.M, upper.M, frac),
			S:         lerp(lower.S, upper.S, frac),
		}
	}

	return last
}

// ComputeZScore applies the LMS transform to a raw measurement. The result
// is not clamped. Measurement must be positive; callers validate it.
func ComputeZScore(measurement float64, lms LMS) float64 {
	if lms.L == 0 {
		return math.Log(measurement/lms.M) / lms.S
	}
	return (math.Pow(measurement/lms.M, lms.L) - 1) / (lms.L * lms.S)
}

// CalculateZScore scores a raw measurement for a child of the given age and sex
func CalculateZScore(measurement, ageMonths float64, sex Sex, typ MeasurementType) (Result, error) {
	table, err := lookup(sex, typ)
	if err != nil {
		return Result{}, err
	}
	if !(measurement > 0) || math.IsInf(measurement, 0) {
		return Result{}, ErrInvalidMeasurement
	}
	if !(ageMonths >= 0) || math.IsInf(ageMonths, 0) {
		return Result{}, ErrInvalidAge
	}

	lms := InterpolateLMS(table, ageMonths)
	z := clamp(ComputeZScore(measurement, lms), -maxAbsZ, maxAbsZ)

	return Result{
		ZScore:         round(z, 2),
		Percentile:     Percentile(z),
		Classification: Classify(z),
	}, nil
}

// Percentile converts a z-score to a 0-100 percentile, rounded to one decimal
func Percentile(z float64) float64 {
	p := normalTail(z)
	if z > 0 {
		return round((1-p)*100, 1)
	}
	return round(p*100, 1)
}

// normalTail is the one-sided tail probability beyond |z|
func normalTail(z float64) float64 {
	t := 1 / (1 + zsP*math.Abs(z))
	pdf := math.Exp(-z*z/2) / math.Sqrt(2*math.Pi)
	poly := t * (zsB1 + t*(zsB2+t*(zsB3+t*(zsB4+t*zsB5))))
	return pdf * poly
}

// Classify buckets a z-score by its magnitude
func Classify(z float64) Classification {
	abs := math.Abs(z)
	switch {
	case abs < 1:
		return Normal
	case abs < 2:
		return Monitor
	case abs < 3:
		return Concern
	default:
		return Severe
	}
}

// MedianForAge returns the reference median at the given age
func MedianForAge(ageMonths float64, sex Sex, typ MeasurementType) (float64, error) {
	table, err := lookup(sex, typ)
	if err != nil {
		return 0, err
	}
	return InterpolateLMS(table, ageMonths).M, nil
}

func lerp(a, b, frac float64) float64 {
	return a + (b-a)*frac
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round rounds half away from zero and folds negative zero into zero
func round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	r := math.Round(v*pow) / pow
	if r == 0 {
		return 0
	}
	return r
}
