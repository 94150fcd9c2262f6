package growth

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"sync"
	"testing"
)

const tolerance = 1e-9

func allTables() map[string][]LMS {
	return map[string][]LMS{
		"weight male":               weightForAgeMale,
		"weight female":             weightForAgeFemale,
		"height male":               heightForAgeMale,
		"height female":             heightForAgeFemale,
		"head circumference male":   headCircumferenceForAgeMale,
		"head circumference female": headCircumferenceForAgeFemale,
	}
}

func TestTablesSortedAscending(t *testing.T) {
	for name, table := range allTables() {
		t.Run(name, func(t *testing.T) {
			if len(table) == 0 {
				t.Fatal("table is empty")
			}
			for i := 1; i < len(table); i++ {
				if table[i].AgeMonths <= table[i-1].AgeMonths {
					t.Errorf("row %d age %v not after %v", i, table[i].AgeMonths, table[i-1].AgeMonths)
				}
			}
		})
	}
}

func TestMaleWeightCheckpointAt24Months(t *testing.T) {
	want := LMS{AgeMonths: 24, L: -0.0327, M: 12.0424, S: 0.12096}
	for _, row := range weightForAgeMale {
		if row.AgeMonths == 24 {
			if row != want {
				t.Fatalf("24 month row = %+v, want %+v", row, want)
			}
			return
		}
	}
	t.Fatal("no 24 month row in male weight table")
}

func TestInterpolateLMSClampsToBoundary(t *testing.T) {
	offsets := []float64{0.001, 1, 12, 1000}

	for name, table := range allTables() {
		t.Run(name, func(t *testing.T) {
			first, last := table[0], table[len(table)-1]
			for _, k := range offsets {
				if got := InterpolateLMS(table, first.AgeMonths-k); got != first {
					t.Errorf("InterpolateLMS(%v) = %+v, want %+v", first.AgeMonths-k, got, first)
				}
				if got := InterpolateLMS(table, last.AgeMonths+k); got != last {
					t.Errorf("InterpolateLMS(%v) = %+v, want %+v", last.AgeMonths+k, got, last)
				}
			}
			if got := InterpolateLMS(table, first.AgeMonths); got != first {
				t.Errorf("InterpolateLMS(first age) = %+v, want %+v", got, first)
			}
			if got := InterpolateLMS(table, last.AgeMonths); got != last {
				t.Errorf("InterpolateLMS(last age) = %+v, want %+v", got, last)
			}
		})
	}
}

func TestInterpolateLMSMidpoint(t *testing.T) {
	for name, table := range allTables() {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < len(table)-1; i++ {
				lower, upper := table[i], table[i+1]
				mid := (lower.AgeMonths + upper.AgeMonths) / 2
				got := InterpolateLMS(table, mid)

				if got.AgeMonths != mid {
					t.Errorf("age = %v, want %v", got.AgeMonths, mid)
				}
				if math.Abs(got.L-(lower.L+upper.L)/2) > tolerance {
					t.Errorf("L at %v = %v, want %v", mid, got.L, (lower.L+upper.L)/2)
				}
				if math.Abs(got.M-(lower.M+upper.M)/2) > tolerance {
					t.Errorf("M at %v = %v, want %v", mid, got.M, (lower.M+upper.M)/2)
				}
				if math.Abs(got.S-(lower.S+upper.S)/2) > tolerance {
					t.Errorf("S at %v = %v, want %v", mid, got.S, (lower.S+upper.S)/2)
				}
			}
		})
	}
}

func TestInterpolateLMSDuplicateAges(t *testing.T) {
	table := []LMS{
		{0, 1, 10, 0.1},
		{6, 1, 12, 0.1},
		{6, 1, 14, 0.1},
		{12, 1, 16, 0.1},
	}

	tests := []struct {
		age   float64
		wantM float64
	}{
		{3, 11},
		{6, 12},
		{9, 15},
	}

	for _, tt := range tests {
		got := InterpolateLMS(table, tt.age)
		if math.IsNaN(got.M) || math.Abs(got.M-tt.wantM) > tolerance {
			t.Errorf("InterpolateLMS(%v).M = %v, want %v", tt.age, got.M, tt.wantM)
		}
	}
}

func TestInterpolateLMSDoesNotMutateTable(t *testing.T) {
	table := []LMS{{0, 1, 10, 0.1}, {12, 1, 20, 0.2}}
	before := append([]LMS(nil), table...)

	InterpolateLMS(table, 6)

	for i := range table {
		if table[i] != before[i] {
			t.Fatalf("row %d changed from %+v to %+v", i, before[i], table[i])
		}
	}
}

func TestInterpolateLMSEmptyTable(t *testing.T) {
	if got := InterpolateLMS(nil, 12); got != (LMS{}) {
		t.Errorf("InterpolateLMS(nil) = %+v, want zero value", got)
	}
}

func TestComputeZScore(t *testing.T) {
	tests := []struct {
		name        string
		measurement float64
		lms         LMS
		want        float64
	}{
		{
			name:        "log path at one sd",
			measurement: 10 * math.Exp(0.1),
			lms:         LMS{L: 0, M: 10, S: 0.1},
			want:        1,
		},
		{
			name:        "linear power at minus one sd",
			measurement: 9,
			lms:         LMS{L: 1, M: 10, S: 0.1},
			want:        -1,
		},
		{
			name:        "median is zero",
			measurement: 12.0424,
			lms:         LMS{AgeMonths: 24, L: -0.0327, M: 12.0424, S: 0.12096},
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeZScore(tt.measurement, tt.lms)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComputeZScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeZScoreDoesNotClamp(t *testing.T) {
	z := ComputeZScore(100, LMS{L: 1, M: 10, S: 0.1})
	if z <= maxAbsZ {
		t.Errorf("ComputeZScore() = %v, want unclamped value above %v", z, maxAbsZ)
	}
}

func TestCalculateZScoreAtMedian(t *testing.T) {
	ages := []float64{0, 2.5, 7.5, 24, 37, 60, 72}

	for _, sex := range []Sex{Male, Female} {
		for _, typ := range MeasurementTypes {
			for _, age := range ages {
				median, err := MedianForAge(age, sex, typ)
				if err != nil {
					t.Fatalf("MedianForAge(%v, %s, %s) error: %v", age, sex, typ, err)
				}

				got, err := CalculateZScore(median, age, sex, typ)
				if err != nil {
					t.Fatalf("CalculateZScore() error: %v", err)
				}
				if got.ZScore != 0 {
					t.Errorf("%s %s at %v: zscore = %v, want 0", sex, typ, age, got.ZScore)
				}
				if got.Percentile != 50 {
					t.Errorf("%s %s at %v: percentile = %v, want 50", sex, typ, age, got.Percentile)
				}
				if got.Classification != Normal {
					t.Errorf("%s %s at %v: classification = %v, want normal", sex, typ, age, got.Classification)
				}
			}
		}
	}
}

func TestCalculateZScoreMaleWeightAt24Months(t *testing.T) {
	got, err := CalculateZScore(12.0424, 24, Male, Weight)
	if err != nil {
		t.Fatalf("CalculateZScore() error: %v", err)
	}
	want := Result{ZScore: 0, Percentile: 50.0, Classification: Normal}
	if got != want {
		t.Errorf("CalculateZScore() = %+v, want %+v", got, want)
	}

	low, err := CalculateZScore(6, 24, Male, Weight)
	if err != nil {
		t.Fatalf("CalculateZScore() error: %v", err)
	}
	if low.ZScore >= 0 || low.ZScore < -4 {
		t.Errorf("zscore = %v, want negative and not below -4", low.ZScore)
	}
	if low.Classification != Concern && low.Classification != Severe {
		t.Errorf("classification = %v, want concern or severe", low.Classification)
	}
}

func TestCalculateZScoreSaturates(t *testing.T) {
	for _, sex := range []Sex{Male, Female} {
		for _, typ := range MeasurementTypes {
			median, _ := MedianForAge(18, sex, typ)

			high, err := CalculateZScore(median*100, 18, sex, typ)
			if err != nil {
				t.Fatalf("CalculateZScore() error: %v", err)
			}
			if high.ZScore != 4 || high.Classification != Severe || high.Percentile != 100 {
				t.Errorf("%s %s 100x median = %+v, want zscore 4, percentile 100, severe", sex, typ, high)
			}

			low, err := CalculateZScore(median/100, 18, sex, typ)
			if err != nil {
				t.Fatalf("CalculateZScore() error: %v", err)
			}
			if low.ZScore != -4 || low.Classification != Severe || low.Percentile != 0 {
				t.Errorf("%s %s median/100 = %+v, want zscore -4, percentile 0, severe", sex, typ, low)
			}
		}
	}
}

func TestCalculateZScoreRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		measurement float64
		age         float64
		sex         Sex
		typ         MeasurementType
		wantErr     error
	}{
		{"unknown sex", 10, 12, Sex("unknown"), Weight, ErrUnknownSex},
		{"unknown type", 10, 12, Male, MeasurementType("bmi"), ErrUnknownMeasurementType},
		{"zero measurement", 0, 12, Male, Weight, ErrInvalidMeasurement},
		{"negative measurement", -3, 12, Female, Height, ErrInvalidMeasurement},
		{"NaN measurement", math.NaN(), 12, Female, Weight, ErrInvalidMeasurement},
		{"infinite measurement", math.Inf(1), 12, Female, Weight, ErrInvalidMeasurement},
		{"negative age", 10, -1, Male, Weight, ErrInvalidAge},
		{"NaN age", 10, math.NaN(), Male, Weight, ErrInvalidAge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateZScore(tt.measurement, tt.age, tt.sex, tt.typ)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CalculateZScore() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalculateZScoreBeyondTableAge(t *testing.T) {
	last := weightForAgeMale[len(weightForAgeMale)-1]
	got, err := CalculateZScore(last.M, 66, Male, Weight)
	if err != nil {
		t.Fatalf("CalculateZScore() error: %v", err)
	}
	if got.ZScore != 0 {
		t.Errorf("zscore = %v, want 0 against the 60 month median", got.ZScore)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		z    float64
		want Classification
	}{
		{0, Normal},
		{0.5, Normal},
		{0.999, Normal},
		{1, Monitor},
		{1.5, Monitor},
		{2, Concern},
		{2.5, Concern},
		{3, Severe},
		{3.5, Severe},
		{4, Severe},
	}

	for _, tt := range tests {
		if got := Classify(tt.z); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.z, got, tt.want)
		}
		if got := Classify(-tt.z); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", -tt.z, got, tt.want)
		}
	}
}

func TestClassificationNeedsReferral(t *testing.T) {
	tests := map[Classification]bool{
		Normal:  false,
		Monitor: false,
		Concern: true,
		Severe:  true,
	}
	for c, want := range tests {
		if got := c.NeedsReferral(); got != want {
			t.Errorf("%s.NeedsReferral() = %v, want %v", c, got, want)
		}
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		z    float64
		want float64
	}{
		{0, 50.0},
		{1, 84.1},
		{-1, 15.9},
		{2, 97.7},
		{-2, 2.3},
		{3, 99.9},
		{-3, 0.1},
		{4, 100.0},
		{-4, 0.0},
	}

	for _, tt := range tests {
		if got := Percentile(tt.z); got != tt.want {
			t.Errorf("Percentile(%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestPercentileCurveReproducesMedian(t *testing.T) {
	points, err := PercentileCurve(Male, Weight, 0)
	if err != nil {
		t.Fatalf("PercentileCurve() error: %v", err)
	}
	if len(points) != len(weightForAgeMale) {
		t.Fatalf("got %d points, want one per table row (%d)", len(points), len(weightForAgeMale))
	}

	for i, row := range weightForAgeMale {
		if row.L == 0 {
			continue
		}
		want := math.Round(row.M*10) / 10
		if got := points[i].Values["median"]; got != want {
			t.Errorf("median at %v = %v, want %v", row.AgeMonths, got, want)
		}
		if points[i].Age != row.AgeMonths {
			t.Errorf("point %d age = %v, want %v", i, points[i].Age, row.AgeMonths)
		}
	}
}

func TestPercentileCurveLabels(t *testing.T) {
	points, err := PercentileCurve(Female, Height)
	if err != nil {
		t.Fatalf("PercentileCurve() error: %v", err)
	}

	want := []string{"median", "minus1sd", "minus2sd", "plus1sd", "plus2sd"}
	for _, p := range points {
		var keys []string
		for k := range p.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) != len(want) {
			t.Fatalf("keys at %v = %v, want %v", p.Age, keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Fatalf("keys at %v = %v, want %v", p.Age, keys, want)
			}
		}
		if !(p.Values["minus2sd"] < p.Values["minus1sd"] &&
			p.Values["minus1sd"] < p.Values["median"] &&
			p.Values["median"] < p.Values["plus1sd"] &&
			p.Values["plus1sd"] < p.Values["plus2sd"]) {
			t.Errorf("bands at %v not ordered: %v", p.Age, p.Values)
		}
	}
}

func TestCurveLabel(t *testing.T) {
	tests := []struct {
		z    float64
		want string
	}{
		{0, "median"},
		{-2, "minus2sd"},
		{-1, "minus1sd"},
		{1, "plus1sd"},
		{3, "plus3sd"},
		{1.5, "plus1.5sd"},
		{-0.5, "minus0.5sd"},
	}

	for _, tt := range tests {
		if got := CurveLabel(tt.z); got != tt.want {
			t.Errorf("CurveLabel(%v) = %q, want %q", tt.z, got, tt.want)
		}
	}
}

func TestPercentileCurveDeterministic(t *testing.T) {
	first, err := PercentileCurve(Male, HeadCircumference, -3, -2, 0, 2, 3)
	if err != nil {
		t.Fatalf("PercentileCurve() error: %v", err)
	}
	second, err := PercentileCurve(Male, HeadCircumference, -3, -2, 0, 2, 3)
	if err != nil {
		t.Fatalf("PercentileCurve() error: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Errorf("PercentileCurve() output differs between calls:\n%s\n%s", a, b)
	}
}

func TestPercentileCurveUnknownInputs(t *testing.T) {
	if _, err := PercentileCurve(Sex("x"), Weight); !errors.Is(err, ErrUnknownSex) {
		t.Errorf("PercentileCurve() error = %v, want %v", err, ErrUnknownSex)
	}
	if _, err := PercentileCurve(Male, MeasurementType("x")); !errors.Is(err, ErrUnknownMeasurementType) {
		t.Errorf("PercentileCurve() error = %v, want %v", err, ErrUnknownMeasurementType)
	}
}

func TestValueAtZ(t *testing.T) {
	lms := LMS{L: 0, M: 10, S: 0.1}
	if got, want := ValueAtZ(lms, 1), 10*math.Exp(0.1); math.Abs(got-want) > tolerance {
		t.Errorf("ValueAtZ(L=0) = %v, want %v", got, want)
	}

	lms = LMS{L: 1, M: 50, S: 0.04}
	if got, want := ValueAtZ(lms, -2), 46.0; math.Abs(got-want) > tolerance {
		t.Errorf("ValueAtZ(L=1) = %v, want %v", got, want)
	}

	row := weightForAgeFemale[8]
	z := 1.3
	back := ComputeZScore(ValueAtZ(row, z), row)
	if math.Abs(back-z) > 1e-9 {
		t.Errorf("ComputeZScore(ValueAtZ(z)) = %v, want %v", back, z)
	}
}

func TestTableReturnsCopy(t *testing.T) {
	table, err := Table(Female, Weight)
	if err != nil {
		t.Fatalf("Table() error: %v", err)
	}
	original := weightForAgeFemale[0]
	table[0].M = 999

	if weightForAgeFemale[0] != original {
		t.Fatal("modifying the returned table changed the reference data")
	}
}

func TestParseSex(t *testing.T) {
	tests := []struct {
		input   string
		want    Sex
		wantErr bool
	}{
		{"male", Male, false},
		{"Female", Female, false},
		{" MALE ", Male, false},
		{"", "", true},
		{"m", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSex(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseSex(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseMeasurementType(t *testing.T) {
	tests := []struct {
		input   string
		want    MeasurementType
		wantErr bool
	}{
		{"weight", Weight, false},
		{"height", Height, false},
		{"headCircumference", HeadCircumference, false},
		{"head_circumference", HeadCircumference, false},
		{"bmi", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMeasurementType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMeasurementType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMeasurementType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCalculateZScoreConcurrent(t *testing.T) {
	want, _ := CalculateZScore(11, 20, Female, Weight)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := CalculateZScore(11, 20, Female, Weight)
				if err != nil || got != want {
					t.Errorf("concurrent CalculateZScore() = %+v, %v, want %+v", got, err, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
