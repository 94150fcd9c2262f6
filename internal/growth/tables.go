package growth

// LMS is one age checkpoint of a reference table: the Box-Cox power (L),
// median (M) and coefficient of variation (S).
type LMS struct {
	AgeMonths float64 `json:"age"`
	L         float64 `json:"l"`
	M         float64 `json:"m"`
	S         float64 `json:"s"`
}

// WHO Child Growth Standards (2006), monthly to 6 months then quarterly and
// half-yearly checkpoints up to 60 months.

var weightForAgeMale = []LMS{
	{0, 0.3487, 3.3464, 0.14602},
	{1, 0.2297, 4.4709, 0.13395},
	{2, 0.1970, 5.5675, 0.12385},
	{3, 0.1738, 6.3762, 0.11727},
	{4, 0.1553, 7.0023, 0.11316},
	{5, 0.1395, 7.5105, 0.11080},
	{6, 0.1257, 7.9340, 0.10958},
	{9, 0.0917, 8.9014, 0.10881},
	{12, 0.0644, 9.6479, 0.10925},
	{15, 0.0409, 10.3108, 0.11191},
	{18, 0.0211, 10.9385, 0.11455},
	{21, 0.0032, 11.5110, 0.11770},
	{24, -0.0327, 12.0424, 0.12096},
	{30, -0.0756, 13.3202, 0.12177},
	{36, -0.1110, 14.3429, 0.12258},
	{42, -0.1400, 15.2839, 0.12431},
	{48, -0.1636, 16.2761, 0.12632},
	{54, -0.1839, 17.2383, 0.12844},
	{60, -0.2026, 18.3366, 0.13051},
}

var weightForAgeFemale = []LMS{
	{0, 0.3809, 3.2322, 0.14171},
	{1, 0.1714, 4.1873, 0.13724},
	{2, 0.0962, 5.1282, 0.13000},
	{3, 0.0402, 5.8458, 0.12619},
	{4, -0.0050, 6.4237, 0.12402},
	{5, -0.0430, 6.8985, 0.12274},
	{6, -0.0756, 7.2970, 0.12204},
	{9, -0.1568, 8.2254, 0.12153},
	{12, -0.2024, 8.9481, 0.12268},
	{15, -0.2334, 9.6008, 0.12431},
	{18, -0.2581, 10.2315, 0.12602},
	{21, -0.2781, 10.8534, 0.12779},
	{24, -0.2941, 11.4775, 0.12979},
	{30, -0.3200, 12.7055, 0.13300},
	{36, -0.3412, 13.8503, 0.13624},
	{42, -0.3548, 14.9993, 0.13962},
	{48, -0.3683, 16.0697, 0.14309},
	{54, -0.3807, 17.1706, 0.14639},
	{60, -0.3921, 18.2193, 0.14929},
}

var heightForAgeMale = []LMS{
	{0, 1, 49.8842, 0.03795},
	{1, 1, 54.7244, 0.03557},
	{2, 1, 58.4249, 0.03424},
	{3, 1, 61.4292, 0.03328},
	{4, 1, 63.8860, 0.03257},
	{5, 1, 65.9026, 0.03204},
	{6, 1, 67.6236, 0.03165},
	{9, 1, 72.0164, 0.03104},
	{12, 1, 75.7488, 0.03137},
	{15, 1, 79.1458, 0.03197},
	{18, 1, 82.2587, 0.03258},
	{21, 1, 85.1348, 0.03315},
	{24, 1, 87.8161, 0.03371},
	{30, 1, 91.9327, 0.03522},
	{36, 1, 96.0835, 0.03653},
	{42, 1, 99.8568, 0.03765},
	{48, 1, 103.3273, 0.03852},
	{54, 1, 106.7239, 0.03929},
	{60, 1, 109.9638, 0.04013},
}

var heightForAgeFemale = []LMS{
	{0, 1, 49.1477, 0.03790},
	{1, 1, 53.6872, 0.03640},
	{2, 1, 57.0673, 0.03568},
	{3, 1, 59.8029, 0.03520},
	{4, 1, 62.0899, 0.03486},
	{5, 1, 64.0301, 0.03463},
	{6, 1, 65.7311, 0.03448},
	{9, 1, 70.1435, 0.03432},
	{12, 1, 74.0150, 0.03479},
	{15, 1, 77.5099, 0.03552},
	{18, 1, 80.7079, 0.03623},
	{21, 1, 83.6654, 0.03690},
	{24, 1, 86.4153, 0.03752},
	{30, 1, 90.7047, 0.03876},
	{36, 1, 95.0515, 0.03987},
	{42, 1, 99.0326, 0.04068},
	{48, 1, 102.7312, 0.04135},
	{54, 1, 106.2170, 0.04191},
	{60, 1, 109.4233, 0.04238},
}

var headCircumferenceForAgeMale = []LMS{
	{0, 1, 34.4618, 0.03686},
	{1, 1, 37.2759, 0.03133},
	{2, 1, 39.1285, 0.02997},
	{3, 1, 40.5135, 0.02918},
	{4, 1, 41.6317, 0.02868},
	{5, 1, 42.5576, 0.02837},
	{6, 1, 43.3306, 0.02817},
	{9, 1, 44.9998, 0.02794},
	{12, 1, 46.0661, 0.02789},
	{15, 1, 46.8334, 0.02794},
	{18, 1, 47.4147, 0.02805},
	{21, 1, 47.8778, 0.02816},
	{24, 1, 48.2515, 0.02826},
	{30, 1, 48.8627, 0.02845},
	{36, 1, 49.3537, 0.02862},
	{42, 1, 49.7555, 0.02877},
	{48, 1, 50.0945, 0.02890},
	{54, 1, 50.3902, 0.02902},
	{60, 1, 50.6723, 0.02914},
}

var headCircumferenceForAgeFemale = []LMS{
	{0, 1, 33.8787, 0.03496},
	{1, 1, 36.5463, 0.03210},
	{2, 1, 38.2521, 0.03168},
	{3, 1, 39.5328, 0.03140},
	{4, 1, 40.5817, 0.03119},
	{5, 1, 41.4590, 0.03102},
	{6, 1, 42.1995, 0.03087},
	{9, 1, 43.8304, 0.03063},
	{12, 1, 44.8965, 0.03054},
	{15, 1, 45.6760, 0.03055},
	{18, 1, 46.2887, 0.03062},
	{21, 1, 46.7987, 0.03070},
	{24, 1, 47.2304, 0.03078},
	{30, 1, 47.9337, 0.03093},
	{36, 1, 48.4917, 0.03107},
	{42, 1, 48.9559, 0.03119},
	{48, 1, 49.3485, 0.03130},
	{54, 1, 49.6921, 0.03140},
	{60, 1, 50.0049, 0.03149},
}

// lookup returns the shared table for a (sex, type) pair. Callers must not
// modify the returned slice.
func lookup(sex Sex, typ MeasurementType) ([]LMS, error) {
	var male, female []LMS
	switch typ {
	case Weight:
		male, female = weightForAgeMale, weightForAgeFemale
	case Height:
		male, female = heightForAgeMale, heightForAgeFemale
	case HeadCircumference:
		male, female = headCircumferenceForAgeMale, headCircumferenceForAgeFemale
	default:
		return nil, ErrUnknownMeasurementType
	}

	switch sex {
	case Male:
		return male, nil
	case Female:
		return female, nil
	}
	return nil, ErrUnknownSex
}

// Table returns a copy of the reference table for a sex and measurement type
func Table(sex Sex, typ MeasurementType) ([]LMS, error) {
	table, err := lookup(sex, typ)
	if err != nil {
		return nil, err
	}
	out := make([]LMS, len(table))
	copy(out, table)
	return out, nil
}
