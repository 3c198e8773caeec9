package algo

import (
	"math"
	"strconv"
)

// Curve is a concave growth curve w * (1 + (x/s)^e) used to turn a raw count into a sub-score.
type Curve struct {
	Weight   float64
	Scale    float64
	Exponent float64
}

// Curves used by the composite dimensions.
var (
	StarCurve        = Curve{20, 1000, 0.3}
	ForkCurve        = Curve{15, 500, 0.3}
	WatcherCurve     = Curve{10, 200, 0.3}
	ContributorCurve = Curve{30, 50, 0.4}
	CommitCurve      = Curve{40, 1000, 0.3}
	FrequencyCurve   = Curve{30, 10, 0.5}

	MarketStarCurve        = Curve{25, 5000, 0.4}
	MarketForkCurve        = Curve{20, 1000, 0.4}
	MarketContributorCurve = Curve{15, 100, 0.3}

	NetworkForkCurve    = Curve{50, 2000, 0.3}
	NetworkWatcherCurve = Curve{50, 500, 0.3}
)

// Raw evaluates the curve without clamping. Negative counts are treated as zero.
func (c Curve) Raw(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		x = 0
	}
	return c.Weight * (1 + math.Pow(x/c.Scale, c.Exponent))
}

// Normalize evaluates the curve and clamps the result into [0,100].
func Normalize(x float64, c Curve) float64 {
	return Clamp(c.Raw(x), 0, 100)
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds v to the given number of decimal places. Ties on the exact binary
// value go to the even digit, so 65.25 rounds to 65.2.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
