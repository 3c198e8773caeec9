package algo

import "github.com/huangsam/repovalue/schema"

// segment is one linear piece [from, to) mapped onto [lo, hi].
type segment struct {
	from, to float64
	lo, hi   float64
}

// piecewise walks segments in order; counts at or past the last bound saturate at ceiling.
func piecewise(x float64, segments []segment, ceiling float64) float64 {
	if x <= 0 {
		return 0
	}
	for _, s := range segments {
		if x < s.to {
			return s.lo + (s.hi-s.lo)*(x-s.from)/(s.to-s.from)
		}
	}
	return ceiling
}

var (
	npmSegments = []segment{
		{0, 100, 0, 10},
		{100, 1_000, 10, 25},
		{1_000, 10_000, 25, 50},
		{10_000, 100_000, 50, 100},
	}
	pypiSegments = []segment{
		{0, 500, 0, 10},
		{500, 5_000, 10, 25},
		{5_000, 50_000, 25, 50},
		{50_000, 500_000, 50, 100},
	}
	cargoSegments = []segment{
		{0, 10_000, 0, 25},
		{10_000, 100_000, 25, 50},
		{100_000, 1_000_000, 50, 100},
	}
)

// MaxRecentBoost caps the cargo recent-download bonus.
const MaxRecentBoost = 20.0

// NPMAdoption maps weekly npm downloads to [0,100].
func NPMAdoption(weekly int64) float64 {
	return piecewise(float64(weekly), npmSegments, 100)
}

// PyPIAdoption maps monthly PyPI downloads to [0,100].
func PyPIAdoption(monthly int64) float64 {
	return piecewise(float64(monthly), pypiSegments, 100)
}

// CargoAdoption maps total crates.io downloads plus a recent-download bonus to [0,100].
func CargoAdoption(total, recent int64) float64 {
	base := piecewise(float64(total), cargoSegments, 100)
	boost := Clamp(float64(recent)/1000, 0, MaxRecentBoost)
	return min(100, base+boost)
}

// AdoptionScore scores a registry lookup. Non-success lookups and unknown registries score 0.
func AdoptionScore(stats schema.PackageStats) float64 {
	if !stats.Succeeded() {
		return 0
	}
	s := stats.Stats
	switch stats.PackageManager {
	case schema.NPM:
		return NPMAdoption(s.WeeklyDownloads)
	case schema.PyPI:
		return PyPIAdoption(s.MonthlyDownloads)
	case schema.Cargo:
		return CargoAdoption(s.TotalDownloads, s.RecentDownloads)
	default:
		return 0
	}
}
