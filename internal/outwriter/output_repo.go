package outwriter

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
)

// WriteRepositoryResult outputs a repository snapshot using the configured output format.
func WriteRepositoryResult(data schema.RepoData, cfg *contract.Config) error {
	rep := &report{
		Kind:     "repository",
		Emoji:    "📊",
		Title:    "Repository analysis",
		Subject:  data.BasicInfo.Name,
		Sections: repositorySections(data, cfg.Precision),
		Payload:  data,
	}
	return writeReport(rep, cfg)
}

func repositorySections(data schema.RepoData, precision int) []section {
	fmtFloat, _ := createFormatters(precision)

	info := section{Title: "Repository"}
	info.add(
		textField("Name", data.BasicInfo.Name),
		textField("Description", orDash(data.BasicInfo.Description)),
		textField("Primary language", orDash(data.BasicInfo.PrimaryLanguage)),
	)
	if data.BasicInfo.CreatedAt != "" {
		info.add(textField("Created", data.BasicInfo.CreatedAt))
	}
	if data.BasicInfo.UpdatedAt != "" {
		info.add(textField("Updated", data.BasicInfo.UpdatedAt))
	}

	m := data.Metrics
	metrics := section{Title: "Metrics"}
	metrics.add(
		countField("Stars", m.Stars),
		countField("Forks", m.Forks),
		countField("Watchers", m.Watchers),
		countField("Open issues", m.OpenIssues),
	)

	sc := data.Scores
	scores := section{Title: "Scores"}
	scores.add(
		numField("Health", sc.HealthScore, formatRatio(sc.HealthScore)),
		numField("Activity", sc.ActivityScore, formatRatio(sc.ActivityScore)),
		numField("Community", sc.CommunityScore, formatRatio(sc.CommunityScore)),
		numField("Overall", sc.OverallScore, formatRatio(sc.OverallScore)),
	)

	d := data.Development
	dev := section{Title: "Development"}
	dev.add(
		countField("Total commits", d.TotalCommits),
		countField("Contributors", d.Contributors),
		numField("Commits per week", d.CommitFrequency, fmtFloat(d.CommitFrequency)),
	)
	if d.LastCommitDate != nil {
		dev.add(textField("Last commit week", time.Unix(*d.LastCommitDate, 0).UTC().Format(contract.DateTimeFormat)))
	}

	return []section{info, metrics, scores, dev}
}

// WriteMarketResult outputs a market comparison using the configured output format.
func WriteMarketResult(result schema.MarketComparison, cfg *contract.Config) error {
	m := result.RepoMetrics
	repo := section{Title: "Repository"}
	repo.add(
		textField("Category", result.Category),
		countField("Stars", m.Stars),
		countField("Forks", m.Forks),
		countField("Contributors", m.Contributors),
	)

	b := result.Benchmarks
	bench := section{Title: "Market benchmarks"}
	bench.add(
		countField("Average stars", b.AverageStars),
		countField("Average forks", b.AverageForks),
		countField("Average contributors", b.AverageContributors),
		numField("Median valuation", b.MedianValuation, formatDollars(b.MedianValuation)),
	)

	p := result.Comparison
	pct := section{Title: "Percentiles"}
	pct.add(
		percentileField("Stars", p.StarsPercentile),
		percentileField("Forks", p.ForksPercentile),
		percentileField("Activity", p.ActivityPercentile),
	)

	rep := &report{
		Kind:     "market",
		Emoji:    "📈",
		Title:    "Market comparison",
		Subject:  result.Category,
		Sections: []section{repo, bench, pct},
		Payload:  result,
	}
	return writeReport(rep, cfg)
}

// WritePackageResult outputs registry statistics and the derived adoption score.
func WritePackageResult(stats schema.PackageStats, adoption float64, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	lookup := section{Title: "Lookup"}
	lookup.add(
		textField("Repository", stats.Repository),
		textField("Status", stats.Status),
	)

	var sections []section
	if stats.Succeeded() {
		lookup.add(
			textField("Package manager", string(stats.PackageManager)),
			textField("Package", stats.PackageName),
		)
		s := stats.Stats
		reg := section{Title: "Registry"}
		reg.add(textField("Latest version", orDash(s.LatestVersion)))
		if s.PackageURL != "" {
			reg.add(textField("URL", s.PackageURL))
		}
		if s.TotalVersions > 0 {
			reg.add(countField("Versions", s.TotalVersions))
		}
		for _, dl := range []struct {
			label string
			n     int64
		}{
			{"Weekly downloads", s.WeeklyDownloads},
			{"Monthly downloads", s.MonthlyDownloads},
			{"Total downloads", s.TotalDownloads},
			{"Recent downloads", s.RecentDownloads},
		} {
			if dl.n > 0 {
				reg.add(numField(dl.label, float64(dl.n), humanize.Comma(dl.n)))
			}
		}
		adopt := section{Title: "Adoption"}
		adopt.add(numField("Ecosystem adoption score", adoption, fmtFloat(adoption)))
		sections = []section{lookup, reg, adopt}
	} else {
		sections = []section{lookup}
	}

	rep := &report{
		Kind:     "packages",
		Emoji:    "📦",
		Title:    "Package stats",
		Subject:  stats.Repository,
		Sections: sections,
		Payload: struct {
			schema.PackageStats
			AdoptionScore float64 `json:"ecosystem_adoption_score"`
		}{stats, adoption},
	}
	return writeReport(rep, cfg)
}

func countField(label string, n int) field {
	return numField(label, float64(n), humanize.Comma(int64(n)))
}

func percentileField(label string, p int) field {
	return numField(label, float64(p), fmt.Sprintf("%d%%", p))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
