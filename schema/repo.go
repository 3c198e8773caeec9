package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultScore is assumed for any repository score a caller leaves out.
const DefaultScore = 0.5

// Valuation input defaults.
const (
	DefaultTeamSize          = 1
	DefaultHourlyRate        = 100.0
	DefaultDevelopmentMonths = 6
	DefaultMarketMultiplier  = 10.0
)

// BasicInfo describes the repository itself.
type BasicInfo struct {
	Name            string `json:"name"` // owner/repo
	Description     string `json:"description"`
	PrimaryLanguage string `json:"primary_language"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// RepositoryMetrics holds raw popularity counts.
type RepositoryMetrics struct {
	Stars      int `json:"stars"`
	Forks      int `json:"forks"`
	Watchers   int `json:"watchers"`
	OpenIssues int `json:"open_issues"`
}

// RepositoryScores holds the fetcher's heuristic scores, each in [0,1].
type RepositoryScores struct {
	HealthScore    float64 `json:"health_score"`
	ActivityScore  float64 `json:"activity_score"`
	CommunityScore float64 `json:"community_score"`
	OverallScore   float64 `json:"overall_score"`
}

// DevelopmentActivity summarizes recent development.
type DevelopmentActivity struct {
	TotalCommits    int     `json:"total_commits"`
	Contributors    int     `json:"contributors"`
	LastCommitDate  *int64  `json:"last_commit_date"` // unix seconds of the latest activity week
	CommitFrequency float64 `json:"commit_frequency"` // commits per week
}

// RepoData is the full repository snapshot fed into the valuation engine.
type RepoData struct {
	BasicInfo   BasicInfo           `json:"basic_info"`
	Metrics     RepositoryMetrics   `json:"metrics"`
	Scores      RepositoryScores    `json:"scores"`
	Development DevelopmentActivity `json:"development"`
}

// NewRepoData returns an empty snapshot with neutral scores.
func NewRepoData() RepoData {
	return RepoData{
		Scores: RepositoryScores{
			HealthScore:    DefaultScore,
			ActivityScore:  DefaultScore,
			CommunityScore: DefaultScore,
			OverallScore:   DefaultScore,
		},
	}
}

// ParseRepoData decodes a JSON snapshot, keeping neutral scores for omitted fields.
// Whole-number counts written as floats (250.0, 1e3) are accepted.
func ParseRepoData(raw []byte) (RepoData, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return RepoData{}, fmt.Errorf("invalid repo_data: %w", err)
	}
	// float64 values re-encode without a fraction when they are whole numbers
	normalized, err := json.Marshal(generic)
	if err != nil {
		return RepoData{}, fmt.Errorf("invalid repo_data: %w", err)
	}
	data := NewRepoData()
	if err := json.Unmarshal(normalized, &data); err != nil {
		return RepoData{}, fmt.Errorf("invalid repo_data: %w", err)
	}
	return data, nil
}

// OwnerRepo splits the "owner/repo" name.
func (r RepoData) OwnerRepo() (string, string, error) {
	name := strings.TrimSpace(r.BasicInfo.Name)
	if name == "" {
		return "", "", &MissingFieldError{Field: "repo_data.basic_info.name"}
	}
	owner, repo, ok := strings.Cut(name, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repository name must be in 'owner/repo' format, got %q", name)
	}
	return owner, repo, nil
}

// ValuationInputs bundles a snapshot with the cost-model parameters.
type ValuationInputs struct {
	RepoData          RepoData `json:"repo_data"`
	TeamSize          int      `json:"team_size"`
	HourlyRate        float64  `json:"hourly_rate"`
	DevelopmentMonths int      `json:"development_months"`
	MarketMultiplier  float64  `json:"market_multiplier"`
}

// NewValuationInputs returns inputs with the default cost-model parameters.
func NewValuationInputs(data RepoData) ValuationInputs {
	return ValuationInputs{
		RepoData:          data,
		TeamSize:          DefaultTeamSize,
		HourlyRate:        DefaultHourlyRate,
		DevelopmentMonths: DefaultDevelopmentMonths,
		MarketMultiplier:  DefaultMarketMultiplier,
	}
}

// Validate rejects parameters outside their positive domain.
func (in ValuationInputs) Validate() error {
	if in.TeamSize <= 0 {
		return fmt.Errorf("team_size must be positive, got %d", in.TeamSize)
	}
	if in.HourlyRate <= 0 {
		return fmt.Errorf("hourly_rate must be positive, got %v", in.HourlyRate)
	}
	if in.DevelopmentMonths <= 0 {
		return fmt.Errorf("development_months must be positive, got %d", in.DevelopmentMonths)
	}
	if in.MarketMultiplier <= 0 {
		return fmt.Errorf("market_multiplier must be positive, got %v", in.MarketMultiplier)
	}
	m := in.RepoData.Metrics
	if m.Stars < 0 || m.Forks < 0 || m.Watchers < 0 || m.OpenIssues < 0 {
		return fmt.Errorf("repository metrics must be non-negative")
	}
	d := in.RepoData.Development
	if d.TotalCommits < 0 || d.Contributors < 0 || d.CommitFrequency < 0 {
		return fmt.Errorf("development activity must be non-negative")
	}
	return nil
}

// Comparable is a reference project for market-based valuation.
type Comparable struct {
	Name  string  `json:"name,omitempty"`
	Value float64 `json:"value"`
	Stars int     `json:"stars"`
}

// UnmarshalJSON counts a comparable without a star figure as one star.
func (c *Comparable) UnmarshalJSON(b []byte) error {
	type alias Comparable
	a := alias{Stars: 1}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*c = Comparable(a)
	return nil
}

// Content entry types reported by a repository contents listing.
const (
	EntryFile = "file"
	EntryDir  = "dir"
)

// ContentEntry is one item of a repository's root directory listing.
type ContentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

// IsFile reports whether the entry is a regular file.
func (e ContentEntry) IsFile() bool { return e.Type == EntryFile }

// IsDir reports whether the entry is a directory.
func (e ContentEntry) IsDir() bool { return e.Type == EntryDir }
