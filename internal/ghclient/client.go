// Package ghclient fetches repository metadata and contents from the GitHub REST API.
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
	"github.com/sourcegraph/conc"
)

// activityWeeks is how many trailing weeks of commit activity are summed.
const activityWeeks = 8

// Options configures a Client.
type Options struct {
	Token     string
	BaseURL   string // empty means https://api.github.com/
	Timeout   time.Duration
	Transport http.RoundTripper // nil means http.DefaultTransport
}

// Client implements contract.RepositoryFetcher and contract.ContentsLister.
type Client struct {
	gh *github.Client
}

var (
	_ contract.RepositoryFetcher = &Client{} // Compile-time check
	_ contract.ContentsLister    = &Client{} // Compile-time check
)

// NewClient creates a GitHub client with an optional token and API base URL.
func NewClient(opts Options) (*Client, error) {
	httpClient := &http.Client{Timeout: opts.Timeout, Transport: opts.Transport}
	gh := github.NewClient(httpClient)
	if opts.Token != "" {
		gh = gh.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = u
	}
	return &Client{gh: gh}, nil
}

// commitActivity is the trailing commit summary used by the scores.
type commitActivity struct {
	total      int
	weeklyAvg  float64
	lastCommit *int64
}

// AnalyzeRepository fetches the repository, its commit activity and contributors,
// then derives the health, activity and community scores.
func (c *Client) AnalyzeRepository(ctx context.Context, owner, repo string) (schema.RepoData, error) {
	r, err := c.getRepository(ctx, owner, repo)
	if err != nil {
		return schema.RepoData{}, err
	}

	var (
		activity     commitActivity
		contributors int
	)
	wg := conc.NewWaitGroup()
	wg.Go(func() { activity = c.fetchCommitActivity(ctx, owner, repo) })
	wg.Go(func() { contributors = c.fetchContributorCount(ctx, owner, repo) })
	wg.Wait()

	health := healthScore(r, activity.weeklyAvg)
	act := activityScore(activity.weeklyAvg)
	community := communityScore(r.GetStargazersCount(), r.GetForksCount(), contributors)

	data := schema.RepoData{
		BasicInfo: schema.BasicInfo{
			Name:            r.GetFullName(),
			Description:     r.GetDescription(),
			PrimaryLanguage: r.GetLanguage(),
			CreatedAt:       formatTimestamp(r.CreatedAt),
			UpdatedAt:       formatTimestamp(r.UpdatedAt),
		},
		Metrics: schema.RepositoryMetrics{
			Stars:      r.GetStargazersCount(),
			Forks:      r.GetForksCount(),
			Watchers:   r.GetWatchersCount(),
			OpenIssues: r.GetOpenIssuesCount(),
		},
		Scores: schema.RepositoryScores{
			HealthScore:    health,
			ActivityScore:  act,
			CommunityScore: community,
			OverallScore:   (health + act + community) / 3,
		},
		Development: schema.DevelopmentActivity{
			TotalCommits:    activity.total,
			Contributors:    contributors,
			LastCommitDate:  activity.lastCommit,
			CommitFrequency: activity.weeklyAvg,
		},
	}
	return data, nil
}

// CheckRepository reports whether the repository exists.
func (c *Client) CheckRepository(ctx context.Context, owner, repo string) error {
	_, err := c.getRepository(ctx, owner, repo)
	return err
}

// ListRoot returns the root directory listing of the default branch.
func (c *Client) ListRoot(ctx context.Context, owner, repo string) ([]schema.ContentEntry, error) {
	file, dir, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, "", nil)
	if err != nil {
		return nil, fmt.Errorf("list contents of %s/%s: %w", owner, repo, err)
	}
	if file != nil {
		dir = append(dir, file)
	}
	entries := make([]schema.ContentEntry, 0, len(dir))
	for _, item := range dir {
		if item == nil || item.GetType() == "" {
			continue
		}
		entries = append(entries, schema.ContentEntry{
			Name: item.GetName(),
			Path: item.GetPath(),
			Type: item.GetType(),
			Size: item.GetSize(),
		})
	}
	return entries, nil
}

// ReadFile returns the decoded content of a file.
func (c *Client) ReadFile(ctx context.Context, owner, repo, path string) ([]byte, error) {
	file, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		return nil, fmt.Errorf("read %s in %s/%s: %w", path, owner, repo, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s in %s/%s is not a file", path, owner, repo)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s in %s/%s: %w", path, owner, repo, err)
	}
	return []byte(content), nil
}

// getRepository maps a 404 to schema.ErrRepositoryNotFound.
func (c *Client) getRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return nil, schema.ErrRepositoryNotFound
		}
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, schema.ErrRepositoryNotFound
		}
		return nil, fmt.Errorf("fetch %s/%s: %w", owner, repo, err)
	}
	return r, nil
}

// fetchCommitActivity sums the trailing weeks of activity. Any failure,
// including GitHub still computing the statistics, yields no activity.
func (c *Client) fetchCommitActivity(ctx context.Context, owner, repo string) commitActivity {
	weeks, _, err := c.gh.Repositories.ListCommitActivity(ctx, owner, repo)
	if err != nil || len(weeks) == 0 {
		return commitActivity{}
	}
	return summarizeActivity(weeks)
}

func summarizeActivity(weeks []*github.WeeklyCommitActivity) commitActivity {
	if len(weeks) == 0 {
		return commitActivity{}
	}
	var total int
	for _, w := range weeks[max(0, len(weeks)-activityWeeks):] {
		total += w.GetTotal()
	}
	out := commitActivity{
		total:     total,
		weeklyAvg: float64(total) / activityWeeks,
	}
	if last := weeks[len(weeks)-1]; last != nil && last.Week != nil {
		ts := last.Week.Unix()
		out.lastCommit = &ts
	}
	return out
}

// fetchContributorCount counts the first page of contributors.
func (c *Client) fetchContributorCount(ctx context.Context, owner, repo string) int {
	contributors, _, err := c.gh.Repositories.ListContributors(ctx, owner, repo, nil)
	if err != nil {
		return 0
	}
	return len(contributors)
}

func formatTimestamp(ts *github.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

// healthScore awards 0.2 for each sign of a maintained project.
func healthScore(r *github.Repository, weeklyAvg float64) float64 {
	var score float64
	if r.GetDescription() != "" {
		score += 0.2
	}
	if r.GetHasWiki() || r.GetDescription() != "" {
		score += 0.2
	}
	if weeklyAvg > 0 {
		score += 0.2
	}
	if r.GetOpenIssuesCount() < 50 {
		score += 0.2
	}
	if r.License != nil {
		score += 0.2
	}
	return min(score, 1)
}

func activityScore(weeklyAvg float64) float64 {
	switch {
	case weeklyAvg >= 10:
		return 1
	case weeklyAvg >= 5:
		return 0.8
	case weeklyAvg >= 1:
		return 0.6
	case weeklyAvg > 0:
		return 0.4
	default:
		return 0
	}
}

func communityScore(stars, forks, contributors int) float64 {
	var score float64
	switch {
	case stars >= 1000:
		score += 0.3
	case stars >= 100:
		score += 0.2
	case stars >= 10:
		score += 0.1
	}
	switch {
	case forks >= 100:
		score += 0.3
	case forks >= 10:
		score += 0.2
	case forks >= 1:
		score += 0.1
	}
	switch {
	case contributors >= 50:
		score += 0.4
	case contributors >= 10:
		score += 0.3
	case contributors >= 1:
		score += 0.2
	}
	return min(score, 1)
}
