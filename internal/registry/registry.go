// Package registry looks up package download statistics on npm, PyPI and crates.io.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
)

// Default registry endpoints.
const (
	DefaultNPMRegistryURL = "https://registry.npmjs.org"
	DefaultNPMAPIURL      = "https://api.npmjs.org"
	DefaultPyPIStatsURL   = "https://pypistats.org/api"
	DefaultCratesURL      = "https://crates.io/api/v1"

	userAgent       = "repovalue (https://github.com/huangsam/repovalue)"
	unknownVersion  = "unknown"
	npmDownloadDays = 7
	maxBodyBytes    = 10 << 20
)

// Options configures a Client. Empty URLs select the public registries.
type Options struct {
	Timeout        time.Duration
	Transport      http.RoundTripper
	NPMRegistryURL string
	NPMAPIURL      string
	PyPIStatsURL   string
	CratesURL      string
}

// Client implements contract.PackageLookup.
type Client struct {
	http        *http.Client
	npmRegistry string
	npmAPI      string
	pypiStats   string
	crates      string
	now         func() time.Time
}

var _ contract.PackageLookup = &Client{} // Compile-time check

// NewClient creates a registry client.
func NewClient(opts Options) *Client {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return strings.TrimSuffix(v, "/")
	}
	return &Client{
		http:        &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		npmRegistry: pick(opts.NPMRegistryURL, DefaultNPMRegistryURL),
		npmAPI:      pick(opts.NPMAPIURL, DefaultNPMAPIURL),
		pypiStats:   pick(opts.PyPIStatsURL, DefaultPyPIStatsURL),
		crates:      pick(opts.CratesURL, DefaultCratesURL),
		now:         time.Now,
	}
}

// GetPackageStats tries npm, then PyPI, then crates.io and returns the first hit.
// The package name defaults to the repository name.
func (c *Client) GetPackageStats(ctx context.Context, owner, repo, packageName string) schema.PackageStats {
	result := schema.NewPackageStats(owner, repo)
	pkg := strings.TrimSpace(packageName)
	if pkg == "" {
		pkg = repo
	}

	lookups := []struct {
		manager schema.PackageManager
		fetch   func(context.Context, string) (schema.RegistryStats, error)
	}{
		{schema.NPM, c.fetchNPM},
		{schema.PyPI, c.fetchPyPI},
		{schema.Cargo, c.fetchCargo},
	}
	for _, l := range lookups {
		stats, err := l.fetch(ctx, pkg)
		if err != nil {
			continue
		}
		result.PackageManager = l.manager
		result.PackageName = stats.PackageName
		result.Stats = stats
		result.Status = schema.StatusSuccess
		return result
	}
	return result
}

func (c *Client) fetchNPM(ctx context.Context, pkg string) (schema.RegistryStats, error) {
	var info struct {
		DistTags map[string]string         `json:"dist-tags"`
		Versions map[string]json.RawMessage `json:"versions"`
	}
	if err := c.getJSON(ctx, c.npmRegistry+"/"+strings.ReplaceAll(pkg, "/", "%2F"), &info); err != nil {
		return schema.RegistryStats{}, err
	}

	end := c.now()
	start := end.AddDate(0, 0, -npmDownloadDays)
	rangeURL := fmt.Sprintf("%s/downloads/range/%s:%s/%s", c.npmAPI, start.Format(time.DateOnly), end.Format(time.DateOnly), pkg)

	// Missing download figures leave the package found with zero downloads.
	var downloads struct {
		Downloads []struct {
			Downloads int64 `json:"downloads"`
		} `json:"downloads"`
	}
	var weekly int64
	if err := c.getJSON(ctx, rangeURL, &downloads); err == nil {
		for _, d := range downloads.Downloads {
			weekly += d.Downloads
		}
	}

	latest := info.DistTags["latest"]
	if latest == "" {
		latest = unknownVersion
	}
	return schema.RegistryStats{
		PackageName:     pkg,
		Registry:        schema.NPM,
		PackageURL:      "https://www.npmjs.com/package/" + pkg,
		LatestVersion:   latest,
		TotalVersions:   len(info.Versions),
		WeeklyDownloads: weekly,
	}, nil
}

func (c *Client) fetchPyPI(ctx context.Context, pkg string) (schema.RegistryStats, error) {
	var overall struct {
		Data struct {
			LastMonth int64 `json:"last_month"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/packages/%s/overall", c.pypiStats, url.PathEscape(pkg)), &overall); err != nil {
		return schema.RegistryStats{}, err
	}
	return schema.RegistryStats{
		PackageName:      pkg,
		Registry:         schema.PyPI,
		PackageURL:       fmt.Sprintf("https://pypi.org/project/%s/", pkg),
		MonthlyDownloads: overall.Data.LastMonth,
	}, nil
}

func (c *Client) fetchCargo(ctx context.Context, pkg string) (schema.RegistryStats, error) {
	var crate struct {
		Crate struct {
			Downloads       int64  `json:"downloads"`
			RecentDownloads int64  `json:"recent_downloads"`
			MaxVersion      string `json:"max_version"`
		} `json:"crate"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/crates/%s", c.crates, url.PathEscape(pkg)), &crate); err != nil {
		return schema.RegistryStats{}, err
	}
	latest := crate.Crate.MaxVersion
	if latest == "" {
		latest = unknownVersion
	}
	return schema.RegistryStats{
		PackageName:     pkg,
		Registry:        schema.Cargo,
		PackageURL:      "https://crates.io/crates/" + pkg,
		LatestVersion:   latest,
		TotalDownloads:  crate.Crate.Downloads,
		RecentDownloads: crate.Crate.RecentDownloads,
	}, nil
}

// getJSON decodes a 200 response into v. Any other status is an error.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("registry request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned status %d for %s", resp.StatusCode, rawURL)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode registry response: %w", err)
	}
	return nil
}
