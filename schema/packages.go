package schema

// RegistryStats holds the figures one registry reports for a package.
// npm fills WeeklyDownloads, pypi MonthlyDownloads and cargo TotalDownloads plus RecentDownloads.
type RegistryStats struct {
	PackageName      string         `json:"package_name,omitempty"`
	Registry         PackageManager `json:"registry,omitempty"`
	PackageURL       string         `json:"package_url,omitempty"`
	LatestVersion    string         `json:"latest_version,omitempty"`
	TotalVersions    int            `json:"total_versions,omitempty"`
	WeeklyDownloads  int64          `json:"weekly_downloads,omitempty"`
	MonthlyDownloads int64          `json:"monthly_downloads,omitempty"`
	TotalDownloads   int64          `json:"total_downloads,omitempty"`
	RecentDownloads  int64          `json:"recent_downloads,omitempty"`
}

// PackageStats is the outcome of a registry lookup for one repository.
type PackageStats struct {
	Repository     string         `json:"repository"`
	PackageManager PackageManager `json:"package_manager"`
	PackageName    string         `json:"package_name"`
	Stats          RegistryStats  `json:"stats"`
	Status         string         `json:"status"`
}

// NewPackageStats returns a not-found record for owner/repo.
func NewPackageStats(owner, repo string) PackageStats {
	return PackageStats{Repository: owner + "/" + repo, Status: StatusNotFound}
}

// Succeeded reports whether a registry returned data.
func (p *PackageStats) Succeeded() bool {
	return p != nil && p.Status == StatusSuccess
}
