package schema

// Custom string types for type safety.
type (
	// ComponentKey names one scored dimension of a unicorn result.
	ComponentKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// ValuationMethod selects a valuation calculation.
	ValuationMethod string

	// WeightProfile selects the weight table used by the unicorn aggregator.
	WeightProfile string

	// Tier is the discrete band a unicorn score falls into.
	Tier string

	// AnalysisDepth is the requested depth of a codebase estimate.
	AnalysisDepth string

	// MetricCategory is one section of a codebase estimate.
	MetricCategory string

	// PackageManager identifies a package registry.
	PackageManager string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// Component keys used in the unicorn score.
const (
	CommunityMomentum   ComponentKey = "community_momentum"
	DevelopmentVelocity ComponentKey = "development_velocity"
	TechnologyQuality   ComponentKey = "technology_quality"
	MarketPotential     ComponentKey = "market_potential"
	NetworkEffects      ComponentKey = "network_effects"
	CodeQuality         ComponentKey = "code_quality"
	SecurityPosture     ComponentKey = "security_posture"
)

// AllComponentKeys lists every component in reporting order.
var AllComponentKeys = []ComponentKey{
	CommunityMomentum,
	DevelopmentVelocity,
	TechnologyQuality,
	MarketPotential,
	NetworkEffects,
	CodeQuality,
	SecurityPosture,
}

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All valuation methods supported.
const (
	CostBased     ValuationMethod = "cost_based"
	MarketBased   ValuationMethod = "market_based"
	IncomeBased   ValuationMethod = "income_based"
	Scorecard     ValuationMethod = "scorecard" // default
	UnicornHunter ValuationMethod = "unicorn_hunter"
)

// Weight profiles for the unicorn aggregator.
const (
	BaselineProfile WeightProfile = "baseline"
	EnrichedProfile WeightProfile = "enriched"
)

// Tiers ordered from highest to lowest.
const (
	UnicornTier    Tier = "unicorn"
	SoaringTier    Tier = "soaring"
	RisingStarTier Tier = "rising_star"
	PromisingTier  Tier = "promising"
	EarlyStageTier Tier = "early_stage"
	SeedStageTier  Tier = "seed_stage"
)

// Codebase analysis depths.
const (
	QuickDepth    AnalysisDepth = "quick"
	StandardDepth AnalysisDepth = "standard" // default
	DeepDepth     AnalysisDepth = "deep"
)

// Codebase metric categories.
const (
	ComplexityMetrics    MetricCategory = "complexity"
	QualityMetrics       MetricCategory = "quality"
	TestMetrics          MetricCategory = "tests"
	DependencyMetrics    MetricCategory = "dependencies"
	ArchitectureMetrics  MetricCategory = "architecture"
	DocumentationMetrics MetricCategory = "documentation"
	TechnologyMetrics    MetricCategory = "technology"
	AllMetrics           MetricCategory = "all"
)

// Package registries in lookup priority order.
const (
	NPM   PackageManager = "npm"
	PyPI  PackageManager = "pypi"
	Cargo PackageManager = "cargo"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Status values shared by collaborator records.
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusNotFound = "not_found"
)

// Currency is the unit of every dollar figure.
const Currency = "USD"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidValuationMethods lists all valid valuation methods.
var ValidValuationMethods = map[ValuationMethod]struct{}{
	CostBased:     {},
	MarketBased:   {},
	IncomeBased:   {},
	Scorecard:     {},
	UnicornHunter: {},
}

// ValidAnalysisDepths lists all valid codebase analysis depths.
var ValidAnalysisDepths = map[AnalysisDepth]struct{}{
	QuickDepth:    {},
	StandardDepth: {},
	DeepDepth:     {},
}

// ValidMetricCategories lists all valid codebase metric categories.
var ValidMetricCategories = map[MetricCategory]struct{}{
	ComplexityMetrics:    {},
	QualityMetrics:       {},
	TestMetrics:          {},
	DependencyMetrics:    {},
	ArchitectureMetrics:  {},
	DocumentationMetrics: {},
	TechnologyMetrics:    {},
	AllMetrics:           {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
