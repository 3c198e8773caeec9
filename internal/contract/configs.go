package contract

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/repovalue/schema"
)

// Default values for configuration.
const (
	DefaultPrecision       = 1
	DefaultResultLimit     = 10
	MaxResultLimit         = 100
	DefaultAddr            = ":8001"
	DefaultGitHubTimeout   = 10 * time.Second
	DefaultRegistryTimeout = 5 * time.Second
	DefaultCacheTTL        = time.Hour
	DefaultCategory        = "general"
)

// DefaultWorkers is the default number of concurrent repository fetches.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ComparableRaw is one market comparable from the config file.
type ComparableRaw struct {
	Name  string  `mapstructure:"name"`
	Value float64 `mapstructure:"value"`
	Stars *int    `mapstructure:"stars"`
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	UseEmojis  bool

	GitHubToken     string // Please use env var as this is plaintext
	GitHubAPIURL    string
	GitHubTimeout   time.Duration
	RegistryTimeout time.Duration

	Method            schema.ValuationMethod
	TeamSize          int
	HourlyRate        float64
	DevelopmentMonths int
	MarketMultiplier  float64
	AnnualRevenue     float64
	Comparables       []schema.Comparable
	Category          string

	Codebase     schema.CodebaseOptions
	WithCodebase bool
	WithPackages bool
	PackageName  string

	Workers     int
	ResultLimit int

	Addr           string
	AllowedOrigins []string
	LogLevel       slog.Level

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Precision       int    `mapstructure:"precision"`
	Width           int    `mapstructure:"width"`
	Color           string `mapstructure:"color"`
	Emoji           string `mapstructure:"emoji"`
	GitHubToken     string `mapstructure:"github-token"`
	GitHubAPIURL    string `mapstructure:"github-api-url"`
	Timeout         string `mapstructure:"timeout"`
	RegistryTimeout string `mapstructure:"registry-timeout"`
	Workers         int    `mapstructure:"workers"`
	CacheBackend    string `mapstructure:"cache-backend"`
	CacheDBConnect  string `mapstructure:"cache-db-connect"`
	CacheTTL        string `mapstructure:"cache-ttl"`

	// --- Fields from valueCmd.Flags() ---
	Method            string  `mapstructure:"method"`
	TeamSize          int     `mapstructure:"team-size"`
	HourlyRate        float64 `mapstructure:"hourly-rate"`
	DevelopmentMonths int     `mapstructure:"development-months"`
	MarketMultiplier  float64 `mapstructure:"market-multiplier"`
	AnnualRevenue     float64 `mapstructure:"annual-revenue"`

	// --- Fields from compareCmd.Flags() ---
	Category string `mapstructure:"category"`

	// --- Fields from codebaseCmd.Flags() and unicornCmd.Flags() ---
	Depth        string `mapstructure:"depth"`
	Include      string `mapstructure:"include"`
	WithCodebase bool   `mapstructure:"with-codebase"`
	WithPackages bool   `mapstructure:"with-packages"`

	// --- Fields from packagesCmd.Flags() ---
	PackageName string `mapstructure:"package-name"`

	// --- Fields from rankCmd.Flags() ---
	Limit int `mapstructure:"limit"`

	// --- Fields from serveCmd.Flags() ---
	Addr           string `mapstructure:"addr"`
	AllowedOrigins string `mapstructure:"allowed-origins"`
	LogLevel       string `mapstructure:"log-level"`

	// --- Market comparables from config file ---
	Comparables []ComparableRaw `mapstructure:"comparables"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Comparables = slices.Clone(c.Comparables)
	clone.AllowedOrigins = slices.Clone(c.AllowedOrigins)
	clone.Codebase.Include = slices.Clone(c.Codebase.Include)
	return &clone
}

// ValuationInputs applies the configured cost-model parameters to a snapshot.
func (c *Config) ValuationInputs(data schema.RepoData) schema.ValuationInputs {
	return schema.ValuationInputs{
		RepoData:          data,
		TeamSize:          c.TeamSize,
		HourlyRate:        c.HourlyRate,
		DevelopmentMonths: c.DevelopmentMonths,
		MarketMultiplier:  c.MarketMultiplier,
	}
}

// NewDefaultConfig returns a validated config built from the flag defaults.
// The MCP and HTTP servers use it when no CLI configuration is available.
func NewDefaultConfig() *Config {
	return &Config{
		Output:            schema.TextOut,
		Precision:         DefaultPrecision,
		UseColors:         true,
		GitHubToken:       os.Getenv("GITHUB_TOKEN"),
		GitHubTimeout:     DefaultGitHubTimeout,
		RegistryTimeout:   DefaultRegistryTimeout,
		Method:            schema.Scorecard,
		TeamSize:          schema.DefaultTeamSize,
		HourlyRate:        schema.DefaultHourlyRate,
		DevelopmentMonths: schema.DefaultDevelopmentMonths,
		MarketMultiplier:  schema.DefaultMarketMultiplier,
		Category:          DefaultCategory,
		Codebase:          schema.DefaultCodebaseOptions(),
		Workers:           DefaultWorkers,
		ResultLimit:       DefaultResultLimit,
		Addr:              DefaultAddr,
		AllowedOrigins:    []string{"*"},
		LogLevel:          slog.LevelInfo,
		CacheBackend:      schema.NoneBackend,
		CacheTTL:          DefaultCacheTTL,
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processGitHubInputs(cfg, input); err != nil {
		return err
	}
	if err := processValuationInputs(cfg, input); err != nil {
		return err
	}
	if err := processCodebaseInputs(cfg, input); err != nil {
		return err
	}
	if err := processServerInputs(cfg, input); err != nil {
		return err
	}
	return ProcessCacheInputs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ProcessCacheInputs validates the cache backend, connection string and TTL.
// Cache commands call it on its own; ProcessAndValidate calls it last.
func ProcessCacheInputs(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.CacheBackend))
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.CacheBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	ttl, err := parsePositiveDuration("cache-ttl", input.CacheTTL, DefaultCacheTTL)
	if err != nil {
		return err
	}
	cfg.CacheTTL = ttl
	return nil
}

// validateSimpleInputs processes and validates the output and concurrency fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit
	return nil
}

// processGitHubInputs resolves the token, API URL and upstream timeouts.
func processGitHubInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.GitHubToken = input.GitHubToken
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	cfg.GitHubAPIURL = strings.TrimSpace(input.GitHubAPIURL)
	if cfg.GitHubAPIURL != "" && !strings.HasPrefix(cfg.GitHubAPIURL, "http://") && !strings.HasPrefix(cfg.GitHubAPIURL, "https://") {
		return fmt.Errorf("github-api-url must start with http:// or https:// (received %q)", cfg.GitHubAPIURL)
	}

	timeout, err := parsePositiveDuration("timeout", input.Timeout, DefaultGitHubTimeout)
	if err != nil {
		return err
	}
	cfg.GitHubTimeout = timeout

	registryTimeout, err := parsePositiveDuration("registry-timeout", input.RegistryTimeout, DefaultRegistryTimeout)
	if err != nil {
		return err
	}
	cfg.RegistryTimeout = registryTimeout
	return nil
}

// processValuationInputs validates the valuation method and cost-model parameters.
func processValuationInputs(cfg *Config, input *ConfigRawInput) error {
	method := strings.ToLower(strings.TrimSpace(input.Method))
	if method == "" {
		method = string(schema.Scorecard)
	}
	cfg.Method = schema.ValuationMethod(method)
	if _, ok := schema.ValidValuationMethods[cfg.Method]; !ok {
		return fmt.Errorf("invalid method '%s'. must be cost_based, market_based, income_based, scorecard, unicorn_hunter", input.Method)
	}

	cfg.TeamSize = input.TeamSize
	cfg.HourlyRate = input.HourlyRate
	cfg.DevelopmentMonths = input.DevelopmentMonths
	cfg.MarketMultiplier = input.MarketMultiplier
	if err := cfg.ValuationInputs(schema.RepoData{}).Validate(); err != nil {
		return err
	}

	if input.AnnualRevenue < 0 {
		return fmt.Errorf("annual-revenue cannot be negative (received %v)", input.AnnualRevenue)
	}
	cfg.AnnualRevenue = input.AnnualRevenue

	cfg.Category = strings.TrimSpace(input.Category)
	if cfg.Category == "" {
		cfg.Category = DefaultCategory
	}

	cfg.Comparables = nil
	for i, raw := range input.Comparables {
		if raw.Value < 0 {
			return fmt.Errorf("comparable %d has a negative value", i)
		}
		c := schema.Comparable{Name: raw.Name, Value: raw.Value, Stars: 1}
		if raw.Stars != nil {
			if *raw.Stars < 0 {
				return fmt.Errorf("comparable %d has negative stars", i)
			}
			c.Stars = *raw.Stars
		}
		cfg.Comparables = append(cfg.Comparables, c)
	}
	return nil
}

// processCodebaseInputs parses the codebase depth and metric categories.
func processCodebaseInputs(cfg *Config, input *ConfigRawInput) error {
	opts, err := schema.ParseCodebaseOptions(input.Depth, SplitList(input.Include))
	if err != nil {
		return err
	}
	cfg.Codebase = opts
	cfg.WithCodebase = input.WithCodebase
	cfg.WithPackages = input.WithPackages
	cfg.PackageName = strings.TrimSpace(input.PackageName)
	return nil
}

// processServerInputs handles the HTTP server address, CORS origins and log level.
func processServerInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Addr = strings.TrimSpace(input.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	cfg.AllowedOrigins = SplitList(input.AllowedOrigins)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	level := strings.TrimSpace(input.LogLevel)
	if level == "" {
		level = "info"
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	return nil
}

// parsePositiveDuration parses a duration flag, using fallback when it is empty.
func parsePositiveDuration(name, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive (received %s)", name, value)
	}
	return d, nil
}
