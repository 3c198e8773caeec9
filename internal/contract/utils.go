package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/repovalue/schema"
)

// Tier label constants.
const (
	UnicornLabel    = "Unicorn"
	SoaringLabel    = "Soaring"
	RisingStarLabel = "Rising Star"
	PromisingLabel  = "Promising"
	EarlyStageLabel = "Early Stage"
	SeedStageLabel  = "Seed Stage"
)

// Color variables for console output.
var (
	UnicornColor    = color.New(color.FgMagenta, color.Bold) // UnicornColor marks the top band.
	SoaringColor    = color.New(color.FgRed, color.Bold)
	RisingStarColor = color.New(color.FgYellow, color.Bold)
	PromisingColor  = color.New(color.FgYellow)
	EarlyStageColor = color.New(color.FgGreen)
	SeedStageColor  = color.New(color.FgCyan) // SeedStageColor is informational only.
)

var tierLabels = map[schema.Tier]string{
	schema.UnicornTier:    UnicornLabel,
	schema.SoaringTier:    SoaringLabel,
	schema.RisingStarTier: RisingStarLabel,
	schema.PromisingTier:  PromisingLabel,
	schema.EarlyStageTier: EarlyStageLabel,
	schema.SeedStageTier:  SeedStageLabel,
}

// GetPlainLabel returns the human label of a tier. This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainLabel(tier schema.Tier) string {
	if label, ok := tierLabels[tier]; ok {
		return label
	}
	return SeedStageLabel
}

// GetColorLabel returns a colored tier label for console output (table).
func GetColorLabel(tier schema.Tier) string {
	text := GetPlainLabel(tier)

	switch tier {
	case schema.UnicornTier:
		return UnicornColor.Sprint(text)
	case schema.SoaringTier:
		return SoaringColor.Sprint(text)
	case schema.RisingStarTier:
		return RisingStarColor.Sprint(text)
	case schema.PromisingTier:
		return PromisingColor.Sprint(text)
	case schema.EarlyStageTier:
		return EarlyStageColor.Sprint(text)
	default: // seed stage
		return SeedStageColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repovalue_cache.db"
	}
	return filepath.Join(homeDir, ".repovalue_cache.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// SplitList splits a comma-separated flag value, dropping blank items.
func SplitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
