// Package parquet provides data structures and functions for exporting valuation
// results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repovalue/schema"
	"github.com/parquet-go/parquet-go"
)

// ErrEmptyPath is returned when a Parquet export has nowhere to go.
var ErrEmptyPath = errors.New("parquet output requires an output file")

// RankRow is one leaderboard entry of a rank run.
type RankRow struct {
	// Rank is the 1-based position on the leaderboard
	Rank int32 `parquet:"rank,snappy"`

	// Repository is the owner/repo name
	Repository string `parquet:"repository,snappy"`

	// UnicornScore is the baseline unicorn score in [0,100]
	UnicornScore float64 `parquet:"unicorn_score,snappy"`

	// Tier is the band the score falls into (empty on failure)
	Tier string `parquet:"tier,snappy"`

	// Stars is the stargazer count at analysis time
	Stars int32 `parquet:"stars,snappy"`

	// RealisticValuation is the realistic speculative figure in USD
	RealisticValuation float64 `parquet:"realistic_valuation,snappy"`

	// Error holds the reason a repository could not be scored (nullable)
	Error *string `parquet:"error,optional,snappy"`

	// GeneratedAt is when the leaderboard was produced
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// FieldRow is one labelled figure of a report, flattened for columnar storage.
type FieldRow struct {
	// Report names the command that produced the row (valuation, unicorn, ...)
	Report string `parquet:"report,snappy"`

	// Subject is the repository or query the report is about
	Subject string `parquet:"subject,snappy"`

	// Section groups related fields
	Section string `parquet:"section,snappy"`

	// Field is the figure's label
	Field string `parquet:"field,snappy"`

	// Value is the figure rendered as text
	Value string `parquet:"value,snappy"`

	// Numeric is the figure as a number when it has one (nullable)
	Numeric *float64 `parquet:"numeric,optional,snappy"`

	// GeneratedAt is when the report was produced
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// WriteRows writes a slice of rows to a Parquet file whose schema is inferred from T.
func WriteRows[T any](data []T, outputPath string) error {
	if outputPath == "" {
		return ErrEmptyPath
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ReadRows reads every row of a Parquet file written by WriteRows.
func ReadRows[T any](inputPath string) ([]T, error) {
	rows, err := parquet.ReadFile[T](inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}

// ConvertRanking converts leaderboard rows to Parquet rows stamped with generatedAt.
func ConvertRanking(ranked []schema.RankedRepository, generatedAt time.Time) []RankRow {
	rows := make([]RankRow, 0, len(ranked))
	for _, r := range ranked {
		row := RankRow{
			Rank:               int32(r.Rank),
			Repository:         r.Repository,
			UnicornScore:       r.UnicornScore,
			Tier:               string(r.Tier),
			Stars:              int32(r.Stars),
			RealisticValuation: r.Realistic,
			GeneratedAt:        generatedAt.UTC(),
		}
		if r.Error != "" {
			msg := r.Error
			row.Error = &msg
		}
		rows = append(rows, row)
	}
	return rows
}
