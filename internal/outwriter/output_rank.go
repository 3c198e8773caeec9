package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/internal/parquet"
	"github.com/huangsam/repovalue/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRankResults outputs a unicorn leaderboard, dispatching based on the output format configured.
func WriteRankResults(rows []schema.RankedRepository, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, rows)
		}, "Wrote YAML"); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankCSV(w, rows, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRows(parquet.ConvertRanking(rows, time.Now()), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankTable(w, rows, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeRankCSV writes one record per leaderboard row.
func writeRankCSV(w io.Writer, rows []schema.RankedRepository, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "repository", "unicorn_score", "tier", "stars", "realistic_valuation", "error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			record := []string{
				strconv.Itoa(r.Rank),
				r.Repository,
				fmtFloat(r.UnicornScore),
				string(r.Tier),
				fmt.Sprintf(intFmt, r.Stars),
				fmt.Sprintf("%.2f", r.Realistic),
				r.Error,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeRankTable generates and writes the human-readable leaderboard.
func writeRankTable(w io.Writer, rows []schema.RankedRepository, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Repository", "Score", "Tier", "Stars", "Realistic"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxValueWidth(cfg)
	var data [][]string
	failed := 0
	for _, r := range rows {
		if r.Error != "" {
			failed++
			data = append(data, []string{
				strconv.Itoa(r.Rank),
				contract.TruncateText(r.Repository, maxWidth),
				"-",
				contract.TruncateText(r.Error, 30),
				"-",
				"-",
			})
			continue
		}
		tier := contract.GetPlainLabel(r.Tier)
		if cfg.UseColors {
			tier = contract.GetColorLabel(r.Tier)
		}
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			contract.TruncateText(r.Repository, maxWidth),
			fmtFloat(r.UnicornScore),
			tier,
			humanize.Comma(int64(r.Stars)),
			formatDollars(r.Realistic),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing top %d repositories (%d failed)\n", len(rows), failed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Ranking completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
