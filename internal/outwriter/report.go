package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/internal/parquet"
	"github.com/huangsam/repovalue/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// field is one labelled figure of a report.
type field struct {
	Label   string
	Value   string
	Colored string   // console rendering of Value, if any
	Numeric *float64 // set when the figure is a number
}

// section groups the fields rendered as one table.
type section struct {
	Title  string
	Fields []field
}

// report is the render model shared by every single-subject output.
// The payload is what JSON and YAML encode; text, CSV and Parquet use the sections.
type report struct {
	Kind     string
	Emoji    string
	Title    string
	Subject  string
	Sections []section
	Footer   []string
	Payload  any
}

func textField(label, value string) field {
	return field{Label: label, Value: value}
}

func numField(label string, v float64, formatted string) field {
	return field{Label: label, Value: formatted, Numeric: &v}
}

func tierField(tier schema.Tier) field {
	return field{
		Label:   "Tier",
		Value:   contract.GetPlainLabel(tier),
		Colored: contract.GetColorLabel(tier),
	}
}

func (s *section) add(fields ...field) {
	s.Fields = append(s.Fields, fields...)
}

// writeReport outputs a report, dispatching based on the output format configured.
func writeReport(rep *report, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rep.Payload)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, rep.Payload)
		}, "Wrote YAML"); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, rep)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRows(reportRows(rep, time.Now()), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, rep, cfg)
		}, "Wrote table")
	}
	return nil
}

// writeReportCSV flattens every section into section,field,value records.
func writeReportCSV(w io.Writer, rep *report) error {
	return writeCSVWithHeader(w, []string{"Section", "Field", "Value"}, func(cw *csv.Writer) error {
		for _, s := range rep.Sections {
			for _, f := range s.Fields {
				if err := cw.Write([]string{s.Title, f.Label, f.Value}); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		return nil
	})
}

// reportRows converts a report into Parquet field rows.
func reportRows(rep *report, generatedAt time.Time) []parquet.FieldRow {
	var rows []parquet.FieldRow
	for _, s := range rep.Sections {
		for _, f := range s.Fields {
			rows = append(rows, parquet.FieldRow{
				Report:      rep.Kind,
				Subject:     rep.Subject,
				Section:     s.Title,
				Field:       f.Label,
				Value:       f.Value,
				Numeric:     f.Numeric,
				GeneratedAt: generatedAt.UTC(),
			})
		}
	}
	return rows
}

// writeReportText renders each section as a two-column table under a title line.
func writeReportText(w io.Writer, rep *report, cfg *contract.Config) error {
	title := rep.Title
	if cfg.UseEmojis && rep.Emoji != "" {
		title = rep.Emoji + " " + title
	}
	if rep.Subject != "" {
		title = fmt.Sprintf("%s: %s", title, rep.Subject)
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", title); err != nil {
		return err
	}

	maxWidth := getMaxValueWidth(cfg)
	for _, s := range rep.Sections {
		if len(s.Fields) == 0 {
			continue
		}
		table := tablewriter.NewWriter(w)
		table.Header([]string{s.Title, ""})
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignLeft
		})

		data := make([][]string, 0, len(s.Fields))
		for _, f := range s.Fields {
			value := contract.TruncateText(f.Value, maxWidth)
			if cfg.UseColors && f.Colored != "" {
				value = f.Colored
			}
			data = append(data, []string{f.Label, value})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	for _, line := range rep.Footer {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
