package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
)

// WeightsProfile is one weight table of the metrics render model.
type WeightsProfile struct {
	Profile schema.WeightProfile     `json:"profile"`
	Purpose string                   `json:"purpose"`
	Weights []schema.ComponentWeight `json:"weights"`
	Formula string                   `json:"formula"`
}

// WeightsTier is one tier band of the metrics render model.
type WeightsTier struct {
	Tier     schema.Tier `json:"tier"`
	MinScore float64     `json:"min_score"`
	Status   string      `json:"status"`
	Range    string      `json:"range"`
}

// WeightsFactor is one scorecard factor of the metrics render model.
type WeightsFactor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// WeightsRenderModel describes how unicorn scores and scorecards are computed.
type WeightsRenderModel struct {
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Profiles         []WeightsProfile `json:"profiles"`
	Tiers            []WeightsTier    `json:"tiers"`
	ScorecardFactors []WeightsFactor  `json:"scorecard_factors"`
	MaximumCap       float64          `json:"maximum_cap"`
}

var profilePurposes = map[schema.WeightProfile]string{
	schema.BaselineProfile: "Repository metadata only",
	schema.EnrichedProfile: "Metadata plus a successful codebase analysis",
}

// buildWeightsRenderModel constructs the complete render model from the weight tables.
func buildWeightsRenderModel() *WeightsRenderModel {
	model := &WeightsRenderModel{
		Title:       "Unicorn Scoring Weights",
		Description: "Unicorn score = weighted sum of 0-100 components, clamped to [0,100]",
		MaximumCap:  schema.MaxValuation,
	}
	for _, profile := range schema.AllWeightProfiles {
		weights := schema.GetDefaultWeights(profile)
		model.Profiles = append(model.Profiles, WeightsProfile{
			Profile: profile,
			Purpose: profilePurposes[profile],
			Weights: weights,
			Formula: formatWeights(weights),
		})
	}
	for _, band := range schema.TierBands {
		model.Tiers = append(model.Tiers, WeightsTier{
			Tier:     band.Tier,
			MinScore: band.MinScore,
			Status:   band.Status,
			Range:    band.Range,
		})
	}
	for _, f := range schema.ScorecardFactors {
		model.ScorecardFactors = append(model.ScorecardFactors, WeightsFactor{Name: f.Name, Weight: f.Weight})
	}
	return model
}

// formatWeights formats weights for display in formulas.
func formatWeights(weights []schema.ComponentWeight) string {
	parts := make([]string, 0, len(weights))
	for _, w := range weights {
		parts = append(parts, fmt.Sprintf("%.2f*%s", w.Weight, w.Key))
	}
	return strings.Join(parts, " + ")
}

// WriteWeights displays the weight tables, tier bands and scorecard factors.
// This is a static display that does not require any network access.
func WriteWeights(cfg *contract.Config) error {
	model := buildWeightsRenderModel()

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, model)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeightsCSV(w, model)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeReport(weightsReport(model), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeightsText(w, model, cfg)
		}, "Wrote text")
	}
}

// writeWeightsCSV writes one record per profile component.
func writeWeightsCSV(w io.Writer, model *WeightsRenderModel) error {
	return writeCSVWithHeader(w, []string{"Profile", "Component", "Weight"}, func(cw *csv.Writer) error {
		for _, p := range model.Profiles {
			for _, weight := range p.Weights {
				if err := cw.Write([]string{string(p.Profile), string(weight.Key), formatRatio(weight.Weight)}); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		return nil
	})
}

// weightsReport flattens the render model into report sections.
func weightsReport(model *WeightsRenderModel) *report {
	var sections []section
	for _, p := range model.Profiles {
		s := section{Title: string(p.Profile)}
		for _, cw := range p.Weights {
			s.add(numField(string(cw.Key), cw.Weight, formatRatio(cw.Weight)))
		}
		sections = append(sections, s)
	}
	tiers := section{Title: "tiers"}
	for _, t := range model.Tiers {
		tiers.add(numField(string(t.Tier), t.MinScore, fmt.Sprintf(">= %.0f %s", t.MinScore, t.Range)))
	}
	factors := section{Title: "scorecard"}
	for _, f := range model.ScorecardFactors {
		factors.add(numField(f.Name, f.Weight, formatRatio(f.Weight)))
	}
	return &report{
		Kind:     "weights",
		Title:    model.Title,
		Sections: append(sections, tiers, factors),
		Payload:  model,
	}
}

// writeWeightsText displays the weights in human-readable text format.
func writeWeightsText(w io.Writer, model *WeightsRenderModel, cfg *contract.Config) error {
	title := model.Title
	if cfg.UseEmojis {
		title = "🦄 " + title
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n\n", title, strings.Repeat("=", len(model.Title)+3), model.Description); err != nil {
		return err
	}

	for _, p := range model.Profiles {
		if _, err := fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(string(p.Profile)), p.Purpose); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Formula: Score = %s\n\n", p.Formula); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "Tiers"); err != nil {
		return err
	}
	for _, t := range model.Tiers {
		label := contract.GetPlainLabel(t.Tier)
		if cfg.UseColors {
			label = contract.GetColorLabel(t.Tier)
		}
		if _, err := fmt.Fprintf(w, "   >= %3.0f  %s (%s)\n", t.MinScore, label, t.Range); err != nil {
			return err
		}
	}

	parts := make([]string, 0, len(model.ScorecardFactors))
	for _, f := range model.ScorecardFactors {
		parts = append(parts, fmt.Sprintf("%.2f*%s", f.Weight, f.Name))
	}
	if _, err := fmt.Fprintf(w, "\nScorecard total = %s\n", strings.Join(parts, " + ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Speculative valuations are capped at %s\n", formatDollars(model.MaximumCap)); err != nil {
		return err
	}
	return nil
}
