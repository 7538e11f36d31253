package services

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"marketcap-etl/models"
	"marketcap-etl/utils"
)

// InsightService computes a small summary over the converted dataset.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Summarize computes count, mean, min and max of the GBP column.
func (s *InsightService) Summarize(converted []models.ConvertedBank) (models.SummaryReport, error) {
	report := models.SummaryReport{Count: len(converted)}
	if len(converted) == 0 {
		return report, nil
	}

	gbp := make([]float64, len(converted))
	for i, b := range converted {
		gbp[i] = b.GBP
	}

	mean, err := stats.Mean(gbp)
	if err != nil {
		return report, fmt.Errorf("insights: mean: %w", err)
	}
	if report.MeanGBP, err = stats.Round(mean, 2); err != nil {
		return report, fmt.Errorf("insights: round: %w", err)
	}
	if report.MinGBP, err = stats.Min(gbp); err != nil {
		return report, fmt.Errorf("insights: min: %w", err)
	}
	if report.MaxGBP, err = stats.Max(gbp); err != nil {
		return report, fmt.Errorf("insights: max: %w", err)
	}
	return report, nil
}

// Print writes the report to stdout.
func (s *InsightService) Print(r models.SummaryReport) {
	thin := strings.Repeat("─", 44)

	fmt.Printf("\n  Market Cap Summary (GBP)\n  %s\n", thin)
	fmt.Printf("  Banks : %d\n", r.Count)
	if r.Count > 0 {
		fmt.Printf("  Mean  : %.2f\n", r.MeanGBP)
		fmt.Printf("  Min   : %.2f\n", r.MinGBP)
		fmt.Printf("  Max   : %.2f\n", r.MaxGBP)
	}
	fmt.Println()
}
