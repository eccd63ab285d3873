package services

import (
	"math"
	"time"

	"oikotie-analytics/models"
)

// VariationCalculator derives day-over-day and annualized price variation
// from the last historical record.
type VariationCalculator struct{}

// NewVariationCalculator creates a VariationCalculator.
func NewVariationCalculator() *VariationCalculator {
	return &VariationCalculator{}
}

// Compute compares the current mean price against the last record. With no
// prior record, or a prior mean of zero, both metrics are unavailable (nil),
// never zero and never an error. Values are unrounded; the reporting boundary
// rounds.
func (v *VariationCalculator) Compute(currentMean float64, last *models.SummaryRecord, now time.Time) models.Variation {
	if last == nil || last.MeanPrice == 0 {
		return models.Variation{}
	}

	daily := (currentMean - last.MeanPrice) / last.MeanPrice * 100

	// Whole days between runs, clamped to at least 1 so the annualization
	// exponent stays finite. Two runs on the same day count as one day
	// apart; that approximation is part of the contract.
	days := int(now.Sub(last.Date).Hours() / 24)
	if days < 1 {
		days = 1
	}

	growth := currentMean / last.MeanPrice
	annualized := (math.Pow(growth, 365/float64(days)) - 1) * 100

	return models.Variation{DailyPct: &daily, AnnualizedPct: &annualized}
}
