package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oikotie-analytics/logger"
	"oikotie-analytics/models"
	"oikotie-analytics/storage"
)

// CardSource supplies one run's raw cards. Satisfied by the oikotie client;
// any failure aborts the run.
type CardSource interface {
	Fetch(ctx context.Context) ([]models.RawCard, error)
}

// Runner owns one run of the pipeline: fetch, extract, normalize, compute,
// compare, append, report. All run state lives in the returned RunReport;
// nothing survives between invocations.
type Runner struct {
	log        *logger.Log
	source     CardSource
	extractor  *Extractor
	normalizer *Normalizer
	stats      *StatsEngine
	variation  *VariationCalculator
	store      storage.SummaryStore
}

// NewRunner wires the pipeline together.
func NewRunner(log *logger.Log, source CardSource, store storage.SummaryStore) *Runner {
	return &Runner{
		log:        log,
		source:     source,
		extractor:  NewExtractor(log),
		normalizer: NewNormalizer(log),
		stats:      NewStatsEngine(log),
		variation:  NewVariationCalculator(),
		store:      store,
	}
}

// RunOnce executes a single scheduled run and returns its report. Fetch,
// extraction and normalization failures abort the run; degenerate statistics
// conditions degrade the report instead.
func (r *Runner) RunOnce(ctx context.Context) (*models.RunReport, error) {
	log := r.log.WithComponent("runner")
	now := time.Now()

	cards, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cards: %w", err)
	}

	ds, err := r.extractor.BuildDataset(cards)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}

	if err := r.normalizer.NormalizePrices(ds); err != nil {
		return nil, fmt.Errorf("normalize prices: %w", err)
	}

	report := &models.RunReport{Date: now, ObjectCount: ds.ObjectsCount}

	summary, err := r.stats.Summarize(ds)
	if errors.Is(err, ErrEmptyDataset) {
		// Expected steady state for an empty region: report "no data" and
		// append nothing, since a row without a mean cannot seed variation.
		log.Warn("dataset is empty, skipping statistics and history append")
		report.FirstRun = true
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	report.Summary = summary

	if err := r.stats.ComputePerSqm(ds); err != nil {
		log.Warnf("price per square metre unavailable: %v", err)
	} else if sizes, err := r.stats.AssignQuintiles(ds); err == nil {
		report.QuintileSizes = sizes
	}

	last, err := r.store.LoadLast()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	report.FirstRun = last == nil
	report.Variation = r.variation.Compute(summary.Mean, last, now)

	rec := &models.SummaryRecord{
		Date:          now,
		ObjectCount:   ds.ObjectsCount,
		MeanPrice:     summary.Mean,
		MinPrice:      summary.Min,
		MaxPrice:      summary.Max,
		DailyPct:      report.Variation.DailyPct,
		AnnualizedPct: report.Variation.AnnualizedPct,
	}
	if err := r.store.Append(rec); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	log.Infof("run complete: %d objects, mean %.2f", ds.ObjectsCount, summary.Mean)
	return report, nil
}
