package services

import (
	"sort"

	"oikotie-analytics/logger"
	"oikotie-analytics/models"
)

// QuintileCount is the number of price-per-square-metre buckets.
const QuintileCount = 5

// StatsEngine computes the distributional statistics of a normalized dataset.
type StatsEngine struct {
	log *logger.Log
}

// NewStatsEngine creates a StatsEngine with the given logger.
func NewStatsEngine(log *logger.Log) *StatsEngine {
	return &StatsEngine{log: log}
}

// ComputePerSqm fills the price-per-square-metre column. A zero or negative
// size leaves the ratio undefined, so the column fails with a
// DegenerateInputError; the caller degrades the report instead of aborting.
func (s *StatsEngine) ComputePerSqm(ds *models.Dataset) error {
	for i, l := range ds.Listings {
		if l.Size <= 0 {
			return &DegenerateInputError{Row: i, Size: l.Size}
		}
		l.PricePerSqm = l.Price / l.Size
	}
	return nil
}

// Summarize computes mean, min and max of the price column. Values are
// returned unrounded; the reporting boundary rounds. An empty dataset yields
// ErrEmptyDataset.
func (s *StatsEngine) Summarize(ds *models.Dataset) (*models.PriceSummary, error) {
	if len(ds.Listings) == 0 {
		return nil, ErrEmptyDataset
	}

	sum := models.PriceSummary{
		Min: ds.Listings[0].Price,
		Max: ds.Listings[0].Price,
	}
	var total float64
	for _, l := range ds.Listings {
		total += l.Price
		if l.Price < sum.Min {
			sum.Min = l.Price
		}
		if l.Price > sum.Max {
			sum.Max = l.Price
		}
	}
	sum.Mean = total / float64(len(ds.Listings))

	return &sum, nil
}

// AssignQuintiles labels every listing with a bucket 0 (cheapest per m²) to 4
// (most expensive), partitioning the empirical distribution at its 20/40/60/80
// percent edges so bucket populations differ by at most one. Listings with
// equal per-m² prices keep their original row order. Returns the population
// of each bucket.
func (s *StatsEngine) AssignQuintiles(ds *models.Dataset) ([]int, error) {
	n := len(ds.Listings)
	if n == 0 {
		return nil, ErrEmptyDataset
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ds.Listings[order[a]].PricePerSqm < ds.Listings[order[b]].PricePerSqm
	})

	sizes := make([]int, QuintileCount)
	for rank, idx := range order {
		bucket := rank * QuintileCount / n
		ds.Listings[idx].Quintile = bucket
		sizes[bucket]++
	}

	s.log.WithComponent("stats").Debugf("quintile populations: %v", sizes)
	return sizes, nil
}

// Round2 rounds to two decimal places. Applied only where numbers leave the
// pipeline: the report and the historical store.
func Round2(f float64) float64 {
	if f < 0 {
		return float64(int(f*100-0.5)) / 100
	}
	return float64(int(f*100+0.5)) / 100
}
