package models

import "time"

// RawCard is one listing card as the Oikotie API serves it, before field
// extraction. Pointer fields distinguish "absent" from zero values so the
// extractor can reject incomplete cards instead of silently defaulting.
type RawCard struct {
	URL               *string       `json:"url"`
	Rooms             *int          `json:"rooms"`
	RoomConfiguration *string       `json:"roomConfiguration"`
	Price             *string       `json:"price"`
	Published         *string       `json:"published"`
	Size              *float64      `json:"size"`
	Coordinates       *Coordinates  `json:"coordinates"`
	BuildingData      *BuildingData `json:"buildingData"`
}

// Coordinates is the nested location block of a card.
type Coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// BuildingData is the nested building block of a card. Year is the only
// field the API may legitimately leave out.
type BuildingData struct {
	Address  *string `json:"address"`
	District *string `json:"district"`
	City     *string `json:"city"`
	Year     *int    `json:"year"`
}

// CardsResponse is the envelope the cards endpoint returns.
type CardsResponse struct {
	Cards []RawCard `json:"cards"`
}

// Listing is one extracted record. Field order mirrors the dataset column
// schema: url, rooms, roomConfiguration, price, published, size, address,
// district, city, buildYear, latitude, longitude. Immutable after extraction
// except for the derived columns below.
type Listing struct {
	URL               string
	Rooms             int
	RoomConfiguration string
	RawPrice          string
	Published         string
	Size              float64
	Address           string
	District          string
	City              string
	BuildYear         *int
	Latitude          float64
	Longitude         float64

	// Derived columns, filled in by the normalizer and statistics engine.
	Price       float64
	PricePerSqm float64
	Quintile    int
}

// Dataset is the in-memory table for one run. ObjectsCount is a snapshot of
// the listing count at construction time and is never recomputed.
type Dataset struct {
	Listings     []*Listing
	ObjectsCount int

	// Normalized marks the price column as already parsed, making a second
	// normalization pass a no-op.
	Normalized bool
}

// PriceSummary holds the distributional statistics of one run's price column.
// Values are unrounded; rounding happens at the reporting boundary.
type PriceSummary struct {
	Mean float64
	Min  float64
	Max  float64
}

// Variation is the comparison against the last historical record. A nil field
// means "unavailable" (first run, or zero prior mean), which is distinct from
// a zero variation.
type Variation struct {
	DailyPct      *float64
	AnnualizedPct *float64
}

// SummaryRecord is one row of the historical store, appended once per run.
type SummaryRecord struct {
	Date          time.Time
	ObjectCount   int
	MeanPrice     float64
	MinPrice      float64
	MaxPrice      float64
	DailyPct      *float64
	AnnualizedPct *float64
}

// RunReport is everything one run produced, handed to the report renderer.
type RunReport struct {
	Date          time.Time
	ObjectCount   int
	Summary       *PriceSummary // nil when the dataset had no priced rows
	Variation     Variation
	FirstRun      bool
	QuintileSizes []int // population per bucket 0-4; nil when unavailable
}
