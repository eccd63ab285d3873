package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"oikotie-analytics/models"
)

// DateLayout is the timestamp format of the Date column.
const DateLayout = "2006-01-02 15:04:05"

var header = []string{
	"Date", "ObjectCount", "MeanPrice", "MinPrice", "MaxPrice",
	"DailyVariationPct", "AnnualizedVariationPct",
}

// HistoryStore is the append-only CSV record of daily summary statistics.
// Appends are serialized with a mutex; earlier rows are never touched, so
// concurrent readers can trust them.
type HistoryStore struct {
	mu   sync.Mutex
	path string
}

// NewHistoryStore creates a store backed by the CSV file at path. The file
// itself is created lazily on first append.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// LoadLast returns the most recently appended record. A missing file, an
// empty file or a malformed last row all mean "no history available": the
// run proceeds without variation metrics rather than failing.
func (h *HistoryStore) LoadLast() (*models.SummaryRecord, error) {
	records, err := h.LoadAll()
	if err != nil || len(records) == 0 {
		return nil, nil
	}
	return records[len(records)-1], nil
}

// LoadAll reads every parseable record in append order, skipping the header
// and any malformed rows.
func (h *HistoryStore) LoadAll() ([]*models.SummaryRecord, error) {
	f, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("history: open %q: %w", h.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate short rows, parseRow rejects them

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil
	}

	var records []*models.SummaryRecord
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == header[0] {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append adds one record. A fresh store gets the header first; an existing
// one is appended to without rewriting anything.
func (h *HistoryStore) Append(record *models.SummaryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("history: create data dir: %w", err)
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("history: open %q: %w", h.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("history: stat %q: %w", h.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("history: write header: %w", err)
		}
	}

	if err := w.Write(formatRow(record)); err != nil {
		return fmt.Errorf("history: write row: %w", err)
	}

	w.Flush()
	return w.Error()
}

// formatRow serializes one record. Prices are rounded to two decimals here,
// at the reporting boundary; unavailable variation fields stay empty, never
// "0".
func formatRow(rec *models.SummaryRecord) []string {
	return []string{
		rec.Date.Format(DateLayout),
		strconv.Itoa(rec.ObjectCount),
		formatPrice(rec.MeanPrice),
		formatPrice(rec.MinPrice),
		formatPrice(rec.MaxPrice),
		formatOptional(rec.DailyPct),
		formatOptional(rec.AnnualizedPct),
	}
}

func parseRow(row []string) (*models.SummaryRecord, error) {
	if len(row) < 7 {
		return nil, fmt.Errorf("history: row has %d columns, want 7", len(row))
	}

	date, err := time.Parse(DateLayout, row[0])
	if err != nil {
		return nil, fmt.Errorf("history: parse date %q: %w", row[0], err)
	}
	count, err := strconv.Atoi(row[1])
	if err != nil {
		return nil, fmt.Errorf("history: parse object count %q: %w", row[1], err)
	}

	rec := &models.SummaryRecord{Date: date, ObjectCount: count}
	for _, col := range []struct {
		raw string
		dst *float64
	}{
		{row[2], &rec.MeanPrice},
		{row[3], &rec.MinPrice},
		{row[4], &rec.MaxPrice},
	} {
		v, err := strconv.ParseFloat(col.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("history: parse price %q: %w", col.raw, err)
		}
		*col.dst = v
	}

	if rec.DailyPct, err = parseOptional(row[5]); err != nil {
		return nil, err
	}
	if rec.AnnualizedPct, err = parseOptional(row[6]); err != nil {
		return nil, err
	}
	return rec, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func parseOptional(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("history: parse variation %q: %w", raw, err)
	}
	return &v, nil
}
