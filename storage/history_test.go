package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"oikotie-analytics/models"
)

func tempStore(t *testing.T) *HistoryStore {
	t.Helper()
	return NewHistoryStore(filepath.Join(t.TempDir(), "historical_data.csv"))
}

func record(date time.Time, mean float64) *models.SummaryRecord {
	return &models.SummaryRecord{
		Date:        date,
		ObjectCount: 42,
		MeanPrice:   mean,
		MinPrice:    mean / 2,
		MaxPrice:    mean * 2,
	}
}

func TestLoadLastMissingFile(t *testing.T) {
	s := tempStore(t)
	last, err := s.LoadLast()
	if err != nil {
		t.Fatalf("missing store must not be an error: %v", err)
	}
	if last != nil {
		t.Errorf("missing store must yield no history, got %+v", last)
	}
}

func TestAppendRoundTrip(t *testing.T) {
	s := tempStore(t)
	base := time.Date(2026, 8, 1, 8, 30, 0, 0, time.UTC)

	means := []float64{1000, 1050.25, 990.5}
	for i, m := range means {
		if err := s.Append(record(base.AddDate(0, 0, i), m)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != len(means) {
		t.Fatalf("got %d records, want %d", len(records), len(means))
	}
	for i, rec := range records {
		if rec.MeanPrice != means[i] {
			t.Errorf("record %d: mean %v, want %v", i, rec.MeanPrice, means[i])
		}
		if !rec.Date.Equal(base.AddDate(0, 0, i)) {
			t.Errorf("record %d: date %v, want %v", i, rec.Date, base.AddDate(0, 0, i))
		}
	}

	last, err := s.LoadLast()
	if err != nil {
		t.Fatalf("LoadLast: %v", err)
	}
	if last == nil || last.MeanPrice != 990.5 {
		t.Errorf("LoadLast: got %+v, want last appended record", last)
	}
}

func TestHeaderWrittenExactlyOnce(t *testing.T) {
	s := tempStore(t)
	now := time.Date(2026, 8, 1, 8, 30, 0, 0, time.UTC)

	if err := s.Append(record(now, 1000)); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := s.Append(record(now.AddDate(0, 0, 1), 1100)); err != nil {
		t.Fatalf("second append: %v", err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	content := string(raw)

	if !strings.HasPrefix(content, "Date,ObjectCount,MeanPrice,") {
		t.Errorf("file must start with the header row, got %q", strings.SplitN(content, "\n", 2)[0])
	}
	if strings.Count(content, "Date,") != 1 {
		t.Error("header must appear exactly once")
	}
}

func TestAppendDoesNotRewriteEarlierRows(t *testing.T) {
	s := tempStore(t)
	now := time.Date(2026, 8, 1, 8, 30, 0, 0, time.UTC)

	if err := s.Append(record(now, 1000)); err != nil {
		t.Fatalf("first append: %v", err)
	}
	before, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}

	if err := s.Append(record(now.AddDate(0, 0, 1), 1100)); err != nil {
		t.Fatalf("second append: %v", err)
	}
	after, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}

	if !strings.HasPrefix(string(after), string(before)) {
		t.Error("append must leave earlier bytes untouched")
	}
}

func TestUnavailableVariationSerializedEmpty(t *testing.T) {
	s := tempStore(t)
	now := time.Date(2026, 8, 1, 8, 30, 0, 0, time.UTC)

	if err := s.Append(record(now, 1000)); err != nil {
		t.Fatalf("append: %v", err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	dataRow := lines[len(lines)-1]
	if !strings.HasSuffix(dataRow, ",,") {
		t.Errorf("unavailable variation must serialize as empty fields, got %q", dataRow)
	}

	last, err := s.LoadLast()
	if err != nil {
		t.Fatalf("LoadLast: %v", err)
	}
	if last.DailyPct != nil || last.AnnualizedPct != nil {
		t.Error("empty variation fields must load back as unavailable")
	}
}

func TestVariationRoundedAtBoundary(t *testing.T) {
	s := tempStore(t)
	now := time.Date(2026, 8, 1, 8, 30, 0, 0, time.UTC)

	daily := 10.123456
	rec := record(now, 1234.5678)
	rec.DailyPct = &daily

	if err := s.Append(rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	if !strings.Contains(string(raw), "1234.57") {
		t.Errorf("mean must be stored with two decimals, got %q", string(raw))
	}
	if !strings.Contains(string(raw), "10.12") {
		t.Errorf("variation must be stored with two decimals, got %q", string(raw))
	}
}

func TestCorruptStoreMeansNoHistory(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad date", "Date,ObjectCount,MeanPrice,MinPrice,MaxPrice,DailyVariationPct,AnnualizedVariationPct\nnot-a-date,10,1000.00,500.00,2000.00,,\n"},
		{"short row", "Date,ObjectCount,MeanPrice,MinPrice,MaxPrice,DailyVariationPct,AnnualizedVariationPct\n2026-08-01 08:30:00,10\n"},
		{"bad price", "Date,ObjectCount,MeanPrice,MinPrice,MaxPrice,DailyVariationPct,AnnualizedVariationPct\n2026-08-01 08:30:00,10,abc,500.00,2000.00,,\n"},
		{"header only", "Date,ObjectCount,MeanPrice,MinPrice,MaxPrice,DailyVariationPct,AnnualizedVariationPct\n"},
		{"binary noise", "\x00\x01\x02 this is not a csv\n"},
	}

	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "historical_data.csv")
		if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
			t.Fatalf("%s: seed file: %v", tt.name, err)
		}

		s := NewHistoryStore(path)
		last, err := s.LoadLast()
		if err != nil {
			t.Errorf("%s: corrupt store must not be an error: %v", tt.name, err)
		}
		if last != nil {
			t.Errorf("%s: corrupt store must yield no history, got %+v", tt.name, last)
		}
	}
}

func TestCorruptRowAmongValidOnesIsSkipped(t *testing.T) {
	s := tempStore(t)
	now := time.Date(2026, 8, 1, 8, 30, 0, 0, time.UTC)

	if err := s.Append(record(now, 1000)); err != nil {
		t.Fatalf("append: %v", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := f.WriteString("garbage,row,,,,,\n"); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	f.Close()

	last, err := s.LoadLast()
	if err != nil {
		t.Fatalf("LoadLast: %v", err)
	}
	if last == nil || last.MeanPrice != 1000 {
		t.Errorf("malformed trailing row must fall back to the last valid one, got %+v", last)
	}
}
