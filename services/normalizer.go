package services

import (
	"regexp"
	"strconv"

	"oikotie-analytics/logger"
	"oikotie-analytics/models"
)

// decimalRegexp splits a price like "1 234,00 €" into its integer part and a
// 1-2 digit decimal part. Longer digit runs after a separator are thousands
// groups, not decimals, and fall through to the digit strip.
var decimalRegexp = regexp.MustCompile(`^(.*\d)[,.](\d{1,2})\D*$`)

// nonDigitRegexp matches everything that is not a decimal digit.
var nonDigitRegexp = regexp.MustCompile(`[^0-9]`)

// Normalizer turns the free-text price column into numbers.
type Normalizer struct {
	log *logger.Log
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(log *logger.Log) *Normalizer {
	return &Normalizer{log: log}
}

// NormalizePrices fills the numeric price column for every listing. A raw
// price with no digits fails the run with an InvalidPriceError; coercing it
// to zero would drag the mean and poison the historical series. The pass is
// idempotent: once a dataset is marked normalized, re-running is a no-op.
func (n *Normalizer) NormalizePrices(ds *models.Dataset) error {
	if ds.Normalized {
		return nil
	}

	for i, l := range ds.Listings {
		price, err := parsePrice(i, l.RawPrice)
		if err != nil {
			return err
		}
		l.Price = price
	}

	ds.Normalized = true
	n.log.WithComponent("normalizer").Debugf("normalized %d prices", len(ds.Listings))
	return nil
}

// parsePrice strips currency symbols, whitespace and thousands separators and
// parses what remains as a base-10 number. A trailing comma or dot with one
// or two digits is the decimal part: "1 234,00 €" parses to 1234.
func parsePrice(row int, raw string) (float64, error) {
	intPart, fracPart := raw, ""
	if m := decimalRegexp.FindStringSubmatch(raw); m != nil {
		intPart, fracPart = m[1], m[2]
	}

	digits := nonDigitRegexp.ReplaceAllString(intPart, "")
	if digits == "" {
		return 0, &InvalidPriceError{Row: row, RawPrice: raw}
	}
	if fracPart != "" {
		digits += "." + fracPart
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, &InvalidPriceError{Row: row, RawPrice: raw}
	}
	return v, nil
}
