package services

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset signals that a dataset has no rows to summarize. Callers
// treat it as "no data", not as a failure of the run.
var ErrEmptyDataset = errors.New("dataset has no rows")

// MissingFieldError reports a card that lacks an expected field or nested
// block. The dataset must stay rectangular, so one bad card fails the build.
type MissingFieldError struct {
	Row   int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("card %d: missing field %q", e.Row, e.Field)
}

// InvalidPriceError reports a raw price string with no digits to parse.
type InvalidPriceError struct {
	Row      int
	RawPrice string
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("row %d: price %q contains no digits", e.Row, e.RawPrice)
}

// DegenerateInputError reports a listing whose size makes the per-square-metre
// price undefined. Statistics degrade instead of failing the run.
type DegenerateInputError struct {
	Row  int
	Size float64
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("row %d: size %.2f leaves price per square metre undefined", e.Row, e.Size)
}
