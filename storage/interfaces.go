package storage

import "oikotie-analytics/models"

// SummaryStore is the persistence contract for the historical record. It is
// append-only: no implementation may rewrite or reorder earlier rows.
type SummaryStore interface {
	// LoadLast returns the most recently appended record, or nil when the
	// store is missing, empty or unreadable — "no history" is never an error.
	LoadLast() (*models.SummaryRecord, error)
	Append(record *models.SummaryRecord) error
}
