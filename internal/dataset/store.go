// Package dataset owns the transaction records: generating the synthetic
// 2024 dataset, loading it from CSV, and exposing read-only access for the
// life of the process.
package dataset

import (
	"time"

	"ecom-infographic/internal/errors"
	"ecom-infographic/internal/models"
)

// Store holds the immutable record set. It is loaded once at startup and
// never mutated afterwards.
type Store struct {
	records []models.Transaction
	minDate time.Time
	maxDate time.Time
}

// NewStore wraps a record slice. The slice is owned by the store from here
// on; an empty slice is rejected because no view can render without a date
// domain.
func NewStore(records []models.Transaction) (*Store, error) {
	if len(records) == 0 {
		return nil, errors.DatasetLoad("dataset contains no records")
	}

	min, max := records[0].Date, records[0].Date
	for _, tx := range records[1:] {
		if tx.Date.Before(min) {
			min = tx.Date
		}
		if tx.Date.After(max) {
			max = tx.Date
		}
	}

	return &Store{records: records, minDate: min, maxDate: max}, nil
}

// Records returns the backing slice. Callers must treat it as read-only.
func (s *Store) Records() []models.Transaction {
	return s.records
}

func (s *Store) Len() int {
	return len(s.records)
}

// MinDate is the earliest transaction date in the dataset.
func (s *Store) MinDate() time.Time {
	return s.minDate
}

// MaxDate is the latest transaction date in the dataset.
func (s *Store) MaxDate() time.Time {
	return s.maxDate
}
