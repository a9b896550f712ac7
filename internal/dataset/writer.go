package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ecom-infographic/internal/models"
)

// WriteCSV persists records to path in the loader's column layout.
// Intermediate directories are created automatically.
func WriteCSV(path string, records []models.Transaction) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}

	if err := WriteCSVTo(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteCSVTo streams records as CSV, header first. It also backs the
// /dataset.csv endpoint, so static-file consumers see the same bytes the
// loader accepts.
func WriteCSVTo(w io.Writer, records []models.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, tx := range records {
		row := []string{
			tx.Date.Format(time.DateOnly),
			tx.Region,
			tx.Channel,
			tx.Product,
			strconv.Itoa(tx.Orders),
			strconv.FormatFloat(tx.Revenue, 'f', -1, 64),
			strconv.FormatFloat(tx.AOV, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
