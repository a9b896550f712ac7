package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ecom-infographic/internal/errors"
	"ecom-infographic/internal/models"
)

const (
	parseWorkers = 8
	parseChunk   = 2000
)

// csvHeader is the required column layout, in order.
var csvHeader = []string{"date", "region", "channel", "product", "orders", "revenue", "aov"}

// LoadCSV reads the full dataset from path. Any malformed row fails the
// whole load: startup aborts rather than serving a partial dataset.
func LoadCSV(ctx context.Context, path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.DatasetLoadWrap(err, fmt.Sprintf("open dataset %q", path))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.DatasetLoadWrap(err, "read dataset header")
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	if !slices.Equal(header, csvHeader) {
		return nil, errors.DatasetLoad(fmt.Sprintf("unexpected header %v, want %v", header, csvHeader))
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.DatasetLoadWrap(err, "read dataset rows")
	}

	records := make([]models.Transaction, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseWorkers)
	for start := 0; start < len(rows); start += parseChunk {
		end := min(start+parseChunk, len(rows))
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			for i := start; i < end; i++ {
				tx, err := parseRow(rows[i])
				if err != nil {
					// Header is line 1, so data row i is line i+2.
					return errors.DatasetLoadWrap(err, fmt.Sprintf("line %d", i+2))
				}
				records[i] = tx
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewStore(records)
}

func parseRow(row []string) (models.Transaction, error) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(row[0]))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("unparseable date %q: %w", row[0], err)
	}

	region := strings.TrimSpace(row[1])
	if !slices.Contains(models.Regions, region) {
		return models.Transaction{}, fmt.Errorf("unknown region %q", region)
	}
	channel := strings.TrimSpace(row[2])
	if !slices.Contains(models.Channels, channel) {
		return models.Transaction{}, fmt.Errorf("unknown channel %q", channel)
	}
	product := strings.TrimSpace(row[3])
	if !slices.Contains(models.Products, product) {
		return models.Transaction{}, fmt.Errorf("unknown product tier %q", product)
	}

	orders, err := strconv.Atoi(strings.TrimSpace(row[4]))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("non-numeric orders %q: %w", row[4], err)
	}
	if orders < 1 {
		return models.Transaction{}, fmt.Errorf("orders must be positive, got %d", orders)
	}

	revenue, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("non-numeric revenue %q: %w", row[5], err)
	}
	if revenue < 0 {
		return models.Transaction{}, fmt.Errorf("revenue must be non-negative, got %f", revenue)
	}

	aov, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("non-numeric aov %q: %w", row[6], err)
	}

	return models.Transaction{
		Date:    date,
		Region:  region,
		Channel: channel,
		Product: product,
		Orders:  orders,
		Revenue: revenue,
		AOV:     aov,
	}, nil
}
