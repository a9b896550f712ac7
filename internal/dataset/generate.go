package dataset

import (
	"math"
	"math/rand"
	"time"

	"ecom-infographic/internal/models"
)

// GenerateConfig controls the synthetic generator. Identical configs produce
// identical datasets.
type GenerateConfig struct {
	Seed  int64
	Start time.Time
	Days  int
}

// DefaultGenerateConfig covers calendar year 2024 with the reference seed.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Seed:  42,
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:  365,
	}
}

var (
	channelUplift = map[string]float64{
		"Organic": 1.0, "Ads": 1.25, "Affiliate": 1.10, "Referral": 1.05,
	}
	regionUplift = map[string]float64{
		"Jakarta": 1.15, "West Java": 1.05, "Central Java": 0.95,
		"East Java": 1.00, "Bali": 0.90, "Sumatra": 0.92,
	}
	// Basic / Standard / Premium pick weights.
	productWeights = []float64{0.55, 0.32, 0.13}
	priceBands     = map[string][2]int{
		"Basic":    {30_000, 70_000},
		"Standard": {70_000, 150_000},
		"Premium":  {150_000, 350_000},
	}
)

// Generate builds the synthetic 2024 transaction set: 12-30 transactions per
// day with a seasonal signal, a weekend uplift, tiered price bands in IDR,
// and per-channel and per-region multipliers.
func Generate(cfg GenerateConfig) []models.Transaction {
	rng := rand.New(rand.NewSource(cfg.Seed))

	records := make([]models.Transaction, 0, cfg.Days*21)
	for i := 0; i < cfg.Days; i++ {
		day := cfg.Start.AddDate(0, 0, i)
		seasonal := 1.0 + 0.25*(1+math.Sin(2*math.Pi*float64(i)/365))
		weekend := 1.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = 1.15
		}

		n := 12 + rng.Intn(19)
		for j := 0; j < n; j++ {
			region := models.Regions[rng.Intn(len(models.Regions))]
			channel := models.Channels[rng.Intn(len(models.Channels))]
			product := weightedProduct(rng)

			band := priceBands[product]
			price := band[0] + rng.Intn(band[1]-band[0]+1)
			baseOrders := 1 + rng.Intn(3)

			orders := int(math.Round(float64(baseOrders) * seasonal * weekend * channelUplift[channel] * regionUplift[region]))
			if orders < 1 {
				orders = 1
			}
			revenue := float64(orders * price)

			records = append(records, models.Transaction{
				Date:    day,
				Region:  region,
				Channel: channel,
				Product: product,
				Orders:  orders,
				Revenue: revenue,
				AOV:     revenue / float64(orders),
			})
		}
	}
	return records
}

func weightedProduct(rng *rand.Rand) string {
	r := rng.Float64()
	acc := 0.0
	for i, w := range productWeights {
		acc += w
		if r < acc {
			return models.Products[i]
		}
	}
	return models.Products[len(models.Products)-1]
}
