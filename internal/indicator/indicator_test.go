package indicator

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// barsFromCloses builds daily bars with the given closes and a one point high/low range.
func barsFromCloses(prices ...float64) []types.MarketData {
	bars := make([]types.MarketData, len(prices))
	for i, price := range prices {
		bars[i] = types.MarketData{
			Symbol: "TEST",
			Time:   baseTime.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}

	return bars
}

// wavySeries returns n bars oscillating around a slow uptrend.
func wavySeries(n int) types.Series {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)/5) + float64(i)*0.1
	}

	bars := barsFromCloses(prices...)
	for i := range bars {
		bars[i].Volume = 1000 + float64(i)
	}

	return types.NewSeries("TEST", bars)
}
