package datasource

import (
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

func getIntervalMinutes(interval Interval) (int, error) {
	var intervalMinutes int

	switch interval {
	case Interval1m:
		intervalMinutes = 1
	case Interval5m:
		intervalMinutes = 5
	case Interval15m:
		intervalMinutes = 15
	case Interval30m:
		intervalMinutes = 30
	case Interval1h:
		intervalMinutes = 60
	case Interval4h:
		intervalMinutes = 240
	case Interval6h:
		intervalMinutes = 360
	case Interval8h:
		intervalMinutes = 480
	case Interval12h:
		intervalMinutes = 720
	case Interval1d:
		intervalMinutes = 1440
	case Interval1w:
		intervalMinutes = 10080
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported interval: %s", interval)
	}

	return intervalMinutes, nil
}

// ParseInterval validates a user supplied interval. The empty string selects raw bars.
func ParseInterval(value string) (Interval, error) {
	interval := Interval(value)
	if interval == IntervalRaw {
		return IntervalRaw, nil
	}

	if _, err := getIntervalMinutes(interval); err != nil {
		return IntervalRaw, err
	}

	return interval, nil
}

// resample aggregates ordered bars into buckets of the given width.
// Open is the first open, close the last close, high/low the extremes and volume the sum.
func resample(bars []types.MarketData, minutes int) []types.MarketData {
	width := time.Duration(minutes) * time.Minute
	result := make([]types.MarketData, 0, len(bars))

	for _, bar := range bars {
		bucket := bar.Time.Truncate(width)

		if n := len(result); n > 0 && result[n-1].Time.Equal(bucket) {
			last := &result[n-1]
			last.High = max(last.High, bar.High)
			last.Low = min(last.Low, bar.Low)
			last.Close = bar.Close
			last.Volume += bar.Volume

			continue
		}

		aggregated := bar
		aggregated.Time = bucket
		result = append(result, aggregated)
	}

	return result
}

// withinLookback keeps the bars no older than lookback before the last bar.
func withinLookback(bars []types.MarketData, lookback time.Duration) []types.MarketData {
	if lookback <= 0 || len(bars) == 0 {
		return bars
	}

	start := bars[len(bars)-1].Time.Add(-lookback)

	for i, bar := range bars {
		if !bar.Time.Before(start) {
			return bars[i:]
		}
	}

	return nil
}
