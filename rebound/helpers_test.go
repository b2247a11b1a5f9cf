package rebound

import (
	"time"
)

func testDay(offset int) time.Time {
	base := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func testDays(n int) []time.Time {
	dates := make([]time.Time, n)
	for i := 0; i < n; i++ {
		dates[i] = testDay(i)
	}
	return dates
}

func testConfiguration(holdingDays, groupCount int) Configuration {
	minCoverage := defaultMinCoverage
	configuration := Configuration{
		DateMin: SerializableDate{testDay(0)},
		DateMax: SerializableDate{testDay(10000)},
		HoldingDays: holdingDays,
		GroupCount: groupCount,
		MinCoverage: &minCoverage,
	}
	configuration.Detector.applyDefaults()
	return configuration
}

func newTestPanel(dates []time.Time, names []string, close [][]float64) *industryPanel {
	panel := &industryPanel{
		dates: dates,
		names: names,
		close: close,
	}
	panel.derive()
	return panel
}

func defaultDetectorParameters() DetectorParameters {
	parameters := DetectorParameters{}
	parameters.applyDefaults()
	return parameters
}

// scenarioPoints builds an index series with a flat prelude, a clean 60-day
// linear decline of -8% and a +1.5% rebound on the final trading days. The
// daily range keeps the rolling True-Range mean at 1.5%, inside the normal
// volatility band, so the base thresholds apply unscaled.
func scenarioPoints() []pricePoint {
	closes := make([]float64, 148)
	for i := 0; i < 85; i++ {
		closes[i] = 100.0
	}
	for i := 85; i <= 144; i++ {
		closes[i] = 100.0 - 8.0 * float64(i - 84) / 60.0
	}
	rebound := closes[144] * 1.015
	for i := 145; i < 148; i++ {
		closes[i] = rebound
	}
	return pointsFromCloses(closes)
}

func pointsFromCloses(closes []float64) []pricePoint {
	points := make([]pricePoint, len(closes))
	for i, close := range closes {
		point := pricePoint{
			date: testDay(i),
			high: close,
			low: close,
			close: close,
		}
		if i > 0 {
			previous := closes[i - 1]
			point.high = max(close, previous * 1.007)
			point.low = min(close, previous * 0.992)
		}
		points[i] = point
	}
	return points
}
