package rebound

import (
	"sort"
	"time"
)

type pricePoint struct {
	date time.Time
	high float64
	low float64
	close float64
}

// loadIndexRecords reads the broad market index OHLC series from CSV.
// Duplicate dates are resolved last-wins, the result is sorted ascending
// and restricted to the configured date range.
func loadIndexRecords(configuration Configuration) []pricePoint {
	path := configuration.IndexPath
	columns := []string{"date", "high", "low", "close"}
	pointMap := map[time.Time]pricePoint{}
	readCsv(path, columns, func (values []string) {
		date := getDate(values[0])
		if date.Before(configuration.DateMin.Time) || date.After(configuration.DateMax.Time) {
			return
		}
		pointMap[date] = pricePoint{
			date: date,
			high: getDecimalFloat(values[1], path),
			low: getDecimalFloat(values[2], path),
			close: getDecimalFloat(values[3], path),
		}
	})
	points := make([]pricePoint, 0, len(pointMap))
	for _, point := range pointMap {
		points = append(points, point)
	}
	sort.Slice(points, func (i, j int) bool {
		return points[i].date.Before(points[j].date)
	})
	return points
}
