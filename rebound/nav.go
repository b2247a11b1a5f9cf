package rebound

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

type navSample struct {
	date time.Time
	value float64
}

// buildLongShortNav produces the continuously rebalanced long-short NAV
// curve. Days covered by an event window earn the top-minus-bottom group
// spread; all other days earn the equal-weight benchmark. Window membership
// is tested against the previous trading day, preserving the one-day lag
// between deciding a grouping at the entry close and trading it.
func buildLongShortNav(panel *industryPanel, events []event) []navSample {
	dailyReturns := make([]float64, len(panel.dates))
	copy(dailyReturns, panel.benchmark)
	for i := 1; i < len(panel.dates); i++ {
		previousDay := panel.dates[i - 1]
		active, found := activeEvent(events, previousDay)
		if !found {
			continue
		}
		spread, ok := groupSpread(panel, active, i)
		if ok {
			dailyReturns[i] = spread
		}
	}
	samples := make([]navSample, len(panel.dates))
	value := 1.0
	for i, date := range panel.dates {
		returns := dailyReturns[i]
		if math.IsNaN(returns) {
			returns = 0.0
		}
		value *= 1.0 + returns
		samples[i] = navSample{
			date: date,
			value: value,
		}
	}
	return samples
}

// activeEvent finds the event whose window [entry, exit) covers the given
// day; among overlapping windows the latest entry wins. Events must be
// sorted ascending by entry: a binary search locates the latest candidate
// entry and the walk backwards returns the first covering window.
func activeEvent(events []event, day time.Time) (event, bool) {
	last := sort.Search(len(events), func (i int) bool {
		return events[i].entry.After(day)
	}) - 1
	for i := last; i >= 0; i-- {
		if day.Before(events[i].exit) {
			return events[i], true
		}
	}
	return event{}, false
}

// groupSpread is the mean return of the top group minus the mean return of
// the bottom group on the given day, considering only members with a
// defined return. An empty side keeps the benchmark return instead.
func groupSpread(panel *industryPanel, e event, dayIndex int) (float64, bool) {
	long := groupDayReturns(panel, e.groups[len(e.groups) - 1], dayIndex)
	short := groupDayReturns(panel, e.groups[0], dayIndex)
	if len(long) == 0 || len(short) == 0 {
		return 0, false
	}
	return stat.Mean(long, nil) - stat.Mean(short, nil), true
}

func groupDayReturns(panel *industryPanel, members []string, dayIndex int) []float64 {
	values := []float64{}
	for _, name := range members {
		j, exists := panel.nameIndex[name]
		if !exists {
			continue
		}
		value := panel.returns[dayIndex][j]
		if !math.IsNaN(value) {
			values = append(values, value)
		}
	}
	return values
}
