package rebound

import (
	"math"
	"sort"
	"time"
)

// event is one downturn-rebound event: the entry day anchoring the
// cross-sectional grouping, the exit day closing the holding window and the
// ordered quantile groups (groups[0] holds the weakest trailing returns).
type event struct {
	entry time.Time
	exit time.Time
	groups [][]string
}

type instrumentReturn struct {
	name string
	value float64
}

// buildEvents resolves each signal date to an entry/exit window and ranks
// the cross-section of instrument returns on the entry day into contiguous
// quantile groups. Signals that cannot be resolved are skipped; signals
// resolving to the same entry day overwrite in ascending signal order.
func buildEvents(signals []time.Time, panel *industryPanel, configuration Configuration) []event {
	eventMap := map[time.Time]event{}
	for _, signalDate := range signals {
		entry, ok := panel.calendar.prevTradingDay(signalDate)
		if !ok {
			continue
		}
		entryIndex, ok := panel.dateIndex(entry)
		if !ok {
			continue
		}
		exit, ok := panel.calendar.addTradingDays(entry, configuration.HoldingDays)
		if !ok || !exit.After(entry) {
			continue
		}
		cross := crossSection(panel.returns[entryIndex], panel.names)
		if len(cross) < configuration.GroupCount {
			continue
		}
		sort.SliceStable(cross, func (i, j int) bool {
			return cross[i].value < cross[j].value
		})
		eventMap[entry] = event{
			entry: entry,
			exit: exit,
			groups: sliceGroups(cross, configuration.GroupCount),
		}
	}
	events := make([]event, 0, len(eventMap))
	for _, e := range eventMap {
		events = append(events, e)
	}
	sort.Slice(events, func (i, j int) bool {
		return events[i].entry.Before(events[j].entry)
	})
	return events
}

func crossSection(returns []float64, names []string) []instrumentReturn {
	cross := []instrumentReturn{}
	for j, name := range names {
		if math.IsNaN(returns[j]) {
			continue
		}
		cross = append(cross, instrumentReturn{
			name: name,
			value: returns[j],
		})
	}
	return cross
}

// sliceGroups splits the ranked cross-section into groupCount contiguous
// slices with boundaries round(k * count / groupCount). Slice sizes differ
// by at most one element; the slices are disjoint and exhaustive.
func sliceGroups(cross []instrumentReturn, groupCount int) [][]string {
	count := len(cross)
	groups := make([][]string, groupCount)
	for k := 0; k < groupCount; k++ {
		first := groupBoundary(k, count, groupCount)
		last := groupBoundary(k + 1, count, groupCount)
		members := make([]string, last - first)
		for i := first; i < last; i++ {
			members[i - first] = cross[i].name
		}
		groups[k] = members
	}
	return groups
}

func groupBoundary(k, count, groupCount int) int {
	return int(math.Round(float64(k) * float64(count) / float64(groupCount)))
}
