package rebound

import (
	"math"
	"time"

	"github.com/cheggaaa/pb"
	"gonum.org/v1/gonum/stat"
)

// eventExcess is the evaluated outcome of a single event: per-group excess
// return over the holding window relative to the cross-sectional benchmark.
// A nil group value means the group had no eligible members.
type eventExcess struct {
	entry time.Time
	exit time.Time
	groups []*float64
}

type eventStudyResult struct {
	events []eventExcess
	summary []*float64
}

// runEventStudy evaluates every stored event independently and aggregates
// the column-wise mean excess per group. Events with no usable holding
// window returns are dropped from the output entirely. With zero events
// the result is an empty table and an all-missing summary.
func runEventStudy(events []event, panel *industryPanel, groupCount int) eventStudyResult {
	var evaluated []*eventExcess
	if len(events) > 0 {
		bar := pb.StartNew(len(events))
		evaluated = parallelMap(events, func (e event) *eventExcess {
			excess := evaluateEvent(e, panel)
			bar.Increment()
			return excess
		})
		bar.Finish()
	}
	result := eventStudyResult{
		events: []eventExcess{},
	}
	for _, excess := range evaluated {
		if excess != nil {
			result.events = append(result.events, *excess)
		}
	}
	result.summary = summarizeExcess(result.events, groupCount)
	return result
}

func evaluateEvent(e event, panel *industryPanel) *eventExcess {
	entryIndex, entryExists := panel.dateIndex(e.entry)
	exitIndex, exitExists := panel.dateIndex(e.exit)
	if !entryExists || !exitExists || exitIndex <= entryIndex {
		return nil
	}
	gross := map[string]float64{}
	grossValues := []float64{}
	for j, name := range panel.names {
		entryClose := panel.close[entryIndex][j]
		exitClose := panel.close[exitIndex][j]
		if math.IsNaN(entryClose) || math.IsNaN(exitClose) {
			continue
		}
		returns, ok := getRateOfChange(exitClose, entryClose)
		if !ok {
			continue
		}
		gross[name] = returns
		grossValues = append(grossValues, returns)
	}
	if len(grossValues) == 0 {
		return nil
	}
	benchmark := stat.Mean(grossValues, nil)
	groups := make([]*float64, len(e.groups))
	for k, members := range e.groups {
		memberValues := []float64{}
		for _, name := range members {
			value, exists := gross[name]
			if exists {
				memberValues = append(memberValues, value)
			}
		}
		if len(memberValues) > 0 {
			excess := stat.Mean(memberValues, nil) - benchmark
			groups[k] = &excess
		}
	}
	return &eventExcess{
		entry: e.entry,
		exit: e.exit,
		groups: groups,
	}
}

// summarizeExcess is the column-wise mean over all events, ignoring
// missing values per column. Columns with no values stay missing.
func summarizeExcess(events []eventExcess, groupCount int) []*float64 {
	summary := make([]*float64, groupCount)
	for k := 0; k < groupCount; k++ {
		values := []float64{}
		for _, e := range events {
			if e.groups[k] != nil {
				values = append(values, *e.groups[k])
			}
		}
		if len(values) > 0 {
			mean := stat.Mean(values, nil)
			summary[k] = &mean
		}
	}
	return summary
}
