package rebound

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// rampPanel builds a panel where instrument k gains k basis points per day,
// so the entry-day ranking is always I1 < I2 < ... < In.
func rampPanel(days, instruments int) *industryPanel {
	dates := testDays(days)
	names := make([]string, instruments)
	for j := 0; j < instruments; j++ {
		names[j] = fmt.Sprintf("I%d", j + 1)
	}
	close := make([][]float64, days)
	for i := 0; i < days; i++ {
		row := make([]float64, instruments)
		for j := 0; j < instruments; j++ {
			row[j] = 100.0 * pow(1.0 + 0.0001 * float64(j + 1), i)
		}
		close[i] = row
	}
	return newTestPanel(dates, names, close)
}

func pow(base float64, exponent int) float64 {
	value := 1.0
	for e := 0; e < exponent; e++ {
		value *= base
	}
	return value
}

func TestBuildEventsPartition(t *testing.T) {
	panel := rampPanel(40, 12)
	configuration := testConfiguration(10, 5)
	signals := []time.Time{testDay(6)}
	events := buildEvents(signals, panel, configuration)
	require.Len(t, events, 1)
	e := events[0]
	require.Equal(t, testDay(6), e.entry)
	require.Equal(t, testDay(16), e.exit)
	require.Len(t, e.groups, 5)
	seen := map[string]struct{}{}
	total := 0
	for _, group := range e.groups {
		require.NotEmpty(t, group)
		for _, name := range group {
			_, duplicate := seen[name]
			require.False(t, duplicate, "instrument %s appears in two groups", name)
			seen[name] = struct{}{}
		}
		total += len(group)
	}
	require.Equal(t, len(panel.names), total)
	// Ascending ranking: the weakest instrument leads group 1, the
	// strongest closes the last group.
	require.Equal(t, "I1", e.groups[0][0])
	lastGroup := e.groups[len(e.groups) - 1]
	require.Equal(t, "I12", lastGroup[len(lastGroup) - 1])
}

func TestBuildEventsEntryResolution(t *testing.T) {
	panel := rampPanel(40, 6)
	configuration := testConfiguration(10, 3)
	// Signal on a non-trading day resolves to the prior trading day.
	signal := testDay(12).Add(12 * time.Hour)
	events := buildEvents([]time.Time{signal}, panel, configuration)
	require.Len(t, events, 1)
	require.Equal(t, testDay(12), events[0].entry)
}

func TestBuildEventsSameEntryCollapse(t *testing.T) {
	panel := rampPanel(40, 6)
	configuration := testConfiguration(10, 3)
	signals := []time.Time{testDay(8), testDay(8).Add(6 * time.Hour)}
	events := buildEvents(signals, panel, configuration)
	require.Len(t, events, 1)
	require.Equal(t, testDay(8), events[0].entry)
}

func TestBuildEventsSkipsThinCrossSection(t *testing.T) {
	panel := rampPanel(40, 4)
	configuration := testConfiguration(10, 5)
	events := buildEvents([]time.Time{testDay(6)}, panel, configuration)
	require.Empty(t, events)
}

func TestBuildEventsSkipsUnresolvableWindows(t *testing.T) {
	panel := rampPanel(20, 6)
	configuration := testConfiguration(10, 3)
	// Signal before the first trading day cannot resolve an entry; a
	// signal too close to the end cannot resolve an exit.
	signals := []time.Time{testDay(-5), testDay(15)}
	events := buildEvents(signals, panel, configuration)
	require.Empty(t, events)
}

func TestGroupBoundaries(t *testing.T) {
	tests := []struct {
		count int
		groupCount int
		expected []int
	}{
		{count: 10, groupCount: 5, expected: []int{0, 2, 4, 6, 8, 10}},
		{count: 12, groupCount: 5, expected: []int{0, 2, 5, 7, 10, 12}},
		{count: 7, groupCount: 3, expected: []int{0, 2, 5, 7}},
		{count: 5, groupCount: 5, expected: []int{0, 1, 2, 3, 4, 5}},
	}
	for _, test := range tests {
		boundaries := make([]int, test.groupCount + 1)
		for k := 0; k <= test.groupCount; k++ {
			boundaries[k] = groupBoundary(k, test.count, test.groupCount)
		}
		require.Equal(t, test.expected, boundaries)
	}
}
