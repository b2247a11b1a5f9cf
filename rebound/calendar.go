package rebound

import (
	"sort"
	"time"
)

// tradingCalendar maps arbitrary dates onto the trading-day sequence of the
// industry panel. It is constructed once and shared read-only by the
// grouping, event study and NAV stages.
type tradingCalendar struct {
	dates []time.Time
	positions map[time.Time]int
}

func newTradingCalendar(dates []time.Time) *tradingCalendar {
	positions := make(map[time.Time]int, len(dates))
	for i, date := range dates {
		positions[date] = i
	}
	return &tradingCalendar{
		dates: dates,
		positions: positions,
	}
}

// prevTradingDay returns the date itself if it is a trading day, otherwise
// the latest trading day strictly before it. The second return value is
// false if no such day exists.
func (c *tradingCalendar) prevTradingDay(date time.Time) (time.Time, bool) {
	if _, exists := c.positions[date]; exists {
		return date, true
	}
	i := sort.Search(len(c.dates), func (i int) bool {
		return c.dates[i].After(date)
	}) - 1
	if i < 0 {
		return time.Time{}, false
	}
	return c.dates[i], true
}

// addTradingDays offsets an exact trading day by a number of positions.
// The second return value is false if the date is not a trading day or the
// target position falls outside the calendar.
func (c *tradingCalendar) addTradingDays(date time.Time, offset int) (time.Time, bool) {
	position, exists := c.positions[date]
	if !exists {
		return time.Time{}, false
	}
	i := position + offset
	if i < 0 || i >= len(c.dates) {
		return time.Time{}, false
	}
	return c.dates[i], true
}
