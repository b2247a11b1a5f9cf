package rebound

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

func writeSignalsCsv(records []signalRecord, path string) {
	var builder strings.Builder
	builder.WriteString("date,signal,t_high,t_low,drawdown,max_bounce_in_drop,rebound_from_low,D_t,U_t\n")
	for _, record := range records {
		signal := 0
		if record.signal {
			signal = 1
		}
		builder.WriteString(fmt.Sprintf(
			"%s,%d,%s,%s,%s,%s,%s,%s,%s\n",
			getDateString(record.date),
			signal,
			formatOptionalDate(record.tHigh),
			formatOptionalDate(record.tLow),
			formatOptionalFloat(record.drawdown),
			formatOptionalFloat(record.maxBounceInDrop),
			formatOptionalFloat(record.reboundFromLow),
			formatOptionalFloat(record.dT),
			formatOptionalFloat(record.uT),
		))
	}
	writeFile(path, builder.String())
}

func writeEventsCsv(result eventStudyResult, groupCount int, path string) {
	var builder strings.Builder
	builder.WriteString("entry,exit")
	for k := 0; k < groupCount; k++ {
		builder.WriteString(fmt.Sprintf(",G%d", k + 1))
	}
	builder.WriteString("\n")
	for _, e := range result.events {
		builder.WriteString(getDateString(e.entry))
		builder.WriteString(",")
		builder.WriteString(getDateString(e.exit))
		for _, excess := range e.groups {
			builder.WriteString(",")
			builder.WriteString(formatOptionalFloat(excess))
		}
		builder.WriteString("\n")
	}
	builder.WriteString("mean,")
	for _, excess := range result.summary {
		builder.WriteString(",")
		builder.WriteString(formatOptionalFloat(excess))
	}
	builder.WriteString("\n")
	writeFile(path, builder.String())
}

func writeNavCsv(samples []navSample, path string) {
	var builder strings.Builder
	builder.WriteString("date,nav\n")
	for _, sample := range samples {
		builder.WriteString(fmt.Sprintf("%s,%.6f\n", getDateString(sample.date), sample.value))
	}
	writeFile(path, builder.String())
}

func printSignalSummary(signals []time.Time) {
	fmt.Printf("Number of signals: %d\n", len(signals))
	years, counts := signalYearCounts(signals)
	if len(years) == 0 {
		return
	}
	fmt.Println("Signals per year:")
	for i, year := range years {
		fmt.Printf("\t%d: %d\n", year, counts[i])
	}
}

func printExcessSummary(summary []*float64) {
	fmt.Println("Mean excess return per group:")
	for k, excess := range summary {
		if excess != nil {
			fmt.Printf("\tG%d: %+.4f\n", k + 1, *excess)
		} else {
			fmt.Printf("\tG%d: n/a\n", k + 1)
		}
	}
}

func signalYearCounts(signals []time.Time) ([]int, []int) {
	countMap := map[int]int{}
	for _, date := range signals {
		countMap[date.Year()]++
	}
	years := make([]int, 0, len(countMap))
	for year := range countMap {
		years = append(years, year)
	}
	sort.Ints(years)
	counts := make([]int, len(years))
	for i, year := range years {
		counts[i] = countMap[year]
	}
	return years, counts
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *value)
}

func formatOptionalDate(date *time.Time) string {
	if date == nil {
		return ""
	}
	return getDateString(*date)
}
