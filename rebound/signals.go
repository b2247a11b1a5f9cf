package rebound

import (
	"encoding/csv"
	"log"
	"os"
	"slices"
	"sort"
	"strings"
	"time"
)

var preferredSignalColumns = []string{"final_signal", "signal", "sig", "rebound_signal"}

// loadSignalDates reads an externally produced signal table instead of
// running the built-in detector. The first column holds the date; the 0/1
// signal column is inferred by name, falling back to the first column whose
// values are all zeros and ones. Failing to infer a column is fatal since
// the downstream stages have no safe default.
func loadSignalDates(path string, configuration Configuration) []time.Time {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to read CSV file (%s): %v", path, err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Error occurred while reading CSV file (%s): %v", path, err)
	}
	if len(records) == 0 {
		log.Fatalf("CSV file is empty (%s)", path)
	}
	headers := records[0]
	rows := records[1:]
	signalIndex := inferSignalColumn(headers, rows, path)
	dates := []time.Time{}
	for _, row := range rows {
		value, valid := parseSignalValue(row[signalIndex])
		if !valid || value != 1 {
			continue
		}
		date, valid := parseTableDate(row[0])
		if !valid || !inDateRange(date, configuration) {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func (i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

func inferSignalColumn(headers []string, rows [][]string, path string) int {
	for _, name := range preferredSignalColumns {
		for index, header := range headers[1:] {
			if strings.EqualFold(cleanText(header), name) {
				return index + 1
			}
		}
	}
	for index := range headers[1:] {
		if isBinaryColumn(rows, index + 1) {
			return index + 1
		}
	}
	log.Fatalf("Unable to infer the signal column in CSV file (%s), columns: %s", path, strings.Join(headers, ", "))
	return 0
}

func isBinaryColumn(rows [][]string, index int) bool {
	for _, row := range rows {
		value, valid := parseSignalValue(row[index])
		if !valid {
			continue
		}
		if value != 0 && value != 1 {
			return false
		}
	}
	return true
}

func parseSignalValue(s string) (int, bool) {
	s = cleanText(s)
	if s == "" {
		return 0, false
	}
	if slices.Contains([]string{"0", "0.0"}, s) {
		return 0, true
	}
	if slices.Contains([]string{"1", "1.0"}, s) {
		return 1, true
	}
	return -1, true
}
