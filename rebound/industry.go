package rebound

import (
	"encoding/csv"
	"log"
	"math"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// industryPanel is the cleaned wide close-price table of the industry
// indices plus everything derived from it: daily returns, the equal-weight
// benchmark and the trading calendar.
type industryPanel struct {
	dates []time.Time
	names []string
	close [][]float64
	returns [][]float64
	benchmark []float64
	calendar *tradingCalendar
	nameIndex map[string]int
}

const compactDateLayout = "20060102"

var longFormatColumns = []string{"sec_type_name", "enddate", "closeprice"}

func loadIndustryPanel(configuration Configuration) *industryPanel {
	var panel *industryPanel
	if archive := readPanelArchive(configuration); archive != nil {
		panel = &industryPanel{
			dates: archive.Dates,
			names: archive.Names,
			close: archive.Close,
		}
	} else {
		dates, names, close := readIndustryTable(configuration)
		panel = &industryPanel{
			dates: dates,
			names: names,
			close: close,
		}
		panel.clean(configuration)
		writePanelArchive(configuration, panel)
	}
	panel.derive()
	return panel
}

func readIndustryTable(configuration Configuration) ([]time.Time, []string, [][]float64) {
	path := configuration.IndustryPath
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
	for i, header := range headers {
		headers[i] = cleanText(header)
	}
	headerMap := map[string]int{}
	for index, header := range headers {
		headerMap[strings.ToLower(header)] = index
	}
	isLong := true
	for _, column := range longFormatColumns {
		if _, exists := headerMap[column]; !exists {
			isLong = false
			break
		}
	}
	cells := map[time.Time]map[string]float64{}
	var names []string
	if isLong {
		names = readLongRows(records[1:], headerMap, configuration, cells)
	} else {
		names = readWideRows(records[1:], headers, configuration, cells)
	}
	dates := make([]time.Time, 0, len(cells))
	for date := range cells {
		dates = append(dates, date)
	}
	sort.Slice(dates, func (i, j int) bool {
		return dates[i].Before(dates[j])
	})
	close := make([][]float64, len(dates))
	for i, date := range dates {
		row := make([]float64, len(names))
		for j, name := range names {
			value, exists := cells[date][name]
			if !exists {
				value = math.NaN()
			}
			row[j] = value
		}
		close[i] = row
	}
	return dates, names, close
}

// readLongRows handles the sec_type_name/enddate/closeprice layout, one row
// per instrument and day, pivoted into the wide table. Instrument names are
// ordered lexicographically to keep the pivot deterministic.
func readLongRows(
	records [][]string,
	headerMap map[string]int,
	configuration Configuration,
	cells map[time.Time]map[string]float64,
) []string {
	nameIndex := headerMap[longFormatColumns[0]]
	dateIndex := headerMap[longFormatColumns[1]]
	closeIndex := headerMap[longFormatColumns[2]]
	nameSet := map[string]struct{}{}
	for _, record := range records {
		name := cleanText(record[nameIndex])
		date, valid := parseTableDate(record[dateIndex])
		if name == "" || !valid || !inDateRange(date, configuration) {
			continue
		}
		value, valid := parseCell(record[closeIndex])
		if !valid {
			continue
		}
		row, exists := cells[date]
		if !exists {
			row = map[string]float64{}
			cells[date] = row
		}
		row[name] = value
		nameSet[name] = struct{}{}
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// readWideRows handles the layout with the date in the first column and one
// close-price column per instrument, keeping the file's column order.
func readWideRows(
	records [][]string,
	headers []string,
	configuration Configuration,
	cells map[time.Time]map[string]float64,
) []string {
	names := headers[1:]
	for _, record := range records {
		date, valid := parseTableDate(record[0])
		if !valid || !inDateRange(date, configuration) {
			continue
		}
		row, exists := cells[date]
		if !exists {
			row = map[string]float64{}
			cells[date] = row
		}
		for j, name := range names {
			value, valid := parseCell(record[j + 1])
			if valid {
				row[name] = value
			}
		}
	}
	return names
}

// clean drops the excluded instruments, the benchmark column and every
// instrument whose non-missing coverage falls below the configured ratio.
func (p *industryPanel) clean(configuration Configuration) {
	keep := []int{}
	for j, name := range p.names {
		if slices.Contains(configuration.ExcludeInstruments, name) {
			continue
		}
		if configuration.BenchmarkColumn != "" && name == configuration.BenchmarkColumn {
			continue
		}
		valid := 0
		for i := range p.dates {
			if !math.IsNaN(p.close[i][j]) {
				valid++
			}
		}
		ratio := float64(valid) / float64(len(p.dates))
		if ratio < *configuration.MinCoverage {
			continue
		}
		keep = append(keep, j)
	}
	names := make([]string, len(keep))
	for i, j := range keep {
		names[i] = p.names[j]
	}
	close := make([][]float64, len(p.dates))
	for i := range p.dates {
		row := make([]float64, len(keep))
		for k, j := range keep {
			row[k] = p.close[i][j]
		}
		close[i] = row
	}
	p.names = names
	p.close = close
}

// derive computes daily returns, the equal-weight benchmark and the trading
// calendar. A return is defined only when both adjacent closes are present.
func (p *industryPanel) derive() {
	p.returns = make([][]float64, len(p.dates))
	p.benchmark = make([]float64, len(p.dates))
	for i := range p.dates {
		row := make([]float64, len(p.names))
		valid := []float64{}
		for j := range p.names {
			value := math.NaN()
			if i > 0 {
				returns, ok := getRateOfChange(p.close[i][j], p.close[i - 1][j])
				if ok {
					value = returns
					valid = append(valid, returns)
				}
			}
			row[j] = value
		}
		p.returns[i] = row
		if len(valid) > 0 {
			p.benchmark[i] = stat.Mean(valid, nil)
		} else {
			p.benchmark[i] = math.NaN()
		}
	}
	p.calendar = newTradingCalendar(p.dates)
	p.nameIndex = make(map[string]int, len(p.names))
	for j, name := range p.names {
		p.nameIndex[name] = j
	}
}

func (p *industryPanel) dateIndex(date time.Time) (int, bool) {
	if p.calendar == nil {
		return 0, false
	}
	index, exists := p.calendar.positions[date]
	return index, exists
}

func inDateRange(date time.Time, configuration Configuration) bool {
	return !date.Before(configuration.DateMin.Time) && !date.After(configuration.DateMax.Time)
}

func parseTableDate(s string) (time.Time, bool) {
	s = cleanText(s)
	date, err := time.Parse(compactDateLayout, s)
	if err == nil {
		return date, true
	}
	date, err = time.Parse(dateLayout, s)
	if err == nil {
		return date, true
	}
	return time.Time{}, false
}

func parseCell(s string) (float64, bool) {
	s = cleanText(s)
	if s == "" {
		return 0, false
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	float, _ := value.Float64()
	return float, true
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\t", "")
	s = strings.ReplaceAll(s, "　", "")
	return strings.TrimSpace(s)
}
