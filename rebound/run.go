package rebound

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Run executes the full downturn-rebound backtest: signal detection on the
// index series, event grouping on the industry cross-section, the event
// study and the long-short NAV construction, followed by CSV exports and
// optional plots.
func Run(configPath string) {
	configuration := loadConfiguration(configPath)
	start := time.Now()
	panel := loadIndustryPanel(configuration)
	fmt.Printf(
		"Loaded industry panel: %d instruments, %d trading days\n",
		len(panel.names),
		len(panel.dates),
	)
	var points []pricePoint
	var records []signalRecord
	var signals []time.Time
	if configuration.SignalPath != nil {
		signals = loadSignalDates(*configuration.SignalPath, configuration)
	} else {
		points = loadIndexRecords(configuration)
		records = detectDownturnRebound(points, configuration.Detector)
		signals = signalDates(records)
	}
	printSignalSummary(signals)
	events := buildEvents(signals, panel, configuration)
	fmt.Printf("Number of events: %d\n", len(events))
	study := runEventStudy(events, panel, configuration.GroupCount)
	printExcessSummary(study.summary)
	nav := buildLongShortNav(panel, events)
	if len(nav) > 0 {
		fmt.Printf("Final long-short NAV: %.4f\n", nav[len(nav) - 1].value)
	}
	writeOutputs(configuration, records, study, nav)
	if configuration.EnablePlots {
		renderPlots(configuration, points, signals, study, nav)
	}
	delta := time.Since(start)
	fmt.Printf("Completed backtest in %.2f s\n", delta.Seconds())
}

func writeOutputs(
	configuration Configuration,
	records []signalRecord,
	study eventStudyResult,
	nav []navSample,
) {
	outputPath := configuration.OutputPath
	if outputPath == "" {
		return
	}
	err := os.MkdirAll(outputPath, 0755)
	if err != nil {
		log.Fatalf("Failed to create output directory (%s): %v", outputPath, err)
	}
	if records != nil {
		writeSignalsCsv(records, filepath.Join(outputPath, "signals.csv"))
	}
	writeEventsCsv(study, configuration.GroupCount, filepath.Join(outputPath, "events.csv"))
	writeNavCsv(nav, filepath.Join(outputPath, "nav.csv"))
}

func renderPlots(
	configuration Configuration,
	points []pricePoint,
	signals []time.Time,
	study eventStudyResult,
	nav []navSample,
) {
	outputPath := configuration.OutputPath
	loadPlotFont(configuration)
	if points != nil {
		plotSignalsOnPrice(points, signals, filepath.Join(outputPath, "signals.png"))
	}
	years, counts := signalYearCounts(signals)
	if len(years) > 0 {
		plotSignalYears(years, counts, filepath.Join(outputPath, "signal_years.png"))
	}
	plotGroupExcess(study.summary, filepath.Join(outputPath, "group_excess.png"))
	plotNav(nav, filepath.Join(outputPath, "nav.png"))
}
