package rebound

import (
	"math"
	"time"

	"github.com/gammazero/deque"
)

// signalRecord is one row of the detector output, one per trading day of
// the index series. Threshold fields are set once enough history exists;
// the remaining fields are only set on rows that carry a signal.
type signalRecord struct {
	date time.Time
	signal bool
	tHigh *time.Time
	tLow *time.Time
	drawdown *float64
	maxBounceInDrop *float64
	reboundFromLow *float64
	dT *float64
	uT *float64
}

const minVolAdjustment = 0.2
const maxVolAdjustment = 5.0

// detectDownturnRebound scans the index series for drawdown-then-rebound
// patterns using volatility-scaled thresholds and a cooldown between
// signals. The output is a fully preallocated row per input day; each row
// depends only on rows before it.
func detectDownturnRebound(points []pricePoint, parameters DetectorParameters) []signalRecord {
	records := make([]signalRecord, len(points))
	for i, point := range points {
		records[i].date = point.date
	}
	setThresholds(points, parameters, records)
	startIndex := max(parameters.AtrWindow, parameters.LookbackPeak + parameters.LookbackTrough)
	lastSignal := -1
	for i := startIndex; i < len(points); i++ {
		if lastSignal >= 0 && i - lastSignal < parameters.Cooldown {
			continue
		}
		record := &records[i]
		if record.dT == nil || record.uT == nil {
			continue
		}
		dT := *record.dT
		uT := *record.uT
		posLow := argminClose(points, i - parameters.LookbackTrough, i)
		posHigh := argmaxClose(points, max(0, posLow - parameters.LookbackPeak), posLow)
		drawdown := points[posLow].close / points[posHigh].close - 1.0
		if drawdown > dT {
			continue
		}
		if posLow - posHigh < 1 {
			continue
		}
		maxBounce := maxBounceInSegment(points, posHigh, posLow)
		if maxBounce > parameters.BounceTol * uT {
			continue
		}
		rebound := points[i].close / points[posLow].close - 1.0
		if rebound < uT {
			continue
		}
		record.signal = true
		record.tHigh = &points[posHigh].date
		record.tLow = &points[posLow].date
		record.drawdown = &drawdown
		record.maxBounceInDrop = &maxBounce
		record.reboundFromLow = &rebound
		lastSignal = i
	}
	return records
}

// setThresholds fills D_t/U_t for every row with a full ATR window of
// prior True-Range observations. The rolling mean is maintained in a deque
// with a running sum.
func setThresholds(points []pricePoint, parameters DetectorParameters, records []signalRecord) {
	var window deque.Deque[float64]
	sum := 0.0
	for i := 1; i < len(points); i++ {
		trueRange := trueRangePercent(points[i], points[i - 1].close)
		window.PushBack(trueRange)
		sum += trueRange
		if window.Len() > parameters.AtrWindow {
			sum -= window.PopFront()
		}
		if window.Len() == parameters.AtrWindow {
			atr := sum / float64(parameters.AtrWindow)
			adjustment := volatilityAdjustment(atr, parameters.LowVol, parameters.HighVol)
			dT := parameters.D0 * adjustment
			uT := parameters.U0 * adjustment
			records[i].dT = &dT
			records[i].uT = &uT
		}
	}
}

func trueRangePercent(point pricePoint, previousClose float64) float64 {
	highLow := (point.high - point.low) / previousClose
	highClose := math.Abs(point.high - previousClose) / previousClose
	closeLow := math.Abs(previousClose - point.low) / previousClose
	return max(highLow, highClose, closeLow)
}

func volatilityAdjustment(atr, lowVol, highVol float64) float64 {
	adjustment := 1.0
	if atr < lowVol {
		adjustment = math.Sqrt(atr / lowVol)
	} else if atr > highVol {
		adjustment = math.Sqrt(atr / highVol)
	}
	return min(max(adjustment, minVolAdjustment), maxVolAdjustment)
}

// argminClose returns the position of the minimum close in [first, last],
// ties resolved towards the earliest day.
func argminClose(points []pricePoint, first, last int) int {
	position := first
	for i := first + 1; i <= last; i++ {
		if points[i].close < points[position].close {
			position = i
		}
	}
	return position
}

func argmaxClose(points []pricePoint, first, last int) int {
	position := first
	for i := first + 1; i <= last; i++ {
		if points[i].close > points[position].close {
			position = i
		}
	}
	return position
}

// maxBounceInSegment measures the largest rally off the running minimum
// within the decline from the peak to the trough.
func maxBounceInSegment(points []pricePoint, posHigh, posLow int) float64 {
	runningMin := points[posHigh].close
	maxBounce := 0.0
	for i := posHigh; i <= posLow; i++ {
		runningMin = min(runningMin, points[i].close)
		bounce := points[i].close / runningMin - 1.0
		maxBounce = max(maxBounce, bounce)
	}
	return maxBounce
}

func signalDates(records []signalRecord) []time.Time {
	dates := []time.Time{}
	for _, record := range records {
		if record.signal {
			dates = append(dates, record.date)
		}
	}
	return dates
}
