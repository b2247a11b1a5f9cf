package rebound

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestDetectDownturnReboundScenario(t *testing.T) {
	points := scenarioPoints()
	records := detectDownturnRebound(points, defaultDetectorParameters())
	require.Len(t, records, len(points))
	signals := signalDates(records)
	require.Len(t, signals, 1)
	require.Equal(t, testDay(145), signals[0])
	record := records[145]
	require.True(t, record.signal)
	require.NotNil(t, record.tHigh)
	require.Equal(t, testDay(84), *record.tHigh)
	require.NotNil(t, record.tLow)
	require.Equal(t, testDay(144), *record.tLow)
	require.InDelta(t, -0.08, *record.drawdown, 1e-9)
	require.InDelta(t, 0.015, *record.reboundFromLow, 1e-9)
	require.InDelta(t, 0.0, *record.maxBounceInDrop, 1e-9)
	require.InDelta(t, -0.05, *record.dT, 1e-9)
	require.InDelta(t, 0.005, *record.uT, 1e-9)
}

func TestSignalRowPopulation(t *testing.T) {
	points := scenarioPoints()
	parameters := defaultDetectorParameters()
	records := detectDownturnRebound(points, parameters)
	for i, record := range records {
		if i < parameters.AtrWindow {
			require.Nil(t, record.dT, "no threshold before a full ATR window at %d", i)
			require.Nil(t, record.uT)
		} else {
			require.NotNil(t, record.dT, "threshold missing at %d", i)
			require.NotNil(t, record.uT)
		}
		if !record.signal {
			require.Nil(t, record.tHigh)
			require.Nil(t, record.tLow)
			require.Nil(t, record.drawdown)
			require.Nil(t, record.maxBounceInDrop)
			require.Nil(t, record.reboundFromLow)
		}
	}
}

func TestVolatilityAdjustment(t *testing.T) {
	tests := []struct {
		name string
		atr float64
		expected float64
	}{
		{name: "inside the band", atr: 0.015, expected: 1.0},
		{name: "lower band edge", atr: 0.01, expected: 1.0},
		{name: "upper band edge", atr: 0.02, expected: 1.0},
		{name: "below the band", atr: 0.005, expected: 0.7071067811865476},
		{name: "above the band", atr: 0.08, expected: 2.0},
		{name: "clipped low", atr: 0.0001, expected: 0.2},
		{name: "clipped high", atr: 1.0, expected: 5.0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.InDelta(t, test.expected, volatilityAdjustment(test.atr, 0.01, 0.02), 1e-12)
		})
	}
}

func TestChoppyDeclineRejected(t *testing.T) {
	// Same drawdown and rebound as the clean scenario, but with a large
	// intermediate rally during the decline.
	points := scenarioPoints()
	closes := make([]float64, len(points))
	for i, point := range points {
		closes[i] = point.close
	}
	closes[115] = closes[110] * 1.02
	records := detectDownturnRebound(pointsFromCloses(closes), defaultDetectorParameters())
	for _, record := range records {
		require.False(t, record.signal)
	}
}

func TestShallowDrawdownRejected(t *testing.T) {
	closes := make([]float64, 148)
	for i := 0; i < 85; i++ {
		closes[i] = 100.0
	}
	for i := 85; i <= 144; i++ {
		closes[i] = 100.0 - 3.0 * float64(i - 84) / 60.0
	}
	for i := 145; i < 148; i++ {
		closes[i] = closes[144] * 1.015
	}
	records := detectDownturnRebound(pointsFromCloses(closes), defaultDetectorParameters())
	require.Empty(t, signalDates(records))
}

func TestDetectorInvariants_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	detectorParameters := DetectorParameters{
		AtrWindow: 5,
		LookbackPeak: 6,
		LookbackTrough: 3,
		Cooldown: 4,
		BounceTol: 2.0,
		D0: -0.02,
		U0: 0.002,
		LowVol: 0.005,
		HighVol: 0.05,
	}

	properties.Property("cooldown spacing and threshold signs hold on random walks", prop.ForAll(
		func(closes []float64) bool {
			records := detectDownturnRebound(pointsFromCloses(closes), detectorParameters)
			previous := -1
			for i, record := range records {
				if record.dT != nil {
					adjustment := *record.dT / detectorParameters.D0
					if *record.dT >= 0 || *record.uT <= 0 {
						return false
					}
					if adjustment < minVolAdjustment - 1e-12 || adjustment > maxVolAdjustment + 1e-12 {
						return false
					}
				}
				if record.signal {
					if previous >= 0 && i - previous < detectorParameters.Cooldown {
						return false
					}
					previous = i
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(50.0, 150.0)),
	))

	properties.TestingRun(t)
}
