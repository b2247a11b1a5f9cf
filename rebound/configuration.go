package rebound

import (
	"log"

	"gopkg.in/yaml.v3"
)

type Configuration struct {
	DateMin SerializableDate `yaml:"dateMin"`
	DateMax SerializableDate `yaml:"dateMax"`
	IndexPath string `yaml:"indexPath"`
	IndustryPath string `yaml:"industryPath"`
	SignalPath *string `yaml:"signalPath"`
	CachePath *string `yaml:"cachePath"`
	OverwriteCache bool `yaml:"overwriteCache"`
	OutputPath string `yaml:"outputPath"`
	EnablePlots bool `yaml:"enablePlots"`
	FontPath string `yaml:"fontPath"`
	FontName string `yaml:"fontName"`
	HoldingDays int `yaml:"holdingDays"`
	GroupCount int `yaml:"groupCount"`
	ExcludeInstruments []string `yaml:"excludeInstruments"`
	BenchmarkColumn string `yaml:"benchmarkColumn"`
	MinCoverage *float64 `yaml:"minCoverage"`
	Detector DetectorParameters `yaml:"detector"`
}

type DetectorParameters struct {
	AtrWindow int `yaml:"atrWindow"`
	LookbackPeak int `yaml:"lookbackPeak"`
	LookbackTrough int `yaml:"lookbackTrough"`
	Cooldown int `yaml:"cooldown"`
	BounceTol float64 `yaml:"bounceTol"`
	D0 float64 `yaml:"d0"`
	U0 float64 `yaml:"u0"`
	LowVol float64 `yaml:"lowVol"`
	HighVol float64 `yaml:"highVol"`
}

const defaultHoldingDays = 20
const defaultGroupCount = 5
const defaultMinCoverage = 0.90

func loadConfiguration(path string) Configuration {
	yamlData := readFile(path)
	configuration := new(Configuration)
	err := yaml.Unmarshal(yamlData, configuration)
	if err != nil {
		log.Fatal("Failed to unmarshal YAML:", err)
	}
	configuration.applyDefaults()
	configuration.validate()
	return *configuration
}

func (c *Configuration) applyDefaults() {
	if c.HoldingDays == 0 {
		c.HoldingDays = defaultHoldingDays
	}
	if c.GroupCount == 0 {
		c.GroupCount = defaultGroupCount
	}
	if c.MinCoverage == nil {
		minCoverage := defaultMinCoverage
		c.MinCoverage = &minCoverage
	}
	c.Detector.applyDefaults()
}

func (p *DetectorParameters) applyDefaults() {
	if p.AtrWindow == 0 {
		p.AtrWindow = 60
	}
	if p.LookbackPeak == 0 {
		p.LookbackPeak = 60
	}
	if p.LookbackTrough == 0 {
		p.LookbackTrough = 20
	}
	if p.Cooldown == 0 {
		p.Cooldown = 10
	}
	if p.BounceTol == 0 {
		p.BounceTol = 2.0
	}
	if p.D0 == 0 {
		p.D0 = -0.05
	}
	if p.U0 == 0 {
		p.U0 = 0.005
	}
	if p.LowVol == 0 {
		p.LowVol = 0.01
	}
	if p.HighVol == 0 {
		p.HighVol = 0.02
	}
}

func (c *Configuration) validate() {
	if !c.DateMin.Before(c.DateMax.Time) {
		format := "Invalid dates in configuration: dateMin = %s, dateMax = %s"
		log.Fatalf(format, getDateString(c.DateMin.Time), getDateString(c.DateMax.Time))
	}
	if c.IndexPath == "" && c.SignalPath == nil {
		log.Fatal("Either indexPath or signalPath must be set")
	}
	if c.IndustryPath == "" {
		log.Fatal("No industry close price table configured")
	}
	if c.HoldingDays < 1 {
		log.Fatalf("Invalid holding period: %d", c.HoldingDays)
	}
	if c.GroupCount < 2 {
		log.Fatalf("Invalid group count: %d", c.GroupCount)
	}
	if *c.MinCoverage < 0.0 || *c.MinCoverage > 1.0 {
		log.Fatalf("Invalid minimum coverage ratio: %.2f", *c.MinCoverage)
	}
	c.Detector.validate()
}

func (p *DetectorParameters) validate() {
	if p.AtrWindow < 1 || p.LookbackPeak < 1 || p.LookbackTrough < 1 {
		log.Fatalf(
			"Invalid detector windows (atrWindow = %d, lookbackPeak = %d, lookbackTrough = %d)",
			p.AtrWindow,
			p.LookbackPeak,
			p.LookbackTrough,
		)
	}
	if p.Cooldown < 1 {
		log.Fatalf("Invalid cooldown: %d", p.Cooldown)
	}
	if p.BounceTol <= 0 {
		log.Fatalf("Invalid bounce tolerance: %.2f", p.BounceTol)
	}
	if p.D0 >= 0 {
		log.Fatalf("The drawdown threshold d0 must be negative, got %.4f", p.D0)
	}
	if p.U0 <= 0 {
		log.Fatalf("The rebound threshold u0 must be positive, got %.4f", p.U0)
	}
	if p.LowVol <= 0 || p.HighVol < p.LowVol {
		log.Fatalf("Invalid volatility band (lowVol = %.4f, highVol = %.4f)", p.LowVol, p.HighVol)
	}
}
