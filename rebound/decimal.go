package rebound

import (
	"log"

	"github.com/shopspring/decimal"
)

func getDecimal(s string, path string) decimal.Decimal {
	value, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatalf("Failed to parse decimal string \"%s\" in CSV file (%s): %v", s, path, err)
	}
	return value
}

func getDecimalFloat(s string, path string) float64 {
	value, _ := getDecimal(s, path).Float64()
	return value
}
