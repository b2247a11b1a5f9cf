package main

import (
	"flag"
	"rebound/rebound"
)

func main() {
	configPath := flag.String("config", "configuration/configuration.yaml", "Run the downturn-rebound backtest using the specified YAML configuration file")
	flag.Parse()
	rebound.Run(*configPath)
}
