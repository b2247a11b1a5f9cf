package rebound

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"time"
)

// PanelArchive is the on-disk cache of the cleaned industry panel. Derived
// series are recomputed on load, so the cache never changes results.
type PanelArchive struct {
	Dates []time.Time
	Names []string
	Close [][]float64
}

func readPanelArchive(configuration Configuration) *PanelArchive {
	if configuration.CachePath == nil || configuration.OverwriteCache {
		return nil
	}
	path := *configuration.CachePath
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()
	reader, err := gzip.NewReader(file)
	if err != nil {
		log.Fatalf("Failed to read gzip header from %s: %v", path, err)
	}
	defer reader.Close()
	decoder := gob.NewDecoder(reader)
	var archive PanelArchive
	err = decoder.Decode(&archive)
	if err != nil {
		log.Fatalf("Failed to read decompressed Gob data from %s: %v", path, err)
	}
	return &archive
}

func writePanelArchive(configuration Configuration, panel *industryPanel) {
	if configuration.CachePath == nil {
		return
	}
	path := *configuration.CachePath
	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to write archive to %s: %v", path, err)
	}
	defer file.Close()
	writer := gzip.NewWriter(file)
	defer writer.Close()
	archive := PanelArchive{
		Dates: panel.dates,
		Names: panel.names,
		Close: panel.close,
	}
	encoder := gob.NewEncoder(writer)
	err = encoder.Encode(&archive)
	if err != nil {
		log.Fatal("Failed to encode archive:", err)
	}
	fmt.Printf("Wrote panel archive to %s\n", path)
}
