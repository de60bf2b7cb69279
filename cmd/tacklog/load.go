package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/tacklog/internal/track"
)

const maxSampleFileSize = 256 * 1024 * 1024

// loadSamples reads a JSON array of samples. Indices are reassigned from
// the array order.
func loadSamples(path string) ([]track.Sample, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("sample file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat sample file: %w", err)
	}
	if info.Size() > maxSampleFileSize {
		return nil, fmt.Errorf("sample file too large: %d bytes (max %d)", info.Size(), maxSampleFileSize)
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample file: %w", err)
	}
	defer f.Close()

	var samples []track.Sample
	if err := json.NewDecoder(f).Decode(&samples); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cleanPath, err)
	}
	for i := range samples {
		samples[i].Index = i
	}
	return samples, nil
}
