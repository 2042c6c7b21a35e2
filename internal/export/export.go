// Package export renders aggregation output as the JSON document consumed
// by external frontends (map/chart viewers).
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/powderhq/powder/internal/resort"
	"github.com/powderhq/powder/internal/snowfall"
)

// ResortForecast pairs a resort with its aggregated forecast, historical
// window and any provider failures from the run.
type ResortForecast struct {
	Resort   resort.Resort            `json:"resort"`
	Forecast []snowfall.AggregatedDay `json:"forecast"`
	History  []snowfall.HistoricalDay `json:"history,omitempty"`
	Failures []string                 `json:"failures,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// Document is the top-level export format.
type Document struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Resorts     []ResortForecast `json:"resorts"`
}

// Write marshals the document to path with stable indentation.
func Write(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export document: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write export document: %w", err)
	}
	return nil
}
