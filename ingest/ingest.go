// Package ingest turns user-supplied point data into starting points for the
// growth simulation. Starting points do not have to come from a generator; a
// path traced by hand and exported as JSON or CSV works just as well, as long
// as the points are ordered along the intended curve.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// PointsProcessor defines the interface that all point-data processors must
// implement.
type PointsProcessor interface {
	// ProcessData takes raw data bytes and returns an ordered sequence of
	// 2D points, in cyclic curve order.
	ProcessData(data []byte) ([]r2.Vec, error)

	// GetName returns the name of the processor
	GetName() string
}

// JSONProcessor handles JSON point data of the form
//
//	{"points": [{"x": 10.0, "y": 0.0}, {"x": 0.0, "y": 10.0}, ...]}
type JSONProcessor struct{}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON point data
func (p *JSONProcessor) ProcessData(data []byte) ([]r2.Vec, error) {
	var doc struct {
		Points []struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"points"`
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	points := make([]r2.Vec, len(doc.Points))
	for i, pt := range doc.Points {
		points[i] = r2.Vec{X: pt.X, Y: pt.Y}
	}

	return validate(points)
}

// CSVProcessor handles CSV point data with one x,y pair per row. A header
// row is skipped when its first field does not parse as a number.
type CSVProcessor struct{}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV point data
func (p *CSVProcessor) ProcessData(data []byte) ([]r2.Vec, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV: %w", err)
	}

	points := make([]r2.Vec, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: expected 2 columns, got %d", i+1, len(record))
		}

		x, errX := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if errX != nil || errY != nil {
			if i == 0 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("row %d: invalid coordinates %q,%q", i+1, record[0], record[1])
		}

		points = append(points, r2.Vec{X: x, Y: y})
	}

	return validate(points)
}

// ProcessFile reads a points file and dispatches on its extension.
func ProcessFile(filename string) ([]r2.Vec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		processor := &JSONProcessor{}
		return processor.ProcessData(data)
	case ".csv":
		processor := &CSVProcessor{}
		return processor.ProcessData(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

// validate rejects point sets the simulation cannot start from.
func validate(points []r2.Vec) ([]r2.Vec, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 starting points, got %d", len(points))
	}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("point %d is not finite", i)
		}
	}
	return points, nil
}
