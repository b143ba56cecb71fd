// Package render draws the closed curve produced by the growth simulation.
// Renderers are pure consumers of the simulation's point sequence: they
// connect consecutive points and close the loop from the last point back to
// the first.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format      string  // Output format (svg, json, ascii, png)
	Width       float64 // Width of the output canvas
	Height      float64 // Height of the output canvas
	Margin      float64 // Canvas margin the curve is fitted inside
	Background  string  // Background color
	StrokeColor string  // Curve color
	StrokeWidth float64 // Curve line width
	ShowNodes   bool    // Draw a dot at every node
	NodeSize    float64 // Dot radius when ShowNodes is set
	Timestamp   bool    // Include timestamp in the output
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render draws the closed curve through the given points, in order.
	Render(points []r2.Vec, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:      format,
		Width:       800,
		Height:      600,
		Margin:      20,
		Background:  "#f8f8f8",
		StrokeColor: "#1a237e",
		StrokeWidth: 1.5,
		ShowNodes:   false,
		NodeSize:    2.0,
		Timestamp:   true,
	}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "png":
		return &PNGRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// fitToCanvas maps curve coordinates into canvas space, preserving the aspect
// ratio and centering the curve inside the margins. Simulation space has no
// fixed bounds, so every frame is fitted fresh.
func fitToCanvas(points []r2.Vec, width, height, margin float64) []r2.Vec {
	if len(points) == 0 {
		return nil
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	spanX := maxX - minX
	spanY := maxY - minY
	innerW := width - 2*margin
	innerH := height - 2*margin

	scale := 1.0
	if spanX > 0 || spanY > 0 {
		scale = math.Min(innerW/math.Max(spanX, 1e-12), innerH/math.Max(spanY, 1e-12))
	}

	// Center the fitted curve on the canvas.
	offsetX := (width - spanX*scale) / 2
	offsetY := (height - spanY*scale) / 2

	fitted := make([]r2.Vec, len(points))
	for i, p := range points {
		fitted[i] = r2.Vec{
			X: offsetX + (p.X-minX)*scale,
			Y: offsetY + (p.Y-minY)*scale,
		}
	}
	return fitted
}

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the curve as Scalable Vector Graphics (SVG) for high-quality vector output"
}

// Render creates an SVG representation of the closed curve
func (r *SVGRenderer) Render(points []r2.Vec, options *OutputOptions) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 points to render, got %d", len(points))
	}

	fitted := fitToCanvas(points, options.Width, options.Height, options.Margin)

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%f" height="%f" viewBox="0 0 %f %f" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, options.Background))

	if options.Timestamp {
		buf.WriteString(fmt.Sprintf("<!-- rendered %s -->\n", time.Now().Format(time.RFC3339)))
	}

	// The whole curve is a single closed path.
	buf.WriteString(fmt.Sprintf(`<path d="M %f %f`, fitted[0].X, fitted[0].Y))
	for _, p := range fitted[1:] {
		buf.WriteString(fmt.Sprintf(" L %f %f", p.X, p.Y))
	}
	buf.WriteString(fmt.Sprintf(` Z" fill="none" stroke="%s" stroke-width="%f" stroke-linejoin="round"/>
`, options.StrokeColor, options.StrokeWidth))

	if options.ShowNodes {
		for _, p := range fitted {
			buf.WriteString(fmt.Sprintf(`<circle cx="%f" cy="%f" r="%f" fill="%s"/>
`, p.X, p.Y, options.NodeSize, options.StrokeColor))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// JSONRenderer outputs raw JSON format
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the curve as JSON data for machine consumption or custom visualizations"
}

// Render creates a JSON representation of the curve
func (r *JSONRenderer) Render(points []r2.Vec, options *OutputOptions) ([]byte, error) {
	type jsonPoint struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}

	type jsonCurve struct {
		Points   []jsonPoint            `json:"points"`
		Closed   bool                   `json:"closed"`
		Metadata map[string]interface{} `json:"metadata"`
	}

	data := jsonCurve{
		Points: make([]jsonPoint, 0, len(points)),
		Closed: true,
		Metadata: map[string]interface{}{
			"pointCount": len(points),
		},
	}
	if options.Timestamp {
		data.Metadata["timestamp"] = time.Now().Format(time.RFC3339)
	}

	for _, p := range points {
		data.Points = append(data.Points, jsonPoint{X: p.X, Y: p.Y})
	}

	return json.MarshalIndent(data, "", "  ")
}
