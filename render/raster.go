package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"gonum.org/v1/gonum/spatial/r2"
)

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders the curve as ASCII art for terminal or text-based output"
}

// Render creates an ASCII representation of the closed curve
func (r *ASCIIRenderer) Render(points []r2.Vec, options *OutputOptions) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 points to render, got %d", len(points))
	}

	// Scale down, with an aspect adjustment for character cells being taller
	// than they are wide.
	width := max(int(options.Width/10), 40)
	height := max(int(options.Height/20), 20)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	// Border
	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	fitted := fitToCanvas(points, float64(width-2), float64(height-2), 1)

	toCell := func(p r2.Vec) (int, int) {
		x := clamp(int(p.X)+1, 1, width-2)
		y := clamp(int(p.Y)+1, 1, height-2)
		return x, y
	}

	for i := range fitted {
		x1, y1 := toCell(fitted[i])
		x2, y2 := toCell(fitted[(i+1)%len(fitted)])
		drawLine(grid, x1, y1, x2, y2)
	}

	var buf bytes.Buffer
	for _, row := range grid {
		buf.WriteString(string(row))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// PNGRenderer rasterizes the curve into a PNG image
type PNGRenderer struct{}

// Name returns the name of the renderer
func (r *PNGRenderer) Name() string {
	return "PNG Renderer"
}

// Description returns a description of the renderer
func (r *PNGRenderer) Description() string {
	return "Renders the curve as a rasterized PNG image"
}

// Render creates a PNG representation of the closed curve
func (r *PNGRenderer) Render(points []r2.Vec, options *OutputOptions) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 points to render, got %d", len(points))
	}

	width := int(options.Width)
	height := int(options.Height)
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	bg := hexToColor(options.Background)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, bg)
		}
	}

	fitted := fitToCanvas(points, options.Width, options.Height, options.Margin)
	stroke := hexToColor(options.StrokeColor)

	for i := range fitted {
		p1 := fitted[i]
		p2 := fitted[(i+1)%len(fitted)]
		drawLineRGBA(img, int(p1.X), int(p1.Y), int(p2.X), int(p2.Y), stroke)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Helper functions

// hexToColor parses #rgb or #rrggbb, defaulting to black on invalid input.
func hexToColor(hex string) color.RGBA {
	r, g, b := parseHexColor(hex)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// parseHexColor parses a hex color string into RGB components
func parseHexColor(hex string) (uint8, uint8, uint8) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) == 3 {
		r := parseHexDigit(hex[0])
		g := parseHexDigit(hex[1])
		b := parseHexDigit(hex[2])
		return r * 17, g * 17, b * 17
	} else if len(hex) >= 6 {
		r := parseHexByte(hex[0:2])
		g := parseHexByte(hex[2:4])
		b := parseHexByte(hex[4:6])
		return r, g, b
	}

	return 0, 0, 0
}

func parseHexDigit(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func parseHexByte(s string) uint8 {
	var result uint8
	for i := 0; i < len(s); i++ {
		result = result*16 + parseHexDigit(s[i])
	}
	return result
}

// Clamp a value between min and max
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// drawLine plots a segment on the ASCII grid using Bresenham's algorithm
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	plot := func(x, y int) {
		if x >= 0 && x < len(grid[0]) && y >= 0 && y < len(grid) {
			grid[y][x] = '·'
		}
	}
	bresenham(x1, y1, x2, y2, plot)
}

// drawLineRGBA plots a segment on an RGBA image using Bresenham's algorithm
func drawLineRGBA(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()
	plot := func(x, y int) {
		if image.Pt(x, y).In(bounds) {
			img.SetRGBA(x, y, c)
		}
	}
	bresenham(x1, y1, x2, y2, plot)
}

// bresenham walks the integer line from (x1,y1) to (x2,y2) calling plot for
// every cell.
func bresenham(x1, y1, x2, y2 int, plot func(x, y int)) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		plot(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			if x1 == x2 {
				break
			}
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			if y1 == y2 {
				break
			}
			err += dx
			y1 += sy
		}
	}
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
