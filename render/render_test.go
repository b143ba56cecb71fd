package render

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

var testCurve = []r2.Vec{
	{X: 10, Y: 0}, {X: 0, Y: 10}, {X: -10, Y: 0}, {X: 0, Y: -10},
}

func TestGetRenderer(t *testing.T) {
	for _, format := range []string{"svg", "json", "ascii", "png"} {
		r, err := GetRenderer(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, r.Name())
		assert.NotEmpty(t, r.Description())
	}

	_, err := GetRenderer("webgl")
	assert.Error(t, err)
}

func TestSVGRendererClosesThePath(t *testing.T) {
	out, err := (&SVGRenderer{}).Render(testCurve, NewDefaultOptions("svg"))

	require.NoError(t, err)
	svg := string(out)
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, `Z"`)
	assert.NotContains(t, svg, "NaN")
}

func TestSVGRendererRejectsDegenerateCurve(t *testing.T) {
	_, err := (&SVGRenderer{}).Render([]r2.Vec{{X: 1, Y: 1}}, NewDefaultOptions("svg"))
	assert.Error(t, err)
}

func TestSVGRendererShowNodes(t *testing.T) {
	opts := NewDefaultOptions("svg")
	opts.ShowNodes = true

	out, err := (&SVGRenderer{}).Render(testCurve, opts)

	require.NoError(t, err)
	assert.Equal(t, len(testCurve), strings.Count(string(out), "<circle"))
}

func TestJSONRenderer(t *testing.T) {
	out, err := (&JSONRenderer{}).Render(testCurve, NewDefaultOptions("json"))
	require.NoError(t, err)

	var decoded struct {
		Points []struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"points"`
		Closed bool `json:"closed"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.True(t, decoded.Closed)
	require.Len(t, decoded.Points, len(testCurve))
	assert.Equal(t, 10.0, decoded.Points[0].X)
}

func TestASCIIRendererDimensions(t *testing.T) {
	out, err := (&ASCIIRenderer{}).Render(testCurve, NewDefaultOptions("ascii"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Len(t, lines, 30) // 600 / 20
	for i, line := range lines {
		assert.Len(t, []rune(line), 80, "line %d", i) // 800 / 10
	}
	assert.Contains(t, string(out), "·")
}

func TestPNGRendererProducesDecodableImage(t *testing.T) {
	out, err := (&PNGRenderer{}).Render(testCurve, NewDefaultOptions("png"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestFitToCanvasStaysInsideMargins(t *testing.T) {
	fitted := fitToCanvas(testCurve, 800, 600, 20)

	require.Len(t, fitted, len(testCurve))
	for i, p := range fitted {
		assert.GreaterOrEqual(t, p.X, 20.0-1e-9, "point %d", i)
		assert.LessOrEqual(t, p.X, 780.0+1e-9, "point %d", i)
		assert.GreaterOrEqual(t, p.Y, 20.0-1e-9, "point %d", i)
		assert.LessOrEqual(t, p.Y, 580.0+1e-9, "point %d", i)
	}
}

func TestFitToCanvasHandlesCoincidentPoints(t *testing.T) {
	fitted := fitToCanvas([]r2.Vec{{X: 5, Y: 5}, {X: 5, Y: 5}}, 800, 600, 20)

	require.Len(t, fitted, 2)
	assert.InDelta(t, 400, fitted[0].X, 1e-9)
	assert.InDelta(t, 300, fitted[0].Y, 1e-9)
}

func TestParseHexColor(t *testing.T) {
	r, g, b := parseHexColor("#1a237e")
	assert.Equal(t, uint8(0x1a), r)
	assert.Equal(t, uint8(0x23), g)
	assert.Equal(t, uint8(0x7e), b)

	r, g, b = parseHexColor("#fff")
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(255), g)
	assert.Equal(t, uint8(255), b)

	r, g, b = parseHexColor("bogus")
	assert.Equal(t, uint8(0), r+g+b)
}
