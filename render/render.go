// Package render converts mesh state into renderable output: the flat
// geometry buffers streamed to the live viewer every frame, and
// one-shot snapshot renderers for offline inspection.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/TFMV/pulsegraph/models"
)

// RGB is a color with components in [0,1].
type RGB [3]float32

// Palette holds the matte and glow endpoints of the color
// interpolation used to render intensity.
type Palette struct {
	MatteVertex RGB
	GlowVertex  RGB
	MatteEdge   RGB
	GlowEdge    RGB
	Background  RGB
}

// PaletteFromConfig parses the configuration's hex colors.
func PaletteFromConfig(cfg *models.SceneConfig) (*Palette, error) {
	p := &Palette{}
	for _, c := range []struct {
		dst *RGB
		hex string
	}{
		{&p.MatteVertex, cfg.MatteVertexColor},
		{&p.GlowVertex, cfg.GlowVertexColor},
		{&p.MatteEdge, cfg.MatteEdgeColor},
		{&p.GlowEdge, cfg.GlowEdgeColor},
		{&p.Background, cfg.Background},
	} {
		rgb, err := ParseHexColor(c.hex)
		if err != nil {
			return nil, err
		}
		*c.dst = rgb
	}
	return p, nil
}

// lerpRGB interpolates between two colors at fraction t.
func lerpRGB(a, b RGB, t float32) RGB {
	return RGB{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// GeometryBuffers holds the flat position and color arrays the viewer
// consumes: three floats per vertex, and six per edge (two endpoints).
// The buffers are allocated once, sized exactly to the mesh, and
// rewritten in place every frame, so a 60 Hz loop allocates nothing.
type GeometryBuffers struct {
	VertexPositions []float32 `json:"vertex_positions"`
	VertexColors    []float32 `json:"vertex_colors"`
	EdgePositions   []float32 `json:"edge_positions"`
	EdgeColors      []float32 `json:"edge_colors"`
}

// NewGeometryBuffers allocates buffers sized to the mesh's current
// vertex and edge counts.
func NewGeometryBuffers(m *models.Mesh) *GeometryBuffers {
	return &GeometryBuffers{
		VertexPositions: make([]float32, len(m.Vertices)*3),
		VertexColors:    make([]float32, len(m.Vertices)*3),
		EdgePositions:   make([]float32, len(m.Edges)*6),
		EdgeColors:      make([]float32, len(m.Edges)*6),
	}
}

// Project rewrites the buffers from current mesh state. Vertex color is
// the matte color blended toward the glow color by the vertex's
// intensity. Each edge endpoint blends by the larger of the edge's own
// intensity and that endpoint vertex's intensity, so a glowing vertex
// bleeds onto its touching edges even when the edge itself is dark.
// Project has no side effects beyond writing into the buffers and is
// idempotent for unchanged state.
func (b *GeometryBuffers) Project(m *models.Mesh, p *Palette) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		b.VertexPositions[i*3+0] = v.Position.X
		b.VertexPositions[i*3+1] = v.Position.Y
		b.VertexPositions[i*3+2] = v.Position.Z

		c := lerpRGB(p.MatteVertex, p.GlowVertex, v.GlowIntensity)
		b.VertexColors[i*3+0] = c[0]
		b.VertexColors[i*3+1] = c[1]
		b.VertexColors[i*3+2] = c[2]
	}

	for i := range m.Edges {
		e := &m.Edges[i]
		from := &m.Vertices[e.From]
		to := &m.Vertices[e.To]

		b.EdgePositions[i*6+0] = from.Position.X
		b.EdgePositions[i*6+1] = from.Position.Y
		b.EdgePositions[i*6+2] = from.Position.Z
		b.EdgePositions[i*6+3] = to.Position.X
		b.EdgePositions[i*6+4] = to.Position.Y
		b.EdgePositions[i*6+5] = to.Position.Z

		fc := lerpRGB(p.MatteEdge, p.GlowEdge, maxf(e.GlowIntensity, from.GlowIntensity))
		tc := lerpRGB(p.MatteEdge, p.GlowEdge, maxf(e.GlowIntensity, to.GlowIntensity))
		b.EdgeColors[i*6+0] = fc[0]
		b.EdgeColors[i*6+1] = fc[1]
		b.EdgeColors[i*6+2] = fc[2]
		b.EdgeColors[i*6+3] = tc[0]
		b.EdgeColors[i*6+4] = tc[1]
		b.EdgeColors[i*6+5] = tc[2]
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Frame is the wire payload streamed to viewers each tick.
type Frame struct {
	Mesh      string           `json:"mesh"`
	Phase     string           `json:"phase"`
	Timestamp int64            `json:"timestamp"`
	Buffers   *GeometryBuffers `json:"buffers"`
}

// Options defines snapshot rendering configuration.
type Options struct {
	Width       int     // Output width in pixels
	Height      int     // Output height in pixels
	Background  string  // Background color (hex)
	PointRadius float32 // Base vertex radius in pixels
	StrokeWidth float32 // Base edge width in pixels
	Timestamp   bool    // Include timestamp in visualization
}

// NewDefaultOptions creates a default set of snapshot options.
func NewDefaultOptions() *Options {
	return &Options{
		Width:       800,
		Height:      600,
		Background:  "#0B0E14",
		PointRadius: 4.0,
		StrokeWidth: 1.0,
		Timestamp:   true,
	}
}

// Renderer is a one-shot snapshot backend.
type Renderer interface {
	// Render creates a snapshot of current mesh state.
	Render(m *models.Mesh, cam *Camera, p *Palette, options *Options) ([]byte, error)

	// Name returns the name of the renderer.
	Name() string

	// Description returns a description of the renderer.
	Description() string
}

// GetRenderer returns the appropriate renderer based on format.
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONRenderer{}, nil
	case "svg":
		return &SVGRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// JSONRenderer outputs the same frame payload the live stream carries.
type JSONRenderer struct{}

// Name returns the name of the renderer.
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer.
func (r *JSONRenderer) Description() string {
	return "Renders one frame of mesh geometry as JSON for machine consumption"
}

// Render creates a JSON representation of the current frame.
func (r *JSONRenderer) Render(m *models.Mesh, cam *Camera, p *Palette, options *Options) ([]byte, error) {
	buffers := NewGeometryBuffers(m)
	buffers.Project(m, p)

	frame := Frame{
		Mesh:      m.ID,
		Timestamp: time.Now().UnixMilli(),
		Buffers:   buffers,
	}
	return json.MarshalIndent(frame, "", "  ")
}

// SVGRenderer outputs a 2D perspective snapshot of the mesh.
type SVGRenderer struct{}

// Name returns the name of the renderer.
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer.
func (r *SVGRenderer) Description() string {
	return "Renders a perspective-projected snapshot as Scalable Vector Graphics"
}

// Render creates an SVG representation of the current frame. Edges
// draw first so vertices sit on top, matching the live viewer.
func (r *SVGRenderer) Render(m *models.Mesh, cam *Camera, p *Palette, options *Options) ([]byte, error) {
	var buf bytes.Buffer

	w := float32(options.Width)
	h := float32(options.Height)
	buf.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, options.Background))

	for i := range m.Edges {
		e := &m.Edges[i]
		from := &m.Vertices[e.From]
		to := &m.Vertices[e.To]

		x1, y1, ok1 := cam.ToScreen(from.Position, w, h)
		x2, y2, ok2 := cam.ToScreen(to.Position, w, h)
		if !ok1 || !ok2 {
			continue
		}

		intensity := maxf(e.GlowIntensity, maxf(from.GlowIntensity, to.GlowIntensity))
		color := FormatHexColor(lerpRGB(p.MatteEdge, p.GlowEdge, intensity))
		width := options.StrokeWidth * (1 + intensity)

		buf.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>
`, x1, y1, x2, y2, color, width))
	}

	for i := range m.Vertices {
		v := &m.Vertices[i]
		x, y, ok := cam.ToScreen(v.Position, w, h)
		if !ok {
			continue
		}

		color := FormatHexColor(lerpRGB(p.MatteVertex, p.GlowVertex, v.GlowIntensity))
		radius := options.PointRadius * (1 + v.GlowIntensity*0.5)

		buf.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, x, y, radius, color))
	}

	if options.Timestamp {
		timeStr := time.Now().Format("2006-01-02 15:04:05")
		buf.WriteString(fmt.Sprintf(`<text x="5" y="%d" font-family="sans-serif" font-size="8" fill="#808080">%s</text>
`, options.Height-5, timeStr))
	}

	buf.WriteString(`</svg>`)
	return buf.Bytes(), nil
}
