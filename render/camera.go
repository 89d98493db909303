package render

import (
	"github.com/chewxy/math32"

	"github.com/TFMV/pulsegraph/models"
)

// Camera is a perspective camera positioned on the +Z axis looking at
// the origin, matching the live viewer's setup. It tolerates degenerate
// viewport dimensions: a zero width or height leaves the aspect ratio
// untouched rather than dividing by zero.
type Camera struct {
	FOV      float32 // Vertical field of view in degrees
	Near     float32
	Distance float32 // Camera distance from the origin along +Z

	aspect float32
	width  int
	height int
}

// NewCamera creates a camera with the given field of view and viewport.
func NewCamera(fov float32, width, height int) *Camera {
	c := &Camera{
		FOV:      fov,
		Near:     0.1,
		Distance: 40.0,
		aspect:   1.0,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport records the render-surface size and updates the aspect
// ratio. Zero or negative dimensions are recorded but leave the aspect
// unchanged.
func (c *Camera) SetViewport(width, height int) {
	c.width = width
	c.height = height
	if width > 0 && height > 0 {
		c.aspect = float32(width) / float32(height)
	}
}

// Aspect returns the current aspect ratio.
func (c *Camera) Aspect() float32 {
	return c.aspect
}

// Viewport returns the recorded render-surface size.
func (c *Camera) Viewport() (width, height int) {
	return c.width, c.height
}

// ToScreen projects a world-space point to pixel coordinates on a
// surface of the given size. The boolean is false for points behind
// the near plane.
func (c *Camera) ToScreen(p models.Vec3, width, height float32) (x, y float32, visible bool) {
	depth := c.Distance - p.Z
	if depth <= c.Near {
		return 0, 0, false
	}

	f := 1 / math32.Tan(c.FOV*math32.Pi/180/2)
	ndcX := p.X * f / c.aspect / depth
	ndcY := p.Y * f / depth

	// Screen Y grows downward.
	return (ndcX*0.5 + 0.5) * width, (0.5 - ndcY*0.5) * height, true
}
