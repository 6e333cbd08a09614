// Package camera provides a 2D camera over the bounded arena.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/geometry"
)

// Camera maps arena coordinates to screen pixels.
// World y grows upward; screen y grows downward.
type Camera struct {
	// Center is the camera center in world coordinates.
	Center r2.Vec

	// Zoom is a multiple of the fit scale (1.0 shows the whole arena).
	Zoom float64

	ViewportW, ViewportH float64

	extent  geometry.Rect
	fit     float64
	minZoom float64
	maxZoom float64
	inertia float64
}

// New creates a camera centered on the arena, zoomed to fit it.
func New(viewportW, viewportH float64, extent geometry.Rect, cc config.CameraConfig) *Camera {
	c := &Camera{
		Center:  extent.Center(),
		Zoom:    1,
		extent:  extent,
		minZoom: cc.ZoomMin,
		maxZoom: cc.ZoomMax,
		inertia: cc.Inertia,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// Scale returns the current pixels per world unit.
func (c *Camera) Scale() float64 { return c.fit * c.Zoom }

// WorldToScreen converts a world position to screen pixels.
func (c *Camera) WorldToScreen(p r2.Vec) (sx, sy float64) {
	s := c.Scale()
	sx = c.ViewportW/2 + (p.X-c.Center.X)*s
	sy = c.ViewportH/2 - (p.Y-c.Center.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen pixels to a world position.
func (c *Camera) ScreenToWorld(sx, sy float64) r2.Vec {
	s := c.Scale()
	return r2.Vec{
		X: c.Center.X + (sx-c.ViewportW/2)/s,
		Y: c.Center.Y - (sy-c.ViewportH/2)/s,
	}
}

// IsVisible reports whether a circle at p could be on screen.
func (c *Camera) IsVisible(p r2.Vec, radius float64) bool {
	s := c.Scale()
	halfW := c.ViewportW/(2*s) + radius
	halfH := c.ViewportH/(2*s) + radius
	return math.Abs(p.X-c.Center.X) <= halfW && math.Abs(p.Y-c.Center.Y) <= halfH
}

// Resize updates the viewport and recomputes the fit scale.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	w, h := c.extent.Width(), c.extent.Height()
	if w <= 0 || h <= 0 {
		c.fit = 1
		return
	}
	c.fit = math.Min(viewportW/w, viewportH/h)
}

// Pan moves the camera by a delta in screen pixels, keeping the center in the arena.
func (c *Camera) Pan(dx, dy float64) {
	s := c.Scale()
	c.Center = c.extent.Clamp(r2.Add(c.Center, r2.Vec{X: dx / s, Y: -dy / s}))
}

// Follow eases the center toward target; inertia is the follow rate per second.
func (c *Camera) Follow(target r2.Vec, dt float64) {
	if dt <= 0 {
		return
	}
	blend := 1 - math.Exp(-c.inertia*dt)
	c.Center = c.extent.Clamp(r2.Add(c.Center, r2.Scale(blend, r2.Sub(target, c.Center))))
}

// SetZoom sets the zoom level, clamped to the configured limits.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = math.Max(c.minZoom, math.Min(c.maxZoom, zoom))
}

// ZoomBy multiplies the current zoom by factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the arena center at fit zoom.
func (c *Camera) Reset() {
	c.Center = c.extent.Center()
	c.Zoom = 1
}
