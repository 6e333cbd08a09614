// Package geometry provides the 2D primitives shared by the simulation.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform is a position plus orientation in world coordinates.
type Transform struct {
	Position r2.Vec
	Angle    float64 // radians
}

// NewTransform creates a transform at (x, y) facing angle.
func NewTransform(x, y, angle float64) Transform {
	return Transform{Position: r2.Vec{X: x, Y: y}, Angle: angle}
}

// Heading returns the unit vector the transform is facing.
func (t Transform) Heading() r2.Vec {
	return r2.Vec{X: math.Cos(t.Angle), Y: math.Sin(t.Angle)}
}

// Translate returns the transform shifted by d.
func (t Transform) Translate(d r2.Vec) Transform {
	t.Position = r2.Add(t.Position, d)
	return t
}

// Rect is an axis-aligned box. Both bounds are inclusive.
type Rect struct {
	Min, Max r2.Vec
}

// NewRect creates a rect from two corners.
func NewRect(minX, minY, maxX, maxY float64) Rect {
	return Rect{Min: r2.Vec{X: minX, Y: minY}, Max: r2.Vec{X: maxX, Y: maxY}}
}

// Square returns a rect centered on the origin with the given half-size.
func Square(radius float64) Rect {
	return NewRect(-radius, -radius, radius, radius)
}

// Contains reports whether p lies within the rect, bounds included.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of the rect.
func (r Rect) Center() r2.Vec {
	return r2.Scale(0.5, r2.Add(r.Min, r.Max))
}

// Clamp moves p to the nearest point inside the rect.
func (r Rect) Clamp(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: math.Max(r.Min.X, math.Min(r.Max.X, p.X)),
		Y: math.Max(r.Min.Y, math.Min(r.Max.Y, p.Y)),
	}
}

// ScaleAbout scales p away from origin by factor f: origin + (p - origin) * f.
func ScaleAbout(p, origin r2.Vec, f float64) r2.Vec {
	return r2.Add(origin, r2.Scale(f, r2.Sub(p, origin)))
}

// Distance returns the euclidean distance between two points.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}
