package layout

import (
	"image"
	"math"
)

// Default spiral parameters.
const (
	// DefaultAngleStep is the angle, in radians, advanced on every call to Next.
	DefaultAngleStep = 0.1

	// DefaultTightness is the radius growth in pixels per radian. A full turn
	// therefore widens the spiral by 2π·DefaultTightness ≈ 3.14 pixels.
	DefaultTightness = 0.5
)

// Spiral generates points on an Archimedean spiral (r = tightness·θ) around a
// fixed center. The radius only grows, so the points eventually leave any
// bounded region.
type Spiral struct {
	center    image.Point
	angle     float64
	radius    float64
	angleStep float64
	tightness float64
}

// SpiralOption configures a Spiral.
type SpiralOption func(*Spiral)

// WithAngleStep sets the angular increment per point. Non-positive values are ignored.
func WithAngleStep(step float64) SpiralOption {
	return func(s *Spiral) {
		if step > 0 {
			s.angleStep = step
		}
	}
}

// WithTightness sets the radius growth per radian. Non-positive values are ignored.
func WithTightness(t float64) SpiralOption {
	return func(s *Spiral) {
		if t > 0 {
			s.tightness = t
		}
	}
}

// NewSpiral creates a spiral whose first point is center itself.
func NewSpiral(center image.Point, opts ...SpiralOption) *Spiral {
	s := &Spiral{
		center:    center,
		angleStep: DefaultAngleStep,
		tightness: DefaultTightness,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Center returns the fixed center of the spiral.
func (s *Spiral) Center() image.Point { return s.center }

// Radius returns the radius the next point will be generated at.
func (s *Spiral) Radius() float64 { return s.radius }

// Next returns the current point and advances the spiral.
func (s *Spiral) Next() image.Point {
	p := image.Pt(
		s.center.X+int(math.Round(s.radius*math.Cos(s.angle))),
		s.center.Y+int(math.Round(s.radius*math.Sin(s.angle))),
	)
	s.angle += s.angleStep
	s.radius = s.tightness * s.angle
	return p
}
