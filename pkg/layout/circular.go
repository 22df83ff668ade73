package layout

import (
	"image"
	"math"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// DefaultMaxShiftSteps bounds a single compaction pass.
const DefaultMaxShiftSteps = 1 << 16

// Circular is a layout engine that packs rectangles around a center point.
type Circular struct {
	spiral        *Spiral
	rects         []image.Rectangle
	maxShiftSteps int
}

// Option configures a Circular engine.
type Option func(*Circular)

// WithMaxShiftSteps caps the number of unit moves in one compaction pass.
// Values below 1 are ignored.
func WithMaxShiftSteps(n int) Option {
	return func(c *Circular) {
		if n > 0 {
			c.maxShiftSteps = n
		}
	}
}

// WithSpiral configures the spiral used for the candidate search.
func WithSpiral(opts ...SpiralOption) Option {
	return func(c *Circular) {
		for _, opt := range opts {
			opt(c.spiral)
		}
	}
}

// NewCircular creates an empty engine centered on center.
func NewCircular(center image.Point, opts ...Option) *Circular {
	c := &Circular{
		spiral:        NewSpiral(center),
		maxShiftSteps: DefaultMaxShiftSteps,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewCircularForImage creates an engine centered on an image of the given size.
func NewCircularForImage(width, height int, opts ...Option) *Circular {
	return NewCircular(image.Pt(width/2, height/2), opts...)
}

// Center returns the fixed layout center.
func (c *Circular) Center() image.Point { return c.spiral.Center() }

// Len returns the number of placed rectangles.
func (c *Circular) Len() int { return len(c.rects) }

// Rectangles returns a copy of the placed rectangles in insertion order.
func (c *Circular) Rectangles() []image.Rectangle {
	out := make([]image.Rectangle, len(c.rects))
	copy(out, c.rects)
	return out
}

// Place finds a free position for a rectangle of the given size, pulls it toward
// the center and records it. It fails with [errors.ErrCodeInvalidSize] when
// either dimension is not positive; the engine is unchanged in that case.
func (c *Circular) Place(size Size) (image.Rectangle, error) {
	if !size.Valid() {
		return image.Rectangle{}, errors.New(errors.ErrCodeInvalidSize,
			"rectangle size must be positive, got %s", size)
	}

	r := c.search(size)
	if len(c.rects) > 0 {
		r = c.compact(r)
	}

	c.rects = append(c.rects, r)
	return r, nil
}

// search walks the spiral until the centered candidate is free. It terminates
// because the spiral radius grows without bound.
func (c *Circular) search(size Size) image.Rectangle {
	for {
		r := size.centeredAt(c.spiral.Next())
		if !c.intersects(r) {
			return r
		}
	}
}

type axis int

const (
	vertical axis = iota
	horizontal
)

// compact runs the vertical, horizontal, vertical shift passes.
func (c *Circular) compact(r image.Rectangle) image.Rectangle {
	r = c.shift(r, vertical)
	r = c.shift(r, horizontal)
	return c.shift(r, vertical)
}

// shift moves r one pixel at a time toward the center along a. It stops when r
// is aligned with the center on a, when a move would increase the distance to
// the center, when a move would overlap a placed rectangle, or at the step cap.
func (c *Circular) shift(r image.Rectangle, a axis) image.Rectangle {
	dist := c.distance(r)
	for i := 0; i < c.maxShiftSteps; i++ {
		step := c.stepToward(r, a)
		if step == (image.Point{}) {
			break
		}
		next := r.Add(step)
		d := c.distance(next)
		if d > dist || c.intersects(next) {
			break
		}
		r, dist = next, d
	}
	return r
}

func (c *Circular) stepToward(r image.Rectangle, a axis) image.Point {
	delta := c.Center().Sub(CenterOf(r))
	if a == vertical {
		return image.Pt(0, sign(delta.Y))
	}
	return image.Pt(sign(delta.X), 0)
}

// distance is the Euclidean distance from the center of r to the layout center.
func (c *Circular) distance(r image.Rectangle) float64 {
	d := CenterOf(r).Sub(c.Center())
	return math.Hypot(float64(d.X), float64(d.Y))
}

func (c *Circular) intersects(r image.Rectangle) bool {
	for _, placed := range c.rects {
		if placed.Overlaps(r) {
			return true
		}
	}
	return false
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Ensure Circular implements Layouter.
var _ Layouter = (*Circular)(nil)
