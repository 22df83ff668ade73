// Package layout places word rectangles into a compact, roughly circular tag cloud.
//
// # Overview
//
// The package has two parts:
//
//   - [Spiral]: a deterministic, ever-expanding point source around a fixed center
//   - [Circular]: the layout engine that searches the spiral for free space and
//     then compacts each new rectangle toward the center
//
// Rectangles are [image.Rectangle] values and points are [image.Point] values, so
// results plug directly into the standard image packages and into the renderers
// in [render/sink].
//
// # Placement
//
// [Circular.Place] draws points from the spiral until a rectangle of the requested
// size, centered on the point, overlaps none of the rectangles placed so far.
// Touching edges do not count as overlap. The spiral is shared across calls and
// never restarts, so later words continue the search from where earlier words
// stopped.
//
// After the first rectangle, every new rectangle is compacted with three shift
// passes (vertical, horizontal, vertical). Each pass moves the rectangle one
// pixel at a time toward the center along a single axis while the move neither
// increases the distance to the center nor causes an overlap. Each pass is capped
// at [DefaultMaxShiftSteps] steps.
//
//	engine := layout.NewCircularForImage(1000, 1000)
//	r, err := engine.Place(layout.Size{Width: 120, Height: 40})
//	if errors.Is(err, errors.ErrCodeInvalidSize) {
//	    // skip this word
//	}
//
// # Invariants
//
// After every successful Place the rectangles returned by [Circular.Rectangles]
// are pairwise non-overlapping and kept in insertion order. A failed Place leaves
// the engine untouched.
//
// # Concurrency
//
// A Circular is not safe for concurrent use. Each cloud owns one engine.
//
// [render/sink]: github.com/matzehuels/tagcloud/pkg/render/sink
package layout
