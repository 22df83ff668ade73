package layout

import (
	"image"
	"sort"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// Layouter places rectangles one at a time without overlap.
type Layouter interface {
	// Place positions a rectangle of the given size and returns it.
	Place(size Size) (image.Rectangle, error)

	// Rectangles returns the placed rectangles in insertion order.
	Rectangles() []image.Rectangle

	// Center returns the point the layout is built around.
	Center() image.Point
}

// NameCircular is the registry name of the [Circular] engine.
const NameCircular = "circular"

var builders = map[string]func(image.Point, ...Option) Layouter{
	NameCircular: func(center image.Point, opts ...Option) Layouter {
		return NewCircular(center, opts...)
	},
}

// New creates the layouter registered under name.
func New(name string, center image.Point, opts ...Option) (Layouter, error) {
	build, ok := builders[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown layouter %q (available: %v)", name, Names())
	}
	return build(center, opts...), nil
}

// Names returns the registered layouter names, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
