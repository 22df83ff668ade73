package layout

import (
	"fmt"
	"image"
)

// Size is the width and height of a rectangle to place, usually the measured
// extent of a word in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.Width > 0 && s.Height > 0 }

// String returns the size as "WxH".
func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// half is the offset from a rectangle's origin to its center, rounded down.
func (s Size) half() image.Point { return image.Pt(s.Width/2, s.Height/2) }

// centeredAt returns the rectangle of size s whose center is p.
func (s Size) centeredAt(p image.Point) image.Rectangle {
	origin := p.Sub(s.half())
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(s.Width, s.Height))}
}

// SizeOf returns the size of r.
func SizeOf(r image.Rectangle) Size {
	return Size{Width: r.Dx(), Height: r.Dy()}
}

// CenterOf returns the center of r using the same rounding as placement, so a
// rectangle placed at p reports p as its center.
func CenterOf(r image.Rectangle) image.Point {
	return r.Min.Add(SizeOf(r).half())
}
