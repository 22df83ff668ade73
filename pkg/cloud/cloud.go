// Package cloud builds a tag cloud from word frequencies.
//
// [Build] measures every word at a font size scaled by its frequency, asks a
// [layout.Layouter] for a position, and collects the result as a [Cloud]:
//
//	font, _ := fonts.Load("goregular")
//	engine := layout.NewCircularForImage(1000, 1000)
//	c, err := cloud.Build(ctx, freqs, font, engine, cloud.Options{Width: 1000, Height: 1000})
//
// Words the engine rejects with [errors.ErrCodeInvalidSize] (for example a
// token that measures to zero width) are recorded in [Cloud.Skipped] instead of
// failing the whole cloud.
package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/fonts"
	"github.com/matzehuels/tagcloud/pkg/layout"
	"github.com/matzehuels/tagcloud/pkg/words"
)

// Tag is one placed word.
type Tag struct {
	Word     string
	Count    int
	FontSize float64
	Rect     image.Rectangle
}

// Cloud is a finished layout ready for rendering.
type Cloud struct {
	Width   int
	Height  int
	Center  image.Point
	Font    string
	Tags    []Tag
	Skipped []string
}

// Measurer sizes a word at a font size. *fonts.Font implements it.
type Measurer interface {
	Measure(text string, size float64) (layout.Size, error)
}

// Options controls font scaling and the image frame.
type Options struct {
	Width, Height int
	Font          string
	MinFontSize   float64
	MaxFontSize   float64
}

// Build lays out freqs in order. Context cancellation is checked between words.
func Build(ctx context.Context, freqs []words.Frequency, m Measurer, l layout.Layouter, opts Options) (*Cloud, error) {
	if err := errors.ValidateFontRange(opts.MinFontSize, opts.MaxFontSize); err != nil {
		return nil, err
	}

	c := &Cloud{
		Width:  opts.Width,
		Height: opts.Height,
		Center: l.Center(),
		Font:   opts.Font,
		Tags:   make([]Tag, 0, len(freqs)),
	}
	if len(freqs) == 0 {
		return c, nil
	}

	minCount, maxCount := countRange(freqs)
	for _, f := range freqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		size := fonts.FontSize(f.Count, minCount, maxCount, opts.MinFontSize, opts.MaxFontSize)
		box, err := m.Measure(f.Word, size)
		if err != nil {
			return nil, fmt.Errorf("measure %q: %w", f.Word, err)
		}

		r, err := l.Place(box)
		if errors.Is(err, errors.ErrCodeInvalidSize) {
			c.Skipped = append(c.Skipped, f.Word)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("place %q: %w", f.Word, err)
		}

		c.Tags = append(c.Tags, Tag{Word: f.Word, Count: f.Count, FontSize: size, Rect: r})
	}
	return c, nil
}

func countRange(freqs []words.Frequency) (lo, hi int) {
	lo, hi = freqs[0].Count, freqs[0].Count
	for _, f := range freqs[1:] {
		lo = min(lo, f.Count)
		hi = max(hi, f.Count)
	}
	return lo, hi
}

// Bounds returns the smallest rectangle containing every tag.
func (c *Cloud) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, t := range c.Tags {
		b = b.Union(t.Rect)
	}
	return b
}

type jsonCloud struct {
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	CenterX int       `json:"center_x"`
	CenterY int       `json:"center_y"`
	Font    string    `json:"font,omitempty"`
	Tags    []jsonTag `json:"tags"`
	Skipped []string  `json:"skipped,omitempty"`
}

type jsonTag struct {
	Word     string  `json:"word"`
	Count    int     `json:"count"`
	FontSize float64 `json:"font_size"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// MarshalJSON flattens rectangles into x, y, width and height.
func (c *Cloud) MarshalJSON() ([]byte, error) {
	out := jsonCloud{
		Width:   c.Width,
		Height:  c.Height,
		CenterX: c.Center.X,
		CenterY: c.Center.Y,
		Font:    c.Font,
		Tags:    make([]jsonTag, len(c.Tags)),
		Skipped: c.Skipped,
	}
	for i, t := range c.Tags {
		out.Tags[i] = jsonTag{
			Word:     t.Word,
			Count:    t.Count,
			FontSize: t.FontSize,
			X:        t.Rect.Min.X,
			Y:        t.Rect.Min.Y,
			Width:    t.Rect.Dx(),
			Height:   t.Rect.Dy(),
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Cloud) UnmarshalJSON(data []byte) error {
	var in jsonCloud
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = Cloud{
		Width:   in.Width,
		Height:  in.Height,
		Center:  image.Pt(in.CenterX, in.CenterY),
		Font:    in.Font,
		Tags:    make([]Tag, len(in.Tags)),
		Skipped: in.Skipped,
	}
	for i, t := range in.Tags {
		c.Tags[i] = Tag{
			Word:     t.Word,
			Count:    t.Count,
			FontSize: t.FontSize,
			Rect:     image.Rect(t.X, t.Y, t.X+t.Width, t.Y+t.Height),
		}
	}
	return nil
}

// Unmarshal decodes a cloud produced by MarshalJSON.
func Unmarshal(data []byte) (*Cloud, error) {
	var c Cloud
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
