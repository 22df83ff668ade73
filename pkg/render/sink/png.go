package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/tagcloud/pkg/cloud"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/fonts"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	background string
	palette    []string
	boxes      bool
	scale      int
}

// WithPNGBackground sets the canvas colour. An empty string leaves it transparent.
func WithPNGBackground(c string) PNGOption { return func(r *pngRenderer) { r.background = c } }

// WithPNGPalette sets the tag colours, used round-robin in placement order.
func WithPNGPalette(colors ...string) PNGOption {
	return func(r *pngRenderer) { r.palette = colors }
}

// WithPNGBoxes outlines each tag rectangle.
func WithPNGBoxes() PNGOption { return func(r *pngRenderer) { r.boxes = true } }

// Supersampling limits. The canvas is drawn at Scale times the output size
// and then downsampled, so its pixel count grows with the square of Scale.
const (
	DefaultScale = 2
	MaxScale     = 4
)

// MaxPixels caps the supersampled canvas (256 MiB of RGBA).
const MaxPixels = 1 << 26

// ValidateScale checks that a width by height PNG can be drawn at scale.
func ValidateScale(width, height, scale int) error {
	if scale < 1 || scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be between 1 and %d, got %d", MaxScale, scale)
	}
	if px := int64(width) * int64(height) * int64(scale) * int64(scale); px > MaxPixels {
		return errors.New(errors.ErrCodeInvalidSize,
			"%dx%d at scale %d needs %d pixels, limit is %d", width, height, scale, px, MaxPixels)
	}
	return nil
}

// WithScale sets the supersampling factor (default DefaultScale). Values
// below 1 are ignored; values above MaxScale fail in RenderPNG.
func WithScale(s int) PNGOption {
	return func(r *pngRenderer) {
		if s >= 1 {
			r.scale = s
		}
	}
}

var boxColor = color.RGBA{204, 204, 204, 255}

// RenderPNG rasterises c with f, which should be the font the words were
// measured with.
func RenderPNG(c *cloud.Cloud, f *fonts.Font, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{background: DefaultBackground, scale: DefaultScale}
	for _, opt := range opts {
		opt(&r)
	}
	if err := errors.ValidateImageSize(c.Width, c.Height); err != nil {
		return nil, err
	}
	if err := ValidateScale(c.Width, c.Height, r.scale); err != nil {
		return nil, err
	}

	large := image.NewRGBA(image.Rect(0, 0, c.Width*r.scale, c.Height*r.scale))
	if r.background != "" {
		bg, err := ParseHexColor(r.background)
		if err != nil {
			return nil, err
		}
		draw.Draw(large, large.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	faces := faceSet{font: f, faces: make(map[float64]font.Face)}
	defer faces.Close()

	for i, t := range c.Tags {
		fill, err := ParseHexColor(colorAt(r.palette, i))
		if err != nil {
			return nil, err
		}
		rect := image.Rect(t.Rect.Min.X*r.scale, t.Rect.Min.Y*r.scale, t.Rect.Max.X*r.scale, t.Rect.Max.Y*r.scale)
		if r.boxes {
			strokeRect(large, rect, boxColor)
		}
		if err := drawWord(large, &faces, t.Word, t.FontSize*float64(r.scale), rect, f.Padding*r.scale, fill); err != nil {
			return nil, err
		}
	}

	final := large
	if r.scale > 1 {
		final = image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
		draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, final); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// faceSet holds the faces of one RenderPNG call. Faces keep glyph buffers,
// so they are never shared between calls even when the Font is.
type faceSet struct {
	font  *fonts.Font
	faces map[float64]font.Face
}

func (s *faceSet) get(size float64) (font.Face, error) {
	if face, ok := s.faces[size]; ok {
		return face, nil
	}
	face, err := s.font.Face(size)
	if err != nil {
		return nil, err
	}
	s.faces[size] = face
	return face, nil
}

func (s *faceSet) Close() {
	for _, face := range s.faces {
		face.Close()
	}
}

// drawWord puts the baseline one ascent below the padded top of rect, matching
// the box fonts.Font.Measure produced.
func drawWord(dst *image.RGBA, faces *faceSet, word string, size float64, rect image.Rectangle, pad int, c color.Color) error {
	face, err := faces.get(size)
	if err != nil {
		return err
	}
	ascent := face.Metrics().Ascent
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(rect.Min.X + pad),
			Y: fixed.I(rect.Min.Y+pad) + ascent,
		},
	}
	d.DrawString(word)
	return nil
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}
