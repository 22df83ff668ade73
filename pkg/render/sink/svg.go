package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/tagcloud/pkg/cloud"
	"github.com/matzehuels/tagcloud/pkg/fonts"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	font       *fonts.Font
	family     string
	background string
	palette    []string
	boxes      bool
}

// WithFont embeds f as an @font-face and uses it for every tag.
func WithFont(f *fonts.Font) SVGOption { return func(r *svgRenderer) { r.font = f } }

// WithFontFamily sets the CSS font-family used when no font is embedded.
func WithFontFamily(family string) SVGOption { return func(r *svgRenderer) { r.family = family } }

// WithBackground sets the canvas colour. An empty string leaves it transparent.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithPalette sets the tag colours, used round-robin in placement order.
func WithPalette(colors ...string) SVGOption { return func(r *svgRenderer) { r.palette = colors } }

// WithBoxes outlines each tag rectangle.
func WithBoxes() SVGOption { return func(r *svgRenderer) { r.boxes = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{family: "sans-serif", background: DefaultBackground}
	for _, opt := range opts {
		opt(&r)
	}
	if r.font != nil {
		r.family = fmt.Sprintf("'%s', sans-serif", r.font.Name())
	}
	return r
}

// RenderSVG renders c as a standalone SVG document.
func RenderSVG(c *cloud.Cloud, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		c.Width, c.Height, c.Width, c.Height)

	r.renderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	fmt.Fprintf(&buf, `  <g font-family="%s" text-anchor="middle" dominant-baseline="central">`+"\n", escapeAttr(r.family))
	for i, t := range c.Tags {
		if r.boxes {
			fmt.Fprintf(&buf, `    <rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#cccccc" stroke-width="1"/>`+"\n",
				t.Rect.Min.X, t.Rect.Min.Y, t.Rect.Dx(), t.Rect.Dy())
		}
		cx := float64(t.Rect.Min.X+t.Rect.Max.X) / 2
		cy := float64(t.Rect.Min.Y+t.Rect.Max.Y) / 2
		fmt.Fprintf(&buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" fill="%s">`, cx, cy, t.FontSize, colorAt(r.palette, i))
		_ = xml.EscapeText(&buf, []byte(t.Word))
		buf.WriteString("</text>\n")
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	if r.font == nil {
		return
	}
	buf.WriteString("  <defs>\n    <style>\n")
	fmt.Fprintf(buf, "      @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
		r.font.Name(), r.font.Base64())
	buf.WriteString("    </style>\n  </defs>\n")
}

func escapeAttr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
