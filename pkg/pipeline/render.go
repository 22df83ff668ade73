package pipeline

import (
	"fmt"

	"github.com/matzehuels/tagcloud/pkg/cloud"
	"github.com/matzehuels/tagcloud/pkg/render"
	"github.com/matzehuels/tagcloud/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
// The cloud's own font is used so glyphs match the measured rectangles.
func Render(c *cloud.Cloud, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	renderSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		f, err := LoadFont(fontName(c, opts))
		if err != nil {
			return nil, err
		}
		svgOpts := []sink.SVGOption{
			sink.WithFont(f),
			sink.WithBackground(opts.Background),
			sink.WithPalette(opts.Palette...),
		}
		if opts.Boxes {
			svgOpts = append(svgOpts, sink.WithBoxes())
		}
		svg = sink.RenderSVG(c, svgOpts...)
		return svg, nil
	}

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data, err = renderSVG()
		case FormatPNG:
			data, err = renderPNG(c, opts)
		case FormatJSON:
			data, err = sink.RenderJSON(c)
		case FormatPDF:
			if data, err = renderSVG(); err == nil {
				data, err = render.ToPDF(data)
			}
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderPNG(c *cloud.Cloud, opts Options) ([]byte, error) {
	f, err := LoadFont(fontName(c, opts))
	if err != nil {
		return nil, err
	}
	pngOpts := []sink.PNGOption{
		sink.WithPNGBackground(opts.Background),
		sink.WithPNGPalette(opts.Palette...),
		sink.WithScale(opts.Scale),
	}
	if opts.Boxes {
		pngOpts = append(pngOpts, sink.WithPNGBoxes())
	}
	return sink.RenderPNG(c, f, pngOpts...)
}

// fontName prefers the option over the cloud's recorded name because the
// latter is a display name and may not be loadable for file fonts.
func fontName(c *cloud.Cloud, opts Options) string {
	if opts.Font != "" {
		return opts.Font
	}
	return c.Font
}
