// Package render provides format conversion for rendered tag clouds.
//
// # Overview
//
// The [sink] subpackage renders a cloud to SVG, PNG and JSON natively. PDF
// output is produced from the SVG with [ToPDF], which shells out to the
// rsvg-convert tool from librsvg:
//
//	svg := sink.RenderSVG(c, sink.WithFont(font))
//	pdf, err := render.ToPDF(svg)
//
// [sink]: github.com/matzehuels/tagcloud/pkg/render/sink
package render
