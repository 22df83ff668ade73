// Package sink provides output format renderers for tag clouds.
//
// # Overview
//
// A "sink" transforms a built [cloud.Cloud] into a final output format:
//
//   - SVG: scalable vector graphics with the font embedded
//   - PNG: native raster output through golang.org/x/image
//   - JSON: layout data export for external tools and caching
//
// PDF output converts the SVG with [render.ToPDF].
//
// # SVG Output
//
//	svg := sink.RenderSVG(c,
//	    sink.WithFont(font),
//	    sink.WithBackground("#ffffff"),
//	    sink.WithPalette(sink.DefaultPalette...),
//	)
//
// Each tag becomes a <text> element centered in its rectangle. [WithBoxes]
// additionally outlines every rectangle, which is useful when tuning the
// layout engine.
//
// # PNG Output
//
// [RenderPNG] draws with the same [fonts.Font] that measured the words, at
// [WithScale] times the final size, and downsamples with Catmull-Rom for
// smooth edges.
//
// # JSON Output
//
// [RenderJSON] writes the cloud as indented JSON; [cloud.Unmarshal] reads it
// back for re-rendering without recomputing the layout.
//
// [render.ToPDF]: github.com/matzehuels/tagcloud/pkg/render.ToPDF
package sink
