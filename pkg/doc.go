// Package pkg provides the core libraries for Tagcloud word cloud generation.
//
// # Overview
//
// Tagcloud counts the words of a text and packs them as rectangles around the
// image centre, most frequent and largest first. The pkg directory is
// organized into these areas:
//
//  1. [words] - Tokenizing, stop-word filtering and frequency counting
//  2. [layout] - The placement engine (spiral search plus compaction)
//  3. [cloud] - Font sizing and measurement, driving a layouter
//  4. [render] - SVG, PNG, JSON and PDF output
//  5. [cache] - Layout and artifact caching (file, Redis, MongoDB)
//  6. [pipeline] - Orchestration (extract → layout → render)
//  7. [api] - HTTP API over the pipeline
//
// # Architecture
//
// The typical data flow through Tagcloud:
//
//	Text
//	  ↓
//	[words] package (frequencies)
//	  ↓
//	[cloud] package (sized tags) → [layout] package (rectangles)
//	  ↓
//	[render] package (SVG/PNG/PDF/JSON)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/tagcloud/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Text:    text,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("cloud.svg", result.Artifacts[pipeline.FormatSVG], 0o644)
//
// [words]: github.com/matzehuels/tagcloud/pkg/words
// [layout]: github.com/matzehuels/tagcloud/pkg/layout
// [cloud]: github.com/matzehuels/tagcloud/pkg/cloud
// [render]: github.com/matzehuels/tagcloud/pkg/render
// [cache]: github.com/matzehuels/tagcloud/pkg/cache
// [pipeline]: github.com/matzehuels/tagcloud/pkg/pipeline
// [api]: github.com/matzehuels/tagcloud/pkg/api
package pkg
