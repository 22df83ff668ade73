// Package pipeline provides the tag cloud pipeline shared by the CLI and the
// HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Extract: tokenize text and count word frequencies
//  2. Layout: size each word and place it with a [layout.Layouter]
//  3. Render: generate output in various formats (PNG, SVG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Text:    string(text),
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/cloud"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/fonts"
	"github.com/matzehuels/tagcloud/pkg/layout"
	"github.com/matzehuels/tagcloud/pkg/render/sink"
	"github.com/matzehuels/tagcloud/pkg/words"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default image width in pixels.
	DefaultWidth = 1000

	// DefaultHeight is the default image height in pixels.
	DefaultHeight = 1000

	// DefaultFont is the default built-in font.
	DefaultFont = fonts.DefaultFont

	// DefaultFormat is the default output format.
	DefaultFormat = FormatPNG

	// DefaultLayouter is the default placement algorithm.
	DefaultLayouter = layout.NameCircular

	// DefaultMaxWords is the default number of words in a cloud.
	DefaultMaxWords = 100

	// DefaultMinFontSize is the font size of the least frequent word.
	DefaultMinFontSize = 12.0

	// DefaultMaxFontSize is the font size of the most frequent word.
	DefaultMaxFontSize = 72.0

	// DefaultMinWordLength drops very short tokens such as "a" and "of".
	DefaultMinWordLength = 3

	// DefaultBackground is the default canvas colour.
	DefaultBackground = sink.DefaultBackground
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the tag cloud pipeline.
// It is read from TOML config files and from JSON API requests.
type Options struct {
	// Input text. Never read from config files.
	Text string `toml:"-" json:"text,omitempty"`

	// Extract options
	MaxWords           int      `toml:"max_words" json:"max_words,omitempty"`
	MinWordLength      int      `toml:"min_word_length" json:"min_word_length,omitempty"`
	StopWords          []string `toml:"stop_words" json:"stop_words,omitempty"` // extra stop words
	NoDefaultStopWords bool     `toml:"no_default_stop_words" json:"no_default_stop_words,omitempty"`
	KeepNumbers        bool     `toml:"keep_numbers" json:"keep_numbers,omitempty"`

	// Layout options
	Layouter    string  `toml:"layouter" json:"layouter,omitempty"`
	Width       int     `toml:"width" json:"width,omitempty"`
	Height      int     `toml:"height" json:"height,omitempty"`
	Font        string  `toml:"font" json:"font,omitempty"`
	MinFontSize float64 `toml:"min_font_size" json:"min_font_size,omitempty"`
	MaxFontSize float64 `toml:"max_font_size" json:"max_font_size,omitempty"`

	// Render options
	Formats    []string `toml:"formats" json:"formats,omitempty"`
	Background string   `toml:"background" json:"background,omitempty"`
	Palette    []string `toml:"palette" json:"palette,omitempty"`
	Boxes      bool     `toml:"boxes" json:"boxes,omitempty"`
	Scale      int      `toml:"scale" json:"scale,omitempty"` // PNG supersampling

	// Refresh bypasses cache lookups but still stores fresh results.
	Refresh bool `toml:"-" json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `toml:"-" json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Frequencies are the extracted words, most frequent first.
	Frequencies []words.Frequency

	// TextHash is the content hash of the input text.
	TextHash string

	// Cloud is the computed layout.
	Cloud *cloud.Cloud

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	WordCount   int
	Placed      int
	Skipped     int
	ExtractTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLayouter checks that a layouter name is registered.
func ValidateLayouter(name string) error {
	if !slices.Contains(layout.Names(), name) {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid layouter: %q (must be one of: %s)",
			name, strings.Join(layout.Names(), ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every option.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetExtractDefaults()
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetExtractDefaults sets default values for word extraction.
func (o *Options) SetExtractDefaults() {
	if o.MaxWords == 0 {
		o.MaxWords = DefaultMaxWords
	}
	if o.MinWordLength == 0 {
		o.MinWordLength = DefaultMinWordLength
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func (o *Options) validateWordLimits() error {
	if o.MaxWords < 0 || o.MinWordLength < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_words and min_word_length must not be negative")
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Layouter == "" {
		o.Layouter = DefaultLayouter
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.MinFontSize == 0 {
		o.MinFontSize = DefaultMinFontSize
	}
	if o.MaxFontSize == 0 {
		o.MaxFontSize = DefaultMaxFontSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.validateWordLimits(); err != nil {
		return err
	}
	if err := ValidateLayouter(o.Layouter); err != nil {
		return err
	}
	if err := errors.ValidateImageSize(o.Width, o.Height); err != nil {
		return err
	}
	return errors.ValidateFontRange(o.MinFontSize, o.MaxFontSize)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateColor(o.Background); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > sink.MaxScale {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be between 0 and %d, got %d", sink.MaxScale, o.Scale)
	}
	if slices.Contains(o.Formats, FormatPNG) && o.Width > 0 && o.Height > 0 {
		if err := sink.ValidateScale(o.Width, o.Height, o.pngScale()); err != nil {
			return err
		}
	}
	if len(o.Palette) > 0 {
		return sink.ValidatePalette(o.Palette)
	}
	return nil
}

// pngScale is the supersampling factor PNG output is drawn at; zero selects
// the renderer default.
func (o *Options) pngScale() int {
	if o.Scale == 0 {
		return sink.DefaultScale
	}
	return o.Scale
}

// WordOptions returns the extraction options for package words.
func (o *Options) WordOptions() words.Options {
	extra := make(map[string]struct{}, len(o.StopWords))
	for _, w := range o.StopWords {
		for _, tok := range words.Tokenize(w) {
			extra[tok] = struct{}{}
		}
	}

	stop := extra
	if !o.NoDefaultStopWords {
		stop = words.MergeStopWords(words.DefaultStopWords, extra)
	}
	return words.Options{
		MinLength:   o.MinWordLength,
		MaxWords:    o.MaxWords,
		StopWords:   stop,
		KeepNumbers: o.KeepNumbers,
	}
}

// CloudOptions returns the cloud build options.
func (o *Options) CloudOptions(fontName string) cloud.Options {
	return cloud.Options{
		Width:       o.Width,
		Height:      o.Height,
		Font:        fontName,
		MinFontSize: o.MinFontSize,
		MaxFontSize: o.MaxFontSize,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Layouter:    o.Layouter,
		Width:       o.Width,
		Height:      o.Height,
		Font:        o.Font,
		MinFontSize: o.MinFontSize,
		MaxFontSize: o.MaxFontSize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Background: strings.ToLower(o.Background),
		Palette:    o.Palette,
		Boxes:      o.Boxes,
		Scale:      o.Scale,
	}
}
