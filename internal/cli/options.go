package cli

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/fonts"
	"github.com/matzehuels/tagcloud/pkg/pipeline"
	"github.com/matzehuels/tagcloud/pkg/words"
)

// cloudFlags are the pipeline flags shared by render, layout and words.
// Zero values mean "not set" so config file values and pipeline defaults
// show through.
type cloudFlags struct {
	config             string
	formats            string
	width, height      int
	font               string
	minFont, maxFont   float64
	maxWords           int
	minLength          int
	stopWordsFile      string
	noDefaultStopWords bool
	keepNumbers        bool
	layouter           string
	background         string
	palette            string
	boxes              bool
	scale              int
	noCache            bool
	refresh            bool
}

// registerWordFlags adds the flags that control word extraction.
func (f *cloudFlags) registerWordFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "TOML config file (flags override it)")
	fl.IntVar(&f.maxWords, "max-words", 0, "maximum number of words (default 100)")
	fl.IntVar(&f.minLength, "min-length", 0, "drop words shorter than this (default 3)")
	fl.StringVar(&f.stopWordsFile, "stop-words", "", "file with extra stop words, one per line")
	fl.BoolVar(&f.noDefaultStopWords, "no-default-stop-words", false, "do not drop common English words")
	fl.BoolVar(&f.keepNumbers, "keep-numbers", false, "keep tokens made only of digits")
}

// registerLayoutFlags adds the word flags plus layout flags.
func (f *cloudFlags) registerLayoutFlags(cmd *cobra.Command) {
	f.registerWordFlags(cmd)
	fl := cmd.Flags()
	fl.IntVarP(&f.width, "width", "w", 0, "image width in pixels (default 1000)")
	fl.IntVarP(&f.height, "height", "H", 0, "image height in pixels (default 1000)")
	fl.StringVar(&f.font, "font", "", "built-in font ("+strings.Join(fonts.Builtin(), ", ")+") or TTF/OTF path")
	fl.Float64Var(&f.minFont, "min-font", 0, "font size of the rarest word (default 12)")
	fl.Float64Var(&f.maxFont, "max-font", 0, "font size of the most frequent word (default 72)")
	fl.StringVar(&f.layouter, "layouter", "", "placement algorithm (default circular)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the local cache")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute even if cached")
}

// registerRenderFlags adds every pipeline flag.
func (f *cloudFlags) registerRenderFlags(cmd *cobra.Command) {
	f.registerLayoutFlags(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): png (default), svg, pdf, json (comma-separated)")
	fl.StringVar(&f.background, "background", "", "background colour (default #ffffff)")
	fl.StringVar(&f.palette, "palette", "", "word colours, comma-separated hex")
	fl.BoolVar(&f.boxes, "boxes", false, "outline each word rectangle")
	fl.IntVar(&f.scale, "scale", 0, "PNG supersampling factor (default 2)")
}

// options builds pipeline options from the config file, then the flags.
func (f *cloudFlags) options(ctx context.Context, text string) (pipeline.Options, error) {
	var base pipeline.Options
	if f.config != "" {
		cfg, err := pipeline.LoadConfig(f.config)
		if err != nil {
			return base, err
		}
		loggerFromContext(ctx).Debug("loaded config", "path", f.config)
		base = cfg
	}

	stop, err := readStopWords(f.stopWordsFile)
	if err != nil {
		return base, err
	}

	opts := base.Merge(pipeline.Options{
		Text:               text,
		MaxWords:           f.maxWords,
		MinWordLength:      f.minLength,
		StopWords:          stop,
		NoDefaultStopWords: f.noDefaultStopWords,
		KeepNumbers:        f.keepNumbers,
		Layouter:           f.layouter,
		Width:              f.width,
		Height:             f.height,
		Font:               f.font,
		MinFontSize:        f.minFont,
		MaxFontSize:        f.maxFont,
		Formats:            parseList(f.formats),
		Background:         f.background,
		Palette:            parseList(f.palette),
		Boxes:              f.boxes,
		Scale:              f.scale,
		Refresh:            f.refresh,
		Logger:             loggerFromContext(ctx),
	})
	return opts, nil
}

func readStopWords(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "stop words %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	set := words.ParseStopWords(fh)
	list := make([]string, 0, len(set))
	for w := range set {
		list = append(list, w)
	}
	sort.Strings(list)
	return list, nil
}
