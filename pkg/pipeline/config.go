package pipeline

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// LoadConfig reads pipeline options from a TOML file:
//
//	width = 1200
//	height = 800
//	font = "gobold"
//	formats = ["png", "svg"]
//	palette = ["#1f77b4", "#ff7f0e"]
//	stop_words = ["lorem", "ipsum"]
//
// Unknown keys are rejected so typos do not pass silently.
func LoadConfig(path string) (Options, error) {
	var opts Options
	if err := errors.ValidatePath(path); err != nil {
		return opts, err
	}

	md, err := toml.DecodeFile(path, &opts)
	if os.IsNotExist(err) {
		return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return opts, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// Merge returns o with every non-zero field of override applied on top.
// The CLI uses it to let flags win over config file values.
func (o Options) Merge(override Options) Options {
	if override.Text != "" {
		o.Text = override.Text
	}
	if override.MaxWords != 0 {
		o.MaxWords = override.MaxWords
	}
	if override.MinWordLength != 0 {
		o.MinWordLength = override.MinWordLength
	}
	if len(override.StopWords) > 0 {
		o.StopWords = append(o.StopWords, override.StopWords...)
	}
	o.NoDefaultStopWords = o.NoDefaultStopWords || override.NoDefaultStopWords
	o.KeepNumbers = o.KeepNumbers || override.KeepNumbers
	if override.Layouter != "" {
		o.Layouter = override.Layouter
	}
	if override.Width != 0 {
		o.Width = override.Width
	}
	if override.Height != 0 {
		o.Height = override.Height
	}
	if override.Font != "" {
		o.Font = override.Font
	}
	if override.MinFontSize != 0 {
		o.MinFontSize = override.MinFontSize
	}
	if override.MaxFontSize != 0 {
		o.MaxFontSize = override.MaxFontSize
	}
	if len(override.Formats) > 0 {
		o.Formats = override.Formats
	}
	if override.Background != "" {
		o.Background = override.Background
	}
	if len(override.Palette) > 0 {
		o.Palette = override.Palette
	}
	o.Boxes = o.Boxes || override.Boxes
	if override.Scale != 0 {
		o.Scale = override.Scale
	}
	o.Refresh = o.Refresh || override.Refresh
	if override.Logger != nil {
		o.Logger = override.Logger
	}
	o.validated = false
	return o
}
