package pipeline

import (
	"context"
	"image"
	"sync"

	"github.com/matzehuels/tagcloud/pkg/cloud"
	"github.com/matzehuels/tagcloud/pkg/fonts"
	"github.com/matzehuels/tagcloud/pkg/layout"
	"github.com/matzehuels/tagcloud/pkg/words"
)

// loadedFonts keeps parsed fonts and their face caches for the process
// lifetime; a server renders the same few fonts over and over.
var loadedFonts sync.Map // name -> *fonts.Font

// LoadFont returns the named font, parsing it on first use.
func LoadFont(name string) (*fonts.Font, error) {
	if f, ok := loadedFonts.Load(name); ok {
		return f.(*fonts.Font), nil
	}
	f, err := fonts.Load(name)
	if err != nil {
		return nil, err
	}
	actual, _ := loadedFonts.LoadOrStore(name, f)
	return actual.(*fonts.Font), nil
}

// GenerateLayout places freqs, most frequent first, with the configured
// layouter centred in the image.
func GenerateLayout(ctx context.Context, freqs []words.Frequency, opts Options) (*cloud.Cloud, error) {
	f, err := LoadFont(opts.Font)
	if err != nil {
		return nil, err
	}

	center := layout.CenterOf(image.Rect(0, 0, opts.Width, opts.Height))
	l, err := layout.New(opts.Layouter, center)
	if err != nil {
		return nil, err
	}

	return cloud.Build(ctx, freqs, f, l, opts.CloudOptions(f.Name()))
}
