// Package fonts loads font faces and measures words for layout.
//
// The Go font family is embedded in the binary through
// golang.org/x/image/font/gofont, so the built-in names ("goregular",
// "gobold", "goitalic", "gomono") need no files on disk. Any other name is
// treated as a path to a TrueType or OpenType file.
//
// The same [Font] is used for measuring and for rasterising, so PNG output
// matches the measured boxes exactly. SVG output embeds the font data as a
// base64 @font-face for the same reason.
package fonts

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/layout"
)

// DefaultFont is the built-in font used when none is configured.
const DefaultFont = "goregular"

// DPI is the resolution faces are created at; at 72 DPI one point is one pixel.
const DPI = 72

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"goitalic":  goitalic.TTF,
	"gomono":    gomono.TTF,
}

// Builtin returns the names of the embedded fonts, sorted.
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Font is a parsed font with a per-size face cache used by Measure.
// It is safe for concurrent use; faces returned by Face are not.
type Font struct {
	name string
	data []byte
	otf  *opentype.Font

	// Padding is added to each side of a measured word, in pixels.
	Padding int

	mu    sync.Mutex
	faces map[float64]font.Face

	b64     string
	b64Once sync.Once
}

// Load returns the built-in font called name, or parses the font file at path name.
func Load(name string) (*Font, error) {
	if name == "" {
		name = DefaultFont
	}
	if data, ok := builtin[name]; ok {
		return Parse(name, data)
	}

	if err := errors.ValidatePath(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font %q is neither built in (%s) nor a file",
			name, strings.Join(Builtin(), ", "))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "read font %s", name)
	}
	base := filepath.Base(name)
	return Parse(strings.TrimSuffix(base, filepath.Ext(base)), data)
}

// Parse parses TrueType or OpenType data.
func Parse(name string, data []byte) (*Font, error) {
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "parse font %s", name)
	}
	return &Font{
		name:  name,
		data:  data,
		otf:   otf,
		faces: make(map[float64]font.Face),
	}, nil
}

// Name returns the font name, which is also its CSS family in SVG output.
func (f *Font) Name() string { return f.name }

// Base64 returns the raw font data base64 encoded, computed once.
func (f *Font) Base64() string {
	f.b64Once.Do(func() {
		f.b64 = base64.StdEncoding.EncodeToString(f.data)
	})
	return f.b64
}

// Face returns a new face for size points. The caller owns it and must
// Close it; it is not shared with Measure or with other callers, so each
// goroutine rasterising with f needs its own.
func (f *Font) Face(size float64) (font.Face, error) {
	return f.newFace(size)
}

func (f *Font) faceLocked(size float64) (font.Face, error) {
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := f.newFace(size)
	if err != nil {
		return nil, err
	}
	f.faces[size] = face
	return face, nil
}

func (f *Font) newFace(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidFont, "font size must be positive, got %g", size)
	}
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "create %s face at %gpt", f.name, size)
	}
	return face, nil
}

// Measure returns the box a word occupies at size points: advance width by
// ascent plus descent, rounded up, with Padding on each side. Text with no
// advance measures to zero width, which the layout engine rejects.
func (f *Font) Measure(text string, size float64) (layout.Size, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.faceLocked(size)
	if err != nil {
		return layout.Size{}, err
	}
	m := face.Metrics()
	height := (m.Ascent + m.Descent).Ceil() + 2*f.Padding

	advance := font.MeasureString(face, text)
	if advance <= 0 {
		return layout.Size{Width: 0, Height: height}, nil
	}
	return layout.Size{Width: advance.Ceil() + 2*f.Padding, Height: height}, nil
}

// Close releases the faces cached by Measure.
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for size, face := range f.faces {
		face.Close()
		delete(f.faces, size)
	}
	return nil
}

// FontSize scales count linearly from [minCount, maxCount] onto
// [minSize, maxSize]. When all counts are equal every word gets maxSize.
func FontSize(count, minCount, maxCount int, minSize, maxSize float64) float64 {
	if maxCount <= minCount {
		return maxSize
	}
	t := float64(count-minCount) / float64(maxCount-minCount)
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return minSize + t*(maxSize-minSize)
}
