package sink

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// DefaultBackground is the default canvas colour.
const DefaultBackground = "#ffffff"

// DefaultPalette colours tags in placement order.
var DefaultPalette = []string{
	"#1f4e79", // navy
	"#c0504d", // brick
	"#4f8a3c", // moss
	"#8064a2", // violet
	"#d08a1c", // amber
	"#2c8c99", // teal
	"#595959", // graphite
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque colour.
func ParseHexColor(s string) (color.RGBA, error) {
	if err := errors.ValidateColor(s); err != nil {
		return color.RGBA{}, err
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Hex formats c as "#rrggbb", dropping alpha.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// ValidatePalette checks every colour of a palette.
func ValidatePalette(palette []string) error {
	if len(palette) == 0 {
		return errors.New(errors.ErrCodeInvalidColor, "palette must contain at least one colour")
	}
	for _, c := range palette {
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}

func colorAt(palette []string, i int) string {
	if len(palette) == 0 {
		return DefaultPalette[i%len(DefaultPalette)]
	}
	return palette[i%len(palette)]
}
