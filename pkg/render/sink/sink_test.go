package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/tagcloud/pkg/cloud"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/fonts"
)

func testCloud() *cloud.Cloud {
	return &cloud.Cloud{
		Width: 200, Height: 100, Center: image.Pt(100, 50), Font: "goregular",
		Tags: []cloud.Tag{
			{Word: "cloud", Count: 3, FontSize: 30, Rect: image.Rect(60, 30, 140, 70)},
			{Word: "r&d", Count: 1, FontSize: 12, Rect: image.Rect(140, 40, 170, 55)},
		},
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ffffff", color.RGBA{255, 255, 255, 255}, false},
		{"#1f4e79", color.RGBA{0x1f, 0x4e, 0x79, 255}, false},
		{"#abc", color.RGBA{0xaa, 0xbb, 0xcc, 255}, false},
		{"red", color.RGBA{}, true},
		{"#12", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{0x1f, 0x4e, 0x79, 0xff}); got != "#1f4e79" {
		t.Errorf("Hex() = %q, want #1f4e79", got)
	}
}

func TestValidatePalette(t *testing.T) {
	if err := ValidatePalette(DefaultPalette); err != nil {
		t.Errorf("ValidatePalette(DefaultPalette) error: %v", err)
	}
	if err := ValidatePalette(nil); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("ValidatePalette(nil) error = %v, want %s", err, errors.ErrCodeInvalidColor)
	}
	if err := ValidatePalette([]string{"#fff", "blue"}); err == nil {
		t.Error("ValidatePalette with a named colour should fail")
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testCloud(), WithPalette("#111111", "#222222")))

	for _, want := range []string{
		`viewBox="0 0 200 100"`,
		`<rect width="100%" height="100%" fill="#ffffff"/>`,
		`<text x="100.0" y="50.0" font-size="30.0" fill="#111111">cloud</text>`,
		`fill="#222222">r&amp;d</text>`,
		`font-family="sans-serif"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q\n%s", want, svg)
		}
	}
	if strings.Contains(svg, "@font-face") {
		t.Error("SVG without WithFont should not embed a font")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not terminated")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	f, err := fonts.Load("goregular")
	if err != nil {
		t.Fatal(err)
	}
	svg := string(RenderSVG(testCloud(), WithFont(f), WithBoxes(), WithBackground("")))

	if !strings.Contains(svg, "@font-face { font-family: 'goregular'") {
		t.Error("SVG missing embedded font")
	}
	if !strings.Contains(svg, `font-family="&#39;goregular&#39;, sans-serif"`) {
		t.Errorf("SVG missing font family attribute\n%.400s", svg)
	}
	if strings.Count(svg, `stroke="#cccccc"`) != 2 {
		t.Error("WithBoxes should outline every tag")
	}
	if strings.Contains(svg, `height="100%"`) {
		t.Error("empty background should not draw a canvas rect")
	}
}

func TestRenderPNG(t *testing.T) {
	f, err := fonts.Load("goregular")
	if err != nil {
		t.Fatal(err)
	}
	c := testCloud()

	data, err := RenderPNG(c, f, WithPNGBoxes(), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode error: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 200, 100) {
		t.Errorf("bounds = %v, want 200x100", got)
	}

	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("background pixel = %v, want white", img.At(0, 0))
	}
	r, g, b, _ = img.At(60, 30).RGBA()
	if r>>8 != 204 || g>>8 != 204 || b>>8 != 204 {
		t.Errorf("box corner pixel = %v, want #cccccc", img.At(60, 30))
	}
}

func TestRenderPNGSupersampled(t *testing.T) {
	f, _ := fonts.Load("goregular")
	data, err := RenderPNG(testCloud(), f)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 200 || cfg.Height != 100 {
		t.Errorf("size = %dx%d, want 200x100", cfg.Width, cfg.Height)
	}
}

func TestRenderPNGErrors(t *testing.T) {
	f, _ := fonts.Load("goregular")

	c := testCloud()
	c.Width = 0
	if _, err := RenderPNG(c, f); !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("RenderPNG(zero width) error = %v, want %s", err, errors.ErrCodeInvalidSize)
	}

	if _, err := RenderPNG(testCloud(), f, WithPNGBackground("white")); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("RenderPNG(bad background) error = %v, want %s", err, errors.ErrCodeInvalidColor)
	}
}

func TestRenderPNGScaleLimits(t *testing.T) {
	f, _ := fonts.Load("goregular")

	tests := []struct {
		name   string
		width  int
		height int
		scale  int
		code   errors.Code
	}{
		{"scale overflow", 1000, 1000, 1 << 20, errors.ErrCodeInvalidConfig},
		{"above max scale", 200, 100, MaxScale + 1, errors.ErrCodeInvalidConfig},
		{"canvas over pixel limit", errors.MaxImageSide, errors.MaxImageSide, DefaultScale, errors.ErrCodeInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCloud()
			c.Width, c.Height = tt.width, tt.height
			_, err := RenderPNG(c, f, WithScale(tt.scale))
			if !errors.Is(err, tt.code) {
				t.Errorf("RenderPNG() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidateScale(t *testing.T) {
	if err := ValidateScale(4096, 4096, DefaultScale); err != nil {
		t.Errorf("ValidateScale(4096, 4096, %d) = %v, want nil", DefaultScale, err)
	}
	if err := ValidateScale(100, 100, 0); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ValidateScale(scale 0) = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestRenderPNGConcurrent(t *testing.T) {
	f, err := fonts.Load("goregular")
	if err != nil {
		t.Fatal(err)
	}
	want, err := RenderPNG(testCloud(), f)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}

	const workers = 32
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := RenderPNG(testCloud(), f)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(got, want) {
				errs <- errors.New(errors.ErrCodeInternal, "concurrent render differs from serial render")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testCloud())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if !bytes.Contains(data, []byte(`"word": "cloud"`)) {
		t.Errorf("JSON missing tag:\n%s", data)
	}

	back, err := cloud.Unmarshal(data)
	if err != nil {
		t.Fatalf("cloud.Unmarshal error: %v", err)
	}
	if len(back.Tags) != 2 || back.Tags[1].Rect != testCloud().Tags[1].Rect {
		t.Errorf("round trip tags = %+v", back.Tags)
	}
}
