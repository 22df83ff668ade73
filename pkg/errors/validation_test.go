package errors

import (
	"strings"
	"testing"
)

func TestValidateImageSize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"square", 1000, 1000, false},
		{"wide", 1920, 1080, false},
		{"max side", MaxImageSide, 1, false},

		{"zero width", 0, 100, true},
		{"zero height", 100, 0, true},
		{"negative", -1, 5, true},
		{"too large", MaxImageSide + 1, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageSize(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageSize(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSize) {
				t.Errorf("ValidateImageSize code = %v, want %v", GetCode(err), ErrCodeInvalidSize)
			}
		})
	}
}

func TestValidateFontRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		wantErr  bool
	}{
		{"normal", 12, 72, false},
		{"equal", 20, 20, false},
		{"zero min", 0, 72, true},
		{"negative max", 12, -1, true},
		{"inverted", 72, 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFontRange(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFontRange(%g, %g) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "input.txt", false},
		{"absolute", "/tmp/words.txt", false},
		{"nested", "texts/novel.txt", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#fff", false},
		{"#1a2B3c", false},
		{"fff", true},
		{"#ffff", true},
		{"#ggg", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
