package tui

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestThumbnail_Shape(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		cols      int
		wantLines int
	}{
		{"square", 32, 32, 16, 8},
		{"wide", 64, 16, 16, 2},
		{"narrower than cols", 4, 4, 16, 2},
		{"flat", 100, 1, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			out := thumbnail(img, tt.cols)
			if got := len(strings.Split(out, "\n")); got != tt.wantLines {
				t.Errorf("lines = %d; want %d", got, tt.wantLines)
			}
		})
	}
}

func TestThumbnail_Nil(t *testing.T) {
	if got := thumbnail(nil, 16); got != "" {
		t.Errorf("thumbnail(nil) = %q", got)
	}
}

func TestHex(t *testing.T) {
	if got := hex(color.RGBA{R: 0xff, G: 0x80, B: 0x01, A: 0xff}); got != "#ff8001" {
		t.Errorf("hex = %s", got)
	}
}
