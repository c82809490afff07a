package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// thumbnail draws img with upper half blocks, two pixel rows per text line.
func thumbnail(img image.Image, cols int) string {
	if img == nil || cols <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	if cols > b.Dx() {
		cols = b.Dx()
	}
	rows := (cols*b.Dy()/b.Dx() + 1) / 2
	if rows < 1 {
		rows = 1
	}

	at := func(x, y int) color.Color {
		px := b.Min.X + x*b.Dx()/cols
		py := b.Min.Y + y*b.Dy()/(rows*2)
		return img.At(px, py)
	}

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(at(c, 2*r)))).
				Background(lipgloss.Color(hex(at(c, 2*r+1))))
			sb.WriteString(cell.Render("▀"))
		}
		if r < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
