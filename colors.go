package gridterm

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultForeground is the default text color (light gray).
var DefaultForeground = color.RGBA{229, 229, 229, 255}

// DefaultBackground is the default background color (black).
var DefaultBackground = color.RGBA{0, 0, 0, 255}

// Theme supplies the colors used to render non-explicit cells and to resolve
// explicit palette indices. Cells with default (non-explicit) attributes
// re-resolve against the theme on every render, so changing the theme recolors
// them; explicit cells keep their color.
type Theme struct {
	Foreground color.RGBA
	Background color.RGBA
	Palette    [256]color.RGBA
}

// DefaultTheme returns a theme with the standard 256-color palette:
// 16 named colors (0-15), a 216-entry color cube (16-231), and a 24-step
// grayscale ramp (232-255).
func DefaultTheme() Theme {
	t := Theme{
		Foreground: DefaultForeground,
		Background: DefaultBackground,
	}

	base := [16]color.RGBA{
		{0, 0, 0, 255},       // Black
		{205, 49, 49, 255},   // Red
		{13, 188, 121, 255},  // Green
		{229, 229, 16, 255},  // Yellow
		{36, 114, 200, 255},  // Blue
		{188, 63, 188, 255},  // Magenta
		{17, 168, 205, 255},  // Cyan
		{229, 229, 229, 255}, // White
		{102, 102, 102, 255}, // Bright Black
		{241, 76, 76, 255},   // Bright Red
		{35, 209, 139, 255},  // Bright Green
		{245, 245, 67, 255},  // Bright Yellow
		{59, 142, 234, 255},  // Bright Blue
		{214, 112, 214, 255}, // Bright Magenta
		{41, 184, 219, 255},  // Bright Cyan
		{255, 255, 255, 255}, // Bright White
	}
	copy(t.Palette[:16], base[:])

	// Color cube (16-231)
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				t.Palette[i] = color.RGBA{
					R: uint8(r * 51),
					G: uint8(g * 51),
					B: uint8(b * 51),
					A: 255,
				}
				i++
			}
		}
	}

	// Grayscale (232-255)
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		t.Palette[232+j] = color.RGBA{gray, gray, gray, 255}
	}

	return t
}

// Resolve converts a cell color to RGBA. Non-explicit colors resolve to the
// theme default selected by fg.
func (t Theme) Resolve(c Color, fg bool) color.RGBA {
	switch c.Mode {
	case ColorIndexed:
		return t.Palette[c.Index]
	case ColorRGB:
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	default:
		if fg {
			return t.Foreground
		}
		return t.Background
	}
}

// ResolveFg resolves the foreground of a style, attenuating it toward the
// background for faint text.
func (t Theme) ResolveFg(s Style) color.RGBA {
	fg := t.Resolve(s.Fg, true)
	if s.Weight == WeightFaint {
		return attenuate(fg, t.Resolve(s.Bg, false))
	}
	return fg
}

// ResolveBg resolves the background of a style.
func (t Theme) ResolveBg(s Style) color.RGBA {
	return t.Resolve(s.Bg, false)
}

// attenuate blends fg toward bg to render faint text.
func attenuate(fg, bg color.RGBA) color.RGBA {
	cf, okf := colorful.MakeColor(fg)
	cb, okb := colorful.MakeColor(bg)
	if !okf || !okb {
		return fg
	}
	blended := cf.BlendLab(cb, 0.4).Clamped()
	r, g, b := blended.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
