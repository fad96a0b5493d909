package gridterm

import (
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ScreenshotConfig controls how the screen is rendered to an image.
type ScreenshotConfig struct {
	// Font face to use for rendering. When nil, basicfont.Face7x13 is used.
	Font font.Face

	// CellWidth and CellHeight override the cell dimensions. When zero they
	// are derived from font metrics.
	CellWidth  int
	CellHeight int

	// Theme overrides the terminal's own theme.
	Theme *Theme

	// CursorColor fills the cursor cell. When nil the cell is inverted.
	CursorColor *color.RGBA

	// HideCursor suppresses cursor rendering even when the cursor is visible.
	HideCursor bool
}

// LoadFont loads a TrueType or OpenType font from a file path.
func LoadFont(path string, size float64) (font.Face, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadFontFromReader(f, size)
}

// LoadFontFromReader loads a TrueType or OpenType font from an io.Reader.
func LoadFontFromReader(r io.Reader, size float64) (font.Face, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return LoadFontFromBytes(data, size)
}

// LoadFontFromBytes loads a TrueType or OpenType font from raw bytes.
func LoadFontFromBytes(data []byte, size float64) (font.Face, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}

	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Screenshot renders the screen to an RGBA image with default settings.
func (t *Terminal) Screenshot() *image.RGBA {
	return t.ScreenshotWithConfig(&ScreenshotConfig{})
}

// ScreenshotWithConfig renders the screen to an RGBA image.
func (t *Terminal) ScreenshotWithConfig(cfg *ScreenshotConfig) *image.RGBA {
	snap := t.Snapshot()

	face := cfg.Font
	if face == nil {
		face = basicfont.Face7x13
	}

	cellWidth := cfg.CellWidth
	cellHeight := cfg.CellHeight
	if cellWidth == 0 {
		adv, _ := face.GlyphAdvance('M')
		cellWidth = adv.Ceil()
		if cellWidth == 0 {
			cellWidth = 7
		}
	}
	if cellHeight == 0 {
		cellHeight = face.Metrics().Height.Ceil()
	}

	theme := snap.Theme
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}

	imgWidth := snap.Cols * cellWidth
	imgHeight := snap.Rows * cellHeight
	img := image.NewRGBA(image.Rect(0, 0, imgWidth, imgHeight))

	fillRect(img, 0, 0, imgWidth, imgHeight, theme.Background)

	baselineOffset := face.Metrics().Ascent.Ceil()

	for row := 0; row < snap.Rows; row++ {
		for col := 0; col < snap.Cols; col++ {
			cell := snap.Cell(row, col)
			if cell.IsWideSpacer() {
				continue
			}

			x := col * cellWidth
			y := row * cellHeight
			width := cellWidth
			if cell.IsWide() {
				width = cellWidth * 2
			}

			fg := theme.ResolveFg(cell.Style)
			bg := theme.ResolveBg(cell.Style)

			fillRect(img, x, y, width, cellHeight, bg)

			if cell.Rune != 0 && cell.Rune != ' ' {
				d := &font.Drawer{
					Dst:  img,
					Src:  image.NewUniform(fg),
					Face: face,
					Dot:  fixed.P(x, y+baselineOffset),
				}
				d.DrawString(string(cell.Rune))
			}

			if cell.Style.Underline {
				underlineY := y + baselineOffset + 2
				if underlineY < imgHeight {
					for px := 0; px < width; px++ {
						img.Set(x+px, underlineY, fg)
					}
				}
			}
		}
	}

	if snap.CursorVisible && !cfg.HideCursor {
		drawCursor(img, cfg, snap.CursorCol*cellWidth, snap.CursorRow*cellHeight,
			cellWidth, cellHeight)
	}

	return img
}

func fillRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	bounds := img.Bounds()
	for py := y; py < y+h && py < bounds.Max.Y; py++ {
		for px := x; px < x+w && px < bounds.Max.X; px++ {
			img.SetRGBA(px, py, c)
		}
	}
}

func drawCursor(img *image.RGBA, cfg *ScreenshotConfig, x, y, w, h int) {
	if cfg.CursorColor != nil {
		fillRect(img, x, y, w, h, *cfg.CursorColor)
		return
	}

	bounds := img.Bounds()
	for py := y; py < y+h && py < bounds.Max.Y; py++ {
		for px := x; px < x+w && px < bounds.Max.X; px++ {
			existing := img.RGBAAt(px, py)
			img.SetRGBA(px, py, color.RGBA{
				R: 255 - existing.R,
				G: 255 - existing.G,
				B: 255 - existing.B,
				A: 255,
			})
		}
	}
}
