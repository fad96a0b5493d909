package gridterm

// ColorMode selects how a cell color is interpreted.
type ColorMode uint8

const (
	// ColorDefault tracks the theme default: the cell re-resolves to the
	// current theme's foreground/background whenever the theme changes.
	ColorDefault ColorMode = iota
	// ColorIndexed is an explicit entry in the 256-color palette.
	ColorIndexed
	// ColorRGB is an explicit 24-bit color.
	ColorRGB
)

// Color is a cell color: either the theme default or an explicit value.
// The zero value is the theme default.
type Color struct {
	Mode  ColorMode
	Index uint8 // palette index when Mode == ColorIndexed
	R     uint8
	G     uint8
	B     uint8
}

// IndexedColor returns an explicit palette color (0-15 standard/bright, 16-231
// color cube, 232-255 grayscale).
func IndexedColor(index uint8) Color {
	return Color{Mode: ColorIndexed, Index: index}
}

// RGBColor returns an explicit 24-bit color.
func RGBColor(r, g, b uint8) Color {
	return Color{Mode: ColorRGB, R: r, G: g, B: b}
}

// Explicit returns true if the color is pinned rather than tracking the theme.
func (c Color) Explicit() bool {
	return c.Mode != ColorDefault
}

// Weight is the font weight of a cell. The zero value tracks the theme
// default (rendered as normal weight).
type Weight uint8

const (
	WeightDefault Weight = iota
	WeightBold
	WeightFaint
)

// Style holds the rendition attributes of a cell. The zero value is the pure
// default style: both colors track the theme, normal weight, no italic, no
// underline. Mutated by SGR sequences; applied to every character written
// until changed.
type Style struct {
	Fg        Color
	Bg        Color
	Weight    Weight
	Italic    bool
	Underline bool
}

// IsDefault returns true if every attribute tracks the theme default.
func (s Style) IsDefault() bool {
	return s == Style{}
}

// CellFlags is a bitmask of per-cell placement flags.
type CellFlags uint8

const (
	// CellFlagWide marks a character that occupies two columns (CJK, emoji).
	CellFlagWide CellFlags = 1 << iota
	// CellFlagWideSpacer marks the second column of a wide character.
	// Renderers should skip spacer cells.
	CellFlagWideSpacer
)

// Cell is one grid position: a displayed character plus its style.
type Cell struct {
	Rune  rune
	Style Style
	Flags CellFlags
}

// NewCell returns a blank cell: a space with the pure default style.
func NewCell() Cell {
	return Cell{Rune: ' '}
}

// blankCell returns an erased cell carrying the given style. Erase operations
// fill with the current text style, so cleared regions keep an explicit
// background color if one is active.
func blankCell(style Style) Cell {
	return Cell{Rune: ' ', Style: style}
}

// Reset returns the cell to the blank default state.
func (c *Cell) Reset() {
	*c = NewCell()
}

// IsWide returns true if this cell holds a two-column character.
func (c *Cell) IsWide() bool {
	return c.Flags&CellFlagWide != 0
}

// IsWideSpacer returns true if this is the second column of a wide character.
func (c *Cell) IsWideSpacer() bool {
	return c.Flags&CellFlagWideSpacer != 0
}
