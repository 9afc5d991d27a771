package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorSkin
	ColorBrown
)

// palette maps cartridge color IDs to terminal colors.
// Cartridges address colors by small integer IDs; index 0 is black
// which the terminal shows as its default foreground.
var palette = [...]Color{
	0:  ColorDefault,
	1:  ColorBrightRed,
	2:  ColorSkin,
	3:  ColorYellow,
	4:  ColorBlue,
	5:  ColorBrightGreen,
	6:  ColorBrown,
	7:  ColorWhite,
	8:  ColorOrange,
	9:  ColorMagenta,
	10: ColorCyan,
	11: ColorGreen,
	12: ColorGray,
	13: ColorBrightBlue,
	14: ColorBrightYellow,
	15: ColorBrightWhite,
}

// PaletteSize is the number of addressable cartridge color IDs.
const PaletteSize = len(palette)

// PaletteColor returns the terminal color for a cartridge color ID.
// Out-of-range IDs map to ColorDefault.
func PaletteColor(id int) Color {
	if id < 0 || id >= len(palette) {
		return ColorDefault
	}
	return palette[id]
}
