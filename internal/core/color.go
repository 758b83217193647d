package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

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
	ColorDim

	numColors
)

// ansi holds the 256-color code per Color; "" keeps the terminal default.
var ansi = [numColors]string{
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorYellow:        "3",
	ColorBlue:          "4",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorBrightRed:     "9",
	ColorBrightGreen:   "10",
	ColorBrightYellow:  "11",
	ColorBrightBlue:    "12",
	ColorBrightMagenta: "13",
	ColorBrightCyan:    "14",
	ColorBrightWhite:   "15",
	ColorOrange:        "208",
	ColorGray:          "245",
	ColorDim:           "240",
}

// ANSI returns the 256-color code for c, or "" for the default color and
// unknown values.
func (c Color) ANSI() string {
	if c >= numColors {
		return ""
	}
	return ansi[c]
}

// Colors returns every defined color in order.
func Colors() []Color {
	out := make([]Color, 0, numColors)
	for c := ColorDefault; c < numColors; c++ {
		out = append(out, c)
	}
	return out
}
