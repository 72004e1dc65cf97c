package affinity

import (
	"fmt"
	"image/color"
	"strings"
)

// Category is the color category tying a card to a daemon.
type Category int

const (
	Blue Category = iota
	Purple
	Red
	Yellow
)

var names = map[Category]string{
	Blue:   "Blue",
	Purple: "Purple",
	Red:    "Red",
	Yellow: "Yellow",
}

func (c Category) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Color is the tint a renderer paints cards of this category with.
func (c Category) Color() color.RGBA {
	switch c {
	case Blue:
		return color.RGBA{0x33, 0x66, 0xff, 0xff}
	case Purple:
		return color.RGBA{0x99, 0x33, 0xcc, 0xff}
	case Red:
		return color.RGBA{0xff, 0x33, 0x33, 0xff}
	case Yellow:
		return color.RGBA{0xf2, 0xc9, 0x2e, 0xff}
	default:
		return color.RGBA{0x80, 0x80, 0x80, 0xff}
	}
}

// Hex formats Color as #rrggbb.
func (c Category) Hex() string {
	rgba := c.Color()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// Parse maps a feed value to a category case-insensitively.
func Parse(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blue":
		return Blue, true
	case "purple":
		return Purple, true
	case "red":
		return Red, true
	case "yellow":
		return Yellow, true
	}
	return Blue, false
}

// FromString is Parse with def for unrecognized values.
func FromString(s string, def Category) Category {
	if c, ok := Parse(s); ok {
		return c
	}
	return def
}
