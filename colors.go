package vtterm

import "image/color"

// Color is the tagged variant carried by a cell's foreground, background,
// and underline color fields: DefaultColor, IndexedColor(0..255),
// BrightColor(0..7), or RGBColor. A nil Color means DefaultColor.
type Color interface {
	isColor()
}

// DefaultColor resolves to the screen's configured default foreground or
// background depending on where it is used.
type DefaultColor struct{}

func (DefaultColor) isColor() {}

// IndexedColor selects one of the 256 palette slots.
type IndexedColor struct {
	Index uint8
}

func (IndexedColor) isColor() {}

// BrightColor selects one of the 8 bright ANSI colors (index 8-15 of the
// palette), kept distinct from IndexedColor so SGR 90-97/100-107 round-trip
// through the Output Generator without losing the "bright" intent.
type BrightColor struct {
	Index uint8 // 0-7
}

func (BrightColor) isColor() {}

// RGBColor is a 24-bit true color.
type RGBColor struct {
	R, G, B uint8
}

func (RGBColor) isColor() {}

// DefaultPalette is the standard 256-color palette: 16 named colors (0-15),
// 216 color cube (16-231), 24 grayscale (232-255).
var DefaultPalette = [256]color.RGBA{
	{0, 0, 0, 255},
	{205, 49, 49, 255},
	{13, 188, 121, 255},
	{229, 229, 16, 255},
	{36, 114, 200, 255},
	{188, 63, 188, 255},
	{17, 168, 205, 255},
	{229, 229, 229, 255},

	{102, 102, 102, 255},
	{241, 76, 76, 255},
	{35, 209, 139, 255},
	{245, 245, 67, 255},
	{59, 142, 234, 255},
	{214, 112, 214, 255},
	{41, 184, 219, 255},
	{255, 255, 255, 255},
}

func init() {
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{gray, gray, gray, 255}
	}
}

// DefaultForeground is the default text color (light gray).
var DefaultForeground = color.RGBA{229, 229, 229, 255}

// DefaultBackground is the default background color (black).
var DefaultBackground = color.RGBA{0, 0, 0, 255}

// ResolveRGBA converts a Color to concrete RGBA against DefaultPalette.
// fg selects which absolute default (foreground/background) a nil or
// DefaultColor resolves to.
func ResolveRGBA(c Color, fg bool) color.RGBA {
	switch v := c.(type) {
	case nil:
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	case DefaultColor:
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	case IndexedColor:
		return DefaultPalette[v.Index]
	case BrightColor:
		return DefaultPalette[8+(v.Index&7)]
	case RGBColor:
		return color.RGBA{R: v.R, G: v.G, B: v.B, A: 255}
	default:
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	}
}

// colorsEqual reports whether two Color values are the same tagged variant
// with the same payload, used by the Output Generator to avoid emitting a
// redundant SGR when the pen hasn't actually changed.
func colorsEqual(a, b Color) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}
