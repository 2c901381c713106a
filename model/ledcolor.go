package model

import (
	"fmt"
	"image/color"
)

// Bit offsets of each channel within a packed 0xRRGGBB value.
const (
	RED_OFFSET   uint8 = 0x10
	GREEN_OFFSET uint8 = 0x08
	BLUE_OFFSET  uint8 = 0x0
)

const rgbMask uint32 = 0xFFFFFF

func setcolor(c uint32, n uint8, off uint8) uint32 {
	var val uint32 = uint32(n) << off
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | val
}

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & (mask)) >> off)
}

// CombineColor packs three channel values into 0xRRGGBB.
func CombineColor(r, g, b uint8) uint32 {
	var c uint32
	c = setcolor(c, r, RED_OFFSET)
	c = setcolor(c, g, GREEN_OFFSET)
	c = setcolor(c, b, BLUE_OFFSET)
	return c
}

// SplitColor is the inverse of CombineColor. Bits above the low 24 are ignored.
func SplitColor(rgb uint32) (r, g, b uint8) {
	rgb &= rgbMask
	return getcolor(rgb, RED_OFFSET), getcolor(rgb, GREEN_OFFSET), getcolor(rgb, BLUE_OFFSET)
}

// Wheel maps a position on a color wheel to a packed color. The wheel cycles
// Green -> Red -> Blue -> Green over three bands of 85 steps.
func Wheel(pos uint8) uint32 {
	switch {
	case pos < 85:
		p := pos * 3
		return CombineColor(p, 255-p, 0)
	case pos < 170:
		p := (pos - 85) * 3
		return CombineColor(255-p, 0, p)
	default:
		p := (pos - 170) * 3
		return CombineColor(0, p, 255-p)
	}
}

func hexColor(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Pixel is a decoded LED record: color plus its 5-bit brightness field.
type Pixel struct {
	R, G, B    uint8
	Brightness uint8
}

func (p Pixel) String() string {
	return fmt.Sprintf("%s@%d", hexColor(p.R, p.G, p.B), p.Brightness)
}

// NRGBA scales the color by the pixel's brightness, approximating what the LED
// actually shows.
func (p Pixel) NRGBA() color.NRGBA {
	br := uint32(p.Brightness & brightMask)
	return color.NRGBA{
		R: uint8(uint32(p.R) * br / MaxBrightness),
		G: uint8(uint32(p.G) * br / MaxBrightness),
		B: uint8(uint32(p.B) * br / MaxBrightness),
		A: 255,
	}
}
