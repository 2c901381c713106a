package model

import (
	"bufio"
	"fmt"
	"io"
)

const (
	// MaxBrightness is the largest value the 5-bit APA102 brightness field holds.
	MaxBrightness = 31

	// BytesPerLED is the size of one LED record: marker byte plus three colors.
	BytesPerLED = 4

	ledStart   byte = 0xE0 // three "1" bits followed by 5 brightness bits
	brightMask byte = 0x1F
)

// Sender transmits one complete frame to the strip.
type Sender interface {
	Send(frame []byte) error
}

// SenderFunc adapts a plain function, such as a SPI write, to Sender.
type SenderFunc func(frame []byte) error

func (f SenderFunc) Send(frame []byte) error { return f(frame) }

// Option changes the configuration of a PixelStrip on creation.
type Option func(s *PixelStrip)

// WithGlobalBrightness sets the strip-wide brightness ceiling, clamped to
// [0, MaxBrightness].
func WithGlobalBrightness(b int) Option {
	return func(s *PixelStrip) {
		s.brightness = clampBrightness(b)
	}
}

// WithOrder sets the channel order from a string like "RGB". Strings that do
// not name each of R, G and B exactly once keep the default order.
func WithOrder(order string) Option {
	return func(s *PixelStrip) {
		s.order, _ = ParseOrder(order)
	}
}

/*
PixelStrip holds the state of an APA102 strip: one 4-byte record per LED, laid
out exactly as it is sent on the wire.

Out of range indexes and ranges are ignored rather than reported, so a running
animation never fails on a bad address.

Methods are NOT safe to call from multiple goroutines concurrently.
*/
type PixelStrip struct {
	count      int
	leds       []byte
	order      Order
	brightness int
	send       Sender
	// scratch holds the pixels that wrap around during Rotate.
	scratch []byte
}

// New allocates a strip of pixelCount LEDs, all off. A nil send makes Show a
// no-op. Negative counts yield an empty strip.
func New(pixelCount int, send Sender, opts ...Option) *PixelStrip {
	if pixelCount < 0 {
		pixelCount = 0
	}
	if f, ok := send.(SenderFunc); ok && f == nil {
		send = nil
	}
	s := &PixelStrip{
		count:      pixelCount,
		leds:       make([]byte, pixelCount*BytesPerLED),
		order:      DefaultOrder,
		brightness: MaxBrightness,
		send:       send,
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := 0; i < len(s.leds); i += BytesPerLED {
		s.leds[i] = ledStart
	}
	return s
}

func clampBrightness(b int) int {
	if b < 0 {
		return 0
	}
	if b > MaxBrightness {
		return MaxBrightness
	}
	return b
}

// PixelCount returns the number of LEDs.
func (s *PixelStrip) PixelCount() int { return s.count }

// GlobalBrightness returns the strip-wide brightness ceiling.
func (s *PixelStrip) GlobalBrightness() int { return s.brightness }

// Order returns the channel offsets in use.
func (s *PixelStrip) Order() Order { return s.order }

// Sender returns the configured send capability, or nil.
func (s *PixelStrip) Sender() Sender { return s.send }

func (s *PixelStrip) inBounds(i int) bool {
	return i >= 0 && i < s.count
}

// rangeApplies requires end to be strictly below the pixel count, so the last
// LED is never reached through a range.
func (s *PixelStrip) rangeApplies(start, end int) bool {
	return start >= 0 && end < s.count && start <= end
}

// marker computes the first byte of an LED record for a per-call brightness.
func (s *PixelStrip) marker(brightness int) byte {
	b := clampBrightness(brightness) * s.brightness / MaxBrightness
	return byte(b)&brightMask | ledStart
}

func (s *PixelStrip) write(i int, mark, r, g, b byte) {
	p := s.leds[i*BytesPerLED : (i+1)*BytesPerLED]
	p[0] = mark
	p[s.order.R] = r
	p[s.order.G] = g
	p[s.order.B] = b
}

// SetPixel sets the color and brightness (0..MaxBrightness) of one LED.
func (s *PixelStrip) SetPixel(i int, r, g, b uint8, brightness int) {
	if !s.inBounds(i) {
		return
	}
	s.write(i, s.marker(brightness), r, g, b)
}

// SetPixelRGB is SetPixel with a packed 0xRRGGBB color.
func (s *PixelStrip) SetPixelRGB(i int, rgb uint32, brightness int) {
	r, g, b := SplitColor(rgb)
	s.SetPixel(i, r, g, b, brightness)
}

// SetRange sets LEDs start (inclusive) to end (exclusive). Nothing happens
// unless 0 <= start <= end < PixelCount().
func (s *PixelStrip) SetRange(start, end int, r, g, b uint8, brightness int) {
	if !s.rangeApplies(start, end) {
		return
	}
	mark := s.marker(brightness)
	for i := start; i < end; i++ {
		s.write(i, mark, r, g, b)
	}
}

// SetRangeRGB is SetRange with a packed 0xRRGGBB color.
func (s *PixelStrip) SetRangeRGB(start, end int, rgb uint32, brightness int) {
	r, g, b := SplitColor(rgb)
	s.SetRange(start, end, r, g, b, brightness)
}

// SetAll sets every LED to the same color and brightness.
func (s *PixelStrip) SetAll(r, g, b uint8, brightness int) {
	mark := s.marker(brightness)
	for i := 0; i < s.count; i++ {
		s.write(i, mark, r, g, b)
	}
}

// SetAllRGB is SetAll with a packed 0xRRGGBB color.
func (s *PixelStrip) SetAllRGB(rgb uint32, brightness int) {
	r, g, b := SplitColor(rgb)
	s.SetAll(r, g, b, brightness)
}

// ClearStrip turns every color channel off. Brightness fields are kept.
func (s *PixelStrip) ClearStrip() {
	for i := range s.leds {
		if i%BytesPerLED != 0 {
			s.leds[i] = 0
		}
	}
}

// PixelColorRGB returns the color channels of LED i.
func (s *PixelStrip) PixelColorRGB(i int) (r, g, b uint8, ok bool) {
	if !s.inBounds(i) {
		return 0, 0, 0, false
	}
	p := s.leds[i*BytesPerLED : (i+1)*BytesPerLED]
	return p[s.order.R], p[s.order.G], p[s.order.B], true
}

// PixelColor returns the color of LED i packed as 0xRRGGBB.
func (s *PixelStrip) PixelColor(i int) (uint32, bool) {
	r, g, b, ok := s.PixelColorRGB(i)
	if !ok {
		return 0, false
	}
	return CombineColor(r, g, b), true
}

// PixelColorString returns the color of LED i as "#RRGGBB".
func (s *PixelStrip) PixelColorString(i int) (string, bool) {
	r, g, b, ok := s.PixelColorRGB(i)
	if !ok {
		return "", false
	}
	return hexColor(r, g, b), true
}

// PixelBrightness returns the 5-bit brightness field of LED i as it will be sent,
// i.e. after scaling by the global brightness.
func (s *PixelStrip) PixelBrightness(i int) (uint8, bool) {
	if !s.inBounds(i) {
		return 0, false
	}
	return s.leds[i*BytesPerLED] & brightMask, true
}

// Pixels decodes the whole buffer.
func (s *PixelStrip) Pixels() Pixels {
	px := make(Pixels, s.count)
	for i := range px {
		p := s.leds[i*BytesPerLED : (i+1)*BytesPerLED]
		px[i] = Pixel{R: p[s.order.R], G: p[s.order.G], B: p[s.order.B], Brightness: p[0] & brightMask}
	}
	return px
}

// DumpArray writes the raw buffer as "[E0, 00, 00, 00, ...]" for debugging.
func (s *PixelStrip) DumpArray(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteByte('[')
	for i, v := range s.leds {
		if i > 0 {
			bw.WriteString(", ")
		}
		fmt.Fprintf(bw, "%02X", v)
	}
	bw.WriteByte(']')
	return bw.Flush()
}
