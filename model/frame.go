package model

import (
	"errors"
	"fmt"
	"image"
)

// startFrameLen is the run of zero bytes that precedes the first LED record.
const startFrameLen = 4

var (
	ErrFrameLength = errors.New("frame length does not match pixel count")
	ErrStartFrame  = errors.New("start frame is not zero")
	ErrMarker      = errors.New("LED record without 0b111 marker")
)

// EndFrameLen is the number of trailing zero bytes sent after n LEDs: one per
// 16 LEDs, rounded up, which gives the n/2 extra clock edges the data needs to
// propagate to the end of the strip.
func EndFrameLen(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 15) / 16
}

// FrameLen is the total size of a frame for n LEDs.
func FrameLen(n int) int {
	if n < 0 {
		n = 0
	}
	return startFrameLen + n*BytesPerLED + EndFrameLen(n)
}

// Frame builds the bytes to put on the wire: start frame, every LED record in
// order, end frame.
func (s *PixelStrip) Frame() []byte {
	frame := make([]byte, FrameLen(s.count))
	copy(frame[startFrameLen:], s.leds)
	return frame
}

// Show hands the current frame to the sender in a single call. Without a
// sender it does nothing.
func (s *PixelStrip) Show() error {
	if s.send == nil {
		return nil
	}
	if err := s.send.Send(s.Frame()); err != nil {
		return fmt.Errorf("show %d leds: %w", s.count, err)
	}
	return nil
}

// Pixels is a decoded frame.
type Pixels []Pixel

// Image renders the pixels as a single row, brightness applied.
func (px Pixels) Image() *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, len(px), 1))
	for x := 0; x < im.Rect.Max.X; x++ {
		im.SetNRGBA(x, 0, px[x].NRGBA())
	}
	return im
}

// RGB flattens the pixel colors into r, g, b triplets.
func (px Pixels) RGB() []byte {
	out := make([]byte, 0, len(px)*3)
	for _, p := range px {
		out = append(out, p.R, p.G, p.B)
	}
	return out
}

// ParseFrame decodes a frame produced by Frame for a strip using order. The
// pixel count is derived from the frame length.
func ParseFrame(frame []byte, order Order) (Pixels, error) {
	if err := order.valid(); err != nil {
		return nil, err
	}
	n, ok := pixelsForFrame(len(frame))
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameLength, len(frame))
	}
	for i := 0; i < startFrameLen; i++ {
		if frame[i] != 0 {
			return nil, fmt.Errorf("%w: byte %d is %#02x", ErrStartFrame, i, frame[i])
		}
	}
	px := make(Pixels, n)
	for i := range px {
		p := frame[startFrameLen+i*BytesPerLED : startFrameLen+(i+1)*BytesPerLED]
		if p[0]&ledStart != ledStart {
			return nil, fmt.Errorf("%w: led %d has %#02x", ErrMarker, i, p[0])
		}
		px[i] = Pixel{R: p[order.R], G: p[order.G], B: p[order.B], Brightness: p[0] & brightMask}
	}
	return px, nil
}

// pixelsForFrame inverts FrameLen.
func pixelsForFrame(size int) (int, bool) {
	if size < startFrameLen {
		return 0, false
	}
	// Every LED adds 4 bytes plus at most one end byte, so n is close to
	// (size-4)/4 and only a few candidates need checking.
	hi := (size - startFrameLen) / BytesPerLED
	for n := hi; n >= 0 && n >= hi-1-hi/64; n-- {
		if FrameLen(n) == size {
			return n, true
		}
	}
	return 0, false
}
