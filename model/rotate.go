package model

// Rotate shifts every LED record circularly by positions. With positive values
// LEDs move towards index 0 and the ones falling off the front are appended at
// the end; negative values rotate the other way. positions is first reduced
// into [0, PixelCount()), so Rotate(-k) and Rotate(PixelCount()-k) are the same.
// Strips with fewer than two LEDs are left alone.
func (s *PixelStrip) Rotate(positions int) {
	n := s.count
	if n <= 1 {
		return
	}
	k := positions % n
	if k < 0 {
		k += n
	}
	if k == 0 {
		return
	}

	forward := true
	if k > n/2 {
		k = n - k
		forward = false
	}

	size := k * BytesPerLED
	if cap(s.scratch) < size {
		s.scratch = make([]byte, size)
	}
	tmp := s.scratch[:size]
	end := len(s.leds)

	if forward {
		copy(tmp, s.leds[:size])
		copy(s.leds, s.leds[size:])
		copy(s.leds[end-size:], tmp)
		return
	}
	copy(tmp, s.leds[end-size:])
	copy(s.leds[size:], s.leds[:end-size])
	copy(s.leds, tmp)
}
