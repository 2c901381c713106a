package effects

import (
	"time"

	"github.com/coreman2200/funtimes-dotstar/model"
)

// Sweep lights one LED at a time from index 0 to the end, for checking wiring
// and pixel count.
type Sweep struct {
	name string
	step int
	t    ticker
}

func NewSweep(name string) *Sweep {
	return &Sweep{name: name, t: ticker{period: 100 * time.Millisecond}}
}

func (w *Sweep) Name() string { return w.name }

func (w *Sweep) Presets() []string { return []string{"Slow", "Fast"} }

func (w *Sweep) ApplyPreset(name string) {
	switch name {
	case "Slow":
		w.t.period = 500 * time.Millisecond
	case "Fast":
		w.t.period = 20 * time.Millisecond
	}
}

func (w *Sweep) Start(s *model.PixelStrip, now time.Time) {
	w.step = 0
	s.SetAll(0, 0, 0, model.MaxBrightness)
	s.SetPixel(0, 255, 255, 255, model.MaxBrightness)
	w.t.reset(now)
}

func (w *Sweep) Step(s *model.PixelStrip, now time.Time) {
	n := s.PixelCount()
	if n == 0 || !w.t.due(now) {
		return
	}
	s.SetPixel(w.step, 0, 0, 0, model.MaxBrightness)
	w.step = (w.step + 1) % n
	s.SetPixel(w.step, 255, 255, 255, model.MaxBrightness)
}

// Channels shows the whole strip red, then green, then blue, to check the
// configured color order.
type Channels struct {
	name  string
	phase int
	t     ticker
}

func NewChannels(name string) *Channels {
	return &Channels{name: name, t: ticker{period: time.Second}}
}

func (c *Channels) Name() string { return c.name }

func (c *Channels) Presets() []string { return nil }

func (c *Channels) ApplyPreset(string) {}

func (c *Channels) Start(s *model.PixelStrip, now time.Time) {
	c.phase = 0
	c.paint(s)
	c.t.reset(now)
}

func (c *Channels) Step(s *model.PixelStrip, now time.Time) {
	if c.t.due(now) {
		c.phase = (c.phase + 1) % 3
		c.paint(s)
	}
}

func (c *Channels) paint(s *model.PixelStrip) {
	switch c.phase {
	case 0:
		s.SetAll(255, 0, 0, model.MaxBrightness)
	case 1:
		s.SetAll(0, 255, 0, model.MaxBrightness)
	case 2:
		s.SetAll(0, 0, 255, model.MaxBrightness)
	}
}
