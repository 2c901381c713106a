package effects

import (
	"time"

	"github.com/coreman2200/funtimes-dotstar/model"
)

// Rainbow spreads one turn of the color wheel over the strip and rotates it.
type Rainbow struct {
	name string
	t    ticker
}

func NewRainbow(name string) *Rainbow {
	return &Rainbow{name: name, t: ticker{period: 50 * time.Millisecond}}
}

func (r *Rainbow) Name() string { return r.name }

func (r *Rainbow) Presets() []string { return []string{"Slow", "Normal", "Fast"} }

func (r *Rainbow) ApplyPreset(name string) {
	switch name {
	case "Slow":
		r.t.period = 200 * time.Millisecond
	case "Normal":
		r.t.period = 50 * time.Millisecond
	case "Fast":
		r.t.period = 10 * time.Millisecond
	}
}

func (r *Rainbow) Start(s *model.PixelStrip, now time.Time) {
	n := s.PixelCount()
	for i := 0; i < n; i++ {
		s.SetPixelRGB(i, model.Wheel(uint8(i*256/n)), model.MaxBrightness)
	}
	r.t.reset(now)
}

func (r *Rainbow) Step(s *model.PixelStrip, now time.Time) {
	if r.t.due(now) {
		s.Rotate(1)
	}
}
