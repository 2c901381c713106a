package effects

import (
	"time"

	"github.com/coreman2200/funtimes-dotstar/model"
)

// Chase lights every third LED and walks the pattern away from the start of
// the strip, theater marquee style.
type Chase struct {
	name string
	rgb  uint32
	gap  int
	t    ticker
}

func NewChase(name string, rgb uint32) *Chase {
	return &Chase{name: name, rgb: rgb, gap: 3, t: ticker{period: 100 * time.Millisecond}}
}

func (c *Chase) Name() string { return c.name }

func (c *Chase) Presets() []string { return []string{"White", "Amber", "Sparse"} }

func (c *Chase) ApplyPreset(name string) {
	switch name {
	case "White":
		c.rgb, c.gap = model.CombineColor(255, 255, 255), 3
	case "Amber":
		c.rgb, c.gap = model.CombineColor(255, 120, 0), 3
	case "Sparse":
		c.gap = 8
	}
}

func (c *Chase) Start(s *model.PixelStrip, now time.Time) {
	s.SetAll(0, 0, 0, model.MaxBrightness)
	for i := 0; i < s.PixelCount(); i += c.gap {
		s.SetPixelRGB(i, c.rgb, model.MaxBrightness)
	}
	c.t.reset(now)
}

func (c *Chase) Step(s *model.PixelStrip, now time.Time) {
	if c.t.due(now) {
		s.Rotate(-1)
	}
}
