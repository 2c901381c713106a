package effects

import (
	"time"

	"github.com/coreman2200/funtimes-dotstar/model"
)

// Solid fills the strip with a single color.
type Solid struct {
	name       string
	rgb        uint32
	brightness int
}

func NewSolid(name string, rgb uint32) *Solid {
	return &Solid{name: name, rgb: rgb, brightness: model.MaxBrightness}
}

func (s *Solid) Name() string { return s.name }

func (s *Solid) Presets() []string { return []string{"Red", "Green", "Blue", "White", "Black", "Dim"} }

func (s *Solid) ApplyPreset(name string) {
	switch name {
	case "Red":
		s.rgb = model.CombineColor(255, 0, 0)
	case "Green":
		s.rgb = model.CombineColor(0, 255, 0)
	case "Blue":
		s.rgb = model.CombineColor(0, 0, 255)
	case "White":
		s.rgb = model.CombineColor(255, 255, 255)
	case "Black":
		s.rgb = 0
	case "Dim":
		s.brightness = 4
		return
	}
	s.brightness = model.MaxBrightness
}

func (s *Solid) Start(strip *model.PixelStrip, _ time.Time) {
	strip.SetAllRGB(s.rgb, s.brightness)
}

func (s *Solid) Step(*model.PixelStrip, time.Time) {}
