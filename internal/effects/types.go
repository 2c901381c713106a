package effects

import (
	"sort"
	"time"

	"github.com/coreman2200/funtimes-dotstar/model"
)

// Effect animates a strip. Start paints the first frame, Step is called on
// every tick and advances the animation when it is due.
type Effect interface {
	Name() string
	Presets() []string
	ApplyPreset(name string)
	Start(s *model.PixelStrip, now time.Time)
	Step(s *model.PixelStrip, now time.Time)
}

type Registry struct{ m map[string]Effect }

func NewRegistry() *Registry { return &Registry{m: map[string]Effect{}} }

// Default returns a registry holding every built-in effect.
func Default() *Registry {
	reg := NewRegistry()
	reg.Register(NewSolid("solid", model.CombineColor(255, 0, 0)))
	reg.Register(NewRainbow("rainbow"))
	reg.Register(NewChase("chase", model.CombineColor(255, 255, 255)))
	reg.Register(NewSweep("sweep"))
	reg.Register(NewChannels("channels"))
	return reg
}

func (r *Registry) Register(e Effect) {
	if e == nil {
		return
	}
	r.m[e.Name()] = e
}

func (r *Registry) Get(name string) (Effect, bool) { e, ok := r.m[name]; return e, ok }

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ticker reports when a fixed period has elapsed since the last advance.
type ticker struct {
	period time.Duration
	last   time.Time
}

func (t *ticker) reset(now time.Time) { t.last = now }

func (t *ticker) due(now time.Time) bool {
	if now.Sub(t.last) < t.period {
		return false
	}
	t.last = now
	return true
}
