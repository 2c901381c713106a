package spi

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const DFLT_FPS = 30

// Looper calls Tick at a fixed frame rate until its context ends.
type Looper struct {
	FPS  int
	Tick func(now time.Time) error

	frames atomic.Uint64
	errs   atomic.Uint64
}

func (l *Looper) interval() time.Duration {
	fps := l.FPS
	if fps <= 0 {
		fps = DFLT_FPS
	}
	return time.Second / time.Duration(fps)
}

// Run blocks until ctx is done. A failing tick is logged and the loop keeps
// going.
func (l *Looper) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval())
	defer ticker.Stop()

	for ctx.Err() == nil {
		select {
		case t := <-ticker.C:
			if err := l.Tick(t); err != nil {
				if n := l.errs.Add(1); n%100 == 1 {
					log.Warn().Err(err).Uint64("errors", n).Msg("frame failed")
				}
				continue
			}
			l.frames.Add(1)

		case <-ctx.Done():
		}
	}
	log.Debug().Uint64("frames", l.frames.Load()).Msg("render loop stopped")
}

// Frames returns the number of ticks that succeeded.
func (l *Looper) Frames() uint64 { return l.frames.Load() }

// Errors returns the number of ticks that failed.
func (l *Looper) Errors() uint64 { return l.errs.Load() }
