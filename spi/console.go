package spi

import (
	"fmt"
	"image"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/funtimes-dotstar/model"
)

// Console decodes frames and draws them on the terminal. It stands in for the
// strip when no SPI port is available.
type Console struct {
	mu     sync.Mutex
	order  model.Order
	drawer display.Drawer
}

// NewConsole returns a preview for a strip of n LEDs using order. Negative
// counts give an empty preview.
func NewConsole(n int, order model.Order) *Console {
	if n < 0 {
		n = 0
	}
	return newConsole(screen.New(n), order)
}

func newConsole(d display.Drawer, order model.Order) *Console {
	return &Console{order: order, drawer: d}
}

func (c *Console) Send(frame []byte) error {
	px, err := model.ParseFrame(frame, c.order)
	if err != nil {
		return fmt.Errorf("console preview: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drawer == nil {
		return ErrClosed
	}
	return c.drawer.Draw(c.drawer.Bounds(), px.Image(), image.Point{})
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drawer == nil {
		return nil
	}
	err := c.drawer.Halt()
	c.drawer = nil
	return err
}
