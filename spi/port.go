package spi

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	periphspi "periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultSpeedHz is a clock most APA102 strips accept over a few meters of wire.
const DefaultSpeedHz = 4000000

var ErrClosed = errors.New("spi driver closed")

// SPI sends APA102 frames over a periph.io SPI port.
type SPI struct {
	mu     sync.Mutex
	name   string
	closer io.Closer
	conn   periphspi.Conn
	maxTx  int
}

// Open initialises the periph host drivers and opens the named SPI port, e.g.
// "/dev/spidev0.0" or "" for the first one available.
func Open(dev string, speedHz int64) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", dev, err)
	}
	s, err := NewSPI(p, speedHz)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

// NewSPI connects to an already opened port in mode 0 with 8 bit words. If
// the port is an io.Closer it is closed by Close.
func NewSPI(p periphspi.Port, speedHz int64) (*SPI, error) {
	if speedHz <= 0 {
		speedHz = DefaultSpeedHz
	}
	c, err := p.Connect(physic.Frequency(speedHz)*physic.Hertz, periphspi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("spi connect %s at %dHz: %w", p, speedHz, err)
	}
	s := &SPI{name: p.String(), conn: c}
	if cl, ok := p.(io.Closer); ok {
		s.closer = cl
	}
	if l, ok := c.(conn.Limits); ok {
		s.maxTx = l.MaxTxSize()
	}
	return s, nil
}

func (s *SPI) String() string {
	return "apa102{" + s.name + "}"
}

// Send writes the frame. Frames larger than the port's maximum transfer size
// are split; APA102 is clocked, so the pause between transfers is harmless.
func (s *SPI) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrClosed
	}
	for len(frame) > 0 {
		chunk := frame
		if s.maxTx > 0 && len(chunk) > s.maxTx {
			chunk = chunk[:s.maxTx]
		}
		if err := s.conn.Tx(chunk, nil); err != nil {
			return fmt.Errorf("spi write: %w", err)
		}
		frame = frame[len(chunk):]
	}
	return nil
}

func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = nil
	if s.closer != nil {
		err := s.closer.Close()
		s.closer = nil
		return err
	}
	return nil
}
