package spi

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/physic"
	periphspi "periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/coreman2200/funtimes-dotstar/model"
)

// limitedPort records every transfer and advertises a maximum transfer size.
type limitedPort struct {
	max     int
	freq    physic.Frequency
	mode    periphspi.Mode
	bits    int
	txs     [][]byte
	failTx  error
	failCon error
	closed  int
}

func (p *limitedPort) String() string                        { return "limited" }
func (p *limitedPort) LimitSpeed(f physic.Frequency) error   { return nil }
func (p *limitedPort) Duplex() conn.Duplex                   { return conn.Half }
func (p *limitedPort) TxPackets(pk []periphspi.Packet) error { return nil }
func (p *limitedPort) MaxTxSize() int                        { return p.max }
func (p *limitedPort) Close() error                          { p.closed++; return nil }

func (p *limitedPort) Connect(f physic.Frequency, mode periphspi.Mode, bits int) (periphspi.Conn, error) {
	if p.failCon != nil {
		return nil, p.failCon
	}
	p.freq, p.mode, p.bits = f, mode, bits
	return p, nil
}

func (p *limitedPort) Tx(w, r []byte) error {
	if p.failTx != nil {
		return p.failTx
	}
	p.txs = append(p.txs, append([]byte(nil), w...))
	return nil
}

func TestSPI_RecordsFrame(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := NewSPI(spitest.NewRecordRaw(&buf), 0)
	require.NoError(t, err)

	strip := model.New(3, d)
	strip.SetAll(255, 0, 0, model.MaxBrightness)
	require.NoError(t, strip.Show())

	assert.Equal(t, strip.Frame(), buf.Bytes())
	assert.NoError(t, d.Close())
}

func TestSPI_Playback(t *testing.T) {
	strip := model.New(2, nil, model.WithOrder("GRB"))
	strip.SetPixel(1, 0, 0, 255, 3)
	p := &spitest.Playback{
		Playback: conntest.Playback{
			Ops:       []conntest.IO{{W: strip.Frame()}},
			DontPanic: true,
		},
	}
	d, err := NewSPI(p, 0)
	require.NoError(t, err)
	require.NoError(t, d.Send(strip.Frame()))
	// Close fails if an expected transfer never happened.
	require.NoError(t, d.Close())
}

func TestSPI_ConnectSettings(t *testing.T) {
	p := &limitedPort{}
	d, err := NewSPI(p, 8000000)
	require.NoError(t, err)
	assert.Equal(t, 8*physic.MegaHertz, p.freq)
	assert.Equal(t, periphspi.Mode0, p.mode)
	assert.Equal(t, 8, p.bits)
	assert.Equal(t, "apa102{limited}", d.String())

	_, err = NewSPI(p, 0)
	require.NoError(t, err)
	assert.Equal(t, physic.Frequency(DefaultSpeedHz)*physic.Hertz, p.freq)
}

func TestSPI_SplitsLargeFrames(t *testing.T) {
	p := &limitedPort{max: 16}
	d, err := NewSPI(p, 0)
	require.NoError(t, err)

	strip := model.New(10, d)
	strip.SetAllRGB(0x123456, 7)
	require.NoError(t, strip.Show())

	frame := strip.Frame()
	require.Len(t, frame, 45)
	require.Len(t, p.txs, 3)
	assert.Len(t, p.txs[0], 16)
	assert.Len(t, p.txs[2], 13)
	assert.Equal(t, frame, bytes.Join(p.txs, nil))
}

func TestSPI_Errors(t *testing.T) {
	_, err := NewSPI(&limitedPort{failCon: errors.New("busy")}, 0)
	assert.Error(t, err)

	cause := errors.New("eio")
	p := &limitedPort{failTx: cause}
	d, err := NewSPI(p, 0)
	require.NoError(t, err)
	err = model.New(1, d).Show()
	assert.True(t, errors.Is(err, cause), "%v", err)

	require.NoError(t, d.Close())
	assert.Equal(t, 1, p.closed)
	assert.True(t, errors.Is(d.Send([]byte{0}), ErrClosed))
	assert.NoError(t, d.Close())
	assert.Equal(t, 1, p.closed)
}

func TestDiscard(t *testing.T) {
	var d Driver = Discard{}
	assert.NoError(t, d.Send([]byte{1, 2, 3}))
	assert.NoError(t, d.Close())
}
