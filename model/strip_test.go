package model_test

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/coreman2200/funtimes-dotstar/model"
)

var AllOrders = []string{"RGB", "RBG", "GRB", "GBR", "BRG", "BGR"}

func dump(t *testing.T, s *PixelStrip) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, s.DumpArray(&buf))
	return buf.String()
}

func TestNew_MarkersPreset(t *testing.T) {
	s := New(3, nil)
	assert.Equal(t, 3, s.PixelCount())
	assert.Equal(t, MaxBrightness, s.GlobalBrightness())
	assert.Equal(t, DefaultOrder, s.Order())
	assert.Nil(t, s.Sender())
	assert.Equal(t, "[E0, 00, 00, 00, E0, 00, 00, 00, E0, 00, 00, 00]", dump(t, s))
}

func TestNew_DegenerateCounts(t *testing.T) {
	for _, n := range []int{-7, 0} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			s := New(n, nil)
			assert.Equal(t, 0, s.PixelCount())
			assert.Equal(t, "[]", dump(t, s))
			assert.Len(t, s.Frame(), 4)

			s.SetAll(1, 2, 3, MaxBrightness)
			s.SetPixel(0, 1, 2, 3, MaxBrightness)
			s.ClearStrip()
			s.Rotate(3)
			s.Rotate(-1)
			_, ok := s.PixelColor(0)
			assert.False(t, ok)
			assert.NoError(t, s.Show())
		})
	}
}

func TestNew_NilSenderFunc(t *testing.T) {
	var f SenderFunc
	s := New(2, f)
	assert.Nil(t, s.Sender())
	assert.NoError(t, s.Show())
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		In     string
		Expect Order
		OK     bool
	}{
		{"RGB", Order{R: 3, G: 2, B: 1}, true},
		{"rgb", Order{R: 3, G: 2, B: 1}, true},
		{"BGR", Order{R: 1, G: 2, B: 3}, true},
		{"GRB", Order{R: 2, G: 3, B: 1}, true},
		{"gBr", Order{R: 1, G: 3, B: 2}, true},
		{"RGBW", Order{R: 3, G: 2, B: 1}, true},
		{"RRB", DefaultOrder, false},
		{"RG", DefaultOrder, false},
		{"", DefaultOrder, false},
		{"xRGB", DefaultOrder, false},
		{"R-G", DefaultOrder, false},
	}
	for _, v := range tests {
		t.Run("Given "+strconv.Quote(v.In), func(t *testing.T) {
			o, ok := ParseOrder(v.In)
			assert.Equal(t, v.OK, ok)
			assert.Equal(t, v.Expect, o)
		})
	}
}

func TestOrderString(t *testing.T) {
	for _, name := range AllOrders {
		o, ok := ParseOrder(name)
		require.True(t, ok)
		assert.Equal(t, name, o.String())
	}
	assert.Equal(t, "Order[0 0 0]", Order{}.String())
}

func TestWithOrder_InvalidFallsBack(t *testing.T) {
	s := New(1, nil, WithOrder("RRR"))
	assert.Equal(t, DefaultOrder, s.Order())
	assert.Equal(t, [3]int{3, 2, 1}, s.Order().Offsets())
}

func TestSetPixel_RoundTripEveryOrder(t *testing.T) {
	for _, name := range AllOrders {
		t.Run(name, func(t *testing.T) {
			s := New(4, nil, WithOrder(name))
			for i := 0; i < s.PixelCount(); i++ {
				r, g, b := uint8(10*i+1), uint8(10*i+2), uint8(10*i+3)
				s.SetPixel(i, r, g, b, i)
				gr, gg, gb, ok := s.PixelColorRGB(i)
				require.True(t, ok)
				assert.Equal(t, []uint8{r, g, b}, []uint8{gr, gg, gb})
				br, ok := s.PixelBrightness(i)
				require.True(t, ok)
				assert.EqualValues(t, i, br)
			}
		})
	}
}

func TestSetPixel_PhysicalLayout(t *testing.T) {
	s := New(1, nil)
	s.SetPixel(0, 0x11, 0x22, 0x33, MaxBrightness)
	assert.Equal(t, "[FF, 33, 22, 11]", dump(t, s))

	s = New(1, nil, WithOrder("bgr"))
	s.SetPixel(0, 0x11, 0x22, 0x33, MaxBrightness)
	assert.Equal(t, "[FF, 11, 22, 33]", dump(t, s))
}

func TestSetPixel_OutOfRangeIgnored(t *testing.T) {
	s := New(3, nil)
	before := dump(t, s)
	for _, i := range []int{-1, 3, 4, 1 << 20} {
		s.SetPixel(i, 255, 255, 255, MaxBrightness)
		s.SetPixelRGB(i, 0xFFFFFF, MaxBrightness)
	}
	assert.Equal(t, before, dump(t, s))
}

func TestBrightnessScaling(t *testing.T) {
	tests := []struct {
		Global int
		Call   int
		Expect uint8
	}{
		{31, 31, 0xFF},
		{31, 15, 0xEF},
		{31, 0, 0xE0},
		{16, 31, 0xF0},
		{10, 31, 0xEA},
		{10, 15, 0xE4},
		{31, 100, 0xFF},
		{99, 31, 0xFF},
		{31, -3, 0xE0},
		{-1, 31, 0xE0},
	}
	for k, v := range tests {
		t.Run("Case"+strconv.Itoa(k), func(t *testing.T) {
			s := New(1, nil, WithGlobalBrightness(v.Global))
			s.SetPixel(0, 1, 1, 1, v.Call)
			assert.Equal(t, v.Expect, s.Frame()[4])
		})
	}
}

func TestGlobalBrightnessClamped(t *testing.T) {
	assert.Equal(t, 31, New(1, nil, WithGlobalBrightness(200)).GlobalBrightness())
	assert.Equal(t, 0, New(1, nil, WithGlobalBrightness(-4)).GlobalBrightness())
	assert.Equal(t, 12, New(1, nil, WithGlobalBrightness(12)).GlobalBrightness())
}

func TestSetPixelRGB_DropsHighBits(t *testing.T) {
	s := New(1, nil)
	s.SetPixelRGB(0, 0xAB123456, MaxBrightness)
	c, ok := s.PixelColor(0)
	require.True(t, ok)
	assert.Equal(t, uint32(0x123456), c)
}

func colors(s *PixelStrip) []uint32 {
	out := make([]uint32, s.PixelCount())
	for i := range out {
		out[i], _ = s.PixelColor(i)
	}
	return out
}

func TestSetRange(t *testing.T) {
	s := New(5, nil)
	s.SetRange(1, 3, 0xAA, 0xBB, 0xCC, 7)
	assert.Equal(t, []uint32{0, 0xAABBCC, 0xAABBCC, 0, 0}, colors(s))
	br, _ := s.PixelBrightness(2)
	assert.EqualValues(t, 7, br)

	s.SetRangeRGB(0, 4, 0x010203, MaxBrightness)
	assert.Equal(t, []uint32{0x010203, 0x010203, 0x010203, 0x010203, 0}, colors(s))
}

func TestSetRange_IgnoredBounds(t *testing.T) {
	tests := []struct {
		Start, End int
	}{
		{0, 5}, // end == count never applies
		{2, 7},
		{-1, 2},
		{3, 2},
	}
	for _, v := range tests {
		t.Run(strconv.Itoa(v.Start)+"-"+strconv.Itoa(v.End), func(t *testing.T) {
			s := New(5, nil)
			before := dump(t, s)
			s.SetRange(v.Start, v.End, 255, 255, 255, MaxBrightness)
			s.SetRangeRGB(v.Start, v.End, 0xFFFFFF, MaxBrightness)
			assert.Equal(t, before, dump(t, s))
		})
	}
}

func TestSetRange_EmptyRangeWritesNothing(t *testing.T) {
	s := New(5, nil)
	before := dump(t, s)
	s.SetRange(2, 2, 255, 255, 255, MaxBrightness)
	assert.Equal(t, before, dump(t, s))
}

func TestSetAll(t *testing.T) {
	s := New(3, nil, WithOrder("GRB"))
	s.SetAll(1, 2, 3, 4)
	assert.Equal(t, "[E4, 03, 01, 02, E4, 03, 01, 02, E4, 03, 01, 02]", dump(t, s))

	s.SetAllRGB(0xFF00FF00, MaxBrightness)
	assert.Equal(t, []uint32{0x00FF00, 0x00FF00, 0x00FF00}, colors(s))
}

func TestClearStrip_KeepsBrightness(t *testing.T) {
	s := New(4, nil)
	for i := 0; i < 4; i++ {
		s.SetPixel(i, 200, 100, 50, 8*i)
	}
	var before []uint8
	for i := 0; i < 4; i++ {
		br, _ := s.PixelBrightness(i)
		before = append(before, br)
	}

	s.ClearStrip()

	for i := 0; i < 4; i++ {
		r, g, b, ok := s.PixelColorRGB(i)
		require.True(t, ok)
		assert.Equal(t, []uint8{0, 0, 0}, []uint8{r, g, b})
		br, _ := s.PixelBrightness(i)
		assert.Equal(t, before[i], br)
	}
}

func TestQueries_Bounds(t *testing.T) {
	s := New(2, nil)
	s.SetPixel(1, 0x0A, 0x0B, 0xFF, MaxBrightness)

	str, ok := s.PixelColorString(1)
	assert.True(t, ok)
	assert.Equal(t, "#0A0BFF", str)

	for _, i := range []int{-1, 2, 3} {
		_, ok := s.PixelColorString(i)
		assert.False(t, ok, "index %d", i)
		_, ok = s.PixelColor(i)
		assert.False(t, ok, "index %d", i)
		_, _, _, ok = s.PixelColorRGB(i)
		assert.False(t, ok, "index %d", i)
		_, ok = s.PixelBrightness(i)
		assert.False(t, ok, "index %d", i)
	}
}

func TestPixels(t *testing.T) {
	s := New(2, nil, WithGlobalBrightness(20))
	s.SetPixel(0, 1, 2, 3, MaxBrightness)
	assert.Equal(t, Pixels{{R: 1, G: 2, B: 3, Brightness: 20}, {}}, s.Pixels())
	assert.Equal(t, "#010203@20", s.Pixels()[0].String())
}
