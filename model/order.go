package model

import "fmt"

// Order holds the byte offset (1..3) within a 4-byte LED record that each of
// red, green and blue is written to.
type Order struct {
	R, G, B int
}

// DefaultOrder sends blue, green, red after the marker byte.
var DefaultOrder = Order{R: 3, G: 2, B: 1}

// ParseOrder maps an order string such as "RGB" or "gbr" onto byte offsets.
// Character i of the string lands at offset 3-i, so "RGB" yields the default
// layout. Only the first three characters are considered and each of R, G and B
// must appear exactly once among them; otherwise ok is false and DefaultOrder
// is returned.
func ParseOrder(s string) (o Order, ok bool) {
	var rc, gc, bc int
	for i := 0; i < 3 && i < len(s); i++ {
		switch s[i] {
		case 'r', 'R':
			o.R = 3 - i
			rc++
		case 'g', 'G':
			o.G = 3 - i
			gc++
		case 'b', 'B':
			o.B = 3 - i
			bc++
		}
	}
	if rc != 1 || gc != 1 || bc != 1 {
		return DefaultOrder, false
	}
	return o, true
}

// String renders the order the way ParseOrder accepts it.
func (o Order) String() string {
	if o.valid() != nil {
		return fmt.Sprintf("Order%v", o.Offsets())
	}
	var b [3]byte
	b[3-o.R] = 'R'
	b[3-o.G] = 'G'
	b[3-o.B] = 'B'
	return string(b[:])
}

// Offsets returns the offsets as an R, G, B triple.
func (o Order) Offsets() [3]int {
	return [3]int{o.R, o.G, o.B}
}

func (o Order) valid() error {
	seen := [4]bool{}
	for _, off := range o.Offsets() {
		if off < 1 || off > 3 || seen[off] {
			return fmt.Errorf("invalid channel offsets %v", o.Offsets())
		}
		seen[off] = true
	}
	return nil
}
