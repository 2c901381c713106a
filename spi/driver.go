package spi

// Driver abstracts an APA102 frame sink.
type Driver interface {
	// Send pushes one complete frame (start frame, LED records, end frame).
	Send(frame []byte) error
	// Close releases resources.
	Close() error
}

// Discard is a Driver that drops every frame.
type Discard struct{}

func (Discard) Send([]byte) error { return nil }
func (Discard) Close() error      { return nil }
