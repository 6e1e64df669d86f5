package ringbuffer

import (
	"math"
	"sync/atomic"
)

// ScreenCoords is the scalar side channel that travels next to the ring buffer
// in the session bootstrap. The capture side stores the pointer position in
// normalized device coordinates every time the mouse moves; any other context
// may read the latest value at any time. Each axis is a single atomic word, so
// a reader can observe x from one move and y from the next, which is fine for a
// continuously overwritten position.
type ScreenCoords struct {
	x atomic.Uint32
	y atomic.Uint32
}

// Store publishes a new pointer position.
func (c *ScreenCoords) Store(x, y float32) {
	c.x.Store(math.Float32bits(x))
	c.y.Store(math.Float32bits(y))
}

// Load returns the most recently published pointer position.
func (c *ScreenCoords) Load() (x, y float32) {
	return math.Float32frombits(c.x.Load()), math.Float32frombits(c.y.Load())
}

// NDCX converts a client-space x coordinate to [-1, 1].
func NDCX(clientX, width float64) float32 {
	if width <= 0 {
		return 0
	}
	return float32(clientX/width*2 - 1)
}

// NDCY converts a client-space y coordinate to [-1, 1] with +y pointing up.
func NDCY(clientY, height float64) float32 {
	if height <= 0 {
		return 0
	}
	return float32(-(clientY/height)*2 + 1)
}
