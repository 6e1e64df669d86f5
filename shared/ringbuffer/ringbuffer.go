// Package ringbuffer implements the single-producer/single-consumer queue that
// carries raw input records from the capture goroutine to the simulation
// goroutine.
//
// Thread-Safety:
//   - Enqueue: producer goroutine only
//   - DequeueAll: consumer goroutine only
//   - the write cursor has exactly one writer (producer) and the read cursor
//     exactly one writer (consumer); no locks are taken
//
// Memory ordering: the producer encodes the record bytes and then stores the
// write cursor; the consumer loads the write cursor before reading any bytes and
// stores the read cursor only after the records have been copied out. Go atomics
// are sequentially consistent, which gives the release/acquire pairing both
// sides depend on. Do not add a second producer without redesigning the
// full/empty disambiguation.
package ringbuffer

import (
	"fmt"
	"sync/atomic"
)

// DefaultCapacity is the number of record slots allocated for a session.
const DefaultCapacity = 512

// cursorBytes is the size of the two u32 cursors that head the buffer.
const cursorBytes = 8

// RingBuffer is a fixed-capacity circular queue of fixed-width records.
// One slot always stays empty so that write == read means empty and
// write+1 == read means full.
type RingBuffer struct {
	write atomic.Uint32 // next slot the producer fills
	read  atomic.Uint32 // next slot the consumer drains

	mask uint32
	data []byte
}

// New allocates a ring buffer with room for capacity slots. Capacity must be a
// power of two so the cursors wrap with a mask; capacity-1 records fit at once.
func New(capacity int) (*RingBuffer, error) {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("ringbuffer: capacity %d is not a power of two >= 2", capacity)
	}
	if capacity > 1<<24 {
		return nil, fmt.Errorf("ringbuffer: capacity %d too large", capacity)
	}
	return &RingBuffer{
		mask: uint32(capacity - 1),
		data: make([]byte, capacity*RecordSize),
	}, nil
}

// Enqueue encodes one record at the write cursor. It never blocks: when the
// buffer is full it returns false and leaves the buffer untouched, and the
// caller is expected to drop the event.
func (rb *RingBuffer) Enqueue(inputSourceID, componentID, button uint8, x, y, z, w float32, state uint32) bool {
	return rb.EnqueueRecord(Record{
		InputSourceID: inputSourceID,
		ComponentID:   componentID,
		Button:        button,
		X:             x,
		Y:             y,
		Z:             z,
		W:             w,
		State:         state,
	})
}

// EnqueueRecord is Enqueue for an already assembled Record.
func (rb *RingBuffer) EnqueueRecord(r Record) bool {
	wr := rb.write.Load()
	next := (wr + 1) & rb.mask
	if next == rb.read.Load() {
		return false
	}

	off := int(wr) * RecordSize
	r.Encode(rb.data[off : off+RecordSize])

	rb.write.Store(next) // MUST be after the record bytes
	return true
}

// DequeueAll appends every unread record to dst in FIFO order and returns the
// extended slice. Only records published before the call are drained; anything
// the producer adds concurrently is left for the next call. Drained records are
// gone.
func (rb *RingBuffer) DequeueAll(dst []Record) []Record {
	rd := rb.read.Load()
	wr := rb.write.Load()

	for rd != wr {
		off := int(rd) * RecordSize
		dst = append(dst, DecodeRecord(rb.data[off:off+RecordSize]))
		rd = (rd + 1) & rb.mask
	}

	rb.read.Store(rd) // MUST be after the copy
	return dst
}

// Len returns the number of unread records. It is only a snapshot when called
// while the other side is active.
func (rb *RingBuffer) Len() int {
	return int((rb.write.Load() - rb.read.Load()) & rb.mask)
}

// Cap returns the number of slots. At most Cap()-1 records are stored at once.
func (rb *RingBuffer) Cap() int {
	return int(rb.mask) + 1
}

// ByteSize returns the memory footprint of the shared region: record storage
// plus the two cursor words.
func (rb *RingBuffer) ByteSize() int {
	return len(rb.data) + cursorBytes
}
