package ringbuffer

import (
	"encoding/binary"
	"math"
)

// RecordSize is the wire size of one Record in bytes:
// u8 source, u8 component, u8 button, 4 x f32 axes, u32 state.
const RecordSize = 3 + 4*4 + 4

// Field offsets within an encoded record. Order and widths are part of the
// wire format and must not change.
const (
	offSource    = 0
	offComponent = 1
	offButton    = 2
	offX         = 3
	offY         = 7
	offZ         = 11
	offW         = 15
	offState     = 19
)

// Record is one discrete input event as it travels through the ring buffer.
type Record struct {
	InputSourceID uint8
	ComponentID   uint8
	Button        uint8
	X, Y, Z, W    float32
	State         uint32
}

// Encode writes r into b, which must be at least RecordSize bytes.
func (r Record) Encode(b []byte) {
	_ = b[RecordSize-1]
	b[offSource] = r.InputSourceID
	b[offComponent] = r.ComponentID
	b[offButton] = r.Button
	binary.LittleEndian.PutUint32(b[offX:], math.Float32bits(r.X))
	binary.LittleEndian.PutUint32(b[offY:], math.Float32bits(r.Y))
	binary.LittleEndian.PutUint32(b[offZ:], math.Float32bits(r.Z))
	binary.LittleEndian.PutUint32(b[offW:], math.Float32bits(r.W))
	binary.LittleEndian.PutUint32(b[offState:], r.State)
}

// DecodeRecord reads a Record from b, which must be at least RecordSize bytes.
func DecodeRecord(b []byte) Record {
	_ = b[RecordSize-1]
	return Record{
		InputSourceID: b[offSource],
		ComponentID:   b[offComponent],
		Button:        b[offButton],
		X:             math.Float32frombits(binary.LittleEndian.Uint32(b[offX:])),
		Y:             math.Float32frombits(binary.LittleEndian.Uint32(b[offY:])),
		Z:             math.Float32frombits(binary.LittleEndian.Uint32(b[offZ:])),
		W:             math.Float32frombits(binary.LittleEndian.Uint32(b[offW:])),
		State:         binary.LittleEndian.Uint32(b[offState:]),
	}
}
