// Package replay records the records drained from the live ring buffer each
// tick and plays them back through a ring buffer, so a recorded session
// resolves to exactly the same action states.
//
// A recording is a msgpack stream: one Header followed by one Frame per tick
// that drained at least one record.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/automoto/worldclient/shared/ringbuffer"
	"github.com/hako/durafmt"
	"github.com/hashicorp/go-msgpack/v2/codec"
)

// FormatVersion is bumped when Header or Frame change shape.
const FormatVersion = 1

var (
	ErrBadVersion    = errors.New("unsupported recording version")
	ErrTableMismatch = errors.New("recording uses a different key-code table")
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// Header opens every recording.
type Header struct {
	Version      int
	TableVersion int
	TickRate     int
	Created      int64 // Unix ms
}

// Frame is everything drained on one tick.
type Frame struct {
	Tick    uint64
	Records []ringbuffer.Record
}

// FormatDuration renders d the way recordings are summarised in logs.
func FormatDuration(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

func ticksToDuration(ticks uint64, tickRate int) time.Duration {
	if tickRate <= 0 {
		return 0
	}
	return time.Duration(ticks) * time.Second / time.Duration(tickRate)
}

// Recorder writes frames to a recording. Use it from the simulation
// goroutine only.
type Recorder struct {
	w      *bufio.Writer
	closer io.Closer
	enc    *codec.Encoder
	header Header

	frames  int
	records int
	first   uint64
	last    uint64
	err     error
}

// Create starts a recording file at path.
func Create(path string, tickRate int) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	r, err := NewRecorder(f, tickRate)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewRecorder writes a recording to w.
func NewRecorder(w io.Writer, tickRate int) (*Recorder, error) {
	bw := bufio.NewWriter(w)
	r := &Recorder{
		w:   bw,
		enc: codec.NewEncoder(bw, &codec.MsgpackHandle{}),
		header: Header{
			Version:      FormatVersion,
			TableVersion: inputsource.TableVersion,
			TickRate:     tickRate,
			Created:      time.Now().UnixMilli(),
		},
	}
	if err := r.enc.Encode(r.header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return r, nil
}

// Record appends one tick's records. After the first write error every
// later call returns that error without writing.
func (r *Recorder) Record(tick uint64, records []ringbuffer.Record) error {
	if r.err != nil {
		return r.err
	}
	if len(records) == 0 {
		return nil
	}
	if err := r.enc.Encode(Frame{Tick: tick, Records: records}); err != nil {
		r.err = fmt.Errorf("write frame %d: %w", tick, err)
		return r.err
	}
	if r.frames == 0 {
		r.first = tick
	}
	r.last = tick
	r.frames++
	r.records += len(records)
	return nil
}

// Duration is the span between the first and last recorded tick.
func (r *Recorder) Duration() time.Duration {
	if r.frames == 0 {
		return 0
	}
	return ticksToDuration(r.last-r.first+1, r.header.TickRate)
}

// Close flushes the recording and closes the file it was created with.
func (r *Recorder) Close() error {
	err := r.w.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	log.Printf("[replay] recorded %d records in %d frames (%s)", r.records, r.frames, FormatDuration(r.Duration()))
	if err != nil {
		return fmt.Errorf("close recording: %w", err)
	}
	return r.err
}

// Player feeds a loaded recording back into a ring buffer one tick at a
// time.
type Player struct {
	header Header
	frames []Frame
	base   uint64
	tick   uint64
	next   int
}

// Open loads the recording at path.
func Open(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a whole recording from r.
func Load(r io.Reader) (*Player, error) {
	dec := codec.NewDecoder(bufio.NewReader(r), &codec.MsgpackHandle{})

	p := &Player{}
	if err := dec.Decode(&p.header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if p.header.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, p.header.Version)
	}
	if p.header.TableVersion != inputsource.TableVersion {
		return nil, fmt.Errorf("%w: %d, have %d", ErrTableMismatch, p.header.TableVersion, inputsource.TableVersion)
	}

	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read frame %d: %w", len(p.frames), err)
		}
		p.frames = append(p.frames, f)
	}
	if len(p.frames) > 0 {
		p.base = p.frames[0].Tick
	}
	return p, nil
}

// Header returns the recording's header.
func (p *Player) Header() Header {
	return p.header
}

// Frames returns the number of recorded frames.
func (p *Player) Frames() int {
	return len(p.frames)
}

// Duration is the recording's length at its own tick rate.
func (p *Player) Duration() time.Duration {
	if len(p.frames) == 0 {
		return 0
	}
	return ticksToDuration(p.frames[len(p.frames)-1].Tick-p.base+1, p.header.TickRate)
}

// Done reports whether every frame has been played.
func (p *Player) Done() bool {
	return p.next >= len(p.frames)
}

// Step enqueues the records recorded for the current playback tick into rb
// and advances one tick. Call it right before the tick that drains rb. It
// returns the number of records that did not fit.
func (p *Player) Step(rb *ringbuffer.RingBuffer) (dropped int) {
	for p.next < len(p.frames) && p.frames[p.next].Tick-p.base <= p.tick {
		for _, rec := range p.frames[p.next].Records {
			if !rb.EnqueueRecord(rec) {
				dropped++
			}
		}
		p.next++
	}
	p.tick++
	return dropped
}

// Rewind restarts playback from the first frame.
func (p *Player) Rewind() {
	p.tick = 0
	p.next = 0
}
