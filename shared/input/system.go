package input

import "github.com/automoto/worldclient/shared/ringbuffer"

// System runs the per-tick input step. It keeps a reusable record slice so a
// steady-state tick does not allocate.
type System struct {
	records []ringbuffer.Record

	// OnDrain, when set, sees every batch of records drained from the live
	// ring buffer before they are applied. Used for recording.
	OnDrain func(tick uint64, records []ringbuffer.Record)

	tick uint64
}

// Update runs one tick in fixed order: zero the delta controls of every
// controller, drain the active controller's ring buffer into its raw state,
// then resolve the actions of every controller. Only active reads live
// input; other controllers are fed by replay or the network.
func (s *System) Update(m *Module, active *Controller) {
	extra := active != nil && !m.knows(active)

	m.ForEachController(func(c *Controller) {
		c.ResetDeltas()
	})
	if extra {
		active.ResetDeltas()
	}

	if active != nil && active.RingBuffer != nil {
		s.records = active.RingBuffer.DequeueAll(s.records[:0])
		if s.OnDrain != nil && len(s.records) > 0 {
			s.OnDrain(s.tick, s.records)
		}
		for i := range s.records {
			active.ApplyRecord(s.records[i])
		}
	}

	m.ForEachController(ResolveActions)
	if extra {
		ResolveActions(active)
	}
	s.tick++
}

// Tick returns the number of completed updates.
func (s *System) Tick() uint64 {
	return s.tick
}
