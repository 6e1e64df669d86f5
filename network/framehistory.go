package network

import "time"

const frameHistorySize = 64

// SentFrame records when an input frame left the client.
type SentFrame struct {
	Sequence uint32
	SentAt   time.Time
}

// FrameHistory is a ring of recently sent input frames, used to measure how
// far the server's acknowledged sequence lags behind.
type FrameHistory struct {
	history [frameHistorySize]SentFrame
	nextSeq uint32
	lastAck uint32
	rtt     time.Duration
}

// Store records that frame seq was sent at t.
func (h *FrameHistory) Store(seq uint32, t time.Time) {
	h.history[seq%frameHistorySize] = SentFrame{Sequence: seq, SentAt: t}
	h.nextSeq = seq + 1
}

// Get retrieves a stored frame by sequence number. Returns false if not found
// or if the slot has been overwritten.
func (h *FrameHistory) Get(seq uint32) (SentFrame, bool) {
	f := h.history[seq%frameHistorySize]
	if f.Sequence != seq || f.SentAt.IsZero() {
		return SentFrame{}, false
	}
	return f, true
}

// NextSeq returns the next expected sequence number.
func (h *FrameHistory) NextSeq() uint32 {
	return h.nextSeq
}

// Ack notes that the server applied every frame up to seq. Stale or repeated
// acks are ignored. The round trip is measured against the frame's send time
// when it is still in the ring.
func (h *FrameHistory) Ack(seq uint32, now time.Time) {
	if seq <= h.lastAck {
		return
	}
	h.lastAck = seq
	if f, ok := h.Get(seq); ok {
		h.rtt = now.Sub(f.SentAt)
	}
}

// Unacknowledged returns how many sent frames the server has not applied yet.
func (h *FrameHistory) Unacknowledged() int {
	if h.nextSeq == 0 || h.lastAck+1 >= h.nextSeq {
		return 0
	}
	return int(h.nextSeq - 1 - h.lastAck)
}

// RTT returns the last measured round trip.
func (h *FrameHistory) RTT() time.Duration {
	return h.rtt
}

// Reset forgets all frames, for a new session.
func (h *FrameHistory) Reset() {
	*h = FrameHistory{}
}
