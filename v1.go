package uuid

import (
	"fmt"
	"time"
)

const (
	// epochOffsetMillis is the number of milliseconds between the UUID epoch
	// (1582-10-15T00:00:00Z) and the Unix epoch.
	epochOffsetMillis = gregorianToUnix / 10000

	// ticksPerMilli is the number of 100ns intervals in one millisecond.
	ticksPerMilli = 10000

	// maxTickAdvance bounds Tick before an advance. Tick grows by at most 16,
	// so it never reaches ticksPerMilli.
	maxTickAdvance = 9984

	// maxTimestamp keeps Timestamp*ticksPerMilli+Tick inside 60 bits.
	maxTimestamp = (1<<60)/ticksPerMilli - 1

	sequenceMask = 0x3fff
	nodeMask     = 1<<48 - 1

	// multicastBit is the least significant bit of the first node octet.
	multicastBit = 1 << 40
)

// ClockState is the mutable state behind version 1 generation.
//
// Timestamp counts host-clock milliseconds since the UUID epoch and Tick is
// a synthetic 100ns fraction within that millisecond, so the 60-bit UUID
// timestamp is Timestamp*10000 + Tick. Sequence is the 14-bit clock
// sequence and Node the 48-bit node id with its multicast bit set.
type ClockState struct {
	Timestamp int64
	Tick      int
	Sequence  uint16
	Node      uint64
}

// NewClockState returns a freshly seeded state: no timestamp observed yet,
// random sequence, tick and node.
func NewClockState(src RandomSource) ClockState {
	return ClockState{
		Timestamp: 0,
		Sequence:  uint16(mustRandomBits(src, 14)),
		Tick:      int(mustRandomBits(src, 4)),
		Node:      (mustRandomBits(src, 8)|1)<<40 | mustRandomBits(src, 40),
	}
}

// validate checks a state restored from outside and normalizes the bits
// the generator always forces.
func (st ClockState) validate() (ClockState, error) {
	switch {
	case st.Timestamp < 0 || st.Timestamp > maxTimestamp:
		return st, fmt.Errorf("%w: timestamp %d out of range", ErrInvalidFieldValue, st.Timestamp)
	case st.Tick < 0 || st.Tick >= ticksPerMilli:
		return st, fmt.Errorf("%w: tick %d out of range", ErrInvalidFieldValue, st.Tick)
	case st.Node&^nodeMask != 0:
		return st, fmt.Errorf("%w: node %#x wider than 48 bits", ErrInvalidFieldValue, st.Node)
	}
	st.Sequence &= sequenceMask
	st.Node |= multicastBit
	return st, nil
}

// NewV1 returns a time-based (version 1) UUID using the generator's clock.
// If the clock fails the state is left untouched and the error wraps
// ErrClockUnavailable.
func (g *Generator) NewV1() (UUID, error) {
	now, err := g.clock()
	if err != nil {
		return Nil, fmt.Errorf("%w: %w", ErrClockUnavailable, err)
	}
	return g.NewV1WithTime(now)
}

// NewV1WithTime returns a version 1 UUID as if the host clock read t.
//
// Within one millisecond the generator either advances the synthetic tick
// (with probability equal to the timestamp ratio, while there is room) or
// bumps the clock sequence, so successive UUIDs never repeat. A clock that
// moves backwards also bumps the sequence.
func (g *Generator) NewV1WithTime(t time.Time) (UUID, error) {
	now := t.UnixMilli() + epochOffsetMillis
	if now < 0 || now > maxTimestamp {
		return Nil, fmt.Errorf("%w: %s outside the representable range", ErrClockUnavailable, t.UTC().Format(time.RFC3339))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	st := &g.state
	if now != st.Timestamp {
		if now < st.Timestamp {
			st.Sequence++
		}
		st.Timestamp = now
		st.Tick = int(mustRandomBits(g.rand, 4))
	} else if g.rand.Float64() < g.ratio && st.Tick < maxTickAdvance {
		st.Tick += 1 + int(mustRandomBits(g.rand, 4))
	} else {
		st.Sequence++
	}
	st.Sequence &= sequenceMask

	ts := uint64(st.Timestamp)*ticksPerMilli + uint64(st.Tick)
	return New(Fields{
		TimeLow:               uint32(ts),
		TimeMid:               uint16(ts >> 32),
		TimeHiAndVersion:      uint16(ts>>48)&0x0fff | 0x1000, // version 0001
		ClockSeqHiAndReserved: uint8(st.Sequence>>8) | 0x80,   // variant 10
		ClockSeqLow:           uint8(st.Sequence),
		Node:                  st.Node,
	})
}

// Reset replaces the clock state with a freshly seeded one. UUIDs generated
// after a reset carry no ordering relation to those generated before.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = NewClockState(g.rand)
}

// State returns a copy of the current clock state, suitable for stable storage.
func (g *Generator) State() ClockState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
