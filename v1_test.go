package uuid

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"
)

// newTestGenerator returns a generator with a seeded random source.
// The source is not safe for concurrent use.
func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	opts = append([]Option{WithRandomSource(rand.New(rand.NewPCG(42, 1024)))}, opts...)
	gen, err := NewGenerator(opts...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return gen
}

func millisSinceEpoch(t time.Time) int64 {
	return t.UnixMilli() + epochOffsetMillis
}

func TestNewV1(t *testing.T) {
	uuid, err := NewV1()
	if err != nil {
		t.Fatalf("NewV1() error = %v", err)
	}

	if uuid.Version() != VersionTimeBased {
		t.Errorf("NewV1() version = %v, want %v", uuid.Version(), VersionTimeBased)
	}
	if uuid.Variant() != VariantRFC4122 {
		t.Errorf("NewV1() variant = %v, want %v", uuid.Variant(), VariantRFC4122)
	}
}

func TestGenerator_NewV1_VersionAndVariant(t *testing.T) {
	gen := newTestGenerator(t)
	for i := 0; i < 1000; i++ {
		uuid, err := gen.NewV1()
		if err != nil {
			t.Fatalf("Generator.NewV1() error = %v", err)
		}
		if uuid.Version() != VersionTimeBased {
			t.Fatalf("Generator.NewV1() version = %v, want %v", uuid.Version(), VersionTimeBased)
		}
		if uuid[8]&0xc0 != 0x80 {
			t.Fatalf("Generator.NewV1() variant bits = %02b, want 10", uuid[8]>>6)
		}
	}
}

func TestGenerator_NewV1WithTime_Fields(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	st := ClockState{Timestamp: millisSinceEpoch(now) - 1, Tick: 0, Sequence: 0x1234, Node: 0x0123456789ab}
	gen := newTestGenerator(t, WithClockState(st))

	uuid, err := gen.NewV1WithTime(now)
	if err != nil {
		t.Fatalf("NewV1WithTime() error = %v", err)
	}

	after := gen.State()
	ts := uint64(after.Timestamp)*ticksPerMilli + uint64(after.Tick)
	f := uuid.Fields()
	if f.TimeLow != uint32(ts) {
		t.Errorf("TimeLow = %#x, want %#x", f.TimeLow, uint32(ts))
	}
	if f.TimeMid != uint16(ts>>32) {
		t.Errorf("TimeMid = %#x, want %#x", f.TimeMid, uint16(ts>>32))
	}
	if f.TimeHiAndVersion != uint16(ts>>48)&0xfff|0x1000 {
		t.Errorf("TimeHiAndVersion = %#x, want %#x", f.TimeHiAndVersion, uint16(ts>>48)&0xfff|0x1000)
	}
	if f.ClockSeqHiAndReserved != 0x80|0x12 || f.ClockSeqLow != 0x34 {
		t.Errorf("clock sequence bytes = %#x %#x, want 0x92 0x34", f.ClockSeqHiAndReserved, f.ClockSeqLow)
	}
	if f.Node != st.Node|multicastBit {
		t.Errorf("Node = %#x, want %#x", f.Node, st.Node|multicastBit)
	}
	if after.Timestamp != millisSinceEpoch(now) {
		t.Errorf("state timestamp = %d, want %d", after.Timestamp, millisSinceEpoch(now))
	}
	if after.Tick < 0 || after.Tick > 15 {
		t.Errorf("state tick = %d, want a 4-bit reseed", after.Tick)
	}
}

func TestGenerator_NewV1_ImmediateSuccessionDistinct(t *testing.T) {
	gen := newTestGenerator(t)
	now := time.Now()

	for i := 0; i < 500; i++ {
		a, err := gen.NewV1WithTime(now)
		if err != nil {
			t.Fatalf("NewV1WithTime() error = %v", err)
		}
		b, err := gen.NewV1WithTime(now)
		if err != nil {
			t.Fatalf("NewV1WithTime() error = %v", err)
		}
		if a.Equal(b) {
			t.Fatalf("successive UUIDs are equal: %v", a)
		}
	}
}

func TestGenerator_SameMillisecondUnique(t *testing.T) {
	gen := newTestGenerator(t)
	now := time.Now()

	const count = 10000
	seen := make(map[UUID]bool, count)
	for i := 0; i < count; i++ {
		uuid, err := gen.NewV1WithTime(now)
		if err != nil {
			t.Fatalf("NewV1WithTime() error = %v", err)
		}
		if seen[uuid] {
			t.Fatalf("duplicate UUID at index %d: %v", i, uuid)
		}
		seen[uuid] = true
	}
}

func TestGenerator_TickAdvancesMonotonically(t *testing.T) {
	gen := newTestGenerator(t, WithTimestampRatio(1))
	now := time.Now()

	prev, err := gen.NewV1WithTime(now)
	if err != nil {
		t.Fatalf("NewV1WithTime() error = %v", err)
	}
	seq := prev.ClockSequence()
	for gen.State().Tick < maxTickAdvance {
		next, err := gen.NewV1WithTime(now)
		if err != nil {
			t.Fatalf("NewV1WithTime() error = %v", err)
		}
		if next.Timestamp() <= prev.Timestamp() {
			t.Fatalf("Timestamp() did not advance: %d <= %d", next.Timestamp(), prev.Timestamp())
		}
		if next.ClockSequence() != seq {
			t.Fatalf("ClockSequence() changed while the tick could advance: %#x != %#x", next.ClockSequence(), seq)
		}
		prev = next
	}
	if tick := gen.State().Tick; tick >= ticksPerMilli {
		t.Errorf("tick = %d, want < %d", tick, ticksPerMilli)
	}

	// tick budget exhausted: the sequence takes over
	exhausted, err := gen.NewV1WithTime(now)
	if err != nil {
		t.Fatalf("NewV1WithTime() error = %v", err)
	}
	if exhausted.Timestamp() != prev.Timestamp() {
		t.Errorf("Timestamp() = %d after budget exhausted, want %d", exhausted.Timestamp(), prev.Timestamp())
	}
	if exhausted.ClockSequence() != (seq+1)&sequenceMask {
		t.Errorf("ClockSequence() = %#x, want %#x", exhausted.ClockSequence(), (seq+1)&sequenceMask)
	}
}

func TestGenerator_ZeroRatioBumpsSequence(t *testing.T) {
	gen := newTestGenerator(t, WithTimestampRatio(0))
	now := time.Now()

	first, err := gen.NewV1WithTime(now)
	if err != nil {
		t.Fatalf("NewV1WithTime() error = %v", err)
	}
	second, err := gen.NewV1WithTime(now)
	if err != nil {
		t.Fatalf("NewV1WithTime() error = %v", err)
	}

	if first.Timestamp() != second.Timestamp() {
		t.Errorf("Timestamp() changed with ratio 0: %d != %d", first.Timestamp(), second.Timestamp())
	}
	if second.ClockSequence() != (first.ClockSequence()+1)&sequenceMask {
		t.Errorf("ClockSequence() = %#x, want %#x", second.ClockSequence(), (first.ClockSequence()+1)&sequenceMask)
	}
}

func TestGenerator_ClockRegression(t *testing.T) {
	gen := newTestGenerator(t)
	now := time.Now()

	before, err := gen.NewV1WithTime(now)
	if err != nil {
		t.Fatalf("NewV1WithTime() error = %v", err)
	}
	after, err := gen.NewV1WithTime(now.Add(-time.Second))
	if err != nil {
		t.Fatalf("NewV1WithTime() error = %v", err)
	}

	if after.ClockSequence() == before.ClockSequence() {
		t.Errorf("ClockSequence() unchanged after the clock moved backwards: %#x", after.ClockSequence())
	}
	if after.ClockSequence() != (before.ClockSequence()+1)&sequenceMask {
		t.Errorf("ClockSequence() = %#x, want %#x", after.ClockSequence(), (before.ClockSequence()+1)&sequenceMask)
	}
	if got := gen.State().Timestamp; got != millisSinceEpoch(now.Add(-time.Second)) {
		t.Errorf("state timestamp = %d, want %d", got, millisSinceEpoch(now.Add(-time.Second)))
	}
}

func TestGenerator_ClockMovingForwardKeepsSequence(t *testing.T) {
	gen := newTestGenerator(t)
	now := time.Now()

	first := Must(gen.NewV1WithTime(now))
	second := Must(gen.NewV1WithTime(now.Add(time.Millisecond)))
	if first.ClockSequence() != second.ClockSequence() {
		t.Errorf("ClockSequence() changed on a forward tick: %#x != %#x", first.ClockSequence(), second.ClockSequence())
	}
	if second.Timestamp() <= first.Timestamp() {
		t.Errorf("Timestamp() did not advance: %d <= %d", second.Timestamp(), first.Timestamp())
	}
}

func TestGenerator_ClockUnavailable(t *testing.T) {
	clockErr := errors.New("clock read failed")
	gen := newTestGenerator(t, WithClock(func() (time.Time, error) {
		return time.Time{}, clockErr
	}))
	before := gen.State()

	_, err := gen.NewV1()
	if !errors.Is(err, ErrClockUnavailable) {
		t.Errorf("NewV1() error = %v, want %v", err, ErrClockUnavailable)
	}
	if !errors.Is(err, clockErr) {
		t.Errorf("NewV1() error = %v, want it to wrap %v", err, clockErr)
	}
	if after := gen.State(); after != before {
		t.Errorf("state mutated on clock failure: %+v != %+v", after, before)
	}
}

func TestGenerator_TimeBeforeEpoch(t *testing.T) {
	gen := newTestGenerator(t)
	before := gen.State()

	_, err := gen.NewV1WithTime(time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrClockUnavailable) {
		t.Errorf("NewV1WithTime() error = %v, want %v", err, ErrClockUnavailable)
	}
	if after := gen.State(); after != before {
		t.Errorf("state mutated on invalid time: %+v != %+v", after, before)
	}
}

func TestGenerator_InjectedClock(t *testing.T) {
	fixed := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	gen := newTestGenerator(t, WithClock(func() (time.Time, error) { return fixed, nil }))

	uuid, err := gen.NewV1()
	if err != nil {
		t.Fatalf("NewV1() error = %v", err)
	}
	if got := uuid.Time().UnixMilli(); got != fixed.UnixMilli() {
		t.Errorf("Time() = %d ms, want %d ms", got, fixed.UnixMilli())
	}
}

func TestGenerator_Reset(t *testing.T) {
	gen := newTestGenerator(t)
	now := time.Now()

	before := Must(gen.NewV1WithTime(now))
	gen.Reset()

	st := gen.State()
	if st.Timestamp != 0 {
		t.Errorf("state timestamp after Reset() = %d, want 0", st.Timestamp)
	}
	after := Must(gen.NewV1WithTime(now))
	if after.Fields().Node == before.Fields().Node {
		t.Errorf("node unchanged after Reset(): %#x", after.Fields().Node)
	}
}

func TestResetState(t *testing.T) {
	before := Must(NewV1()).Fields().Node
	ResetState()
	after := Must(NewV1()).Fields().Node
	if before == after {
		t.Errorf("node unchanged after ResetState(): %#x", after)
	}
	if DefaultGenerator().State().Node != after {
		t.Errorf("DefaultGenerator() node = %#x, want %#x", DefaultGenerator().State().Node, after)
	}
}

func TestNewClockState(t *testing.T) {
	src := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 1000; i++ {
		st := NewClockState(src)
		if st.Timestamp != 0 {
			t.Fatalf("Timestamp = %d, want 0", st.Timestamp)
		}
		if st.Sequence > sequenceMask {
			t.Fatalf("Sequence = %#x, want 14 bits", st.Sequence)
		}
		if st.Tick < 0 || st.Tick > 15 {
			t.Fatalf("Tick = %d, want 4 bits", st.Tick)
		}
		if st.Node > nodeMask {
			t.Fatalf("Node = %#x, want 48 bits", st.Node)
		}
		if st.Node&multicastBit == 0 {
			t.Fatalf("Node = %#x, multicast bit not set", st.Node)
		}
	}

	// the multicast bit is the low bit of the first node octet
	uuid := Must(newTestGenerator(t).NewV1())
	if uuid.Bytes()[10]&0x01 != 0x01 {
		t.Errorf("Bytes()[10] = %#02x, want multicast bit 0x01 set", uuid.Bytes()[10])
	}
}

func TestWithClockState_Validation(t *testing.T) {
	tests := []struct {
		name  string
		state ClockState
	}{
		{"negative timestamp", ClockState{Timestamp: -1}},
		{"timestamp beyond 60 bits", ClockState{Timestamp: maxTimestamp + 1}},
		{"negative tick", ClockState{Tick: -1}},
		{"tick out of range", ClockState{Tick: ticksPerMilli}},
		{"node wider than 48 bits", ClockState{Node: 1 << 48}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(WithClockState(tt.state))
			if !errors.Is(err, ErrInvalidFieldValue) {
				t.Errorf("NewGenerator() error = %v, want %v", err, ErrInvalidFieldValue)
			}
		})
	}
}

func TestWithClockState_Normalizes(t *testing.T) {
	gen := newTestGenerator(t, WithClockState(ClockState{Sequence: 0xffff, Node: 0x020000000000}))
	st := gen.State()
	if st.Sequence != sequenceMask {
		t.Errorf("Sequence = %#x, want %#x", st.Sequence, sequenceMask)
	}
	if st.Node != 0x030000000000 {
		t.Errorf("Node = %#x, want %#x", st.Node, 0x030000000000)
	}
}

func TestWithClockState_ResumeAheadOfClock(t *testing.T) {
	now := time.Now()
	saved := ClockState{Timestamp: millisSinceEpoch(now.Add(time.Hour)), Tick: 3, Sequence: 41, Node: 0x0100000000aa}
	gen := newTestGenerator(t, WithClockState(saved))

	uuid, err := gen.NewV1WithTime(now)
	if err != nil {
		t.Fatalf("NewV1WithTime() error = %v", err)
	}
	if got := uuid.ClockSequence(); got != 42 {
		t.Errorf("ClockSequence() = %d, want 42", got)
	}
	if got := uuid.Fields().Node; got != saved.Node {
		t.Errorf("Node = %#x, want %#x", got, saved.Node)
	}
}

func TestNewGenerator_InvalidRatio(t *testing.T) {
	for _, ratio := range []float64{-0.1, 1.5} {
		_, err := NewGenerator(WithTimestampRatio(ratio))
		if !errors.Is(err, ErrInvalidRatio) {
			t.Errorf("NewGenerator(ratio=%v) error = %v, want %v", ratio, err, ErrInvalidRatio)
		}
	}
}

func TestNewGenerator_NilDependencies(t *testing.T) {
	if _, err := NewGenerator(WithRandomSource(nil)); err == nil {
		t.Error("NewGenerator() with nil random source should fail")
	}
	if _, err := NewGenerator(WithClock(nil)); err == nil {
		t.Error("NewGenerator() with nil clock should fail")
	}
}

func TestGenerator_ConcurrentSafety(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	const goroutines = 10
	const uuidsPerGoroutine = 1000

	results := make(chan UUID, goroutines*uuidsPerGoroutine)
	done := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			for j := 0; j < uuidsPerGoroutine; j++ {
				uuid, err := gen.NewV1()
				if err != nil {
					t.Errorf("Concurrent generation error: %v", err)
					break
				}
				results <- uuid
			}
			done <- true
		}()
	}

	for i := 0; i < goroutines; i++ {
		<-done
	}
	close(results)

	seen := make(map[UUID]bool)
	for uuid := range results {
		if seen[uuid] {
			t.Errorf("Duplicate UUID generated in concurrent test: %v", uuid)
		}
		seen[uuid] = true
	}

	if len(seen) != goroutines*uuidsPerGoroutine {
		t.Errorf("Expected %d unique UUIDs, got %d", goroutines*uuidsPerGoroutine, len(seen))
	}
}
