package uuid

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimestampRatio is the probability of advancing the synthetic tick,
// rather than the clock sequence, when two UUIDs share a millisecond.
const DefaultTimestampRatio = 0.25

// Clock reads the host time.
type Clock func() (time.Time, error)

// SystemClock reads time.Now and never fails.
func SystemClock() (time.Time, error) {
	return time.Now(), nil
}

// Generator is a thread-safe generator of version 1 and version 4 UUIDs.
// Version 1 generation reads and updates the ClockState under mu;
// version 4 generation only uses the RandomSource.
type Generator struct {
	mu    sync.Mutex
	state ClockState
	rand  RandomSource
	clock Clock
	ratio float64

	restored *ClockState
}

// Option configures a Generator.
type Option func(g *Generator)

// WithRandomSource sets the random source. It must be safe for concurrent
// use if the generator is shared.
func WithRandomSource(src RandomSource) Option {
	return func(g *Generator) { g.rand = src }
}

// WithClock sets the time source used by NewV1.
func WithClock(clock Clock) Option {
	return func(g *Generator) { g.clock = clock }
}

// WithTimestampRatio sets the probability of advancing the tick within a
// millisecond. 0 always bumps the clock sequence.
func WithTimestampRatio(ratio float64) Option {
	return func(g *Generator) { g.ratio = ratio }
}

// WithClockState resumes from a previously saved state instead of seeding
// a fresh one.
func WithClockState(st ClockState) Option {
	return func(g *Generator) { g.restored = &st }
}

// NewGenerator creates a generator. Without options it uses
// DefaultRandomSource, SystemClock and DefaultTimestampRatio.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		rand:  DefaultRandomSource,
		clock: SystemClock,
		ratio: DefaultTimestampRatio,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rand == nil || g.clock == nil {
		return nil, fmt.Errorf("uuid: generator requires a random source and a clock")
	}
	if g.ratio < 0 || g.ratio > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRatio, g.ratio)
	}
	if g.restored != nil {
		st, err := g.restored.validate()
		if err != nil {
			return nil, err
		}
		g.state = st
		g.restored = nil
	} else {
		g.state = NewClockState(g.rand)
	}
	return g, nil
}

// defaultGenerator is the package-level generator used by the New* functions
var defaultGenerator = mustGenerator(NewGenerator())

func mustGenerator(g *Generator, err error) *Generator {
	if err != nil {
		panic(err)
	}
	return g
}

// DefaultGenerator returns the package-level generator.
func DefaultGenerator() *Generator {
	return defaultGenerator
}

// NewV1 generates a version 1 UUID using the default generator.
func NewV1() (UUID, error) {
	return defaultGenerator.NewV1()
}

// NewV4 generates a version 4 UUID using the default generator.
func NewV4() (UUID, error) {
	return defaultGenerator.NewV4()
}

// ResetState reseeds the default generator's clock state.
func ResetState() {
	defaultGenerator.Reset()
}
