package uuid

// NewV4 returns a random (version 4) UUID drawn from the generator's
// RandomSource. It does not touch the clock state.
func (g *Generator) NewV4() (UUID, error) {
	return newV4(g.rand)
}

func newV4(src RandomSource) (UUID, error) {
	return New(Fields{
		TimeLow:               uint32(mustRandomBits(src, 32)),
		TimeMid:               uint16(mustRandomBits(src, 16)),
		TimeHiAndVersion:      0x4000 | uint16(mustRandomBits(src, 12)), // version 0100
		ClockSeqHiAndReserved: 0x80 | uint8(mustRandomBits(src, 6)),     // variant 10
		ClockSeqLow:           uint8(mustRandomBits(src, 8)),
		Node:                  mustRandomBits(src, 48),
	})
}
