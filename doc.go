// Package uuid generates and represents RFC 4122 Universally Unique Identifiers,
// with support for version 1 (time and node based) and version 4 (random) UUIDs.
//
// A UUID exposes its six fields (time_low, time_mid, time_hi_and_version,
// clock_seq_hi_and_reserved, clock_seq_low and node) as integers, as
// zero-padded binary strings and as hex strings, together with the canonical
// string forms.
//
// Basic Usage:
//
//	// Generate a random UUID
//	id, err := uuid.NewV4()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(id.String()) // xxxxxxxx-xxxx-4xxx-xxxx-xxxxxxxxxxxx
//	fmt.Println(id.URN())    // urn:uuid:xxxxxxxx-xxxx-4xxx-xxxx-xxxxxxxxxxxx
//
//	// Generate a time-based UUID
//	id, err = uuid.NewV1()
//
//	// Build a UUID from its fields
//	id, err = uuid.New(uuid.Fields{TimeLow: 0x12345678, TimeMid: 0xabcd, ...})
//
// Custom Generator:
//
//	// An independent generator owns its own clock state
//	gen, err := uuid.NewGenerator(uuid.WithTimestampRatio(0.5))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	id, err := gen.NewV1()
//
//	// Persist the clock state and resume from it later
//	saved := gen.State()
//	gen, err = uuid.NewGenerator(uuid.WithClockState(saved))
//
// Version 1 Details:
//
// The host clock is read with millisecond resolution. Within a millisecond the
// generator synthesizes the remaining 100ns resolution with a random tick, and
// falls back to incrementing the 14-bit clock sequence when the tick cannot
// advance. The clock sequence is also incremented whenever the clock moves
// backwards. No hardware address is read: the node is random with its
// multicast bit set.
//
// Thread Safety:
//
// All operations are thread-safe. Version 1 generation serializes on the
// generator's clock state; version 4 generation and UUID values need no locking.
//
// Randomness:
//
// Random bits come from math/rand/v2 and are not suitable where unpredictable
// identifiers are required.
package uuid
