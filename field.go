package uuid

import (
	"fmt"
	"strconv"
	"strings"
)

// Fields holds the six RFC 4122 fields of a UUID as integers.
// Node uses the low 48 bits only.
type Fields struct {
	TimeLow               uint32
	TimeMid               uint16
	TimeHiAndVersion      uint16
	ClockSeqHiAndReserved uint8
	ClockSeqLow           uint8
	Node                  uint64
}

// FieldNames lists the field names in canonical order.
var FieldNames = [6]string{
	"timeLow",
	"timeMid",
	"timeHiAndVersion",
	"clockSeqHiAndReserved",
	"clockSeqLow",
	"node",
}

// FieldSizes lists the bit width of each field in canonical order.
var FieldSizes = [6]int{32, 16, 16, 8, 8, 48}

// Values returns the fields in canonical order.
func (f Fields) Values() [6]uint64 {
	return [6]uint64{
		uint64(f.TimeLow),
		uint64(f.TimeMid),
		uint64(f.TimeHiAndVersion),
		uint64(f.ClockSeqHiAndReserved),
		uint64(f.ClockSeqLow),
		f.Node,
	}
}

// Validate reports whether every field fits its declared width.
func (f Fields) Validate() error {
	for i, v := range f.Values() {
		if v>>FieldSizes[i] != 0 {
			return fmt.Errorf("%w: %s=%#x (%d bits)", ErrInvalidFieldValue, FieldNames[i], v, FieldSizes[i])
		}
	}
	return nil
}

// formatField renders value left-zero-padded to exactly bits binary digits
// (radix 2) or bits/4 hex digits (radix 16). Values wider than bits are rejected.
func formatField(value uint64, bits, radix int) (string, error) {
	if bits < 64 && value>>bits != 0 {
		return "", fmt.Errorf("%w: %#x (%d bits)", ErrInvalidFieldValue, value, bits)
	}
	width := bits
	if radix == 16 {
		width = bits / 4
	}
	s := strconv.FormatUint(value, radix)
	if pad := width - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s, nil
}
