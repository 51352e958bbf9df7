package uuid

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// UUID represents a Universally Unique Identifier as defined by RFC 4122.
// The 16 bytes hold the six fields in network byte order; two UUIDs are
// equal exactly when all six fields are equal.
type UUID [16]byte

// Version represents the UUID version
type Version byte

const (
	_ Version = iota
	VersionTimeBased
	VersionDCESecurity
	VersionNameBasedMD5
	VersionRandom
	VersionNameBasedSHA1
)

// Variant represents the UUID variant
type Variant byte

const (
	VariantNCS Variant = iota
	VariantRFC4122
	VariantMicrosoft
	VariantFuture
)

// String returns the variant name
func (v Variant) String() string {
	switch v {
	case VariantNCS:
		return "NCS"
	case VariantRFC4122:
		return "RFC4122"
	case VariantMicrosoft:
		return "Microsoft"
	case VariantFuture:
		return "Future"
	default:
		return fmt.Sprintf("Variant(%d)", byte(v))
	}
}

// Nil is the nil UUID (all zeros)
var Nil UUID

// urnPrefix is prepended to the canonical form by URN.
const urnPrefix = "urn:uuid:"

// gregorianToUnix is the number of 100ns intervals between the UUID epoch
// (1582-10-15) and the Unix epoch.
const gregorianToUnix = 122192928000000000

// New packs f into a UUID. Every field must fit its declared width.
func New(f Fields) (UUID, error) {
	var u UUID
	if err := f.Validate(); err != nil {
		return u, err
	}
	binary.BigEndian.PutUint32(u[0:4], f.TimeLow)
	binary.BigEndian.PutUint16(u[4:6], f.TimeMid)
	binary.BigEndian.PutUint16(u[6:8], f.TimeHiAndVersion)
	u[8] = f.ClockSeqHiAndReserved
	u[9] = f.ClockSeqLow
	putUint48(u[10:16], f.Node)
	return u, nil
}

// MustNew is like New but panics if a field is out of range.
func MustNew(f Fields) UUID {
	return Must(New(f))
}

// Must is a helper that wraps a call to a function returning (UUID, error)
// and panics if the error is non-nil. It is intended for use in variable
// initializations such as:
//
//	var id = uuid.Must(uuid.NewV4())
func Must(u UUID, err error) UUID {
	if err != nil {
		panic(err)
	}
	return u
}

// Fields returns the six integer fields of the UUID.
func (u UUID) Fields() Fields {
	return Fields{
		TimeLow:               binary.BigEndian.Uint32(u[0:4]),
		TimeMid:               binary.BigEndian.Uint16(u[4:6]),
		TimeHiAndVersion:      binary.BigEndian.Uint16(u[6:8]),
		ClockSeqHiAndReserved: u[8],
		ClockSeqLow:           u[9],
		Node:                  uint48(u[10:16]),
	}
}

// Version returns the version of the UUID
func (u UUID) Version() Version {
	return Version(u[6] >> 4)
}

// Variant returns the variant of the UUID
func (u UUID) Variant() Variant {
	switch {
	case (u[8] & 0x80) == 0x00:
		return VariantNCS
	case (u[8] & 0xc0) == 0x80:
		return VariantRFC4122
	case (u[8] & 0xe0) == 0xc0:
		return VariantMicrosoft
	default:
		return VariantFuture
	}
}

// String returns the canonical string representation of the UUID
// in the format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	var buf [36]byte
	encodeHex(buf[:], u)
	return string(buf[:])
}

// HexString is an alias for String.
func (u UUID) HexString() string {
	return u.String()
}

// HexNoDelim returns the 32 hex digits without hyphens.
func (u UUID) HexNoDelim() string {
	return hex.EncodeToString(u[:])
}

// URN returns the UUID as a URN: urn:uuid:xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) URN() string {
	var buf [len(urnPrefix) + 36]byte
	copy(buf[:], urnPrefix)
	encodeHex(buf[len(urnPrefix):], u)
	return string(buf[:])
}

// encodeHex encodes UUID to its canonical hex representation
func encodeHex(dst []byte, u UUID) {
	hex.Encode(dst[0:8], u[0:4])
	dst[8] = '-'
	hex.Encode(dst[9:13], u[4:6])
	dst[13] = '-'
	hex.Encode(dst[14:18], u[6:8])
	dst[18] = '-'
	hex.Encode(dst[19:23], u[8:10])
	dst[23] = '-'
	hex.Encode(dst[24:36], u[10:16])
}

// BitFields returns each field as a zero-padded binary string of its declared width.
func (u UUID) BitFields() [6]string {
	return u.formatFields(2)
}

// HexFields returns each field as a zero-padded hex string of width/4 digits.
func (u UUID) HexFields() [6]string {
	return u.formatFields(16)
}

func (u UUID) formatFields(radix int) [6]string {
	var out [6]string
	for i, v := range u.Fields().Values() {
		// fields decoded from 16 bytes always fit
		out[i], _ = formatField(v, FieldSizes[i], radix)
	}
	return out
}

// BitString returns the 128-bit binary representation of the UUID.
func (u UUID) BitString() string {
	bits := u.BitFields()
	return strings.Join(bits[:], "")
}

// Bytes returns the UUID as a byte slice
func (u UUID) Bytes() []byte {
	return u[:]
}

// IsNil returns true if the UUID is the nil UUID (all zeros)
func (u UUID) IsNil() bool {
	return u == Nil
}

// Equal returns true if u and other hold the same six fields
func (u UUID) Equal(other UUID) bool {
	return u == other
}

// Equals is the dynamically typed form of Equal. It accepts a UUID or a
// non-nil *UUID and reports false for anything else.
func (u UUID) Equals(v interface{}) bool {
	switch other := v.(type) {
	case UUID:
		return u == other
	case *UUID:
		return other != nil && u == *other
	default:
		return false
	}
}

// Compare returns an integer comparing two UUIDs lexicographically.
// The result will be 0 if u==other, -1 if u < other, and +1 if u > other.
func (u UUID) Compare(other UUID) int {
	for i := 0; i < 16; i++ {
		if u[i] < other[i] {
			return -1
		}
		if u[i] > other[i] {
			return 1
		}
	}
	return 0
}

// Timestamp returns the 60-bit count of 100ns intervals since 1582-10-15
// encoded in a version 1 UUID, or 0 for other versions.
func (u UUID) Timestamp() int64 {
	if u.Version() != VersionTimeBased {
		return 0
	}
	f := u.Fields()
	return int64(f.TimeHiAndVersion&0xfff)<<48 | int64(f.TimeMid)<<32 | int64(f.TimeLow)
}

// Time returns the timestamp of a version 1 UUID as a time.Time,
// or the zero time for other versions.
func (u UUID) Time() time.Time {
	if u.Version() != VersionTimeBased {
		return time.Time{}
	}
	d := u.Timestamp() - gregorianToUnix
	return time.Unix(d/1e7, (d%1e7)*100)
}

// ClockSequence returns the 14-bit clock sequence of a version 1 UUID.
func (u UUID) ClockSequence() uint16 {
	return uint16(u[8]&0x3f)<<8 | uint16(u[9])
}

// MarshalText implements the encoding.TextMarshaler interface
func (u UUID) MarshalText() ([]byte, error) {
	var buf [36]byte
	encodeHex(buf[:], u)
	return buf[:], nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (u UUID) MarshalBinary() ([]byte, error) {
	return u[:], nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (u *UUID) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return ErrInvalidLength
	}
	copy(u[:], data)
	return nil
}

// Scan implements the sql.Scanner interface. Only the 16-byte binary form
// is accepted; textual columns are not parsed.
func (u *UUID) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(src) == 0 {
			return nil
		}
		return u.UnmarshalBinary(src)
	default:
		return fmt.Errorf("uuid: cannot scan type %T into UUID", src)
	}
}

// Value implements the driver.Valuer interface, storing the 16-byte binary form
func (u UUID) Value() (driver.Value, error) {
	b := make([]byte, 16)
	copy(b, u[:])
	return b, nil
}

func putUint48(dst []byte, v uint64) {
	dst[0] = byte(v >> 40)
	dst[1] = byte(v >> 32)
	dst[2] = byte(v >> 24)
	dst[3] = byte(v >> 16)
	dst[4] = byte(v >> 8)
	dst[5] = byte(v)
}

func uint48(b []byte) uint64 {
	return uint64(b[0])<<40 |
		uint64(b[1])<<32 |
		uint64(b[2])<<24 |
		uint64(b[3])<<16 |
		uint64(b[4])<<8 |
		uint64(b[5])
}
