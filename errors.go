package uuid

import "errors"

var (
	// ErrInvalidBitWidth indicates a random draw was requested outside [0, 53] bits
	ErrInvalidBitWidth = errors.New("uuid: invalid random bit width (expected 0-53)")

	// ErrInvalidFieldValue indicates a field value does not fit its declared bit width
	ErrInvalidFieldValue = errors.New("uuid: field value exceeds its bit width")

	// ErrClockUnavailable indicates the time source failed or returned a time before the UUID epoch
	ErrClockUnavailable = errors.New("uuid: clock unavailable")

	// ErrInvalidLength indicates that the UUID byte slice has incorrect length
	ErrInvalidLength = errors.New("uuid: invalid UUID length (expected 16 bytes)")

	// ErrInvalidRatio indicates a timestamp advance ratio outside [0, 1]
	ErrInvalidRatio = errors.New("uuid: invalid timestamp ratio (expected 0-1)")
)
