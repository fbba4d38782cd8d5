// Package hexcodec converts byte slices to and from hexadecimal text.
//
// Encode emits two lowercase digits per byte, high nibble first, and
// Decode accepts digits of either case. Dump produces an uppercase,
// low-nibble-first rendering intended for log and debug output; it is
// deliberately not the inverse of Encode and Decode will not accept it
// as a faithful round trip.
package hexcodec

import (
	"errors"
	"fmt"
)

const (
	lowerDigits = "0123456789abcdef"
	upperDigits = "0123456789ABCDEF"
)

var (
	// ErrOddLength is returned by Decode when the input length is not a
	// multiple of two.
	ErrOddLength = errors.New("hexcodec: odd-length input")

	// ErrInvalidDigit is returned by Decode when the input contains a byte
	// outside [0-9a-fA-F]. Errors wrapping it carry the offending byte and
	// its index.
	ErrInvalidDigit = errors.New("hexcodec: invalid digit")
)

// Encode returns the hexadecimal encoding of src: two lowercase digits per
// input byte, high nibble first. The result is always 2*len(src) bytes.
func Encode(src []byte) string {
	out := make([]byte, 2*len(src))
	for i, c := range src {
		out[2*i] = lowerDigits[c>>4]
		out[2*i+1] = lowerDigits[c&15]
	}
	return string(out)
}

// Decode parses a hexadecimal string produced by Encode or by any encoder
// using the same digit order. Both digit cases are accepted. The input is
// validated, never repaired: an odd-length input returns ErrOddLength and a
// non-hex byte returns an error wrapping ErrInvalidDigit.
func Decode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrOddLength, len(s))
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		high := nibble(s[i])
		if high > 15 {
			return nil, fmt.Errorf("%w %q at index %d", ErrInvalidDigit, s[i], i)
		}
		low := nibble(s[i+1])
		if low > 15 {
			return nil, fmt.Errorf("%w %q at index %d", ErrInvalidDigit, s[i+1], i+1)
		}
		out[i/2] = high<<4 | low
	}
	return out, nil
}

// Dump renders src as uppercase hexadecimal with the LOW nibble of each
// byte first. It is a display format for logs and debug output, not an
// encoding: Decode will not invert it. Use Encode for anything that must
// be decoded again.
func Dump(src []byte) string {
	out := make([]byte, 2*len(src))
	for i, c := range src {
		out[2*i] = upperDigits[c&15]
		out[2*i+1] = upperDigits[c>>4]
	}
	return string(out)
}

// nibble maps an ASCII hex digit to its value, or 16 when b is not one.
func nibble(b byte) byte {
	switch {
	case '0' <= b && b <= '9':
		return b - '0'
	case 'a' <= b && b <= 'f':
		return b - 'a' + 10
	case 'A' <= b && b <= 'F':
		return b - 'A' + 10
	default:
		return 16
	}
}
