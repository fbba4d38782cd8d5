// Package urlcodec implements percent-encoding of arbitrary byte data for
// embedding in URLs.
//
// Encode escapes every byte outside the unreserved set (ASCII letters,
// digits, '-', '.', '_' and '~') as '%' plus two uppercase hex digits.
// Decode is deliberately lenient: malformed percent sequences pass through
// verbatim and no input is ever rejected, so arbitrary text is always safe
// to decode. The asymmetry is part of the contract.
package urlcodec

const upperDigits = "0123456789ABCDEF"

// Encode percent-encodes src. Bytes in the unreserved set pass through;
// every other byte becomes "%XX" with uppercase digits, high nibble first.
// When no byte needs escaping the input is returned unchanged without
// building an output buffer.
func Encode(src []byte) string {
	length := len(src)
	for _, c := range src {
		if !isSafe(c) {
			length += 2
		}
	}
	if length == len(src) {
		return string(src)
	}

	out := make([]byte, 0, length)
	for _, c := range src {
		if isSafe(c) {
			out = append(out, c)
		} else {
			out = append(out, '%', upperDigits[c>>4], upperDigits[c&15])
		}
	}
	if len(out) != length {
		panic("urlcodec: encoded length does not match precomputed length")
	}
	return string(out)
}

// Decode reverses percent-encoding. A '%' followed by two hex digits of
// either case decodes to one byte; a '%' without two valid digits passes
// through verbatim and its trailing bytes are scanned normally. With
// plusAsSpace, a literal '+' decodes to a space. Decode accepts any input
// and never fails.
func Decode(s string, plusAsSpace bool) []byte {
	buf := []byte(s)
	return buf[:decodeInto(buf, buf, plusAsSpace)]
}

// DecodeInPlace decodes buf into its own storage and returns the decoded
// prefix of the same backing array. The caller must have exclusive use of
// buf for the duration of the call.
func DecodeInPlace(buf []byte, plusAsSpace bool) []byte {
	return buf[:decodeInto(buf, buf, plusAsSpace)]
}

// decodeInto writes the decoding of src into dst and returns the byte count
// written. dst must be at least len(src) bytes and may be src itself: the
// write index never outruns the read index.
func decodeInto(dst, src []byte, plusAsSpace bool) int {
	n := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '%' && i+2 < len(src) {
			high := unhex(src[i+1])
			low := unhex(src[i+2])
			if high < 16 && low < 16 {
				dst[n] = high<<4 | low
				n++
				i += 2
				continue
			}
		}
		if plusAsSpace && src[i] == '+' {
			dst[n] = ' '
		} else {
			dst[n] = src[i]
		}
		n++
	}
	return n
}

func isSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	default:
		return false
	}
}

// unhex maps an ASCII hex digit to its value, or 16 when c is not one.
func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	default:
		return 16
	}
}
