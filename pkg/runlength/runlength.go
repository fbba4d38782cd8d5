package runlength

// maxRun caps the run length recorded in one count byte. Part of the wire
// format: encoded data is only portable across implementations that agree
// on it.
const maxRun = 250

// Sentinel reports whether a byte value receives run-length treatment.
// The predicate must be pure; Decode with the same predicate inverts
// Encode.
type Sentinel func(b byte) bool

// IsZero matches the zero byte. ZeroEncode and ZeroDecode use it.
func IsZero(b byte) bool { return b == 0x00 }

// IsZeroOne matches bytes with all bits clear or all bits set.
// ZeroOneEncode and ZeroOneDecode use it.
func IsZeroOne(b byte) bool { return b == 0x00 || b == 0xFF }

// Encode copies src, replacing every run of identical sentinel bytes with
// the sentinel byte followed by a count byte holding the run length. Runs
// longer than 250 split into consecutive escape pairs. Non-sentinel bytes
// pass through unchanged, so sentinel-free input encodes to itself.
func Encode(src []byte, isSentinel Sentinel) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		b := src[i]
		out = append(out, b)
		if !isSentinel(b) {
			continue
		}
		run := 1
		for run < maxRun && i+run < len(src) && src[i+run] == b {
			run++
		}
		out = append(out, byte(run))
		i += run - 1
	}
	return out
}

// Decode inverts Encode under the same predicate: every sentinel byte
// consumes the following byte as a count and expands to count copies of
// itself; other bytes pass through.
//
// Decode's input must satisfy Valid. A sentinel byte in the final position,
// with no room for its count byte, violates that precondition and panics;
// use Valid to screen untrusted input.
func Decode(src []byte, isSentinel Sentinel) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		b := src[i]
		if !isSentinel(b) {
			out = append(out, b)
			continue
		}
		if i+1 >= len(src) {
			panic("runlength: sentinel byte at end of input with no count byte")
		}
		for n := src[i+1]; n > 0; n-- {
			out = append(out, b)
		}
		i++
	}
	return out
}

// Valid reports whether every sentinel byte in src is followed by a count
// byte, i.e. whether Decode(src, isSentinel) can run without panicking.
// All Encode output is Valid. Valid does not check that count bytes stay
// within the encoder's cap; such input decodes fine but is not canonical.
func Valid(src []byte, isSentinel Sentinel) bool {
	for i := 0; i < len(src); i++ {
		if isSentinel(src[i]) {
			if i+1 >= len(src) {
				return false
			}
			i++
		}
	}
	return true
}

// ZeroEncode compresses runs of zero bytes.
func ZeroEncode(src []byte) []byte { return Encode(src, IsZero) }

// ZeroDecode inverts ZeroEncode.
func ZeroDecode(src []byte) []byte { return Decode(src, IsZero) }

// ZeroOneEncode compresses runs of 0x00 and runs of 0xFF.
func ZeroOneEncode(src []byte) []byte { return Encode(src, IsZeroOne) }

// ZeroOneDecode inverts ZeroOneEncode.
func ZeroOneDecode(src []byte) []byte { return Decode(src, IsZeroOne) }
