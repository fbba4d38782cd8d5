// Package runlength implements an escape codec that compresses runs of
// sentinel byte values while leaving every other byte untouched.
//
// The codec is parameterized by a Sentinel predicate selecting which byte
// values get run-length treatment. Two instantiations are exported:
// ZeroEncode/ZeroDecode escape runs of 0x00, and ZeroOneEncode/ZeroOneDecode
// escape runs of 0x00 and 0xFF (all bits clear or all bits set). These cover
// the common case of sparse binary records dominated by zero padding.
//
// # Escape Format
//
// Encoded output interleaves literal bytes with escape pairs:
//
//	non-sentinel byte:  emitted as-is (one byte in, one byte out)
//	sentinel run:       [sentinel byte][count byte]
//
// The count byte holds the total length of the run, including the sentinel
// byte that precedes it, so a single zero becomes {0x00, 0x01} and five
// zeros become {0x00, 0x05}.
//
// # Run Splitting
//
// A count byte stores at most 250. Longer runs split into consecutive
// independent escape pairs: 600 zeros encode as {0x00, 250, 0x00, 250,
// 0x00, 100}. The cap is part of the wire format; changing it would break
// decoding of existing data.
//
// # Usage
//
//	packed := runlength.ZeroEncode(record)
//	...
//	record = runlength.ZeroDecode(packed)
//
// Arbitrary predicates work through the generic forms:
//
//	isComma := func(b byte) bool { return b == ',' }
//	packed := runlength.Encode(data, isComma)
//
// # Error Handling
//
// Encode is total and never fails. Decode requires its input to be Encode
// output (or any byte sequence in which every sentinel byte is followed by
// a count byte); feeding it a truncated escape is a programming error and
// panics. Callers handling untrusted bytes decide first with Valid:
//
//	if !runlength.Valid(data, runlength.IsZero) {
//		return ErrBadInput
//	}
//	clear := runlength.ZeroDecode(data)
//
// # Performance Characteristics
//
// Both directions are single-pass. Worst-case expansion for Encode is 2x
// (every byte a sentinel run of length one); sentinel-free input encodes to
// itself with no size change. Decode expands each two-byte escape pair to
// at most 250 bytes of output.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use on distinct or shared
// (read-only) inputs.
package runlength
