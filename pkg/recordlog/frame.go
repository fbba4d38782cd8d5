package recordlog

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/ssargent/skald/pkg/runlength"
)

// headerSize is the fixed frame header length:
// CRC32(4) + PackedSize(4) + RawSize(4).
const headerSize = 12

// maxPackedSize bounds the payload length a reader will accept. A header
// claiming more than this is treated as corruption rather than an
// allocation request.
const maxPackedSize = 1 << 30

// FrameCodec serializes payloads into the log's frame format. Payloads are
// packed with the zero-run escape codec before framing, so records with
// long zero runs shrink on disk.
type FrameCodec struct{}

// NewFrameCodec creates a new frame codec instance
func NewFrameCodec() *FrameCodec {
	return &FrameCodec{}
}

// Encode packs payload and frames it
// Format: [CRC32(4)][PackedSize(4)][RawSize(4)][packed payload]
func (c *FrameCodec) Encode(payload []byte) ([]byte, error) {
	if len(payload) > maxPackedSize {
		return nil, fmt.Errorf("payload of %d bytes exceeds frame limit", len(payload))
	}

	packed := runlength.ZeroEncode(payload)
	if len(packed) > maxPackedSize {
		return nil, fmt.Errorf("packed payload of %d bytes exceeds frame limit", len(packed))
	}
	buf := make([]byte, headerSize+len(packed))

	binary.LittleEndian.PutUint32(buf[4:], uint32(len(packed)))
	binary.LittleEndian.PutUint32(buf[8:], uint32(len(payload)))
	copy(buf[headerSize:], packed)

	crc := crc32.ChecksumIEEE(buf[4:])
	binary.LittleEndian.PutUint32(buf[0:], crc)

	return buf, nil
}

// Decode parses one complete frame, verifies its checksum and unpacks the
// payload. The input must hold the whole frame; trailing bytes are an
// error, so callers slicing frames out of a larger buffer should size the
// slice from the header first.
func (c *FrameCodec) Decode(data []byte) (*Record, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("data too short for frame header: %d bytes", len(data))
	}

	r := &Record{}
	crc := binary.LittleEndian.Uint32(data[0:4])
	r.PackedSize = binary.LittleEndian.Uint32(data[4:8])
	r.RawSize = binary.LittleEndian.Uint32(data[8:12])

	if r.PackedSize > maxPackedSize {
		return nil, ErrCorrupt
	}
	if len(data) != headerSize+int(r.PackedSize) {
		return nil, fmt.Errorf("frame size mismatch: %d bytes, header claims %d",
			len(data), headerSize+int(r.PackedSize))
	}

	if crc32.ChecksumIEEE(data[4:]) != crc {
		return nil, ErrCorrupt
	}

	packed := data[headerSize:]
	if !runlength.Valid(packed, runlength.IsZero) {
		return nil, ErrCorrupt
	}
	r.Payload = runlength.ZeroDecode(packed)
	if uint32(len(r.Payload)) != r.RawSize {
		return nil, ErrCorrupt
	}

	return r, nil
}
