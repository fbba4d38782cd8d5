// Package blobstore stores opaque binary blobs in a pebble database,
// transparently compacting values dominated by zero or 0xFF runs.
//
// Each stored value carries a one-byte format tag followed by the payload.
// Put packs the payload with both run-length predicates and keeps whichever
// representation is smallest, falling back to the raw bytes when packing
// would not help, so pathological inputs never expand on disk.
package blobstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/skald/pkg/runlength"
)

// Format tags, the first byte of every stored value.
const (
	formatRaw     byte = 0x00
	formatZero    byte = 0x01
	formatZeroOne byte = 0x02
)

// ErrNotFound is returned by Get and Update when no blob has the given id.
var ErrNotFound = errors.New("blobstore: blob not found")

// Stats reports cumulative write activity since the store was opened.
// StoredBytes counts packed payload bytes, excluding the format tag, so the
// ratio StoredBytes/RawBytes is the on-disk compaction factor.
type Stats struct {
	Blobs       uint64
	RawBytes    uint64
	StoredBytes uint64
}

// Store is a pebble-backed blob store keyed by KSUID.
type Store struct {
	db    *pebble.DB
	mutex sync.Mutex
	stats Stats
}

// Open opens (creating if necessary) a blob store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Put stores data under a fresh id and returns it.
func (s *Store) Put(data []byte) (ksuid.KSUID, error) {
	id := ksuid.New()
	if err := s.write(id, data, true); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// Update replaces the blob stored under id.
func (s *Store) Update(id ksuid.KSUID, data []byte) error {
	_, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := closer.Close(); err != nil {
		return err
	}
	return s.write(id, data, false)
}

func (s *Store) write(id ksuid.KSUID, data []byte, fresh bool) error {
	value := pack(data)
	if err := s.db.Set(id.Bytes(), value, pebble.NoSync); err != nil {
		return err
	}

	s.mutex.Lock()
	if fresh {
		s.stats.Blobs++
	}
	s.stats.RawBytes += uint64(len(data))
	s.stats.StoredBytes += uint64(len(value) - 1)
	s.mutex.Unlock()

	return nil
}

// Get returns the blob stored under id, unpacked.
func (s *Store) Get(id ksuid.KSUID) ([]byte, error) {
	value, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// The slice pebble returns is only valid until the closer is closed.
	stored := append([]byte(nil), value...)
	if err := closer.Close(); err != nil {
		return nil, err
	}

	return unpack(stored)
}

// Delete removes the blob stored under id. Deleting an absent id is not an
// error.
func (s *Store) Delete(id ksuid.KSUID) error {
	return s.db.Delete(id.Bytes(), pebble.NoSync)
}

// Stats returns a snapshot of the store's write counters.
func (s *Store) Stats() Stats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// pack prefixes data with a format tag, choosing the smallest of the raw,
// zero-packed and zero-one-packed representations. Ties go to the cheaper
// decode: raw, then zero.
func pack(data []byte) []byte {
	best := data
	tag := formatRaw

	if zero := runlength.ZeroEncode(data); len(zero) < len(best) {
		best = zero
		tag = formatZero
	}
	if zeroOne := runlength.ZeroOneEncode(data); len(zeroOne) < len(best) {
		best = zeroOne
		tag = formatZeroOne
	}

	value := make([]byte, 1+len(best))
	value[0] = tag
	copy(value[1:], best)
	return value
}

// unpack dispatches on the format tag.
func unpack(value []byte) ([]byte, error) {
	if len(value) == 0 {
		return nil, errors.New("blobstore: empty stored value")
	}

	payload := value[1:]
	switch value[0] {
	case formatRaw:
		return payload, nil
	case formatZero:
		if !runlength.Valid(payload, runlength.IsZero) {
			return nil, errors.New("blobstore: malformed zero-packed value")
		}
		return runlength.ZeroDecode(payload), nil
	case formatZeroOne:
		if !runlength.Valid(payload, runlength.IsZeroOne) {
			return nil, errors.New("blobstore: malformed zero-one-packed value")
		}
		return runlength.ZeroOneDecode(payload), nil
	default:
		return nil, fmt.Errorf("blobstore: unknown format tag 0x%02x", value[0])
	}
}
