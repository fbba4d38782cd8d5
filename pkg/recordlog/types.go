package recordlog

import "time"

// LogError represents a record log error
type LogError struct {
	Message string
}

func (e *LogError) Error() string {
	return e.Message
}

// Common errors
var (
	// ErrCorrupt is returned when a frame fails its CRC check, carries an
	// undecodable payload, or disagrees with its recorded sizes.
	ErrCorrupt = &LogError{Message: "record corruption detected"}
)

// Record is one log entry with its payload already unpacked.
type Record struct {
	Offset     int64  // Byte offset of the frame in the log file
	RawSize    uint32 // Unpacked payload size in bytes
	PackedSize uint32 // Payload size as stored on disk
	Payload    []byte // Unpacked payload data
}

// LogWriterConfig configures a LogWriter
type LogWriterConfig struct {
	FilePath      string
	FsyncInterval time.Duration // 0 means fsync on every append
	BufferSize    int
}

// LogReaderConfig configures a LogReader
type LogReaderConfig struct {
	FilePath    string
	StartOffset int64
}

// WriterStats summarizes what a writer has appended since it was opened.
type WriterStats struct {
	Records     uint64
	RawBytes    uint64
	PackedBytes uint64
}

// RecordIterator provides streaming access to log records
type RecordIterator interface {
	Next() bool
	Record() *Record
	Close() error
}
