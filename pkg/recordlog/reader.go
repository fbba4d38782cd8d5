package recordlog

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
)

// LogReader provides sequential access to frames in a record log file
type LogReader struct {
	file   *os.File
	reader *bufio.Reader
	codec  *FrameCodec
	offset int64
	config LogReaderConfig
}

// NewLogReader creates a new log reader for the specified file
func NewLogReader(config LogReaderConfig) (*LogReader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	// Seek to start offset if specified
	if config.StartOffset > 0 {
		if _, err := file.Seek(config.StartOffset, 0); err != nil {
			file.Close()
			return nil, err
		}
	}

	return &LogReader{
		file:   file,
		reader: bufio.NewReader(file),
		codec:  NewFrameCodec(),
		offset: config.StartOffset,
		config: config,
	}, nil
}

// ReadNext reads the frame at the current offset. A cleanly missing frame
// (end of file on a header boundary) returns io.EOF; a torn header at the
// tail is reported the same way so that recovery can stop at the last
// complete record. A frame that fails its checks returns ErrCorrupt.
func (r *LogReader) ReadNext() (*Record, error) {
	frameOffset := r.offset

	header := make([]byte, headerSize)
	n, err := io.ReadFull(r.reader, header)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}
	r.offset += int64(n)

	packedSize := binary.LittleEndian.Uint32(header[4:8])
	if packedSize > maxPackedSize {
		return nil, ErrCorrupt
	}

	frame := make([]byte, headerSize+int(packedSize))
	copy(frame, header)
	n, err = io.ReadFull(r.reader, frame[headerSize:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrCorrupt
		}
		return nil, err
	}
	r.offset += int64(n)

	record, err := r.codec.Decode(frame)
	if err != nil {
		return nil, err
	}
	record.Offset = frameOffset

	return record, nil
}

// ReadAt reads the frame starting at a specific offset. It opens its own
// file handle so the sequential read position is unaffected.
func (r *LogReader) ReadAt(offset int64) (*Record, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if _, err := file.Seek(offset, 0); err != nil {
		return nil, err
	}

	reader := bufio.NewReader(file)

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrCorrupt
		}
		return nil, err
	}

	packedSize := binary.LittleEndian.Uint32(header[4:8])
	if packedSize > maxPackedSize {
		return nil, ErrCorrupt
	}

	frame := make([]byte, headerSize+int(packedSize))
	copy(frame, header)
	if _, err := io.ReadFull(reader, frame[headerSize:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrCorrupt
		}
		return nil, err
	}

	record, err := r.codec.Decode(frame)
	if err != nil {
		return nil, err
	}
	record.Offset = offset

	return record, nil
}

// Seek sets the read offset
func (r *LogReader) Seek(offset int64) error {
	if _, err := r.file.Seek(offset, 0); err != nil {
		return err
	}

	r.reader = bufio.NewReader(r.file) // Recreate reader to clear buffer
	r.offset = offset
	return nil
}

// Offset returns the current read offset
func (r *LogReader) Offset() int64 {
	return r.offset
}

// Iterator returns a streaming iterator for records
func (r *LogReader) Iterator() RecordIterator {
	return &logRecordIterator{reader: r}
}

// Close closes the log reader
func (r *LogReader) Close() error {
	return r.file.Close()
}

// logRecordIterator implements RecordIterator for streaming access
type logRecordIterator struct {
	reader *LogReader
	record *Record
	err    error
}

func (it *logRecordIterator) Next() bool {
	it.record, it.err = it.reader.ReadNext()
	return it.err == nil
}

func (it *logRecordIterator) Record() *Record {
	return it.record
}

func (it *logRecordIterator) Close() error {
	// Don't close the underlying reader as it's owned by the caller
	return nil
}
