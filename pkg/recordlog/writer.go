package recordlog

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogWriter handles append-only writes to a record log file
type LogWriter struct {
	file       *os.File
	writer     *bufio.Writer
	codec      *FrameCodec
	fsyncTimer *time.Timer
	config     LogWriterConfig
	mutex      sync.Mutex
	offset     int64 // Current write offset
	stats      WriterStats
}

// NewLogWriter creates a new log writer with the given configuration
func NewLogWriter(config LogWriterConfig) (*LogWriter, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, err
	}

	// Open file in write-only mode, create if doesn't exist
	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	// Seek to end for append behavior
	if _, err := file.Seek(0, 2); err != nil {
		file.Close()
		return nil, err
	}

	// Get current file size for offset tracking
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	writer := &LogWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		codec:  NewFrameCodec(),
		config: config,
		offset: stat.Size(),
	}

	// Set up fsync timer if interval is configured
	if config.FsyncInterval > 0 {
		writer.fsyncTimer = time.AfterFunc(config.FsyncInterval, func() {
			writer.mutex.Lock()
			defer writer.mutex.Unlock()
			writer.sync() // Ignore error in timer callback
		})
	}

	return writer, nil
}

// Append packs payload into a frame, writes it to the log and returns the
// byte offset the frame starts at
func (w *LogWriter) Append(payload []byte) (int64, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	frame, err := w.codec.Encode(payload)
	if err != nil {
		return 0, err
	}

	n, err := w.writer.Write(frame)
	if err != nil {
		return 0, err
	}

	// Offset where this frame starts
	frameOffset := w.offset
	w.offset += int64(n)

	w.stats.Records++
	w.stats.RawBytes += uint64(len(payload))
	w.stats.PackedBytes += uint64(len(frame) - headerSize)

	// Sync immediately if no fsync interval configured
	if w.config.FsyncInterval == 0 {
		if err := w.sync(); err != nil {
			return 0, err
		}
	} else {
		// Reset fsync timer
		if w.fsyncTimer != nil {
			w.fsyncTimer.Reset(w.config.FsyncInterval)
		}
	}

	return frameOffset, nil
}

// Sync forces a fsync to disk
func (w *LogWriter) Sync() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.sync()
}

// sync performs the actual fsync operation (internal method)
func (w *LogWriter) sync() error {
	// Flush buffered writes
	if err := w.writer.Flush(); err != nil {
		return err
	}

	// Fsync to disk
	return w.file.Sync()
}

// Close closes the log writer and ensures all data is synced
func (w *LogWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	// Cancel fsync timer
	if w.fsyncTimer != nil {
		w.fsyncTimer.Stop()
	}

	// Final sync
	if err := w.sync(); err != nil {
		w.file.Close()
		return err
	}

	return w.file.Close()
}

// Size returns the current size of the log file
func (w *LogWriter) Size() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Stats reports what this writer has appended since it was opened
func (w *LogWriter) Stats() WriterStats {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.stats
}

// Path returns the file path
func (w *LogWriter) Path() string {
	return w.config.FilePath
}
