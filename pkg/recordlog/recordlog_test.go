package recordlog

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) (string, *LogWriter) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "recordlog_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	path := filepath.Join(tmpDir, "records.log")
	writer, err := NewLogWriter(LogWriterConfig{
		FilePath:   path,
		BufferSize: 4096,
	})
	require.NoError(t, err)

	return path, writer
}

func TestLogWriter_AppendAndReadBack(t *testing.T) {
	path, writer := newTestLog(t)

	payloads := [][]byte{
		[]byte("first record"),
		append(make([]byte, 300), []byte("sparse")...),
		{},
		[]byte{0x00, 0xFF, 0x00, 0x00, 0x01},
	}

	offsets := make([]int64, len(payloads))
	for i, p := range payloads {
		off, err := writer.Append(p)
		require.NoError(t, err)
		offsets[i] = off
	}
	require.NoError(t, writer.Close())

	// Offsets must be strictly increasing from zero
	assert.Equal(t, int64(0), offsets[0])
	for i := 1; i < len(offsets); i++ {
		assert.Greater(t, offsets[i], offsets[i-1])
	}

	reader, err := NewLogReader(LogReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	for i, want := range payloads {
		record, err := reader.ReadNext()
		require.NoError(t, err, "record %d", i)
		assert.Equal(t, offsets[i], record.Offset)
		assert.True(t, bytes.Equal(record.Payload, want), "record %d payload mismatch", i)
	}

	// End of log
	_, err = reader.ReadNext()
	assert.Equal(t, io.EOF, err)
}

func TestLogWriter_CompactsSparsePayloads(t *testing.T) {
	_, writer := newTestLog(t)
	defer writer.Close()

	sparse := make([]byte, 10_000)
	sparse[0] = 1

	_, err := writer.Append(sparse)
	require.NoError(t, err)

	stats := writer.Stats()
	assert.Equal(t, uint64(1), stats.Records)
	assert.Equal(t, uint64(len(sparse)), stats.RawBytes)
	assert.Less(t, stats.PackedBytes, stats.RawBytes/10, "zero runs did not compact")

	// On-disk size reflects the packed form, not the raw payload
	assert.Less(t, writer.Size(), int64(len(sparse)))
}

func TestLogReader_ReadAt(t *testing.T) {
	path, writer := newTestLog(t)

	var offsets []int64
	for i := 0; i < 5; i++ {
		payload := bytes.Repeat([]byte{byte(i + 1)}, i*10+1)
		off, err := writer.Append(payload)
		require.NoError(t, err)
		offsets = append(offsets, off)
	}
	require.NoError(t, writer.Close())

	reader, err := NewLogReader(LogReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	// Random access in reverse order
	for i := len(offsets) - 1; i >= 0; i-- {
		record, err := reader.ReadAt(offsets[i])
		require.NoError(t, err)
		want := bytes.Repeat([]byte{byte(i + 1)}, i*10+1)
		assert.True(t, bytes.Equal(record.Payload, want), "record %d payload mismatch", i)
	}

	// Sequential position is untouched by ReadAt
	first, err := reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, offsets[0], first.Offset)
}

func TestLogReader_Iterator(t *testing.T) {
	path, writer := newTestLog(t)

	const count = 10
	for i := 0; i < count; i++ {
		_, err := writer.Append([]byte{byte(i), 0, 0, byte(i)})
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader, err := NewLogReader(LogReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	it := reader.Iterator()
	defer it.Close()

	var got int
	for it.Next() {
		record := it.Record()
		assert.Equal(t, []byte{byte(got), 0, 0, byte(got)}, record.Payload)
		got++
	}
	assert.Equal(t, count, got)
}

func TestLogReader_DetectsCorruption(t *testing.T) {
	path, writer := newTestLog(t)

	_, err := writer.Append([]byte("record one xxxxxxxx"))
	require.NoError(t, err)
	offTwo, err := writer.Append([]byte("record two yyyyyyyy"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	// Flip a byte inside the second record's payload
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[offTwo+headerSize+3] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0600))

	reader, err := NewLogReader(LogReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadNext()
	require.NoError(t, err, "first record must still read cleanly")

	_, err = reader.ReadNext()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLogReader_TornTailReportsEOF(t *testing.T) {
	path, writer := newTestLog(t)

	_, err := writer.Append([]byte("complete record"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	// Simulate a torn final write: half a header
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3, 4, 5})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reader, err := NewLogReader(LogReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadNext()
	require.NoError(t, err)

	_, err = reader.ReadNext()
	assert.Equal(t, io.EOF, err)
}

func TestLogWriter_ReopenAppends(t *testing.T) {
	path, writer := newTestLog(t)

	_, err := writer.Append([]byte("before reopen"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	writer2, err := NewLogWriter(LogWriterConfig{FilePath: path, BufferSize: 4096})
	require.NoError(t, err)
	off, err := writer2.Append([]byte("after reopen"))
	require.NoError(t, err)
	assert.Greater(t, off, int64(0), "second writer must continue at the file end")
	require.NoError(t, writer2.Close())

	reader, err := NewLogReader(LogReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	first, err := reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, []byte("before reopen"), first.Payload)

	second, err := reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, []byte("after reopen"), second.Payload)
	assert.Equal(t, off, second.Offset)
}

func TestLogReader_SeekRestartsStream(t *testing.T) {
	path, writer := newTestLog(t)

	offA, err := writer.Append([]byte("aaa"))
	require.NoError(t, err)
	offB, err := writer.Append([]byte("bbb"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader, err := NewLogReader(LogReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadNext()
	require.NoError(t, err)
	_, err = reader.ReadNext()
	require.NoError(t, err)

	require.NoError(t, reader.Seek(offA))
	record, err := reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, []byte("aaa"), record.Payload)

	require.NoError(t, reader.Seek(offB))
	record, err = reader.ReadNext()
	require.NoError(t, err)
	assert.Equal(t, []byte("bbb"), record.Payload)
}
