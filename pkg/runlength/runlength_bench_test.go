//go:build bench
// +build bench

package runlength

import (
	"bytes"
	"testing"
)

func sparseData(size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i += 64 {
		data[i] = byte(i/64 + 1)
	}
	return data
}

// BenchmarkZeroEncode contrasts sparse input (long zero runs) with dense
// input that takes the size-neutral path.
func BenchmarkZeroEncode(b *testing.B) {
	benchmarks := []struct {
		name string
		data []byte
	}{
		{"sparse_4KB", sparseData(4 * 1024)},
		{"dense_4KB", bytes.Repeat([]byte{1, 2, 3, 4}, 1024)},
		{"worst_case_4KB", bytes.Repeat([]byte{0, 1}, 2*1024)},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(bm.data)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = ZeroEncode(bm.data)
			}
		})
	}
}

// BenchmarkZeroDecode measures expansion of heavily compressed input.
func BenchmarkZeroDecode(b *testing.B) {
	benchmarks := []struct {
		name string
		data []byte
	}{
		{"sparse_4KB", ZeroEncode(sparseData(4 * 1024))},
		{"dense_4KB", ZeroEncode(bytes.Repeat([]byte{1, 2, 3, 4}, 1024))},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = ZeroDecode(bm.data)
			}
		})
	}
}

// BenchmarkZeroOneEncode measures the two-sentinel predicate.
func BenchmarkZeroOneEncode(b *testing.B) {
	data := make([]byte, 4*1024)
	for i := range data {
		switch (i / 100) % 3 {
		case 0:
			data[i] = 0x00
		case 1:
			data[i] = 0xFF
		default:
			data[i] = byte(i)
		}
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = ZeroOneEncode(data)
	}
}
