package utils

import (
	"testing"
)

func TestGetBufferLength(t *testing.T) {
	buf := GetBuffer(1500)
	if len(buf) != 1500 {
		t.Errorf("Expected length 1500, got %d", len(buf))
	}
	PutBuffer(buf)

	small := GetBuffer(100)
	if len(small) != 100 {
		t.Errorf("Expected length 100, got %d", len(small))
	}
	PutBuffer(small)
}

func TestGetBufferOversized(t *testing.T) {
	buf := GetBuffer(8000)
	if len(buf) != 8000 {
		t.Errorf("Expected length 8000, got %d", len(buf))
	}
	// Oversized buffers are not retained; this must not poison the pool.
	PutBuffer(buf)

	next := GetBuffer(1500)
	if cap(next) > maxPooledSize {
		t.Errorf("Pool returned an oversized buffer, cap %d", cap(next))
	}
}

func TestPutBufferRejectsUndersized(t *testing.T) {
	PutBuffer(make([]byte, 10))
	buf := GetBuffer(1500)
	if len(buf) != 1500 {
		t.Errorf("Expected a full-size buffer, got %d", len(buf))
	}
}

func BenchmarkBufferPool(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf := GetBuffer(1500)
		PutBuffer(buf)
	}
}
