// Buffer pool for the RTP read path. The activity detector reads one RTP
// packet per call; pooling the receive buffers keeps the per-packet
// allocation off the hot loop.
package utils

import (
	"sync"
)

// Sized for a full UDP MTU payload; covers every RTP packet a voice or
// video track produces.
const defaultBufferSize = 1500

// Oversized buffers are dropped on Put instead of being retained.
const maxPooledSize = 4096

var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, defaultBufferSize)
	},
}

// GetBuffer returns a slice of the requested length. The backing array may
// be recycled from an earlier PutBuffer call.
func GetBuffer(length int) []byte {
	buf := bufferPool.Get().([]byte)
	if cap(buf) < length {
		return make([]byte, length)
	}
	return buf[:length]
}

// PutBuffer returns a slice to the pool. Undersized and oversized slices
// are discarded to keep the pool contents uniform.
func PutBuffer(buf []byte) {
	if cap(buf) < defaultBufferSize || cap(buf) > maxPooledSize {
		return
	}
	bufferPool.Put(buf[:cap(buf)])
}
