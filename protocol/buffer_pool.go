package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
)

// Buffer pooling for one-call frame writes. The pool is safe for
// concurrent use and rejects oversized buffers (>64KB) to avoid pinning
// memory after a large message passes through.

// bufferPool is a pool of bytes.Buffer objects for reuse
var bufferPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Buffer{}
	},
}

// getBuffer gets a buffer from the pool
func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool
func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 {
		return
	}
	bufferPool.Put(buf)
}

// WriteFrameTo encodes a frame through a pooled buffer and flushes it to
// w in a single write. It serves writers that have no FrameWriter and
// therefore no negotiated frame limit: scripted peers in tests, probes,
// anything speaking raw frames.
func WriteFrameTo(w io.Writer, f *Frame) error {
	buf := getBuffer()
	defer putBuffer(buf)

	buf.Grow(frameOverhead + len(f.Payload))
	buf.WriteByte(f.Type)

	var header [6]byte
	binary.BigEndian.PutUint16(header[0:2], f.Channel)
	binary.BigEndian.PutUint32(header[2:6], uint32(len(f.Payload)))
	buf.Write(header[:])

	buf.Write(f.Payload)
	buf.WriteByte(FrameEnd)

	_, err := buf.WriteTo(w)
	return err
}
