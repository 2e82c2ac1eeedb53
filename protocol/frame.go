package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// Frame represents an AMQP frame
type Frame struct {
	Type    byte
	Channel uint16
	Payload []byte
}

// ProtocolHeader is the 8-byte sequence sent once at connection start. It
// is not a frame and has no frame-end byte.
func ProtocolHeader() []byte {
	return []byte{'A', 'M', 'Q', 'P', 0, 0, 9, 1}
}

// MarshalBinary encodes a frame into binary format following AMQP 0.9.1 spec
// Format: (1-byte type) + (2-byte channel) + (4-byte size) + (size-byte payload) + (1-byte end: 0xCE)
func (f *Frame) MarshalBinary() ([]byte, error) {
	data := make([]byte, frameOverhead+len(f.Payload))

	data[0] = f.Type
	binary.BigEndian.PutUint16(data[1:3], f.Channel)
	binary.BigEndian.PutUint32(data[3:7], uint32(len(f.Payload)))
	copy(data[7:], f.Payload)
	data[7+len(f.Payload)] = FrameEnd

	return data, nil
}

// UnmarshalBinary decodes a frame from binary format
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < frameOverhead {
		return fmt.Errorf("frame too short: %d bytes", len(data))
	}

	f.Type = data[0]
	f.Channel = binary.BigEndian.Uint16(data[1:3])
	payloadSize := binary.BigEndian.Uint32(data[3:7])

	if len(data) != int(payloadSize)+frameOverhead {
		return fmt.Errorf("frame size mismatch: expected %d bytes but got %d", int(payloadSize)+frameOverhead, len(data))
	}

	if data[7+payloadSize] != FrameEnd {
		return fmt.Errorf("invalid frame end-byte: 0x%02X", data[7+payloadSize])
	}

	f.Payload = make([]byte, payloadSize)
	copy(f.Payload, data[7:7+payloadSize])

	return nil
}

// NewMethodFrame builds a method frame for the given class, method and
// serialized arguments
func NewMethodFrame(channel uint16, classID, methodID uint16, args []byte) *Frame {
	payload := make([]byte, 4+len(args))
	binary.BigEndian.PutUint16(payload[0:2], classID)
	binary.BigEndian.PutUint16(payload[2:4], methodID)
	copy(payload[4:], args)

	return &Frame{Type: FrameMethod, Channel: channel, Payload: payload}
}

// NewHeartbeatFrame builds the zero-payload heartbeat frame. On the wire
// it is exactly 08 00 00 00 00 00 00 CE.
func NewHeartbeatFrame() *Frame {
	return &Frame{Type: FrameHeartbeat, Channel: 0}
}

// SplitBody splits a message body into content body frames so that each
// frame fits within maxFrameSize on the wire, in order. An empty body
// yields no frames.
func SplitBody(channel uint16, body []byte, maxFrameSize uint32) []*Frame {
	if maxFrameSize < frameOverhead {
		maxFrameSize = FrameMinSize
	}
	chunkSize := int(maxFrameSize) - frameOverhead

	var frames []*Frame
	for offset := 0; offset < len(body); offset += chunkSize {
		end := offset + chunkSize
		if end > len(body) {
			end = len(body)
		}
		frames = append(frames, &Frame{
			Type:    FrameBody,
			Channel: channel,
			Payload: body[offset:end],
		})
	}
	return frames
}

// ReadFrame reads a frame from an io.Reader
func ReadFrame(reader io.Reader) (*Frame, error) {
	// Read the frame header (first 7 bytes: type, channel, size)
	header := make([]byte, 7)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, err
	}

	frameType := header[0]
	channel := binary.BigEndian.Uint16(header[1:3])
	size := binary.BigEndian.Uint32(header[3:7])

	// Read the payload + end-byte
	payload := make([]byte, size+1)
	if _, err := io.ReadFull(reader, payload); err != nil {
		return nil, err
	}

	if payload[size] != FrameEnd {
		return nil, fmt.Errorf("invalid frame end-byte: 0x%02X", payload[size])
	}

	return &Frame{
		Type:    frameType,
		Channel: channel,
		Payload: payload[:size],
	}, nil
}

// FrameWriter serializes frames onto a transport through a single reused
// send buffer sized to the negotiated frame max. Writes are serialized by
// an internal mutex; the buffer is never observed half-filled.
type FrameWriter struct {
	mu     sync.Mutex
	w      io.Writer
	buf    []byte
	maxLen uint32
}

// NewFrameWriter creates a writer with the given initial frame size limit
func NewFrameWriter(w io.Writer, maxFrameSize uint32) *FrameWriter {
	if maxFrameSize < FrameMinSize {
		maxFrameSize = FrameMinSize
	}
	return &FrameWriter{
		w:      w,
		buf:    make([]byte, maxFrameSize),
		maxLen: maxFrameSize,
	}
}

// SetMaxFrameSize reallocates the send buffer after Connection.Tune
// renegotiates the frame max
func (fw *FrameWriter) SetMaxFrameSize(maxFrameSize uint32) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if maxFrameSize < FrameMinSize {
		maxFrameSize = FrameMinSize
	}
	fw.maxLen = maxFrameSize
	fw.buf = make([]byte, maxFrameSize)
}

// MaxFrameSize returns the current frame size limit
func (fw *FrameWriter) MaxFrameSize() uint32 {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.maxLen
}

// WriteProtocolHeader writes the initial protocol header to the transport
func (fw *FrameWriter) WriteProtocolHeader() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	_, err := fw.w.Write(ProtocolHeader())
	return err
}

// WriteFrame serializes a frame into the send buffer and flushes it to the
// transport in one write. The copy-out completes before the lock is
// released.
func (fw *FrameWriter) WriteFrame(f *Frame) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.writeFrameLocked(f)
}

func (fw *FrameWriter) writeFrameLocked(f *Frame) error {
	wireLen := frameOverhead + len(f.Payload)
	if uint32(wireLen) > fw.maxLen {
		return fmt.Errorf("frame of %d bytes exceeds negotiated frame max %d", wireLen, fw.maxLen)
	}

	buf := fw.buf[:wireLen]
	buf[0] = f.Type
	binary.BigEndian.PutUint16(buf[1:3], f.Channel)
	binary.BigEndian.PutUint32(buf[3:7], uint32(len(f.Payload)))
	copy(buf[7:], f.Payload)
	buf[wireLen-1] = FrameEnd

	_, err := fw.w.Write(buf)
	return err
}

// WriteFrames writes a sequence of frames back to back under one lock
// acquisition, so the frames of one message stay contiguous on the wire
// even with concurrent writers. Used for method+header+body emission.
func (fw *FrameWriter) WriteFrames(frames ...*Frame) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	for _, f := range frames {
		if err := fw.writeFrameLocked(f); err != nil {
			return err
		}
	}
	return nil
}

// String returns a string representation of the frame
func (f *Frame) String() string {
	var frameType string
	switch f.Type {
	case FrameMethod:
		frameType = "METHOD"
	case FrameHeader:
		frameType = "HEADER"
	case FrameBody:
		frameType = "BODY"
	case FrameHeartbeat:
		frameType = "HEARTBEAT"
	default:
		frameType = fmt.Sprintf("UNKNOWN(%d)", f.Type)
	}
	return fmt.Sprintf("Frame{type=%s, channel=%d, size=%d}", frameType, f.Channel, len(f.Payload))
}
