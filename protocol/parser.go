package protocol

import (
	"encoding/binary"

	amqperrors "github.com/maxpert/amqp-client-go/errors"
)

// FrameHandler receives the structured events the parser produces. All
// callbacks run on the goroutine that feeds the parser, in arrival order.
type FrameHandler interface {
	OnMethod(channel uint16, method Method)
	OnContentHeader(channel uint16, header *ContentHeader)
	OnContent(channel uint16, payload []byte)
	OnHeartbeat()
	OnError(err error)
}

// parserMode tracks what the parser expects next from the byte stream
type parserMode int

const (
	modeReadHeader parserMode = iota
	modeReadPayload
	modeFailed
)

// Parser reassembles AMQP frames from an arbitrarily chunked byte stream
// and dispatches them as typed events. It handles partial frames across
// chunk boundaries and multiple frames per chunk. After the first error
// the parser is terminal and must be discarded by the host.
type Parser struct {
	handler FrameHandler

	mode         parserMode
	frameType    byte
	frameChannel uint16
	payloadLen   uint32

	buf          []byte
	maxFrameSize uint32
}

// NewParser creates a parser enforcing the given frame size limit
func NewParser(handler FrameHandler, maxFrameSize uint32) *Parser {
	if maxFrameSize < FrameMinSize {
		maxFrameSize = FrameMinSize
	}
	return &Parser{
		handler:      handler,
		mode:         modeReadHeader,
		maxFrameSize: maxFrameSize,
	}
}

// SetMaxFrameSize updates the enforced frame size limit after
// Connection.Tune renegotiates it
func (p *Parser) SetMaxFrameSize(maxFrameSize uint32) {
	if maxFrameSize >= FrameMinSize {
		p.maxFrameSize = maxFrameSize
	}
}

// Failed reports whether the parser has entered its terminal error state
func (p *Parser) Failed() bool {
	return p.mode == modeFailed
}

// Feed consumes a chunk of bytes from the transport. Any number of
// complete frames contained in the accumulated buffer are dispatched; a
// trailing partial frame is retained for the next chunk.
func (p *Parser) Feed(chunk []byte) {
	if p.mode == modeFailed {
		return
	}

	p.buf = append(p.buf, chunk...)

	for {
		switch p.mode {
		case modeReadHeader:
			if len(p.buf) < 7 {
				return
			}
			p.frameType = p.buf[0]
			p.frameChannel = binary.BigEndian.Uint16(p.buf[1:3])
			p.payloadLen = binary.BigEndian.Uint32(p.buf[3:7])

			if p.payloadLen+uint32(frameOverhead) > p.maxFrameSize {
				p.fail(amqperrors.NewFrameErrorf("frame payload of %d bytes exceeds limit %d", p.payloadLen, p.maxFrameSize))
				return
			}
			p.buf = p.buf[7:]
			p.mode = modeReadPayload

		case modeReadPayload:
			// payload plus the frame-end byte
			need := int(p.payloadLen) + 1
			if len(p.buf) < need {
				return
			}
			payload := p.buf[:p.payloadLen]
			endByte := p.buf[p.payloadLen]
			if endByte != FrameEnd {
				p.fail(amqperrors.NewFrameErrorf("invalid frame end-byte: 0x%02X", endByte))
				return
			}

			if err := p.dispatch(p.frameType, p.frameChannel, payload); err != nil {
				p.fail(err)
				return
			}

			p.buf = p.buf[need:]
			p.mode = modeReadHeader

		default:
			return
		}
	}
}

// dispatch completes one frame and emits the corresponding event
func (p *Parser) dispatch(frameType byte, channel uint16, payload []byte) error {
	switch frameType {
	case FrameHeartbeat:
		p.handler.OnHeartbeat()
		return nil

	case FrameMethod:
		method, err := DecodeMethod(payload)
		if err != nil {
			return err
		}
		p.handler.OnMethod(channel, method)
		return nil

	case FrameHeader:
		header, err := DecodeContentHeader(payload)
		if err != nil {
			return amqperrors.NewFrameErrorf("decode content header: %v", err)
		}
		p.handler.OnContentHeader(channel, header)
		return nil

	case FrameBody:
		// the buffer is reused across feeds, hand out a copy
		body := make([]byte, len(payload))
		copy(body, payload)
		p.handler.OnContent(channel, body)
		return nil

	default:
		return amqperrors.NewFrameErrorf("unknown frame type: %d", frameType)
	}
}

// fail moves the parser into its terminal state and reports the error
func (p *Parser) fail(err error) {
	p.mode = modeFailed
	p.buf = nil
	p.handler.OnError(err)
}
