package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameMarshalUnmarshalRoundTrip(t *testing.T) {
	original := &Frame{
		Type:    FrameMethod,
		Channel: 1,
		Payload: []byte{0x00, 0x0A, 0x00, 0x0A},
	}

	data, err := original.MarshalBinary()
	require.NoError(t, err)

	decoded := &Frame{}
	require.NoError(t, decoded.UnmarshalBinary(data))

	assert.Equal(t, original.Type, decoded.Type)
	assert.Equal(t, original.Channel, decoded.Channel)
	assert.Equal(t, original.Payload, decoded.Payload)

	// byte-for-byte round trip
	again, err := decoded.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestFrameUnmarshalRejectsBadEndByte(t *testing.T) {
	frame := &Frame{Type: FrameMethod, Channel: 1, Payload: []byte{1, 2, 3}}
	data, err := frame.MarshalBinary()
	require.NoError(t, err)

	data[len(data)-1] = 0x00
	assert.Error(t, (&Frame{}).UnmarshalBinary(data))
}

func TestFrameUnmarshalRejectsSizeMismatch(t *testing.T) {
	frame := &Frame{Type: FrameBody, Channel: 2, Payload: []byte{1, 2, 3, 4}}
	data, err := frame.MarshalBinary()
	require.NoError(t, err)

	assert.Error(t, (&Frame{}).UnmarshalBinary(data[:len(data)-2]))
}

func TestHeartbeatFrameWireFormat(t *testing.T) {
	data, err := NewHeartbeatFrame().MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xCE}, data)
}

func TestProtocolHeader(t *testing.T) {
	assert.Equal(t, []byte{'A', 'M', 'Q', 'P', 0x00, 0x00, 0x09, 0x01}, ProtocolHeader())
}

func TestReadFrame(t *testing.T) {
	frame := &Frame{Type: FrameMethod, Channel: 7, Payload: []byte{0x00, 0x0A, 0x00, 0x28}}
	data, err := frame.MarshalBinary()
	require.NoError(t, err)

	decoded, err := ReadFrame(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, frame.Type, decoded.Type)
	assert.Equal(t, frame.Channel, decoded.Channel)
	assert.Equal(t, frame.Payload, decoded.Payload)
}

func TestSplitBodyChunking(t *testing.T) {
	// 300000 bytes at frameMax 131072 leaves 131064 payload bytes per
	// frame, so three frames: 131064 + 131064 + 37872
	body := make([]byte, 300000)
	for i := range body {
		body[i] = byte(i)
	}

	frames := SplitBody(5, body, 131072)
	require.Len(t, frames, 3)
	assert.Equal(t, 131064, len(frames[0].Payload))
	assert.Equal(t, 131064, len(frames[1].Payload))
	assert.Equal(t, 37872, len(frames[2].Payload))

	var reassembled []byte
	for _, f := range frames {
		assert.Equal(t, byte(FrameBody), f.Type)
		assert.Equal(t, uint16(5), f.Channel)
		reassembled = append(reassembled, f.Payload...)
	}
	assert.Equal(t, body, reassembled)
}

func TestSplitBodyEmpty(t *testing.T) {
	assert.Empty(t, SplitBody(1, nil, 131072))
}

func TestWriteFrameToMatchesMarshal(t *testing.T) {
	frame := &Frame{Type: FrameMethod, Channel: 9, Payload: []byte{0x00, 0x3C, 0x00, 0x28, 0xFF}}

	expected, err := frame.MarshalBinary()
	require.NoError(t, err)

	// repeat so the second pass goes through a recycled pool buffer
	for i := 0; i < 3; i++ {
		var sink bytes.Buffer
		require.NoError(t, WriteFrameTo(&sink, frame))
		assert.Equal(t, expected, sink.Bytes())
	}
}

func TestFrameWriterWritesThroughSendBuffer(t *testing.T) {
	var sink bytes.Buffer
	writer := NewFrameWriter(&sink, 8192)

	frame := &Frame{Type: FrameMethod, Channel: 3, Payload: []byte{1, 2, 3}}
	require.NoError(t, writer.WriteFrame(frame))

	expected, err := frame.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, expected, sink.Bytes())
}

func TestFrameWriterRejectsOversizedFrame(t *testing.T) {
	var sink bytes.Buffer
	writer := NewFrameWriter(&sink, FrameMinSize)

	frame := &Frame{Type: FrameBody, Channel: 1, Payload: make([]byte, FrameMinSize)}
	assert.Error(t, writer.WriteFrame(frame))
	assert.Zero(t, sink.Len())
}

func TestFrameWriterResizeAfterTune(t *testing.T) {
	var sink bytes.Buffer
	writer := NewFrameWriter(&sink, FrameMinSize)
	writer.SetMaxFrameSize(131072)
	assert.Equal(t, uint32(131072), writer.MaxFrameSize())

	frame := &Frame{Type: FrameBody, Channel: 1, Payload: make([]byte, 100000)}
	require.NoError(t, writer.WriteFrame(frame))
}

func TestFrameWriterContiguousFrames(t *testing.T) {
	var sink bytes.Buffer
	writer := NewFrameWriter(&sink, 8192)

	first := &Frame{Type: FrameMethod, Channel: 1, Payload: []byte{1}}
	second := &Frame{Type: FrameBody, Channel: 1, Payload: []byte{2, 3}}
	require.NoError(t, writer.WriteFrames(first, second))

	reader := bytes.NewReader(sink.Bytes())
	decoded1, err := ReadFrame(reader)
	require.NoError(t, err)
	decoded2, err := ReadFrame(reader)
	require.NoError(t, err)
	assert.Equal(t, first.Payload, decoded1.Payload)
	assert.Equal(t, second.Payload, decoded2.Payload)
}
