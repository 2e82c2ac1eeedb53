package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHeaderRoundTrip(t *testing.T) {
	header := NewContentHeader(300000, &BasicProperties{
		ContentType:   "application/json",
		DeliveryMode:  2,
		Priority:      5,
		CorrelationID: "corr-1",
		ReplyTo:       "reply-queue",
		MessageID:     "msg-1",
		Timestamp:     time.Unix(1700000000, 0),
		Headers:       Table{"x-retry": int32(3)},
	})

	payload, err := header.Serialize()
	require.NoError(t, err)

	decoded, err := DecodeContentHeader(payload)
	require.NoError(t, err)

	assert.Equal(t, uint16(ClassBasic), decoded.ClassID)
	assert.Equal(t, uint16(0), decoded.Weight)
	assert.Equal(t, uint64(300000), decoded.BodySize)
	assert.Equal(t, "application/json", decoded.Properties.ContentType)
	assert.Equal(t, uint8(2), decoded.Properties.DeliveryMode)
	assert.Equal(t, uint8(5), decoded.Properties.Priority)
	assert.Equal(t, "corr-1", decoded.Properties.CorrelationID)
	assert.Equal(t, "reply-queue", decoded.Properties.ReplyTo)
	assert.Equal(t, "msg-1", decoded.Properties.MessageID)
	assert.Equal(t, time.Unix(1700000000, 0), decoded.Properties.Timestamp)
	assert.Equal(t, int32(3), decoded.Properties.Headers["x-retry"])
}

func TestContentHeaderDefaultContentType(t *testing.T) {
	header := NewContentHeader(10, nil)
	payload, err := header.Serialize()
	require.NoError(t, err)

	decoded, err := DecodeContentHeader(payload)
	require.NoError(t, err)
	assert.Equal(t, DefaultContentType, decoded.Properties.ContentType)
	assert.Equal(t, uint16(FlagContentType), decoded.PropertyFlags)
}

func TestContentHeaderPropertyFlagBits(t *testing.T) {
	// field i of the Basic descriptor owns flag bit 15-i
	assert.Equal(t, uint16(FlagContentType), BasicClass.FlagForField(0))
	assert.Equal(t, uint16(FlagContentEncoding), BasicClass.FlagForField(1))
	assert.Equal(t, uint16(FlagHeaders), BasicClass.FlagForField(2))
	assert.Equal(t, uint16(FlagDeliveryMode), BasicClass.FlagForField(3))
	assert.Equal(t, uint16(FlagClusterID), BasicClass.FlagForField(13))
	assert.Len(t, BasicClass.Fields, 14)
}

func TestContentHeaderOnlySetPropertiesSerialized(t *testing.T) {
	header := NewContentHeader(5, &BasicProperties{DeliveryMode: 2})
	payload, err := header.Serialize()
	require.NoError(t, err)

	// class(2) + weight(2) + bodySize(8) + flags(2) + deliveryMode(1)
	assert.Len(t, payload, 15)

	decoded, err := DecodeContentHeader(payload)
	require.NoError(t, err)
	assert.Equal(t, uint16(FlagDeliveryMode), decoded.PropertyFlags)
	assert.Equal(t, uint8(2), decoded.Properties.DeliveryMode)
	assert.Empty(t, decoded.Properties.ContentType)
}

func TestDecodeContentHeaderTooShort(t *testing.T) {
	_, err := DecodeContentHeader([]byte{0, 60, 0, 0})
	assert.Error(t, err)
}
