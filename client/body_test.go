package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBodyBytesVerbatim(t *testing.T) {
	raw := []byte{0x01, 0x02, 0xFF}
	encoded, contentType, err := encodeBody(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, encoded)
	assert.Empty(t, contentType)
}

func TestEncodeBodyStringUTF8(t *testing.T) {
	encoded, contentType, err := encodeBody("héllo")
	require.NoError(t, err)
	assert.Equal(t, []byte("héllo"), encoded)
	assert.Empty(t, contentType)
}

func TestEncodeBodyJSONFallback(t *testing.T) {
	encoded, contentType, err := encodeBody(map[string]int{"count": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":3}`, string(encoded))
	assert.Equal(t, "application/json", contentType)
}

func TestEncodeBodyNil(t *testing.T) {
	encoded, contentType, err := encodeBody(nil)
	require.NoError(t, err)
	assert.Empty(t, encoded)
	assert.Empty(t, contentType)
}

func TestEncodeBodyRejectsUnmarshalable(t *testing.T) {
	_, _, err := encodeBody(make(chan int))
	assert.Error(t, err)
}

func TestEventTypeStrings(t *testing.T) {
	assert.Equal(t, "connect", EventConnect.String())
	assert.Equal(t, "ready", EventReady.String())
	assert.Equal(t, "blocked", EventBlocked.String())
	assert.Equal(t, "unblocked", EventUnblocked.String())
	assert.Equal(t, "heartbeat", EventHeartbeat.String())
	assert.Equal(t, "error", EventError.String())
	assert.Equal(t, "closed", EventClosed.String())
}
