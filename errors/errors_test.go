package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAMQPErrorFormatting(t *testing.T) {
	err := &AMQPError{Code: 320, Message: "connection forced"}
	assert.Equal(t, "AMQP Error 320: connection forced", err.Error())

	plain := &AMQPError{Message: "just a message"}
	assert.Equal(t, "just a message", plain.Error())
}

func TestErrorsUnwrapToAMQPError(t *testing.T) {
	cases := []error{
		NewTransportError("broker:5672", fmt.Errorf("connection refused")),
		NewTimeoutError("broker:5672"),
		NewHeartbeatTimeout(120),
		NewFrameError("bad frame"),
		NewUnknownMethod(99, 99),
		NewBadServerVersion(1, 0),
		NewAuthenticationFailure("guest"),
		NewServerClosed(320, "CONNECTION_FORCED"),
		NewNoChannelsAvailable(2047),
		NewUncaughtMethod("basic.deliver", "awaiting-start"),
		NewInvalidURI("http://x", "scheme must be amqp or amqps"),
	}

	for _, err := range cases {
		var amqpErr *AMQPError
		assert.True(t, errors.As(err, &amqpErr), "%T should expose AMQPError", err)
	}
}

func TestTransportErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset by peer")
	err := NewTransportError("broker:5672", cause)
	assert.ErrorIs(t, err, cause)
}

func TestUnknownMethodCarriesIDs(t *testing.T) {
	err := NewUnknownMethod(60, 125)
	assert.Equal(t, uint16(60), err.MethodClassID)
	assert.Equal(t, uint16(125), err.MethodIndexID)
	assert.True(t, IsUnknownMethod(err))
	assert.False(t, IsUnknownMethod(fmt.Errorf("other")))
}

func TestHeartbeatTimeoutClassification(t *testing.T) {
	err := NewHeartbeatTimeout(120)
	assert.Equal(t, 120, err.GraceSeconds)
	assert.True(t, IsHeartbeatTimeout(err))
	assert.False(t, IsHeartbeatTimeout(NewFrameError("x")))
}

func TestServerClosedCarriesReply(t *testing.T) {
	err := NewServerClosed(320, "CONNECTION_FORCED - broker shutdown")
	assert.True(t, IsServerClosed(err))
	assert.Equal(t, 320, GetErrorCode(err))
	assert.Contains(t, err.Error(), "CONNECTION_FORCED")
}

func TestIsPermanent(t *testing.T) {
	permanent := []error{
		NewAuthenticationFailure("guest"),
		NewBadServerVersion(1, 0),
		NewInvalidURI("http://x", "bad scheme"),
	}
	for _, err := range permanent {
		assert.True(t, IsPermanent(err), "%T should be permanent", err)
	}

	transient := []error{
		NewTransportError("broker:5672", fmt.Errorf("refused")),
		NewTimeoutError("broker:5672"),
		NewHeartbeatTimeout(120),
		NewServerClosed(320, "forced"),
		NewFrameError("bad"),
	}
	for _, err := range transient {
		assert.False(t, IsPermanent(err), "%T should be retryable", err)
	}
}

func TestIsPermanentThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handshake: %w", NewBadServerVersion(1, 0))
	require.True(t, IsPermanent(wrapped))
}

func TestGetErrorCodeNonAMQP(t *testing.T) {
	assert.Zero(t, GetErrorCode(fmt.Errorf("plain")))
}
