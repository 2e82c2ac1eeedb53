package client

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amqperrors "github.com/maxpert/amqp-client-go/errors"
	"github.com/maxpert/amqp-client-go/protocol"
)

func TestHandshakeHappyPath(t *testing.T) {
	broker := newFakeBroker(t)
	broker.run()

	conn, err := NewConnection(testConfig(t, broker))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Connect(ctx))
	defer conn.End()

	assert.Equal(t, StateReady, conn.State())
	assert.Equal(t, uint32(131072), conn.FrameMax())
	assert.Equal(t, uint16(2047), conn.ChannelMax())
	assert.Equal(t, "fake-broker", conn.ServerProperties()["product"])

	methods := broker.recordedMethods()

	startOk, ok := methodOfType[*protocol.ConnectionStartOKMethod](methods)
	require.True(t, ok)
	assert.Equal(t, "AMQPLAIN", startOk.Mechanism)
	assert.Equal(t, "en_US", startOk.Locale)
	assert.Equal(t, "amqp-client-go", startOk.ClientProperties["product"])

	// the AMQPLAIN response is a field table body with the credentials
	framed := make([]byte, 4, 4+len(startOk.Response))
	binary.BigEndian.PutUint32(framed, uint32(len(startOk.Response)))
	framed = append(framed, startOk.Response...)
	creds, _, err := protocol.DecodeFieldTable(framed, 0)
	require.NoError(t, err)
	assert.Equal(t, "guest", creds["LOGIN"])
	assert.Equal(t, "guest", creds["PASSWORD"])

	tuneOk, ok := methodOfType[*protocol.ConnectionTuneOKMethod](methods)
	require.True(t, ok)
	assert.Equal(t, uint16(2047), tuneOk.ChannelMax)
	assert.Equal(t, uint32(131072), tuneOk.FrameMax)
	assert.Equal(t, uint16(60), tuneOk.Heartbeat)

	open, ok := methodOfType[*protocol.ConnectionOpenMethod](methods)
	require.True(t, ok)
	assert.Equal(t, "/", open.VirtualHost)
	assert.Equal(t, "", open.Reserved1)
	assert.True(t, open.Reserved2)

	// handshake emission order: start-ok, tune-ok, open
	var names []string
	for _, m := range methods {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"connection.start-ok", "connection.tune-ok", "connection.open"}, names[:3])
}

func TestReadyEmittedExactlyOnce(t *testing.T) {
	broker := newFakeBroker(t)
	broker.run()

	conn, err := NewConnection(testConfig(t, broker))
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))
	defer conn.End()

	readyCount := 0
	deadline := time.After(300 * time.Millisecond)
	for {
		select {
		case event := <-conn.Events():
			if event.Type == EventReady {
				readyCount++
			}
		case <-deadline:
			assert.Equal(t, 1, readyCount)
			return
		}
	}
}

func TestBadServerVersion(t *testing.T) {
	broker := newFakeBroker(t)

	go func() {
		conn, err := broker.listener.Accept()
		if err != nil {
			return
		}
		header := make([]byte, 8)
		if _, err := conn.Read(header); err != nil {
			return
		}
		broker.sendMethod(conn, 0, &protocol.ConnectionStartMethod{
			VersionMajor: 1,
			VersionMinor: 0,
			Mechanisms:   "PLAIN",
			Locales:      "en_US",
		})
	}()

	conn, err := NewConnection(testConfig(t, broker))
	require.NoError(t, err)

	err = conn.Connect(context.Background())
	require.Error(t, err)

	var versionErr *amqperrors.BadServerVersionError
	assert.True(t, errors.As(err, &versionErr))
	assert.Equal(t, byte(1), versionErr.Major)
	assert.Equal(t, StateFailed, conn.State())
}

func TestServerInitiatedClose(t *testing.T) {
	broker := newFakeBroker(t)
	broker.run()

	conn, err := NewConnection(testConfig(t, broker))
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))

	broker.mu.Lock()
	brokerConn := broker.conn
	broker.mu.Unlock()
	broker.sendMethod(brokerConn, 0, &protocol.ConnectionCloseMethod{
		ReplyCode: 320,
		ReplyText: "CONNECTION_FORCED - broker shutdown",
	})

	var closeErr error
	waitFor(t, 2*time.Second, func() bool {
		select {
		case event := <-conn.Events():
			if event.Type == EventError && event.Err != nil {
				closeErr = event.Err
				return true
			}
		default:
		}
		return false
	})
	assert.True(t, amqperrors.IsServerClosed(closeErr))
	assert.Equal(t, 320, amqperrors.GetErrorCode(closeErr))

	// the client answered with close-ok before tearing down
	waitFor(t, 2*time.Second, func() bool {
		_, ok := methodOfType[*protocol.ConnectionCloseOKMethod](broker.recordedMethods())
		return ok
	})
}

func TestBlockedAndUnblockedEvents(t *testing.T) {
	broker := newFakeBroker(t)
	broker.run()

	conn, err := NewConnection(testConfig(t, broker))
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))
	defer conn.End()

	broker.mu.Lock()
	brokerConn := broker.conn
	broker.mu.Unlock()

	broker.sendMethod(brokerConn, 0, &protocol.ConnectionBlockedMethod{Reason: "low on memory"})
	waitFor(t, 2*time.Second, func() bool {
		blocked, reason := conn.IsBlocked()
		return blocked && reason == "low on memory"
	})

	broker.sendMethod(brokerConn, 0, &protocol.ConnectionUnblockedMethod{})
	waitFor(t, 2*time.Second, func() bool {
		blocked, _ := conn.IsBlocked()
		return !blocked
	})
	assert.Equal(t, StateReady, conn.State())
}

func TestDisconnectHandshake(t *testing.T) {
	broker := newFakeBroker(t)
	broker.run()

	conn, err := NewConnection(testConfig(t, broker))
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))

	require.NoError(t, conn.Disconnect())
	assert.Equal(t, StateDisconnected, conn.State())

	closeMethod, ok := methodOfType[*protocol.ConnectionCloseMethod](broker.recordedMethods())
	require.True(t, ok)
	assert.Equal(t, uint16(protocol.ReplySuccess), closeMethod.ReplyCode)
	assert.Equal(t, "client disconnect", closeMethod.ReplyText)
}

func TestChannelOpenAndPublish(t *testing.T) {
	broker := newFakeBroker(t)
	broker.run()

	conn, err := NewConnection(testConfig(t, broker))
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))
	defer conn.End()

	ch, err := conn.Channel()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), ch.ID())
	assert.Equal(t, ChannelOpen, ch.State())

	body := make([]byte, 300000)
	require.NoError(t, ch.Publish("", "task-queue", body, PublishOptions{}))

	// one method frame, one header, then ceil(300000/131064) = 3 body
	// frames sized 131064, 131064, 37872
	waitFor(t, 2*time.Second, func() bool {
		var bodies int
		for _, f := range broker.recordedFrames() {
			if f.Type == protocol.FrameBody {
				bodies++
			}
		}
		return bodies == 3
	})

	var bodySizes []int
	var sawHeader bool
	for _, f := range broker.recordedFrames() {
		switch f.Type {
		case protocol.FrameBody:
			bodySizes = append(bodySizes, len(f.Payload))
		case protocol.FrameHeader:
			header, err := protocol.DecodeContentHeader(f.Payload)
			require.NoError(t, err)
			assert.Equal(t, uint64(300000), header.BodySize)
			sawHeader = true
		}
	}
	assert.True(t, sawHeader)
	assert.Equal(t, []int{131064, 131064, 37872}, bodySizes)

	publish, ok := methodOfType[*protocol.BasicPublishMethod](broker.recordedMethods())
	require.True(t, ok)
	assert.Equal(t, "task-queue", publish.RoutingKey)
}

func TestDeliveryAssemblyAcrossBodyFrames(t *testing.T) {
	broker := newFakeBroker(t)
	broker.run()

	conn, err := NewConnection(testConfig(t, broker))
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))
	defer conn.End()

	ch, err := conn.Channel()
	require.NoError(t, err)

	deliveries := make(chan Delivery, 1)
	consumer, err := ch.Consume("tasks", ConsumeOptions{Tag: "ctag-test"}, func(d Delivery) {
		deliveries <- d
	})
	require.NoError(t, err)
	assert.Equal(t, "ctag-test", consumer.Tag)

	// push one message split across two body frames
	broker.mu.Lock()
	brokerConn := broker.conn
	broker.mu.Unlock()

	broker.sendMethod(brokerConn, ch.ID(), &protocol.BasicDeliverMethod{
		ConsumerTag: "ctag-test",
		DeliveryTag: 1,
		Exchange:    "",
		RoutingKey:  "tasks",
	})
	header, err := protocol.NewHeaderFrame(ch.ID(), protocol.NewContentHeader(10, &protocol.BasicProperties{
		ContentType: "text/plain",
	}))
	require.NoError(t, err)
	broker.sendFrame(brokerConn, header)

	for _, chunk := range [][]byte{[]byte("hello"), []byte("world")} {
		broker.sendFrame(brokerConn, &protocol.Frame{Type: protocol.FrameBody, Channel: ch.ID(), Payload: chunk})
	}

	select {
	case delivery := <-deliveries:
		assert.Equal(t, "ctag-test", delivery.ConsumerTag)
		assert.Equal(t, uint64(1), delivery.DeliveryTag)
		assert.Equal(t, []byte("helloworld"), delivery.Body)
		assert.Equal(t, "text/plain", delivery.Properties.ContentType)
	case <-time.After(2 * time.Second):
		t.Fatal("delivery never arrived")
	}
}

func TestConnectContextCancellation(t *testing.T) {
	// a listener that never answers leaves the handshake hanging
	broker := newFakeBroker(t)

	conn, err := NewConnection(testConfig(t, broker))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = conn.Connect(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
