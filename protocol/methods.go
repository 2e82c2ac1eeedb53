package protocol

import (
	"encoding/binary"
	"fmt"
)

// Method is implemented by every AMQP method the client can encode or
// decode. Serialize produces the argument bytes that follow the
// class-id/method-id pair in a method frame payload; Deserialize consumes
// them.
type Method interface {
	ClassID() uint16
	MethodID() uint16
	Name() string
	Serialize() ([]byte, error)
	Deserialize(data []byte) error
}

func appendUint16(buf []byte, v uint16) []byte {
	tmp := make([]byte, 2)
	binary.BigEndian.PutUint16(tmp, v)
	return append(buf, tmp...)
}

func appendUint32(buf []byte, v uint32) []byte {
	tmp := make([]byte, 4)
	binary.BigEndian.PutUint32(tmp, v)
	return append(buf, tmp...)
}

func appendUint64(buf []byte, v uint64) []byte {
	tmp := make([]byte, 8)
	binary.BigEndian.PutUint64(tmp, v)
	return append(buf, tmp...)
}

func decodeUint8(data []byte, offset int) (uint8, int, error) {
	if offset >= len(data) {
		return 0, 0, fmt.Errorf("insufficient data for octet")
	}
	return data[offset], offset + 1, nil
}

func decodeUint16(data []byte, offset int) (uint16, int, error) {
	if offset+2 > len(data) {
		return 0, 0, fmt.Errorf("insufficient data for short")
	}
	return binary.BigEndian.Uint16(data[offset:]), offset + 2, nil
}

func decodeUint32(data []byte, offset int) (uint32, int, error) {
	if offset+4 > len(data) {
		return 0, 0, fmt.Errorf("insufficient data for long")
	}
	return binary.BigEndian.Uint32(data[offset:]), offset + 4, nil
}

func decodeUint64(data []byte, offset int) (uint64, int, error) {
	if offset+8 > len(data) {
		return 0, 0, fmt.Errorf("insufficient data for longlong")
	}
	return binary.BigEndian.Uint64(data[offset:]), offset + 8, nil
}

// ---------------------------------------------------------------------------
// Connection class (10)
// ---------------------------------------------------------------------------

// ConnectionStartMethod represents the connection.start method
type ConnectionStartMethod struct {
	VersionMajor     byte
	VersionMinor     byte
	ServerProperties Table
	Mechanisms       string
	Locales          string
}

func (m *ConnectionStartMethod) ClassID() uint16  { return ClassConnection }
func (m *ConnectionStartMethod) MethodID() uint16 { return ConnectionStart }
func (m *ConnectionStartMethod) Name() string     { return "connection.start" }

func (m *ConnectionStartMethod) Serialize() ([]byte, error) {
	result := []byte{m.VersionMajor, m.VersionMinor}

	props, err := EncodeFieldTable(m.ServerProperties)
	if err != nil {
		return nil, err
	}
	result = append(result, props...)
	result = append(result, encodeLongString([]byte(m.Mechanisms))...)
	result = append(result, encodeLongString([]byte(m.Locales))...)
	return result, nil
}

func (m *ConnectionStartMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.VersionMajor, offset, err = decodeUint8(data, offset); err != nil {
		return err
	}
	if m.VersionMinor, offset, err = decodeUint8(data, offset); err != nil {
		return err
	}
	if m.ServerProperties, offset, err = DecodeFieldTable(data, offset); err != nil {
		return fmt.Errorf("server properties: %w", err)
	}
	mechanisms, offset, err := decodeLongString(data, offset)
	if err != nil {
		return fmt.Errorf("mechanisms: %w", err)
	}
	m.Mechanisms = string(mechanisms)
	locales, _, err := decodeLongString(data, offset)
	if err != nil {
		return fmt.Errorf("locales: %w", err)
	}
	m.Locales = string(locales)
	return nil
}

// ConnectionStartOKMethod represents the connection.start-ok method
type ConnectionStartOKMethod struct {
	ClientProperties Table
	Mechanism        string
	Response         []byte
	Locale           string
}

func (m *ConnectionStartOKMethod) ClassID() uint16  { return ClassConnection }
func (m *ConnectionStartOKMethod) MethodID() uint16 { return ConnectionStartOK }
func (m *ConnectionStartOKMethod) Name() string     { return "connection.start-ok" }

func (m *ConnectionStartOKMethod) Serialize() ([]byte, error) {
	props, err := EncodeFieldTable(m.ClientProperties)
	if err != nil {
		return nil, err
	}
	result := props
	result = append(result, encodeShortString(m.Mechanism)...)
	result = append(result, encodeLongString(m.Response)...)
	result = append(result, encodeShortString(m.Locale)...)
	return result, nil
}

func (m *ConnectionStartOKMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.ClientProperties, offset, err = DecodeFieldTable(data, offset); err != nil {
		return fmt.Errorf("client properties: %w", err)
	}
	if m.Mechanism, offset, err = decodeShortString(data, offset); err != nil {
		return fmt.Errorf("mechanism: %w", err)
	}
	if m.Response, offset, err = decodeLongString(data, offset); err != nil {
		return fmt.Errorf("response: %w", err)
	}
	if m.Locale, _, err = decodeShortString(data, offset); err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	return nil
}

// ConnectionSecureMethod represents the connection.secure method
type ConnectionSecureMethod struct {
	Challenge []byte
}

func (m *ConnectionSecureMethod) ClassID() uint16  { return ClassConnection }
func (m *ConnectionSecureMethod) MethodID() uint16 { return ConnectionSecure }
func (m *ConnectionSecureMethod) Name() string     { return "connection.secure" }

func (m *ConnectionSecureMethod) Serialize() ([]byte, error) {
	return encodeLongString(m.Challenge), nil
}

func (m *ConnectionSecureMethod) Deserialize(data []byte) error {
	var err error
	m.Challenge, _, err = decodeLongString(data, 0)
	return err
}

// ConnectionSecureOKMethod represents the connection.secure-ok method
type ConnectionSecureOKMethod struct {
	Response []byte
}

func (m *ConnectionSecureOKMethod) ClassID() uint16  { return ClassConnection }
func (m *ConnectionSecureOKMethod) MethodID() uint16 { return ConnectionSecureOK }
func (m *ConnectionSecureOKMethod) Name() string     { return "connection.secure-ok" }

func (m *ConnectionSecureOKMethod) Serialize() ([]byte, error) {
	return encodeLongString(m.Response), nil
}

func (m *ConnectionSecureOKMethod) Deserialize(data []byte) error {
	var err error
	m.Response, _, err = decodeLongString(data, 0)
	return err
}

// ConnectionTuneMethod represents the connection.tune method
type ConnectionTuneMethod struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (m *ConnectionTuneMethod) ClassID() uint16  { return ClassConnection }
func (m *ConnectionTuneMethod) MethodID() uint16 { return ConnectionTune }
func (m *ConnectionTuneMethod) Name() string     { return "connection.tune" }

func (m *ConnectionTuneMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.ChannelMax)
	result = appendUint32(result, m.FrameMax)
	result = appendUint16(result, m.Heartbeat)
	return result, nil
}

func (m *ConnectionTuneMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.ChannelMax, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.FrameMax, offset, err = decodeUint32(data, offset); err != nil {
		return err
	}
	if m.Heartbeat, _, err = decodeUint16(data, offset); err != nil {
		return err
	}
	return nil
}

// ConnectionTuneOKMethod represents the connection.tune-ok method
type ConnectionTuneOKMethod struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (m *ConnectionTuneOKMethod) ClassID() uint16  { return ClassConnection }
func (m *ConnectionTuneOKMethod) MethodID() uint16 { return ConnectionTuneOK }
func (m *ConnectionTuneOKMethod) Name() string     { return "connection.tune-ok" }

func (m *ConnectionTuneOKMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.ChannelMax)
	result = appendUint32(result, m.FrameMax)
	result = appendUint16(result, m.Heartbeat)
	return result, nil
}

func (m *ConnectionTuneOKMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.ChannelMax, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.FrameMax, offset, err = decodeUint32(data, offset); err != nil {
		return err
	}
	if m.Heartbeat, _, err = decodeUint16(data, offset); err != nil {
		return err
	}
	return nil
}

// ConnectionOpenMethod represents the connection.open method
type ConnectionOpenMethod struct {
	VirtualHost string
	Reserved1   string
	Reserved2   bool
}

func (m *ConnectionOpenMethod) ClassID() uint16  { return ClassConnection }
func (m *ConnectionOpenMethod) MethodID() uint16 { return ConnectionOpen }
func (m *ConnectionOpenMethod) Name() string     { return "connection.open" }

func (m *ConnectionOpenMethod) Serialize() ([]byte, error) {
	result := encodeShortString(m.VirtualHost)
	result = append(result, encodeShortString(m.Reserved1)...)
	result = append(result, packBits(m.Reserved2))
	return result, nil
}

func (m *ConnectionOpenMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.VirtualHost, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.Reserved1, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.Reserved2 = bitSet(bits, 0)
	return nil
}

// ConnectionOpenOKMethod represents the connection.open-ok method
type ConnectionOpenOKMethod struct {
	Reserved1 string
}

func (m *ConnectionOpenOKMethod) ClassID() uint16  { return ClassConnection }
func (m *ConnectionOpenOKMethod) MethodID() uint16 { return ConnectionOpenOK }
func (m *ConnectionOpenOKMethod) Name() string     { return "connection.open-ok" }

func (m *ConnectionOpenOKMethod) Serialize() ([]byte, error) {
	return encodeShortString(m.Reserved1), nil
}

func (m *ConnectionOpenOKMethod) Deserialize(data []byte) error {
	var err error
	m.Reserved1, _, err = decodeShortString(data, 0)
	return err
}

// ConnectionCloseMethod represents the connection.close method
type ConnectionCloseMethod struct {
	ReplyCode  uint16
	ReplyText  string
	FailClass  uint16
	FailMethod uint16
}

func (m *ConnectionCloseMethod) ClassID() uint16  { return ClassConnection }
func (m *ConnectionCloseMethod) MethodID() uint16 { return ConnectionClose }
func (m *ConnectionCloseMethod) Name() string     { return "connection.close" }

func (m *ConnectionCloseMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.ReplyCode)
	result = append(result, encodeShortString(m.ReplyText)...)
	result = appendUint16(result, m.FailClass)
	result = appendUint16(result, m.FailMethod)
	return result, nil
}

func (m *ConnectionCloseMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.ReplyCode, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.ReplyText, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.FailClass, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.FailMethod, _, err = decodeUint16(data, offset); err != nil {
		return err
	}
	return nil
}

// ConnectionCloseOKMethod represents the connection.close-ok method
type ConnectionCloseOKMethod struct{}

func (m *ConnectionCloseOKMethod) ClassID() uint16            { return ClassConnection }
func (m *ConnectionCloseOKMethod) MethodID() uint16           { return ConnectionCloseOK }
func (m *ConnectionCloseOKMethod) Name() string               { return "connection.close-ok" }
func (m *ConnectionCloseOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *ConnectionCloseOKMethod) Deserialize([]byte) error   { return nil }

// ConnectionBlockedMethod represents the connection.blocked method
type ConnectionBlockedMethod struct {
	Reason string
}

func (m *ConnectionBlockedMethod) ClassID() uint16  { return ClassConnection }
func (m *ConnectionBlockedMethod) MethodID() uint16 { return ConnectionBlocked }
func (m *ConnectionBlockedMethod) Name() string     { return "connection.blocked" }

func (m *ConnectionBlockedMethod) Serialize() ([]byte, error) {
	return encodeShortString(m.Reason), nil
}

func (m *ConnectionBlockedMethod) Deserialize(data []byte) error {
	var err error
	m.Reason, _, err = decodeShortString(data, 0)
	return err
}

// ConnectionUnblockedMethod represents the connection.unblocked method
type ConnectionUnblockedMethod struct{}

func (m *ConnectionUnblockedMethod) ClassID() uint16            { return ClassConnection }
func (m *ConnectionUnblockedMethod) MethodID() uint16           { return ConnectionUnblocked }
func (m *ConnectionUnblockedMethod) Name() string               { return "connection.unblocked" }
func (m *ConnectionUnblockedMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *ConnectionUnblockedMethod) Deserialize([]byte) error   { return nil }

// ---------------------------------------------------------------------------
// Channel class (20)
// ---------------------------------------------------------------------------

// ChannelOpenMethod represents the channel.open method
type ChannelOpenMethod struct {
	Reserved1 string
}

func (m *ChannelOpenMethod) ClassID() uint16  { return ClassChannel }
func (m *ChannelOpenMethod) MethodID() uint16 { return ChannelOpen }
func (m *ChannelOpenMethod) Name() string     { return "channel.open" }

func (m *ChannelOpenMethod) Serialize() ([]byte, error) {
	return encodeShortString(m.Reserved1), nil
}

func (m *ChannelOpenMethod) Deserialize(data []byte) error {
	var err error
	m.Reserved1, _, err = decodeShortString(data, 0)
	return err
}

// ChannelOpenOKMethod represents the channel.open-ok method
type ChannelOpenOKMethod struct {
	Reserved1 []byte
}

func (m *ChannelOpenOKMethod) ClassID() uint16  { return ClassChannel }
func (m *ChannelOpenOKMethod) MethodID() uint16 { return ChannelOpenOK }
func (m *ChannelOpenOKMethod) Name() string     { return "channel.open-ok" }

func (m *ChannelOpenOKMethod) Serialize() ([]byte, error) {
	return encodeLongString(m.Reserved1), nil
}

func (m *ChannelOpenOKMethod) Deserialize(data []byte) error {
	var err error
	m.Reserved1, _, err = decodeLongString(data, 0)
	return err
}

// ChannelFlowMethod represents the channel.flow method
type ChannelFlowMethod struct {
	Active bool
}

func (m *ChannelFlowMethod) ClassID() uint16  { return ClassChannel }
func (m *ChannelFlowMethod) MethodID() uint16 { return ChannelFlow }
func (m *ChannelFlowMethod) Name() string     { return "channel.flow" }

func (m *ChannelFlowMethod) Serialize() ([]byte, error) {
	return []byte{packBits(m.Active)}, nil
}

func (m *ChannelFlowMethod) Deserialize(data []byte) error {
	bits, _, err := decodeUint8(data, 0)
	if err != nil {
		return err
	}
	m.Active = bitSet(bits, 0)
	return nil
}

// ChannelFlowOKMethod represents the channel.flow-ok method
type ChannelFlowOKMethod struct {
	Active bool
}

func (m *ChannelFlowOKMethod) ClassID() uint16  { return ClassChannel }
func (m *ChannelFlowOKMethod) MethodID() uint16 { return ChannelFlowOK }
func (m *ChannelFlowOKMethod) Name() string     { return "channel.flow-ok" }

func (m *ChannelFlowOKMethod) Serialize() ([]byte, error) {
	return []byte{packBits(m.Active)}, nil
}

func (m *ChannelFlowOKMethod) Deserialize(data []byte) error {
	bits, _, err := decodeUint8(data, 0)
	if err != nil {
		return err
	}
	m.Active = bitSet(bits, 0)
	return nil
}

// ChannelCloseMethod represents the channel.close method
type ChannelCloseMethod struct {
	ReplyCode  uint16
	ReplyText  string
	FailClass  uint16
	FailMethod uint16
}

func (m *ChannelCloseMethod) ClassID() uint16  { return ClassChannel }
func (m *ChannelCloseMethod) MethodID() uint16 { return ChannelClose }
func (m *ChannelCloseMethod) Name() string     { return "channel.close" }

func (m *ChannelCloseMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.ReplyCode)
	result = append(result, encodeShortString(m.ReplyText)...)
	result = appendUint16(result, m.FailClass)
	result = appendUint16(result, m.FailMethod)
	return result, nil
}

func (m *ChannelCloseMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.ReplyCode, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.ReplyText, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.FailClass, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.FailMethod, _, err = decodeUint16(data, offset); err != nil {
		return err
	}
	return nil
}

// ChannelCloseOKMethod represents the channel.close-ok method
type ChannelCloseOKMethod struct{}

func (m *ChannelCloseOKMethod) ClassID() uint16            { return ClassChannel }
func (m *ChannelCloseOKMethod) MethodID() uint16           { return ChannelCloseOK }
func (m *ChannelCloseOKMethod) Name() string               { return "channel.close-ok" }
func (m *ChannelCloseOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *ChannelCloseOKMethod) Deserialize([]byte) error   { return nil }

// ---------------------------------------------------------------------------
// Exchange class (40)
// ---------------------------------------------------------------------------

// ExchangeDeclareMethod represents the exchange.declare method
type ExchangeDeclareMethod struct {
	Reserved1  uint16
	Exchange   string
	Type       string
	Passive    bool
	Durable    bool
	AutoDelete bool
	Internal   bool
	NoWait     bool
	Arguments  Table
}

func (m *ExchangeDeclareMethod) ClassID() uint16  { return ClassExchange }
func (m *ExchangeDeclareMethod) MethodID() uint16 { return ExchangeDeclare }
func (m *ExchangeDeclareMethod) Name() string     { return "exchange.declare" }

func (m *ExchangeDeclareMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Exchange)...)
	result = append(result, encodeShortString(m.Type)...)
	result = append(result, packBits(m.Passive, m.Durable, m.AutoDelete, m.Internal, m.NoWait))
	args, err := EncodeFieldTable(m.Arguments)
	if err != nil {
		return nil, err
	}
	return append(result, args...), nil
}

func (m *ExchangeDeclareMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Exchange, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.Type, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, offset, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.Passive = bitSet(bits, 0)
	m.Durable = bitSet(bits, 1)
	m.AutoDelete = bitSet(bits, 2)
	m.Internal = bitSet(bits, 3)
	m.NoWait = bitSet(bits, 4)
	if m.Arguments, _, err = DecodeFieldTable(data, offset); err != nil {
		return err
	}
	return nil
}

// ExchangeDeclareOKMethod represents the exchange.declare-ok method
type ExchangeDeclareOKMethod struct{}

func (m *ExchangeDeclareOKMethod) ClassID() uint16            { return ClassExchange }
func (m *ExchangeDeclareOKMethod) MethodID() uint16           { return ExchangeDeclareOK }
func (m *ExchangeDeclareOKMethod) Name() string               { return "exchange.declare-ok" }
func (m *ExchangeDeclareOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *ExchangeDeclareOKMethod) Deserialize([]byte) error   { return nil }

// ExchangeDeleteMethod represents the exchange.delete method
type ExchangeDeleteMethod struct {
	Reserved1 uint16
	Exchange  string
	IfUnused  bool
	NoWait    bool
}

func (m *ExchangeDeleteMethod) ClassID() uint16  { return ClassExchange }
func (m *ExchangeDeleteMethod) MethodID() uint16 { return ExchangeDelete }
func (m *ExchangeDeleteMethod) Name() string     { return "exchange.delete" }

func (m *ExchangeDeleteMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Exchange)...)
	result = append(result, packBits(m.IfUnused, m.NoWait))
	return result, nil
}

func (m *ExchangeDeleteMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Exchange, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.IfUnused = bitSet(bits, 0)
	m.NoWait = bitSet(bits, 1)
	return nil
}

// ExchangeDeleteOKMethod represents the exchange.delete-ok method
type ExchangeDeleteOKMethod struct{}

func (m *ExchangeDeleteOKMethod) ClassID() uint16            { return ClassExchange }
func (m *ExchangeDeleteOKMethod) MethodID() uint16           { return ExchangeDeleteOK }
func (m *ExchangeDeleteOKMethod) Name() string               { return "exchange.delete-ok" }
func (m *ExchangeDeleteOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *ExchangeDeleteOKMethod) Deserialize([]byte) error   { return nil }

// ExchangeBindMethod represents the exchange.bind method
type ExchangeBindMethod struct {
	Reserved1   uint16
	Destination string
	Source      string
	RoutingKey  string
	NoWait      bool
	Arguments   Table
}

func (m *ExchangeBindMethod) ClassID() uint16  { return ClassExchange }
func (m *ExchangeBindMethod) MethodID() uint16 { return ExchangeBind }
func (m *ExchangeBindMethod) Name() string     { return "exchange.bind" }

func (m *ExchangeBindMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Destination)...)
	result = append(result, encodeShortString(m.Source)...)
	result = append(result, encodeShortString(m.RoutingKey)...)
	result = append(result, packBits(m.NoWait))
	args, err := EncodeFieldTable(m.Arguments)
	if err != nil {
		return nil, err
	}
	return append(result, args...), nil
}

func (m *ExchangeBindMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Destination, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.Source, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.RoutingKey, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, offset, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.NoWait = bitSet(bits, 0)
	if m.Arguments, _, err = DecodeFieldTable(data, offset); err != nil {
		return err
	}
	return nil
}

// ExchangeBindOKMethod represents the exchange.bind-ok method
type ExchangeBindOKMethod struct{}

func (m *ExchangeBindOKMethod) ClassID() uint16            { return ClassExchange }
func (m *ExchangeBindOKMethod) MethodID() uint16           { return ExchangeBindOK }
func (m *ExchangeBindOKMethod) Name() string               { return "exchange.bind-ok" }
func (m *ExchangeBindOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *ExchangeBindOKMethod) Deserialize([]byte) error   { return nil }

// ExchangeUnbindMethod represents the exchange.unbind method
type ExchangeUnbindMethod struct {
	Reserved1   uint16
	Destination string
	Source      string
	RoutingKey  string
	NoWait      bool
	Arguments   Table
}

func (m *ExchangeUnbindMethod) ClassID() uint16  { return ClassExchange }
func (m *ExchangeUnbindMethod) MethodID() uint16 { return ExchangeUnbind }
func (m *ExchangeUnbindMethod) Name() string     { return "exchange.unbind" }

func (m *ExchangeUnbindMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Destination)...)
	result = append(result, encodeShortString(m.Source)...)
	result = append(result, encodeShortString(m.RoutingKey)...)
	result = append(result, packBits(m.NoWait))
	args, err := EncodeFieldTable(m.Arguments)
	if err != nil {
		return nil, err
	}
	return append(result, args...), nil
}

func (m *ExchangeUnbindMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Destination, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.Source, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.RoutingKey, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, offset, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.NoWait = bitSet(bits, 0)
	if m.Arguments, _, err = DecodeFieldTable(data, offset); err != nil {
		return err
	}
	return nil
}

// ExchangeUnbindOKMethod represents the exchange.unbind-ok method
type ExchangeUnbindOKMethod struct{}

func (m *ExchangeUnbindOKMethod) ClassID() uint16            { return ClassExchange }
func (m *ExchangeUnbindOKMethod) MethodID() uint16           { return ExchangeUnbindOK }
func (m *ExchangeUnbindOKMethod) Name() string               { return "exchange.unbind-ok" }
func (m *ExchangeUnbindOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *ExchangeUnbindOKMethod) Deserialize([]byte) error   { return nil }

// ---------------------------------------------------------------------------
// Queue class (50)
// ---------------------------------------------------------------------------

// QueueDeclareMethod represents the queue.declare method
type QueueDeclareMethod struct {
	Reserved1  uint16
	Queue      string
	Passive    bool
	Durable    bool
	Exclusive  bool
	AutoDelete bool
	NoWait     bool
	Arguments  Table
}

func (m *QueueDeclareMethod) ClassID() uint16  { return ClassQueue }
func (m *QueueDeclareMethod) MethodID() uint16 { return QueueDeclare }
func (m *QueueDeclareMethod) Name() string     { return "queue.declare" }

func (m *QueueDeclareMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Queue)...)
	result = append(result, packBits(m.Passive, m.Durable, m.Exclusive, m.AutoDelete, m.NoWait))
	args, err := EncodeFieldTable(m.Arguments)
	if err != nil {
		return nil, err
	}
	return append(result, args...), nil
}

func (m *QueueDeclareMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Queue, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, offset, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.Passive = bitSet(bits, 0)
	m.Durable = bitSet(bits, 1)
	m.Exclusive = bitSet(bits, 2)
	m.AutoDelete = bitSet(bits, 3)
	m.NoWait = bitSet(bits, 4)
	if m.Arguments, _, err = DecodeFieldTable(data, offset); err != nil {
		return err
	}
	return nil
}

// QueueDeclareOKMethod represents the queue.declare-ok method
type QueueDeclareOKMethod struct {
	Queue         string
	MessageCount  uint32
	ConsumerCount uint32
}

func (m *QueueDeclareOKMethod) ClassID() uint16  { return ClassQueue }
func (m *QueueDeclareOKMethod) MethodID() uint16 { return QueueDeclareOK }
func (m *QueueDeclareOKMethod) Name() string     { return "queue.declare-ok" }

func (m *QueueDeclareOKMethod) Serialize() ([]byte, error) {
	result := encodeShortString(m.Queue)
	result = appendUint32(result, m.MessageCount)
	result = appendUint32(result, m.ConsumerCount)
	return result, nil
}

func (m *QueueDeclareOKMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Queue, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.MessageCount, offset, err = decodeUint32(data, offset); err != nil {
		return err
	}
	if m.ConsumerCount, _, err = decodeUint32(data, offset); err != nil {
		return err
	}
	return nil
}

// QueueBindMethod represents the queue.bind method
type QueueBindMethod struct {
	Reserved1  uint16
	Queue      string
	Exchange   string
	RoutingKey string
	NoWait     bool
	Arguments  Table
}

func (m *QueueBindMethod) ClassID() uint16  { return ClassQueue }
func (m *QueueBindMethod) MethodID() uint16 { return QueueBind }
func (m *QueueBindMethod) Name() string     { return "queue.bind" }

func (m *QueueBindMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Queue)...)
	result = append(result, encodeShortString(m.Exchange)...)
	result = append(result, encodeShortString(m.RoutingKey)...)
	result = append(result, packBits(m.NoWait))
	args, err := EncodeFieldTable(m.Arguments)
	if err != nil {
		return nil, err
	}
	return append(result, args...), nil
}

func (m *QueueBindMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Queue, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.Exchange, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.RoutingKey, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, offset, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.NoWait = bitSet(bits, 0)
	if m.Arguments, _, err = DecodeFieldTable(data, offset); err != nil {
		return err
	}
	return nil
}

// QueueBindOKMethod represents the queue.bind-ok method
type QueueBindOKMethod struct{}

func (m *QueueBindOKMethod) ClassID() uint16            { return ClassQueue }
func (m *QueueBindOKMethod) MethodID() uint16           { return QueueBindOK }
func (m *QueueBindOKMethod) Name() string               { return "queue.bind-ok" }
func (m *QueueBindOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *QueueBindOKMethod) Deserialize([]byte) error   { return nil }

// QueueUnbindMethod represents the queue.unbind method
type QueueUnbindMethod struct {
	Reserved1  uint16
	Queue      string
	Exchange   string
	RoutingKey string
	Arguments  Table
}

func (m *QueueUnbindMethod) ClassID() uint16  { return ClassQueue }
func (m *QueueUnbindMethod) MethodID() uint16 { return QueueUnbind }
func (m *QueueUnbindMethod) Name() string     { return "queue.unbind" }

func (m *QueueUnbindMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Queue)...)
	result = append(result, encodeShortString(m.Exchange)...)
	result = append(result, encodeShortString(m.RoutingKey)...)
	args, err := EncodeFieldTable(m.Arguments)
	if err != nil {
		return nil, err
	}
	return append(result, args...), nil
}

func (m *QueueUnbindMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Queue, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.Exchange, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.RoutingKey, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.Arguments, _, err = DecodeFieldTable(data, offset); err != nil {
		return err
	}
	return nil
}

// QueueUnbindOKMethod represents the queue.unbind-ok method
type QueueUnbindOKMethod struct{}

func (m *QueueUnbindOKMethod) ClassID() uint16            { return ClassQueue }
func (m *QueueUnbindOKMethod) MethodID() uint16           { return QueueUnbindOK }
func (m *QueueUnbindOKMethod) Name() string               { return "queue.unbind-ok" }
func (m *QueueUnbindOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *QueueUnbindOKMethod) Deserialize([]byte) error   { return nil }

// QueuePurgeMethod represents the queue.purge method
type QueuePurgeMethod struct {
	Reserved1 uint16
	Queue     string
	NoWait    bool
}

func (m *QueuePurgeMethod) ClassID() uint16  { return ClassQueue }
func (m *QueuePurgeMethod) MethodID() uint16 { return QueuePurge }
func (m *QueuePurgeMethod) Name() string     { return "queue.purge" }

func (m *QueuePurgeMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Queue)...)
	result = append(result, packBits(m.NoWait))
	return result, nil
}

func (m *QueuePurgeMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Queue, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.NoWait = bitSet(bits, 0)
	return nil
}

// QueuePurgeOKMethod represents the queue.purge-ok method
type QueuePurgeOKMethod struct {
	MessageCount uint32
}

func (m *QueuePurgeOKMethod) ClassID() uint16  { return ClassQueue }
func (m *QueuePurgeOKMethod) MethodID() uint16 { return QueuePurgeOK }
func (m *QueuePurgeOKMethod) Name() string     { return "queue.purge-ok" }

func (m *QueuePurgeOKMethod) Serialize() ([]byte, error) {
	return appendUint32(nil, m.MessageCount), nil
}

func (m *QueuePurgeOKMethod) Deserialize(data []byte) error {
	var err error
	m.MessageCount, _, err = decodeUint32(data, 0)
	return err
}

// QueueDeleteMethod represents the queue.delete method
type QueueDeleteMethod struct {
	Reserved1 uint16
	Queue     string
	IfUnused  bool
	IfEmpty   bool
	NoWait    bool
}

func (m *QueueDeleteMethod) ClassID() uint16  { return ClassQueue }
func (m *QueueDeleteMethod) MethodID() uint16 { return QueueDelete }
func (m *QueueDeleteMethod) Name() string     { return "queue.delete" }

func (m *QueueDeleteMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Queue)...)
	result = append(result, packBits(m.IfUnused, m.IfEmpty, m.NoWait))
	return result, nil
}

func (m *QueueDeleteMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Queue, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.IfUnused = bitSet(bits, 0)
	m.IfEmpty = bitSet(bits, 1)
	m.NoWait = bitSet(bits, 2)
	return nil
}

// QueueDeleteOKMethod represents the queue.delete-ok method
type QueueDeleteOKMethod struct {
	MessageCount uint32
}

func (m *QueueDeleteOKMethod) ClassID() uint16  { return ClassQueue }
func (m *QueueDeleteOKMethod) MethodID() uint16 { return QueueDeleteOK }
func (m *QueueDeleteOKMethod) Name() string     { return "queue.delete-ok" }

func (m *QueueDeleteOKMethod) Serialize() ([]byte, error) {
	return appendUint32(nil, m.MessageCount), nil
}

func (m *QueueDeleteOKMethod) Deserialize(data []byte) error {
	var err error
	m.MessageCount, _, err = decodeUint32(data, 0)
	return err
}

// ---------------------------------------------------------------------------
// Basic class (60)
// ---------------------------------------------------------------------------

// BasicQosMethod represents the basic.qos method
type BasicQosMethod struct {
	PrefetchSize  uint32
	PrefetchCount uint16
	Global        bool
}

func (m *BasicQosMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicQosMethod) MethodID() uint16 { return BasicQos }
func (m *BasicQosMethod) Name() string     { return "basic.qos" }

func (m *BasicQosMethod) Serialize() ([]byte, error) {
	result := appendUint32(nil, m.PrefetchSize)
	result = appendUint16(result, m.PrefetchCount)
	result = append(result, packBits(m.Global))
	return result, nil
}

func (m *BasicQosMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.PrefetchSize, offset, err = decodeUint32(data, offset); err != nil {
		return err
	}
	if m.PrefetchCount, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.Global = bitSet(bits, 0)
	return nil
}

// BasicQosOKMethod represents the basic.qos-ok method
type BasicQosOKMethod struct{}

func (m *BasicQosOKMethod) ClassID() uint16            { return ClassBasic }
func (m *BasicQosOKMethod) MethodID() uint16           { return BasicQosOK }
func (m *BasicQosOKMethod) Name() string               { return "basic.qos-ok" }
func (m *BasicQosOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *BasicQosOKMethod) Deserialize([]byte) error   { return nil }

// BasicConsumeMethod represents the basic.consume method
type BasicConsumeMethod struct {
	Reserved1   uint16
	Queue       string
	ConsumerTag string
	NoLocal     bool
	NoAck       bool
	Exclusive   bool
	NoWait      bool
	Arguments   Table
}

func (m *BasicConsumeMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicConsumeMethod) MethodID() uint16 { return BasicConsume }
func (m *BasicConsumeMethod) Name() string     { return "basic.consume" }

func (m *BasicConsumeMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Queue)...)
	result = append(result, encodeShortString(m.ConsumerTag)...)
	result = append(result, packBits(m.NoLocal, m.NoAck, m.Exclusive, m.NoWait))
	args, err := EncodeFieldTable(m.Arguments)
	if err != nil {
		return nil, err
	}
	return append(result, args...), nil
}

func (m *BasicConsumeMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Queue, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.ConsumerTag, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, offset, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.NoLocal = bitSet(bits, 0)
	m.NoAck = bitSet(bits, 1)
	m.Exclusive = bitSet(bits, 2)
	m.NoWait = bitSet(bits, 3)
	if m.Arguments, _, err = DecodeFieldTable(data, offset); err != nil {
		return err
	}
	return nil
}

// BasicConsumeOKMethod represents the basic.consume-ok method
type BasicConsumeOKMethod struct {
	ConsumerTag string
}

func (m *BasicConsumeOKMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicConsumeOKMethod) MethodID() uint16 { return BasicConsumeOK }
func (m *BasicConsumeOKMethod) Name() string     { return "basic.consume-ok" }

func (m *BasicConsumeOKMethod) Serialize() ([]byte, error) {
	return encodeShortString(m.ConsumerTag), nil
}

func (m *BasicConsumeOKMethod) Deserialize(data []byte) error {
	var err error
	m.ConsumerTag, _, err = decodeShortString(data, 0)
	return err
}

// BasicCancelMethod represents the basic.cancel method
type BasicCancelMethod struct {
	ConsumerTag string
	NoWait      bool
}

func (m *BasicCancelMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicCancelMethod) MethodID() uint16 { return BasicCancel }
func (m *BasicCancelMethod) Name() string     { return "basic.cancel" }

func (m *BasicCancelMethod) Serialize() ([]byte, error) {
	result := encodeShortString(m.ConsumerTag)
	result = append(result, packBits(m.NoWait))
	return result, nil
}

func (m *BasicCancelMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.ConsumerTag, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.NoWait = bitSet(bits, 0)
	return nil
}

// BasicCancelOKMethod represents the basic.cancel-ok method
type BasicCancelOKMethod struct {
	ConsumerTag string
}

func (m *BasicCancelOKMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicCancelOKMethod) MethodID() uint16 { return BasicCancelOK }
func (m *BasicCancelOKMethod) Name() string     { return "basic.cancel-ok" }

func (m *BasicCancelOKMethod) Serialize() ([]byte, error) {
	return encodeShortString(m.ConsumerTag), nil
}

func (m *BasicCancelOKMethod) Deserialize(data []byte) error {
	var err error
	m.ConsumerTag, _, err = decodeShortString(data, 0)
	return err
}

// BasicPublishMethod represents the basic.publish method
type BasicPublishMethod struct {
	Reserved1  uint16
	Exchange   string
	RoutingKey string
	Mandatory  bool
	Immediate  bool
}

func (m *BasicPublishMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicPublishMethod) MethodID() uint16 { return BasicPublish }
func (m *BasicPublishMethod) Name() string     { return "basic.publish" }

func (m *BasicPublishMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Exchange)...)
	result = append(result, encodeShortString(m.RoutingKey)...)
	result = append(result, packBits(m.Mandatory, m.Immediate))
	return result, nil
}

func (m *BasicPublishMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Exchange, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.RoutingKey, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.Mandatory = bitSet(bits, 0)
	m.Immediate = bitSet(bits, 1)
	return nil
}

// BasicReturnMethod represents the basic.return method
type BasicReturnMethod struct {
	ReplyCode  uint16
	ReplyText  string
	Exchange   string
	RoutingKey string
}

func (m *BasicReturnMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicReturnMethod) MethodID() uint16 { return BasicReturn }
func (m *BasicReturnMethod) Name() string     { return "basic.return" }

func (m *BasicReturnMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.ReplyCode)
	result = append(result, encodeShortString(m.ReplyText)...)
	result = append(result, encodeShortString(m.Exchange)...)
	result = append(result, encodeShortString(m.RoutingKey)...)
	return result, nil
}

func (m *BasicReturnMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.ReplyCode, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.ReplyText, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.Exchange, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.RoutingKey, _, err = decodeShortString(data, offset); err != nil {
		return err
	}
	return nil
}

// BasicDeliverMethod represents the basic.deliver method
type BasicDeliverMethod struct {
	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
}

func (m *BasicDeliverMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicDeliverMethod) MethodID() uint16 { return BasicDeliver }
func (m *BasicDeliverMethod) Name() string     { return "basic.deliver" }

func (m *BasicDeliverMethod) Serialize() ([]byte, error) {
	result := encodeShortString(m.ConsumerTag)
	result = appendUint64(result, m.DeliveryTag)
	result = append(result, packBits(m.Redelivered))
	result = append(result, encodeShortString(m.Exchange)...)
	result = append(result, encodeShortString(m.RoutingKey)...)
	return result, nil
}

func (m *BasicDeliverMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.ConsumerTag, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.DeliveryTag, offset, err = decodeUint64(data, offset); err != nil {
		return err
	}
	bits, offset, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.Redelivered = bitSet(bits, 0)
	if m.Exchange, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.RoutingKey, _, err = decodeShortString(data, offset); err != nil {
		return err
	}
	return nil
}

// BasicGetMethod represents the basic.get method
type BasicGetMethod struct {
	Reserved1 uint16
	Queue     string
	NoAck     bool
}

func (m *BasicGetMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicGetMethod) MethodID() uint16 { return BasicGet }
func (m *BasicGetMethod) Name() string     { return "basic.get" }

func (m *BasicGetMethod) Serialize() ([]byte, error) {
	result := appendUint16(nil, m.Reserved1)
	result = append(result, encodeShortString(m.Queue)...)
	result = append(result, packBits(m.NoAck))
	return result, nil
}

func (m *BasicGetMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.Reserved1, offset, err = decodeUint16(data, offset); err != nil {
		return err
	}
	if m.Queue, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.NoAck = bitSet(bits, 0)
	return nil
}

// BasicGetOKMethod represents the basic.get-ok method
type BasicGetOKMethod struct {
	DeliveryTag  uint64
	Redelivered  bool
	Exchange     string
	RoutingKey   string
	MessageCount uint32
}

func (m *BasicGetOKMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicGetOKMethod) MethodID() uint16 { return BasicGetOK }
func (m *BasicGetOKMethod) Name() string     { return "basic.get-ok" }

func (m *BasicGetOKMethod) Serialize() ([]byte, error) {
	result := appendUint64(nil, m.DeliveryTag)
	result = append(result, packBits(m.Redelivered))
	result = append(result, encodeShortString(m.Exchange)...)
	result = append(result, encodeShortString(m.RoutingKey)...)
	result = appendUint32(result, m.MessageCount)
	return result, nil
}

func (m *BasicGetOKMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.DeliveryTag, offset, err = decodeUint64(data, offset); err != nil {
		return err
	}
	bits, offset, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.Redelivered = bitSet(bits, 0)
	if m.Exchange, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.RoutingKey, offset, err = decodeShortString(data, offset); err != nil {
		return err
	}
	if m.MessageCount, _, err = decodeUint32(data, offset); err != nil {
		return err
	}
	return nil
}

// BasicGetEmptyMethod represents the basic.get-empty method
type BasicGetEmptyMethod struct {
	Reserved1 string
}

func (m *BasicGetEmptyMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicGetEmptyMethod) MethodID() uint16 { return BasicGetEmpty }
func (m *BasicGetEmptyMethod) Name() string     { return "basic.get-empty" }

func (m *BasicGetEmptyMethod) Serialize() ([]byte, error) {
	return encodeShortString(m.Reserved1), nil
}

func (m *BasicGetEmptyMethod) Deserialize(data []byte) error {
	var err error
	m.Reserved1, _, err = decodeShortString(data, 0)
	return err
}

// BasicAckMethod represents the basic.ack method
type BasicAckMethod struct {
	DeliveryTag uint64
	Multiple    bool
}

func (m *BasicAckMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicAckMethod) MethodID() uint16 { return BasicAck }
func (m *BasicAckMethod) Name() string     { return "basic.ack" }

func (m *BasicAckMethod) Serialize() ([]byte, error) {
	result := appendUint64(nil, m.DeliveryTag)
	result = append(result, packBits(m.Multiple))
	return result, nil
}

func (m *BasicAckMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.DeliveryTag, offset, err = decodeUint64(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.Multiple = bitSet(bits, 0)
	return nil
}

// BasicRejectMethod represents the basic.reject method
type BasicRejectMethod struct {
	DeliveryTag uint64
	Requeue     bool
}

func (m *BasicRejectMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicRejectMethod) MethodID() uint16 { return BasicReject }
func (m *BasicRejectMethod) Name() string     { return "basic.reject" }

func (m *BasicRejectMethod) Serialize() ([]byte, error) {
	result := appendUint64(nil, m.DeliveryTag)
	result = append(result, packBits(m.Requeue))
	return result, nil
}

func (m *BasicRejectMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.DeliveryTag, offset, err = decodeUint64(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.Requeue = bitSet(bits, 0)
	return nil
}

// BasicRecoverAsyncMethod represents the basic.recover-async method
type BasicRecoverAsyncMethod struct {
	Requeue bool
}

func (m *BasicRecoverAsyncMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicRecoverAsyncMethod) MethodID() uint16 { return BasicRecoverAsync }
func (m *BasicRecoverAsyncMethod) Name() string     { return "basic.recover-async" }

func (m *BasicRecoverAsyncMethod) Serialize() ([]byte, error) {
	return []byte{packBits(m.Requeue)}, nil
}

func (m *BasicRecoverAsyncMethod) Deserialize(data []byte) error {
	bits, _, err := decodeUint8(data, 0)
	if err != nil {
		return err
	}
	m.Requeue = bitSet(bits, 0)
	return nil
}

// BasicRecoverMethod represents the basic.recover method
type BasicRecoverMethod struct {
	Requeue bool
}

func (m *BasicRecoverMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicRecoverMethod) MethodID() uint16 { return BasicRecover }
func (m *BasicRecoverMethod) Name() string     { return "basic.recover" }

func (m *BasicRecoverMethod) Serialize() ([]byte, error) {
	return []byte{packBits(m.Requeue)}, nil
}

func (m *BasicRecoverMethod) Deserialize(data []byte) error {
	bits, _, err := decodeUint8(data, 0)
	if err != nil {
		return err
	}
	m.Requeue = bitSet(bits, 0)
	return nil
}

// BasicRecoverOKMethod represents the basic.recover-ok method
type BasicRecoverOKMethod struct{}

func (m *BasicRecoverOKMethod) ClassID() uint16            { return ClassBasic }
func (m *BasicRecoverOKMethod) MethodID() uint16           { return BasicRecoverOK }
func (m *BasicRecoverOKMethod) Name() string               { return "basic.recover-ok" }
func (m *BasicRecoverOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *BasicRecoverOKMethod) Deserialize([]byte) error   { return nil }

// BasicNackMethod represents the basic.nack method (RabbitMQ extension)
type BasicNackMethod struct {
	DeliveryTag uint64
	Multiple    bool
	Requeue     bool
}

func (m *BasicNackMethod) ClassID() uint16  { return ClassBasic }
func (m *BasicNackMethod) MethodID() uint16 { return BasicNack }
func (m *BasicNackMethod) Name() string     { return "basic.nack" }

func (m *BasicNackMethod) Serialize() ([]byte, error) {
	result := appendUint64(nil, m.DeliveryTag)
	result = append(result, packBits(m.Multiple, m.Requeue))
	return result, nil
}

func (m *BasicNackMethod) Deserialize(data []byte) error {
	var err error
	offset := 0
	if m.DeliveryTag, offset, err = decodeUint64(data, offset); err != nil {
		return err
	}
	bits, _, err := decodeUint8(data, offset)
	if err != nil {
		return err
	}
	m.Multiple = bitSet(bits, 0)
	m.Requeue = bitSet(bits, 1)
	return nil
}

// ---------------------------------------------------------------------------
// Confirm class (85, RabbitMQ extension)
// ---------------------------------------------------------------------------

// ConfirmSelectMethod represents the confirm.select method
type ConfirmSelectMethod struct {
	NoWait bool
}

func (m *ConfirmSelectMethod) ClassID() uint16  { return ClassConfirm }
func (m *ConfirmSelectMethod) MethodID() uint16 { return ConfirmSelect }
func (m *ConfirmSelectMethod) Name() string     { return "confirm.select" }

func (m *ConfirmSelectMethod) Serialize() ([]byte, error) {
	return []byte{packBits(m.NoWait)}, nil
}

func (m *ConfirmSelectMethod) Deserialize(data []byte) error {
	bits, _, err := decodeUint8(data, 0)
	if err != nil {
		return err
	}
	m.NoWait = bitSet(bits, 0)
	return nil
}

// ConfirmSelectOKMethod represents the confirm.select-ok method
type ConfirmSelectOKMethod struct{}

func (m *ConfirmSelectOKMethod) ClassID() uint16            { return ClassConfirm }
func (m *ConfirmSelectOKMethod) MethodID() uint16           { return ConfirmSelectOK }
func (m *ConfirmSelectOKMethod) Name() string               { return "confirm.select-ok" }
func (m *ConfirmSelectOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *ConfirmSelectOKMethod) Deserialize([]byte) error   { return nil }

// ---------------------------------------------------------------------------
// Tx class (90)
// ---------------------------------------------------------------------------

// TxSelectMethod represents the tx.select method
type TxSelectMethod struct{}

func (m *TxSelectMethod) ClassID() uint16            { return ClassTx }
func (m *TxSelectMethod) MethodID() uint16           { return TxSelect }
func (m *TxSelectMethod) Name() string               { return "tx.select" }
func (m *TxSelectMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *TxSelectMethod) Deserialize([]byte) error   { return nil }

// TxSelectOKMethod represents the tx.select-ok method
type TxSelectOKMethod struct{}

func (m *TxSelectOKMethod) ClassID() uint16            { return ClassTx }
func (m *TxSelectOKMethod) MethodID() uint16           { return TxSelectOK }
func (m *TxSelectOKMethod) Name() string               { return "tx.select-ok" }
func (m *TxSelectOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *TxSelectOKMethod) Deserialize([]byte) error   { return nil }

// TxCommitMethod represents the tx.commit method
type TxCommitMethod struct{}

func (m *TxCommitMethod) ClassID() uint16            { return ClassTx }
func (m *TxCommitMethod) MethodID() uint16           { return TxCommit }
func (m *TxCommitMethod) Name() string               { return "tx.commit" }
func (m *TxCommitMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *TxCommitMethod) Deserialize([]byte) error   { return nil }

// TxCommitOKMethod represents the tx.commit-ok method
type TxCommitOKMethod struct{}

func (m *TxCommitOKMethod) ClassID() uint16            { return ClassTx }
func (m *TxCommitOKMethod) MethodID() uint16           { return TxCommitOK }
func (m *TxCommitOKMethod) Name() string               { return "tx.commit-ok" }
func (m *TxCommitOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *TxCommitOKMethod) Deserialize([]byte) error   { return nil }

// TxRollbackMethod represents the tx.rollback method
type TxRollbackMethod struct{}

func (m *TxRollbackMethod) ClassID() uint16            { return ClassTx }
func (m *TxRollbackMethod) MethodID() uint16           { return TxRollback }
func (m *TxRollbackMethod) Name() string               { return "tx.rollback" }
func (m *TxRollbackMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *TxRollbackMethod) Deserialize([]byte) error   { return nil }

// TxRollbackOKMethod represents the tx.rollback-ok method
type TxRollbackOKMethod struct{}

func (m *TxRollbackOKMethod) ClassID() uint16            { return ClassTx }
func (m *TxRollbackOKMethod) MethodID() uint16           { return TxRollbackOK }
func (m *TxRollbackOKMethod) Name() string               { return "tx.rollback-ok" }
func (m *TxRollbackOKMethod) Serialize() ([]byte, error) { return []byte{}, nil }
func (m *TxRollbackOKMethod) Deserialize([]byte) error   { return nil }
