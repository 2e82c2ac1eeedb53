package protocol

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Property flags for the Basic class content header. Field i of the class
// descriptor owns bit 15-i of the flags word.
const (
	FlagContentType     = 0x8000
	FlagContentEncoding = 0x4000
	FlagHeaders         = 0x2000
	FlagDeliveryMode    = 0x1000
	FlagPriority        = 0x0800
	FlagCorrelationID   = 0x0400
	FlagReplyTo         = 0x0200
	FlagExpiration      = 0x0100
	FlagMessageID       = 0x0080
	FlagTimestamp       = 0x0040
	FlagType            = 0x0020
	FlagUserID          = 0x0010
	FlagAppID           = 0x0008
	FlagClusterID       = 0x0004
)

// ClassField describes one content property of a class: its name and the
// AMQP domain it is serialized as.
type ClassField struct {
	Name   string
	Domain string
}

// ClassDescriptor describes a content-bearing class. Basic (60) is the
// only class that carries content headers in 0.9.1.
type ClassDescriptor struct {
	Index  uint16
	Name   string
	Fields []ClassField
}

// BasicClass is the descriptor for class 60. The field order fixes the
// property flag bits: field i owns bit 15-i.
var BasicClass = ClassDescriptor{
	Index: ClassBasic,
	Name:  "basic",
	Fields: []ClassField{
		{Name: "contentType", Domain: "shortstr"},
		{Name: "contentEncoding", Domain: "shortstr"},
		{Name: "headers", Domain: "table"},
		{Name: "deliveryMode", Domain: "octet"},
		{Name: "priority", Domain: "octet"},
		{Name: "correlationId", Domain: "shortstr"},
		{Name: "replyTo", Domain: "shortstr"},
		{Name: "expiration", Domain: "shortstr"},
		{Name: "messageId", Domain: "shortstr"},
		{Name: "timestamp", Domain: "timestamp"},
		{Name: "type", Domain: "shortstr"},
		{Name: "userId", Domain: "shortstr"},
		{Name: "appId", Domain: "shortstr"},
		{Name: "clusterId", Domain: "shortstr"},
	},
}

// FlagForField returns the property-flag bit owned by field i of the
// descriptor.
func (d *ClassDescriptor) FlagForField(i int) uint16 {
	return 1 << uint(15-i)
}

// DefaultContentType is applied when a message is published with no
// properties at all.
const DefaultContentType = "application/octet-stream"

// BasicProperties carries the user-visible message metadata of a Basic
// class content header.
type BasicProperties struct {
	ContentType     string
	ContentEncoding string
	Headers         Table
	DeliveryMode    uint8
	Priority        uint8
	CorrelationID   string
	ReplyTo         string
	Expiration      string
	MessageID       string
	Timestamp       time.Time
	Type            string
	UserID          string
	AppID           string
	ClusterID       string
}

// flags computes the property-flags word from the properties that are set
func (p *BasicProperties) flags() uint16 {
	var flags uint16
	if p.ContentType != "" {
		flags |= FlagContentType
	}
	if p.ContentEncoding != "" {
		flags |= FlagContentEncoding
	}
	if len(p.Headers) > 0 {
		flags |= FlagHeaders
	}
	if p.DeliveryMode != 0 {
		flags |= FlagDeliveryMode
	}
	if p.Priority != 0 {
		flags |= FlagPriority
	}
	if p.CorrelationID != "" {
		flags |= FlagCorrelationID
	}
	if p.ReplyTo != "" {
		flags |= FlagReplyTo
	}
	if p.Expiration != "" {
		flags |= FlagExpiration
	}
	if p.MessageID != "" {
		flags |= FlagMessageID
	}
	if !p.Timestamp.IsZero() {
		flags |= FlagTimestamp
	}
	if p.Type != "" {
		flags |= FlagType
	}
	if p.UserID != "" {
		flags |= FlagUserID
	}
	if p.AppID != "" {
		flags |= FlagAppID
	}
	if p.ClusterID != "" {
		flags |= FlagClusterID
	}
	return flags
}

// ContentHeader represents a content header frame payload
type ContentHeader struct {
	ClassID       uint16
	Weight        uint16
	BodySize      uint64
	PropertyFlags uint16
	Properties    BasicProperties
}

// NewContentHeader builds a Basic class content header for a message of
// the given body size. A nil properties pointer gets the default content
// type.
func NewContentHeader(bodySize uint64, props *BasicProperties) *ContentHeader {
	if props == nil {
		props = &BasicProperties{ContentType: DefaultContentType}
	}
	return &ContentHeader{
		ClassID:    BasicClass.Index,
		BodySize:   bodySize,
		Properties: *props,
	}
}

// Serialize encodes the ContentHeader into a content header frame payload
func (h *ContentHeader) Serialize() ([]byte, error) {
	flags := h.Properties.flags()
	h.PropertyFlags = flags

	result := appendUint16(nil, h.ClassID)
	result = appendUint16(result, h.Weight)
	result = appendUint64(result, h.BodySize)
	result = appendUint16(result, flags)

	p := &h.Properties
	if flags&FlagContentType != 0 {
		result = append(result, encodeShortString(p.ContentType)...)
	}
	if flags&FlagContentEncoding != 0 {
		result = append(result, encodeShortString(p.ContentEncoding)...)
	}
	if flags&FlagHeaders != 0 {
		headers, err := EncodeFieldTable(p.Headers)
		if err != nil {
			return nil, fmt.Errorf("encode headers: %w", err)
		}
		result = append(result, headers...)
	}
	if flags&FlagDeliveryMode != 0 {
		result = append(result, p.DeliveryMode)
	}
	if flags&FlagPriority != 0 {
		result = append(result, p.Priority)
	}
	if flags&FlagCorrelationID != 0 {
		result = append(result, encodeShortString(p.CorrelationID)...)
	}
	if flags&FlagReplyTo != 0 {
		result = append(result, encodeShortString(p.ReplyTo)...)
	}
	if flags&FlagExpiration != 0 {
		result = append(result, encodeShortString(p.Expiration)...)
	}
	if flags&FlagMessageID != 0 {
		result = append(result, encodeShortString(p.MessageID)...)
	}
	if flags&FlagTimestamp != 0 {
		result = appendUint64(result, uint64(p.Timestamp.Unix()))
	}
	if flags&FlagType != 0 {
		result = append(result, encodeShortString(p.Type)...)
	}
	if flags&FlagUserID != 0 {
		result = append(result, encodeShortString(p.UserID)...)
	}
	if flags&FlagAppID != 0 {
		result = append(result, encodeShortString(p.AppID)...)
	}
	if flags&FlagClusterID != 0 {
		result = append(result, encodeShortString(p.ClusterID)...)
	}
	return result, nil
}

// DecodeContentHeader decodes a content header frame payload
func DecodeContentHeader(payload []byte) (*ContentHeader, error) {
	if len(payload) < 14 { // class(2) + weight(2) + body-size(8) + flags(2)
		return nil, fmt.Errorf("content header payload too short: %d bytes", len(payload))
	}

	header := &ContentHeader{
		ClassID:       binary.BigEndian.Uint16(payload[0:2]),
		Weight:        binary.BigEndian.Uint16(payload[2:4]),
		BodySize:      binary.BigEndian.Uint64(payload[4:12]),
		PropertyFlags: binary.BigEndian.Uint16(payload[12:14]),
	}
	offset := 14

	flags := header.PropertyFlags
	p := &header.Properties
	var err error

	if flags&FlagContentType != 0 {
		if p.ContentType, offset, err = decodeShortString(payload, offset); err != nil {
			return nil, fmt.Errorf("content type: %w", err)
		}
	}
	if flags&FlagContentEncoding != 0 {
		if p.ContentEncoding, offset, err = decodeShortString(payload, offset); err != nil {
			return nil, fmt.Errorf("content encoding: %w", err)
		}
	}
	if flags&FlagHeaders != 0 {
		if p.Headers, offset, err = DecodeFieldTable(payload, offset); err != nil {
			return nil, fmt.Errorf("headers: %w", err)
		}
	}
	if flags&FlagDeliveryMode != 0 {
		if p.DeliveryMode, offset, err = decodeUint8(payload, offset); err != nil {
			return nil, fmt.Errorf("delivery mode: %w", err)
		}
	}
	if flags&FlagPriority != 0 {
		if p.Priority, offset, err = decodeUint8(payload, offset); err != nil {
			return nil, fmt.Errorf("priority: %w", err)
		}
	}
	if flags&FlagCorrelationID != 0 {
		if p.CorrelationID, offset, err = decodeShortString(payload, offset); err != nil {
			return nil, fmt.Errorf("correlation id: %w", err)
		}
	}
	if flags&FlagReplyTo != 0 {
		if p.ReplyTo, offset, err = decodeShortString(payload, offset); err != nil {
			return nil, fmt.Errorf("reply-to: %w", err)
		}
	}
	if flags&FlagExpiration != 0 {
		if p.Expiration, offset, err = decodeShortString(payload, offset); err != nil {
			return nil, fmt.Errorf("expiration: %w", err)
		}
	}
	if flags&FlagMessageID != 0 {
		if p.MessageID, offset, err = decodeShortString(payload, offset); err != nil {
			return nil, fmt.Errorf("message id: %w", err)
		}
	}
	if flags&FlagTimestamp != 0 {
		var ts uint64
		if ts, offset, err = decodeUint64(payload, offset); err != nil {
			return nil, fmt.Errorf("timestamp: %w", err)
		}
		p.Timestamp = time.Unix(int64(ts), 0)
	}
	if flags&FlagType != 0 {
		if p.Type, offset, err = decodeShortString(payload, offset); err != nil {
			return nil, fmt.Errorf("type: %w", err)
		}
	}
	if flags&FlagUserID != 0 {
		if p.UserID, offset, err = decodeShortString(payload, offset); err != nil {
			return nil, fmt.Errorf("user id: %w", err)
		}
	}
	if flags&FlagAppID != 0 {
		if p.AppID, offset, err = decodeShortString(payload, offset); err != nil {
			return nil, fmt.Errorf("app id: %w", err)
		}
	}
	if flags&FlagClusterID != 0 {
		if p.ClusterID, _, err = decodeShortString(payload, offset); err != nil {
			return nil, fmt.Errorf("cluster id: %w", err)
		}
	}

	return header, nil
}

// NewHeaderFrame builds a content header frame for the given channel
func NewHeaderFrame(channel uint16, header *ContentHeader) (*Frame, error) {
	payload, err := header.Serialize()
	if err != nil {
		return nil, err
	}
	return &Frame{Type: FrameHeader, Channel: channel, Payload: payload}, nil
}
