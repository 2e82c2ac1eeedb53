package auth

import (
	"fmt"

	"github.com/maxpert/amqp-client-go/protocol"
)

// Credentials holds what the client presents to the broker during
// connection.start-ok
type Credentials struct {
	Username string
	Password string
}

// Mechanism produces the SASL response for one authentication mechanism.
// The client picks the mechanism from configuration, not from the
// server-advertised list.
type Mechanism interface {
	// Name is the mechanism string sent in connection.start-ok
	Name() string
	// Response builds the opaque SASL response bytes
	Response(creds Credentials) ([]byte, error)
}

// PlainMechanism implements SASL PLAIN: a NUL-separated authzid/authcid/
// password triple with an empty authzid
type PlainMechanism struct{}

func (m *PlainMechanism) Name() string { return "PLAIN" }

func (m *PlainMechanism) Response(creds Credentials) ([]byte, error) {
	return []byte("\x00" + creds.Username + "\x00" + creds.Password), nil
}

// AMQPPlainMechanism implements AMQPLAIN: the credentials serialized as an
// AMQP field table with LOGIN and PASSWORD keys, without the outer length
// prefix
type AMQPPlainMechanism struct{}

func (m *AMQPPlainMechanism) Name() string { return "AMQPLAIN" }

func (m *AMQPPlainMechanism) Response(creds Credentials) ([]byte, error) {
	table, err := protocol.EncodeFieldTable(protocol.Table{
		"LOGIN":    creds.Username,
		"PASSWORD": creds.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("encode AMQPLAIN table: %w", err)
	}
	// the response carries the table body only, the long-string framing of
	// start-ok supplies the length
	return table[4:], nil
}

// ExternalMechanism implements SASL EXTERNAL: identity is taken from the
// transport (TLS client certificate), the response carries no data
type ExternalMechanism struct{}

func (m *ExternalMechanism) Name() string { return "EXTERNAL" }

func (m *ExternalMechanism) Response(Credentials) ([]byte, error) {
	return []byte("\x00"), nil
}

// AnonymousMechanism implements SASL ANONYMOUS
// WARNING: brokers should only enable this in development environments
type AnonymousMechanism struct{}

func (m *AnonymousMechanism) Name() string { return "ANONYMOUS" }

func (m *AnonymousMechanism) Response(Credentials) ([]byte, error) {
	return []byte("\x00"), nil
}

// PresetMechanism carries a caller-supplied mechanism name and verbatim
// response for brokers with custom SASL plugins
type PresetMechanism struct {
	MechanismName  string
	PresetResponse []byte
}

func (m *PresetMechanism) Name() string { return m.MechanismName }

func (m *PresetMechanism) Response(Credentials) ([]byte, error) {
	return m.PresetResponse, nil
}

// ForName resolves a configured mechanism name to an implementation. An
// unrecognized name with a preset response becomes a PresetMechanism; an
// unrecognized name without one is an error.
func ForName(name string, presetResponse []byte) (Mechanism, error) {
	switch name {
	case "", "AMQPLAIN":
		return &AMQPPlainMechanism{}, nil
	case "PLAIN":
		return &PlainMechanism{}, nil
	case "EXTERNAL":
		return &ExternalMechanism{}, nil
	case "ANONYMOUS":
		return &AnonymousMechanism{}, nil
	default:
		if presetResponse != nil {
			return &PresetMechanism{MechanismName: name, PresetResponse: presetResponse}, nil
		}
		return nil, fmt.Errorf("unsupported auth mechanism %q and no preset response given", name)
	}
}
