package config

import (
	"fmt"
	"time"
)

// Backoff strategies for the reconnection supervisor
const (
	BackoffLinear      = "linear"
	BackoffExponential = "exponential"
)

// SSLConfig holds the TLS options recognized by the client
type SSLConfig struct {
	Enabled            bool     `koanf:"enabled" yaml:"enabled"`
	RejectUnauthorized bool     `koanf:"reject_unauthorized" yaml:"reject_unauthorized"`
	PFXFile            string   `koanf:"pfx_file" yaml:"pfx_file"`
	KeyFile            string   `koanf:"key_file" yaml:"key_file"`
	CertFile           string   `koanf:"cert_file" yaml:"cert_file"`
	CAFiles            []string `koanf:"ca_files" yaml:"ca_files"`
	Passphrase         string   `koanf:"passphrase" yaml:"passphrase"`
	Ciphers            []string `koanf:"ciphers" yaml:"ciphers"`
	SecureProtocol     string   `koanf:"secure_protocol" yaml:"secure_protocol"`
}

// ClientConfig is the connection configuration. Precedence when combining
// sources is URI < profile file < environment < programmatic overrides.
type ClientConfig struct {
	// Hosts is the ordered list of brokers to try. A single-host setup
	// uses a one-element list.
	Hosts []string `koanf:"hosts" yaml:"hosts"`
	// Port applies to every host; 0 picks 5672 or 5671 by TLS
	Port int `koanf:"port" yaml:"port"`
	// HostPreference indexes into Hosts for the first attempt; negative
	// means a random pick. Out-of-range values clamp to the last index.
	HostPreference int `koanf:"host_preference" yaml:"host_preference"`

	Login    string `koanf:"login" yaml:"login"`
	Password string `koanf:"password" yaml:"password"`
	VHost    string `koanf:"vhost" yaml:"vhost"`

	// AuthMechanism selects the SASL mechanism; AuthResponse carries the
	// verbatim response for custom mechanisms
	AuthMechanism string `koanf:"auth_mechanism" yaml:"auth_mechanism"`
	AuthResponse  []byte `koanf:"-" yaml:"-"`

	// Heartbeat is the requested interval in seconds; 0 disables
	Heartbeat int `koanf:"heartbeat" yaml:"heartbeat"`
	// HeartbeatForceReconnect makes the inbound timeout fire even when
	// the transport still looks readable
	HeartbeatForceReconnect bool `koanf:"heartbeat_force_reconnect" yaml:"heartbeat_force_reconnect"`

	// ConnectionTimeout bounds the initial TCP connect
	ConnectionTimeout time.Duration `koanf:"connection_timeout" yaml:"connection_timeout"`
	// NoDelay disables Nagle's algorithm
	NoDelay bool `koanf:"no_delay" yaml:"no_delay"`

	SSL SSLConfig `koanf:"ssl" yaml:"ssl"`

	// ClientProperties are merged over the defaults {product, version,
	// platform} and sent in connection.start-ok
	ClientProperties map[string]interface{} `koanf:"client_properties" yaml:"client_properties"`

	// ChannelMax and FrameMax request limits during tune negotiation;
	// 0 accepts the server's values
	ChannelMax uint16 `koanf:"channel_max" yaml:"channel_max"`
	FrameMax   uint32 `koanf:"frame_max" yaml:"frame_max"`
}

// ImplConfig tunes client behavior that is not part of the wire contract
type ImplConfig struct {
	DefaultExchangeName string `koanf:"default_exchange_name" yaml:"default_exchange_name"`

	Reconnect bool `koanf:"reconnect" yaml:"reconnect"`
	// ReconnectBackoffStrategy is linear or exponential
	ReconnectBackoffStrategy string `koanf:"reconnect_backoff_strategy" yaml:"reconnect_backoff_strategy"`
	// ReconnectBackoffTime is the base delay between attempts
	ReconnectBackoffTime time.Duration `koanf:"reconnect_backoff_time" yaml:"reconnect_backoff_time"`
	// ReconnectExponentialLimit caps the exponential series
	ReconnectExponentialLimit time.Duration `koanf:"reconnect_exponential_limit" yaml:"reconnect_exponential_limit"`
}

// Config bundles everything the client needs
type Config struct {
	Client ClientConfig `koanf:"client" yaml:"client"`
	Impl   ImplConfig   `koanf:"impl" yaml:"impl"`
}

// DefaultConfig creates a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			Hosts:             []string{"localhost"},
			Port:              0,
			HostPreference:    -1,
			Login:             "guest",
			Password:          "guest",
			VHost:             "/",
			AuthMechanism:     "AMQPLAIN",
			Heartbeat:         0,
			ConnectionTimeout: 10 * time.Second,
			NoDelay:           true,
			SSL: SSLConfig{
				Enabled:            false,
				RejectUnauthorized: true,
			},
			ClientProperties: map[string]interface{}{},
		},
		Impl: ImplConfig{
			DefaultExchangeName:       "",
			Reconnect:                 true,
			ReconnectBackoffStrategy:  BackoffLinear,
			ReconnectBackoffTime:      1000 * time.Millisecond,
			ReconnectExponentialLimit: 120000 * time.Millisecond,
		},
	}
}

// EffectivePort resolves the port, defaulting by TLS scheme
func (c *ClientConfig) EffectivePort() int {
	if c.Port != 0 {
		return c.Port
	}
	if c.SSL.Enabled {
		return 5671
	}
	return 5672
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Client.Hosts) == 0 {
		return fmt.Errorf("at least one host is required")
	}
	for _, h := range c.Client.Hosts {
		if h == "" {
			return fmt.Errorf("host cannot be empty")
		}
	}
	if c.Client.Port < 0 || c.Client.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Client.Port)
	}
	if c.Client.Heartbeat < 0 {
		return fmt.Errorf("heartbeat must be non-negative: %d", c.Client.Heartbeat)
	}
	if c.Client.ConnectionTimeout < 0 {
		return fmt.Errorf("connection timeout must be non-negative: %v", c.Client.ConnectionTimeout)
	}
	if c.Client.VHost == "" {
		return fmt.Errorf("vhost cannot be empty")
	}

	if c.Client.SSL.Enabled {
		if c.Client.SSL.PFXFile != "" && (c.Client.SSL.CertFile != "" || c.Client.SSL.KeyFile != "") {
			return fmt.Errorf("pfx_file and cert_file/key_file are mutually exclusive")
		}
		if (c.Client.SSL.CertFile == "") != (c.Client.SSL.KeyFile == "") {
			return fmt.Errorf("cert_file and key_file must be set together")
		}
	}

	switch c.Impl.ReconnectBackoffStrategy {
	case BackoffLinear, BackoffExponential:
	default:
		return fmt.Errorf("unknown reconnect backoff strategy: %s", c.Impl.ReconnectBackoffStrategy)
	}
	if c.Impl.ReconnectBackoffTime <= 0 {
		return fmt.Errorf("reconnect backoff time must be positive: %v", c.Impl.ReconnectBackoffTime)
	}
	if c.Impl.ReconnectBackoffStrategy == BackoffExponential && c.Impl.ReconnectExponentialLimit < c.Impl.ReconnectBackoffTime {
		return fmt.Errorf("reconnect exponential limit %v below backoff time %v", c.Impl.ReconnectExponentialLimit, c.Impl.ReconnectBackoffTime)
	}

	return nil
}
