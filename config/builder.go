package config

import (
	"time"
)

// ConfigBuilder provides a fluent API for building configuration
type ConfigBuilder struct {
	config *Config
}

// NewConfigBuilder creates a new configuration builder with defaults
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: DefaultConfig(),
	}
}

// FromConfig creates a builder from an existing configuration
func FromConfig(config *Config) *ConfigBuilder {
	builder := NewConfigBuilder()
	*builder.config = *config
	return builder
}

// WithHost sets a single broker host
func (b *ConfigBuilder) WithHost(host string) *ConfigBuilder {
	b.config.Client.Hosts = []string{host}
	return b
}

// WithHosts sets the ordered broker host list
func (b *ConfigBuilder) WithHosts(hosts ...string) *ConfigBuilder {
	b.config.Client.Hosts = hosts
	return b
}

// WithPort sets the broker port
func (b *ConfigBuilder) WithPort(port int) *ConfigBuilder {
	b.config.Client.Port = port
	return b
}

// WithHostPreference pins the initial host index
func (b *ConfigBuilder) WithHostPreference(index int) *ConfigBuilder {
	b.config.Client.HostPreference = index
	return b
}

// WithCredentials sets the login and password
func (b *ConfigBuilder) WithCredentials(login, password string) *ConfigBuilder {
	b.config.Client.Login = login
	b.config.Client.Password = password
	return b
}

// WithVHost sets the virtual host
func (b *ConfigBuilder) WithVHost(vhost string) *ConfigBuilder {
	b.config.Client.VHost = vhost
	return b
}

// WithAuthMechanism selects the SASL mechanism
func (b *ConfigBuilder) WithAuthMechanism(mechanism string) *ConfigBuilder {
	b.config.Client.AuthMechanism = mechanism
	return b
}

// WithAuthResponse sets a verbatim SASL response for custom mechanisms
func (b *ConfigBuilder) WithAuthResponse(response []byte) *ConfigBuilder {
	b.config.Client.AuthResponse = response
	return b
}

// WithHeartbeat sets the requested heartbeat interval in seconds
func (b *ConfigBuilder) WithHeartbeat(seconds int) *ConfigBuilder {
	b.config.Client.Heartbeat = seconds
	return b
}

// WithHeartbeatForceReconnect makes the inbound heartbeat timeout fire
// even while the transport is readable
func (b *ConfigBuilder) WithHeartbeatForceReconnect(force bool) *ConfigBuilder {
	b.config.Client.HeartbeatForceReconnect = force
	return b
}

// WithConnectionTimeout bounds the initial TCP connect
func (b *ConfigBuilder) WithConnectionTimeout(timeout time.Duration) *ConfigBuilder {
	b.config.Client.ConnectionTimeout = timeout
	return b
}

// WithNoDelay toggles Nagle's algorithm
func (b *ConfigBuilder) WithNoDelay(noDelay bool) *ConfigBuilder {
	b.config.Client.NoDelay = noDelay
	return b
}

// WithTLS enables TLS with certificate files
func (b *ConfigBuilder) WithTLS(certFile, keyFile string, caFiles ...string) *ConfigBuilder {
	b.config.Client.SSL.Enabled = true
	b.config.Client.SSL.CertFile = certFile
	b.config.Client.SSL.KeyFile = keyFile
	b.config.Client.SSL.CAFiles = caFiles
	return b
}

// WithPFX enables TLS with a PKCS#12 bundle
func (b *ConfigBuilder) WithPFX(pfxFile, passphrase string) *ConfigBuilder {
	b.config.Client.SSL.Enabled = true
	b.config.Client.SSL.PFXFile = pfxFile
	b.config.Client.SSL.Passphrase = passphrase
	return b
}

// WithClientProperties merges properties sent in connection.start-ok
func (b *ConfigBuilder) WithClientProperties(props map[string]interface{}) *ConfigBuilder {
	if b.config.Client.ClientProperties == nil {
		b.config.Client.ClientProperties = make(map[string]interface{})
	}
	for k, v := range props {
		b.config.Client.ClientProperties[k] = v
	}
	return b
}

// WithChannelMax requests a channel limit during tune negotiation
func (b *ConfigBuilder) WithChannelMax(max uint16) *ConfigBuilder {
	b.config.Client.ChannelMax = max
	return b
}

// WithFrameMax requests a frame size limit during tune negotiation
func (b *ConfigBuilder) WithFrameMax(max uint32) *ConfigBuilder {
	b.config.Client.FrameMax = max
	return b
}

// WithDefaultExchange names the exchange used by connection-level publish
func (b *ConfigBuilder) WithDefaultExchange(name string) *ConfigBuilder {
	b.config.Impl.DefaultExchangeName = name
	return b
}

// WithReconnect toggles the reconnection supervisor
func (b *ConfigBuilder) WithReconnect(enabled bool) *ConfigBuilder {
	b.config.Impl.Reconnect = enabled
	return b
}

// WithLinearBackoff configures linear reconnect backoff
func (b *ConfigBuilder) WithLinearBackoff(backoff time.Duration) *ConfigBuilder {
	b.config.Impl.ReconnectBackoffStrategy = BackoffLinear
	b.config.Impl.ReconnectBackoffTime = backoff
	return b
}

// WithExponentialBackoff configures exponential reconnect backoff
func (b *ConfigBuilder) WithExponentialBackoff(base, limit time.Duration) *ConfigBuilder {
	b.config.Impl.ReconnectBackoffStrategy = BackoffExponential
	b.config.Impl.ReconnectBackoffTime = base
	b.config.Impl.ReconnectExponentialLimit = limit
	return b
}

// Build validates and returns the configuration
func (b *ConfigBuilder) Build() (*Config, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// MustBuild returns the configuration or panics on validation failure
func (b *ConfigBuilder) MustBuild() *Config {
	config, err := b.Build()
	if err != nil {
		panic(err)
	}
	return config
}
