package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables the loader picks up, e.g.
// AMQP_CLIENT_HOSTS or AMQP_IMPL_RECONNECT.
const EnvPrefix = "AMQP_"

// Load builds a configuration by layering sources, later sources winning:
// defaults < YAML profile file (optional) < environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	config := DefaultConfig()

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// AMQP_CLIENT_CONNECTION_TIMEOUT -> client.connection_timeout
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			parts := strings.SplitN(key, "_", 2)
			if len(parts) == 2 {
				key = parts[0] + "." + parts[1]
			}
			return key, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
