package config

import (
	"net/url"
	"strconv"
	"strings"

	amqperrors "github.com/maxpert/amqp-client-go/errors"
)

// ParseURI applies an amqp:// or amqps:// URI onto a default
// configuration.
//
// The vhost is the URL-decoded path with its leading slash stripped.
// Credentials are taken verbatim from the authority: percent escapes in
// login or password are NOT decoded, matching what brokers receive from
// clients that splice raw secrets into URIs.
func ParseURI(uri string) (*Config, error) {
	config := DefaultConfig()
	if err := applyURI(config, uri); err != nil {
		return nil, err
	}
	return config, nil
}

// applyURI mutates config in place with the values carried by the URI
func applyURI(config *Config, uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return amqperrors.NewInvalidURI(uri, err.Error())
	}

	switch u.Scheme {
	case "amqp":
		config.Client.SSL.Enabled = false
	case "amqps":
		config.Client.SSL.Enabled = true
	default:
		return amqperrors.NewInvalidURI(uri, "scheme must be amqp or amqps")
	}

	if login, password, ok := rawUserInfo(uri); ok {
		if login != "" {
			config.Client.Login = login
		}
		if password != "" {
			config.Client.Password = password
		}
	}

	if host := u.Hostname(); host != "" {
		config.Client.Hosts = []string{host}
	}

	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return amqperrors.NewInvalidURI(uri, "invalid port")
		}
		config.Client.Port = port
	} else {
		config.Client.Port = 0 // scheme default applies
	}

	if u.Path != "" && u.Path != "/" {
		vhost, err := url.PathUnescape(strings.TrimPrefix(u.EscapedPath(), "/"))
		if err != nil {
			return amqperrors.NewInvalidURI(uri, "invalid vhost encoding")
		}
		config.Client.VHost = vhost
	}

	query := u.Query()
	if hb := query.Get("heartbeat"); hb != "" {
		seconds, err := strconv.Atoi(hb)
		if err != nil || seconds < 0 {
			return amqperrors.NewInvalidURI(uri, "invalid heartbeat")
		}
		config.Client.Heartbeat = seconds
	}

	return nil
}

// rawUserInfo extracts the undecoded user:password part of the authority.
// url.Parse percent-decodes userinfo, which would corrupt credentials
// containing literal escape sequences.
func rawUserInfo(uri string) (login, password string, ok bool) {
	rest := uri
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	end := strings.IndexAny(rest, "/?#")
	if end >= 0 {
		rest = rest[:end]
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return "", "", false
	}
	userinfo := rest[:at]
	if colon := strings.Index(userinfo, ":"); colon >= 0 {
		return userinfo[:colon], userinfo[colon+1:], true
	}
	return userinfo, "", true
}
