package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
)

// BuildTLSConfig assembles a *tls.Config from the SSL options. The server
// name is the host being dialed, so certificate verification follows the
// host rotation.
func BuildTLSConfig(ssl SSLConfig, serverName string) (*tls.Config, error) {
	if !ssl.Enabled {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: !ssl.RejectUnauthorized,
	}

	switch {
	case ssl.PFXFile != "":
		cert, err := loadPFX(ssl.PFXFile, ssl.Passphrase)
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{*cert}
	case ssl.CertFile != "" && ssl.KeyFile != "":
		cert, err := tls.LoadX509KeyPair(ssl.CertFile, ssl.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if len(ssl.CAFiles) > 0 {
		pool := x509.NewCertPool()
		for _, caFile := range ssl.CAFiles {
			pem, err := os.ReadFile(caFile)
			if err != nil {
				return nil, fmt.Errorf("read CA file %s: %w", caFile, err)
			}
			if !pool.AppendCertsFromPEM(pem) {
				return nil, fmt.Errorf("no certificates found in CA file %s", caFile)
			}
		}
		tlsConfig.RootCAs = pool
	}

	if len(ssl.Ciphers) > 0 {
		suites, err := cipherSuiteIDs(ssl.Ciphers)
		if err != nil {
			return nil, err
		}
		tlsConfig.CipherSuites = suites
	}

	if ssl.SecureProtocol != "" {
		version, err := tlsVersion(ssl.SecureProtocol)
		if err != nil {
			return nil, err
		}
		tlsConfig.MinVersion = version
		tlsConfig.MaxVersion = version
	}

	return tlsConfig, nil
}

// loadPFX decodes a PKCS#12 bundle into a tls.Certificate
func loadPFX(path, passphrase string) (*tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pfx file %s: %w", path, err)
	}

	key, cert, err := pkcs12.Decode(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("decode pfx file %s: %w", path, err)
	}

	return &tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
		Leaf:        cert,
	}, nil
}

// cipherSuiteIDs resolves cipher suite names to their TLS ids
func cipherSuiteIDs(names []string) ([]uint16, error) {
	known := make(map[string]uint16)
	for _, suite := range tls.CipherSuites() {
		known[suite.Name] = suite.ID
	}
	for _, suite := range tls.InsecureCipherSuites() {
		known[suite.Name] = suite.ID
	}

	ids := make([]uint16, 0, len(names))
	for _, name := range names {
		id, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown cipher suite: %s", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// tlsVersion maps a protocol name to its TLS version constant
func tlsVersion(name string) (uint16, error) {
	switch name {
	case "TLSv1.2", "TLSv1_2_method":
		return tls.VersionTLS12, nil
	case "TLSv1.3", "TLSv1_3_method":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported secure protocol: %s", name)
	}
}
