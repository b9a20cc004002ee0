package proxy

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy" // For SOCKS5
)

// Config describes an outbound proxy.
type Config struct {
	Type     string `mapstructure:"type"`    // http, https, socks5
	Address  string `mapstructure:"address"` // host:port
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Configured reports whether c names a proxy. A nil or empty Config means
// a direct connection.
func (c *Config) Configured() bool {
	return c != nil && c.Address != ""
}

func (c *Config) url() (*url.URL, error) {
	u, err := url.Parse(fmt.Sprintf("%s://%s", c.Type, c.Address))
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %s://%s: %w", c.Type, c.Address, err)
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u, nil
}

// DefaultHTTPClientFactory builds HTTP clients for outbound API calls.
type DefaultHTTPClientFactory struct {
	Timeout time.Duration
}

// NewHTTPClientFactory creates a new DefaultHTTPClientFactory.
func NewHTTPClientFactory() *DefaultHTTPClientFactory {
	return &DefaultHTTPClientFactory{Timeout: 60 * time.Second}
}

// GetClient returns an HTTP client, configured with the given proxy if provided.
// If p is nil, the client honours the usual proxy environment variables.
func (f *DefaultHTTPClientFactory) GetClient(p *Config) (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if p.Configured() {
		proxyURL, err := p.url()
		if err != nil {
			return nil, err
		}

		switch p.Type {
		case "http", "https":
			transport.Proxy = http.ProxyURL(proxyURL)
		case "socks5":
			dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to create SOCKS5 dialer for %s: %w", p.Address, err)
			}
			contextDialer, ok := dialer.(proxy.ContextDialer)
			if !ok {
				return nil, fmt.Errorf("SOCKS5 dialer does not implement proxy.ContextDialer")
			}
			transport.DialContext = contextDialer.DialContext
			transport.Proxy = nil // SOCKS5 is handled by the custom dialer
		default:
			return nil, fmt.Errorf("unsupported proxy type: %s", p.Type)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   f.Timeout,
	}, nil
}
