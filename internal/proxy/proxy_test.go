package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClient_HTTPProxy(t *testing.T) {
	f := NewHTTPClientFactory()
	client, err := f.GetClient(&Config{Type: "http", Address: "10.0.0.1:3128", Username: "u", Password: "p"})
	require.NoError(t, err)

	tr, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	req := &http.Request{URL: &url.URL{Scheme: "https", Host: "api.telegram.org"}}
	got, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "http://u:p@10.0.0.1:3128", got.String())
}

func TestGetClient_Socks5(t *testing.T) {
	client, err := NewHTTPClientFactory().GetClient(&Config{Type: "socks5", Address: "127.0.0.1:1080"})
	require.NoError(t, err)
	tr := client.Transport.(*http.Transport)
	assert.Nil(t, tr.Proxy)
	assert.NotNil(t, tr.DialContext)
}

func TestGetClient_Errors(t *testing.T) {
	_, err := NewHTTPClientFactory().GetClient(&Config{Type: "ftp", Address: "1.2.3.4:21"})
	assert.ErrorContains(t, err, "unsupported proxy type")

	client, err := NewHTTPClientFactory().GetClient(nil)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestValidator(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ok.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	v := NewValidator(NewHTTPClientFactory())
	assert.NoError(t, v.Validate(context.Background(), nil, ok.URL))
	assert.ErrorContains(t, v.Validate(context.Background(), nil, broken.URL), "returned status 502")
}

func TestGetClient_EmptyConfigIsDirect(t *testing.T) {
	empty := &Config{}
	assert.False(t, empty.Configured())

	var missing *Config
	assert.False(t, missing.Configured())

	client, err := NewHTTPClientFactory().GetClient(empty)
	require.NoError(t, err)
	tr := client.Transport.(*http.Transport)
	req := &http.Request{URL: &url.URL{Scheme: "https", Host: "api.telegram.org"}}
	_, err = tr.Proxy(req)
	assert.NoError(t, err)
}
