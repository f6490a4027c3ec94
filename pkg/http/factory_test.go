package http

import (
	"errors"
	"testing"

	errors2 "github.com/assetnote/kitedsl/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransports(t *testing.T) {
	assert.Subset(t, Transports(), []string{TransportFastHTTP, TransportNetHTTP})
}

func TestNewClient_UnknownTransport(t *testing.T) {
	_, err := NewClient("okhttp", "foo.com", 80, "http", "", nil, nil)
	require.Error(t, err)

	var cerr *errors2.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "okhttp", cerr.Transport)
	assert.Contains(t, err.Error(), "no client factory is registered")
	assert.Contains(t, err.Error(), TransportFastHTTP)
	assert.Contains(t, err.Error(), TransportNetHTTP)
}

func TestNewClient_SelectsTransport(t *testing.T) {
	c, err := NewClient("", "foo.com", 0, "https", "/v2", nil, map[string]string{"Authorization": "token"})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "fasthttp client https://foo.com/v2", c.(*transportClient).String())
	assert.Equal(t, []string{"token"}, c.DefaultHeaders().Values("authorization"))
	assert.NotNil(t, c.Codec())

	cfg := NewDefaultConfig(Transport(TransportNetHTTP))
	c, err = NewClient("", "foo.com", 8080, "http", "", cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, TransportNetHTTP, c.(*transportClient).name)
	assert.Same(t, cfg, c.Config())
}

func TestNewClient_InvalidArguments(t *testing.T) {
	_, err := NewClient(TransportNetHTTP, "foo.com", 80, "gopher", "", nil, nil)
	var cerr *errors2.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, TransportNetHTTP, cerr.Transport)
	assert.Equal(t, []string{"protocol"}, cerr.Fields)

	_, err = NewClient("", "foo.com", 80, "http", "", NewDefaultConfig(MaxRedirects(-1)), nil)
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"MaxRedirects"}, cerr.Fields)
}

func TestRegisterTransport(t *testing.T) {
	called := false
	RegisterTransport("test-transport", ClientFactoryFunc(func(host string, port int, protocol string, prefix string, cfg *Config, defaultHeaders map[string]string) (Client, error) {
		called = true
		return &stubClient{name: host}, nil
	}))

	c, err := NewClient("test-transport", "foo.com", 80, "http", "", nil, nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "foo.com", c.(*stubClient).name)

	assert.Panics(t, func() {
		RegisterTransport("test-transport", ClientFactoryFunc(NewFastClient))
	})
	assert.Panics(t, func() {
		RegisterTransport("nil-transport", nil)
	})
}
