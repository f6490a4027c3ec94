package http

import (
	"fmt"
	"time"

	errors2 "github.com/assetnote/kitedsl/pkg/errors"
	"github.com/assetnote/kitedsl/pkg/json"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultTransport = "fasthttp"
	DefaultCharset   = "UTF-8"
)

// Config provides the options shared by every transport
type Config struct {
	// RequestCharset is appended to textual Content-Type headers that do not name a charset.
	// Empty disables the behaviour
	RequestCharset string `toml:"request_charset" json:"request_charset" mapstructure:"request_charset"`
	// ResponseCharset is assumed for textual response bodies whose Content-Type names no charset.
	// String bodies in any other charset than UTF-8 are decoded to UTF-8, binary bodies are
	// never touched
	ResponseCharset string `toml:"response_charset" json:"response_charset" mapstructure:"response_charset"`

	// Timeout bounds a whole call including redirects. A context deadline that is sooner wins
	Timeout time.Duration `toml:"timeout" json:"timeout" mapstructure:"timeout"`
	// MaxConnections is the connection limit per host. 0 leaves the transport default
	MaxConnections int `toml:"max_connections" json:"max_connections" mapstructure:"max_connections"`
	// MaxRedirects corresponds to how many redirects to follow. 0 means the first response is
	// returned as is
	MaxRedirects int `toml:"max_redirects" json:"max_redirects" mapstructure:"max_redirects"`
	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool `toml:"insecure_skip_verify" json:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`

	// Transport names the registered backend NewClient uses when none is given explicitly
	Transport string `toml:"transport" json:"transport" mapstructure:"transport"`

	// Codec is the JSON bridge shared by everything using this config. A fresh codec without
	// registered types is used when nil
	Codec *json.Codec `toml:"-" json:"-" mapstructure:"-"`
}

func NewDefaultConfig(opts ...ConfigOption) *Config {
	c := &Config{
		RequestCharset:  DefaultCharset,
		ResponseCharset: DefaultCharset,
		Timeout:         30 * time.Second,
		MaxRedirects:    5,
		Transport:       DefaultTransport,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Validate checks every field and reports all bad ones at once
func (c *Config) Validate() error {
	var (
		merr   *multierror.Error
		fields []string
	)
	bad := func(field string, format string, args ...interface{}) {
		fields = append(fields, field)
		merr = multierror.Append(merr, fmt.Errorf("%s: "+format, append([]interface{}{field}, args...)...))
	}

	if c.Timeout < 0 {
		bad("Timeout", "must not be negative, got %s", c.Timeout)
	}
	if c.MaxConnections < 0 {
		bad("MaxConnections", "must not be negative, got %d", c.MaxConnections)
	}
	if c.MaxRedirects < 0 {
		bad("MaxRedirects", "must not be negative, got %d", c.MaxRedirects)
	}

	if merr != nil {
		return &errors2.ConfigError{Fields: fields, Err: merr}
	}

	if c.Codec == nil {
		c.Codec = json.NewCodec()
	}
	return nil
}

type ConfigOption func(*Config)

func RequestCharset(charset string) ConfigOption {
	return func(c *Config) {
		c.RequestCharset = charset
	}
}

func ResponseCharset(charset string) ConfigOption {
	return func(c *Config) {
		c.ResponseCharset = charset
	}
}

func Timeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

func MaxConnections(n int) ConfigOption {
	return func(c *Config) {
		c.MaxConnections = n
	}
}

func MaxRedirects(n int) ConfigOption {
	return func(c *Config) {
		c.MaxRedirects = n
	}
}

func InsecureSkipVerify(v bool) ConfigOption {
	return func(c *Config) {
		c.InsecureSkipVerify = v
	}
}

func Transport(name string) ConfigOption {
	return func(c *Config) {
		c.Transport = name
	}
}

func WithCodec(codec *json.Codec) ConfigOption {
	return func(c *Config) {
		c.Codec = codec
	}
}

// LoadConfig decodes the client config from v on top of the defaults, then applies opts.
// Durations may be given as strings, e.g. timeout: 10s
func LoadConfig(v *viper.Viper, opts ...ConfigOption) (*Config, error) {
	c := NewDefaultConfig()
	if err := v.Unmarshal(c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, &errors2.ConfigError{Context: "failed to decode client config", Err: err}
	}
	for _, o := range opts {
		o(c)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
