package http

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	errors2 "github.com/assetnote/kitedsl/pkg/errors"
	"github.com/assetnote/kitedsl/pkg/log"
)

// ClientFactory creates clients for one transport backend
type ClientFactory interface {
	CreateClient(host string, port int, protocol string, prefix string, cfg *Config, defaultHeaders map[string]string) (Client, error)
}

// ClientFactoryFunc adapts a function to a ClientFactory
type ClientFactoryFunc func(host string, port int, protocol string, prefix string, cfg *Config, defaultHeaders map[string]string) (Client, error)

func (f ClientFactoryFunc) CreateClient(host string, port int, protocol string, prefix string, cfg *Config, defaultHeaders map[string]string) (Client, error) {
	return f(host, port, protocol, prefix, cfg, defaultHeaders)
}

var (
	transportsMu sync.RWMutex
	transports   = make(map[string]ClientFactory)
)

// RegisterTransport makes a transport available by name. Transports register themselves from
// an init function. Registering the same name twice panics
func RegisterTransport(name string, f ClientFactory) {
	transportsMu.Lock()
	defer transportsMu.Unlock()
	if f == nil {
		panic("http: RegisterTransport factory is nil")
	}
	if _, dup := transports[name]; dup {
		panic("http: RegisterTransport called twice for transport " + name)
	}
	transports[name] = f
}

// Transports returns the sorted names of the registered transports
func Transports() []string {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	ret := make([]string, 0, len(transports))
	for k := range transports {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func lookupTransport(name string) (ClientFactory, bool) {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	f, ok := transports[name]
	return f, ok
}

// NewClient creates a client using the named transport. An empty name uses cfg.Transport, and
// a nil cfg the defaults. A transport that is not registered is a *errors.ConfigError telling
// the caller what is available and how to select it
func NewClient(transport string, host string, port int, protocol string, prefix string, cfg *Config, defaultHeaders map[string]string) (Client, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if transport == "" {
		transport = cfg.Transport
	}
	if transport == "" {
		transport = DefaultTransport
	}

	f, ok := lookupTransport(transport)
	if !ok {
		known := Transports()
		err := &errors2.ConfigError{
			Transport: transport,
			Context: fmt.Sprintf("no client factory is registered for this transport. "+
				"Available transports: [%s]. Set the transport config value to one of these, "+
				"or import the package that registers %q before creating the client",
				strings.Join(known, ", "), transport),
		}
		log.Error().Str("transport", transport).Strs("known", known).Msg("unknown client transport")
		return nil, err
	}
	return f.CreateClient(host, port, protocol, prefix, cfg, defaultHeaders)
}

// newTransportClient holds what every transport does before building its round tripper
func newTransportClient(name string, host string, port int, protocol string, prefix string, cfg *Config, defaultHeaders map[string]string) (*transportClient, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t, err := NewTarget(host, port, protocol, prefix)
	if err != nil {
		if cerr, ok := err.(*errors2.ConfigError); ok {
			cerr.Transport = name
		}
		return nil, err
	}
	return &transportClient{
		name:           name,
		target:         t,
		cfg:            cfg,
		defaultHeaders: HeaderMapFrom(defaultHeaders),
	}, nil
}
