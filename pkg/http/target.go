package http

import (
	"crypto/tls"
	"fmt"
	"strconv"
	"strings"

	errors2 "github.com/assetnote/kitedsl/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

var (
	bHTTPS = []byte("https")
	bHTTP  = []byte("http")
)

func tlsConfig(insecure bool) *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: insecure,
	}
}

// Target is the server a client sends its requests to. Every request path is appended to
// BasePath, e.g. a target with BasePath /v2 sends pets/1 to /v2/pets/1.
//
// A Target is not modified once a client has been created from it.
type Target struct {
	Hostname string // Hostname is the bare hostname without the port.
	Port     int    // Port will be the port used to reach the server.
	IsTLS    bool   // IsTLS defines whether to use a TLS dialer or normal dialer
	BasePath string // BasePath is the path prefix, always starting with a slash and never ending with one
}

// NewTarget validates the connection details given to a client factory.
// protocol is http or https in any case. A port of 0 selects the default port of the protocol.
// The prefix gets a leading slash added and trailing slashes removed, so "", "/" and "v2/"
// become "", "" and "/v2"
func NewTarget(host string, port int, protocol string, prefix string) (*Target, error) {
	var fields []string
	t := &Target{Hostname: host, Port: port}

	switch strings.ToLower(protocol) {
	case "http", "":
	case "https":
		t.IsTLS = true
	default:
		fields = append(fields, "protocol")
	}
	if host == "" || strings.ContainsAny(host, "/ ") {
		fields = append(fields, "host")
	}
	if port < 0 || port > 65535 {
		fields = append(fields, "port")
	}
	if len(fields) > 0 {
		return nil, &errors2.ConfigError{
			Fields:  fields,
			Context: fmt.Sprintf("invalid target %s://%s:%d", protocol, host, port),
		}
	}

	if t.Port == 0 {
		t.Port = 80
		if t.IsTLS {
			t.Port = 443
		}
	}

	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		t.BasePath = "/" + prefix
	}
	return t, nil
}

// AppendScheme will append the scheme to the host not including the ://
func (t *Target) AppendScheme(buf []byte) []byte {
	if t.IsTLS {
		return append(buf, bHTTPS...)
	}
	return append(buf, bHTTP...)
}

// appendColonPort will append :1234 only if its not a standard port (i.e. http://:80 https://:443)
// this avoids unexpected behaviour with random clients
func (t *Target) appendColonPort(buf []byte) []byte {
	// http://:80
	if t.Port == 80 && !t.IsTLS {
		return buf
	}
	// https://:443
	if t.IsTLS && t.Port == 443 {
		return buf
	}

	buf = append(buf, ":"...)
	buf = append(buf, strconv.Itoa(t.Port)...)
	return buf
}

// AppendHost will append the host to make the request including the port.
// e.g. foo.com or foo.com:8080
func (t *Target) AppendHost(buf []byte) []byte {
	buf = append(buf, t.Hostname...)
	buf = t.appendColonPort(buf)
	return buf
}

// Host will return the Host:Port of the target, the port omitted when it is the default
func (t *Target) Host() string {
	w := bytebufferpool.Get()
	ret := string(t.AppendHost(w.B))
	bytebufferpool.Put(w)
	return ret
}

// Addr is the dial address, which always includes the port
func (t *Target) Addr() string {
	return t.Hostname + ":" + strconv.Itoa(t.Port)
}

// AppendPath will append the base path followed by the relative path.
// Slashes are added between the two, the relative path is not escaped
func (t *Target) AppendPath(buf []byte, relative string) []byte {
	buf = append(buf, t.BasePath...)
	buf = append(buf, '/')
	buf = append(buf, strings.TrimPrefix(relative, "/")...)
	return buf
}

// URL builds the absolute url for the relative path and an already encoded query string
func (t *Target) URL(relative string, query string) string {
	w := bytebufferpool.Get()
	defer bytebufferpool.Put(w)

	b := t.AppendBytes(w.B)
	b = append(b, '/')
	b = append(b, strings.TrimPrefix(relative, "/")...)
	if query != "" {
		b = append(b, '?')
		b = append(b, query...)
	}
	w.B = b
	return w.String()
}

// AppendBytes will append the scheme, host and base path to the provided buffer
// e.g. http://google.com:8080/v2
func (t *Target) AppendBytes(b []byte) []byte {
	b = t.AppendScheme(b)
	b = append(b, "://"...)
	b = t.AppendHost(b)
	b = append(b, t.BasePath...)
	return b
}

// String will return a string representation of the target
func (t *Target) String() string {
	w := bytebufferpool.Get()
	ret := string(t.AppendBytes(w.B))
	bytebufferpool.Put(w)
	return ret
}

func (t *Target) MarshalZerologObject(e *zerolog.Event) {
	e.Str("host", t.Hostname).
		Int("port", t.Port).
		Bool("tls", t.IsTLS).
		Str("base", t.BasePath)
}
