package http

import (
	"fmt"
	"strings"
)

// Method is the HTTP verb of a request. The empty Method means "not set on this builder"
// and is what lets a fold tell an override from an absent value
type Method string

const (
	GET     Method = "GET"
	POST    Method = "POST"
	PUT     Method = "PUT"
	PATCH   Method = "PATCH"
	DELETE  Method = "DELETE"
	HEAD    Method = "HEAD"
	OPTIONS Method = "OPTIONS"
	TRACE   Method = "TRACE"
	CONNECT Method = "CONNECT"
)

var (
	ErrUnsupportedMethod = fmt.Errorf("unsupported method")
)

func MethodFromString(m string) (Method, error) {
	switch Method(strings.ToUpper(strings.TrimSpace(m))) {
	case GET:
		return GET, nil
	case POST:
		return POST, nil
	case PUT:
		return PUT, nil
	case PATCH:
		return PATCH, nil
	case DELETE:
		return DELETE, nil
	case HEAD:
		return HEAD, nil
	case OPTIONS:
		return OPTIONS, nil
	case TRACE:
		return TRACE, nil
	case CONNECT:
		return CONNECT, nil
	}
	return GET, fmt.Errorf("%w: %q", ErrUnsupportedMethod, m)
}

func (m Method) String() string {
	return string(m)
}

// orDefault is what transports send. A chain that never set a method is a GET
func (m Method) orDefault() Method {
	if m == "" {
		return GET
	}
	return m
}
