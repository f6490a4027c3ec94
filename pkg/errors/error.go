package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/assetnote/kitedsl/pkg/log"
	"github.com/hashicorp/go-multierror"
)

// prefixfromDepth will create the indent prefix for a certain depth
// of string, e.g. 2 will yield "  " * 2 -> "    "
func prefixFromDepth(depth int) string {
	var p []byte
	for i := 0; i < depth; i++ {
		p = append(p, "  "...)
	}
	return string(p)
}

// PrintError will attempt to traverse the nested error and
// recursively print out any nested ConfigError or SerializationError found
// If a multierror.Error is found, we will recurisvely print out
// each error found
func PrintError(err error, depth int) {
	var (
		merr *multierror.Error
		cerr *ConfigError
		serr *SerializationError
	)

	switch {
	case errors.As(err, &merr):
		for _, v := range merr.Errors {
			PrintError(v, depth+1)
		}
	case errors.As(err, &cerr):
		log.Debug().
			Str("transport", cerr.Transport).
			Strs("fields", cerr.Fields).
			Msg(prefixFromDepth(depth) + cerr.Context)
	case errors.As(err, &serr):
		serr.LogError(depth)
	default:
		log.Debug().Err(err).Msg(prefixFromDepth(depth) + "error")
	}
}

// ConfigError is returned when a client cannot be constructed from what it was given.
// This covers both invalid config values and a transport backend that was never registered.
// We always want the caller to be told how to fix it rather than getting a bare lookup failure
type ConfigError struct {
	Transport string   // Transport is the requested transport name, if the error relates to transport selection
	Fields    []string // Fields lists the config fields holding invalid values
	Context   string   // Context is the human readable explanation, including the remedy
	Err       error
}

func (c *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config error")
	if c.Transport != "" {
		b.WriteString(" [transport ")
		b.WriteString(c.Transport)
		b.WriteString("]")
	}
	if len(c.Fields) > 0 {
		b.WriteString(" invalid values in: ")
		b.WriteString(strings.Join(c.Fields, ", "))
	}
	if c.Context != "" {
		b.WriteString(": ")
		b.WriteString(c.Context)
	}
	if c.Err != nil {
		b.WriteString(": ")
		b.WriteString(c.Err.Error())
	}
	return b.String()
}

func (c *ConfigError) Unwrap() error {
	return c.Err
}

// SerializationError wraps any JSON encode or decode failure. There is no partial result
// when one of these is returned
type SerializationError struct {
	Op            string // Op is the codec operation, e.g. write, parse, form
	CanonicalType string // CanonicalType is the type name the codec was asked to resolve, if any
	RawJSON       []byte // RawJSON optionally carries the input that failed to parse
	Err           error
}

func (s *SerializationError) Error() string {
	if s.CanonicalType != "" {
		return fmt.Sprintf("json %s error [%s]: %s", s.Op, s.CanonicalType, s.Err)
	}
	return fmt.Sprintf("json %s error: %s", s.Op, s.Err)
}

func (s *SerializationError) Unwrap() error {
	return s.Err
}

// LogError will log to Debug() the context surrounding the error.
// the depth argument modifies the indentation depth of the pretty printed error
func (s *SerializationError) LogError(depth int) {
	base := log.Debug().
		Str("op", s.Op).
		Str("type", s.CanonicalType)

	// skip printing the raw json since its heaps noisy
	if s.RawJSON != nil && len(s.RawJSON) < 100 {
		base = base.Bytes("json", s.RawJSON)
	}
	base.Err(s.Err).Msg(prefixFromDepth(depth))
}
