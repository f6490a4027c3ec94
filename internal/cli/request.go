package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/assetnote/kitedsl/pkg/dsl"
	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/valyala/fasttemplate"
)

var (
	ErrMissingPathParam = fmt.Errorf("path parameter has no value")
	ErrMalformedPair    = fmt.Errorf("malformed pair")
)

// Base is the server part of a command line URL
type Base struct {
	Protocol string
	Host     string
	Port     int
	Prefix   string
}

// ParseBase splits a url like https://petstore.io:8443/v2 into the arguments of http.NewClient.
// A missing scheme means https
func ParseBase(raw string) (Base, error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Base{}, fmt.Errorf("failed to parse base url: %w", err)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return Base{}, fmt.Errorf("base url %q must not carry a query or fragment", raw)
	}

	b := Base{Protocol: u.Scheme, Host: u.Hostname(), Prefix: u.Path}
	if p := u.Port(); p != "" {
		b.Port, err = strconv.Atoi(p)
		if err != nil {
			return Base{}, fmt.Errorf("invalid port %q: %w", p, err)
		}
	}
	return b, nil
}

// Request is a call described on the command line
type Request struct {
	Method string
	// Path is relative to the base, elements in braces are path parameters, e.g. users/{id}/pets
	Path       string
	PathParams []string // key=value
	Headers    []string // Name: value
	Query      []string // key=value, repeated keys are sent repeatedly
	Form       []string // key=value
	Files      []string // name=path, sent as multipart

	Body        string
	BodyFile    string // @- reads stdin
	Accept      string
	ContentType string
}

// Chain builds the segments for the path and headers of r below root
func (r Request) Chain(root dsl.Segment) (dsl.Segment, error) {
	params, err := splitPairs(r.PathParams, "=")
	if err != nil {
		return root, err
	}
	values := make(map[string]string, len(params))
	for _, kv := range params {
		values[kv[0]] = kv[1]
	}

	seg := root
	for _, el := range strings.Split(strings.Trim(r.Path, "/"), "/") {
		if el == "" {
			continue
		}
		if !strings.Contains(el, "{") {
			seg = dsl.Plain(seg, el)
			continue
		}
		var missing []string
		rendered := fasttemplate.ExecuteFuncString(el, "{", "}", func(w io.Writer, tag string) (int, error) {
			v, ok := values[tag]
			if !ok {
				missing = append(missing, tag)
				return 0, nil
			}
			return w.Write([]byte(v))
		})
		if len(missing) > 0 {
			return root, fmt.Errorf("%w: %s", ErrMissingPathParam, strings.Join(missing, ", "))
		}
		seg = dsl.Param(seg, rendered)
	}

	headers, err := splitPairs(r.Headers, ":")
	if err != nil {
		return root, err
	}
	for _, kv := range headers {
		seg = seg.WithHeader(kv[0], kv[1])
	}
	return seg, nil
}

// Segment builds the method segment of r. Bodies are sent exactly as given
func (r Request) Segment(root dsl.Segment) (*dsl.BinaryMethodSegment[interface{}], error) {
	method, err := http.MethodFromString(r.Method)
	if err != nil {
		return nil, err
	}
	seg, err := r.Chain(root)
	if err != nil {
		return nil, err
	}

	opts := dsl.MethodOptions{
		Accept:        r.Accept,
		ContentType:   r.ContentType,
		PrimitiveBody: true,
	}
	if opts.Query, err = paramMap(r.Query); err != nil {
		return nil, err
	}
	if opts.Form, err = paramMap(r.Form); err != nil {
		return nil, err
	}
	files, err := splitPairs(r.Files, "=")
	if err != nil {
		return nil, err
	}
	for _, kv := range files {
		opts.Multipart = append(opts.Multipart, http.FilePart{Name: kv[0], Path: kv[1]})
	}

	body, err := r.body()
	if err != nil {
		return nil, err
	}
	return dsl.NewBinaryMethodSegment[interface{}](seg, method, body, opts), nil
}

func (r Request) body() (interface{}, error) {
	switch r.BodyFile {
	case "":
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(r.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		return string(data), nil
	}
	if r.Body == "" {
		return nil, nil
	}
	return r.Body, nil
}

// paramMap groups key=value pairs by key, keeping the order values were given in
func paramMap(pairs []string) (map[string]http.HTTPParam, error) {
	kvs, err := splitPairs(pairs, "=")
	if err != nil || len(kvs) == 0 {
		return nil, err
	}
	grouped := make(map[string][]interface{})
	for _, kv := range kvs {
		grouped[kv[0]] = append(grouped[kv[0]], kv[1])
	}
	ret := make(map[string]http.HTTPParam, len(grouped))
	for k, vs := range grouped {
		if len(vs) == 1 {
			ret[k] = http.NewSimpleParam(vs[0])
			continue
		}
		ret[k] = http.NewRepeatedParam(vs...)
	}
	return ret, nil
}

func splitPairs(pairs []string, sep string) ([][2]string, error) {
	ret := make([][2]string, 0, len(pairs))
	for _, p := range pairs {
		i := strings.Index(p, sep)
		if i <= 0 {
			return nil, fmt.Errorf("%w %q, expected key%svalue", ErrMalformedPair, p, sep)
		}
		ret = append(ret, [2]string{strings.TrimSpace(p[:i]), strings.TrimSpace(p[i+len(sep):])})
	}
	return ret, nil
}
