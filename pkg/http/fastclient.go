package http

import (
	"bytes"
	"context"

	"github.com/assetnote/kitedsl/pkg/log"
	"github.com/valyala/fasthttp"
)

const TransportFastHTTP = "fasthttp"

var (
	strLocation = []byte(fasthttp.HeaderLocation)
)

// HTTPClient is a type alias for the actual host client we use.
// We do this instead of using an interface to avoid reflecting
type HTTPClient = fasthttp.HostClient

// BackupClient is a normal fasthttpClient that can adapt to different hosts
// This is used to handle redirects that change the host/port of the request
type BackupClient = fasthttp.Client

func init() {
	RegisterTransport(TransportFastHTTP, ClientFactoryFunc(NewFastClient))
}

// fastTripper sends requests with a fasthttp.HostClient bound to the target.
// Redirects leaving the target are sent with the backup client
type fastTripper struct {
	hc     *HTTPClient
	backup *BackupClient
	cfg    *Config
}

// NewFastClient creates a Client backed by fasthttp. This is the default transport
func NewFastClient(host string, port int, protocol string, prefix string, cfg *Config, defaultHeaders map[string]string) (Client, error) {
	return newFastClient(host, port, protocol, prefix, cfg, defaultHeaders)
}

func newFastClient(host string, port int, protocol string, prefix string, cfg *Config, defaultHeaders map[string]string) (*transportClient, error) {
	c, err := newTransportClient(TransportFastHTTP, host, port, protocol, prefix, cfg, defaultHeaders)
	if err != nil {
		return nil, err
	}
	cfg = c.cfg

	hc := &HTTPClient{
		Addr:                     c.target.Addr(),
		IsTLS:                    c.target.IsTLS,
		TLSConfig:                tlsConfig(cfg.InsecureSkipVerify),
		NoDefaultUserAgentHeader: true,
		ReadTimeout:              cfg.Timeout,
		WriteTimeout:             cfg.Timeout,
	}
	if cfg.MaxConnections > 0 {
		hc.MaxConns = cfg.MaxConnections
	}
	c.rt = &fastTripper{
		hc: hc,
		backup: &BackupClient{
			ReadTimeout:              cfg.Timeout,
			WriteTimeout:             cfg.Timeout,
			TLSConfig:                tlsConfig(cfg.InsecureSkipVerify),
			NoDefaultUserAgentHeader: true,
		},
		cfg: cfg,
	}
	return c, nil
}

// close is a no-op, idle fasthttp connections are reaped by the clients themselves
func (f *fastTripper) close() error {
	return nil
}

func (f *fastTripper) roundTrip(ctx context.Context, req *preparedRequest) (*rawResponse, error) {
	var (
		freq  = fasthttp.AcquireRequest()
		fresp = fasthttp.AcquireResponse()
	)
	defer fasthttp.ReleaseRequest(freq)
	defer fasthttp.ReleaseResponse(fresp)

	req.writeFastRequest(freq)
	fresp.Header.DisableNormalizing()

	if err := f.doRequestFollowRedirects(ctx, freq, fresp); err != nil {
		return nil, err
	}

	ret := &rawResponse{
		status:  fresp.StatusCode(),
		headers: NewHeaderMap(),
		body:    append([]byte(nil), fresp.Body()...),
	}
	fresp.Header.VisitAll(func(k, v []byte) {
		ret.headers.AddHeader(string(k), string(v))
	})
	return ret, nil
}

// do performs a single hop. The deadline of ctx is used when set, the client read and write
// timeouts bound the request otherwise
func (f *fastTripper) do(ctx context.Context, backup bool, freq *fasthttp.Request, fresp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, ok := ctx.Deadline()
	switch {
	case backup && ok:
		return f.backup.DoDeadline(freq, fresp, deadline)
	case backup:
		return f.backup.Do(freq, fresp)
	case ok:
		return f.hc.DoDeadline(freq, fresp, deadline)
	default:
		return f.hc.Do(freq, fresp)
	}
}

// doRequestFollowRedirects will attempt to follow cfg.MaxRedirects number of redirects.
// Once the limit is hit the last redirect response is returned as is.
// A 303 switches the following request to a GET without a body
func (f *fastTripper) doRequestFollowRedirects(ctx context.Context, freq *fasthttp.Request, fresp *fasthttp.Response) error {
	redirectsCount := 0
	backupClient := false

	for {
		if err := f.do(ctx, backupClient, freq, fresp); err != nil {
			return err
		}
		statusCode := fresp.Header.StatusCode()

		if !StatusCodeIsRedirect(statusCode) {
			return nil
		}

		redirectsCount++
		if redirectsCount > f.cfg.MaxRedirects {
			log.Trace().Int("sc", statusCode).Msg("bailing out. reached max redirects")
			return nil
		}

		location := fresp.Header.PeekBytes(strLocation)
		if len(location) == 0 {
			log.Trace().Msg("bailing out. reached missing location header")
			return nil
		}

		uri := freq.URI()
		// this is a single direction switch. once we move to the backup client, we can't go back
		// since we've moved off our original host, it doesnt make sense to use the hostclient anymore
		if !updateRedirectURL(uri, location) {
			backupClient = true
		}
		freq.Header.SetHostBytes(uri.Host())

		if statusCode == fasthttp.StatusSeeOther {
			freq.Header.SetMethod(fasthttp.MethodGet)
			freq.Header.Del(headerContentType)
			freq.ResetBody()
		}

		log.Trace().
			Bytes("location", location).
			Int("sc", statusCode).
			Msg("following redirect")
		fresp.Reset()
		fresp.Header.DisableNormalizing()
	}
}

// updateRedirectURL will point base at the location header, relative locations resolved
// against the current path. This returns whether the redirect stays on the same host and scheme
func updateRedirectURL(base *fasthttp.URI, location []byte) bool {
	// preserve the old values to determine whether our scheme/host has changed
	var (
		host   = append([]byte{}, base.Host()...)
		scheme = append([]byte{}, base.Scheme()...)
	)
	base.UpdateBytes(location)
	// we need to compare the host (including port) and the scheme (protocol), otherwise we'll be trying a http
	// request against a https redirect
	return bytes.Equal(host, base.Host()) && bytes.Equal(scheme, base.Scheme())
}

// StatusCodeIsRedirect returns true if the status code indicates a redirect.
func StatusCodeIsRedirect(statusCode int) bool {
	return statusCode == fasthttp.StatusMovedPermanently ||
		statusCode == fasthttp.StatusFound ||
		statusCode == fasthttp.StatusSeeOther ||
		statusCode == fasthttp.StatusTemporaryRedirect ||
		statusCode == fasthttp.StatusPermanentRedirect
}
