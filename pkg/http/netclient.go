package http

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	nethttp "net/http"

	"github.com/assetnote/kitedsl/pkg/log"
)

const TransportNetHTTP = "nethttp"

func init() {
	RegisterTransport(TransportNetHTTP, ClientFactoryFunc(NewNetClient))
}

// netTripper sends requests with the standard library client, for environments where
// fasthttp cannot be used, e.g. behind an HTTP proxy configured through the environment
type netTripper struct {
	hc *nethttp.Client
}

// NewNetClient creates a Client backed by net/http
func NewNetClient(host string, port int, protocol string, prefix string, cfg *Config, defaultHeaders map[string]string) (Client, error) {
	return newNetClient(host, port, protocol, prefix, cfg, defaultHeaders)
}

func newNetClient(host string, port int, protocol string, prefix string, cfg *Config, defaultHeaders map[string]string) (*transportClient, error) {
	c, err := newTransportClient(TransportNetHTTP, host, port, protocol, prefix, cfg, defaultHeaders)
	if err != nil {
		return nil, err
	}
	cfg = c.cfg

	tr := nethttp.DefaultTransport.(*nethttp.Transport).Clone()
	tr.TLSClientConfig = tlsConfig(cfg.InsecureSkipVerify)
	if cfg.MaxConnections > 0 {
		tr.MaxConnsPerHost = cfg.MaxConnections
	}
	maxRedirects := cfg.MaxRedirects
	c.rt = &netTripper{
		hc: &nethttp.Client{
			Transport: tr,
			CheckRedirect: func(req *nethttp.Request, via []*nethttp.Request) error {
				if len(via) > maxRedirects {
					log.Trace().Int("redirects", len(via)).Msg("bailing out. reached max redirects")
					return nethttp.ErrUseLastResponse
				}
				log.Trace().Str("location", req.URL.String()).Msg("following redirect")
				return nil
			},
		},
	}
	return c, nil
}

func (n *netTripper) close() error {
	n.hc.CloseIdleConnections()
	return nil
}

func (n *netTripper) roundTrip(ctx context.Context, req *preparedRequest) (*rawResponse, error) {
	var body *bytes.Reader
	if len(req.body) > 0 {
		body = bytes.NewReader(req.body)
	}
	var hreq *nethttp.Request
	var err error
	if body != nil {
		hreq, err = nethttp.NewRequestWithContext(ctx, string(req.method), req.uri, body)
	} else {
		hreq, err = nethttp.NewRequestWithContext(ctx, string(req.method), req.uri, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	hreq.Host = req.host
	req.headers.Each(func(name string, values []string) {
		// assigned directly so the name goes out as spelled
		hreq.Header[name] = append([]string(nil), values...)
	})
	if !req.headers.HasKey("User-Agent") {
		// match fasthttp, which sends none
		hreq.Header["User-Agent"] = []string{""}
	}

	resp, err := n.hc.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	ret := &rawResponse{
		status:  resp.StatusCode,
		headers: NewHeaderMap(),
		body:    data,
	}
	for _, k := range sortedKeys(map[string][]string(resp.Header)) {
		for _, v := range resp.Header[k] {
			ret.headers.AddHeader(k, v)
		}
	}
	return ret, nil
}
