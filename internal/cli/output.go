package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// ColorScheme holds the colors of a printed response
type ColorScheme struct {
	Method      *color.Color
	URL         *color.Color
	StatusOK    *color.Color
	StatusWarn  *color.Color
	StatusError *color.Color
	HeaderKey   *color.Color
}

func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Method:      color.New(color.FgBlue, color.Bold),
		URL:         color.New(color.FgCyan),
		StatusOK:    color.New(color.FgGreen, color.Bold),
		StatusWarn:  color.New(color.FgYellow, color.Bold),
		StatusError: color.New(color.FgRed, color.Bold),
		HeaderKey:   color.New(color.FgYellow),
	}
}

func NoColorScheme() *ColorScheme {
	s := DefaultColorScheme()
	for _, c := range []*color.Color{s.Method, s.URL, s.StatusOK, s.StatusWarn, s.StatusError, s.HeaderKey} {
		c.DisableColor()
	}
	return s
}

func (s *ColorScheme) status(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return s.StatusOK
	case code >= 300 && code < 400:
		return s.StatusWarn
	default:
		return s.StatusError
	}
}

// PrintOptions controls what PrintResponse writes besides the status line
type PrintOptions struct {
	Headers bool
	Body    bool
	Colors  *ColorScheme
}

// PrintResponse writes a status line like
//
//	GET     200 [   1.2 kB] https://petstore.io/v2/pet/7 35ms
//
// followed by the headers and the textual body when requested
func PrintResponse(w io.Writer, method http.Method, url string, resp *http.Response[http.BinaryData], opts PrintOptions) {
	cs := opts.Colors
	if cs == nil {
		cs = NoColorScheme()
	}

	cs.Method.Fprintf(w, "%-7s ", method)
	cs.status(resp.Status).Fprintf(w, "%d", resp.Status)
	fmt.Fprintf(w, " [%10s] ", humanize.Bytes(uint64(len(resp.Body))))
	cs.URL.Fprint(w, url)
	fmt.Fprintf(w, " %s\n", resp.Took.Round(time.Millisecond))

	if opts.Headers && resp.Headers != nil {
		resp.Headers.Each(func(name string, values []string) {
			cs.HeaderKey.Fprintf(w, "%s", name)
			fmt.Fprintf(w, ": %s\n", strings.Join(values, ", "))
		})
	}
	if opts.Body && resp.StringBody != nil && *resp.StringBody != "" {
		if opts.Headers {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, *resp.StringBody)
		if !strings.HasSuffix(*resp.StringBody, "\n") {
			fmt.Fprintln(w)
		}
	}
}
