package http

import (
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// contentCharset returns the charset parameter of a Content-Type value, or ""
func contentCharset(contentType string) string {
	for _, part := range strings.Split(contentType, ";") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "charset") {
			return strings.Trim(strings.TrimSpace(kv[1]), `"'`)
		}
	}
	return ""
}

// decodeText converts a textual body to UTF-8. The charset of the Content-Type wins over
// fallback. UTF-8 bodies, unknown charsets and bodies that fail to decode are returned as is
func decodeText(body []byte, contentType string, fallback string) []byte {
	name := contentCharset(contentType)
	if name == "" {
		name = fallback
	}
	if name == "" || len(body) == 0 {
		return body
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return body
	}
	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		return body
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return out
}
