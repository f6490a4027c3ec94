package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestPrintResponse(t *testing.T) {
	body := "hello"
	resp := &http.Response[http.BinaryData]{
		Status:     200,
		Headers:    http.HeaderMapFrom(map[string]string{"Content-Type": "text/plain"}),
		StringBody: &body,
		Body:       http.BinaryData(body),
		Took:       35 * time.Millisecond,
	}

	var buf bytes.Buffer
	PrintResponse(&buf, http.GET, "https://petstore.io/v2/pets", resp, PrintOptions{Headers: true, Body: true})
	assert.Equal(t, "GET     200 [       5 B] https://petstore.io/v2/pets 35ms\n"+
		"Content-Type: text/plain\n"+
		"\n"+
		"hello\n", buf.String())

	buf.Reset()
	PrintResponse(&buf, http.DELETE, "https://petstore.io/v2/pets/1", &http.Response[http.BinaryData]{Status: 404}, PrintOptions{Body: true})
	assert.Equal(t, "DELETE  404 [       0 B] https://petstore.io/v2/pets/1 0s\n", buf.String())
}
