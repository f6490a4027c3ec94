package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/assetnote/kitedsl/pkg/http"
	"github.com/davecgh/go-spew/spew"
	"github.com/francoispqt/gojay"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

type FoldFormat string

var (
	FoldTable FoldFormat = "table"
	FoldJSON  FoldFormat = "json"
	FoldYAML  FoldFormat = "yaml"
	FoldRaw   FoldFormat = "raw"
)

var (
	ErrUnsupportedFoldFormat = fmt.Errorf("unsupported fold format. supported 'table', 'json', 'yaml', 'raw'")
)

// FoldView is the printable form of a folded request builder
type FoldView struct {
	Method    string              `yaml:"method"`
	Path      string              `yaml:"path"`
	URL       string              `yaml:"url,omitempty"`
	Headers   []KV                `yaml:"headers,omitempty"`
	Query     map[string][]string `yaml:"query,omitempty"`
	Form      map[string][]string `yaml:"form,omitempty"`
	Multipart []string            `yaml:"multipart,omitempty"`
	Binary    bool                `yaml:"binary,omitempty"`
	Body      *string             `yaml:"body,omitempty"`
}

type KV struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// NewFoldView folds b and collects what a transport would send. target may be nil
func NewFoldView(b *http.RequestBuilder, target *http.Target, body *string) FoldView {
	f := b.Fold()
	v := FoldView{
		Method: string(f.Method()),
		Path:   f.RelativePath(),
		Query:  paramValues(f.QueryParameters()),
		Form:   paramValues(f.FormParameters()),
		Binary: f.BinaryRequest() != nil,
		Body:   body,
	}
	if v.Method == "" {
		v.Method = string(http.GET)
	}
	if target != nil {
		v.URL = target.URL(v.Path, "")
	}
	f.Headers().Each(func(name string, values []string) {
		for _, value := range values {
			v.Headers = append(v.Headers, KV{Key: name, Value: value})
		}
	})
	for _, p := range f.MultipartParams() {
		v.Multipart = append(v.Multipart, p.PartName())
	}
	return v
}

func paramValues(params map[string]http.HTTPParam) map[string][]string {
	if len(params) == 0 {
		return nil
	}
	ret := make(map[string][]string, len(params))
	for k, p := range params {
		ret[k] = p.Values()
	}
	return ret
}

func (v FoldView) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("method", v.Method)
	enc.StringKey("path", v.Path)
	enc.StringKeyOmitEmpty("url", v.URL)
	if len(v.Headers) > 0 {
		enc.ArrayKey("headers", kvArray(v.Headers))
	}
	if len(v.Query) > 0 {
		enc.ObjectKey("query", valuesObject(v.Query))
	}
	if len(v.Form) > 0 {
		enc.ObjectKey("form", valuesObject(v.Form))
	}
	if len(v.Multipart) > 0 {
		enc.ArrayKey("multipart", stringArray(v.Multipart))
	}
	enc.BoolKeyOmitEmpty("binary", v.Binary)
	if v.Body != nil {
		enc.StringKey("body", *v.Body)
	}
}

func (v FoldView) IsNil() bool { return false }

type kvArray []KV

func (a kvArray) MarshalJSONArray(enc *gojay.Encoder) {
	for _, kv := range a {
		enc.Object(kv)
	}
}

func (a kvArray) IsNil() bool { return len(a) == 0 }

func (kv KV) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("key", kv.Key)
	enc.StringKey("value", kv.Value)
}

func (kv KV) IsNil() bool { return false }

type stringArray []string

func (a stringArray) MarshalJSONArray(enc *gojay.Encoder) {
	for _, s := range a {
		enc.String(s)
	}
}

func (a stringArray) IsNil() bool { return len(a) == 0 }

type valuesObject map[string][]string

func (o valuesObject) MarshalJSONObject(enc *gojay.Encoder) {
	for _, k := range sortedKeys(o) {
		enc.ArrayKey(k, stringArray(o[k]))
	}
}

func (o valuesObject) IsNil() bool { return len(o) == 0 }

// WriteFold writes v in the given format
func WriteFold(w io.Writer, v FoldView, format FoldFormat) error {
	switch format {
	case FoldJSON:
		enc := gojay.BorrowEncoder(w)
		defer enc.Release()
		if err := enc.EncodeObject(v); err != nil {
			return fmt.Errorf("failed to encode fold: %w", err)
		}
		_, err := io.WriteString(w, "\n")
		return err
	case FoldYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode fold: %w", err)
		}
		return enc.Close()
	case FoldRaw:
		spew.Fdump(w, v)
		return nil
	case FoldTable, "":
		writeFoldTable(w, v)
		return nil
	}
	return ErrUnsupportedFoldFormat
}

func writeFoldTable(w io.Writer, v FoldView) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"part", "name", "value"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	table.Append([]string{"method", "", v.Method})
	table.Append([]string{"path", "", v.Path})
	if v.URL != "" {
		table.Append([]string{"url", "", v.URL})
	}
	for _, kv := range v.Headers {
		table.Append([]string{"header", kv.Key, kv.Value})
	}
	for _, k := range sortedKeys(v.Query) {
		table.Append([]string{"query", k, strings.Join(v.Query[k], ", ")})
	}
	for _, k := range sortedKeys(v.Form) {
		table.Append([]string{"form", k, strings.Join(v.Form[k], ", ")})
	}
	for _, name := range v.Multipart {
		table.Append([]string{"multipart", name, ""})
	}
	if v.Binary {
		table.Append([]string{"binary", "", "yes"})
	}
	if v.Body != nil {
		table.Append([]string{"body", "", *v.Body})
	}
	table.Render()
}
