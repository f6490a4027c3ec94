package http

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/valyala/bytebufferpool"
)

// BodyPart is one named part of a multipart/form-data request
type BodyPart interface {
	PartName() string
	writePart(w *multipart.Writer) error
}

// StringPart is a plain text part. Charset is appended to the content type when set
type StringPart struct {
	Name        string
	Value       string
	ContentType string
	Charset     string
}

func (p StringPart) PartName() string { return p.Name }

func (p StringPart) writePart(w *multipart.Writer) error {
	if p.ContentType == "" && p.Charset == "" {
		return w.WriteField(p.Name, p.Value)
	}
	ct := p.ContentType
	if ct == "" {
		ct = "text/plain"
	}
	if p.Charset != "" {
		ct += "; charset=" + p.Charset
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, escapeQuotes(p.Name)))
	h.Set("Content-Type", ct)
	pw, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.WriteString(pw, p.Value)
	return err
}

// BytePart is a binary part, sent as a file upload when FileName is set
type BytePart struct {
	Name        string
	Bytes       []byte
	ContentType string
	FileName    string
}

func (p BytePart) PartName() string { return p.Name }

func (p BytePart) writePart(w *multipart.Writer) error {
	pw, err := createFilePart(w, p.Name, p.FileName, p.ContentType)
	if err != nil {
		return err
	}
	_, err = pw.Write(p.Bytes)
	return err
}

// FilePart streams the file at Path into the request. FileName defaults to the base name of Path
type FilePart struct {
	Name        string
	Path        string
	ContentType string
	FileName    string
}

func (p FilePart) PartName() string { return p.Name }

func (p FilePart) writePart(w *multipart.Writer) error {
	f, err := os.Open(p.Path)
	if err != nil {
		return fmt.Errorf("failed to open multipart file: %w", err)
	}
	defer f.Close()

	name := p.FileName
	if name == "" {
		name = filepath.Base(p.Path)
	}
	pw, err := createFilePart(w, p.Name, name, p.ContentType)
	if err != nil {
		return err
	}
	_, err = io.Copy(pw, f)
	return err
}

func createFilePart(w *multipart.Writer, name, fileName, contentType string) (io.Writer, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	if fileName != "" {
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(name), escapeQuotes(fileName)))
	} else {
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, escapeQuotes(name)))
	}
	h.Set("Content-Type", contentType)
	return w.CreatePart(h)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// encodeMultipart writes the parts and returns the body with its content type. The boundary is
// a dash-less uuid, which keeps it well clear of anything a part is likely to contain
func encodeMultipart(parts []BodyPart) ([]byte, string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := multipart.NewWriter(buf)
	if err := w.SetBoundary(strings.Replace(uuid.New().String(), "-", "", -1)); err != nil {
		return nil, "", err
	}
	for _, p := range parts {
		if err := p.writePart(w); err != nil {
			return nil, "", fmt.Errorf("failed to write multipart part %q: %w", p.PartName(), err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return append([]byte(nil), buf.B...), w.FormDataContentType(), nil
}

// BinaryRequest is a raw request payload sent as is
type BinaryRequest interface {
	Bytes() ([]byte, error)
}

type BytesBinaryRequest []byte

func (b BytesBinaryRequest) Bytes() ([]byte, error) { return b, nil }

type StringBinaryRequest string

func (s StringBinaryRequest) Bytes() ([]byte, error) { return []byte(s), nil }

// FileBinaryRequest is the path of a file sent as the body
type FileBinaryRequest string

func (f FileBinaryRequest) Bytes() ([]byte, error) {
	data, err := ioutil.ReadFile(string(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read binary request file: %w", err)
	}
	return data, nil
}

// ReaderBinaryRequest drains the reader once when the request is written
type ReaderBinaryRequest struct {
	Reader io.Reader
}

func (r ReaderBinaryRequest) Bytes() ([]byte, error) {
	data, err := ioutil.ReadAll(r.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read binary request: %w", err)
	}
	return data, nil
}

// BinaryData is a response payload returned without interpretation
type BinaryData []byte

func (b BinaryData) Bytes() []byte { return b }

func (b BinaryData) String() string { return string(b) }

func (b BinaryData) Reader() io.Reader { return bytes.NewReader(b) }

func (b BinaryData) WriteToFile(path string) error {
	return ioutil.WriteFile(path, b, 0o644)
}
