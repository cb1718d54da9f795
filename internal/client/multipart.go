package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/anvaya-club/anvaya/internal/apierr"
)

// File is an upload handed to the admin API.
type File struct {
	// Name is the filename reported to the server.
	Name string
	// ContentType defaults to application/octet-stream.
	ContentType string
	Data        io.Reader
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// form accumulates a multipart/form-data body in memory. Uploads are small
// images and PDFs, and a buffered body gives the request a Content-Length.
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *form {
	f := &form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

func (f *form) file(field string, file File) {
	if f.err != nil {
		return
	}
	if file.Data == nil {
		f.err = apierr.Validation(fmt.Sprintf("File %q has no content", file.Name))
		return
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", contentType)

	part, err := f.w.CreatePart(h)
	if err != nil {
		f.err = err
		return
	}
	if _, err := io.Copy(part, file.Data); err != nil {
		f.err = fmt.Errorf("read %s: %w", file.Name, err)
	}
}

// finish closes the body and returns it with its Content-Type header value.
func (f *form) finish() (io.Reader, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.w.Close(); err != nil {
		return nil, "", err
	}
	return bytes.NewReader(f.buf.Bytes()), f.w.FormDataContentType(), nil
}
