package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Form is a multipart/form-data payload. Passing one as RequestOptions.Body
// suppresses the JSON content type; the encoder supplies the boundary.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field       string
	filename    string
	contentType string
	content     io.Reader
}

// NewForm returns an empty multipart payload.
func NewForm() *Form {
	return &Form{}
}

// AddField appends a plain text field.
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part read from r.
func (f *Form) AddFile(field, filename string, r io.Reader) *Form {
	return f.AddFileWithType(field, filename, "", r)
}

// AddFileWithType appends a file part with an explicit part content type.
func (f *Form) AddFileWithType(field, filename, contentType string, r io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, contentType: contentType, content: r})
	return f
}

// encode renders the form and returns the body with its multipart content type.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, field := range f.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		part, err := createFilePart(writer, file)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", file.field, err)
		}
		if file.content != nil {
			if _, err := io.Copy(part, file.content); err != nil {
				return nil, "", fmt.Errorf("copy file %s: %w", file.filename, err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func createFilePart(writer *multipart.Writer, file formFile) (io.Writer, error) {
	if file.contentType == "" {
		return writer.CreateFormFile(file.field, file.filename)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(file.field), quoteEscaper.Replace(file.filename)))
	header.Set("Content-Type", file.contentType)
	return writer.CreatePart(header)
}
