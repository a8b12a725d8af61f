// Package attachment models files attached to a ticket. An attachment
// always addresses a single stored file; handing it a set of named
// files bundles them into one zip archive before upload.
package attachment

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/orris-inc/tracgate/internal/shared/errors"
)

// ContentKind tags the shape of an attachment's content.
type ContentKind int

const (
	// ContentNone marks an attachment without content, e.g. one
	// rebuilt from a listing where the payload must be fetched
	// separately.
	ContentNone ContentKind = iota
	ContentBytes
	ContentText
	ContentFiles
)

// File is one entry of a multi-file attachment. Order is significant:
// the zip archive lists entries in the order they were given.
type File struct {
	Name string
	Data []byte
}

// Content is a tagged union over the three supported payload shapes:
// raw bytes, text, or a set of named files.
type Content struct {
	kind  ContentKind
	data  []byte
	text  string
	files []File
}

// BytesContent wraps a raw byte payload.
func BytesContent(data []byte) Content {
	return Content{kind: ContentBytes, data: data}
}

// TextContent wraps a textual payload.
func TextContent(text string) Content {
	return Content{kind: ContentText, text: text}
}

// FilesContent wraps a set of named files to be bundled into a zip
// archive on upload.
func FilesContent(files ...File) Content {
	return Content{kind: ContentFiles, files: files}
}

// Kind returns the shape tag of the content.
func (c Content) Kind() ContentKind {
	return c.kind
}

// IsSet reports whether the attachment carries any content at all.
func (c Content) IsSet() bool {
	return c.kind != ContentNone
}

// Bytes returns the payload of bytes or text content. For file-set
// content it returns nil; use UploadPayload for the bundled form.
func (c Content) Bytes() []byte {
	switch c.kind {
	case ContentBytes:
		return c.data
	case ContentText:
		return []byte(c.text)
	}
	return nil
}

// Attachment is an in-memory view of a ticket attachment. Size, Author
// and Time are assigned by the server and stay zero on locally
// constructed instances intended for upload. The owning ticket is
// identified at the call boundary, not stored here.
type Attachment struct {
	FileName    string
	Description string
	Content     Content

	Size   int
	Author string
	Time   *time.Time
}

// New returns an attachment ready for upload.
func New(fileName, description string, content Content) *Attachment {
	return &Attachment{
		FileName:    fileName,
		Description: description,
		Content:     content,
	}
}

// UploadPayload renders the content into the byte payload of a
// ticket.putAttachment call; the XML-RPC codec takes care of base64
// framing. Bytes and text pass through unchanged. A file set is
// bundled into a deflate-compressed zip archive whose entry order
// follows the insertion order of the set; entry metadata stays at its
// zero values so the same input always yields the same archive. Any
// other content shape reports an error.
func (a *Attachment) UploadPayload() ([]byte, error) {
	switch a.Content.kind {
	case ContentBytes:
		return a.Content.data, nil
	case ContentText:
		return []byte(a.Content.text), nil
	case ContentFiles:
		return bundleZip(a.Content.files)
	}
	return nil, errors.NewValidationError(
		fmt.Sprintf("unsupported attachment content shape %d", a.Content.kind))
}

func bundleZip(files []File) ([]byte, error) {
	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	for _, f := range files {
		header := &zip.FileHeader{
			Name:   f.Name,
			Method: zip.Deflate,
		}
		w, err := archive.CreateHeader(header)
		if err != nil {
			return nil, errors.NewInternalError("failed to add zip entry", err.Error())
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, errors.NewInternalError("failed to write zip entry", err.Error())
		}
	}

	if err := archive.Close(); err != nil {
		return nil, errors.NewInternalError("failed to finalize zip archive", err.Error())
	}
	return buf.Bytes(), nil
}

// FromTracData rebuilds an attachment from the 5-tuple a
// ticket.listAttachments call returns per file: (name, description,
// size, time, author). Content is left unset; it has to be fetched
// with a separate ticket.getAttachment call.
func FromTracData(data []any) (*Attachment, error) {
	if len(data) != 5 {
		return nil, errors.NewInternalError(
			fmt.Sprintf("malformed attachment data: expected 5 elements, got %d", len(data)))
	}

	name, ok := data[0].(string)
	if !ok {
		return nil, errors.NewInternalError("malformed attachment data",
			fmt.Sprintf("file name: expected string, got %T", data[0]))
	}
	description, ok := data[1].(string)
	if !ok {
		return nil, errors.NewInternalError("malformed attachment data",
			fmt.Sprintf("description: expected string, got %T", data[1]))
	}
	size, err := wireInt(data[2])
	if err != nil {
		return nil, errors.NewInternalError("malformed attachment data", err.Error())
	}
	author, ok := data[4].(string)
	if !ok {
		return nil, errors.NewInternalError("malformed attachment data",
			fmt.Sprintf("author: expected string, got %T", data[4]))
	}

	a := &Attachment{
		FileName:    name,
		Description: description,
		Size:        size,
		Author:      author,
	}
	if ts, ok := data[3].(time.Time); ok {
		a.Time = &ts
	}
	return a, nil
}

func (a *Attachment) String() string {
	return a.FileName
}

func wireInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, fmt.Errorf("size: expected integer, got %T", v)
}
