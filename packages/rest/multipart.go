package rest

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
)

// Blob is a binary part with its own declared content type. A non-empty
// []Blob passed to Request.Body is encoded as a multipart/related body.
type Blob struct {
	Type string
	Data []byte
}

// boundaryLength is the size of the random boundary token. UUID hex
// keeps it collision-resistant without characters that would need
// escaping in a boundary context.
const boundaryLength = 18

func newBoundary() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:boundaryLength]
}

// encodeRelated frames blobs as a multipart/related body: each part is
// delimited by --boundary, carries the blob's own Content-Type, and the
// final delimiter is closed with a trailing "--".
func encodeRelated(blobs []Blob, boundary string) []byte {
	var buf bytes.Buffer
	for _, b := range blobs {
		buf.WriteString("--" + boundary + "\r\n")
		buf.WriteString("Content-Type: " + b.Type + "\r\n")
		buf.WriteString("\r\n")
		buf.Write(b.Data)
		buf.WriteString("\r\n")
	}
	buf.WriteString("--" + boundary + "--")
	return buf.Bytes()
}
