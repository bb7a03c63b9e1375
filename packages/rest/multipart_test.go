package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoundary(t *testing.T) {
	a := newBoundary()
	b := newBoundary()

	assert.Len(t, a, boundaryLength)
	assert.NotEqual(t, a, b)
	for _, c := range a {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestEncodeRelated(t *testing.T) {
	blobs := []Blob{
		{Type: "image/png", Data: []byte("png-bytes")},
		{Type: "application/pdf", Data: []byte("pdf-bytes")},
	}

	body := string(encodeRelated(blobs, "abc123"))

	want := "--abc123\r\n" +
		"Content-Type: image/png\r\n" +
		"\r\n" +
		"png-bytes\r\n" +
		"--abc123\r\n" +
		"Content-Type: application/pdf\r\n" +
		"\r\n" +
		"pdf-bytes\r\n" +
		"--abc123--"

	assert.Equal(t, want, body)
}

func TestRequest_BodyBlobs(t *testing.T) {
	client := NewClient("https://api.example.com")
	req := client.Post("/upload").Body([]Blob{
		{Type: "image/png", Data: []byte("first")},
		{Type: "image/jpeg", Data: []byte("second")},
	})

	ct := req.HeaderValue("Content-Type")
	require.True(t, strings.HasPrefix(ct, "multipart/related; boundary="))

	boundary := strings.TrimPrefix(ct, "multipart/related; boundary=")
	assert.Len(t, boundary, boundaryLength)

	body := string(req.body)
	assert.Equal(t, 2, strings.Count(body, "--"+boundary+"\r\n"))
	assert.True(t, strings.HasSuffix(body, "--"+boundary+"--"))
	assert.Contains(t, body, "Content-Type: image/png\r\n\r\nfirst\r\n")
	assert.Contains(t, body, "Content-Type: image/jpeg\r\n\r\nsecond\r\n")
}

func TestRequest_BodyBlobsOverridesContentType(t *testing.T) {
	client := NewClient("https://api.example.com")
	req := client.Post("/upload").
		Header("Content-Type", "application/json").
		Body([]Blob{{Type: "image/png", Data: []byte("x")}})

	assert.True(t, strings.HasPrefix(req.HeaderValue("Content-Type"), "multipart/related; boundary="))
}

func TestRequest_BodyBlobsEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		assert.True(t, strings.HasPrefix(ct, "multipart/related; boundary="))
		boundary := strings.TrimPrefix(ct, "multipart/related; boundary=")

		body, _ := io.ReadAll(r.Body)
		// The boundary in the header must match the delimiters in the body.
		assert.True(t, strings.HasPrefix(string(body), "--"+boundary+"\r\n"))
		assert.True(t, strings.HasSuffix(string(body), "--"+boundary+"--"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Post("/upload").Body([]Blob{
		{Type: "text/plain", Data: []byte("hello")},
	}).Send(context.Background())
	require.NoError(t, err)
}

func TestRequest_EmptyBlobSliceIsJSON(t *testing.T) {
	client := NewClient("https://api.example.com")
	req := client.Post("/upload").Body([]Blob{})

	assert.Equal(t, "application/json", req.HeaderValue("Content-Type"))
	assert.Equal(t, "[]", string(req.body))
}
