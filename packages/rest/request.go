package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Request accumulates configuration for a single HTTP exchange. All
// setters return the receiver for chaining. A Request is not safe for
// concurrent mutation; issue concurrent requests from separate builders.
type Request struct {
	client     *Client
	method     string
	url        string
	headers    http.Header
	query      url.Values
	body       []byte
	bodyReader io.Reader
	err        error
}

// Method returns the HTTP method fixed at creation.
func (r *Request) Method() string {
	return r.method
}

// URL returns the target URL with accumulated query parameters encoded.
func (r *Request) URL() string {
	if len(r.query) == 0 {
		return r.url
	}

	u, err := url.Parse(r.url)
	if err != nil {
		return r.url
	}

	q := u.Query()
	for k := range r.query {
		q.Set(k, r.query.Get(k))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SetURL replaces the target URL. Intended for hooks that need to
// redirect a request wholesale.
func (r *Request) SetURL(rawURL string) *Request {
	r.url = rawURL
	return r
}

// Header sets a header field, overwriting any existing value for the
// same name. Key matching is case-insensitive per net/http.Header.
func (r *Request) Header(key, value string) *Request {
	r.headers.Set(key, value)
	return r
}

// Headers sets multiple header fields at once.
func (r *Request) Headers(headers map[string]string) *Request {
	for k, v := range headers {
		r.headers.Set(k, v)
	}
	return r
}

// HeaderValue returns the current value of a header field.
func (r *Request) HeaderValue(key string) string {
	return r.headers.Get(key)
}

// Query sets a URL query parameter, overwriting a previous value for
// the same name rather than appending a duplicate.
func (r *Request) Query(key, value string) *Request {
	if r.query == nil {
		r.query = make(url.Values)
	}
	r.query.Set(key, value)
	return r
}

// Queries sets multiple query parameters at once.
func (r *Request) Queries(params map[string]string) *Request {
	for k, v := range params {
		r.Query(k, v)
	}
	return r
}

// BasicAuth sets an Authorization header with basic credentials.
func (r *Request) BasicAuth(username, password string) *Request {
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	r.headers.Set("Authorization", "Basic "+creds)
	return r
}

// BearerAuth sets an Authorization header with a bearer token.
func (r *Request) BearerAuth(token string) *Request {
	r.headers.Set("Authorization", "Bearer "+token)
	return r
}

// Body assigns the request body. The payload is classified into exactly
// one of three encodings:
//
//   - a non-empty []Blob becomes a multipart/related body with a random
//     boundary, and Content-Type is set accordingly;
//   - string, []byte, io.Reader, url.Values, and Blob pass through
//     unmodified with no header mutation;
//   - anything else is marshaled to JSON, and Content-Type is set to
//     application/json only when the caller has not set one already.
//
// Body never fails; a JSON marshal error is latched on the builder and
// returned by the next terminal call.
func (r *Request) Body(payload any) *Request {
	switch v := payload.(type) {
	case nil:
	case []Blob:
		if len(v) == 0 {
			r.setJSON(v)
			break
		}
		boundary := newBoundary()
		r.body = encodeRelated(v, boundary)
		r.bodyReader = nil
		// Casing of the constructed value must survive as-is; only the
		// header name is canonicalized.
		r.headers.Set("Content-Type", "multipart/related; boundary="+boundary)
	case Blob:
		r.body = v.Data
		r.bodyReader = nil
	case string:
		r.body = []byte(v)
		r.bodyReader = nil
	case []byte:
		r.body = v
		r.bodyReader = nil
	case url.Values:
		r.body = []byte(v.Encode())
		r.bodyReader = nil
	case io.Reader:
		r.bodyReader = v
		r.body = nil
	default:
		r.setJSON(payload)
	}
	return r
}

func (r *Request) setJSON(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.err = err
		return
	}
	r.body = data
	r.bodyReader = nil
	if r.headers.Get("Content-Type") == "" {
		r.headers.Set("Content-Type", "application/json")
	}
}

// Do runs the hook pipeline and performs the HTTP exchange, returning
// the full response. Transport errors propagate unwrapped. Calling Do
// again re-runs hooks against the builder's current state and performs
// a fresh dispatch.
func (r *Request) Do(ctx context.Context) (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}

	for _, hook := range r.client.snapshotHooks() {
		if err := hook(ctx, r); err != nil {
			return nil, err
		}
	}
	// A hook may have assigned a body that failed to encode.
	if r.err != nil {
		return nil, r.err
	}

	if err := r.client.wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	switch {
	case r.bodyReader != nil:
		body = r.bodyReader
	case r.body != nil:
		body = bytes.NewReader(r.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, r.URL(), body)
	if err != nil {
		return nil, err
	}
	for k, values := range r.headers {
		httpReq.Header[k] = values
	}

	start := time.Now()
	httpResp, err := r.client.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(httpResp.Header))
	for k := range httpResp.Header {
		headers[k] = httpResp.Header.Get(k)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    headers,
		Body:       respBody,
		Duration:   duration,
	}, nil
}

// Send dispatches the request and maps the response to a parsed JSON
// value. An optional payload is routed through Body first. A response
// body that is empty or not valid JSON yields nil without error; a
// status outside 200-299 yields a *APIError carrying the status code
// and a best-effort message.
func (r *Request) Send(ctx context.Context, payload ...any) (any, error) {
	if len(payload) > 0 {
		r.Body(payload[0])
	}

	resp, err := r.Do(ctx)
	if err != nil {
		return nil, err
	}

	var data any
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		data = nil
	}

	if resp.IsSuccess() {
		return data, nil
	}

	return nil, &APIError{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(data),
	}
}

// errorMessage extracts a human-readable message from a parsed error
// body: the object's "error" field if it is a string, the parsed value
// itself if it is a string, else a constant. Shape mismatches never
// fail; they fall through to the constant.
func errorMessage(data any) string {
	switch v := data.(type) {
	case map[string]any:
		if msg, ok := v["error"].(string); ok {
			return msg
		}
	case string:
		return v
	}
	return "Unknown error"
}
