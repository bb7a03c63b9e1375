package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Resolve(t *testing.T) {
	client := NewClient("https://api.example.com")

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "bare path",
			path: "users",
			want: "https://api.example.com/users",
		},
		{
			name: "leading slash",
			path: "/users",
			want: "https://api.example.com/users",
		},
		{
			name: "nested path",
			path: "users/42/posts",
			want: "https://api.example.com/users/42/posts",
		},
		{
			name: "absolute URL passes through",
			path: "https://other.example.com/health",
			want: "https://other.example.com/health",
		},
		{
			name: "protocol-relative URL passes through",
			path: "//cdn.example.com/asset",
			want: "//cdn.example.com/asset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.resolve(tt.path))
		})
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient("https://api.example.com/")
	assert.Equal(t, "https://api.example.com/users", client.resolve("/users"))
}

func TestClient_AcceptHeaderDefault(t *testing.T) {
	client := NewClient("https://api.example.com")
	req := client.Get("/users")
	assert.Equal(t, "application/json", req.HeaderValue("Accept"))
}

func TestClient_DefaultHeadersCopiedPerRequest(t *testing.T) {
	client := NewClient("https://api.example.com",
		WithDefaultHeader("X-Tenant", "acme"),
	)

	first := client.Get("/a").Header("X-Tenant", "other")
	second := client.Get("/b")

	assert.Equal(t, "other", first.HeaderValue("X-Tenant"))
	assert.Equal(t, "acme", second.HeaderValue("X-Tenant"))
	assert.Equal(t, "acme", client.defaultHeaders["X-Tenant"])
}

func TestClient_WithDefaultHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "restflow-test", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL,
		WithDefaultHeaders(map[string]string{"Authorization": "token-1"}),
		WithUserAgent("restflow-test"),
	)

	_, err := client.Get("/check").Send(context.Background())
	require.NoError(t, err)
}

func TestClient_MethodAccessors(t *testing.T) {
	client := NewClient("https://api.example.com")

	tests := []struct {
		want string
		req  *Request
	}{
		{http.MethodGet, client.Get("/r")},
		{http.MethodPost, client.Post("/r")},
		{http.MethodPut, client.Put("/r")},
		{http.MethodPatch, client.Patch("/r")},
		{http.MethodDelete, client.Delete("/r")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.req.Method())
	}
}

func TestClient_WithRateLimit(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRateLimit(1000))

	for i := 0; i < 3; i++ {
		_, err := client.Get("/ping").Send(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, hits)
}
