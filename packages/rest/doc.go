// Package rest provides a fluent HTTP client for JSON REST APIs.
//
// A Client is bound to a base URL and a set of default headers. Its
// method accessors (Get, Post, Put, Patch, Delete) return a chainable
// Request that accumulates headers, query parameters, and a body, then
// resolves to a parsed JSON value or a typed *APIError:
//
//	client := rest.NewClient("https://api.example.com")
//	data, err := client.Post("/widgets").Send(ctx, map[string]any{"name": "w"})
//
// Hooks registered on the client run sequentially before every dispatch
// and may mutate the outgoing request, which is how cross-cutting
// concerns like auth token injection are layered in:
//
//	remove := client.Hook(func(ctx context.Context, r *rest.Request) error {
//		r.Header("Authorization", "Bearer "+token)
//		return nil
//	})
//	defer remove()
//
// Transport concerns (pooling, redirects, TLS, timeouts) belong to the
// injected *http.Client, not to this package.
package rest
