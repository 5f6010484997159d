package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
)

// NewRequestWithURLParams creates an HTTP request with chi URL parameters.
// This helper simplifies testing chi handlers that use chi.URLParam() to extract path parameters.
//
// Example:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodGet,
//	    "/api/portfolio/123-456/graphs/sector",
//	    map[string]string{"portfolioId": "123-456", "variant": "sector"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	return NewRequestWithBody(method, path, nil, params)
}

// NewRequestWithBody is NewRequestWithURLParams with a request body, for
// testing POST and PUT handlers.
func NewRequestWithBody(method, path string, body io.Reader, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, body)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req
}
