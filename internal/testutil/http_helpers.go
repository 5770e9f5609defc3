package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/rs/zerolog"
)

// NewRequestWithQueryParams creates an HTTP request with query parameters.
// The request context carries a no-op zerolog logger, as the request logger
// middleware would.
//
// Example:
//
//	req := testutil.NewRequestWithQueryParams(
//	    http.MethodGet,
//	    "/api/portfolio/transactions",
//	    map[string]string{
//	        "owner": "민호",
//	        "year":  "2024",
//	    },
//	)
func NewRequestWithQueryParams(method, path string, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(queryParams) > 0 {
		q := req.URL.Query()
		for key, value := range queryParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return withNopLogger(req)
}

// NewCSVRequest creates a request whose body is a CSV ledger.
func NewCSVRequest(method, path, csv string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	return withNopLogger(req)
}

func withNopLogger(req *http.Request) *http.Request {
	nop := zerolog.Nop()
	return req.WithContext(nop.WithContext(req.Context()))
}

