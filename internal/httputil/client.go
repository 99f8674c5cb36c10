// Package httputil holds the shared defaults for outbound API calls.
package httputil

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds one upstream call. The KMA service answers within a
// few seconds when healthy; anything slower is better retried than waited on.
const DefaultTimeout = 10 * time.Second

const userAgent = "windstep/1.0"

// NewClient returns an HTTP client with the standard timeout and User-Agent.
func NewClient() *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &uaTransport{base: http.DefaultTransport},
	}
}

type uaTransport struct {
	base http.RoundTripper
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Per RoundTripper contract the request is not mutated in place.
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", userAgent)
	return t.base.RoundTrip(r)
}
