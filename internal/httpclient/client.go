package httpclient

import (
	"net/http"
	"time"
)

// HTTPDoer abstracts HTTP clients used by services so tests can substitute transports
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewDefaultHTTPClient creates a simple HTTP client with a timeout.
// A zero timeout means no client-level timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// NewAPIClient creates a client for long-running API calls. Dial and TLS
// handshakes stay short so unreachable hosts fail fast while the overall
// request may run up to timeout.
func NewAPIClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSHandshakeTimeout = 30 * time.Second
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
