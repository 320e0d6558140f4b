package http

import (
	"crypto/tls"
	"net/http"
)

// NewTransport returns the transport for API requests. If insecure is true
// then certificates presented by the API are not verified, for installations
// using self-signed certificates.
func NewTransport(insecure bool) http.RoundTripper {
	if !insecure {
		return http.DefaultTransport
	}
	clone := http.DefaultTransport.(*http.Transport).Clone()
	clone.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: true,
	}
	return clone
}
