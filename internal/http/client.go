// Package http provides a client for the platform's JSON:API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/DataDog/jsonapi"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	tfe "github.com/hashicorp/go-tfe"
	"github.com/leg100/tfmetrics/internal"
	"github.com/leg100/tfmetrics/internal/logr"
)

const (
	// DefaultURL is the address of HCP Terraform.
	DefaultURL = tfe.DefaultAddress
	// APIBasePath is the path on which the API is served.
	APIBasePath = tfe.DefaultBasePath

	mediaType = "application/vnd.api+json"
)

type (
	Client struct {
		Token string

		baseURL *url.URL
		headers http.Header
		http    *retryablehttp.Client
		logger  logr.Logger
	}

	// ClientConfig provides configuration details to the API client.
	ClientConfig struct {
		// The URL of the API.
		URL string
		// The base path on which the API is served.
		BasePath string
		// API token used to access the API.
		Token string
		// Headers that will be added to every request.
		Headers http.Header
		// Override default http transport
		Transport http.RoundTripper
		// Logger for debugging requests
		Logger logr.Logger
	}
)

func NewClient(config ClientConfig) (*Client, error) {
	// set defaults
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.BasePath == "" {
		config.BasePath = APIBasePath
	}
	if config.Headers == nil {
		config.Headers = make(http.Header)
	}
	if config.Transport == nil {
		config.Transport = NewTransport(false)
	}
	config.Headers.Set("User-Agent", "tfmetrics")

	baseURL, err := ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %v", err)
	}
	baseURL.Path = path.Join(baseURL.Path, config.BasePath)
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	// This value must be provided by the user.
	if config.Token == "" {
		return nil, &internal.ConfigError{Err: internal.ErrMissingToken}
	}

	client := &Client{
		baseURL: baseURL,
		Token:   config.Token,
		headers: config.Headers,
		logger:  config.Logger,
	}
	// Every request is attempted exactly once: a failure is reported to the
	// caller rather than retried.
	client.http = &retryablehttp.Client{
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
		HTTPClient:   &http.Client{Transport: config.Transport},
		RetryMax:     0,
		CheckRetry: func(_ context.Context, _ *http.Response, err error) (bool, error) {
			return false, err
		},
	}
	return client, nil
}

// ParseURL parses a server address, defaulting the scheme to https.
func ParseURL(address string) (*url.URL, error) {
	if !strings.Contains(address, "://") {
		address = "https://" + address
	}
	u, err := url.Parse(address)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host: %s", address)
	}
	return u, nil
}

// Hostname returns the server host:port.
func (c *Client) Hostname() string {
	return c.baseURL.Host
}

// NewRequest creates an API request with proper headers.
//
// A relative URL path can be provided, in which case it is resolved relative
// to the baseURL of the Client. Relative URL paths should always be specified
// without a preceding slash. An absolute URL, such as a pagination link, is
// used as is.
func (c *Client) NewRequest(method, path string) (*retryablehttp.Request, error) {
	u, err := c.baseURL.Parse(path)
	if err != nil {
		return nil, err
	}

	// Create a request specific headers map.
	reqHeaders := make(http.Header)
	reqHeaders.Set("Authorization", "Bearer "+c.Token)
	reqHeaders.Set("Accept", mediaType)
	reqHeaders.Set("Content-Type", mediaType)

	req, err := retryablehttp.NewRequest(method, u.String(), nil)
	if err != nil {
		return nil, err
	}

	// Set the default headers.
	maps.Copy(req.Header, c.headers)

	// Set the request specific headers.
	maps.Copy(req.Header, reqHeaders)

	return req, nil
}

// Do sends an API request and JSON decodes the response body into v.
//
// Transport failures and non-successful responses are returned as an
// *internal.HTTPError identifying the URL. A body that cannot be decoded
// into v is returned as an *internal.DataShapeError.
//
// The provided ctx must be non-nil. If it is canceled or times out, ctx.Err()
// will be returned.
func (c *Client) Do(ctx context.Context, req *retryablehttp.Request, v any) error {
	// Add the context to the request.
	req = req.WithContext(ctx)
	reqURL := req.URL.String()

	c.logger.V(2).Info("sending request", "method", req.Method, "url", reqURL)

	// Execute the request and check the response.
	resp, err := c.http.Do(req)
	if err != nil {
		// If we got an error, and the context has been canceled,
		// the context's error is probably more useful.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return internal.NewTransportError(reqURL, err)
		}
	}
	defer resp.Body.Close()

	// Basic response checking.
	if err := checkResponseCode(reqURL, resp); err != nil {
		return err
	}

	// Return here if decoding the response isn't needed.
	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &internal.DataShapeError{Source: reqURL, Message: "empty response body"}
		}
		return &internal.DataShapeError{Source: reqURL, Message: err.Error()}
	}
	return nil
}

// checkResponseCode can be used to check the status code of an HTTP request.
func checkResponseCode(reqURL string, r *http.Response) error {
	if r.StatusCode >= 200 && r.StatusCode <= 299 {
		return nil
	}
	msg := r.Status
	if err := tryUnmarshalJSONAPIError(r.Body); err != nil {
		msg = err.Error()
	}
	return internal.NewHTTPError(reqURL, r.StatusCode, msg)
}

// tryUnmarshalJSONAPIError tries to unmarshal from the reader an error in
// JSON:API format. If it fails then it returns nil.
func tryUnmarshalJSONAPIError(r io.Reader) error {
	// Decode the error payload.
	var payload struct {
		Errors []*jsonapi.Error `json:"errors"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil
	}
	if len(payload.Errors) == 0 {
		return nil
	}
	// Parse and format the errors.
	var errs []string
	for _, e := range payload.Errors {
		if e.Detail == "" {
			errs = append(errs, e.Title)
		} else {
			errs = append(errs, fmt.Sprintf("%s: %s", e.Title, e.Detail))
		}
	}
	return errors.New(strings.Join(errs, "\n"))
}
