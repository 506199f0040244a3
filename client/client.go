package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/nominatim-qa/geocode-contract-tests/framework"
	"github.com/nominatim-qa/geocode-contract-tests/servicedef"

	"golang.org/x/time/rate"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// maxLoggedBody is how much of a response body goes into the debug log.
const maxLoggedBody = 2000

// Config holds everything a Client needs. Only BaseURL is required.
type Config struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	UserAgent  string
	Pacer      *rate.Limiter
	Logger     framework.Logger
}

// Client sends requests to the geocoding service and checks the responses. It keeps no state
// between calls.
type Client struct {
	config Config
}

// RequestSpec describes one request. The zero value of each optional field gives the usual
// behavior: GET, expect HTTP 200, decode the body as JSON, and resolve Path against the base
// URL.
type RequestSpec struct {
	Method string
	Path   string
	Query  servicedef.QueryParameters
	Body   []byte

	// ExpectedStatus is the status code the response must have. Zero means 200.
	ExpectedStatus int

	// RawOnly skips JSON decoding of the response body.
	RawOnly bool

	// Verbatim means Path is a complete URL and is not resolved against the base URL.
	Verbatim bool
}

// Response is the result of a successful Send.
type Response struct {
	StatusCode int
	URL        string
	RawBody    []byte

	// Body is the decoded JSON body. It is ldvalue.Null() if RawOnly was set.
	Body ldvalue.Value
}

// New creates a Client.
func New(config Config) *Client {
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = framework.NullLogger()
	}
	return &Client{config: config}
}

// NewForHarness creates a Client that uses the session settings of the harness and writes
// debug output to logger.
func NewForHarness(h *framework.TestHarness, logger framework.Logger) *Client {
	return New(Config{
		BaseURL:    h.BaseURL(),
		HTTPClient: h.HTTPClient(),
		UserAgent:  h.UserAgent(),
		Pacer:      h.Pacer(),
		Logger:     logger,
	})
}

// Get sends a GET request for one of the service endpoints, expecting HTTP 200 and a JSON
// body.
func (c *Client) Get(endpoint servicedef.Endpoint, query servicedef.QueryParameters) (ldvalue.Value, error) {
	resp, err := c.Send(RequestSpec{Path: endpoint.Path(), Query: query})
	if err != nil {
		return ldvalue.Null(), err
	}
	return resp.Body, nil
}

// Send performs one request as described by spec.
//
// It returns a *StatusMismatchError if the status code is not the expected one, and a
// *MalformedResponseError if the body should have been JSON but was not. Any other error
// means the request could not be made at all.
func (c *Client) Send(spec RequestSpec) (*Response, error) {
	target, err := c.resolveURL(spec)
	if err != nil {
		return nil, err
	}
	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}
	expectedStatus := spec.ExpectedStatus
	if expectedStatus == 0 {
		expectedStatus = http.StatusOK
	}

	var body io.Reader
	if spec.Body != nil {
		body = bytes.NewReader(spec.Body)
	}
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return nil, fmt.Errorf("invalid request to %s: %w", target, err)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	if c.config.Pacer != nil {
		if err := c.config.Pacer.Wait(context.Background()); err != nil {
			return nil, err
		}
	}
	c.config.Logger.Printf("Request: %s %s", method, target)
	httpResp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		c.config.Logger.Printf("Request failed: %s", err)
		return nil, fmt.Errorf("request to %s failed: %w", target, err)
	}
	data, err := io.ReadAll(httpResp.Body)
	_ = httpResp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %w", target, err)
	}
	c.config.Logger.Printf("Response: HTTP %d: %s", httpResp.StatusCode, truncate(data))

	if httpResp.StatusCode != expectedStatus {
		return nil, &StatusMismatchError{URL: target, Expected: expectedStatus, Actual: httpResp.StatusCode}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		URL:        target,
		RawBody:    data,
		Body:       ldvalue.Null(),
	}
	if !spec.RawOnly {
		if err := json.Unmarshal(data, &resp.Body); err != nil {
			return nil, &MalformedResponseError{URL: target, Err: err}
		}
	}
	return resp, nil
}

func (c *Client) resolveURL(spec RequestSpec) (string, error) {
	var u *url.URL
	if spec.Verbatim {
		parsed, err := url.Parse(spec.Path)
		if err != nil {
			return "", fmt.Errorf("invalid URL %q: %w", spec.Path, err)
		}
		u = parsed
	} else {
		if c.config.BaseURL == nil {
			return "", fmt.Errorf("no base URL configured for relative path %q", spec.Path)
		}
		ref, err := url.Parse(spec.Path)
		if err != nil {
			return "", fmt.Errorf("invalid path %q: %w", spec.Path, err)
		}
		u = c.config.BaseURL.ResolveReference(ref)
	}
	if len(spec.Query) != 0 {
		values := u.Query()
		for name, vv := range spec.Query.Values() {
			for _, v := range vv {
				values.Add(name, v)
			}
		}
		u.RawQuery = values.Encode()
	}
	return u.String(), nil
}

func truncate(data []byte) string {
	if len(data) <= maxLoggedBody {
		return string(data)
	}
	return string(data[:maxLoggedBody]) + fmt.Sprintf("... (%d bytes)", len(data))
}
