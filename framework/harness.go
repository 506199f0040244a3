package framework

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// HarnessOptions are the session-wide settings for a TestHarness.
type HarnessOptions struct {
	// ServiceURL is the base URL of the geocoding service. Relative endpoint paths are
	// resolved against it; a missing trailing slash is added so that a base URL with a path
	// prefix keeps that prefix.
	ServiceURL string

	// UserAgent is sent with every request. The public Nominatim service rejects requests
	// without an identifying User-Agent.
	UserAgent string

	// RequestInterval is the minimum time between two requests to the service. Zero
	// disables pacing.
	RequestInterval time.Duration

	// StatusQueryTimeout is how long to keep retrying the startup status query.
	StatusQueryTimeout time.Duration

	// DebugLogger receives process-level debug output. Nil means no output.
	DebugLogger Logger

	// StartupOutput receives progress messages while connecting to the service. Nil means
	// no output.
	StartupOutput io.Writer

	// HTTPClient overrides the HTTP client. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// ServiceInfo is the status information reported by the service's status resource.
type ServiceInfo struct {
	Status          int    `json:"status"`
	Message         string `json:"message"`
	DataUpdated     string `json:"data_updated"`
	SoftwareVersion string `json:"software_version"`
	DatabaseVersion string `json:"database_version"`
}

// TestHarness is the immutable session state shared by all tests: where the service is and
// how to reach it. It is created once before any test runs.
type TestHarness struct {
	baseURL     *url.URL
	userAgent   string
	httpClient  *http.Client
	pacer       *rate.Limiter
	serviceInfo ServiceInfo
	logger      Logger
}

// NewTestHarness creates a TestHarness and verifies that the service is responding by
// querying its status resource.
func NewTestHarness(opts HarnessOptions) (*TestHarness, error) {
	h, err := newTestHarness(opts)
	if err != nil {
		return nil, err
	}
	output := opts.StartupOutput
	if output == nil {
		output = io.Discard
	}
	info, err := h.queryServiceInfo(opts.StatusQueryTimeout, output)
	if err != nil {
		return nil, err
	}
	h.serviceInfo = info
	return h, nil
}

func newTestHarness(opts HarnessOptions) (*TestHarness, error) {
	baseURL, err := parseBaseURL(opts.ServiceURL)
	if err != nil {
		return nil, err
	}
	h := &TestHarness{
		baseURL:    baseURL,
		userAgent:  opts.UserAgent,
		httpClient: opts.HTTPClient,
		logger:     opts.DebugLogger,
	}
	if h.httpClient == nil {
		h.httpClient = http.DefaultClient
	}
	if h.logger == nil {
		h.logger = NullLogger()
	}
	if opts.RequestInterval > 0 {
		h.pacer = rate.NewLimiter(rate.Every(opts.RequestInterval), 1)
	}
	return h, nil
}

func parseBaseURL(s string) (*url.URL, error) {
	if s == "" {
		return nil, errors.New("service URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid service URL %q: %w", s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid service URL %q: scheme must be http or https", s)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// BaseURL returns a copy of the service base URL.
func (h *TestHarness) BaseURL() *url.URL {
	u := *h.baseURL
	return &u
}

func (h *TestHarness) UserAgent() string { return h.userAgent }

func (h *TestHarness) HTTPClient() *http.Client { return h.httpClient }

// Pacer returns the limiter that spaces out requests, or nil if pacing is disabled. It is
// shared by all tests so that the interval holds across the whole run.
func (h *TestHarness) Pacer() *rate.Limiter { return h.pacer }

// ServiceInfo returns what the service reported at startup.
func (h *TestHarness) ServiceInfo() ServiceInfo { return h.serviceInfo }

func (h *TestHarness) queryServiceInfo(timeout time.Duration, output io.Writer) (ServiceInfo, error) {
	statusURL := h.BaseURL().ResolveReference(&url.URL{Path: "status", RawQuery: "format=json"}).String()
	fmt.Fprintf(output, "Connecting to geocoding service at %s", h.baseURL)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		info, retry, err := h.tryQueryServiceInfo(statusURL)
		if err == nil {
			fmt.Fprintln(output)
			fmt.Fprintf(output, "Service status: %s (software version %q, data updated %s)\n",
				info.Message, info.SoftwareVersion, info.DataUpdated)
			return info, nil
		}
		h.logger.Printf("Status query to %s failed: %s", statusURL, err)
		if !retry || !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return ServiceInfo{}, fmt.Errorf("geocoding service is not available: %w", err)
		}
		time.Sleep(time.Millisecond * 100)
	}
}

func (h *TestHarness) tryQueryServiceInfo(statusURL string) (info ServiceInfo, retry bool, err error) {
	req, err := http.NewRequest(http.MethodGet, statusURL, nil)
	if err != nil {
		return ServiceInfo{}, false, err
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return ServiceInfo{}, true, err
	}
	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return ServiceInfo{}, true, err
	}
	h.logger.Printf("Status query returned HTTP %d: %s", resp.StatusCode, string(data))
	if err := json.Unmarshal(data, &info); err != nil {
		if resp.StatusCode != http.StatusOK {
			return ServiceInfo{}, false, fmt.Errorf("status query returned HTTP %d", resp.StatusCode)
		}
		return ServiceInfo{}, false, fmt.Errorf("malformed status response from service: %s", string(data))
	}
	if resp.StatusCode != http.StatusOK || info.Status != 0 {
		return ServiceInfo{}, false, fmt.Errorf("service reported status %d (%s), HTTP %d",
			info.Status, info.Message, resp.StatusCode)
	}
	return info, false, nil
}
