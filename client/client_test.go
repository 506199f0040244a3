package client

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/nominatim-qa/geocode-contract-tests/framework"
	"github.com/nominatim-qa/geocode-contract-tests/servicedef"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func clientForServer(t *testing.T, server *httptest.Server) *Client {
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	return New(Config{BaseURL: baseURL, UserAgent: "test-agent"})
}

func TestSendResolvesPathAndEncodesQuery(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithJSONResponse([]interface{}{}, nil))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := clientForServer(t, server)
		query := servicedef.BuildSearch(servicedef.SearchParams{
			Address: ldvalue.NewOptionalString("Загребский бульвар 9"),
			Limit:   ldvalue.NewOptionalInt(2),
		})
		resp, err := c.Send(RequestSpec{Path: servicedef.Search.Path(), Query: query})
		require.NoError(t, err)

		req := <-requestsCh
		assert.Equal(t, "GET", req.Request.Method)
		assert.Equal(t, "/search", req.Request.URL.Path)
		assert.Equal(t, url.Values{
			"q":      {"Загребский бульвар 9"},
			"limit":  {"2"},
			"format": {"jsonv2"},
		}, req.Request.URL.Query())
		assert.Equal(t, "test-agent", req.Request.Header.Get("User-Agent"))

		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, ldvalue.ArrayType, resp.Body.Type())
		assert.Equal(t, 0, resp.Body.Count())
	})
}

func TestSendKeepsBaseURLPathPrefix(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithJSONResponse(map[string]interface{}{}, nil))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		baseURL, _ := url.Parse(server.URL + "/nominatim/")
		c := New(Config{BaseURL: baseURL})
		_, err := c.Send(RequestSpec{Path: "reverse"})
		require.NoError(t, err)
		assert.Equal(t, "/nominatim/reverse", (<-requestsCh).Request.URL.Path)
	})
}

func TestSendVerbatimURL(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithJSONResponse(map[string]interface{}{}, nil))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := New(Config{}) // no base URL needed
		_, err := c.Send(RequestSpec{Path: server.URL + "/custom/path?x=1", Verbatim: true,
			Query: servicedef.QueryParameters{"y": ldvalue.String("2")}})
		require.NoError(t, err)
		req := <-requestsCh
		assert.Equal(t, "/custom/path", req.Request.URL.Path)
		assert.Equal(t, url.Values{"x": {"1"}, "y": {"2"}}, req.Request.URL.Query())
	})
}

func TestSendRelativePathWithoutBaseURLFails(t *testing.T) {
	_, err := New(Config{}).Send(RequestSpec{Path: "search"})
	assert.Error(t, err)
}

func TestSendWithMethodAndBody(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := clientForServer(t, server)
		resp, err := c.Send(RequestSpec{
			Method:         "POST",
			Path:           "search",
			Body:           []byte(`{"a":1}`),
			ExpectedStatus: 204,
			RawOnly:        true,
		})
		require.NoError(t, err)
		assert.Equal(t, 204, resp.StatusCode)
		assert.True(t, resp.Body.IsNull())

		req := <-requestsCh
		assert.Equal(t, "POST", req.Request.Method)
		assert.Equal(t, `{"a":1}`, string(req.Body))
	})
}

func TestSendStatusMismatch(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(400, nil, []byte(`{"error":{"code":400}}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := clientForServer(t, server)
		_, err := c.Send(RequestSpec{Path: "reverse"})
		require.Error(t, err)

		var sme *StatusMismatchError
		require.True(t, errors.As(err, &sme))
		assert.Equal(t, 200, sme.Expected)
		assert.Equal(t, 400, sme.Actual)
		assert.Contains(t, err.Error(), "200")
		assert.Contains(t, err.Error(), "400")
	})
}

func TestSendExpectedErrorStatusDecodesBody(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(400, nil, []byte(`{"error":{"code":400,"message":"bad"}}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := clientForServer(t, server)
		resp, err := c.Send(RequestSpec{Path: "reverse", ExpectedStatus: 400})
		require.NoError(t, err)
		assert.Equal(t, "bad", resp.Body.GetByKey("error").GetByKey("message").StringValue())
	})
}

func TestSendMalformedJSON(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, nil, []byte(`<html>not json</html>`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := clientForServer(t, server)
		_, err := c.Send(RequestSpec{Path: "search"})
		require.Error(t, err)

		var mre *MalformedResponseError
		require.True(t, errors.As(err, &mre))
		assert.Equal(t, server.URL+"/search", mre.URL)
		assert.Contains(t, err.Error(), server.URL+"/search")

		resp, err := c.Send(RequestSpec{Path: "search", RawOnly: true})
		require.NoError(t, err)
		assert.Equal(t, "<html>not json</html>", string(resp.RawBody))
	})
}

func TestSendTransportError(t *testing.T) {
	var serverURL string
	httphelpers.WithServer(httphelpers.HandlerWithStatus(200), func(server *httptest.Server) {
		serverURL = server.URL
	})
	baseURL, _ := url.Parse(serverURL + "/")
	_, err := New(Config{BaseURL: baseURL}).Send(RequestSpec{Path: "search"})
	require.Error(t, err)

	var sme *StatusMismatchError
	var mre *MalformedResponseError
	assert.False(t, errors.As(err, &sme))
	assert.False(t, errors.As(err, &mre))
}

func TestGetReturnsDecodedBody(t *testing.T) {
	place := map[string]interface{}{"lat": "48.8582599", "lon": "2.2944990", "display_name": "Tour Eiffel"}
	httphelpers.WithServer(httphelpers.HandlerWithJSONResponse(place, nil), func(server *httptest.Server) {
		c := clientForServer(t, server)
		body, err := c.Get(servicedef.Reverse, servicedef.BuildReverse(servicedef.ReverseParams{
			Lat: ldvalue.NewOptionalString("48.8582"),
			Lon: ldvalue.NewOptionalString("2.2944"),
		}))
		require.NoError(t, err)
		assert.Equal(t, "Tour Eiffel", body.GetByKey("display_name").StringValue())
	})
}

func TestSendWritesDebugLog(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithJSONResponse([]interface{}{}, nil), func(server *httptest.Server) {
		var logger framework.CapturingLogger
		baseURL, _ := url.Parse(server.URL + "/")
		c := New(Config{BaseURL: baseURL, Logger: &logger})
		_, err := c.Send(RequestSpec{Path: "search"})
		require.NoError(t, err)

		output := logger.Output()
		require.Len(t, output, 2)
		assert.Equal(t, "Request: GET "+server.URL+"/search", output[0].Message)
		assert.Equal(t, "Response: HTTP 200: []", output[1].Message)
	})
}

func TestSendWaitsForPacer(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithJSONResponse([]interface{}{}, nil), func(server *httptest.Server) {
		baseURL, _ := url.Parse(server.URL + "/")
		interval := 100 * time.Millisecond
		c := New(Config{BaseURL: baseURL, Pacer: rate.NewLimiter(rate.Every(interval), 1)})

		start := time.Now()
		for i := 0; i < 3; i++ {
			_, err := c.Send(RequestSpec{Path: "search"})
			require.NoError(t, err)
		}
		assert.GreaterOrEqual(t, int64(time.Since(start)), int64(interval*2)-int64(10*time.Millisecond))
	})
}

func TestNewForHarness(t *testing.T) {
	status := map[string]interface{}{"status": 0, "message": "OK"}
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithJSONResponse(status, nil))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		h, err := framework.NewTestHarness(framework.HarnessOptions{
			ServiceURL:         server.URL,
			UserAgent:          "harness-agent",
			StatusQueryTimeout: time.Second,
		})
		require.NoError(t, err)
		<-requestsCh // status query

		c := NewForHarness(h, nil)
		_, err = c.Send(RequestSpec{Path: "reverse"})
		require.NoError(t, err)
		req := <-requestsCh
		assert.Equal(t, "/reverse", req.Request.URL.Path)
		assert.Equal(t, "harness-agent", req.Request.Header.Get("User-Agent"))
	})
}

func TestStatusMismatchMessage(t *testing.T) {
	err := &StatusMismatchError{URL: "http://x/search", Expected: 414, Actual: 200}
	assert.Equal(t, "expected 414 status code, but got 200 from http://x/search", err.Error())
}
