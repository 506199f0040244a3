package geocodetests

import (
	"github.com/nominatim-qa/geocode-contract-tests/client"
	"github.com/nominatim-qa/geocode-contract-tests/framework"
	"github.com/nominatim-qa/geocode-contract-tests/servicedef"

	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// T represents a test or subtest in our geocoding test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is outside
// of the Go test runner, and with some extra features such as debug logging that are convenient for
// our use case. Those features are provided by our lower-level framework package.
//
// Every T has its own client for the geocoding service, which writes each request and response to
// the test's debug output. The request methods on T have assertions built in: if the service does
// not answer with the expected status and a JSON body, the test fails and exits immediately.
//
// To make test assertions, you can use the assert, require and geoassert packages, passing the *T as
// if it were a *testing.T.
type T struct {
	context *framework.Context
	client  *client.Client
}

func newTestScope(context *framework.Context) *T {
	return &T{
		context: context,
		client:  client.NewForHarness(context.Harness(), context.DebugLogger()),
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
//
// The specified function receives a new T instance, with its own client.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Search sends a forward search request and returns the decoded body. The test fails and exits
// if the status is not 200 or the body is not JSON.
func (t *T) Search(params servicedef.SearchParams) ldvalue.Value {
	return t.RequireGet(servicedef.Search, servicedef.BuildSearch(params))
}

// Reverse sends a reverse geocoding request and returns the decoded body. The test fails and
// exits if the status is not 200 or the body is not JSON.
func (t *T) Reverse(params servicedef.ReverseParams) ldvalue.Value {
	return t.RequireGet(servicedef.Reverse, servicedef.BuildReverse(params))
}

// RequireGet sends a GET request to an endpoint, expecting HTTP 200 and a JSON body.
func (t *T) RequireGet(endpoint servicedef.Endpoint, query servicedef.QueryParameters) ldvalue.Value {
	body, err := t.client.Get(endpoint, query)
	require.NoError(t, err)
	return body
}

// RequireSend sends a request with full control over the expected status and decoding.
func (t *T) RequireSend(spec client.RequestSpec) *client.Response {
	resp, err := t.client.Send(spec)
	require.NoError(t, err)
	return resp
}

// RequireFirstResult returns the first place in a list of search results. The test fails and
// exits if the list is empty.
func (t *T) RequireFirstResult(results ldvalue.Value) ldvalue.Value {
	require.Equal(t, ldvalue.ArrayType, results.Type(), "expected a list of places, got %s", results.JSONString())
	require.NotEqual(t, 0, results.Count(), "expected at least one result, got an empty list")
	return results.GetByIndex(0)
}
