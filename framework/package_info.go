// Package framework contains the low-level test harness infrastructure that is not specific
// to geocoding.
//
// The general model is:
//
// 1. A TestHarness is created once per run. It holds the immutable session configuration
// (the service base URL and the HTTP client used to reach it) and verifies at startup that
// the service is responding.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Tests can be selected with regex filters and each test has its
// own captured debug output.
//
// The domain-specific code that knows what is being tested provides the requests to send and
// the assertions to make, on top of the test context.
package framework
