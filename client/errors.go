package client

import "fmt"

// StatusMismatchError means the service answered with a different HTTP status than the test
// expected.
type StatusMismatchError struct {
	URL      string
	Expected int
	Actual   int
}

func (e *StatusMismatchError) Error() string {
	return fmt.Sprintf("expected %d status code, but got %d from %s", e.Expected, e.Actual, e.URL)
}

// MalformedResponseError means the response body could not be parsed as JSON.
type MalformedResponseError struct {
	URL string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("expected JSON response from request to %s: %s", e.URL, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
