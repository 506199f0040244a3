// Package geocodetests contains the geocoding contract tests themselves and their supporting API.
//
// Test harness infrastructure that is not specific to geocoding, such as the test context,
// filtering and result reporting, is in the lower-level framework package. Sending requests
// is done by the client package, and reusable checks on response bodies are in geoassert.
package geocodetests
