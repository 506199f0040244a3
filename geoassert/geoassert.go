// Package geoassert contains assertions about geocoding service responses.
//
// Every function takes an assert.TestingT, reports a failure through it with the expected
// and actual values, and returns true if the assertion passed. They can be used with
// *framework.Context, *geocodetests.T or *testing.T, and wrapped in require-style helpers by
// calling FailNow when they return false.
package geoassert

import (
	"strings"

	"github.com/nominatim-qa/geocode-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const displayNameKey = "display_name"

// DisplayNameContains asserts that every expected word is a substring of the place's
// display_name. The comparison is case-sensitive and order-independent.
func DisplayNameContains(t assert.TestingT, place ldvalue.Value, expectedWords ...string) bool {
	displayName, ok := place.TryGetByKey(displayNameKey)
	if !ok || !displayName.IsString() {
		return assert.Fail(t, "response has no display_name", "got %s", place.JSONString())
	}
	for _, word := range expectedWords {
		if !strings.Contains(displayName.StringValue(), word) {
			return assert.Fail(t, "wrong display_name",
				"expected %q in display_name, got %q", expectedWords, displayName.StringValue())
		}
	}
	return true
}

// EachDisplayNameContains asserts that response is a non-empty array and that the
// display_name of every element contains word.
func EachDisplayNameContains(t assert.TestingT, response ldvalue.Value, word string) bool {
	if !requireArray(t, response) {
		return false
	}
	if response.Count() == 0 {
		return assert.Fail(t, "expected at least one result, got an empty list")
	}
	ok := true
	for i := 0; i < response.Count(); i++ {
		ok = DisplayNameContains(t, response.GetByIndex(i), word) && ok
	}
	return ok
}

// LatLon asserts that validLat is a substring of lat and validLon is a substring of lon.
//
// The values are compared as strings, not numbers: the service adjusts coordinates to the
// nearest addressable place, so tests give only the leading digits. This also means "1"
// matches "10.5".
func LatLon(t assert.TestingT, validLat, validLon, lat, lon string) bool {
	if strings.Contains(lat, validLat) && strings.Contains(lon, validLon) {
		return true
	}
	return assert.Fail(t, "wrong latitude/longitude",
		"expected (%q, %q) in (%q, %q)", validLat, validLon, lat, lon)
}

// PlaceLatLon is LatLon applied to the lat and lon properties of a place.
func PlaceLatLon(t assert.TestingT, place ldvalue.Value, validLat, validLon string) bool {
	lat, lon, ok := PlaceCoordinates(place)
	if !ok {
		return assert.Fail(t, "response has no lat/lon", "got %s", place.JSONString())
	}
	return LatLon(t, validLat, validLon, lat, lon)
}

// PlaceCoordinates returns the lat and lon properties of a place as strings. The service
// encodes them as JSON strings; numbers are accepted too.
func PlaceCoordinates(place ldvalue.Value) (lat, lon string, ok bool) {
	latValue, okLat := coordinateString(place, "lat")
	lonValue, okLon := coordinateString(place, "lon")
	return latValue, lonValue, okLat && okLon
}

func coordinateString(place ldvalue.Value, key string) (string, bool) {
	v, ok := place.TryGetByKey(key)
	if !ok {
		return "", false
	}
	switch {
	case v.IsString():
		return v.StringValue(), true
	case v.IsNumber():
		return v.JSONString(), true
	default:
		return "", false
	}
}

// EmptyList asserts that response is an empty array.
func EmptyList(t assert.TestingT, response ldvalue.Value) bool {
	if response.Type() == ldvalue.ArrayType && response.Count() == 0 {
		return true
	}
	return assert.Fail(t, "wrong response", "expected empty list, got %s", response.JSONString())
}

// ResultCount asserts that response is an array with exactly n elements.
func ResultCount(t assert.TestingT, response ldvalue.Value, n int) bool {
	if !requireArray(t, response) {
		return false
	}
	if response.Count() != n {
		return assert.Fail(t, "wrong count of results", "expected %d, got %d", n, response.Count())
	}
	return true
}

// ErrorPresent asserts that response is an object with an error property.
func ErrorPresent(t assert.TestingT, response ldvalue.Value) bool {
	if response.Type() == ldvalue.ObjectType {
		if _, ok := response.TryGetByKey(servicedef.ErrorKey); ok {
			return true
		}
	}
	return assert.Fail(t, "unexpected response",
		"expected %q property, got %s", servicedef.ErrorKey, response.JSONString())
}

// ErrorMessage asserts that response has an error property equal to the expected message.
func ErrorMessage(t assert.TestingT, response ldvalue.Value, expected string) bool {
	if !ErrorPresent(t, response) {
		return false
	}
	actual := response.GetByKey(servicedef.ErrorKey)
	if actual.IsString() && actual.StringValue() == expected {
		return true
	}
	return assert.Fail(t, "unexpected error", "expected %q, got %s", expected, actual.JSONString())
}

func requireArray(t assert.TestingT, response ldvalue.Value) bool {
	if response.Type() == ldvalue.ArrayType {
		return true
	}
	return assert.Fail(t, "wrong response", "expected a list of places, got %s", response.JSONString())
}
