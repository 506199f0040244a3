package geocodetests

import "strings"

// expectedPlace is a query together with the leading digits of the coordinates the service
// should answer with. Coordinates are compared as substrings, see geoassert.LatLon.
type expectedPlace struct {
	query string
	lat   string
	lon   string
}

// landmark is a point on the map together with the name the service should find there.
type landmark struct {
	lat  string
	lon  string
	name string
}

// Well-known places whose location and name are unlikely to change. Only the first result of
// a search is checked, since it is the best match for the name.
var placesByName = []expectedPlace{
	{query: "Московский Кремль", lat: "55.75", lon: "37.61"},
	{query: "France Eiffel Tower", lat: "48.85", lon: "2.29"},
	{query: "England Big Ben", lat: "51.5", lon: "-0.12"},
	{query: "Пирамида Хеопса", lat: "29.97", lon: "31.13"},
}

// Searching by address returns every shop and office at that address, so the first result can
// change over time. The expected coordinates are given with fewer digits.
var placesByAddress = []expectedPlace{
	{query: "Санкт-Петербург, Проспект Большевиков 22к1", lat: "59", lon: "30.4"},
	{query: "Санкт-Петербург, Загребский бульвар 9", lat: "59.8", lon: "30"},
	{query: "Tokio Cat Street 6", lat: "35", lon: "139"},
	{query: "New York Amanda Way 5", lat: "40.8", lon: "-72.7"},
}

var mixedLanguageAddress = expectedPlace{
	query: "Saint-Petersburg, Загребский бульвар 9",
	lat:   "59.8",
	lon:   "30",
}

var landmarks = []landmark{
	{lat: "55.7514", lon: "37.6181", name: "Московский Кремль"},
	{lat: "48.8582", lon: "2.2944", name: "Tour Eiffel"},
	{lat: "51.5007", lon: "-0.1246", name: "Big Ben"},
	{lat: "48.861", lon: "2.338", name: "Louvre"},
}

const (
	nonExistentAddress = "Qwzxv Nonexistent Street 987654321"

	// addressWithManyResults matches more than limitForLimitTest places, all but a few of
	// them in Germany.
	addressWithManyResults = "Berliner Straße"
	limitForLimitTest      = 3
	germanyCountryCode     = "de"
	germanyDisplayName     = "Deutschland"

	// A point in the middle of the Atlantic where there is nothing to geocode.
	noAddressLat = "0"
	noAddressLon = "-30"

	// A point in the Arabian Sea, several kilometers away from the nearest addressed place.
	farPointLat = "10.85"
	farPointLon = "72.8"
)

// The place the service moves farPointLat/farPointLon to.
var nearestToFarPoint = expectedPlace{lat: "10.883", lon: "72.817"}

var structuredAddress = struct {
	city    string
	country string
	street  string
}{
	city:    "Санкт-Петербург",
	country: "Россия",
	street:  "Загребский бульвар",
}

const alphabeticPostalCode = "aaa"

// tooBigAddress makes the request URI longer than any web server accepts.
var tooBigAddress = strings.Repeat("Загребский бульвар ", 2000)
