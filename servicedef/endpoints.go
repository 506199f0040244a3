package servicedef

// Endpoint identifies one of the geocoding service resources that the test suite talks to.
type Endpoint int

const (
	// Search is the forward geocoding resource: address or place name to coordinates.
	Search Endpoint = iota
	// Reverse is the reverse geocoding resource: coordinates to address.
	Reverse
	// Status is the service health resource, queried once when the harness starts.
	Status
)

// Path returns the endpoint's path relative to the service base URL.
func (e Endpoint) Path() string {
	switch e {
	case Search:
		return "search"
	case Reverse:
		return "reverse"
	case Status:
		return "status"
	default:
		return ""
	}
}

func (e Endpoint) String() string { return e.Path() }

const (
	// FormatJSONV2 is the output format requested for every search and reverse query.
	FormatJSONV2 = "jsonv2"

	// ErrorKey is the property that the service uses for error messages in response bodies.
	ErrorKey = "error"

	// UnableToGeocode is the error message returned, with a 200 status, by a reverse lookup
	// for coordinates that have no addressable place nearby.
	UnableToGeocode = "Unable to geocode"
)
