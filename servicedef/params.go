package servicedef

import (
	"net/url"
	"strconv"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// QueryParameters is the set of query string parameters for one request. A null value means
// the parameter is absent: it is dropped when the query string is encoded, rather than being
// sent as an empty token.
type QueryParameters map[string]ldvalue.Value

// SearchParams describes a forward search request. Every field is optional.
//
// By default (Structured false) the builder produces a simple free-text query from Address,
// Limit and CountryCodes. With Structured set it produces a structured query from Street,
// City, Country and PostalCode instead; the two shapes are never mixed.
//
// If Precomputed is non-nil it is used as-is and all other fields are ignored.
type SearchParams struct {
	Address      ldvalue.OptionalString
	Structured   bool
	Limit        ldvalue.OptionalInt
	CountryCodes ldvalue.OptionalString
	City         ldvalue.OptionalString
	Country      ldvalue.OptionalString
	Street       ldvalue.OptionalString
	PostalCode   ldvalue.OptionalString
	Precomputed  QueryParameters
}

// ReverseParams describes a reverse lookup request. Lat and Lon are strings, not numbers, so
// that tests can send values the service should reject. If Precomputed is non-nil it is used
// as-is.
type ReverseParams struct {
	Lat         ldvalue.OptionalString
	Lon         ldvalue.OptionalString
	Precomputed QueryParameters
}

// BuildSearch returns the query parameters for a forward search.
func BuildSearch(p SearchParams) QueryParameters {
	if p.Precomputed != nil {
		return p.Precomputed
	}
	if p.Structured {
		return QueryParameters{
			"street":     p.Street.AsValue(),
			"city":       p.City.AsValue(),
			"country":    p.Country.AsValue(),
			"postalcode": p.PostalCode.AsValue(),
			"format":     ldvalue.String(FormatJSONV2),
		}
	}
	return QueryParameters{
		"q":            p.Address.AsValue(),
		"format":       ldvalue.String(FormatJSONV2),
		"limit":        p.Limit.AsValue(),
		"countrycodes": p.CountryCodes.AsValue(),
	}
}

// BuildReverse returns the query parameters for a reverse lookup.
func BuildReverse(p ReverseParams) QueryParameters {
	if p.Precomputed != nil {
		return p.Precomputed
	}
	return QueryParameters{
		"lat":    p.Lat.AsValue(),
		"lon":    p.Lon.AsValue(),
		"format": ldvalue.String(FormatJSONV2),
	}
}

// Values converts the parameters to url.Values, skipping absent ones. Strings are sent
// verbatim, including empty strings; numbers use their shortest decimal form.
func (q QueryParameters) Values() url.Values {
	ret := make(url.Values, len(q))
	for name, v := range q {
		switch v.Type() {
		case ldvalue.NullType:
			continue
		case ldvalue.StringType:
			ret.Set(name, v.StringValue())
		case ldvalue.NumberType:
			if v.IsInt() {
				ret.Set(name, strconv.Itoa(v.IntValue()))
			} else {
				ret.Set(name, strconv.FormatFloat(v.Float64Value(), 'f', -1, 64))
			}
		default:
			ret.Set(name, v.JSONString())
		}
	}
	return ret
}

// Encode returns the URL-encoded query string, with absent parameters dropped.
func (q QueryParameters) Encode() string {
	return q.Values().Encode()
}
