package geocodetests

import (
	"net/http"

	"github.com/nominatim-qa/geocode-contract-tests/client"
	"github.com/nominatim-qa/geocode-contract-tests/geoassert"
	"github.com/nominatim-qa/geocode-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoSearchTests(t *T) {
	t.Run("by name", func(t *T) {
		for _, p := range placesByName {
			p := p
			t.Run(p.query, func(t *T) { requireFirstResultNear(t, p) })
		}
	})

	t.Run("by address", func(t *T) {
		for _, p := range placesByAddress {
			p := p
			t.Run(p.query, func(t *T) { requireFirstResultNear(t, p) })
		}
	})

	t.Run("address in two languages", func(t *T) {
		requireFirstResultNear(t, mixedLanguageAddress)
	})

	t.Run("non-existent address", func(t *T) {
		results := t.Search(servicedef.SearchParams{Address: ldvalue.NewOptionalString(nonExistentAddress)})
		geoassert.EmptyList(t, results)
	})

	t.Run("empty address", func(t *T) {
		results := t.Search(servicedef.SearchParams{Address: ldvalue.NewOptionalString("")})
		geoassert.EmptyList(t, results)
	})

	t.Run("space as address", func(t *T) {
		results := t.Search(servicedef.SearchParams{Address: ldvalue.NewOptionalString(" ")})
		geoassert.EmptyList(t, results)
	})

	t.Run("limit", func(t *T) {
		results := t.Search(servicedef.SearchParams{
			Address: ldvalue.NewOptionalString(addressWithManyResults),
			Limit:   ldvalue.NewOptionalInt(limitForLimitTest),
		})
		geoassert.ResultCount(t, results, limitForLimitTest)
	})

	t.Run("country codes", func(t *T) {
		results := t.Search(servicedef.SearchParams{
			Address:      ldvalue.NewOptionalString(addressWithManyResults),
			CountryCodes: ldvalue.NewOptionalString(germanyCountryCode),
		})
		geoassert.EachDisplayNameContains(t, results, germanyDisplayName)
	})

	t.Run("address too long", func(t *T) {
		resp := t.RequireSend(client.RequestSpec{
			Path:           servicedef.Search.Path(),
			Query:          servicedef.BuildSearch(servicedef.SearchParams{Address: ldvalue.NewOptionalString(tooBigAddress)}),
			ExpectedStatus: http.StatusRequestURITooLong,
			RawOnly:        true,
		})
		t.Debug("Got %d bytes of response body", len(resp.RawBody))
	})
}

func requireFirstResultNear(t *T, p expectedPlace) {
	results := t.Search(servicedef.SearchParams{Address: ldvalue.NewOptionalString(p.query)})
	geoassert.PlaceLatLon(t, t.RequireFirstResult(results), p.lat, p.lon)
}
