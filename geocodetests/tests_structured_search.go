package geocodetests

import (
	"github.com/nominatim-qa/geocode-contract-tests/geoassert"
	"github.com/nominatim-qa/geocode-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoStructuredSearchTests(t *T) {
	t.Run("city, country and street", func(t *T) {
		a := structuredAddress
		results := t.Search(servicedef.SearchParams{
			Structured: true,
			City:       ldvalue.NewOptionalString(a.city),
			Country:    ldvalue.NewOptionalString(a.country),
			Street:     ldvalue.NewOptionalString(a.street),
		})
		geoassert.DisplayNameContains(t, t.RequireFirstResult(results), a.city, a.country, a.street)
	})

	t.Run("no fields", func(t *T) {
		results := t.Search(servicedef.SearchParams{Structured: true})
		geoassert.EmptyList(t, results)
	})

	t.Run("word as postal code", func(t *T) {
		results := t.Search(servicedef.SearchParams{
			Structured: true,
			City:       ldvalue.NewOptionalString(structuredAddress.city),
			PostalCode: ldvalue.NewOptionalString(alphabeticPostalCode),
		})
		geoassert.EmptyList(t, results)
	})
}
