package geocodetests

import (
	"net/http"

	"github.com/nominatim-qa/geocode-contract-tests/client"
	"github.com/nominatim-qa/geocode-contract-tests/geoassert"
	"github.com/nominatim-qa/geocode-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoReverseTests(t *T) {
	t.Run("landmarks", func(t *T) {
		for _, l := range landmarks {
			l := l
			t.Run(l.name, func(t *T) {
				// The service moves the point to the nearest addressable place, so the
				// coordinates it returns start with the ones we asked for.
				place := t.Reverse(reverseParams(l.lat, l.lon))
				geoassert.PlaceLatLon(t, place, l.lat, l.lon)
				geoassert.DisplayNameContains(t, place, l.name)
			})
		}
	})

	t.Run("spaces as coordinates", func(t *T) {
		requireBadCoordinates(t, " ", " ")
	})

	t.Run("words as coordinates", func(t *T) {
		requireBadCoordinates(t, "aaa", "bbb")
	})

	t.Run("no address at coordinates", func(t *T) {
		body := t.Reverse(reverseParams(noAddressLat, noAddressLon))
		geoassert.ErrorMessage(t, body, servicedef.UnableToGeocode)
	})

	t.Run("far from nearest address", func(t *T) {
		place := t.Reverse(reverseParams(farPointLat, farPointLon))
		geoassert.PlaceLatLon(t, place, nearestToFarPoint.lat, nearestToFarPoint.lon)
	})
}

func reverseParams(lat, lon string) servicedef.ReverseParams {
	return servicedef.ReverseParams{
		Lat: ldvalue.NewOptionalString(lat),
		Lon: ldvalue.NewOptionalString(lon),
	}
}

func requireBadCoordinates(t *T, lat, lon string) {
	resp := t.RequireSend(client.RequestSpec{
		Path:           servicedef.Reverse.Path(),
		Query:          servicedef.BuildReverse(reverseParams(lat, lon)),
		ExpectedStatus: http.StatusBadRequest,
	})
	geoassert.ErrorPresent(t, resp.Body)
}
