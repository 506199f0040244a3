// Package fakeservice is an in-memory stand-in for a Nominatim-compatible geocoding service.
//
// It answers the search, reverse and status resources from a small gazetteer, closely enough
// to the real service that the whole contract test suite passes against it. It is used by the
// tests of this repository and by the fake-geocoder command.
package fakeservice

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/nominatim-qa/geocode-contract-tests/servicedef"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
)

const (
	// SoftwareVersion is reported by the status resource.
	SoftwareVersion = "fake-geocoder 1.0"

	// MaxRequestURI is the longest request URI the service accepts.
	MaxRequestURI = 8192

	// ReverseSearchRadius is how far, in meters, a reverse lookup looks for a place.
	ReverseSearchRadius = 50000

	defaultLimit = 10
	maxLimit     = 40

	licence = "Data © OpenStreetMap contributors, ODbL 1.0. https://osm.org/copyright"
)

var structuredFields = []string{"street", "city", "country", "postalcode"}

type service struct {
	gazetteer *Gazetteer
}

// NewHandler returns the HTTP handler of the fake service. If requestLog is not nil, one line
// per request is written to it.
func NewHandler(gazetteer *Gazetteer, requestLog io.Writer) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	if requestLog != nil {
		router.Use(gin.LoggerWithWriter(requestLog))
	}
	router.Use(limitRequestURI(MaxRequestURI))

	s := &service{gazetteer: gazetteer}
	router.GET("/search", s.handleSearch)
	router.GET("/reverse", s.handleReverse)
	router.GET("/status", s.handleStatus)
	return router
}

func limitRequestURI(max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(c.Request.RequestURI) > max {
			c.AbortWithStatus(http.StatusRequestURITooLong)
			return
		}
		c.Next()
	}
}

func (s *service) handleSearch(c *gin.Context) {
	if !checkFormat(c) {
		return
	}
	limit := defaultLimit
	if value := c.Query("limit"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			badRequest(c, "Integer number expected for parameter 'limit'")
			return
		}
		limit = clamp(n, 1, maxLimit)
	}
	countryCodes := parseCountryCodes(c.Query("countrycodes"))

	query := StructuredQuery{
		Street:     c.Query("street"),
		City:       c.Query("city"),
		Country:    c.Query("country"),
		PostalCode: c.Query("postalcode"),
	}
	var places []Place
	if q, ok := c.GetQuery("q"); ok {
		if !query.IsEmpty() {
			badRequest(c, fmt.Sprintf("Structured query parameters (%s) cannot be used together with 'q' parameter.",
				strings.Join(structuredFields, ", ")))
			return
		}
		places = s.gazetteer.Search(q, countryCodes, limit)
	} else {
		places = s.gazetteer.SearchStructured(query, countryCodes, limit)
	}

	results := make([]gin.H, 0, len(places))
	for _, p := range places {
		results = append(results, placeJSON(p))
	}
	c.JSON(http.StatusOK, results)
}

func (s *service) handleReverse(c *gin.Context) {
	if !checkFormat(c) {
		return
	}
	lat, ok := coordinateParam(c, "lat", 90)
	if !ok {
		return
	}
	lon, ok := coordinateParam(c, "lon", 180)
	if !ok {
		return
	}
	place, found := s.gazetteer.Nearest(orb.Point{lon, lat}, ReverseSearchRadius)
	if !found {
		c.JSON(http.StatusOK, gin.H{servicedef.ErrorKey: servicedef.UnableToGeocode})
		return
	}
	c.JSON(http.StatusOK, placeJSON(place))
}

func (s *service) handleStatus(c *gin.Context) {
	if c.Query("format") != "json" {
		c.String(http.StatusOK, "OK")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":           0,
		"message":          "OK",
		"software_version": SoftwareVersion,
	})
}

func checkFormat(c *gin.Context) bool {
	switch c.DefaultQuery("format", "jsonv2") {
	case "json", "jsonv2":
		return true
	default:
		badRequest(c, "Parameter 'format' must be one of: json, jsonv2")
		return false
	}
}

func coordinateParam(c *gin.Context, name string, max float64) (float64, bool) {
	value := strings.TrimSpace(c.Query(name))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) {
		badRequest(c, fmt.Sprintf("Floating-point number expected for parameter '%s'", name))
		return 0, false
	}
	if f < -max || f > max {
		badRequest(c, fmt.Sprintf("Parameter '%s' must be between %g and %g", name, -max, max))
		return 0, false
	}
	return f, true
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		servicedef.ErrorKey: gin.H{"code": http.StatusBadRequest, "message": message},
	})
}

func placeJSON(p Place) gin.H {
	return gin.H{
		"place_id":     p.PlaceID,
		"licence":      licence,
		"lat":          p.Lat,
		"lon":          p.Lon,
		"category":     p.Category,
		"type":         p.Type,
		"name":         p.Name,
		"display_name": p.DisplayName,
	}
}

func parseCountryCodes(s string) []string {
	var codes []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

func clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
