package fakeservice

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"gopkg.in/yaml.v3"
)

//go:embed gazetteer.yaml
var defaultGazetteerData []byte

// Place is one entry in the gazetteer.
type Place struct {
	PlaceID     int      `yaml:"place_id"`
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name"`
	Lat         string   `yaml:"lat"`
	Lon         string   `yaml:"lon"`
	CountryCode string   `yaml:"country_code"`
	Postcode    string   `yaml:"postcode"`
	Category    string   `yaml:"category"`
	Type        string   `yaml:"type"`
	Aliases     []string `yaml:"aliases"`

	point      orb.Point
	searchText string
}

// Point returns the location of the place.
func (p Place) Point() orb.Point { return p.point }

// StructuredQuery holds the address components of a structured search. Empty fields are not
// used for matching.
type StructuredQuery struct {
	Street     string
	City       string
	Country    string
	PostalCode string
}

// IsEmpty returns true if no field is set.
func (q StructuredQuery) IsEmpty() bool {
	return q == StructuredQuery{}
}

// Gazetteer is an in-memory list of places. It is immutable once loaded.
type Gazetteer struct {
	places []Place
}

type gazetteerFile struct {
	Places []Place `yaml:"places"`
}

// LoadDefaultGazetteer returns the built-in gazetteer, which contains every place the
// geocoding contract tests look for.
func LoadDefaultGazetteer() (*Gazetteer, error) {
	return ParseGazetteer(defaultGazetteerData)
}

// ParseGazetteer reads a gazetteer from YAML.
func ParseGazetteer(data []byte) (*Gazetteer, error) {
	var file gazetteerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid gazetteer: %w", err)
	}
	g := &Gazetteer{}
	for i, p := range file.Places {
		if p.DisplayName == "" {
			return nil, fmt.Errorf("invalid gazetteer: place %d has no display_name", i)
		}
		lat, err := parseCoordinate(p.Lat, 90)
		if err != nil {
			return nil, fmt.Errorf("invalid gazetteer: place %q: lat: %w", p.DisplayName, err)
		}
		lon, err := parseCoordinate(p.Lon, 180)
		if err != nil {
			return nil, fmt.Errorf("invalid gazetteer: place %q: lon: %w", p.DisplayName, err)
		}
		p.point = orb.Point{lon, lat}
		p.CountryCode = strings.ToLower(p.CountryCode)
		p.searchText = strings.ToLower(strings.Join(append([]string{p.DisplayName}, p.Aliases...), " | "))
		g.places = append(g.places, p)
	}
	return g, nil
}

// Len returns the number of places.
func (g *Gazetteer) Len() int { return len(g.places) }

// Search returns the places whose display name or aliases contain every word of query,
// ignoring case, in gazetteer order. Words are separated by spaces or commas. A query with no
// words matches nothing.
func (g *Gazetteer) Search(query string, countryCodes []string, limit int) []Place {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(words) == 0 {
		return nil
	}
	return g.filter(countryCodes, limit, func(p Place) bool {
		for _, w := range words {
			if !strings.Contains(p.searchText, w) {
				return false
			}
		}
		return true
	})
}

// SearchStructured returns the places whose display name contains each of the street, city
// and country fields, ignoring case, and whose postcode equals the postal code field. An
// empty query matches nothing.
func (g *Gazetteer) SearchStructured(query StructuredQuery, countryCodes []string, limit int) []Place {
	if query.IsEmpty() {
		return nil
	}
	components := []string{query.Street, query.City, query.Country}
	return g.filter(countryCodes, limit, func(p Place) bool {
		displayName := strings.ToLower(p.DisplayName)
		for _, c := range components {
			if c != "" && !strings.Contains(displayName, strings.ToLower(strings.TrimSpace(c))) {
				return false
			}
		}
		return query.PostalCode == "" || strings.EqualFold(p.Postcode, strings.TrimSpace(query.PostalCode))
	})
}

// Nearest returns the place closest to point, if there is one within maxDistance meters.
func (g *Gazetteer) Nearest(point orb.Point, maxDistance float64) (Place, bool) {
	var found Place
	best := -1.0
	for _, p := range g.places {
		d := geo.Distance(point, p.point)
		if d <= maxDistance && (best < 0 || d < best) {
			found, best = p, d
		}
	}
	return found, best >= 0
}

func (g *Gazetteer) filter(countryCodes []string, limit int, match func(Place) bool) []Place {
	var result []Place
	for _, p := range g.places {
		if len(result) >= limit {
			break
		}
		if !inCountries(p, countryCodes) || !match(p) {
			continue
		}
		result = append(result, p)
	}
	return result
}

func inCountries(p Place, countryCodes []string) bool {
	if len(countryCodes) == 0 {
		return true
	}
	for _, c := range countryCodes {
		if c == p.CountryCode {
			return true
		}
	}
	return false
}

func parseCoordinate(s string, max float64) (float64, error) {
	if s == "" {
		return 0, errors.New("missing")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < -max || f > max {
		return 0, fmt.Errorf("%s is out of range", s)
	}
	return f, nil
}
