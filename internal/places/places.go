// Package places ranks check-in targets by distance and groups them for
// display.
package places

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/golang/geo/s2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"checkinq/internal/checkin"
)

// DefaultSuggestionCount is how many nearby places GroupedSuggestions lists.
const DefaultSuggestionCount = 3

// Group names used by GroupedSuggestions.
const (
	GroupNearest   = "Nearest"
	GroupUtilities = "Utilities"
	GroupOthers    = "Others"
)

const earthRadiusMeters = 6371008.8

// Group is a named list of suggested places.
type Group struct {
	Name   string
	Places []checkin.Place
}

// Catalog splits places into geo places, which have a location, and utility
// places, which do not.
type Catalog struct {
	geo     []checkin.Place
	utility []checkin.Place
	byID    map[int64]checkin.Place
}

// NewCatalog builds a catalog preserving the input order within each partition.
func NewCatalog(places []checkin.Place) *Catalog {
	c := &Catalog{byID: make(map[int64]checkin.Place, len(places))}
	for _, p := range places {
		if p.Location != nil {
			c.geo = append(c.geo, p)
		} else {
			c.utility = append(c.utility, p)
		}
		c.byID[p.ID] = p
	}
	return c
}

// LoadCatalog reads a JSON array of places from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read place catalog: %w", err)
	}
	var list []checkin.Place
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse place catalog %s: %w", path, err)
	}
	return NewCatalog(list), nil
}

// GeoPlaces returns places that have a location.
func (c *Catalog) GeoPlaces() []checkin.Place { return slices.Clone(c.geo) }

// UtilityPlaces returns places without a location.
func (c *Catalog) UtilityPlaces() []checkin.Place { return slices.Clone(c.utility) }

// Find looks a place up by id.
func (c *Catalog) Find(id int64) (checkin.Place, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b checkin.Location) float64 {
	return toLatLng(a).Distance(toLatLng(b)).Radians() * earthRadiusMeters
}

func toLatLng(l checkin.Location) s2.LatLng {
	return s2.LatLngFromDegrees(l.Latitude, l.Longitude)
}

// Nearest returns up to count geo places ordered by distance from location.
// A non-positive count uses DefaultSuggestionCount.
func (c *Catalog) Nearest(location checkin.Location, count int) []checkin.Place {
	if count <= 0 {
		count = DefaultSuggestionCount
	}
	type ranked struct {
		place    checkin.Place
		distance float64
	}
	origin := toLatLng(location)
	items := make([]ranked, 0, len(c.geo))
	for _, p := range c.geo {
		d := origin.Distance(toLatLng(*p.Location)).Radians() * earthRadiusMeters
		items = append(items, ranked{place: p, distance: d})
	}
	slices.SortStableFunc(items, func(a, b ranked) int { return cmp.Compare(a.distance, b.distance) })

	out := make([]checkin.Place, 0, min(count, len(items)))
	for _, item := range items[:min(count, len(items))] {
		out = append(out, item.place)
	}
	return out
}

// GroupedSuggestions returns the Nearest group (only when location is given),
// then Utilities, then the remaining geo places sorted by name. Empty groups
// are omitted.
func (c *Catalog) GroupedSuggestions(location *checkin.Location, count int) []Group {
	var nearest []checkin.Place
	if location != nil {
		nearest = c.Nearest(*location, count)
	}
	taken := make(map[int64]struct{}, len(nearest))
	for _, p := range nearest {
		taken[p.ID] = struct{}{}
	}
	var others []checkin.Place
	for _, p := range c.geo {
		if _, ok := taken[p.ID]; !ok {
			others = append(others, p)
		}
	}
	col := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(others, func(a, b checkin.Place) int {
		return col.CompareString(a.Name, b.Name)
	})

	var groups []Group
	if len(nearest) > 0 {
		groups = append(groups, Group{Name: GroupNearest, Places: nearest})
	}
	if len(c.utility) > 0 {
		groups = append(groups, Group{Name: GroupUtilities, Places: c.UtilityPlaces()})
	}
	if len(others) > 0 {
		groups = append(groups, Group{Name: GroupOthers, Places: others})
	}
	return groups
}
