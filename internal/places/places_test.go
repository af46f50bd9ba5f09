package places_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"checkinq/internal/checkin"
	"checkinq/internal/places"
)

func loc(lat, lon float64) *checkin.Location {
	return &checkin.Location{Latitude: lat, Longitude: lon}
}

func sampleCatalog() *places.Catalog {
	return places.NewCatalog([]checkin.Place{
		{ID: 1, Name: "Zoo", Location: loc(52.366, 4.916)},
		{ID: 2, Name: "Central Station", Location: loc(52.379, 4.900)},
		{ID: 3, Name: "Electric Company"},
		{ID: 4, Name: "Dam Square", Location: loc(52.373, 4.893)},
		{ID: 5, Name: "airport", Location: loc(52.310, 4.768)},
		{ID: 6, Name: "Water Works"},
		{ID: 7, Name: "Museum Square", Location: loc(52.358, 4.881)},
	})
}

func ids(list []checkin.Place) []int64 {
	out := make([]int64, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPartition(t *testing.T) {
	c := sampleCatalog()
	if got := ids(c.GeoPlaces()); !equalIDs(got, []int64{1, 2, 4, 5, 7}) {
		t.Fatalf("unexpected geo places %v", got)
	}
	if got := ids(c.UtilityPlaces()); !equalIDs(got, []int64{3, 6}) {
		t.Fatalf("unexpected utility places %v", got)
	}
	if p, ok := c.Find(6); !ok || p.Name != "Water Works" {
		t.Fatalf("Find(6) = %+v, %v", p, ok)
	}
}

func TestDistance(t *testing.T) {
	// Dam Square to Central Station is roughly 700m.
	d := places.Distance(*loc(52.373, 4.893), *loc(52.379, 4.900))
	if d < 700 || d > 900 {
		t.Fatalf("unexpected distance %.1f", d)
	}
	if places.Distance(*loc(1, 1), *loc(1, 1)) != 0 {
		t.Fatal("expected zero distance for identical points")
	}
	quarter := places.Distance(*loc(0, 0), *loc(0, 90))
	if math.Abs(quarter-10007543) > 1000 {
		t.Fatalf("unexpected quarter-circumference %.0f", quarter)
	}
}

func TestNearest(t *testing.T) {
	c := sampleCatalog()
	got := ids(c.Nearest(*loc(52.374, 4.894), 3))
	if !equalIDs(got, []int64{4, 2, 1}) {
		t.Fatalf("unexpected nearest %v", got)
	}
	if got := c.Nearest(*loc(52.374, 4.894), 0); len(got) != places.DefaultSuggestionCount {
		t.Fatalf("expected default count, got %d", len(got))
	}
	if got := c.Nearest(*loc(52.374, 4.894), 50); len(got) != 5 {
		t.Fatalf("expected all geo places, got %d", len(got))
	}
}

func TestGroupedSuggestionsWithLocation(t *testing.T) {
	groups := sampleCatalog().GroupedSuggestions(loc(52.374, 4.894), 3)
	if len(groups) != 3 {
		t.Fatalf("expected three groups, got %+v", groups)
	}
	want := []struct {
		name string
		ids  []int64
	}{
		{places.GroupNearest, []int64{4, 2, 1}},
		{places.GroupUtilities, []int64{3, 6}},
		{places.GroupOthers, []int64{5, 7}},
	}
	for i, w := range want {
		if groups[i].Name != w.name || !equalIDs(ids(groups[i].Places), w.ids) {
			t.Fatalf("group %d = %s %v, want %s %v", i, groups[i].Name, ids(groups[i].Places), w.name, w.ids)
		}
	}
}

func TestGroupedSuggestionsWithoutLocation(t *testing.T) {
	groups := sampleCatalog().GroupedSuggestions(nil, 3)
	if len(groups) != 2 || groups[0].Name != places.GroupUtilities || groups[1].Name != places.GroupOthers {
		t.Fatalf("unexpected groups %+v", groups)
	}
	if got := ids(groups[1].Places); !equalIDs(got, []int64{5, 2, 4, 7, 1}) {
		t.Fatalf("expected case-insensitive name order, got %v", got)
	}
}

func TestGroupedSuggestionsOmitsEmptyGroups(t *testing.T) {
	c := places.NewCatalog([]checkin.Place{{ID: 1, Name: "Only", Location: loc(0, 0)}})
	groups := c.GroupedSuggestions(loc(0, 0), 3)
	if len(groups) != 1 || groups[0].Name != places.GroupNearest {
		t.Fatalf("unexpected groups %+v", groups)
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.json")
	payload := `[{"id":1,"name":"Dam","category":{"id":2,"name":"Squares","color":"#f00"},"location":{"latitude":52.37,"longitude":4.89}},
{"id":2,"name":"Electric Company","category":{"id":3,"name":"Utilities","color":"#0f0"},"location":null}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := places.LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(c.GeoPlaces()) != 1 || len(c.UtilityPlaces()) != 1 {
		t.Fatalf("unexpected partition geo=%d utility=%d", len(c.GeoPlaces()), len(c.UtilityPlaces()))
	}
	if p, _ := c.Find(1); p.Category.Name != "Squares" {
		t.Fatalf("unexpected category %+v", p.Category)
	}

	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := places.LoadCatalog(path); err == nil {
		t.Fatal("expected parse error")
	}
}
