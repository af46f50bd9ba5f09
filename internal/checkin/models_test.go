package checkin_test

import (
	"errors"
	"math"
	"testing"

	"checkinq/internal/checkin"
)

func TestValidateLocation(t *testing.T) {
	cases := []struct {
		name string
		loc  *checkin.Location
		ok   bool
	}{
		{"absent", nil, true},
		{"origin", &checkin.Location{}, true},
		{"amsterdam", &checkin.Location{Latitude: 52.373, Longitude: 4.893}, true},
		{"nan latitude", &checkin.Location{Latitude: math.NaN(), Longitude: 4.893}, false},
		{"nan longitude", &checkin.Location{Latitude: 52.373, Longitude: math.NaN()}, false},
		{"positive infinity", &checkin.Location{Latitude: math.Inf(1)}, false},
		{"negative infinity", &checkin.Location{Longitude: math.Inf(-1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkin.ValidateLocation(tc.loc)
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && !errors.Is(err, checkin.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
