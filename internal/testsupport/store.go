package testsupport

import (
	"fmt"
	"testing"
	"time"

	"checkinq/internal/checkin"
	"checkinq/internal/config"
	"checkinq/internal/kvstore"
	"checkinq/internal/queue"
)

// MustOpenStore opens a SQLite-backed queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) (*queue.Store, *kvstore.Store) {
	t.Helper()

	medium, err := kvstore.Open(cfg)
	if err != nil {
		t.Fatalf("kvstore.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = medium.Close()
	})
	store, err := queue.NewStore(medium, cfg.Storage.RecordKey)
	if err != nil {
		t.Fatalf("queue.NewStore: %v", err)
	}
	return store, medium
}

// SampleCheckin builds a queued check-in whose key and time derive from n.
func SampleCheckin(n int) checkin.QueuedCheckin {
	ts := time.Date(2024, 5, 1, 10, 0, n, 0, time.UTC)
	dateTime := checkin.FormatTimestamp(ts)
	item := checkin.QueuedCheckin{
		ClientKey: fmt.Sprintf("%s-%08x", dateTime, n),
		PlaceID:   int64(100 + n),
		DateTime:  dateTime,
		Photo: checkin.EncodedPhoto{
			FileName:   fmt.Sprintf("photo-%d.jpg", n),
			MimeType:   "image/jpeg",
			Base64Data: "AAEC",
		},
	}
	if n%2 == 0 {
		item.Location = &checkin.Location{Latitude: 52.37 + float64(n)/100, Longitude: 4.89}
	}
	return item
}

// SampleState returns a state for teamID holding count sample check-ins.
func SampleState(teamID int64, count int) *checkin.ManagerState {
	state := &checkin.ManagerState{TeamID: teamID, QueuedCheckins: []checkin.QueuedCheckin{}}
	for i := 1; i <= count; i++ {
		state.QueuedCheckins = append(state.QueuedCheckins, SampleCheckin(i))
	}
	return state
}
