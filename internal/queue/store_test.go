package queue_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"checkinq/internal/checkin"
	"checkinq/internal/queue"
)

func newStore(t *testing.T) (*queue.Store, *queue.MemoryMedium) {
	t.Helper()
	medium := queue.NewMemoryMedium()
	store, err := queue.NewStore(medium, "")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store, medium
}

func sampleCheckin(key string, loc *checkin.Location) checkin.QueuedCheckin {
	return checkin.QueuedCheckin{
		ClientKey: key,
		PlaceID:   42,
		DateTime:  "2024-05-04T11:02:03.456Z",
		Location:  loc,
		Photo:     checkin.EncodedPhoto{FileName: "a.jpg", MimeType: "image/jpeg", Base64Data: "AAAA"},
	}
}

func TestNewStoreDefaultsRecordKey(t *testing.T) {
	store, _ := newStore(t)
	if store.Key() != queue.DefaultRecordKey {
		t.Fatalf("expected default key, got %q", store.Key())
	}
	if _, err := queue.NewStore(nil, "x"); err == nil {
		t.Fatal("expected error for nil medium")
	}
}

func TestLoadMissingRecordReturnsNil(t *testing.T) {
	store, _ := newStore(t)
	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if state != nil {
		t.Fatalf("expected nil state, got %#v", state)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		state checkin.ManagerState
	}{
		{"empty queue", checkin.ManagerState{TeamID: 7, QueuedCheckins: []checkin.QueuedCheckin{}}},
		{"absent location", checkin.ManagerState{TeamID: 7, QueuedCheckins: []checkin.QueuedCheckin{sampleCheckin("k1", nil)}}},
		{"mixed", checkin.ManagerState{TeamID: -3, QueuedCheckins: []checkin.QueuedCheckin{
			sampleCheckin("k1", &checkin.Location{Latitude: 51.5, Longitude: -0.12}),
			sampleCheckin("k2", nil),
			sampleCheckin("k3", &checkin.Location{Latitude: 0, Longitude: 0}),
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _ := newStore(t)
			ctx := context.Background()
			if err := store.Save(ctx, &tc.state); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			loaded, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if loaded == nil || !reflect.DeepEqual(*loaded, tc.state) {
				t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", loaded, tc.state)
			}
		})
	}
}

func TestSaveNilQueueSerializesEmptyList(t *testing.T) {
	store, medium := newStore(t)
	if err := store.Save(context.Background(), &checkin.ManagerState{TeamID: 1}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, _ := medium.Raw(queue.DefaultRecordKey)
	if raw != `{"teamId":1,"queuedCheckins":[]}` {
		t.Fatalf("unexpected record %s", raw)
	}
}

func TestSaveUsesWireFieldNames(t *testing.T) {
	store, medium := newStore(t)
	state := checkin.ManagerState{TeamID: 1, QueuedCheckins: []checkin.QueuedCheckin{sampleCheckin("k1", nil)}}
	if err := store.Save(context.Background(), &state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, _ := medium.Raw(queue.DefaultRecordKey)
	for _, field := range []string{`"clientKey":"k1"`, `"placeId":42`, `"dateTime"`, `"location":null`, `"fileName"`, `"mimeType"`, `"base64Data"`} {
		if !strings.Contains(raw, field) {
			t.Fatalf("record %s missing %s", raw, field)
		}
	}
}

func TestLoadCorruptRecords(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"garbage", "not json"},
		{"truncated", `{"teamId":1,"queuedCheckins":[`},
		{"null", "null"},
		{"array", "[]"},
		{"missing team", `{"queuedCheckins":[]}`},
		{"fractional team", `{"teamId":1.5}`},
		{"missing client key", `{"teamId":1,"queuedCheckins":[{"placeId":1}]}`},
		{"duplicate client key", `{"teamId":1,"queuedCheckins":[{"clientKey":"a"},{"clientKey":"a"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, medium := newStore(t)
			if err := medium.Set(context.Background(), queue.DefaultRecordKey, tc.raw); err != nil {
				t.Fatalf("seed medium: %v", err)
			}
			state, err := store.Load(context.Background())
			if !errors.Is(err, checkin.ErrCorruptState) {
				t.Fatalf("expected ErrCorruptState, got state=%#v err=%v", state, err)
			}
		})
	}
}

func TestLoadMissingQueueIsEmpty(t *testing.T) {
	store, medium := newStore(t)
	_ = medium.Set(context.Background(), queue.DefaultRecordKey, `{"teamId":9}`)
	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if state.TeamID != 9 || len(state.QueuedCheckins) != 0 || state.QueuedCheckins == nil {
		t.Fatalf("unexpected state %#v", state)
	}
}

func TestSaveRejectsNilState(t *testing.T) {
	store, _ := newStore(t)
	if err := store.Save(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil state")
	}
}

func TestSavePropagatesMediumFailure(t *testing.T) {
	store, medium := newStore(t)
	medium.FailWrites(errors.New("quota exceeded"))
	err := store.Save(context.Background(), &checkin.ManagerState{TeamID: 1})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected write error, got %v", err)
	}
}
