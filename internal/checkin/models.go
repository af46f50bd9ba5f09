package checkin

import (
	"fmt"
	"math"
	"time"
)

// TimestampLayout is the ISO8601 form used for check-in times and client keys.
// It always carries millisecond precision and a Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Location is a WGS84 coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ValidateLocation rejects coordinates that cannot be serialized. A nil
// location is valid.
func ValidateLocation(loc *Location) error {
	if loc == nil {
		return nil
	}
	if !finite(loc.Latitude) || !finite(loc.Longitude) {
		return InvalidInput(fmt.Sprintf("location %v, %v is not a finite coordinate", loc.Latitude, loc.Longitude))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Category groups places for display.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Place is a check-in target. Utility places have no location.
type Place struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Category Category  `json:"category"`
	Location *Location `json:"location"`
}

// EncodedPhoto is the transport-safe form of a check-in photo.
type EncodedPhoto struct {
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	Base64Data string `json:"base64Data"`
}

// QueuedCheckin is a check-in awaiting delivery.
type QueuedCheckin struct {
	ClientKey string       `json:"clientKey"`
	PlaceID   int64        `json:"placeId"`
	DateTime  string       `json:"dateTime"`
	Location  *Location    `json:"location"`
	Photo     EncodedPhoto `json:"photo"`
}

// ManagerState is the full durable record for one session.
type ManagerState struct {
	TeamID         int64           `json:"teamId"`
	QueuedCheckins []QueuedCheckin `json:"queuedCheckins"`
}

// Clone returns a deep copy so snapshots never alias live queue storage.
func (s ManagerState) Clone() ManagerState {
	out := ManagerState{TeamID: s.TeamID, QueuedCheckins: make([]QueuedCheckin, len(s.QueuedCheckins))}
	for i, item := range s.QueuedCheckins {
		out.QueuedCheckins[i] = item.clone()
	}
	return out
}

func (c QueuedCheckin) clone() QueuedCheckin {
	if c.Location != nil {
		loc := *c.Location
		c.Location = &loc
	}
	return c
}

// FormatTimestamp renders t in TimestampLayout (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Status describes the sync state of a queue.
type Status string

const (
	StatusUpToDate Status = "up_to_date"
	StatusWaiting  Status = "waiting"
	StatusSending  Status = "sending"
)

// StatusFor derives the queue status from its length and the in-progress flag.
func StatusFor(pending int, sending bool) Status {
	if pending == 0 {
		return StatusUpToDate
	}
	if sending {
		return StatusSending
	}
	return StatusWaiting
}
