package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"checkinq/internal/checkin"
)

// DefaultRecordKey is the record name used when none is configured.
const DefaultRecordKey = "gameState"

// Store reads and writes the manager state record.
type Store struct {
	medium Medium
	key    string
}

// NewStore binds a Store to one record key on the medium.
func NewStore(medium Medium, key string) (*Store, error) {
	if medium == nil {
		return nil, errors.New("queue store requires a medium")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultRecordKey
	}
	return &Store{medium: medium, key: key}, nil
}

// Key returns the record key this store owns.
func (s *Store) Key() string {
	return s.key
}

// wireState mirrors ManagerState with pointers so missing fields are detectable.
type wireState struct {
	TeamID         *int64                  `json:"teamId"`
	QueuedCheckins []checkin.QueuedCheckin `json:"queuedCheckins"`
}

// Load returns the last saved state, or nil when no record exists.
func (s *Store) Load(ctx context.Context) (*checkin.ManagerState, error) {
	raw, found, err := s.medium.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read record %q: %w", s.key, err)
	}
	if !found {
		return nil, nil
	}
	return decodeState(raw)
}

// Save writes the full state, replacing any previous record.
func (s *Store) Save(ctx context.Context, state *checkin.ManagerState) error {
	if state == nil {
		return errors.New("save: nil state")
	}
	data, err := encodeState(*state)
	if err != nil {
		return err
	}
	if err := s.medium.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write record %q: %w", s.key, err)
	}
	return nil
}

func encodeState(state checkin.ManagerState) ([]byte, error) {
	if state.QueuedCheckins == nil {
		state.QueuedCheckins = []checkin.QueuedCheckin{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return data, nil
}

func decodeState(raw string) (*checkin.ManagerState, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 {
		return nil, checkin.CorruptState("record is empty", nil)
	}
	if trimmed[0] != '{' {
		return nil, checkin.CorruptState("record is not a JSON object", nil)
	}

	var wire wireState
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, checkin.CorruptState("decode record", err)
	}
	if wire.TeamID == nil {
		return nil, checkin.CorruptState("record has no teamId", nil)
	}

	state := &checkin.ManagerState{
		TeamID:         *wire.TeamID,
		QueuedCheckins: wire.QueuedCheckins,
	}
	if state.QueuedCheckins == nil {
		state.QueuedCheckins = []checkin.QueuedCheckin{}
	}

	seen := make(map[string]struct{}, len(state.QueuedCheckins))
	for i, item := range state.QueuedCheckins {
		key := strings.TrimSpace(item.ClientKey)
		if key == "" {
			return nil, checkin.CorruptState(fmt.Sprintf("queued check-in %d has no clientKey", i), nil)
		}
		if _, dup := seen[key]; dup {
			return nil, checkin.CorruptState(fmt.Sprintf("duplicate clientKey %q", key), nil)
		}
		seen[key] = struct{}{}
	}
	return state, nil
}
