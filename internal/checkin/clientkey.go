package checkin

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

const maxKeyAttempts = 8

// KeyGenerator issues client keys of the form <timestamp>-<8 hex chars>.
//
// The random suffix gives 32 bits per timestamp; the generator also remembers
// every key it has issued or been told about and redraws on collision, so keys
// are unique for the generator's lifetime rather than merely probable.
type KeyGenerator struct {
	mu     sync.Mutex
	now    func() time.Time
	random io.Reader
	issued map[string]struct{}
}

// KeyOption configures a KeyGenerator.
type KeyOption func(*KeyGenerator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) KeyOption {
	return func(g *KeyGenerator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithRandom overrides the entropy source.
func WithRandom(r io.Reader) KeyOption {
	return func(g *KeyGenerator) {
		if r != nil {
			g.random = r
		}
	}
}

// NewKeyGenerator returns a generator backed by the wall clock and crypto/rand.
func NewKeyGenerator(opts ...KeyOption) *KeyGenerator {
	g := &KeyGenerator{
		now:    time.Now,
		random: rand.Reader,
		issued: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Reserve marks keys as already in use, typically those of a restored queue.
func (g *KeyGenerator) Reserve(keys ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, key := range keys {
		g.issued[key] = struct{}{}
	}
}

// Next returns a fresh client key together with the timestamp it embeds.
func (g *KeyGenerator) Next() (key string, dateTime string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	dateTime = FormatTimestamp(g.now())
	var buf [4]byte
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		if _, err := io.ReadFull(g.random, buf[:]); err != nil {
			return "", "", fmt.Errorf("read random suffix: %w", err)
		}
		key = fmt.Sprintf("%s-%08x", dateTime, binary.BigEndian.Uint32(buf[:]))
		if _, taken := g.issued[key]; taken {
			continue
		}
		g.issued[key] = struct{}{}
		return key, dateTime, nil
	}
	return "", "", errors.New("client key space exhausted for timestamp")
}
