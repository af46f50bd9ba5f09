package checkin

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks a check-in that cannot be queued (no photo supplied).
	ErrInvalidInput = errors.New("invalid input")
	// ErrCorruptState marks a durable record that exists but cannot be decoded.
	ErrCorruptState = errors.New("corrupt queue state")
	// ErrDelivery marks a failed delivery attempt. Callers retry on a later trigger.
	ErrDelivery = errors.New("delivery failed")
	// ErrNoSession reports that no durable record exists to restore from.
	ErrNoSession = errors.New("no prior session")
)

// DeliveryError describes a failed delivery attempt. StatusCode is zero for
// transport failures.
type DeliveryError struct {
	ClientKey  string
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	var b strings.Builder
	b.WriteString("deliver check-in")
	if e.ClientKey != "" {
		b.WriteString(" ")
		b.WriteString(e.ClientKey)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": unexpected status %d", e.StatusCode)
		if body := strings.TrimSpace(e.Body); body != "" {
			b.WriteString(": ")
			b.WriteString(body)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDelivery) match any DeliveryError.
func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }

// InvalidInput wraps ErrInvalidInput with a detail message.
func InvalidInput(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, detail)
}

// CorruptState wraps ErrCorruptState with a detail message and optional cause.
func CorruptState(detail string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptState, detail, err)
	}
	return fmt.Errorf("%w: %s", ErrCorruptState, detail)
}
