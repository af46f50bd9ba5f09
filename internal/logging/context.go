package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldTeamID identifies the team owning the queue.
	FieldTeamID = "team_id"
	// FieldClientKey identifies a queued check-in.
	FieldClientKey = "client_key"
	// FieldPassID correlates every line emitted by one delivery pass.
	FieldPassID = "pass_id"
	// FieldPlaceID identifies the place a check-in targets.
	FieldPlaceID = "place_id"
	// FieldStatusCode carries HTTP status codes from the remote service.
	FieldStatusCode = "status_code"
	// FieldPending is the number of check-ins still queued.
	FieldPending = "pending"
	// FieldError carries the error value.
	FieldError = "error"
)

type passIDKey struct{}

// WithPassID tags ctx with a delivery pass identifier.
func WithPassID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, passIDKey{}, id)
}

// PassIDFromContext returns the pass identifier stored on ctx.
func PassIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(passIDKey{}).(string)
	return id, ok && id != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if id, ok := PassIDFromContext(ctx); ok {
		return []slog.Attr{slog.String(FieldPassID, id)}
	}
	return nil
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
