// internal/trace/trace.go
//
// Request trace identifiers, threaded through context so engine and
// collaborator log lines correlate with the HTTP request that caused them.

package trace

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type ctxKey struct{}

// NewID returns a compact 16-hex-char trace identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// WithID returns a context carrying the trace id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ID extracts the trace id from ctx, or "-" when absent.
func ID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return id
	}
	return "-"
}
