package ports

import (
	"context"

	"github.com/auvet/auth-service/internal/core/domain"
)

// AuthEventRepository persists audit-trail events.
type AuthEventRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}

// AuthEventService processes audit events dequeued by the dispatcher.
type AuthEventService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuthEventSink receives audit events for asynchronous recording. Recording is
// best-effort: the authentication workflow never blocks on, or fails because
// of, the audit trail.
type AuthEventSink interface {
	Record(event domain.AuthEvent)
}
