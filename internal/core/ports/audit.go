package ports

import (
	"context"

	"github.com/identitylab/auth-api/internal/core/domain"
)

// AuditSink accepts audit events for asynchronous recording. Enqueue must
// never block the caller; events may be dropped under overload.
type AuditSink interface {
	Enqueue(event domain.LoginEvent)
}

// AuditRecorder persists a single audit event.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.LoginEvent) error
}

// AuditRepository handles audit trail persistence.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.LoginEvent) error
}
