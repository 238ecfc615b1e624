package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/identitylab/auth-api/internal/core/domain"
	"github.com/identitylab/auth-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditRecorder that persists login events.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditRecorder {
	return &auditService{repo: repo, log: log}
}

// Record persists a single audit event.
func (s *auditService) Record(ctx context.Context, event domain.LoginEvent) error {
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("email", event.Email).
		Str("action", string(event.Action)).
		Str("outcome", string(event.Outcome)).
		Msg("audit event recorded")
	return nil
}
