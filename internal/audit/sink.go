package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/S1mon009/auth-service/internal/auth/domain"
)

// RepositorySink persists events through the audit repository.
type RepositorySink struct {
	repo domain.AuditRepository
}

func NewRepositorySink(repo domain.AuditRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) Emit(ctx context.Context, event Event) error {
	entry := &domain.AuditLog{
		ID:        uuid.NewString(),
		UserID:    event.UserID,
		Action:    event.Action,
		CreatedAt: event.At,
	}
	if event.IP != "" {
		ip := event.IP
		entry.IP = &ip
	}

	return s.repo.Insert(ctx, entry)
}
