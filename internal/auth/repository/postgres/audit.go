package postgres

import (
	"context"
	"fmt"

	"github.com/S1mon009/auth-service/internal/auth/domain"
)

type AuditRepository struct {
	db PgxIface
}

func NewAuditRepository(db PgxIface) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_logs (id, user_id, action, ip, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ID, entry.UserID, entry.Action, entry.IP, entry.CreatedAt)

	return err
}

func (r *AuditRepository) List(ctx context.Context) ([]domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, action, ip, created_at
		FROM audit_logs
		ORDER BY created_at DESC;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.IP, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
