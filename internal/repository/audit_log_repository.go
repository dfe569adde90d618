package repository

import (
	"context"
	"database/sql"
	"time"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

type auditLogRepository struct {
	db *sql.DB
}

func NewAuditLogRepository(db *sql.DB) interfaces.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (actor, action, entity, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		entry.Actor, entry.Action, entry.Entity, entry.EntityID, entry.Detail,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
