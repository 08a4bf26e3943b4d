package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"familycheckin/internal/domain"
)

type auditLogRepository struct {
	DB *sql.DB
}

// NewAuditLogRepository returns a domain.AuditLog that appends rows to audit_logs.
func NewAuditLogRepository(db *sql.DB) domain.AuditLog {
	return &auditLogRepository{DB: db}
}

func (r *auditLogRepository) Record(ctx context.Context, organizationID string, action domain.AuditAction, details any) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	query := `
		INSERT INTO audit_logs (organization_id, action, details)
		VALUES ($1, $2, $3)
	`
	_, err = r.DB.ExecContext(ctx, query, organizationID, action, string(payload))
	return err
}
