package domain

import "context"

// AuditAction names the kind of action recorded in the audit log.
type AuditAction string

const (
	AuditCheckIn       AuditAction = "CHECKIN"
	AuditCheckOut      AuditAction = "CHECKOUT"
	AuditFamilyCreated AuditAction = "FAMILY_CREATED"
	AuditFamilyUpdated AuditAction = "FAMILY_UPDATED"
	AuditFamilyDeleted AuditAction = "FAMILY_DELETED"
	AuditPersonCreated AuditAction = "PERSON_CREATED"
	AuditEventCreated  AuditAction = "EVENT_CREATED"
	AuditEventUpdated  AuditAction = "EVENT_UPDATED"
	AuditEventDeleted  AuditAction = "EVENT_DELETED"
	AuditSettingsSaved AuditAction = "SETTINGS_UPDATED"
)

// AuditLog is an append-only sink. details is stored as JSON. Callers treat failures as
// non-fatal: the primary operation never depends on the audit write.
type AuditLog interface {
	Record(ctx context.Context, organizationID string, action AuditAction, details any) error
}
