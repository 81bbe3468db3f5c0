package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditAction names the mutating operation an audit entry records
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionIssue  AuditAction = "ISSUE"
	AuditActionPost   AuditAction = "POST"
	AuditActionCancel AuditAction = "CANCEL"
)

// AuditEntry is an append-only record of a mutating operation with
// before/after snapshots of the touched aggregate. Snapshots are opaque to
// the engine; the sink decides how to serialize them.
type AuditEntry struct {
	EntityType string         `json:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id"`
	Action     AuditAction    `json:"action"`
	Actor      uuid.UUID      `json:"actor"`
	Before     any            `json:"before,omitempty"`
	After      any            `json:"after,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// AuditTrail accepts audit entries after each successful lifecycle
// operation. The engine does not depend on how entries are stored.
type AuditTrail interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// NopAuditTrail discards all entries. Used in tests and when auditing is
// disabled by configuration.
type NopAuditTrail struct{}

// Record implements AuditTrail
func (NopAuditTrail) Record(ctx context.Context, entry AuditEntry) error {
	return nil
}
