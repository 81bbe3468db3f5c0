package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JSONB stores an arbitrary JSON document in a jsonb column
type JSONB json.RawMessage

// Value implements driver.Valuer interface for GORM to store as JSONB
func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
		return nil
	case string:
		*j = JSONB(v)
		return nil
	}
	return fmt.Errorf("cannot scan %T into JSONB", value)
}

// MarshalJSONB serializes a value into a JSONB column value. A nil value
// maps to a NULL column.
func MarshalJSONB(v any) (JSONB, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}
	return JSONB(data), nil
}

// AuditLogModel is the persistence model for one audit trail entry. The
// table is append-only; rows are never updated or deleted.
type AuditLogModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	EntityType string    `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity,priority:1"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_logs_entity,priority:2"`
	Action     string    `gorm:"type:varchar(20);not null;index"`
	Actor      uuid.UUID `gorm:"type:uuid;not null;index"`
	Before     JSONB     `gorm:"type:jsonb"`
	After      JSONB     `gorm:"type:jsonb"`
	Metadata   JSONB     `gorm:"type:jsonb"`
	RecordedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}
