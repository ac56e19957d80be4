// Package audit implements the append-only audit log for SolarDesk.
// Mutating operations across domains record before/after snapshots here,
// inside their own transactions, so the trail and the change commit or
// roll back together.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the audit log.
const (
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Entry is one immutable audit log row. OldData and NewData hold JSON
// snapshots of the affected record before and after the change.
type Entry struct {
	ID        uuid.UUID       `json:"id"`
	TableName string          `json:"table_name"`
	RecordID  string          `json:"record_id"`
	Action    string          `json:"action"`
	OldData   json.RawMessage `json:"old_data,omitempty"`
	NewData   json.RawMessage `json:"new_data,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Actor     string          `json:"actor"`
	CreatedAt time.Time       `json:"created_at"`
}

// Record carries the data needed to append one audit entry. OldData and
// NewData accept any JSON-marshalable value; nil values are stored as NULL.
type Record struct {
	TableName string
	RecordID  string
	Action    string
	OldData   any
	NewData   any
	Reason    string
	Actor     string
}
