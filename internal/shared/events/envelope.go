package events

import "time"

// AuditEvent is the shared audit-sink record shape used across contexts.
// Duplicates are tolerable; the sink contract is at-least-once.
type AuditEvent struct {
	EventID        string         `json:"event_id"`
	EventType      string         `json:"event_type"`
	SourceService  string         `json:"source_service"`
	OccurredAtUTC  time.Time      `json:"occurred_at_utc"`
	EnterpriseIDs  []string       `json:"enterprise_ids"`
	ActingUserID   string         `json:"acting_user_id,omitempty"`
	AffectedUserID string         `json:"affected_user_id,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}
