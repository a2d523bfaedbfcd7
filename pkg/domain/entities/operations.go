package entities

import (
	"strings"
	"time"
)

// OperationStatus is the lifecycle state of a background operation as
// reported by the daemon.
type OperationStatus string

const (
	OperationPending   OperationStatus = "Pending"
	OperationRunning   OperationStatus = "Running"
	OperationSuccess   OperationStatus = "Success"
	OperationFailure   OperationStatus = "Failure"
	OperationCancelled OperationStatus = "Cancelled"
)

// Is compares statuses case-insensitively; daemons differ in how they
// capitalize them.
func (s OperationStatus) Is(other OperationStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

// IsTerminal reports whether no further status transitions will happen.
func (s OperationStatus) IsTerminal() bool {
	return s.Is(OperationSuccess) || s.Is(OperationFailure) || s.Is(OperationCancelled)
}

// Operation is the metadata of a background operation.
type Operation struct {
	ID          string                 `json:"id"`
	Class       string                 `json:"class"`
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Status      OperationStatus        `json:"status"`
	StatusCode  int                    `json:"status_code"`
	Resources   map[string][]string    `json:"resources,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	MayCancel   bool                   `json:"may_cancel"`
	Err         string                 `json:"err"`
}
