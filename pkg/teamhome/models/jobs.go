package models

import "time"

// DeletionStep is a stage of the team deletion cascade, in execution order
type DeletionStep int

const (
	StepMessageComments DeletionStep = iota + 1
	StepMessages
	StepDocumentComments
	StepDocuments
	StepFolders
	StepEvents
	StepDone
)

// String returns the step name used in logs
func (s DeletionStep) String() string {
	switch s {
	case StepMessageComments:
		return "message_comments"
	case StepMessages:
		return "messages"
	case StepDocumentComments:
		return "document_comments"
	case StepDocuments:
		return "documents"
	case StepFolders:
		return "folders"
	case StepEvents:
		return "events"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// DeletionStatus is the state of a team deletion job
type DeletionStatus string

const (
	DeletionPending   DeletionStatus = "pending"
	DeletionCompleted DeletionStatus = "completed"
)

// TeamDeletion records the cleanup of a deleted team's dependent records.
// It is created in the same transaction that removes the team row, so a
// crash or failed step can be resumed from NextStep.
type TeamDeletion struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	TeamID      uint           `gorm:"not null;uniqueIndex" json:"team_id"`
	RequestedBy uint           `gorm:"not null" json:"requested_by"`
	NextStep    DeletionStep   `gorm:"not null" json:"next_step"`
	Status      DeletionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Attempts    int            `gorm:"not null;default:0" json:"attempts"`
	LastError   string         `json:"last_error,omitempty"`
}

// ChargeStatus is the state of a premium upgrade charge
type ChargeStatus string

const (
	ChargePending   ChargeStatus = "pending"
	ChargeSucceeded ChargeStatus = "succeeded"
	ChargeFailed    ChargeStatus = "failed"
	// ChargeOrphaned means the charge was captured but the team was gone
	// before premium could be set; it needs a manual refund.
	ChargeOrphaned ChargeStatus = "orphaned"
)

// PremiumCharge is the intent record written before a premium charge is
// submitted to the payment gateway
type PremiumCharge struct {
	ID              uint         `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	TeamID          uint         `gorm:"not null;index" json:"team_id"`
	UserID          uint         `gorm:"not null" json:"user_id"`
	IdempotencyKey  string       `gorm:"not null;uniqueIndex" json:"idempotency_key"`
	Amount          int64        `gorm:"not null" json:"amount"`
	Currency        string       `gorm:"type:varchar(3);not null" json:"currency"`
	Status          ChargeStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	GatewayChargeID string       `json:"gateway_charge_id,omitempty"`
	FailureReason   string       `json:"failure_reason,omitempty"`
}
