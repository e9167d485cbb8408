package entity

import (
	"time"

	"github.com/google/uuid"
)

// Status values tasks move through. Inquiries, leads and contacts all live in the
// tasks collection (scoped by board), so the vocabulary covers all three.
type Status string

const (
	StatusNew             Status = "New"
	StatusAssigned        Status = "Assigned"
	StatusInProgress      Status = "In Progress"
	StatusImmediateAction Status = "Immediate Action"
	StatusProposalSent    Status = "Proposal Sent"
	StatusNegotiation     Status = "Negotiation"
	StatusWon             Status = "Won"
	StatusLost            Status = "Lost"

	StatusNewLead   Status = "New Lead"
	StatusQualified Status = "Qualified"
	StatusActive    Status = "Active"
)

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// CustomFields is the free-form per-task field map. Values are strings, numbers,
// booleans or RFC3339 date strings; it round-trips through a jsonb column.
type CustomFields map[string]any

// Task is the unit of work on a board. An inquiry created from an inbound email,
// a lead waiting for qualification and a qualified contact are all tasks; the
// board they belong to decides which one they are.
type Task struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"board_id"`
	GroupID     string    `json:"group_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`

	SenderEmail   string `json:"sender_email,omitempty"`
	SenderName    string `json:"sender_name,omitempty"`
	SenderCompany string `json:"sender_company,omitempty"`

	// InquiryID is unique and immutable once assigned. Format:
	// INQ-<epoch millis>-<uppercase company prefix, max 8 chars>.
	// It appears in emails already sent to customers, so the format is a
	// compatibility surface.
	InquiryID string `json:"inquiry_id,omitempty"`

	AssignedRepID   string `json:"assigned_rep_id,omitempty"`
	ProductCategory string `json:"product_category,omitempty"`

	CustomFields CustomFields `json:"custom_fields,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewTask(boardID, groupID, title string) *Task {
	now := time.Now()
	return &Task{
		ID:           uuid.New().String(),
		BoardID:      boardID,
		GroupID:      groupID,
		Title:        title,
		Status:       StatusNew,
		Priority:     PriorityMedium,
		CustomFields: CustomFields{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SetCustomField is a nil-safe write into the custom-field map.
func (t *Task) SetCustomField(key string, value any) {
	if t.CustomFields == nil {
		t.CustomFields = CustomFields{}
	}
	t.CustomFields[key] = value
}
