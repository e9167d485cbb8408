package entity

import (
	"time"

	"github.com/google/uuid"
)

// Action tags written by the pipeline. Closed vocabulary: dashboards and
// audits filter on these strings, do not invent new ones ad hoc.
const (
	ActionEmailReceivedNew          = "EMAIL_RECEIVED_NEW"
	ActionExistingContactLinked     = "EXISTING_CONTACT_LINKED"
	ActionNewContactPipelineDone    = "NEW_CONTACT_PIPELINE_COMPLETED"
	ActionNewContactPipelineError   = "NEW_CONTACT_PIPELINE_ERROR"
	ActionTaskAssigned              = "TASK_ASSIGNED"
	ActionTaskNeedsAssignment       = "TASK_NEEDS_ASSIGNMENT"
	ActionInquiryAssignmentError    = "INQUIRY_ASSIGNMENT_ERROR"
	ActionManualSalesRepAssignment  = "MANUAL_SALES_REP_ASSIGNMENT"
	ActionLeadQualified             = "LEAD_QUALIFIED"
	ActionContactCreatedFromLead    = "CONTACT_CREATED_FROM_LEAD"
	ActionRegistrationEmailSent     = "REGISTRATION_EMAIL_SENT"
	ActionRegistrationEmailFailed   = "REGISTRATION_EMAIL_FAILED"
)

// ActivityRecord is an append-only audit entry: one record per pipeline
// decision, never updated or deleted.
type ActivityRecord struct {
	ID        string         `json:"id"`
	TaskID    string         `json:"task_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewActivityRecord(taskID, action string, details map[string]any) *ActivityRecord {
	return &ActivityRecord{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	}
}
