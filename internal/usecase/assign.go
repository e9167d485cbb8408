package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/config"
	"github.com/rbaliester/flowdesk/internal/entity"
)

// Validation failure reasons. These end up in the assignment_failure_reason
// custom field, so they are operator-facing strings.
const (
	ReasonCategoryTooGeneric = "Product category not specified or too generic"
	ReasonNoRepForCategory   = "No sales rep assigned for this product category"
	ReasonRepLacksExpertise  = "Assigned sales rep lacks expertise for this product category"
	ReasonRepOverloaded      = "Assigned sales rep is currently overloaded"
)

// AssignmentValidation is a routing decision, not an error: an invalid result
// sends the task to Immediate Action instead of aborting the pipeline.
type AssignmentValidation struct {
	IsValid bool
	Reason  string
}

// categoryExpertise is the category -> expertise-tag mapping reserved for
// per-category rep matching. Rep lookup is currently role-only; this table is
// the extension point for when reps carry expertise tags.
var categoryExpertise = map[string][]string{
	"Tank Cleaning":        {"tank-cleaning", "industrial-services"},
	"Industrial Equipment": {"equipment", "machinery"},
	"Chemical Supply":      {"chemicals"},
	"Logistics Services":   {"logistics"},
	"Safety & Compliance":  {"hse"},
}

// AssignmentEngine selects and validates a sales rep for a classified inquiry.
//
// The expertise and availability checks fail open: when the lookup behind a
// check errors, the check passes. Assignment throughput is preferred over
// strict gating on transient validation-data unavailability. Changing this to
// fail closed changes routing behavior, not just error handling.
type AssignmentEngine struct {
	Users UserRepositoryInterface
	Tasks TaskRepositoryInterface
	Log   *zap.Logger
}

func NewAssignmentEngine(users UserRepositoryInterface, tasks TaskRepositoryInterface, log *zap.Logger) *AssignmentEngine {
	return &AssignmentEngine{Users: users, Tasks: tasks, Log: log}
}

// FindSalesRepByProductCategory returns a rep for the category, or nil when no
// sales-role user exists. The query is role-only; see categoryExpertise.
func (e *AssignmentEngine) FindSalesRepByProductCategory(ctx context.Context, category string) (*entity.User, error) {
	reps, err := e.Users.FindByRole(ctx, entity.RoleSales)
	if err != nil {
		return nil, fmt.Errorf("query sales reps: %w", err)
	}
	if len(reps) == 0 {
		return nil, nil
	}
	return &reps[0], nil
}

// ValidateSalesRepExpertise checks the rep can handle the category. Fails open
// on lookup errors.
func (e *AssignmentEngine) ValidateSalesRepExpertise(ctx context.Context, repID, category string) bool {
	rep, err := e.Users.FindByID(ctx, repID)
	if err != nil || rep == nil {
		e.Log.Warn("expertise lookup unavailable, failing open",
			zap.String("rep_id", repID), zap.Error(err))
		return true
	}
	return rep.IsSalesRep()
}

// CheckSalesRepAvailability checks the rep's active workload is below the
// ceiling. Fails open on count errors.
func (e *AssignmentEngine) CheckSalesRepAvailability(ctx context.Context, repID string) bool {
	count, err := e.Tasks.CountActiveByAssignee(ctx, repID)
	if err != nil {
		e.Log.Warn("availability count unavailable, failing open",
			zap.String("rep_id", repID), zap.Error(err))
		return true
	}
	return count < entity.MaxActiveAssignments
}

// ValidateAssignmentRequirements runs the four gates in order and returns the
// first failure.
func (e *AssignmentEngine) ValidateAssignmentRequirements(ctx context.Context, taskID, category string, rep *entity.User) AssignmentValidation {
	if category == "" || category == config.DefaultCategory {
		return AssignmentValidation{Reason: ReasonCategoryTooGeneric}
	}
	if rep == nil {
		return AssignmentValidation{Reason: ReasonNoRepForCategory}
	}
	if !e.ValidateSalesRepExpertise(ctx, rep.ID, category) {
		return AssignmentValidation{Reason: ReasonRepLacksExpertise}
	}
	if !e.CheckSalesRepAvailability(ctx, rep.ID) {
		return AssignmentValidation{Reason: ReasonRepOverloaded}
	}
	return AssignmentValidation{IsValid: true}
}
