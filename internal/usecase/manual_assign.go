package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/entity"
)

// ManualAssignUseCase is the operator override for tasks parked in Immediate
// Action. Validation still runs but only produces warnings; an operator who
// assigns anyway knows something the engine does not. Returns a success flag
// instead of an error so callers can branch on UI feedback.
type ManualAssignUseCase struct {
	Tasks      TaskRepositoryInterface
	Users      UserRepositoryInterface
	Assigner   *AssignmentEngine
	Workspace  *Workspace
	Activities ActivityRepositoryInterface
	Log        *zap.Logger
}

func NewManualAssignUseCase(
	tasks TaskRepositoryInterface,
	users UserRepositoryInterface,
	assigner *AssignmentEngine,
	ws *Workspace,
	activities ActivityRepositoryInterface,
	log *zap.Logger,
) *ManualAssignUseCase {
	return &ManualAssignUseCase{
		Tasks:      tasks,
		Users:      users,
		Assigner:   assigner,
		Workspace:  ws,
		Activities: activities,
		Log:        log,
	}
}

func (uc *ManualAssignUseCase) Execute(ctx context.Context, taskID, repID, assignedBy string) bool {
	task, err := uc.Tasks.FindByID(ctx, taskID)
	if err != nil || task == nil {
		uc.Log.Warn("manual assignment: task lookup failed",
			zap.String("task_id", taskID), zap.Error(err))
		return false
	}

	rep, err := uc.Users.FindByID(ctx, repID)
	if err != nil || rep == nil {
		uc.Log.Warn("manual assignment: rep lookup failed",
			zap.String("rep_id", repID), zap.Error(err))
		return false
	}

	var warnings []string
	if !uc.Assigner.ValidateSalesRepExpertise(ctx, rep.ID, task.ProductCategory) {
		warnings = append(warnings, ReasonRepLacksExpertise)
	}
	if !uc.Assigner.CheckSalesRepAvailability(ctx, rep.ID) {
		warnings = append(warnings, ReasonRepOverloaded)
	}

	group, err := uc.Workspace.EnsureGroup(ctx, task.BoardID, entity.GroupAssigned)
	if err != nil {
		uc.Log.Error("manual assignment: ensure group failed",
			zap.String("task_id", taskID), zap.Error(err))
		return false
	}

	task.Apply(entity.WorkflowAssigned, group.ID)
	task.AssignedRepID = rep.ID
	task.SetCustomField("manually_assigned", true)
	task.SetCustomField("assigned_by", assignedBy)
	task.SetCustomField("assigned_at", time.Now().Format(time.RFC3339))
	delete(task.CustomFields, "needs_manual_assignment")
	if len(warnings) > 0 {
		task.SetCustomField("validation_warnings", warnings)
	}

	if err := uc.Tasks.Update(ctx, task); err != nil {
		uc.Log.Error("manual assignment: persist failed",
			zap.String("task_id", taskID), zap.Error(err))
		return false
	}

	rec := entity.NewActivityRecord(task.ID, entity.ActionManualSalesRepAssignment, map[string]any{
		"rep_id":      rep.ID,
		"rep_name":    rep.Name,
		"assigned_by": assignedBy,
		"warnings":    warnings,
	})
	if err := uc.Activities.Append(ctx, rec); err != nil {
		uc.Log.Error("manual assignment: activity append failed",
			zap.String("task_id", taskID), zap.Error(err))
	}
	return true
}
