package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/entity"
)

// QualificationData is what the qualifying rep fills in. All fields are
// embedded in the new contact's description for the next person who opens it.
type QualificationData struct {
	QualifiedBy   string `json:"qualified_by"`
	Notes         string `json:"notes,omitempty"`
	Budget        string `json:"budget,omitempty"`
	Timeline      string `json:"timeline,omitempty"`
	DecisionMaker string `json:"decision_maker,omitempty"`
}

// QualifyLeadUseCase promotes a lead to a contact. The lead is kept and marked
// Qualified with a back-reference to the new contact; nothing cascades.
type QualifyLeadUseCase struct {
	Tasks      TaskRepositoryInterface
	Workspace  *Workspace
	Activities ActivityRepositoryInterface
	Log        *zap.Logger
}

func NewQualifyLeadUseCase(tasks TaskRepositoryInterface, ws *Workspace, activities ActivityRepositoryInterface, log *zap.Logger) *QualifyLeadUseCase {
	return &QualifyLeadUseCase{Tasks: tasks, Workspace: ws, Activities: activities, Log: log}
}

func (uc *QualifyLeadUseCase) Execute(ctx context.Context, leadTaskID string, data QualificationData) (*entity.Task, error) {
	lead, err := uc.Tasks.FindByID(ctx, leadTaskID)
	if err != nil {
		return nil, &TechnicalError{Code: "LEAD_LOOKUP_FAILED", Message: err.Error()}
	}
	if lead == nil {
		return nil, &DomainError{Code: "LEAD_NOT_FOUND", Message: "lead task not found: " + leadTaskID}
	}
	if lead.Status == entity.StatusQualified {
		return nil, &DomainError{Code: "LEAD_ALREADY_QUALIFIED", Message: "lead is already qualified"}
	}

	board, err := uc.Workspace.ResolveBoardByRole(ctx, entity.BoardRoleContacts)
	if err != nil {
		return nil, &TechnicalError{Code: "CONTACTS_BOARD_UNAVAILABLE", Message: err.Error()}
	}
	group, err := uc.Workspace.EnsureGroup(ctx, board.ID, entity.GroupActiveContacts)
	if err != nil {
		return nil, &TechnicalError{Code: "CONTACTS_GROUP_UNAVAILABLE", Message: err.Error()}
	}

	qualifiedAt := time.Now()

	contact := entity.NewTask(board.ID, group.ID, fmt.Sprintf("Contact: %s (%s)", lead.SenderCompany, lead.SenderName))
	contact.Status = entity.StatusActive
	contact.Priority = entity.PriorityMedium
	contact.SenderEmail = lead.SenderEmail
	contact.SenderName = lead.SenderName
	contact.SenderCompany = lead.SenderCompany
	contact.Description = renderQualificationDescription(lead, data, qualifiedAt)
	contact.SetCustomField("qualified_from_lead", lead.ID)
	contact.SetCustomField("qualified_by", data.QualifiedBy)
	contact.SetCustomField("qualified_at", qualifiedAt.Format(time.RFC3339))

	if err := uc.Tasks.Create(ctx, contact); err != nil {
		return nil, &TechnicalError{Code: "CONTACT_CREATION_FAILED", Message: err.Error()}
	}

	lead.Status = entity.StatusQualified
	lead.SetCustomField("qualified", true)
	lead.SetCustomField("contact_task_id", contact.ID)
	lead.SetCustomField("qualified_by", data.QualifiedBy)
	lead.SetCustomField("qualified_at", qualifiedAt.Format(time.RFC3339))
	if err := uc.Tasks.Update(ctx, lead); err != nil {
		// The contact exists; report the inconsistency instead of undoing it.
		uc.Log.Error("lead update failed after contact creation",
			zap.String("lead_id", lead.ID),
			zap.String("contact_id", contact.ID),
			zap.Error(err))
		return nil, &TechnicalError{Code: "LEAD_UPDATE_FAILED", Message: err.Error()}
	}

	uc.append(ctx, lead.ID, entity.ActionLeadQualified, map[string]any{
		"contact_task_id": contact.ID,
		"qualified_by":    data.QualifiedBy,
	})
	uc.append(ctx, contact.ID, entity.ActionContactCreatedFromLead, map[string]any{
		"lead_task_id": lead.ID,
		"qualified_by": data.QualifiedBy,
	})

	return contact, nil
}

func (uc *QualifyLeadUseCase) append(ctx context.Context, taskID, action string, details map[string]any) {
	if err := uc.Activities.Append(ctx, entity.NewActivityRecord(taskID, action, details)); err != nil {
		uc.Log.Error("qualification: activity append failed",
			zap.String("task_id", taskID), zap.Error(err))
	}
}

func renderQualificationDescription(lead *entity.Task, data QualificationData, at time.Time) string {
	return fmt.Sprintf(
		"Contact qualified from lead %s.\n\nQualified by: %s\nQualified at: %s\nNotes: %s\nBudget: %s\nTimeline: %s\nDecision maker: %s\n",
		lead.ID, data.QualifiedBy, at.Format(time.RFC3339),
		data.Notes, data.Budget, data.Timeline, data.DecisionMaker,
	)
}
