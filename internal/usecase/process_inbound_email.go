package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/entity"
)

// ProcessInboundEmailUseCase turns a parsed inbound email into an inquiry task
// and routes it: extract identity, dedupe the sender against contacts/leads,
// create the inquiry, run the new-contact branch (acknowledgment + lead) or
// link the existing contact, then classify and assign.
//
// Failure taxonomy: task creation (and the board/group it needs) is the
// critical path and propagates. Everything after it fails forward: the error
// is written to the activity log and the next step runs. The inquiry task
// created in step 4 stands no matter what breaks downstream.
type ProcessInboundEmailUseCase struct {
	Tasks      TaskRepositoryInterface
	Activities ActivityRepositoryInterface
	Workspace  *Workspace
	Resolver   *ContactResolver
	Classifier *Classifier
	Assigner   *AssignmentEngine
	Email      EmailService
	Log        *zap.Logger

	now func() time.Time
}

// ProcessResult is what the worker reports after one pipeline invocation.
type ProcessResult struct {
	TaskID         string        `json:"task_id"`
	InquiryID      string        `json:"inquiry_id"`
	Status         entity.Status `json:"status"`
	ContactMatched bool          `json:"contact_matched"`
	LeadTaskID     string        `json:"lead_task_id,omitempty"`
}

func NewProcessInboundEmailUseCase(
	tasks TaskRepositoryInterface,
	activities ActivityRepositoryInterface,
	ws *Workspace,
	resolver *ContactResolver,
	classifier *Classifier,
	assigner *AssignmentEngine,
	email EmailService,
	log *zap.Logger,
) *ProcessInboundEmailUseCase {
	return &ProcessInboundEmailUseCase{
		Tasks:      tasks,
		Activities: activities,
		Workspace:  ws,
		Resolver:   resolver,
		Classifier: classifier,
		Assigner:   assigner,
		Email:      email,
		Log:        log,
		now:        time.Now,
	}
}

func (uc *ProcessInboundEmailUseCase) Execute(ctx context.Context, email entity.InboundEmail) (*ProcessResult, error) {
	// 1. Identity extraction.
	senderName := ExtractSenderName(email.From)
	if senderName == UnknownSender && email.SenderName != "" {
		senderName = email.SenderName
	}
	companyName := ExtractCompanyName(email.SenderEmail, email.Body)

	// 2. Contact resolution. Transport failures abort here: without knowing
	// whether the sender exists we would mis-route the whole invocation.
	match, err := uc.Resolver.FindExistingContact(ctx, email.SenderEmail)
	if err != nil {
		return nil, &TechnicalError{Code: "CONTACT_RESOLUTION_FAILED", Message: err.Error()}
	}

	// 3. Inquiry identifier.
	inquiryID := NewInquiryID(uc.now(), companyName)

	// 4. Inquiry task in "New Inquiry". This is the critical path: any error
	// propagates and the invocation aborts.
	task, err := uc.createInquiryTask(ctx, email, senderName, companyName, inquiryID, match)
	if err != nil {
		return nil, &TechnicalError{Code: "TASK_CREATION_FAILED", Message: err.Error()}
	}

	uc.appendActivity(ctx, task.ID, entity.ActionEmailReceivedNew, map[string]any{
		"message_id":     email.MessageID,
		"sender_email":   email.SenderEmail,
		"sender_name":    senderName,
		"sender_company": companyName,
		"inquiry_id":     inquiryID,
		"contact_known":  match != nil,
	})

	result := &ProcessResult{
		TaskID:         task.ID,
		InquiryID:      inquiryID,
		ContactMatched: match != nil,
	}

	// 5. Branch on resolution outcome. Errors stay inside the branch.
	if match == nil {
		leadID, err := uc.runNewContactPipeline(ctx, task, email, senderName, companyName)
		if err != nil {
			uc.Log.Error("new-contact pipeline failed, inquiry task stands",
				zap.String("task_id", task.ID), zap.Error(err))
			uc.appendActivity(ctx, task.ID, entity.ActionNewContactPipelineError, map[string]any{
				"error": err.Error(),
			})
		} else {
			result.LeadTaskID = leadID
		}
	} else {
		uc.appendActivity(ctx, task.ID, entity.ActionExistingContactLinked, map[string]any{
			"contact_id":      match.TaskID,
			"contact_source":  match.Source,
			"contact_name":    match.Name,
			"contact_company": match.Company,
		})
	}

	// 6. Classification + assignment, independent of the branch above.
	if err := uc.runInquiryAssignment(ctx, task, email.Subject, companyName); err != nil {
		uc.Log.Error("inquiry assignment failed, inquiry task stands",
			zap.String("task_id", task.ID), zap.Error(err))
		uc.appendActivity(ctx, task.ID, entity.ActionInquiryAssignmentError, map[string]any{
			"error": err.Error(),
		})
	}

	result.Status = task.Status
	return result, nil
}

func (uc *ProcessInboundEmailUseCase) createInquiryTask(
	ctx context.Context,
	email entity.InboundEmail,
	senderName, companyName, inquiryID string,
	match *ContactMatch,
) (*entity.Task, error) {
	board, err := uc.Workspace.ResolveBoardByRole(ctx, entity.BoardRoleSales)
	if err != nil {
		return nil, err
	}
	group, err := uc.Workspace.EnsureGroup(ctx, board.ID, entity.GroupNewInquiry)
	if err != nil {
		return nil, err
	}

	task := entity.NewTask(board.ID, group.ID, fmt.Sprintf("Inquiry: %s - %s", companyName, email.Subject))
	task.Status = entity.StatusNew
	task.Description = renderInquiryDescription(email, senderName, companyName, inquiryID)
	task.SenderEmail = email.SenderEmail
	task.SenderName = senderName
	task.SenderCompany = companyName
	task.InquiryID = inquiryID

	// Unmatched senders need qualification first, so they get a higher
	// priority than inquiries from known contacts.
	if match != nil {
		task.Priority = entity.PriorityMedium
		task.SetCustomField("contact_linked", true)
		task.SetCustomField("contact_id", match.TaskID)
		task.SetCustomField("contact_board_type", match.Source)
	} else {
		task.Priority = entity.PriorityHigh
		task.SetCustomField("contact_linked", false)
		task.SetCustomField("needs_registration", true)
	}

	if err := uc.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// runNewContactPipeline handles an unknown sender: send the acknowledgment
// with the registration form (fire-and-forget), create a lead on the Leads
// board, and link the lead back onto the inquiry task. Returns the lead id.
func (uc *ProcessInboundEmailUseCase) runNewContactPipeline(
	ctx context.Context,
	task *entity.Task,
	email entity.InboundEmail,
	senderName, companyName string,
) (string, error) {
	ackSent := uc.sendAcknowledgment(task, email, senderName, companyName)

	leadsBoard, err := uc.Workspace.ResolveBoardByRole(ctx, entity.BoardRoleLeads)
	if err != nil {
		return "", fmt.Errorf("resolve leads board: %w", err)
	}
	leadsGroup, err := uc.Workspace.EnsureGroup(ctx, leadsBoard.ID, entity.GroupNewLeads)
	if err != nil {
		return "", fmt.Errorf("ensure leads group: %w", err)
	}

	lead := entity.NewTask(leadsBoard.ID, leadsGroup.ID, fmt.Sprintf("Lead: %s (%s)", companyName, senderName))
	lead.Status = entity.StatusNewLead
	lead.Priority = entity.PriorityHigh
	lead.SenderEmail = email.SenderEmail
	lead.SenderName = senderName
	lead.SenderCompany = companyName
	lead.Description = renderLeadDescription(task, email)
	lead.SetCustomField("source_inquiry_task_id", task.ID)
	lead.SetCustomField("source_inquiry_id", task.InquiryID)

	if err := uc.Tasks.Create(ctx, lead); err != nil {
		return "", fmt.Errorf("create lead: %w", err)
	}

	task.SetCustomField("lead_created", true)
	task.SetCustomField("lead_task_id", lead.ID)
	task.SetCustomField("lead_board_id", leadsBoard.ID)
	task.SetCustomField("needs_registration", true)
	task.SetCustomField("registration_email_sent", ackSent)
	if err := uc.Tasks.Update(ctx, task); err != nil {
		return "", fmt.Errorf("link lead onto inquiry: %w", err)
	}

	uc.appendActivity(ctx, task.ID, entity.ActionNewContactPipelineDone, map[string]any{
		"lead_task_id":            lead.ID,
		"lead_board_id":           leadsBoard.ID,
		"registration_email_sent": ackSent,
	})
	return lead.ID, nil
}

// sendAcknowledgment is fire-and-forget: a failed send is logged and recorded,
// never raised.
func (uc *ProcessInboundEmailUseCase) sendAcknowledgment(task *entity.Task, email entity.InboundEmail, senderName, companyName string) bool {
	form, err := BuildRegistrationForm(task.InquiryID, senderName, email.SenderEmail, companyName)
	if err == nil {
		err = uc.Email.SendAcknowledgment(email.SenderEmail, senderName, task.InquiryID, form)
	}
	if err != nil {
		uc.Log.Warn("acknowledgment email failed",
			zap.String("task_id", task.ID),
			zap.String("to", email.SenderEmail),
			zap.Error(err))
		uc.appendActivity(context.Background(), task.ID, entity.ActionRegistrationEmailFailed, map[string]any{
			"to":    email.SenderEmail,
			"error": err.Error(),
		})
		uc.appendActivity(context.Background(), task.ID, entity.ActionNewContactPipelineError, map[string]any{
			"step":  "acknowledgment_email",
			"error": err.Error(),
		})
		return false
	}
	uc.appendActivity(context.Background(), task.ID, entity.ActionRegistrationEmailSent, map[string]any{
		"to": email.SenderEmail,
	})
	return true
}

// runInquiryAssignment classifies the inquiry and routes it to Assigned or
// Immediate Action. A failed validation overrides a successful rep lookup.
func (uc *ProcessInboundEmailUseCase) runInquiryAssignment(ctx context.Context, task *entity.Task, subject, companyName string) error {
	category := uc.Classifier.DetermineProductCategory(subject, companyName)
	task.ProductCategory = category

	rep, err := uc.Assigner.FindSalesRepByProductCategory(ctx, category)
	if err != nil {
		return err
	}

	validation := uc.Assigner.ValidateAssignmentRequirements(ctx, task.ID, category, rep)

	var targetGroup *entity.Group
	if rep != nil && validation.IsValid {
		targetGroup, err = uc.Workspace.EnsureGroup(ctx, task.BoardID, entity.GroupAssigned)
		if err != nil {
			return err
		}
		task.Apply(entity.WorkflowAssigned, targetGroup.ID)
		task.AssignedRepID = rep.ID
	} else {
		targetGroup, err = uc.Workspace.EnsureGroup(ctx, task.BoardID, entity.GroupImmediateAction)
		if err != nil {
			return err
		}
		task.Apply(entity.WorkflowImmediateAction, targetGroup.ID)
		task.SetCustomField("needs_manual_assignment", true)
		task.SetCustomField("assignment_failure_reason", validation.Reason)
	}

	if err := uc.Tasks.Update(ctx, task); err != nil {
		return fmt.Errorf("persist assignment: %w", err)
	}

	details := map[string]any{
		"product_category":  category,
		"target_group":      targetGroup.Title,
		"assignment_status": string(task.Status),
		"validation_passed": validation.IsValid,
	}
	action := entity.ActionTaskNeedsAssignment
	if task.Status == entity.StatusAssigned {
		action = entity.ActionTaskAssigned
		details["rep_id"] = rep.ID
		details["rep_name"] = rep.Name
	} else {
		details["failure_reason"] = validation.Reason
		if rep != nil {
			details["rep_id"] = rep.ID
			details["rep_name"] = rep.Name
		}
	}
	uc.appendActivity(ctx, task.ID, action, details)
	return nil
}

// appendActivity is best-effort: audit-trail write failures are logged, they
// never fail the pipeline step that produced them.
func (uc *ProcessInboundEmailUseCase) appendActivity(ctx context.Context, taskID, action string, details map[string]any) {
	rec := entity.NewActivityRecord(taskID, action, details)
	if err := uc.Activities.Append(ctx, rec); err != nil {
		uc.Log.Error("activity append failed",
			zap.String("task_id", taskID),
			zap.String("action", action),
			zap.Error(err))
	}
}

func renderInquiryDescription(email entity.InboundEmail, senderName, companyName, inquiryID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Inquiry %s\n", inquiryID)
	fmt.Fprintf(&b, "From: %s <%s>\n", senderName, email.SenderEmail)
	fmt.Fprintf(&b, "Company: %s\n", companyName)
	fmt.Fprintf(&b, "Subject: %s\n", email.Subject)
	if !email.Date.IsZero() {
		fmt.Fprintf(&b, "Received: %s\n", email.Date.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "Message-ID: %s\n\n", email.MessageID)
	b.WriteString(email.Body)
	return b.String()
}

func renderLeadDescription(task *entity.Task, email entity.InboundEmail) string {
	return fmt.Sprintf(
		"New lead from inbound inquiry %s (task %s).\n\nOriginal message:\n%s\n",
		task.InquiryID, task.ID, truncate(email.Body, 500),
	)
}

// truncate cuts s to at most max bytes without splitting a UTF-8 rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	end := max
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end] + "..."
}
