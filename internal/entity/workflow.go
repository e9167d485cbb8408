package entity

// WorkflowState couples a task status to the workflow group that status lives in.
// The pipeline only ever moves tasks through these states, never sets status and
// group independently, so illegal combinations (status Assigned inside the
// "New Inquiry" group) cannot be produced.
type WorkflowState struct {
	Status Status
	Group  string
}

const (
	GroupNewInquiry      = "New Inquiry"
	GroupAssigned        = "Assigned"
	GroupImmediateAction = "Immediate Action"
	GroupNewLeads        = "New Leads"
	GroupActiveContacts  = "Active Contacts"
)

var (
	WorkflowNew             = WorkflowState{StatusNew, GroupNewInquiry}
	WorkflowAssigned        = WorkflowState{StatusAssigned, GroupAssigned}
	WorkflowImmediateAction = WorkflowState{StatusImmediateAction, GroupImmediateAction}
)

// transitions lists the states the pipeline may move a task into. Terminal
// sales states (Proposal Sent, Negotiation, Won, Lost) are reached by user
// actions, not by the pipeline, so they only appear as targets.
var transitions = map[Status][]Status{
	StatusNew:             {StatusAssigned, StatusImmediateAction},
	StatusImmediateAction: {StatusAssigned},
	StatusAssigned:        {StatusInProgress, StatusProposalSent, StatusImmediateAction},
	StatusInProgress:      {StatusProposalSent, StatusNegotiation, StatusWon, StatusLost},
	StatusProposalSent:    {StatusNegotiation, StatusWon, StatusLost},
	StatusNegotiation:     {StatusWon, StatusLost},
}

// CanTransition reports whether the pipeline may move a task from one status to
// another. Won and Lost are terminal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Apply moves the task into the given workflow state.
func (t *Task) Apply(state WorkflowState, groupID string) {
	t.Status = state.Status
	t.GroupID = groupID
}
