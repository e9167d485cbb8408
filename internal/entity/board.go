package entity

import (
	"time"

	"github.com/google/uuid"
)

// BoardRole identifies which of the three well-known boards a lookup targets.
// Boards are still found by title (the store has no slug column yet), so each
// role carries an ordered candidate-title list tolerant of naming drift.
type BoardRole string

const (
	BoardRoleSales    BoardRole = "sales"
	BoardRoleLeads    BoardRole = "leads"
	BoardRoleContacts BoardRole = "contacts"
)

// DefaultBoardTitles are tried in order; the first title that resolves wins.
// When none resolve and the caller needs the board, it is created under the
// first candidate title.
var DefaultBoardTitles = map[BoardRole][]string{
	BoardRoleSales:    {"Sales Pipeline", "Sales CRM", "Sales Board"},
	BoardRoleLeads:    {"Leads", "Leads Board", "Sales Leads"},
	BoardRoleContacts: {"Contacts Board", "Contacts", "Customer Contacts"},
}

type Board struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Group is a workflow stage container within a board. Group titles are unique
// per board (enforced by the store), which is what makes get-or-create safe.
type Group struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBoard(title string) *Board {
	return &Board{ID: uuid.New().String(), Title: title, CreatedAt: time.Now()}
}

func NewGroup(boardID, title string) *Group {
	return &Group{ID: uuid.New().String(), BoardID: boardID, Title: title, CreatedAt: time.Now()}
}
