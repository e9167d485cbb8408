package entity

// RoleSales marks a user as eligible for inquiry assignment.
const RoleSales = "sales"

// MaxActiveAssignments is the workload ceiling: a rep with this many tasks in
// an active status is not available for new assignments.
const MaxActiveAssignments = 10

// ActiveStatuses are the statuses counted against a rep's workload.
var ActiveStatuses = []Status{StatusNew, StatusAssigned, StatusInProgress}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) IsSalesRep() bool {
	return u.Role == RoleSales
}
