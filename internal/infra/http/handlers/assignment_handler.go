package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ManualAssigner is the usecase contract: a boolean outcome, never an error,
// so the UI can branch on feedback.
type ManualAssigner interface {
	Execute(ctx context.Context, taskID, repID, assignedBy string) bool
}

type AssignmentHandler struct {
	Assigner ManualAssigner
}

func NewAssignmentHandler(assigner ManualAssigner) *AssignmentHandler {
	return &AssignmentHandler{Assigner: assigner}
}

type ManualAssignRequest struct {
	RepID      string `json:"rep_id"`
	AssignedBy string `json:"assigned_by"`
}

type ManualAssignResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (h *AssignmentHandler) Handle(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var req ManualAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ManualAssignResponse{Message: "Invalid JSON"})
		return
	}
	if strings.TrimSpace(req.RepID) == "" {
		writeJSON(w, http.StatusBadRequest, ManualAssignResponse{Message: "rep_id is required"})
		return
	}
	if strings.TrimSpace(req.AssignedBy) == "" {
		writeJSON(w, http.StatusBadRequest, ManualAssignResponse{Message: "assigned_by is required"})
		return
	}

	if !h.Assigner.Execute(r.Context(), taskID, req.RepID, req.AssignedBy) {
		writeJSON(w, http.StatusUnprocessableEntity, ManualAssignResponse{
			Message: "Assignment failed; check task and rep ids",
		})
		return
	}

	writeJSON(w, http.StatusOK, ManualAssignResponse{Success: true})
}
