package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rbaliester/flowdesk/internal/entity"
	"github.com/rbaliester/flowdesk/internal/usecase"
)

type LeadQualifier interface {
	Execute(ctx context.Context, leadTaskID string, data usecase.QualificationData) (*entity.Task, error)
}

type QualificationHandler struct {
	Qualifier LeadQualifier
}

func NewQualificationHandler(qualifier LeadQualifier) *QualificationHandler {
	return &QualificationHandler{Qualifier: qualifier}
}

type QualifyLeadResponse struct {
	ContactTaskID string `json:"contact_task_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

func (h *QualificationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	leadTaskID := chi.URLParam(r, "taskID")

	var data usecase.QualificationData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeJSON(w, http.StatusBadRequest, QualifyLeadResponse{Message: "Invalid JSON"})
		return
	}
	if strings.TrimSpace(data.QualifiedBy) == "" {
		writeJSON(w, http.StatusBadRequest, QualifyLeadResponse{Message: "qualified_by is required"})
		return
	}

	contact, err := h.Qualifier.Execute(r.Context(), leadTaskID, data)
	if err != nil {
		if derr, ok := err.(*usecase.DomainError); ok {
			status := http.StatusConflict
			if derr.Code == "LEAD_NOT_FOUND" {
				status = http.StatusNotFound
			}
			writeJSON(w, status, QualifyLeadResponse{Message: derr.Message})
			return
		}
		writeJSON(w, http.StatusInternalServerError, QualifyLeadResponse{Message: "Qualification failed"})
		return
	}

	writeJSON(w, http.StatusCreated, QualifyLeadResponse{ContactTaskID: contact.ID})
}
