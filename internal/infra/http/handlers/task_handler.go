package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/usecase"
)

// TaskHandler serves the operator audit surface: the task itself and its
// activity trail.
type TaskHandler struct {
	Tasks      usecase.TaskRepositoryInterface
	Activities usecase.ActivityRepositoryInterface
	Log        *zap.Logger
}

func NewTaskHandler(tasks usecase.TaskRepositoryInterface, activities usecase.ActivityRepositoryInterface, log *zap.Logger) *TaskHandler {
	return &TaskHandler{Tasks: tasks, Activities: activities, Log: log}
}

func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := h.Tasks.FindByID(r.Context(), taskID)
	if err != nil {
		h.Log.Error("task lookup failed", zap.String("task_id", taskID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "lookup failed"})
		return
	}
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "task not found"})
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) HandleActivities(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	records, err := h.Activities.ListByTask(r.Context(), taskID)
	if err != nil {
		h.Log.Error("activity list failed", zap.String("task_id", taskID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "lookup failed"})
		return
	}

	writeJSON(w, http.StatusOK, records)
}
