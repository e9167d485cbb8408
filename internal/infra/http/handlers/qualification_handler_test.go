package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbaliester/flowdesk/internal/entity"
	"github.com/rbaliester/flowdesk/internal/usecase"
)

type stubQualifier struct {
	contact *entity.Task
	err     error

	leadTaskID string
	data       usecase.QualificationData
}

func (s *stubQualifier) Execute(ctx context.Context, leadTaskID string, data usecase.QualificationData) (*entity.Task, error) {
	s.leadTaskID = leadTaskID
	s.data = data
	return s.contact, s.err
}

func postQualification(qualifier *stubQualifier, taskID, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Post("/leads/{taskID}/qualify", NewQualificationHandler(qualifier).Handle)

	req := httptest.NewRequest(http.MethodPost, "/leads/"+taskID+"/qualify", strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestQualificationHandlerSuccess(t *testing.T) {
	qualifier := &stubQualifier{contact: &entity.Task{ID: "c-1"}}

	rr := postQualification(qualifier, "lead-1", `{"qualified_by":"rep-1","notes":"budget approved"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "lead-1", qualifier.leadTaskID)
	assert.Equal(t, "budget approved", qualifier.data.Notes)

	var resp QualifyLeadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "c-1", resp.ContactTaskID)
}

func TestQualificationHandlerRequiresQualifiedBy(t *testing.T) {
	rr := postQualification(&stubQualifier{}, "lead-1", `{"notes":"no author"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestQualificationHandlerLeadNotFound(t *testing.T) {
	qualifier := &stubQualifier{err: &usecase.DomainError{Code: "LEAD_NOT_FOUND", Message: "lead task not found: lead-1"}}

	rr := postQualification(qualifier, "lead-1", `{"qualified_by":"rep-1"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQualificationHandlerAlreadyQualified(t *testing.T) {
	qualifier := &stubQualifier{err: &usecase.DomainError{Code: "LEAD_ALREADY_QUALIFIED", Message: "lead is already qualified"}}

	rr := postQualification(qualifier, "lead-1", `{"qualified_by":"rep-1"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestQualificationHandlerTechnicalFailure(t *testing.T) {
	qualifier := &stubQualifier{err: errors.New("store unavailable")}

	rr := postQualification(qualifier, "lead-1", `{"qualified_by":"rep-1"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
