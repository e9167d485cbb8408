package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/infra/queue"
)

type stubProducer struct {
	published []queue.InboundEmailPayload
	err       error
}

func (s *stubProducer) PublishInboundEmail(ctx context.Context, payload queue.InboundEmailPayload) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, payload)
	return nil
}

func postInboundEmail(h *InboundEmailHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/inbound/emails", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:51234"
	rr := httptest.NewRecorder()
	h.Handle(rr, req)
	return rr
}

func validInboundBody() string {
	return `{
		"message_id": "<m-1@globex.com>",
		"from": "\"Jane Smith\" <jane@globex.com>",
		"sender_email": "jane@globex.com",
		"subject": "Tank cleaning services needed",
		"body": "two tanks"
	}`
}

func TestInboundEmailHandlerQueuesMessage(t *testing.T) {
	producer := &stubProducer{}
	h := NewInboundEmailHandler(producer, zap.NewNop())

	rr := postInboundEmail(h, validInboundBody())

	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, producer.published, 1)
	assert.Equal(t, "<m-1@globex.com>", producer.published[0].MessageID)
	assert.Equal(t, "jane@globex.com", producer.published[0].SenderEmail)

	var resp InboundEmailResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Queued)
}

func TestInboundEmailHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", "{", "Invalid JSON"},
		{"missing message id", `{"from":"a <a@b.com>","sender_email":"a@b.com"}`, "message_id is required"},
		{"missing sender email", `{"message_id":"<m>","from":"a <a@b.com>"}`, "sender_email is required"},
		{"bad sender email", `{"message_id":"<m>","from":"a","sender_email":"not-an-address"}`, "sender_email is invalid"},
		{"missing from", `{"message_id":"<m>","sender_email":"a@b.com"}`, "from is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			producer := &stubProducer{}
			rr := postInboundEmail(NewInboundEmailHandler(producer, zap.NewNop()), tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, producer.published)

			var resp InboundEmailResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Message)
		})
	}
}

func TestInboundEmailHandlerPublishFailure(t *testing.T) {
	producer := &stubProducer{err: errors.New("channel closed")}
	rr := postInboundEmail(NewInboundEmailHandler(producer, zap.NewNop()), validInboundBody())

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestInboundEmailHandlerRateLimit(t *testing.T) {
	producer := &stubProducer{}
	h := NewInboundEmailHandler(producer, zap.NewNop())

	var last *httptest.ResponseRecorder
	for i := 0; i < 61; i++ {
		last = postInboundEmail(h, validInboundBody())
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Len(t, producer.published, 60)
}
