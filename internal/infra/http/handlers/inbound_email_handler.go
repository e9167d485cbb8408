package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/infra/queue"
)

// InboundEmailHandler accepts parsed messages from the mail-fetching
// collaborator and hands them to the queue. Processing is asynchronous: the
// webhook answers 202 as soon as the message is durably published.
type InboundEmailHandler struct {
	Producer    queue.ProducerInterface
	Log         *zap.Logger
	rateLimiter *RateLimiter
}

func NewInboundEmailHandler(producer queue.ProducerInterface, log *zap.Logger) *InboundEmailHandler {
	return &InboundEmailHandler{
		Producer:    producer,
		Log:         log,
		rateLimiter: NewRateLimiter(60, time.Minute),
	}
}

type InboundEmailRequest struct {
	MessageID   string    `json:"message_id"`
	From        string    `json:"from"`
	SenderEmail string    `json:"sender_email"`
	SenderName  string    `json:"sender_name,omitempty"`
	Subject     string    `json:"subject"`
	Date        time.Time `json:"date"`
	Body        string    `json:"body"`
}

type InboundEmailResponse struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message,omitempty"`
}

func (h *InboundEmailHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, InboundEmailResponse{
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var req InboundEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, InboundEmailResponse{Message: "Invalid JSON"})
		return
	}

	if msg := validateInboundEmail(req); msg != "" {
		writeJSON(w, http.StatusBadRequest, InboundEmailResponse{Message: msg})
		return
	}

	payload := queue.InboundEmailPayload{
		MessageID:   req.MessageID,
		From:        req.From,
		SenderEmail: req.SenderEmail,
		SenderName:  req.SenderName,
		Subject:     req.Subject,
		Date:        req.Date,
		Body:        req.Body,
	}
	if err := h.Producer.PublishInboundEmail(r.Context(), payload); err != nil {
		h.Log.Error("inbound email publish failed",
			zap.String("message_id", req.MessageID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, InboundEmailResponse{
			Message: "Failed to queue message",
		})
		return
	}

	writeJSON(w, http.StatusAccepted, InboundEmailResponse{Queued: true})
}

func validateInboundEmail(req InboundEmailRequest) string {
	if strings.TrimSpace(req.MessageID) == "" {
		return "message_id is required"
	}
	if strings.TrimSpace(req.SenderEmail) == "" {
		return "sender_email is required"
	}
	if _, err := mail.ParseAddress(req.SenderEmail); err != nil {
		return "sender_email is invalid"
	}
	if strings.TrimSpace(req.From) == "" {
		return "from is required"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
