package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/rbaliester/flowdesk/internal/entity"
	"github.com/rbaliester/flowdesk/internal/infra/http/middleware"
	"github.com/rbaliester/flowdesk/internal/usecase"
)

// InquiryPipeline is what the worker drives per message.
type InquiryPipeline interface {
	Execute(ctx context.Context, email entity.InboundEmail) (*usecase.ProcessResult, error)
}

// Worker consumes parsed inbound emails and runs the pipeline once per
// message. Acking is manual: a malformed payload or a critical-path pipeline
// failure is Nacked without requeue, which routes it to the DLQ. Downstream
// enrichment failures never reach this layer. The pipeline fails forward and
// still returns success.
type Worker struct {
	Channel  *amqp.Channel
	Pipeline InquiryPipeline
	Log      *zap.Logger
}

func NewWorker(ch *amqp.Channel, pipeline InquiryPipeline, log *zap.Logger) *Worker {
	return &Worker{Channel: ch, Pipeline: pipeline, Log: log}
}

func (w *Worker) Start(queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	w.Log.Info("inquiry worker consuming", zap.String("queue", queueName))

	for d := range msgs {
		if w.handleDelivery(d.Body) {
			d.Ack(false)
		} else {
			d.Nack(false, false)
		}
	}
	return nil
}

// handleDelivery reports whether the message should be acked.
func (w *Worker) handleDelivery(body []byte) bool {
	var payload InboundEmailPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		w.Log.Error("malformed inbound email payload", zap.Error(err))
		middleware.RecordEmailProcessed("malformed")
		return false
	}

	email := entity.InboundEmail{
		MessageID:   payload.MessageID,
		From:        payload.From,
		SenderEmail: payload.SenderEmail,
		SenderName:  payload.SenderName,
		Subject:     payload.Subject,
		Date:        payload.Date,
		Body:        payload.Body,
	}

	result, err := w.Pipeline.Execute(context.Background(), email)
	if err != nil {
		w.Log.Error("pipeline failed on critical path",
			zap.String("message_id", payload.MessageID),
			zap.String("sender", payload.SenderEmail),
			zap.Error(err))
		middleware.RecordEmailProcessed("failed")
		return false
	}

	w.Log.Info("inbound email processed",
		zap.String("message_id", payload.MessageID),
		zap.String("task_id", result.TaskID),
		zap.String("inquiry_id", result.InquiryID),
		zap.String("status", string(result.Status)),
		zap.Bool("contact_matched", result.ContactMatched))
	middleware.RecordEmailProcessed("ok")
	middleware.RecordAssignment(string(result.Status))
	if result.LeadTaskID != "" {
		middleware.RecordLeadCreated()
	}
	return true
}
