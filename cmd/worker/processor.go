package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-leadflow/internal/leads"
	"github.com/imrishuroy/go-leadflow/internal/logging"
)

// MetricLeadSubmitted is the CloudWatch metric emitted per lead event.
const MetricLeadSubmitted = "LeadSubmitted"

var errUnsupportedEvent = errors.New("unsupported event type")

// counter is satisfied by aws.MetricRecorder.
type counter interface {
	Count(ctx context.Context, metric string, value float64, ts time.Time, dims map[string]string) error
}

// Processor turns lead events from SQS into CloudWatch counters.
type Processor struct {
	metrics counter
	logger  *zap.Logger
}

// NewProcessor creates a processor publishing through metrics.
func NewProcessor(metrics counter, logger *zap.Logger) *Processor {
	return &Processor{metrics: metrics, logger: logging.OrNop(logger)}
}

// Handle processes an SQS batch. Failed messages are reported individually so
// only they are redelivered (and eventually moved to the DLQ).
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.logger.Error("worker error", zap.String("message_id", rec.MessageId), zap.Error(err))
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: rec.MessageId,
			})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg leads.SubmittedEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.Type != leads.EventTypeSubmitted {
		return fmt.Errorf("%w: %q", errUnsupportedEvent, msg.Type)
	}
	if msg.RequestID == "" {
		return errors.New("event has no request_id")
	}

	ts := msg.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	p.logger.Info("lead event received",
		zap.String("request_id", msg.RequestID),
		zap.String("email_domain", msg.EmailDomain),
		zap.String("correlation_id", attribute(rec, "correlation_id")),
	)

	if err := p.metrics.Count(ctx, MetricLeadSubmitted, 1, ts, nil); err != nil {
		return fmt.Errorf("record %s: %w", msg.RequestID, err)
	}
	return nil
}

func attribute(rec events.SQSMessage, name string) string {
	if a, ok := rec.MessageAttributes[name]; ok && a.StringValue != nil {
		return *a.StringValue
	}
	return ""
}
