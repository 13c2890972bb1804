package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-leadflow/internal/leads"
)

type mockSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestPublishLeadSubmitted(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.local/leads")

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	lead := leads.Lead{
		ID:        "REQ-1-abc",
		Name:      "Jane",
		Email:     "jane@Acme.io",
		Company:   "Acme",
		Message:   "Need a CRM",
		Status:    leads.StatusPending,
		CreatedAt: created,
		UpdatedAt: created,
	}

	ctx := WithCorrelationID(context.Background(), "corr-1")
	require.NoError(t, p.PublishLeadSubmitted(ctx, lead))
	require.Len(t, mock.inputs, 1)

	in := mock.inputs[0]
	assert.Equal(t, "https://sqs.local/leads", *in.QueueUrl)

	var ev leads.SubmittedEvent
	require.NoError(t, json.Unmarshal([]byte(*in.MessageBody), &ev))
	assert.Equal(t, leads.EventTypeSubmitted, ev.Type)
	assert.Equal(t, "REQ-1-abc", ev.RequestID)
	assert.Equal(t, "acme.io", ev.EmailDomain)
	assert.True(t, ev.CreatedAt.Equal(created))
	assert.NotContains(t, *in.MessageBody, "Need a CRM")

	assert.Equal(t, "REQ-1-abc", *in.MessageAttributes["request_id"].StringValue)
	assert.Equal(t, "corr-1", *in.MessageAttributes["correlation_id"].StringValue)
	assert.Equal(t, "String", *in.MessageAttributes["event_type"].DataType)
}

func TestPublishLeadSubmitted_NoCorrelation(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "q")

	require.NoError(t, p.PublishLeadSubmitted(context.Background(), leads.Lead{ID: "REQ-2-x", Email: "a@b.co"}))
	_, ok := mock.inputs[0].MessageAttributes["correlation_id"]
	assert.False(t, ok)
}

func TestSendMessage_Error(t *testing.T) {
	p := NewPublisher(&mockSQS{err: errors.New("throttled")}, "q")

	err := p.SendMessage(context.Background(), "{}", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestMetricRecorder_Count(t *testing.T) {
	mock := &mockCloudWatch{}
	r := NewMetricRecorder(mock, "LeadFlow")

	ts := time.Now()
	require.NoError(t, r.Count(context.Background(), "LeadSubmitted", 1, ts, map[string]string{"EmailDomain": "acme.io"}))
	require.Len(t, mock.inputs, 1)

	in := mock.inputs[0]
	assert.Equal(t, "LeadFlow", *in.Namespace)
	require.Len(t, in.MetricData, 1)
	datum := in.MetricData[0]
	assert.Equal(t, "LeadSubmitted", *datum.MetricName)
	assert.Equal(t, 1.0, *datum.Value)
	require.Len(t, datum.Dimensions, 1)
	assert.Equal(t, "EmailDomain", *datum.Dimensions[0].Name)
	assert.Equal(t, "acme.io", *datum.Dimensions[0].Value)
}
