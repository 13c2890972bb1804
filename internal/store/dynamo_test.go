package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDynamoStore_LazyInitAndRoundTrip(t *testing.T) {
	mock := newSimpleMock()
	s := NewDynamoStore(mock, "leads", "requests", zaptest.NewLogger(t))
	ctx := context.Background()

	require.Equal(t, 0, mock.putCalls, "constructor must not call DynamoDB")

	records, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, mock.putCalls, "first access writes the empty collection")
	require.Contains(t, mock.table, "requests")

	want := sampleLeads()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[0].ID, got[0].ID)
	assert.Equal(t, want[1].Status, got[1].Status)
	assert.Equal(t, "called back", got[1].Notes)
	require.NotNil(t, got[1].ContactedAt)
	assert.True(t, want[1].ContactedAt.Equal(*got[1].ContactedAt))
	assert.Nil(t, got[0].ContactedAt)

	// init happens only once per store
	assert.Equal(t, 2, mock.putCalls)
}

func TestDynamoStore_InitKeepsExistingCollection(t *testing.T) {
	mock := newSimpleMock()
	ctx := context.Background()

	first := NewDynamoStore(mock, "leads", "requests", nil)
	require.NoError(t, first.Save(ctx, sampleLeads()))

	// a fresh store (e.g. a new Lambda instance) hits the conditional failure and keeps the data
	second := NewDynamoStore(mock, "leads", "requests", nil)
	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDynamoStore_CorruptItemDegradesToEmpty(t *testing.T) {
	mock := newSimpleMock()
	mock.table["requests"] = map[string]types.AttributeValue{
		"collection": &types.AttributeValueMemberS{Value: "requests"},
		"records":    &types.AttributeValueMemberS{Value: "not a list"},
	}

	s := NewDynamoStore(mock, "leads", "requests", zaptest.NewLogger(t))
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDynamoStore_APIErrorsSurface(t *testing.T) {
	mock := newSimpleMock()
	mock.failWith = errors.New("connection reset")
	s := NewDynamoStore(mock, "leads", "requests", nil)
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ErrStore)

	err = s.Save(ctx, sampleLeads())
	require.ErrorIs(t, err, ErrStore)
	assert.Contains(t, err.Error(), "connection reset")
}
