package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-leadflow/internal/aws"
	"github.com/imrishuroy/go-leadflow/internal/leads"
	"github.com/imrishuroy/go-leadflow/internal/logging"
)

// collectionItem is the single DynamoDB item holding a whole collection.
type collectionItem struct {
	Collection string       `dynamodbav:"collection"` // PK
	Records    []leads.Lead `dynamodbav:"records"`
	UpdatedAt  time.Time    `dynamodbav:"updated_at"`
}

// DynamoStore keeps the collection as one item so every save is a single atomic PutItem.
// The item size limit (400 KB) bounds how many leads fit.
type DynamoStore struct {
	client     aws.DynamoDBAPI
	tableName  string
	collection string
	logger     *zap.Logger
	nowFunc    func() time.Time

	initMu      sync.Mutex
	initialized bool
}

// NewDynamoStore creates a store for collection inside tableName.
func NewDynamoStore(client aws.DynamoDBAPI, tableName, collection string, logger *zap.Logger) *DynamoStore {
	return &DynamoStore{
		client:     client,
		tableName:  tableName,
		collection: collection,
		logger:     logging.OrNop(logger),
		nowFunc:    time.Now,
	}
}

// Load fetches the collection item. A missing item or one that cannot be
// decoded yields an empty collection; API failures are returned.
func (s *DynamoStore) Load(ctx context.Context) ([]leads.Lead, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            s.key(),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get item: %w", ErrStore, err)
	}
	if len(out.Item) == 0 {
		return []leads.Lead{}, nil
	}

	var item collectionItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		s.logger.Warn("corrupt collection item, continuing with an empty collection",
			zap.String("table", s.tableName), zap.String("collection", s.collection), zap.Error(err))
		return []leads.Lead{}, nil
	}
	return nonNil(item.Records), nil
}

// Save replaces the collection item.
func (s *DynamoStore) Save(ctx context.Context, records []leads.Lead) error {
	item, err := s.marshal(records)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("%w: put item: %w", ErrStore, err)
	}
	return nil
}

// Close is a no-op; the SDK client has no connection to release.
func (s *DynamoStore) Close() error { return nil }

// ensureInitialized writes an empty collection unless one already exists.
func (s *DynamoStore) ensureInitialized(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.initialized {
		return nil
	}

	item, err := s.marshal(nil)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
		// COLLECTION is a DynamoDB reserved word
		ConditionExpression:      awsString("attribute_not_exists(#c)"),
		ExpressionAttributeNames: map[string]string{"#c": "collection"},
	})
	if err != nil {
		var apiErr smithy.APIError
		if !errors.As(err, &apiErr) || apiErr.ErrorCode() != "ConditionalCheckFailedException" {
			return fmt.Errorf("%w: initialize collection: %w", ErrStore, err)
		}
	} else {
		s.logger.Info("initialized empty collection",
			zap.String("table", s.tableName), zap.String("collection", s.collection))
	}
	s.initialized = true
	return nil
}

func (s *DynamoStore) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"collection": &types.AttributeValueMemberS{Value: s.collection},
	}
}

func (s *DynamoStore) marshal(records []leads.Lead) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(collectionItem{
		Collection: s.collection,
		Records:    nonNil(records),
		UpdatedAt:  s.nowFunc().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal collection: %w", ErrStore, err)
	}
	return item, nil
}

func awsString(s string) *string { return &s }

func awsBool(b bool) *bool { return &b }
