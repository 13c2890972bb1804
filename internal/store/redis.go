package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-leadflow/internal/leads"
	"github.com/imrishuroy/go-leadflow/internal/logging"
)

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a client and verifies the connection.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// RedisStore keeps the collection as a JSON array under one key.
type RedisStore struct {
	client  *redis.Client
	key     string
	logger  *zap.Logger
	nowFunc func() time.Time

	initMu      sync.Mutex
	initialized bool
}

// NewRedisStore creates a store on key. The store owns client and closes it.
func NewRedisStore(client *redis.Client, key string, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client:  client,
		key:     key,
		logger:  logging.OrNop(logger),
		nowFunc: time.Now,
	}
}

// Load reads the collection. A missing key or an undecodable value yields an
// empty collection; an undecodable value is renamed aside first.
func (s *RedisStore) Load(ctx context.Context) ([]leads.Lead, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []leads.Lead{}, nil
		}
		return nil, fmt.Errorf("%w: get %s: %w", ErrStore, s.key, err)
	}

	var records []leads.Lead
	if err := json.Unmarshal(data, &records); err != nil {
		s.quarantine(ctx, err)
		return []leads.Lead{}, nil
	}
	return nonNil(records), nil
}

// Save replaces the value under the key.
func (s *RedisStore) Save(ctx context.Context, records []leads.Lead) error {
	data, err := json.Marshal(nonNil(records))
	if err != nil {
		return fmt.Errorf("%w: marshal records: %w", ErrStore, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrStore, s.key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) ensureInitialized(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.initialized {
		return nil
	}
	created, err := s.client.SetNX(ctx, s.key, "[]", 0).Result()
	if err != nil {
		return fmt.Errorf("%w: initialize %s: %w", ErrStore, s.key, err)
	}
	if created {
		s.logger.Info("initialized empty collection", zap.String("key", s.key))
	}
	s.initialized = true
	return nil
}

func (s *RedisStore) quarantine(ctx context.Context, cause error) {
	dst := fmt.Sprintf("%s:corrupt:%d", s.key, s.nowFunc().Unix())
	if err := s.client.Rename(ctx, s.key, dst).Err(); err != nil {
		s.logger.Error("corrupt collection could not be moved aside",
			zap.String("key", s.key), zap.NamedError("cause", cause), zap.Error(err))
		return
	}
	s.logger.Warn("corrupt collection moved aside, continuing with an empty collection",
		zap.String("key", s.key), zap.String("moved_to", dst), zap.Error(cause))
}
