package leads

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-leadflow/internal/logging"
	"github.com/imrishuroy/go-leadflow/internal/metrics"
	"github.com/imrishuroy/go-leadflow/internal/validation"
)

// DefaultDuplicateWindow is how long an email is blocked after a submission.
const DefaultDuplicateWindow = 24 * time.Hour

// statisticsWindow bounds the Last24Hours counter.
const statisticsWindow = 24 * time.Hour

// Store persists the whole lead collection. Implementations live in internal/store.
type Store interface {
	Load(ctx context.Context) ([]Lead, error)
	Save(ctx context.Context, records []Lead) error
}

// EventPublisher announces stored leads to downstream consumers.
type EventPublisher interface {
	PublishLeadSubmitted(ctx context.Context, lead Lead) error
}

// Service implements lead submission and management on top of a Store.
type Service struct {
	store     Store
	publisher EventPublisher
	validate  *validatorv10.Validate
	metrics   *metrics.Metrics
	logger    *zap.Logger
	window    time.Duration
	nowFunc   func() time.Time

	// writeMu serializes read-modify-write cycles against the store.
	writeMu sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher enables lead-submitted events.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics records submission outcomes and store failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

// WithDuplicateWindow overrides DefaultDuplicateWindow.
func WithDuplicateWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.nowFunc = now }
}

// NewService creates a Service backed by store.
func NewService(store Store, opts ...Option) *Service {
	v := validation.New()
	validation.RegisterStatus(v, func(raw string) bool { return Status(raw).Valid() })

	s := &Service{
		store:    store,
		validate: v,
		logger:   zap.NewNop(),
		window:   DefaultDuplicateWindow,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates a form submission, enforces duplicate suppression and stores a new pending lead.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Lead, error) {
	in = SubmitInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Company: strings.TrimSpace(in.Company),
		Message: strings.TrimSpace(in.Message),
	}
	if err := s.validate.Struct(in); err != nil {
		s.metrics.ObserveSubmission(metrics.ResultInvalid)
		return nil, &ValidationError{Message: validation.Message(err)}
	}

	var lead Lead
	err := s.mutate(ctx, func(records []Lead) ([]Lead, error) {
		now := s.nowFunc()
		if hasRecentSubmission(records, in.Email, now.Add(-s.window)) {
			return nil, ErrDuplicate
		}
		lead = Lead{
			ID:        NewID(now),
			Name:      in.Name,
			Email:     in.Email,
			Company:   in.Company,
			Message:   in.Message,
			Status:    StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return append(records, lead), nil
	})
	switch {
	case errors.Is(err, ErrDuplicate):
		s.metrics.ObserveSubmission(metrics.ResultDuplicate)
		s.logger.Info("duplicate submission rejected", zap.String("email_domain", EmailDomain(in.Email)))
		return nil, err
	case err != nil:
		s.metrics.ObserveSubmission(metrics.ResultError)
		return nil, err
	}

	s.metrics.ObserveSubmission(metrics.ResultCreated)
	s.logger.Info("lead submitted",
		zap.String("id", lead.ID),
		zap.String("email_domain", EmailDomain(lead.Email)),
	)

	if s.publisher != nil {
		if perr := s.publisher.PublishLeadSubmitted(ctx, lead); perr != nil {
			s.logger.Warn("publish lead event failed", zap.String("id", lead.ID), zap.Error(perr))
		}
	}
	return &lead, nil
}

// List returns every lead, newest first.
func (s *Service) List(ctx context.Context) ([]Lead, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	// reversing first keeps later insertions ahead on equal timestamps
	slices.Reverse(records)
	slices.SortStableFunc(records, func(a, b Lead) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return records, nil
}

// Get returns the lead with the given id.
func (s *Service) Get(ctx context.Context, id string) (*Lead, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &records[i], nil
}

// Update applies a partial status/notes update.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Lead, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, &ValidationError{Message: validation.Message(err)}
	}

	var updated Lead
	err := s.mutate(ctx, func(records []Lead) ([]Lead, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		rec := &records[i]
		now := s.nowFunc()
		if now.Before(rec.CreatedAt) {
			now = rec.CreatedAt
		}

		if in.Status != nil && *in.Status != "" {
			status, err := ParseStatus(*in.Status)
			if err != nil {
				return nil, err
			}
			rec.Status = status
			switch status {
			case StatusContacted:
				contactedAt := now
				rec.ContactedAt = &contactedAt
			case StatusPending, StatusCompleted, StatusRejected:
				// contactedAt keeps whatever was recorded before
			}
		}
		if in.Notes != nil {
			rec.Notes = *in.Notes
		}
		rec.UpdatedAt = now
		updated = *rec
		return records, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead updated", zap.String("id", id), zap.String("status", string(updated.Status)))
	return &updated, nil
}

// Delete removes the lead with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.mutate(ctx, func(records []Lead) ([]Lead, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		return slices.Delete(records, i, i+1), nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("lead deleted", zap.String("id", id))
	return nil
}

// Statistics counts leads per status and those created in the last 24 hours.
// Total and Last24Hours cover every record. A record with an unknown status can
// only come from a manual edit of the store; it is logged and left out of the
// per-status counts.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.nowFunc().Add(-statisticsWindow)
	var st Statistics
	for _, r := range records {
		st.Total++
		if r.CreatedAt.After(cutoff) {
			st.Last24Hours++
		}
		switch r.Status {
		case StatusPending:
			st.Pending++
		case StatusContacted:
			st.Contacted++
		case StatusCompleted:
			st.Completed++
		case StatusRejected:
			st.Rejected++
		default:
			s.logger.Warn("lead has unknown status", zap.String("id", r.ID), zap.String("status", string(r.Status)))
		}
	}
	return &st, nil
}

func (s *Service) load(ctx context.Context) ([]Lead, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.ObserveStoreError("load")
		return nil, fmt.Errorf("load requests: %w", err)
	}
	return records, nil
}

// mutate loads the collection, applies fn and saves the result. An error from
// fn aborts without writing.
func (s *Service) mutate(ctx context.Context, fn func([]Lead) ([]Lead, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, next); err != nil {
		s.metrics.ObserveStoreError("save")
		return fmt.Errorf("save requests: %w", err)
	}
	return nil
}

func hasRecentSubmission(records []Lead, email string, cutoff time.Time) bool {
	for _, r := range records {
		if strings.EqualFold(r.Email, email) && r.CreatedAt.After(cutoff) {
			return true
		}
	}
	return false
}

func indexOf(records []Lead, id string) int {
	return slices.IndexFunc(records, func(r Lead) bool { return r.ID == id })
}

// EmailDomain returns the lowercased domain part of an address, used in logs
// and events instead of the full address.
func EmailDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return strings.ToLower(email[i+1:])
	}
	return ""
}
