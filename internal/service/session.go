package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/print-order-service/internal/logger"
	"github.com/guttosm/print-order-service/internal/ordering"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionService starts and looks up order-assembly sessions.
type SessionService interface {
	Start(ctx context.Context) (string, *ordering.Machine, error)
	Get(id string) (*ordering.Machine, error)
	Discard(id string) error
	Stats() SessionStats
}

// SessionConfig holds what every new session is built with.
type SessionConfig struct {
	Collaborators ordering.Collaborators
	UploadPolicy  ordering.UploadPolicy
	// Clock overrides time.Now in new machines.
	Clock func() time.Time
}

// SessionServiceImpl implements SessionService on a SessionStore.
type SessionServiceImpl struct {
	store     *SessionStore
	prices    PriceTableService
	cfg       SessionConfig
	validator *ordering.CustomerValidator
	newID     func() string
}

// NewSessionService creates a session service. Each session is priced with
// the table that was active when it started.
func NewSessionService(store *SessionStore, prices PriceTableService, cfg SessionConfig) *SessionServiceImpl {
	if cfg.UploadPolicy.MaxBytes <= 0 {
		cfg.UploadPolicy.MaxBytes = ordering.DefaultMaxUploadBytes
	}
	return &SessionServiceImpl{
		store:     store,
		prices:    prices,
		cfg:       cfg,
		validator: ordering.NewCustomerValidator(),
		newID:     uuid.NewString,
	}
}

// Start creates a session at the Upload step.
func (s *SessionServiceImpl) Start(ctx context.Context) (string, *ordering.Machine, error) {
	calc, err := s.prices.Calculator(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("start session: %w", err)
	}

	id := s.newID()
	opts := []ordering.Option{
		ordering.WithCollaborators(s.cfg.Collaborators),
		ordering.WithUploadPolicy(s.cfg.UploadPolicy),
		ordering.WithCustomerValidator(s.validator),
		ordering.WithSessionID(id),
	}
	if s.cfg.Clock != nil {
		opts = append(opts, ordering.WithClock(s.cfg.Clock))
	}

	m := ordering.NewMachine(calc, opts...)
	s.store.Put(id, m)

	log := logger.ForSession(id)
	log.Debug().Int("price_table_version", calc.Table().Version).
		Msg("Session started")
	return id, m, nil
}

// Get returns the session's machine.
func (s *SessionServiceImpl) Get(id string) (*ordering.Machine, error) {
	m, ok := s.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return m, nil
}

// Discard drops a session.
func (s *SessionServiceImpl) Discard(id string) error {
	if !s.store.Delete(id) {
		return ErrSessionNotFound
	}
	return nil
}

// Stats reports session store activity.
func (s *SessionServiceImpl) Stats() SessionStats {
	return s.store.Stats()
}
