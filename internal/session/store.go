// Package session persists questionnaire submissions and their recommendations
// keyed by session id.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/hairmatch/internal/metrics"
	"github.com/hyperjump/hairmatch/internal/models"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ErrNotFound is returned when no session exists for an id.
var ErrNotFound = errors.New("session not found")

// Session is one questionnaire submission and its outcome.
type Session struct {
	ID              string                  `json:"id"`
	Strategy        string                  `json:"strategy"`
	Answers         models.Answers          `json:"answers"`
	Recommendations []models.Recommendation `json:"recommendations"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// Store persists sessions. Implementations are safe for concurrent use.
type Store interface {
	// Save creates or replaces the session with s.ID. CreatedAt is kept
	// from the first save; UpdatedAt is set on every save.
	Save(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes one session. Deleting an unknown id returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Clear removes every session.
	Clear(ctx context.Context) error
	// Count returns the number of stored sessions.
	Count(ctx context.Context) (int64, error)
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string      `yaml:"backend"` // memory, sqlite, redis; default: memory
	Path    string      `yaml:"path"`    // sqlite database file
	Redis   RedisConfig `yaml:"redis"`
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.Path == "" {
		c.Path = "data/sessions.db"
	}
	c.Redis.ApplyDefaults()
}

// New opens the configured backend. Every operation on the returned store is
// recorded in metrics.
func New(cfg Config) (Store, error) {
	cfg.ApplyDefaults()
	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case BackendMemory:
		store = NewMemoryStore()
	case BackendSQLite:
		store, err = NewSQLiteStore(cfg.Path)
	case BackendRedis:
		store, err = NewRedisStore(cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s session store: %w", cfg.Backend, err)
	}
	return Instrument(cfg.Backend, store), nil
}

// Instrument wraps store so each operation is counted under backend.
func Instrument(backend string, store Store) Store {
	return &instrumented{backend: backend, next: store}
}

type instrumented struct {
	backend string
	next    Store
}

// record counts err as success when it is ErrNotFound; a miss is a normal answer.
func (s *instrumented) record(op string, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.RecordSessionOperation(s.backend, op, err)
}

func (s *instrumented) Save(ctx context.Context, sess *Session) error {
	err := s.next.Save(ctx, sess)
	s.record("save", err)
	return err
}

func (s *instrumented) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.next.Get(ctx, id)
	s.record("get", err)
	return sess, err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	err := s.next.Delete(ctx, id)
	s.record("delete", err)
	return err
}

func (s *instrumented) Clear(ctx context.Context) error {
	err := s.next.Clear(ctx)
	s.record("clear", err)
	return err
}

func (s *instrumented) Count(ctx context.Context) (int64, error) {
	n, err := s.next.Count(ctx)
	s.record("count", err)
	return n, err
}

func (s *instrumented) Close() error {
	return s.next.Close()
}

// stamp sets UpdatedAt and fills CreatedAt when the session is new.
func stamp(s *Session, created time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		created = now
	}
	s.CreatedAt = created
	s.UpdatedAt = now
}
