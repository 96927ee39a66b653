package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fundchain/core/events"
	"fundchain/observability"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
	writeTimeout = 5 * time.Second
)

// Record is the persisted form of one ledger event.
type Record struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Sequence   int64     `gorm:"uniqueIndex;not null"`
	Type       string    `gorm:"index;not null"`
	Platform   string    `gorm:"index"`
	Attributes string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"index"`
}

// TableName pins the table name independent of gorm's pluralisation.
func (Record) TableName() string { return "ledger_events" }

// Entry is a decoded event returned by List.
type Entry struct {
	ID         uuid.UUID         `json:"id"`
	Sequence   int64             `json:"sequence"`
	Type       string            `json:"type"`
	Platform   string            `json:"platform,omitempty"`
	Attributes map[string]string `json:"attributes"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Type     string
	Platform string
	After    int64
	Limit    int
}

// Store is an append-only event log. It implements events.Emitter.
type Store struct {
	db     *gorm.DB
	clock  clockwork.Clock
	logger *slog.Logger

	mu   sync.Mutex
	next int64
}

// Open connects to dsn. DSNs starting with postgres:// or postgresql:// use
// the Postgres driver; anything else is treated as a SQLite path or URI.
func Open(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("eventstore: dsn required")
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}

// New migrates the schema and returns a store appending after the highest
// stored sequence.
func New(db *gorm.DB, clock clockwork.Clock, log *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("eventstore: database required")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("eventstore: migrate: %w", err)
	}
	var last struct{ Max int64 }
	if err := db.Model(&Record{}).Select("COALESCE(MAX(sequence), 0) AS max").Scan(&last).Error; err != nil {
		return nil, fmt.Errorf("eventstore: load sequence: %w", err)
	}
	return &Store{db: db, clock: clock, logger: log.With(slog.String("component", "eventstore")), next: last.Max}, nil
}

// Emit persists evt. Failures are logged and counted, never returned.
func (s *Store) Emit(evt events.Event) {
	if s == nil || evt == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.Append(ctx, evt); err != nil {
		observability.Events().RecordFailure(evt.EventType())
		s.logger.Error("persist event", slog.String("type", evt.EventType()), slog.String("error", err.Error()))
		return
	}
	observability.Events().RecordPersisted(evt.EventType())
}

// Append persists evt and returns the first error encountered.
func (s *Store) Append(ctx context.Context, evt events.Event) error {
	attrs := map[string]string{}
	if payload, ok := evt.(events.Payload); ok && payload.Event() != nil {
		for k, v := range payload.Event().Attributes {
			attrs[k] = v
		}
	}
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record := Record{
		ID:         uuid.New(),
		Sequence:   s.next + 1,
		Type:       evt.EventType(),
		Platform:   attrs["platform"],
		Attributes: string(encoded),
		CreatedAt:  s.clock.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	s.next = record.Sequence
	return nil
}

// List returns events in append order.
func (s *Store) List(ctx context.Context, filter Filter) ([]Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	query := s.db.WithContext(ctx).Model(&Record{}).Where("sequence > ?", filter.After)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	var records []Record
	if err := query.Order("sequence ASC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(records))
	for _, record := range records {
		attrs := map[string]string{}
		if err := json.Unmarshal([]byte(record.Attributes), &attrs); err != nil {
			return nil, fmt.Errorf("eventstore: decode %s: %w", record.ID, err)
		}
		out = append(out, Entry{
			ID:         record.ID,
			Sequence:   record.Sequence,
			Type:       record.Type,
			Platform:   record.Platform,
			Attributes: attrs,
			CreatedAt:  record.CreatedAt,
		})
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
