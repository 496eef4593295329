package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inkwellcms/seckit/pkg/clientip"
)

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// Logger records audit events.
type Logger interface {
	// Log records a successful action.
	Log(ctx context.Context, action string, opts ...EventOption) error

	// LogDenied records a rejected action (authorization, CSRF,
	// rate limit).
	LogDenied(ctx context.Context, action string, opts ...EventOption) error

	// LogError records an action that failed with an error.
	LogError(ctx context.Context, action string, err error, opts ...EventOption) error
}

type logger struct {
	storage Storage
}

// NewLogger creates an audit logger over the given storage.
// Panics if storage is nil to fail fast on misconfiguration.
func NewLogger(storage Storage) Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	return &logger{storage: storage}
}

func (l *logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	return l.store(ctx, action, ResultSuccess, "", opts)
}

func (l *logger) LogDenied(ctx context.Context, action string, opts ...EventOption) error {
	return l.store(ctx, action, ResultDenied, "", opts)
}

func (l *logger) LogError(ctx context.Context, action string, err error, opts ...EventOption) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return l.store(ctx, action, ResultError, msg, opts)
}

func (l *logger) store(ctx context.Context, action string, result Result, errMsg string, opts []EventOption) error {
	event := Event{
		ID:        uuid.New().String(),
		Action:    action,
		Result:    result,
		Error:     errMsg,
		CreatedAt: time.Now(),
	}

	if ip := clientip.GetIPFromContext(ctx); ip != "" {
		event.IP = ip
	}

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}

	return l.storage.Store(ctx, event)
}

// SlogStorage writes audit events to a structured logger. Denied and
// errored events surface as warnings so abuse monitoring can alert on
// them.
type SlogStorage struct {
	log *slog.Logger
}

// NewSlogStorage creates a slog-backed audit sink. A nil logger uses
// slog.Default.
func NewSlogStorage(log *slog.Logger) *SlogStorage {
	if log == nil {
		log = slog.Default()
	}
	return &SlogStorage{log: log}
}

// Store writes the event as one structured log record.
func (s *SlogStorage) Store(ctx context.Context, event Event) error {
	attrs := []any{
		"audit_id", event.ID,
		"action", event.Action,
		"result", string(event.Result),
	}
	if event.UserID != "" {
		attrs = append(attrs, "user_id", event.UserID)
	}
	if event.IP != "" {
		attrs = append(attrs, "ip", event.IP)
	}
	if event.Path != "" {
		attrs = append(attrs, "path", event.Path)
	}
	if event.Error != "" {
		attrs = append(attrs, "error", event.Error)
	}
	for k, v := range event.Metadata {
		attrs = append(attrs, k, v)
	}

	if event.Result == ResultSuccess {
		s.log.InfoContext(ctx, "audit event", attrs...)
	} else {
		s.log.WarnContext(ctx, "audit event", attrs...)
	}
	return nil
}
