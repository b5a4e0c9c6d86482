// Package subscribe captures leads and forwards them to the ledger and notification sinks.
//
// Accepting the lead is decoupled from delivering it: once the input is valid the visitor is told
// the subscription succeeded, whatever the sinks do.
package subscribe

import (
	"context"
	"fmt"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/i18n"
	"github.com/ceotarot/ceotarot/internal/logging"
	"github.com/ceotarot/ceotarot/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"strings"
	"time"
)

// DefaultSinkTimeout bounds one outbound sink call.
const DefaultSinkTimeout = 5 * time.Second

// Sink is a downstream delivery target that can be switched off by configuration.
type Sink interface {
	// Name identifies the sink in logs and traces.
	Name() string
	// Configured reports whether the sink has the credentials it needs.
	Configured() bool
}

// Ledger appends leads to an external tabular store.
type Ledger interface {
	Sink
	Append(ctx context.Context, lead models.Lead) error
}

// Notifier sends the confirmation email for a lead.
type Notifier interface {
	Sink
	Notify(ctx context.Context, lead models.Lead) error
}

// Request is the submitted name and email.
type Request struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Result is returned to the visitor once per request.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Service struct {
	ledger   Ledger
	notifier Notifier
	logger   *slog.Logger
	timeout  time.Duration
	now      func() time.Time
	tracer   trace.Tracer
}

type Option func(*Service)

// WithSinkTimeout overrides [DefaultSinkTimeout]. Non-positive values are ignored.
func WithSinkTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock overrides the clock used for lead timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the subscription service. Either sink may be nil, which is the same as
// an unconfigured sink.
func NewService(ledger Ledger, notifier Notifier, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		ledger:   ledger,
		notifier: notifier,
		logger:   logger.With(slog.String("source", "subscribe.Service")),
		timeout:  DefaultSinkTimeout,
		now:      time.Now,
		tracer:   otel.Tracer("github.com/ceotarot/ceotarot/internal/subscribe"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func configured(sink Sink) bool {
	return sink != nil && sink.Configured()
}

// LedgerConfigured reports whether leads are appended to a ledger.
func (s *Service) LedgerConfigured() bool {
	return configured(s.ledger)
}

// NotifierConfigured reports whether confirmation emails are sent.
func (s *Service) NotifierConfigured() bool {
	return configured(s.notifier)
}

// Validate checks req in order and returns the first failure.
func Validate(req Request) error {
	if strings.TrimSpace(req.Name) == "" {
		return errNameRequired
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return errInvalidEmail
	}
	return nil
}

// Submit validates req and forwards it to the configured sinks.
//
// A validation failure returns an unsuccessful Result together with a [*ValidationError] and no
// sink is called. Otherwise the Result is always successful: sink failures are logged and traced
// but never reported to the caller.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "subscribe.Submit")
	defer span.End()

	if err := Validate(req); err != nil {
		var verr *ValidationError
		_ = errors.As(err, &verr)
		span.SetAttributes(attribute.String("validation.field", verr.Field))
		return Result{Success: false, Message: "", Error: i18n.T(ctx, verr.MessageKey)}, err
	}

	lead := models.Lead{
		SubmittedAt: s.now().UTC(),
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
	}
	ctx = logging.WithAttrs(ctx, slog.String("email", lead.Email))

	ledgerOK, notifierOK := s.LedgerConfigured(), s.NotifierConfigured()
	if !ledgerOK && !notifierOK {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "test mode, no sink configured",
			slog.String("name", lead.Name))
		return Result{Success: true, Message: i18n.T(ctx, i18n.MsgSubscribeTestMode), Error: ""}, nil
	}

	// Sinks finish even when the visitor goes away.
	deliverCtx := context.WithoutCancel(ctx)
	var g errgroup.Group
	if ledgerOK {
		g.Go(func() error {
			s.deliver(deliverCtx, s.ledger, func(ctx context.Context) error {
				return s.ledger.Append(ctx, lead)
			})
			return nil
		})
	}
	if notifierOK {
		g.Go(func() error {
			s.deliver(deliverCtx, s.notifier, func(ctx context.Context) error {
				return s.notifier.Notify(ctx, lead)
			})
			return nil
		})
	}
	_ = g.Wait()

	return Result{Success: true, Message: i18n.T(ctx, i18n.MsgSubscribeSuccess), Error: ""}, nil
}

// deliver runs one sink call with its own timeout and swallows the outcome into logs and traces.
func (s *Service) deliver(ctx context.Context, sink Sink, call func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "subscribe.deliver", trace.WithAttributes(
		attribute.String("sink", sink.Name()),
	))
	defer span.End()

	start := time.Now()
	err := safeCall(ctx, call)
	attrs := []slog.Attr{
		slog.String("sink", sink.Name()),
		slog.Duration("duration", time.Since(start)),
	}
	if err != nil {
		err = &SinkError{Sink: sink.Name(), Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "sink failed")
		s.logger.LogAttrs(ctx, slog.LevelError, "sink delivery failed", append(attrs, errors.SlogError(err))...)
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "sink delivery succeeded", attrs...)
}

func safeCall(ctx context.Context, call func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(fmt.Sprintf("sink panicked: %v", r))
		}
	}()
	return call(ctx)
}
