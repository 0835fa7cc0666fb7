package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	userports "github.com/Apurer/backoffice-api/internal/domains/users/ports"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

const tracerName = "github.com/Apurer/backoffice-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) CreateUser(ctx context.Context, user *userdomain.User) (*userdomain.User, error) {
	var role string
	if user != nil {
		role = string(user.Role)
	}
	ctx, span := s.tracer.Start(ctx, "UserService.CreateUser", trace.WithAttributes(attribute.String("user.role", role)))
	defer span.End()
	result, err := s.inner.CreateUser(ctx, user)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create user", slog.String("role", role))
	}
	s.metrics.recordCreated(ctx, 1)
	s.logInfo(ctx, "user created", slog.Int64("user_id", result.ID), slog.String("role", string(result.Role)))
	return result, nil
}

func (s *Service) CreateUsers(ctx context.Context, users []*userdomain.User) ([]*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.CreateUsers", trace.WithAttributes(attribute.Int("user.batch.count", len(users))))
	defer span.End()
	result, err := s.inner.CreateUsers(ctx, users)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create users", slog.Int("count", len(users)))
	}
	s.metrics.recordCreated(ctx, int64(len(result)))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetByID", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	return s.inner.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page repository.Page) ([]*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.List")
	defer span.End()
	return s.inner.List(ctx, page)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Delete", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete user", slog.Int64("user_id", id))
	}
	s.metrics.recordDeleted(ctx)
	return nil
}

func (s *Service) Identify(ctx context.Context, id int64) (userdomain.Caller, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Identify", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	caller, err := s.inner.Identify(ctx, id)
	if err != nil {
		s.metrics.recordRejected(ctx)
		return caller, s.handleError(ctx, span, err, "caller identification failed", slog.Int64("user_id", id))
	}
	span.SetAttributes(attribute.String("user.role", string(caller.Role)))
	return caller, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	usersCreated metric.Int64Counter
	usersDeleted metric.Int64Counter
	rejected     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("users.service.created", metric.WithDescription("Number of users created"))
	deleted, _ := m.Int64Counter("users.service.deleted", metric.WithDescription("Number of users deleted"))
	rejected, _ := m.Int64Counter("users.service.identify_rejected", metric.WithDescription("Number of callers that could not be identified"))
	return serviceMetrics{usersCreated: created, usersDeleted: deleted, rejected: rejected}
}

func (m serviceMetrics) recordCreated(ctx context.Context, n int64) {
	if m.usersCreated != nil {
		m.usersCreated.Add(ctx, n)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.usersDeleted != nil {
		m.usersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
