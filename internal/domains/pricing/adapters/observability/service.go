package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	pricedomain "github.com/Apurer/backoffice-api/internal/domains/pricing/domain"
	priceports "github.com/Apurer/backoffice-api/internal/domains/pricing/ports"
)

const tracerName = "github.com/Apurer/backoffice-api/internal/domains/pricing/adapters/observability/service"

// Service traces price lookups. Lookups are reads, so there are no counters.
type Service struct {
	inner  priceports.Service
	tracer trace.Tracer
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func New(inner priceports.Service, opts ...Option) priceports.Service {
	s := &Service{inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ResolvePrice(ctx context.Context, productID int64) (pricedomain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "PricingService.ResolvePrice", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()
	quote, err := s.inner.ResolvePrice(ctx, productID)
	if err != nil {
		return quote, s.handleError(ctx, span, err, "price lookup failed", slog.Int64("product_id", productID))
	}
	span.SetAttributes(attribute.Bool("price.discounted", quote.Discounted()))
	return quote, nil
}

func (s *Service) ResolvePrices(ctx context.Context, productIDs []int64) (map[int64]pricedomain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "PricingService.ResolvePrices", trace.WithAttributes(attribute.Int("product.count", len(productIDs))))
	defer span.End()
	quotes, err := s.inner.ResolvePrices(ctx, productIDs)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "batch price lookup failed", slog.Int("product_count", len(productIDs)))
	}
	return quotes, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

var _ priceports.Service = (*Service)(nil)
