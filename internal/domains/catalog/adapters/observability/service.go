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

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

const tracerName = "github.com/Apurer/backoffice-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
	return s
}

func (s *Service) CreateProduct(ctx context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()
	result, err := s.inner.CreateProduct(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product")
	}
	span.SetAttributes(attribute.Int64("product.id", result.ID))
	s.metrics.record(ctx, s.metrics.productsChanged, "created")
	s.logInfo(ctx, "product created", slog.Int64("product_id", result.ID), slog.Int("stock_quantity", result.StockQuantity))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	return s.inner.GetProduct(ctx, id)
}

func (s *Service) GetProductByBarcode(ctx context.Context, barcode string) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProductByBarcode", trace.WithAttributes(attribute.String("product.barcode", barcode)))
	defer span.End()
	return s.inner.GetProductByBarcode(ctx, barcode)
}

func (s *Service) ListProducts(ctx context.Context, page repository.Page) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()
	return s.inner.ListProducts(ctx, page)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, patch catalogdomain.ProductPatch) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	result, err := s.inner.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product_id", id))
	}
	s.metrics.record(ctx, s.metrics.productsChanged, "updated")
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product_id", id))
	}
	s.metrics.record(ctx, s.metrics.productsChanged, "deleted")
	s.logInfo(ctx, "product deleted", slog.Int64("product_id", id))
	return nil
}

func (s *Service) CreateDiscount(ctx context.Context, discount *catalogdomain.Discount) (*catalogdomain.Discount, error) {
	var productID int64
	if discount != nil {
		productID = discount.ProductID
	}
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateDiscount", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()
	result, err := s.inner.CreateDiscount(ctx, discount)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create discount", slog.Int64("product_id", productID))
	}
	s.metrics.record(ctx, s.metrics.discountsChanged, "created")
	s.logInfo(ctx, "discount created",
		slog.Int64("discount_id", result.ID),
		slog.Int64("product_id", result.ProductID),
		slog.String("discount_price", result.DiscountPrice.StringFixed(2)),
	)
	return result, nil
}

func (s *Service) GetDiscount(ctx context.Context, id int64) (*catalogdomain.Discount, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetDiscount", trace.WithAttributes(attribute.Int64("discount.id", id)))
	defer span.End()
	return s.inner.GetDiscount(ctx, id)
}

func (s *Service) ListDiscounts(ctx context.Context, page repository.Page) ([]*catalogdomain.Discount, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListDiscounts")
	defer span.End()
	return s.inner.ListDiscounts(ctx, page)
}

func (s *Service) UpdateDiscount(ctx context.Context, id int64, patch catalogdomain.DiscountPatch) (*catalogdomain.Discount, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateDiscount", trace.WithAttributes(attribute.Int64("discount.id", id)))
	defer span.End()
	result, err := s.inner.UpdateDiscount(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update discount", slog.Int64("discount_id", id))
	}
	s.metrics.record(ctx, s.metrics.discountsChanged, "updated")
	return result, nil
}

func (s *Service) DeleteDiscount(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteDiscount", trace.WithAttributes(attribute.Int64("discount.id", id)))
	defer span.End()
	if err := s.inner.DeleteDiscount(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete discount", slog.Int64("discount_id", id))
	}
	s.metrics.record(ctx, s.metrics.discountsChanged, "deleted")
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

type serviceMetrics struct {
	productsChanged  metric.Int64Counter
	discountsChanged metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	products, _ := m.Int64Counter("catalog.products.changed", metric.WithDescription("Product writes by operation"))
	discounts, _ := m.Int64Counter("catalog.discounts.changed", metric.WithDescription("Discount writes by operation"))
	return serviceMetrics{productsChanged: products, discountsChanged: discounts}
}

func (m serviceMetrics) record(ctx context.Context, counter metric.Int64Counter, op string) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}

var _ catalogports.Service = (*Service)(nil)
