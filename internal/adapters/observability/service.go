// Package observability decorates the order desk engine with tracing, logging and metrics.
package observability

import (
	"context"
	"errors"
	"log/slog"

	"brokerage/internal/core/application/engine"
	"brokerage/internal/core/application/usecases/commands"
	"brokerage/internal/core/application/usecases/queries"
	"brokerage/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "brokerage/internal/adapters/observability"

// Service wraps an engine.Service. Dependency failures are logged at error level
// with the operation and order id; other failures at info level.
type Service struct {
	inner   engine.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

func New(inner engine.Service, opts ...Option) engine.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.DiscardHandler),
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
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, cmd commands.CreateOrderCommand) (queries.OrderResponse, error) {
	const op = "OrderDesk.CreateOrder"
	orderID := cmd.OrderID().String()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("actor.role", string(cmd.Actor().Role())),
		attribute.Int("order.line_items", len(cmd.LineItems())),
	))
	defer span.End()

	result, err := s.inner.CreateOrder(ctx, cmd)
	if err != nil {
		return queries.OrderResponse{}, s.handleError(ctx, span, op, orderID, err)
	}
	s.metrics.recordCreated(ctx, result.Side.String())
	s.logInfo(ctx, "order created", slog.String("order.id", orderID), slog.String("actor.id", cmd.Actor().ID()))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, query queries.GetOrderQuery) (queries.OrderResponse, error) {
	const op = "OrderDesk.GetOrder"
	orderID := query.OrderID().String()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, query)
	if err != nil {
		return queries.OrderResponse{}, s.handleError(ctx, span, op, orderID, err)
	}
	span.SetAttributes(attribute.String("order.status", result.Status.String()))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderResponse, error) {
	const op = "OrderDesk.ListOrders"
	ctx, span := s.tracer.Start(ctx, op)
	defer span.End()

	result, err := s.inner.ListOrders(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, op, "", err)
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) Transition(ctx context.Context, cmd commands.TransitionOrderCommand) (queries.OrderResponse, error) {
	const op = "OrderDesk.Transition"
	orderID := cmd.OrderID().String()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.target_status", cmd.Target().String()),
		attribute.String("actor.role", string(cmd.Actor().Role())),
	))
	defer span.End()

	result, err := s.inner.Transition(ctx, cmd)
	if err != nil {
		s.metrics.recordTransition(ctx, cmd.Target().String(), outcome(err))
		return queries.OrderResponse{}, s.handleError(ctx, span, op, orderID, err)
	}
	s.metrics.recordTransition(ctx, result.Status.String(), "ok")
	s.logInfo(ctx, "order transitioned",
		slog.String("order.id", orderID),
		slog.String("order.status", result.Status.String()),
		slog.String("actor.id", cmd.Actor().ID()))
	return result, nil
}

func (s *Service) ExecuteLineItems(
	ctx context.Context,
	cmd commands.ExecuteLineItemsCommand,
) (queries.OrderResponse, error) {
	const op = "OrderDesk.ExecuteLineItems"
	orderID := cmd.OrderID().String()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.Int("order.executions", len(cmd.Executions())),
	))
	defer span.End()

	result, err := s.inner.ExecuteLineItems(ctx, cmd)
	if err != nil {
		s.metrics.recordTransition(ctx, "execution", outcome(err))
		return queries.OrderResponse{}, s.handleError(ctx, span, op, orderID, err)
	}
	s.metrics.recordTransition(ctx, result.Status.String(), "ok")
	s.logInfo(ctx, "line items executed",
		slog.String("order.id", orderID),
		slog.String("order.status", result.Status.String()))
	return result, nil
}

func (s *Service) AddObservation(
	ctx context.Context,
	cmd commands.AddObservationCommand,
) (queries.ObservationResponse, error) {
	const op = "OrderDesk.AddObservation"
	orderID := cmd.OrderID().String()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	result, err := s.inner.AddObservation(ctx, cmd)
	if err != nil {
		return queries.ObservationResponse{}, s.handleError(ctx, span, op, orderID, err)
	}
	return result, nil
}

func (s *Service) UpdateOrderDetails(
	ctx context.Context,
	cmd commands.UpdateOrderDetailsCommand,
) (queries.OrderResponse, error) {
	const op = "OrderDesk.UpdateOrderDetails"
	orderID := cmd.OrderID().String()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	result, err := s.inner.UpdateOrderDetails(ctx, cmd)
	if err != nil {
		return queries.OrderResponse{}, s.handleError(ctx, span, op, orderID, err)
	}
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, cmd commands.DeleteOrderCommand) error {
	const op = "OrderDesk.DeleteOrder"
	orderID := cmd.OrderID().String()
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	if err := s.inner.DeleteOrder(ctx, cmd); err != nil {
		return s.handleError(ctx, span, op, orderID, err)
	}
	s.logInfo(ctx, "order deleted", slog.String("order.id", orderID))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, op, orderID string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	attrs := []slog.Attr{slog.String("operation", op), slog.String("error", err.Error())}
	if orderID != "" {
		attrs = append(attrs, slog.String("order.id", orderID))
	}

	var depErr *errs.DependencyError
	if errors.As(err, &depErr) {
		attrs = append(attrs, slog.String("dependency.operation", depErr.Operation))
		s.logger.LogAttrs(ctx, slog.LevelError, "dependency failure", attrs...)
		return err
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "operation rejected", attrs...)
	return err
}

func outcome(err error) string {
	var transitionErr *errs.TransitionError
	switch {
	case errors.As(err, &transitionErr):
		return string(transitionErr.Reason)
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not-found"
	case errs.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}

type serviceMetrics struct {
	ordersCreated    metric.Int64Counter
	orderTransitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.created", metric.WithDescription("Number of orders created"))
	transitions, _ := m.Int64Counter("orders.transitions",
		metric.WithDescription("Number of status transition attempts by resulting status and outcome"))
	return serviceMetrics{ordersCreated: created, orderTransitions: transitions}
}

func (m serviceMetrics) recordCreated(ctx context.Context, side string) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.side", side)))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status, result string) {
	if m.orderTransitions != nil {
		m.orderTransitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("order.status", status),
			attribute.String("outcome", result),
		))
	}
}

var _ engine.Service = (*Service)(nil)
