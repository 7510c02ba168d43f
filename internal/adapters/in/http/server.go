package http

import (
	"log/slog"
	"net/http"

	"brokerage/internal/core/application/engine"
	"brokerage/internal/core/application/usecases/commands"
	"brokerage/internal/core/application/usecases/queries"
	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/broker"
	"brokerage/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server translates HTTP requests into engine operations.
type Server struct {
	svc    engine.Service
	hub    *broker.Hub
	logger *slog.Logger
}

func NewServer(svc engine.Service, hub *broker.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		svc:    svc,
		hub:    hub,
		logger: logger.With("component", "http"),
	}
}

func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context) error {
	filter, err := bindListFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	query, err := queries.NewListOrdersQuery(filter)
	if err != nil {
		return writeError(c, err)
	}

	orders, err := s.svc.ListOrders(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}
	return writeData(c, http.StatusOK, toOrderResponses(orders))
}

// CreateOrder handles POST /api/v1/orders. The order id is generated here.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}

	var req newOrderRequest
	if err := bindBody(c, &req); err != nil {
		return writeError(c, err)
	}
	clientID, err := kernel.UUIDFromString(req.ClientID)
	if err != nil {
		return writeError(c, errs.NewValueIsInvalidErrorWithCause("client_id", err))
	}
	side, err := order.ParseSide(req.Side)
	if err != nil {
		return writeError(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		clientID,
		side,
		req.lineItems(),
		order.Details{Market: req.Market, Term: req.Term, Notes: req.Notes},
		actor,
	)
	if err != nil {
		return writeError(c, err)
	}

	created, err := s.svc.CreateOrder(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return writeData(c, http.StatusCreated, toOrderResponse(created))
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := bindOrderID(c)
	if err != nil {
		return writeError(c, err)
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return writeError(c, err)
	}

	o, err := s.svc.GetOrder(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}
	return writeData(c, http.StatusOK, toOrderResponse(o))
}

// UpdateOrderDetails handles PATCH /api/v1/orders/{id}.
func (s *Server) UpdateOrderDetails(c echo.Context) error {
	id, err := bindOrderID(c)
	if err != nil {
		return writeError(c, err)
	}
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}
	var req detailsPatchRequest
	if err := bindBody(c, &req); err != nil {
		return writeError(c, err)
	}

	patch := order.DetailsPatch{Market: req.Market, Term: req.Term, Notes: req.Notes}
	cmd, err := commands.NewUpdateOrderDetailsCommand(id, patch, actor)
	if err != nil {
		return writeError(c, err)
	}

	o, err := s.svc.UpdateOrderDetails(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return writeData(c, http.StatusOK, toOrderResponse(o))
}

// DeleteOrder handles DELETE /api/v1/orders/{id}.
func (s *Server) DeleteOrder(c echo.Context) error {
	id, err := bindOrderID(c)
	if err != nil {
		return writeError(c, err)
	}
	cmd, err := commands.NewDeleteOrderCommand(id)
	if err != nil {
		return writeError(c, err)
	}

	if err := s.svc.DeleteOrder(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// TransitionOrder handles POST /api/v1/orders/{id}/status.
func (s *Server) TransitionOrder(c echo.Context) error {
	id, err := bindOrderID(c)
	if err != nil {
		return writeError(c, err)
	}
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}
	var req transitionRequest
	if err := bindBody(c, &req); err != nil {
		return writeError(c, err)
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return writeError(c, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(id, target, actor, req.Note)
	if err != nil {
		return writeError(c, err)
	}

	o, err := s.svc.Transition(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return writeData(c, http.StatusOK, toOrderResponse(o))
}

// ExecuteLineItems handles POST /api/v1/orders/{id}/executions.
func (s *Server) ExecuteLineItems(c echo.Context) error {
	id, err := bindOrderID(c)
	if err != nil {
		return writeError(c, err)
	}
	actor, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}
	var req executeLineItemsRequest
	if err := bindBody(c, &req); err != nil {
		return writeError(c, err)
	}
	executions, err := req.executions()
	if err != nil {
		return writeError(c, err)
	}

	cmd, err := commands.NewExecuteLineItemsCommand(id, executions, actor, req.Note)
	if err != nil {
		return writeError(c, err)
	}

	o, err := s.svc.ExecuteLineItems(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return writeData(c, http.StatusOK, toOrderResponse(o))
}

// AddObservation handles POST /api/v1/orders/{id}/observations.
func (s *Server) AddObservation(c echo.Context) error {
	id, err := bindOrderID(c)
	if err != nil {
		return writeError(c, err)
	}
	author, err := actorFromHeaders(c)
	if err != nil {
		return writeError(c, err)
	}
	var req newObservationRequest
	if err := bindBody(c, &req); err != nil {
		return writeError(c, err)
	}

	cmd, err := commands.NewAddObservationCommand(id, req.Text, author)
	if err != nil {
		return writeError(c, err)
	}

	obs, err := s.svc.AddObservation(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return writeData(c, http.StatusCreated, toObservationResponse(obs))
}
