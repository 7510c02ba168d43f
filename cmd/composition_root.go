package cmd

import (
	"log/slog"

	httpadapter "brokerage/internal/adapters/in/http"
	"brokerage/internal/adapters/observability"
	"brokerage/internal/adapters/out/postgres"
	"brokerage/internal/adapters/out/postgres/changefeed"
	"brokerage/internal/core/application/engine"
	"brokerage/internal/core/application/usecases/commands"
	"brokerage/internal/core/application/usecases/queries"
	"brokerage/internal/jobs"
	"brokerage/internal/pkg/broker"
	"brokerage/internal/pkg/retry"
	"brokerage/internal/pkg/telemetry"

	"gorm.io/gorm"
)

const instrumentationName = "brokerage/order-desk"

type CompositionRoot struct {
	cfg         Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	policy      retry.Policy
	instruments *telemetry.Instruments
	logger      *slog.Logger
	hub         *broker.Hub
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, instruments *telemetry.Instruments) CompositionRoot {
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.RetryAttempts

	return CompositionRoot{
		cfg:         cfg,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB, instruments.Logger),
		policy:      policy,
		instruments: instruments,
		logger:      instruments.Logger,
		hub:         broker.NewHub(),
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoW(), c.policy)
}

func (c *CompositionRoot) CreateExecuteLineItemsCommandHandler() commands.ExecuteLineItemsCommandHandler {
	return commands.NewExecuteLineItemsCommandHandler(c.orderUoW(), c.policy)
}

func (c *CompositionRoot) CreateAddObservationCommandHandler() commands.AddObservationCommandHandler {
	return commands.NewAddObservationCommandHandler(c.orderUoW(), c.policy)
}

func (c *CompositionRoot) CreateUpdateOrderDetailsCommandHandler() commands.UpdateOrderDetailsCommandHandler {
	return commands.NewUpdateOrderDetailsCommandHandler(c.orderUoW(), c.policy)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoW(), c.policy)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, c.policy)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB, c.policy)
}

// CreateEngine wires every handler into the engine and wraps it with tracing,
// logging and metrics.
func (c *CompositionRoot) CreateEngine() engine.Service {
	core := engine.New(engine.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		Transition:         c.CreateTransitionOrderCommandHandler(),
		ExecuteLineItems:   c.CreateExecuteLineItemsCommandHandler(),
		AddObservation:     c.CreateAddObservationCommandHandler(),
		UpdateOrderDetails: c.CreateUpdateOrderDetailsCommandHandler(),
		DeleteOrder:        c.CreateDeleteOrderCommandHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		ListOrders:         c.CreateListOrdersQueryHandler(),
	})

	return observability.New(core,
		observability.WithLogger(c.logger),
		observability.WithTracer(c.instruments.Tracer(instrumentationName)),
		observability.WithMeter(c.instruments.Meter(instrumentationName)),
	)
}

func (c *CompositionRoot) Hub() *broker.Hub {
	return c.hub
}

func (c *CompositionRoot) CreateChangeFeed() *changefeed.Feed {
	return changefeed.New(c.cfg.DSN(), postgres.ChangesChannel, changefeed.Config{
		MinReconnectInterval: c.cfg.ListenerMinReconnect,
		MaxReconnectInterval: c.cfg.ListenerMaxReconnect,
	}, c.hub, c.logger)
}

func (c *CompositionRoot) CreateJobManager(feed jobs.Pinger) *jobs.JobManager {
	return jobs.NewJobManager(feed, c.cfg.ListenerPingSchedule, c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(c.CreateEngine(), c.hub, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
