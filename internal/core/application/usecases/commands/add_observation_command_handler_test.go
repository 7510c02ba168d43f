package commands_test

import (
	"errors"
	"testing"

	"brokerage/internal/core/application/usecases/commands"
	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewAddObservationCommand(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewAddObservationCommand(id, " call back ", kernel.Actor{})
	require.NoError(t, err)
	assert.Equal(t, "call back", cmd.Text())
	assert.Equal(t, kernel.SystemActorID, cmd.Author().ID())

	_, err = commands.NewAddObservationCommand(id, "   ", commercial)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestAddObservationCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	stored := storedOrder(t, order.Taken)
	before := stored.UpdatedAt()
	cmd, _ := commands.NewAddObservationCommand(stored.ID(), "client called", commercial)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		repo.On("AppendObservation", ctx, stored.ID(), mock.AnythingOfType("*order.Observation")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := commands.NewAddObservationCommandHandler(factory, fastPolicy())
	obs, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "client called", obs.Text())
	assert.Equal(t, commercial.ID(), obs.AuthorID())
	assert.Equal(t, order.Taken, stored.Status())
	assert.True(t, stored.UpdatedAt().After(before))
	repo.AssertExpectations(t)
}

func TestAddObservationCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewAddObservationCommand(id, "hello", commercial)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()

	h := commands.NewAddObservationCommandHandler(factory, fastPolicy())
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	repo.AssertNotCalled(t, "AppendObservation", mock.Anything, mock.Anything, mock.Anything)
	factory.AssertExpectations(t)
}

func TestAddObservationCommandHandler_Handle_CommitFailureIsRetried(t *testing.T) {
	ctx := t.Context()
	stored := storedOrder(t, order.Pending)
	cmd, _ := commands.NewAddObservationCommand(stored.ID(), "hello", commercial)
	commitErr := errs.NewDependencyError("commit transaction", errors.New("connection reset by peer"))

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Times(3)
	uow.On("Begin", ctx).Return(nil).Times(3)
	uow.On("OrderRepository").Return(repo).Times(3)
	uow.On("Rollback", ctx).Return(nil).Times(3)
	uow.On("Commit", ctx).Return(commitErr).Times(3)
	repo.On("Get", ctx, stored.ID()).Return(stored, nil).Times(3)
	repo.On("AppendObservation", ctx, stored.ID(), mock.Anything).Return(nil).Times(3)

	h := commands.NewAddObservationCommandHandler(factory, fastPolicy())
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrDependency)
	uow.AssertExpectations(t)
}
