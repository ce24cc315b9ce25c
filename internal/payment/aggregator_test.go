package payment

import (
	"context"
	"testing"

	"marketpay/internal/config"
	"marketpay/internal/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func groupOrders(groupID uuid.UUID) []*order.Order {
	return []*order.Order{
		{ID: 5, GroupID: groupID, Total: 50.00, Currency: "EUR"},
		{ID: 12, GroupID: groupID, Total: 75.00, Currency: "EUR"},
		{ID: 7, GroupID: groupID, Total: 25.00, Currency: "EUR"},
	}
}

func TestAggregator_BuildGroupPaymentRequest(t *testing.T) {
	groupID := uuid.New()
	triggering := &order.Order{ID: 5, GroupID: groupID, Total: 50.00, Currency: "EUR"}

	t.Run("CombinesGroup", func(t *testing.T) {
		repo := new(MockOrderRepo)
		repo.On("GetByGroup", mock.Anything, groupID).Return(groupOrders(groupID), nil)

		agg := NewAggregator(repo, config.RoutingCentralStore)
		req, err := agg.BuildGroupPaymentRequest(context.Background(), triggering)

		require.NoError(t, err)
		assert.Equal(t, "5-7-12", req.Reference)
		assert.Equal(t, 150.00, req.Amount)
		assert.Equal(t, "EUR", req.Currency)
		repo.AssertExpectations(t)
	})

	t.Run("DirectRoutingRefuses", func(t *testing.T) {
		repo := new(MockOrderRepo)

		agg := NewAggregator(repo, config.RoutingDirect)
		_, err := agg.BuildGroupPaymentRequest(context.Background(), triggering)

		assert.ErrorIs(t, err, ErrDirectRouting)
		repo.AssertNotCalled(t, "GetByGroup")
	})

	t.Run("EmptyGroupIsFatal", func(t *testing.T) {
		repo := new(MockOrderRepo)
		repo.On("GetByGroup", mock.Anything, groupID).Return([]*order.Order{}, nil)

		agg := NewAggregator(repo, config.RoutingCentralStore)
		_, err := agg.BuildGroupPaymentRequest(context.Background(), triggering)

		assert.ErrorIs(t, err, ErrEmptyOrderGroup)
	})

	t.Run("MixedCurrencyRefused", func(t *testing.T) {
		mixed := groupOrders(groupID)
		mixed[2].Currency = "USD"

		repo := new(MockOrderRepo)
		repo.On("GetByGroup", mock.Anything, groupID).Return(mixed, nil)

		agg := NewAggregator(repo, config.RoutingCentralStore)
		_, err := agg.BuildGroupPaymentRequest(context.Background(), triggering)

		assert.ErrorIs(t, err, ErrMixedCurrency)
	})

	t.Run("SingleOrderGroup", func(t *testing.T) {
		repo := new(MockOrderRepo)
		repo.On("GetByGroup", mock.Anything, groupID).Return([]*order.Order{
			{ID: 42, GroupID: groupID, Total: 10.00, Currency: "EUR"},
		}, nil)

		agg := NewAggregator(repo, config.RoutingCentralStore)
		req, err := agg.BuildGroupPaymentRequest(context.Background(), triggering)

		require.NoError(t, err)
		assert.Equal(t, "42", req.Reference)
		assert.Equal(t, 10.00, req.Amount)
	})
}
