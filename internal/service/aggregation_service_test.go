package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
)

func aggregationDate(t *testing.T) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", "2025-03-10")
	assert.NoError(t, err)
	return date
}

// fixtureOrders is one lunch service: two pending orders sharing an
// ingredient, one prepared order, plus a completed order and a
// breakfast order that must not count.
func fixtureOrders() []model.MealOrder {
	qty := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return []model.MealOrder{
		{
			ID: 1, MealType: model.MealTypeLunch, Status: model.OrderStatusPending,
			Items: []model.OrderItem{
				{Name: "potato soup", Quantity: qty("1")},
				{Name: "bread roll", Quantity: qty("2")},
			},
		},
		{
			ID: 2, MealType: model.MealTypeLunch, Status: model.OrderStatusPending,
			Items: []model.OrderItem{
				{Name: "potato soup", Quantity: qty("0.5")},
			},
		},
		{
			ID: 3, MealType: model.MealTypeLunch, Status: model.OrderStatusPrepared,
			Items: []model.OrderItem{
				{Name: "bread roll", Quantity: qty("1")},
			},
		},
		{
			ID: 4, MealType: model.MealTypeLunch, Status: model.OrderStatusCompleted,
			Items: []model.OrderItem{
				{Name: "potato soup", Quantity: qty("4")},
			},
		},
		{
			ID: 5, MealType: model.MealTypeBreakfast, Status: model.OrderStatusPending,
			Items: []model.OrderItem{
				{Name: "oatmeal", Quantity: qty("1")},
			},
		},
	}
}

func assertLunchTotals(t *testing.T, summary *Summary) {
	t.Helper()
	assert.Equal(t, "2025-03-10", summary.Date)
	assert.Equal(t, model.MealTypeLunch, summary.MealType)
	assert.Equal(t, 3, summary.OrderCount)
	assert.Len(t, summary.Ingredients, 2)
	assert.True(t, summary.Ingredients["potato soup"].Equal(decimal.RequireFromString("1.5")))
	assert.True(t, summary.Ingredients["bread roll"].Equal(decimal.RequireFromString("3")))
	_, hasOatmeal := summary.Ingredients["oatmeal"]
	assert.False(t, hasOatmeal)
}

func TestAggregationService_Aggregate(t *testing.T) {
	date := aggregationDate(t)
	orderRepo := new(MockOrderRepository)
	orderRepo.On("FindByDate", mock.Anything, date, aggregationPageLimit).Return(fixtureOrders(), nil)

	service := NewAggregationService(orderRepo, nil)
	summary, err := service.Aggregate(context.Background(), date, model.MealTypeLunch)
	assert.NoError(t, err)
	assertLunchTotals(t, summary)
	orderRepo.AssertExpectations(t)
}

func TestAggregationService_AggregateOptimized(t *testing.T) {
	date := aggregationDate(t)

	t.Run("matches naive totals on a single batch", func(t *testing.T) {
		// the query layer has already filtered meal type and status
		filtered := fixtureOrders()[:3]
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindForAggregation", mock.Anything, date, model.MealTypeLunch, aggregatedStatuses, 0, aggregationBatchSize).
			Return(filtered, nil)

		service := NewAggregationService(orderRepo, nil)
		summary, err := service.AggregateOptimized(context.Background(), date, model.MealTypeLunch)
		assert.NoError(t, err)
		assertLunchTotals(t, summary)
	})

	t.Run("reads across batches until a short page", func(t *testing.T) {
		full := make([]model.MealOrder, aggregationBatchSize)
		for i := range full {
			full[i] = model.MealOrder{
				MealType: model.MealTypeDinner,
				Status:   model.OrderStatusPending,
				Items:    []model.OrderItem{{Name: "stew", Quantity: decimal.NewFromInt(1)}},
			}
		}
		tail := []model.MealOrder{{
			MealType: model.MealTypeDinner,
			Status:   model.OrderStatusPending,
			Items:    []model.OrderItem{{Name: "stew", Quantity: decimal.NewFromInt(1)}},
		}}

		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindForAggregation", mock.Anything, date, model.MealTypeDinner, aggregatedStatuses, 0, aggregationBatchSize).
			Return(full, nil).Once()
		orderRepo.On("FindForAggregation", mock.Anything, date, model.MealTypeDinner, aggregatedStatuses, aggregationBatchSize, aggregationBatchSize).
			Return(tail, nil).Once()

		service := NewAggregationService(orderRepo, nil)
		summary, err := service.AggregateOptimized(context.Background(), date, model.MealTypeDinner)
		assert.NoError(t, err)
		assert.Equal(t, aggregationBatchSize+1, summary.OrderCount)
		assert.True(t, summary.Ingredients["stew"].Equal(decimal.NewFromInt(int64(aggregationBatchSize+1))))
		orderRepo.AssertExpectations(t)
	})

	t.Run("stops at the page limit", func(t *testing.T) {
		full := make([]model.MealOrder, aggregationBatchSize)
		for i := range full {
			full[i] = model.MealOrder{MealType: model.MealTypeDinner, Status: model.OrderStatusPending}
		}

		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindForAggregation", mock.Anything, date, model.MealTypeDinner, aggregatedStatuses, mock.AnythingOfType("int"), aggregationBatchSize).
			Return(full, nil)

		service := NewAggregationService(orderRepo, nil)
		summary, err := service.AggregateOptimized(context.Background(), date, model.MealTypeDinner)
		assert.NoError(t, err)
		assert.Equal(t, aggregationPageLimit, summary.OrderCount)
		orderRepo.AssertNumberOfCalls(t, "FindForAggregation", aggregationPageLimit/aggregationBatchSize)
	})

	t.Run("empty day yields an empty summary", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindForAggregation", mock.Anything, date, model.MealTypeLunch, aggregatedStatuses, 0, aggregationBatchSize).
			Return([]model.MealOrder{}, nil)

		service := NewAggregationService(orderRepo, nil)
		summary, err := service.AggregateOptimized(context.Background(), date, model.MealTypeLunch)
		assert.NoError(t, err)
		assert.Equal(t, 0, summary.OrderCount)
		assert.Empty(t, summary.Ingredients)
	})
}
