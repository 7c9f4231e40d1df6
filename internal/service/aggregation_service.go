package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/cache"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
)

const (
	// aggregationPageLimit bounds how many orders one summary may read.
	aggregationPageLimit = 1000
	// aggregationBatchSize is the per-query batch size of the optimized path.
	aggregationBatchSize = 250

	summaryCacheTTL = 2 * time.Minute
)

// aggregatedStatuses are the order statuses that count toward a shopping
// list: completed orders have already been served.
var aggregatedStatuses = []model.OrderStatus{model.OrderStatusPending, model.OrderStatusPrepared}

// Summary is the per-ingredient total for one date and meal type.
type Summary struct {
	Date        string                     `json:"date"`
	MealType    model.MealType             `json:"meal_type"`
	OrderCount  int                        `json:"order_count"`
	Ingredients map[string]decimal.Decimal `json:"ingredients"`
}

// AggregationService computes ingredient totals for the kitchen.
type AggregationService interface {
	// Aggregate is the naive path: one pre-fetched page of the day's
	// orders, filtered and summed in memory.
	Aggregate(ctx context.Context, date time.Time, mealType model.MealType) (*Summary, error)
	// AggregateOptimized pushes the filter into the query layer and
	// aggregates in batches, with a short-lived cache in front.
	AggregateOptimized(ctx context.Context, date time.Time, mealType model.MealType) (*Summary, error)
}

type aggregationService struct {
	orderRepo repository.OrderRepository
	cache     *cache.Client
}

// NewAggregationService builds an AggregationService.
func NewAggregationService(orderRepo repository.OrderRepository, cache *cache.Client) AggregationService {
	return &aggregationService{orderRepo: orderRepo, cache: cache}
}

func newSummary(date time.Time, mealType model.MealType) *Summary {
	return &Summary{
		Date:        date.Format("2006-01-02"),
		MealType:    mealType,
		Ingredients: make(map[string]decimal.Decimal),
	}
}

// accumulate folds one order into the summary.
func (sum *Summary) accumulate(order model.MealOrder) {
	sum.OrderCount++
	for _, item := range order.Items {
		sum.Ingredients[item.Name] = sum.Ingredients[item.Name].Add(item.Quantity)
	}
}

func statusCounts(status model.OrderStatus) bool {
	for _, s := range aggregatedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Aggregate fetches the day's orders in one page and filters in memory.
func (s *aggregationService) Aggregate(ctx context.Context, date time.Time, mealType model.MealType) (*Summary, error) {
	orders, err := s.orderRepo.FindByDate(ctx, date, aggregationPageLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	summary := newSummary(date, mealType)
	for _, order := range orders {
		if order.MealType != mealType || !statusCounts(order.Status) {
			continue
		}
		summary.accumulate(order)
	}
	return summary, nil
}

// AggregateOptimized filters in the query layer and reads in batches up
// to the page limit.
func (s *aggregationService) AggregateOptimized(ctx context.Context, date time.Time, mealType model.MealType) (*Summary, error) {
	cacheKey := fmt.Sprintf("aggregation:%s:%s", date.Format("2006-01-02"), mealType)
	if data, _ := s.cache.Get(ctx, cacheKey); data != nil {
		var cached Summary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	summary := newSummary(date, mealType)
	for offset := 0; offset < aggregationPageLimit; offset += aggregationBatchSize {
		batchLimit := aggregationBatchSize
		if remaining := aggregationPageLimit - offset; remaining < batchLimit {
			batchLimit = remaining
		}

		orders, err := s.orderRepo.FindForAggregation(ctx, date, mealType, aggregatedStatuses, offset, batchLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch orders: %w", err)
		}
		for _, order := range orders {
			summary.accumulate(order)
		}
		if len(orders) < batchLimit {
			break
		}
	}

	if payload, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, summaryCacheTTL)
	}
	return summary, nil
}
