package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/model"
	"github.com/ivolkov/portfolio-graphs/internal/repository"
)

// GraphService computes graph datasets: it normalizes each holding's value
// into USD using the exchange rate cache and aggregates the results into
// ordered labeled buckets, one dataset per graph variant.
type GraphService struct {
	itemRepo    *repository.PortfolioItemRepository
	rateService *ExchangeRateService
}

// NewGraphService creates a new GraphService with the provided repository and
// exchange rate cache.
func NewGraphService(itemRepo *repository.PortfolioItemRepository, rateService *ExchangeRateService) *GraphService {
	return &GraphService{
		itemRepo:    itemRepo,
		rateService: rateService,
	}
}

// Dataset computes the graph dataset of one variant for one portfolio.
//
// The holdings are processed in their stored insertion order, which fixes the
// bucket display order. An empty portfolio yields an empty dataset, not an
// error. A failed exchange rate refresh aborts the whole computation.
func (s *GraphService) Dataset(ctx context.Context, portfolioID string, variant model.GraphVariant) (model.GraphDataSet, error) {
	c, ok := classifiers[variant]
	if !ok {
		return model.GraphDataSet{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidGraphVariant, variant)
	}

	holdings, err := s.itemRepo.GetHoldings(portfolioID)
	if err != nil {
		return model.GraphDataSet{}, err
	}

	rates, err := s.rateService.GetRates(ctx)
	if err != nil {
		return model.GraphDataSet{}, err
	}

	slices, err := aggregate(holdings, c, rates)
	if err != nil {
		return model.GraphDataSet{}, err
	}

	return model.GraphDataSet{
		PortfolioID: portfolioID,
		Variant:     variant,
		Slices:      slices,
	}, nil
}

// Datasets computes all five graph variants for one portfolio. The exchange
// rate cache makes at most one provider call for the whole pass.
func (s *GraphService) Datasets(ctx context.Context, portfolioID string) ([]model.GraphDataSet, error) {
	datasets := make([]model.GraphDataSet, 0, len(model.GraphVariants))
	for _, variant := range model.GraphVariants {
		dataset, err := s.Dataset(ctx, portfolioID, variant)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, dataset)
	}
	return datasets, nil
}

// aggregate folds holdings into ordered (label, cost) buckets.
//
// Two parallel slices keep label order and running totals; a position index
// makes the merge lookup O(1). Invariants: bucket count equals distinct label
// count (merge mode), bucket order equals first-occurrence order, and the sum
// of bucket totals equals the sum of normalized costs.
func aggregate(holdings []model.PortfolioHolding, c classifier, rates model.Rates) ([]model.GraphSlice, error) {
	labels := []string{}
	totals := []decimal.Decimal{}
	position := map[string]int{}

	for _, label := range c.seed {
		position[label] = len(labels)
		labels = append(labels, label)
		totals = append(totals, decimal.Zero)
	}

	for _, h := range holdings {
		cost, err := normalizedCost(h.Security, h.Item.Quantity, rates)
		if err != nil {
			return nil, err
		}

		label := c.label(h.Security)

		if c.appendOnly {
			labels = append(labels, label)
			totals = append(totals, cost)
			continue
		}

		if i, ok := position[label]; ok {
			totals[i] = totals[i].Add(cost)
			continue
		}

		position[label] = len(labels)
		labels = append(labels, label)
		totals = append(totals, cost)
	}

	slices := make([]model.GraphSlice, 0, len(labels))
	for i, label := range labels {
		if c.dropZero && totals[i].IsZero() {
			continue
		}
		slices = append(slices, model.GraphSlice{Label: label, Cost: totals[i]})
	}

	return slices, nil
}

// normalizedCost converts one holding into its cost in the reference
// currency (USD).
//
// USD costs are exact (price × quantity). Foreign costs divide the price by
// the already-quantized rate before multiplying by quantity. Any other
// currency is a programming error and fails loudly.
func normalizedCost(sec model.Security, quantity int64, rates model.Rates) (decimal.Decimal, error) {
	qty := decimal.NewFromInt(quantity)

	switch sec.Currency {
	case model.CurrencyUSD:
		return sec.Price.Mul(qty), nil
	case model.CurrencyEUR:
		return sec.Price.Div(rates.EUR).Mul(qty), nil
	case model.CurrencyRUB:
		return sec.Price.Div(rates.RUB).Mul(qty), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: %q on security %s", apperrors.ErrUnsupportedCurrency, sec.Currency, sec.Ticker)
	}
}
