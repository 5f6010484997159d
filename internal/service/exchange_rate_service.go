package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/exchangerate"
	"github.com/ivolkov/portfolio-graphs/internal/model"
	"github.com/ivolkov/portfolio-graphs/internal/repository"
)

// rateDateFormat is the calendar-date form the staleness check compares.
const rateDateFormat = "2006-01-02"

// ExchangeRateService is the daily-refreshing exchange rate cache.
//
// The singleton record moves through three states: it is created on first
// access, considered stale whenever its stored date differs from today's UTC
// date, and refreshed in place by the next read that observes staleness.
// There is no background refresh: the check runs synchronously inside every
// GetRates call.
//
// Rates are stored exactly as fetched and quantized to two decimal places
// (round half up) on every read, before being handed to consumers.
type ExchangeRateService struct {
	rateRepo *repository.ExchangeRateRepository
	client   exchangerate.Client
	now      func() time.Time
	group    singleflight.Group
}

// NewExchangeRateService creates a new ExchangeRateService with the provided
// repository and FX provider client.
func NewExchangeRateService(rateRepo *repository.ExchangeRateRepository, client exchangerate.Client) *ExchangeRateService {
	return &ExchangeRateService{
		rateRepo: rateRepo,
		client:   client,
		now:      time.Now,
	}
}

// WithClock replaces the service clock. Tests use this to simulate date
// advancement without waiting for midnight.
func (s *ExchangeRateService) WithClock(now func() time.Time) *ExchangeRateService {
	s.now = now
	return s
}

// GetRates returns today's conversion rates, refreshing the cached record
// first when it is missing or stale.
//
// A provider failure is returned as-is (wrapped in apperrors.ErrRateFetch by
// the client): no retry, no fallback to the previously stored rates. The
// valuation request that triggered the refresh aborts.
func (s *ExchangeRateService) GetRates(ctx context.Context) (model.Rates, error) {
	today := s.now().UTC().Format(rateDateFormat)

	rec, err := s.rateRepo.Get()
	switch {
	case errors.Is(err, apperrors.ErrExchangeRateNotFound):
		rec, err = s.refresh(ctx, today)
		if err != nil {
			return model.Rates{}, err
		}
	case err != nil:
		return model.Rates{}, err
	case rec.LastUpdated != today:
		rec, err = s.refresh(ctx, today)
		if err != nil {
			return model.Rates{}, err
		}
	}

	// Read-time quantization. The stored record keeps the provider's full
	// precision; consumers only ever see 2dp half-up rates.
	return model.Rates{
		EUR: quantizeRate(rec.EURRate),
		RUB: quantizeRate(rec.RUBRate),
	}, nil
}

// refresh fetches today's rates and writes the singleton record.
//
// Concurrent stale reads are collapsed via singleflight keyed by the calendar
// date, so a burst of same-day valuation requests costs one outbound call and
// one write. Combined with the atomic upsert this resolves the
// check-then-fetch-then-save race without a lock around readers.
func (s *ExchangeRateService) refresh(ctx context.Context, today string) (model.ExchangeRate, error) {
	v, err, _ := s.group.Do(today, func() (any, error) {
		rates, err := s.client.LatestUSD(ctx)
		if err != nil {
			return model.ExchangeRate{}, err
		}

		eur, ok := rates[string(model.CurrencyEUR)]
		if !ok {
			return model.ExchangeRate{}, fmt.Errorf("%w: missing EUR rate", apperrors.ErrRateFetch)
		}
		rub, ok := rates[string(model.CurrencyRUB)]
		if !ok {
			return model.ExchangeRate{}, fmt.Errorf("%w: missing RUB rate", apperrors.ErrRateFetch)
		}

		rec := model.ExchangeRate{
			LastUpdated: today,
			EURRate:     eur,
			RUBRate:     rub,
		}

		if err := s.rateRepo.Upsert(rec); err != nil {
			return model.ExchangeRate{}, err
		}

		return rec, nil
	})
	if err != nil {
		return model.ExchangeRate{}, err
	}

	return v.(model.ExchangeRate), nil
}

// quantizeRate rounds a rate to two decimal places using round half up.
// Rates are non-negative, so Round (half away from zero) matches half up.
func quantizeRate(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(2)
}
