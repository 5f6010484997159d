package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ivolkov/portfolio-graphs/internal/exchangerate"
	"github.com/ivolkov/portfolio-graphs/internal/repository"
	"github.com/ivolkov/portfolio-graphs/internal/service"
)

// ClockAt returns a fixed clock for the given date (YYYY-MM-DD), letting
// tests simulate "today" without real time passing.
func ClockAt(t *testing.T, date string) func() time.Time {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("Failed to parse clock date %q: %v", date, err)
	}
	return func() time.Time { return parsed }
}

// NewTestExchangeRateService creates an ExchangeRateService backed by the
// given FX client and pinned to the given date.
func NewTestExchangeRateService(t *testing.T, db *sql.DB, client exchangerate.Client, date string) *service.ExchangeRateService {
	t.Helper()

	rateRepo := repository.NewExchangeRateRepository(db)
	return service.NewExchangeRateService(rateRepo, client).WithClock(ClockAt(t, date))
}

// NewTestGraphService creates a GraphService wired to a mock FX client and a
// fixed clock.
func NewTestGraphService(t *testing.T, db *sql.DB, client exchangerate.Client, date string) *service.GraphService {
	t.Helper()

	itemRepo := repository.NewPortfolioItemRepository(db)
	return service.NewGraphService(itemRepo, NewTestExchangeRateService(t, db, client, date))
}

// NewTestSnapshotService creates a SnapshotService wired to a mock FX client
// and a fixed clock.
func NewTestSnapshotService(t *testing.T, db *sql.DB, client exchangerate.Client, date string) *service.SnapshotService {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)
	graphRepo := repository.NewGraphRepository(db)
	return service.NewSnapshotService(portfolioRepo, graphRepo, NewTestGraphService(t, db, client, date))
}

// NewTestPortfolioService creates a PortfolioService over the test database.
func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)
	itemRepo := repository.NewPortfolioItemRepository(db)
	securityRepo := repository.NewSecurityRepository(db)

	return service.NewPortfolioService(portfolioRepo, itemRepo, securityRepo)
}

// NewTestSecurityService creates a SecurityService over the test database.
func NewTestSecurityService(t *testing.T, db *sql.DB) *service.SecurityService {
	t.Helper()

	return service.NewSecurityService(repository.NewSecurityRepository(db))
}

// TestFernetKey is a fixed, valid fernet key for tests (32 zero bytes,
// base64url encoded). Never use outside tests.
const TestFernetKey = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

// NewTestSettingService creates a SettingService with the test fernet key
// and the given environment fallback API key.
func NewTestSettingService(t *testing.T, db *sql.DB, envAPIKey string) *service.SettingService {
	t.Helper()

	settingRepo := repository.NewSettingRepository(db)
	svc, err := service.NewSettingService(settingRepo, TestFernetKey, envAPIKey)
	if err != nil {
		t.Fatalf("Failed to create test setting service: %v", err)
	}
	return svc
}
