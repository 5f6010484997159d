package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ivolkov/portfolio-graphs/internal/model"
	"github.com/ivolkov/portfolio-graphs/internal/repository"
)

// snapshotConcurrency bounds how many portfolios are materialized at once.
const snapshotConcurrency = 4

// SnapshotService materializes graph datasets for fast retrieval. The daily
// cron job walks all portfolios and stores every variant's dataset; the
// exchange rate cache stays lazy: the first dataset of the day triggers the
// refresh, the rest reuse it.
type SnapshotService struct {
	portfolioRepo *repository.PortfolioRepository
	graphRepo     *repository.GraphRepository
	graphService  *GraphService
}

// NewSnapshotService creates a new SnapshotService with the provided dependencies.
func NewSnapshotService(
	portfolioRepo *repository.PortfolioRepository,
	graphRepo *repository.GraphRepository,
	graphService *GraphService,
) *SnapshotService {
	return &SnapshotService{
		portfolioRepo: portfolioRepo,
		graphRepo:     graphRepo,
		graphService:  graphService,
	}
}

// RefreshPortfolio recomputes and stores all five graph datasets for one
// portfolio.
func (s *SnapshotService) RefreshPortfolio(ctx context.Context, portfolioID string) error {
	datasets, err := s.graphService.Datasets(ctx, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to compute datasets for portfolio %s: %w", portfolioID, err)
	}

	for _, dataset := range datasets {
		if err := s.graphRepo.ReplaceDataset(dataset); err != nil {
			return fmt.Errorf("failed to store dataset %s/%s: %w", portfolioID, dataset.Variant, err)
		}
	}

	return nil
}

// RefreshAll materializes graph datasets for every portfolio, a bounded
// number of portfolios at a time. The first portfolio that fails cancels the
// rest; the error carries the failing portfolio's ID.
func (s *SnapshotService) RefreshAll(ctx context.Context) error {
	portfolios, err := s.portfolioRepo.GetPortfolios()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotConcurrency)

	for _, p := range portfolios {
		p := p
		g.Go(func() error {
			return s.RefreshPortfolio(ctx, p.ID)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Printf("Materialized graph datasets for %d portfolios", len(portfolios))
	return nil
}

// GetMaterialized retrieves the stored dataset for a portfolio/variant pair
// without recomputing valuations.
func (s *SnapshotService) GetMaterialized(portfolioID string, variant model.GraphVariant) (model.GraphDataSet, error) {
	return s.graphRepo.GetDataset(portfolioID, variant)
}
