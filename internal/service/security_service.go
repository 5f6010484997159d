package service

import (
	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/model"
	"github.com/ivolkov/portfolio-graphs/internal/repository"
)

// SecurityService handles read access to the security catalogue maintained
// by the market-data ingestion process.
type SecurityService struct {
	securityRepo *repository.SecurityRepository
}

// NewSecurityService creates a new SecurityService with the provided repository dependencies.
func NewSecurityService(securityRepo *repository.SecurityRepository) *SecurityService {
	return &SecurityService{securityRepo: securityRepo}
}

// GetAllSecurities retrieves all securities ordered by ticker.
func (s *SecurityService) GetAllSecurities() ([]model.Security, error) {
	return s.securityRepo.GetSecurities()
}

// GetSecurity retrieves one security by ID.
func (s *SecurityService) GetSecurity(securityID string) (model.Security, error) {
	if securityID == "" {
		return model.Security{}, apperrors.ErrEmptyID
	}
	return s.securityRepo.GetSecurity(securityID)
}
