package recents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

// DefaultLimit is how many recently viewed cities are kept visible.
const DefaultLimit = 5

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	RecordCity(ctx context.Context, city types.City) error
	ListRecentCities(ctx context.Context, limit int) ([]types.RecentCity, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
}

func NewServiceImpl(repository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repository,
	}
}

func (s *ServiceImpl) RecordCity(ctx context.Context, city types.City) error {
	if city.ID == "" {
		return fmt.Errorf("city id is required")
	}
	if city.Name == "" {
		return fmt.Errorf("city name is required")
	}

	if err := s.repository.RecordCity(ctx, city); err != nil {
		s.logger.Error("failed to record recent city", "error", err)
		return err
	}
	return nil
}

func (s *ServiceImpl) ListRecentCities(ctx context.Context, limit int) ([]types.RecentCity, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	cities, err := s.repository.ListRecentCities(ctx, limit)
	if err != nil {
		s.logger.Error("failed to list recent cities", "error", err)
		return nil, err
	}
	return cities, nil
}
