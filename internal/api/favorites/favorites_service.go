package favorites

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for favorites.
type Service interface {
	AddFavorite(ctx context.Context, place types.PlaceRef) error
	RemoveFavorite(ctx context.Context, placeID string) error
	ListFavorites(ctx context.Context) ([]types.FavoritePlace, error)
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

func (s *ServiceImpl) AddFavorite(ctx context.Context, place types.PlaceRef) error {
	if err := place.Validate(); err != nil {
		return fmt.Errorf("invalid place reference: %w", err)
	}
	if place.ID == "" {
		place.ID = types.PlaceID(place.OSMType, place.OSMID)
	}
	if err := s.repository.AddFavorite(ctx, place); err != nil {
		s.logger.Error("failed to add place to favorites", "error", err)
		return err
	}
	return nil
}

func (s *ServiceImpl) RemoveFavorite(ctx context.Context, placeID string) error {
	if err := s.repository.RemoveFavorite(ctx, placeID); err != nil {
		s.logger.Error("failed to remove place from favorites", "error", err)
		return err
	}
	return nil
}

func (s *ServiceImpl) ListFavorites(ctx context.Context) ([]types.FavoritePlace, error) {
	favorites, err := s.repository.ListFavorites(ctx)
	if err != nil {
		s.logger.Error("failed to list favorites", "error", err)
		return nil, err
	}
	return favorites, nil
}
