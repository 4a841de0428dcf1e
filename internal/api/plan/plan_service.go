package plan

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/FACorreiaa/city-explorer-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for the visit plan.
type Service interface {
	AddItem(ctx context.Context, req types.AddPlanItemRequest) (*types.PlanItem, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	MoveItem(ctx context.Context, itemID uuid.UUID, req types.MovePlanItemRequest) (*types.PlanItem, error)
	GetPlan(ctx context.Context) ([]types.PlanDay, error)
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

func (s *ServiceImpl) AddItem(ctx context.Context, req types.AddPlanItemRequest) (*types.PlanItem, error) {
	if req.Day < 1 {
		return nil, fmt.Errorf("day must be >= 1, got %d", req.Day)
	}
	if err := req.Place.Validate(); err != nil {
		return nil, fmt.Errorf("invalid place reference: %w", err)
	}
	if req.Place.ID == "" {
		req.Place.ID = types.PlaceID(req.Place.OSMType, req.Place.OSMID)
	}

	item, err := s.repository.AddItem(ctx, req.Day, req.Place, req.Note)
	if err != nil {
		s.logger.Error("failed to add plan item", "error", err)
		return nil, err
	}
	return item, nil
}

func (s *ServiceImpl) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	if err := s.repository.RemoveItem(ctx, itemID); err != nil {
		s.logger.Error("failed to remove plan item", "error", err)
		return err
	}
	return nil
}

func (s *ServiceImpl) MoveItem(ctx context.Context, itemID uuid.UUID, req types.MovePlanItemRequest) (*types.PlanItem, error) {
	if req.Day < 1 {
		return nil, fmt.Errorf("day must be >= 1, got %d", req.Day)
	}
	if req.Position < 0 {
		return nil, fmt.Errorf("position must be >= 0, got %d", req.Position)
	}

	item, err := s.repository.MoveItem(ctx, itemID, req.Day, req.Position)
	if err != nil {
		s.logger.Error("failed to move plan item", "error", err)
		return nil, err
	}
	return item, nil
}

// GetPlan returns the plan grouped by day, days ascending, items in
// position order.
func (s *ServiceImpl) GetPlan(ctx context.Context) ([]types.PlanDay, error) {
	items, err := s.repository.ListItems(ctx)
	if err != nil {
		s.logger.Error("failed to list plan items", "error", err)
		return nil, err
	}

	byDay := make(map[int][]types.PlanItem)
	for _, item := range items {
		byDay[item.Day] = append(byDay[item.Day], item)
	}

	days := make([]types.PlanDay, 0, len(byDay))
	for day, dayItems := range byDay {
		days = append(days, types.PlanDay{Day: day, Items: dayItems})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return days, nil
}
