package repos

import (
	"context"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/placement"
)

type placementRepository struct {
	placements collection[placement.Placement]
}

var _ placement.Repository = (*placementRepository)(nil)

func NewPlacementRepository(store core.Store) placement.Repository {
	return &placementRepository{placements: newCollection[placement.Placement](store, keyPlacements)}
}

func (repo *placementRepository) CreatePlacement(ctx context.Context, p placement.Placement) (placement.Placement, error) {
	return repo.placements.add(ctx, p, func(existing placement.Placement) error {
		if existing.StudentID == p.StudentID && existing.Status == placement.StatusPending {
			return placement.ErrPendingExists
		}
		return nil
	})
}

func (repo *placementRepository) QueryPlacements(ctx context.Context, filter placement.QueryFilter) ([]placement.Placement, error) {
	return repo.placements.filter(ctx, func(it placement.Placement) bool {
		return (filter.StudentID == "" || it.StudentID == filter.StudentID) &&
			(filter.Department == "" || core.EqualFold(it.Department, filter.Department)) &&
			(filter.Status == "" || it.Status == filter.Status)
	})
}

func (repo *placementRepository) ModifyPlacement(ctx context.Context, id string, fn func(p *placement.Placement) error) (placement.Placement, error) {
	return repo.placements.modify(ctx, placement.ErrNotFound,
		func(it placement.Placement) bool { return it.ID == id },
		fn,
	)
}
