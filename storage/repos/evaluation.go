package repos

import (
	"context"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/evaluation"
)

type evaluationRepository struct {
	monthly collection[evaluation.Monthly]
	final   collection[evaluation.Final]
}

var _ evaluation.Repository = (*evaluationRepository)(nil)

func NewEvaluationRepository(store core.Store) evaluation.Repository {
	return &evaluationRepository{
		monthly: newCollection[evaluation.Monthly](store, keyMonthlyEvaluations),
		final:   newCollection[evaluation.Final](store, keyFinalEvaluations),
	}
}

func (repo *evaluationRepository) CreateMonthly(ctx context.Context, m evaluation.Monthly) (evaluation.Monthly, error) {
	return repo.monthly.add(ctx, m, nil)
}

func (repo *evaluationRepository) QueryMonthly(ctx context.Context, filter evaluation.QueryFilter) ([]evaluation.Monthly, error) {
	return repo.monthly.filter(ctx, func(it evaluation.Monthly) bool {
		return (filter.CompanyID == "" || it.CompanyID == filter.CompanyID) &&
			(filter.StudentID == "" || it.StudentID == filter.StudentID)
	})
}

func (repo *evaluationRepository) CreateFinal(ctx context.Context, f evaluation.Final) (evaluation.Final, error) {
	return repo.final.add(ctx, f, func(existing evaluation.Final) error {
		if existing.CompanyID == f.CompanyID && existing.StudentID == f.StudentID {
			return evaluation.ErrFinalLocked
		}
		return nil
	})
}

func (repo *evaluationRepository) QueryFinal(ctx context.Context, filter evaluation.QueryFilter) ([]evaluation.Final, error) {
	return repo.final.filter(ctx, func(it evaluation.Final) bool {
		return (filter.CompanyID == "" || it.CompanyID == filter.CompanyID) &&
			(filter.StudentID == "" || it.StudentID == filter.StudentID)
	})
}
