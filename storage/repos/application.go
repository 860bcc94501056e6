package repos

import (
	"context"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/application"
)

type applicationRepository struct {
	applications collection[application.Application]
}

var _ application.Repository = (*applicationRepository)(nil)

func NewApplicationRepository(store core.Store) application.Repository {
	return &applicationRepository{applications: newCollection[application.Application](store, keyApplications)}
}

func (repo *applicationRepository) CreateApplication(ctx context.Context, a application.Application) (application.Application, error) {
	return repo.applications.add(ctx, a, func(existing application.Application) error {
		if existing.StudentID == a.StudentID && existing.CompanyID == a.CompanyID {
			return application.ErrAlreadyApplied
		}
		return nil
	})
}

func (repo *applicationRepository) GetApplication(ctx context.Context, id string) (application.Application, error) {
	return repo.applications.find(ctx, application.ErrNotFound, func(it application.Application) bool {
		return it.ID == id
	})
}

func (repo *applicationRepository) QueryApplications(ctx context.Context, filter application.QueryFilter) ([]application.Application, error) {
	return repo.applications.filter(ctx, func(it application.Application) bool {
		return (filter.StudentID == "" || it.StudentID == filter.StudentID) &&
			(filter.CompanyID == "" || it.CompanyID == filter.CompanyID) &&
			(filter.Status == "" || it.Status == filter.Status)
	})
}

func (repo *applicationRepository) ModifyApplication(
	ctx context.Context,
	id string,
	fn func(a *application.Application) error,
) (application.Application, error) {
	return repo.applications.modify(ctx, application.ErrNotFound,
		func(it application.Application) bool { return it.ID == id },
		fn,
	)
}
