package repos

import (
	"context"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/logbook"
)

type logbookRepository struct {
	entries collection[logbook.Entry]
}

var _ logbook.Repository = (*logbookRepository)(nil)

func NewLogbookRepository(store core.Store) logbook.Repository {
	return &logbookRepository{entries: newCollection[logbook.Entry](store, keyLogbooks)}
}

func (repo *logbookRepository) CreateEntry(ctx context.Context, e logbook.Entry) (logbook.Entry, error) {
	return repo.entries.add(ctx, e, nil)
}

func (repo *logbookRepository) QueryEntries(ctx context.Context, filter logbook.QueryFilter) ([]logbook.Entry, error) {
	return repo.entries.filter(ctx, func(it logbook.Entry) bool {
		return (filter.StudentID == "" || it.StudentID == filter.StudentID) &&
			(filter.CompanyID == "" || it.CompanyID == filter.CompanyID) &&
			(filter.Status == "" || it.Status == filter.Status)
	})
}

func (repo *logbookRepository) ModifyEntry(ctx context.Context, id string, fn func(e *logbook.Entry) error) (logbook.Entry, error) {
	return repo.entries.modify(ctx, logbook.ErrNotFound,
		func(it logbook.Entry) bool { return it.ID == id },
		fn,
	)
}
