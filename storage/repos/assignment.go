package repos

import (
	"context"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/assignment"
)

type assignmentRepository struct {
	assignments collection[assignment.Assignment]
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(store core.Store) assignment.Repository {
	return &assignmentRepository{assignments: newCollection[assignment.Assignment](store, keyAssignments)}
}

// UpsertAssignment replaces the record of (studentKey, department) in place, or appends a new one.
func (repo *assignmentRepository) UpsertAssignment(
	ctx context.Context,
	studentKey, department string,
	fn func(a *assignment.Assignment),
) (assignment.Assignment, error) {
	var result assignment.Assignment
	err := repo.assignments.mutate(ctx, func(items []assignment.Assignment) ([]assignment.Assignment, error) {
		for i, it := range items {
			if it.StudentKey == studentKey && core.EqualFold(it.Department, department) {
				fn(&it)
				items[i] = it
				result = it
				return items, nil
			}
		}
		result = assignment.Assignment{StudentKey: studentKey, Department: department}
		fn(&result)
		return append(items, result), nil
	})
	if err != nil {
		return assignment.Assignment{}, err
	}
	return result, nil
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error) {
	return repo.assignments.filter(ctx, func(it assignment.Assignment) bool {
		return (filter.Department == "" || core.EqualFold(it.Department, filter.Department)) &&
			(filter.Advisor == "" || core.EqualFold(it.Advisor, filter.Advisor)) &&
			(filter.Examiner == "" || core.EqualFold(it.Examiner, filter.Examiner))
	})
}
