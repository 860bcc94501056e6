package repos

import (
	"context"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/student"
)

// studentRecord persists the password hash the domain type keeps out of JSON.
type studentRecord struct {
	student.Student
	PasswordHash []byte `json:"passwordHash"`
}

func newStudentRecord(s student.Student) studentRecord {
	return studentRecord{Student: s, PasswordHash: s.PasswordHash}
}

func (r studentRecord) toStudent() student.Student {
	s := r.Student
	s.PasswordHash = r.PasswordHash
	return s
}

type studentRepository struct {
	students collection[studentRecord]
	eligible collection[student.EligibleStudent]
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(store core.Store) student.Repository {
	return &studentRepository{
		students: newCollection[studentRecord](store, keyStudents),
		eligible: newCollection[student.EligibleStudent](store, keyEligibleStudents),
	}
}

func checkStudentUniqueness(s student.Student, existing student.Student) error {
	if s.StudentID != "" && existing.StudentID == s.StudentID {
		return student.ErrIDExists
	}
	if s.Email != "" && core.EqualFold(existing.Email, s.Email) {
		return student.ErrEmailExists
	}
	return nil
}

func sameStudent(a, b student.Student) bool {
	if b.StudentID != "" {
		return a.StudentID == b.StudentID
	}
	return core.EqualFold(a.Email, b.Email)
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	rec, err := repo.students.add(ctx, newStudentRecord(s), func(existing studentRecord) error {
		return checkStudentUniqueness(s, existing.Student)
	})
	return rec.toStudent(), err
}

func (repo *studentRepository) SaveStudent(ctx context.Context, s student.Student) (student.Student, error) {
	err := repo.students.mutate(ctx, func(items []studentRecord) ([]studentRecord, error) {
		idx := -1
		for i, it := range items {
			if sameStudent(it.Student, s) {
				// an id never moves to another account
				if s.Email != "" && it.Email != "" && !core.EqualFold(it.Email, s.Email) {
					return nil, student.ErrIDExists
				}
				idx = i
				continue
			}
			if s.Email != "" && core.EqualFold(it.Email, s.Email) {
				return nil, student.ErrEmailExists
			}
		}
		if idx < 0 {
			return append(items, newStudentRecord(s)), nil
		}
		items[idx] = newStudentRecord(s)
		return items, nil
	})
	if err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	if filter.StudentID == "" && filter.Email == "" {
		return student.Student{}, student.ErrNotFound
	}
	rec, err := repo.students.find(ctx, student.ErrNotFound, func(it studentRecord) bool {
		return (filter.StudentID == "" || it.StudentID == filter.StudentID) &&
			(filter.Email == "" || core.EqualFold(it.Email, filter.Email))
	})
	if err != nil {
		return student.Student{}, err
	}
	return rec.toStudent(), nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	recs, err := repo.students.filter(ctx, func(it studentRecord) bool {
		return filter.Department == "" || core.EqualFold(it.Department, filter.Department)
	})
	if err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(recs))
	for _, r := range recs {
		students = append(students, r.toStudent())
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	rec, err := repo.students.modify(ctx, student.ErrNotFound,
		func(it studentRecord) bool { return sameStudent(it.Student, s) },
		func(it *studentRecord) error {
			*it = newStudentRecord(s)
			return nil
		},
	)
	if err != nil {
		return student.Student{}, err
	}
	return rec.toStudent(), nil
}

func (repo *studentRepository) AddEligibleStudents(ctx context.Context, entries ...student.EligibleStudent) ([]student.EligibleStudent, error) {
	var added []student.EligibleStudent
	err := repo.eligible.mutate(ctx, func(items []student.EligibleStudent) ([]student.EligibleStudent, error) {
		added = make([]student.EligibleStudent, 0, len(entries))
		for _, es := range entries {
			if listed(items, es) {
				continue
			}
			items = append(items, es)
			added = append(added, es)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// listed reports whether es designates a student already in items.
// Entries with a name only are compared by name and department.
func listed(items []student.EligibleStudent, es student.EligibleStudent) bool {
	for _, it := range items {
		if es.StudentID == "" && es.Email == "" {
			if it.StudentID == "" && it.Email == "" &&
				core.EqualFold(it.FullName, es.FullName) && core.EqualFold(it.Department, es.Department) {
				return true
			}
			continue
		}
		if it.Matches(es.StudentID, es.Email) {
			return true
		}
	}
	return false
}

func (repo *studentRepository) FindEligibleStudent(ctx context.Context, studentID, email string) (student.EligibleStudent, error) {
	if studentID == "" && email == "" {
		return student.EligibleStudent{}, student.ErrEligibleNotFound
	}
	return repo.eligible.find(ctx, student.ErrEligibleNotFound, func(it student.EligibleStudent) bool {
		return it.Matches(studentID, email)
	})
}

func (repo *studentRepository) QueryEligibleStudents(ctx context.Context, filter student.QueryFilter) ([]student.EligibleStudent, error) {
	return repo.eligible.filter(ctx, func(it student.EligibleStudent) bool {
		return filter.Department == "" || core.EqualFold(it.Department, filter.Department)
	})
}
