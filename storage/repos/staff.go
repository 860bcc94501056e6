package repos

import (
	"context"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/staff"
)

type staffRecord struct {
	staff.Staff
	PasswordHash []byte `json:"passwordHash"`
}

func newStaffRecord(s staff.Staff) staffRecord {
	return staffRecord{Staff: s, PasswordHash: s.PasswordHash}
}

func (r staffRecord) toStaff() staff.Staff {
	s := r.Staff
	s.PasswordHash = r.PasswordHash
	return s
}

type staffRepository struct {
	staff collection[staffRecord]
}

var _ staff.Repository = (*staffRepository)(nil)

func NewStaffRepository(store core.Store) staff.Repository {
	return &staffRepository{staff: newCollection[staffRecord](store, keyStaff)}
}

func (repo *staffRepository) CreateStaff(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	rec, err := repo.staff.add(ctx, newStaffRecord(s), func(existing staffRecord) error {
		if core.EqualFold(existing.Username, s.Username) {
			return staff.ErrUsernameExists
		}
		if s.Email != "" && core.EqualFold(existing.Email, s.Email) {
			return staff.ErrEmailExists
		}
		return nil
	})
	return rec.toStaff(), err
}

func (repo *staffRepository) GetStaff(ctx context.Context, filter staff.GetFilter) (staff.Staff, error) {
	if filter.Username == "" && filter.UsernameOrEmail == "" {
		return staff.Staff{}, staff.ErrNotFound
	}
	rec, err := repo.staff.find(ctx, staff.ErrNotFound, func(it staffRecord) bool {
		if filter.Role != "" && it.Role != filter.Role {
			return false
		}
		if filter.Username != "" && !core.EqualFold(it.Username, filter.Username) {
			return false
		}
		if id := filter.UsernameOrEmail; id != "" {
			return core.EqualFold(it.Username, id) || (it.Email != "" && core.EqualFold(it.Email, id))
		}
		return true
	})
	if err != nil {
		return staff.Staff{}, err
	}
	return rec.toStaff(), nil
}

func (repo *staffRepository) QueryStaff(ctx context.Context, filter staff.QueryFilter) ([]staff.Staff, error) {
	recs, err := repo.staff.filter(ctx, func(it staffRecord) bool {
		if filter.Department != "" && !core.EqualFold(it.Department, filter.Department) {
			return false
		}
		if len(filter.Roles) == 0 {
			return true
		}
		for _, r := range filter.Roles {
			if it.Role == r {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	members := make([]staff.Staff, 0, len(recs))
	for _, r := range recs {
		members = append(members, r.toStaff())
	}
	return members, nil
}

func (repo *staffRepository) ModifyStaff(ctx context.Context, username string, fn func(s *staff.Staff) error) (staff.Staff, error) {
	rec, err := repo.staff.modify(ctx, staff.ErrNotFound,
		func(it staffRecord) bool { return core.EqualFold(it.Username, username) },
		func(it *staffRecord) error {
			s := it.toStaff()
			if err := fn(&s); err != nil {
				return err
			}
			*it = newStaffRecord(s)
			return nil
		},
	)
	if err != nil {
		return staff.Staff{}, err
	}
	return rec.toStaff(), nil
}
