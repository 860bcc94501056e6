package repos

import (
	"context"
	"time"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/company"
)

type companyRecord struct {
	company.Company
	PasswordHash []byte `json:"passwordHash"`
}

func newCompanyRecord(c company.Company) companyRecord {
	return companyRecord{Company: c, PasswordHash: c.PasswordHash}
}

func (r companyRecord) toCompany() company.Company {
	c := r.Company
	c.PasswordHash = r.PasswordHash
	return c
}

type companyRepository struct {
	companies collection[companyRecord]
}

var _ company.Repository = (*companyRepository)(nil)

func NewCompanyRepository(store core.Store) company.Repository {
	return &companyRepository{companies: newCollection[companyRecord](store, keyCompanies)}
}

func (repo *companyRepository) CreateCompany(ctx context.Context, c company.Company) (company.Company, error) {
	rec, err := repo.companies.add(ctx, newCompanyRecord(c), func(existing companyRecord) error {
		if core.EqualFold(existing.Name, c.Name) {
			return company.ErrNameExists
		}
		if core.EqualFold(existing.ContactEmail, c.ContactEmail) {
			return company.ErrEmailExists
		}
		return nil
	})
	return rec.toCompany(), err
}

func (repo *companyRepository) get(ctx context.Context, match func(it companyRecord) bool) (company.Company, error) {
	rec, err := repo.companies.find(ctx, company.ErrNotFound, match)
	if err != nil {
		return company.Company{}, err
	}
	return rec.toCompany(), nil
}

func (repo *companyRepository) GetCompany(ctx context.Context, id string) (company.Company, error) {
	return repo.get(ctx, func(it companyRecord) bool { return it.ID == id })
}

func (repo *companyRepository) GetCompanyByEmail(ctx context.Context, email string) (company.Company, error) {
	return repo.get(ctx, func(it companyRecord) bool { return core.EqualFold(it.ContactEmail, email) })
}

func (repo *companyRepository) QueryCompanies(ctx context.Context, filter company.QueryFilter) ([]company.Company, error) {
	recs, err := repo.companies.filter(ctx, func(it companyRecord) bool {
		return filter.Verified == nil || it.Verified == *filter.Verified
	})
	if err != nil {
		return nil, err
	}
	companies := make([]company.Company, 0, len(recs))
	for _, r := range recs {
		companies = append(companies, r.toCompany())
	}
	return companies, nil
}

func (repo *companyRepository) UpdateCompany(ctx context.Context, c company.Company) (company.Company, error) {
	rec, err := repo.companies.modify(ctx, company.ErrNotFound,
		func(it companyRecord) bool { return it.ID == c.ID },
		func(it *companyRecord) error {
			*it = newCompanyRecord(c)
			return nil
		},
	)
	return rec.toCompany(), err
}

func (repo *companyRepository) VerifyCompany(ctx context.Context, id string, at time.Time) (company.Company, bool, error) {
	var changed bool
	rec, err := repo.companies.modify(ctx, company.ErrNotFound,
		func(it companyRecord) bool { return it.ID == id },
		func(it *companyRecord) error {
			if it.Verified {
				return nil
			}
			changed = true
			it.Verified = true
			it.VerifiedAt = &at
			return nil
		},
	)
	if err != nil {
		return company.Company{}, false, err
	}
	return rec.toCompany(), changed, nil
}
