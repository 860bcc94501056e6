package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("student")
	ErrEligibleNotFound   = core.NewNotFoundError("eligible student")
	ErrEmailExists        = errors.New("a student with this email already exists")
	ErrIDExists           = errors.New("a student with this ID already exists")
	ErrExistsLocally      = errors.New("a student with this email or ID already exists locally. Try logging in.")
	ErrEmailDomain        = errors.New("only AASTU email addresses are allowed for students")
	ErrNotEligible        = errors.New("you are not in the eligible students list. Please contact your coordinator.")
	ErrNoValidStudents    = errors.New("no valid students found in the file")
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		// SaveStudent inserts s or replaces the record with the same studentId.
		// It fails with ErrIDExists when that record belongs to another email.
		SaveStudent(ctx context.Context, s Student) (Student, error)
		GetStudent(ctx context.Context, filter GetFilter) (Student, error)
		QueryStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)

		// AddEligibleStudents appends the entries not listed yet and returns them.
		AddEligibleStudents(ctx context.Context, entries ...EligibleStudent) ([]EligibleStudent, error)
		FindEligibleStudent(ctx context.Context, studentID, email string) (EligibleStudent, error)
		QueryEligibleStudents(ctx context.Context, filter QueryFilter) ([]EligibleStudent, error)
	}

	Service interface {
		UploadEligible(ctx context.Context, department string, entries []EligibleStudent) (UploadResult, error)
		QueryEligible(ctx context.Context, filter QueryFilter) ([]EligibleStudent, error)
		GetEligible(ctx context.Context, idOrEmail string) (EligibleStudent, error)
		Register(ctx context.Context, ns NewStudent) (Student, error)
		Authenticate(ctx context.Context, creds Credentials) (Student, error)
		Get(ctx context.Context, filter GetFilter) (Student, error)
		Query(ctx context.Context, filter QueryFilter) ([]Student, error)
		SetPassword(ctx context.Context, filter GetFilter, pwd string) (Student, error)
	}

	service struct {
		repo     Repository
		registry Registry // optional
		logger   core.Logger
		nowFunc  func() time.Time
	}
)

var _ Service = (*service)(nil)

// NewService returns the student Service. registry may be nil, in which case only the local store is used.
func NewService(repo Repository, registry Registry, logger core.Logger) Service {
	return &service{
		repo:     repo,
		registry: registry,
		logger:   logger,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

// UploadEligible appends the valid entries to the eligible list. Entries without department get the uploader's.
func (svc *service) UploadEligible(ctx context.Context, department string, entries []EligibleStudent) (UploadResult, error) {
	now := svc.nowFunc()
	valid := make([]EligibleStudent, 0, len(entries))
	for _, es := range entries {
		es.clean()
		if !es.valid() {
			continue
		}
		if es.Department == "" {
			es.Department = core.CleanString(department)
		}
		es.UploadedAt = now
		valid = append(valid, es)
	}
	if len(valid) == 0 {
		return UploadResult{}, core.NewValidationError(ErrNoValidStudents)
	}

	added, err := svc.repo.AddEligibleStudents(ctx, valid...)
	if err != nil {
		return UploadResult{}, errors.Wrap(err, "adding eligible students")
	}
	return UploadResult{Added: added, Skipped: len(entries) - len(added)}, nil
}

func (svc *service) QueryEligible(ctx context.Context, filter QueryFilter) ([]EligibleStudent, error) {
	return svc.repo.QueryEligibleStudents(ctx, filter)
}

// GetEligible finds the eligible list entry whose studentId or email is idOrEmail.
func (svc *service) GetEligible(ctx context.Context, idOrEmail string) (EligibleStudent, error) {
	idOrEmail = core.CleanString(idOrEmail)
	if idOrEmail == "" {
		return EligibleStudent{}, ErrEligibleNotFound
	}
	return svc.repo.FindEligibleStudent(ctx, idOrEmail, idOrEmail)
}

// Register signs a student up with the remote registry and mirrors the account locally.
// When the registry cannot be reached the account is created locally only.
func (svc *service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	eligible, err := svc.repo.FindEligibleStudent(ctx, ns.StudentID, ns.Email)
	if err != nil {
		if errors.Cause(err) == ErrEligibleNotFound {
			return Student{}, core.NewValidationError(ErrNotEligible)
		}
		return Student{}, errors.Wrap(err, "finding eligible student")
	}

	now := svc.nowFunc()
	std := Student{
		StudentID:  ns.StudentID,
		Name:       ns.Name,
		Email:      ns.Email,
		Phone:      ns.Phone,
		Department: eligible.Department,
		Image:      ns.Image,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if std.Name == "" {
		std.Name = eligible.FullName
	}
	if err = std.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "hashing password")
	}

	if svc.registry != nil {
		var image *string
		if ns.Image != "" {
			image = &ns.Image
		}
		err = svc.registry.Register(ctx, RegistryStudent{
			Name:     ns.Name,
			Email:    ns.Email,
			Password: ns.Password,
			Phone:    ns.Phone,
			ID:       ns.StudentID,
			Image:    image,
		})
		var rejection *RejectionError
		switch {
		case err == nil:
			std.Origin = OriginRemote
			if std, err = svc.repo.SaveStudent(ctx, std); err != nil {
				if cause := errors.Cause(err); cause == ErrEmailExists || cause == ErrIDExists {
					return Student{}, core.NewValidationError(ErrExistsLocally)
				}
				return Student{}, errors.Wrap(err, "mirroring registered student")
			}
			return std, nil
		case errors.As(err, &rejection):
			return Student{}, core.NewValidationError(errors.New(rejection.FriendlyMessage()))
		default:
			svc.logger.Warn("student registry unreachable, registering locally", err)
		}
	}

	std.Origin = OriginLocal
	std, err = svc.repo.CreateStudent(ctx, std)
	if err != nil {
		switch errors.Cause(err) {
		case ErrEmailExists, ErrIDExists:
			return Student{}, core.NewValidationError(ErrExistsLocally)
		}
		return Student{}, errors.Wrap(err, "creating student")
	}
	return std, nil
}

// Authenticate checks the credentials against the remote registry first.
// Accounts created locally while the registry was down, and every account when it is unreachable,
// are checked against the local store.
func (svc *service) Authenticate(ctx context.Context, creds Credentials) (Student, error) {
	email := core.CleanString(creds.Email, true /* lower */)
	if email == "" || creds.Password == "" {
		return Student{}, ErrInvalidCredentials
	}

	if svc.registry != nil {
		profile, err := svc.registry.Login(ctx, email, creds.Password)
		var rejection *RejectionError
		switch {
		case err == nil:
			return svc.mirrorProfile(ctx, profile, email, creds.Password)
		case errors.As(err, &rejection):
			// only accounts the registry never saw remain valid
			std, lErr := svc.authenticateLocally(ctx, email, creds.Password)
			if lErr != nil || std.Origin != OriginLocal {
				return Student{}, ErrInvalidCredentials
			}
			return std, nil
		default:
			svc.logger.Warn("student registry unreachable, authenticating locally", err)
		}
	}
	return svc.authenticateLocally(ctx, email, creds.Password)
}

func (svc *service) authenticateLocally(ctx context.Context, email, pwd string) (Student, error) {
	std, err := svc.repo.GetStudent(ctx, GetFilter{Email: email})
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Student{}, ErrInvalidCredentials
		}
		return Student{}, errors.Wrap(err, "finding student by email")
	}
	if err = std.CheckPassword(pwd); err != nil {
		return Student{}, ErrInvalidCredentials
	}
	return std, nil
}

// mirrorProfile keeps the local copy of a remotely authenticated student in sync.
func (svc *service) mirrorProfile(ctx context.Context, profile RegistryProfile, email, pwd string) (Student, error) {
	std, err := svc.repo.GetStudent(ctx, GetFilter{Email: email})
	if err != nil && errors.Cause(err) != ErrNotFound {
		return Student{}, errors.Wrap(err, "finding student by email")
	}

	now := svc.nowFunc()
	if err != nil { // first login on this node
		std = Student{
			StudentID: core.CleanString(profile.ID),
			Email:     email,
			CreatedAt: now,
		}
		if eligible, eErr := svc.repo.FindEligibleStudent(ctx, std.StudentID, email); eErr == nil {
			std.Department = eligible.Department
			std.Name = eligible.FullName
		}
	}
	if profile.Name != "" {
		std.Name = profile.Name
	}
	if profile.Phone != "" {
		std.Phone = profile.Phone
	}
	if std.StudentID == "" {
		std.StudentID = core.CleanString(profile.ID)
	}
	if std.CheckPassword(pwd) != nil {
		if err = std.SetPassword(pwd); err != nil {
			return Student{}, errors.Wrap(err, "hashing password")
		}
	}
	std.Origin = OriginRemote
	std.UpdatedAt = now

	std, err = svc.repo.SaveStudent(ctx, std)
	if err != nil {
		if cause := errors.Cause(err); cause == ErrEmailExists || cause == ErrIDExists {
			return Student{}, core.NewValidationError(ErrExistsLocally)
		}
		return Student{}, errors.Wrap(err, "mirroring student profile")
	}
	return std, nil
}

func (svc *service) Get(ctx context.Context, filter GetFilter) (Student, error) {
	filter.StudentID = core.CleanString(filter.StudentID)
	filter.Email = core.CleanString(filter.Email, true /* lower */)
	return svc.repo.GetStudent(ctx, filter)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, filter)
}

func (svc *service) SetPassword(ctx context.Context, filter GetFilter, pwd string) (Student, error) {
	std, err := svc.Get(ctx, filter)
	if err != nil {
		return Student{}, err
	}
	if err = std.SetPassword(pwd); err != nil {
		return Student{}, errors.Wrap(err, "hashing password")
	}
	std.UpdatedAt = svc.nowFunc()
	return svc.repo.UpdateStudent(ctx, std)
}
