package student_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/student"
	"github.com/aastu-its/interntrack/tests"
)

const dept = "Software Engineering"

type registryMock struct {
	registerErr error
	loginErr    error
	profile     student.RegistryProfile
	registered  []student.RegistryStudent
}

func (m *registryMock) Register(_ context.Context, rs student.RegistryStudent) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.registered = append(m.registered, rs)
	return nil
}

func (m *registryMock) Login(_ context.Context, email, _ string) (student.RegistryProfile, error) {
	if m.loginErr != nil {
		return student.RegistryProfile{}, m.loginErr
	}
	p := m.profile
	p.Email = email
	return p, nil
}

func validationCause(t *testing.T, err error) error {
	t.Helper()
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Err
}

func newStudent(id, email string) student.NewStudent {
	return student.NewStudent{
		Name:            "Abebe Kebede",
		Email:           email,
		StudentID:       id,
		Phone:           "0911223344",
		Password:        "Str0ngPass!",
		PasswordConfirm: "Str0ngPass!",
	}
}

func TestService_UploadEligible(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()

	_, err := a.StudentSvc.UploadEligible(ctx, dept, []student.EligibleStudent{{}, {StudentID: "   "}})
	assert.Equal(t, student.ErrNoValidStudents, validationCause(t, err))

	res, err := a.StudentSvc.UploadEligible(ctx, " Software Engineering ", []student.EligibleStudent{
		{StudentID: " ETS0001/12 ", Email: "ABEBE@aastustudent.edu.et", FullName: "Abebe Kebede"},
		{FullName: "Name Only"},
		{StudentID: "ETS0002/12", Department: "Electrical Engineering"},
		{Email: "abebe@aastustudent.edu.et"},
		{},
	})
	require.NoError(t, err)
	require.Len(t, res.Added, 3)
	assert.Equal(t, 2, res.Skipped)

	first := res.Added[0]
	assert.Equal(t, "ETS0001/12", first.StudentID)
	assert.Equal(t, "abebe@aastustudent.edu.et", first.Email)
	assert.Equal(t, dept, first.Department)
	assert.False(t, first.UploadedAt.IsZero())
	assert.Equal(t, "Electrical Engineering", res.Added[2].Department)

	// a second upload only adds what is new
	res, err = a.StudentSvc.UploadEligible(ctx, dept, []student.EligibleStudent{{FullName: "name only"}, {StudentID: "ETS0003/12"}})
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, "ETS0003/12", res.Added[0].StudentID)

	list, err := a.StudentSvc.QueryEligible(ctx, student.QueryFilter{Department: dept})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	es, err := a.StudentSvc.GetEligible(ctx, "abebe@AASTUstudent.edu.et")
	require.NoError(t, err)
	assert.Equal(t, "ETS0001/12", es.StudentID)
	_, err = a.StudentSvc.GetEligible(ctx, " ")
	assert.Equal(t, student.ErrEligibleNotFound, err)
}

func TestService_RegisterLocally(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()
	testutil.CreateEligible(t, a.StudentRepo, dept, student.EligibleStudent{StudentID: "ETS0001/12", FullName: "Abebe Kebede"})

	_, err := a.StudentSvc.Register(ctx, newStudent("ETS0999/12", "nobody@aastustudent.edu.et"))
	assert.Equal(t, student.ErrNotEligible, validationCause(t, err))

	std, err := a.StudentSvc.Register(ctx, newStudent("ETS0001/12", "abebe@aastustudent.edu.et"))
	require.NoError(t, err)
	assert.Equal(t, student.OriginLocal, std.Origin)
	assert.Equal(t, dept, std.Department)
	assert.NoError(t, std.CheckPassword("Str0ngPass!"))

	_, err = a.StudentSvc.Register(ctx, newStudent("ETS0001/12", "other@aastustudent.edu.et"))
	assert.Equal(t, student.ErrExistsLocally, validationCause(t, err))

	got, err := a.StudentSvc.Authenticate(ctx, student.Credentials{Email: " ABEBE@aastustudent.edu.et", Password: "Str0ngPass!"})
	require.NoError(t, err)
	assert.Equal(t, "ETS0001/12", got.StudentID)

	_, err = a.StudentSvc.Authenticate(ctx, student.Credentials{Email: "abebe@aastustudent.edu.et", Password: "nope"})
	assert.Equal(t, student.ErrInvalidCredentials, err)
	_, err = a.StudentSvc.Authenticate(ctx, student.Credentials{Email: "abebe@aastustudent.edu.et"})
	assert.Equal(t, student.ErrInvalidCredentials, err)
}

func TestService_RegisterWithRegistry(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		reg := &registryMock{}
		a := testutil.NewApp(t, reg)
		testutil.CreateEligible(t, a.StudentRepo, dept, student.EligibleStudent{Email: "abebe@aastustudent.edu.et"})

		std, err := a.StudentSvc.Register(context.Background(), newStudent("ETS0001/12", "abebe@aastustudent.edu.et"))
		require.NoError(t, err)
		assert.Equal(t, student.OriginRemote, std.Origin)
		require.Len(t, reg.registered, 1)
		assert.Equal(t, "ETS0001/12", reg.registered[0].ID)
		assert.Nil(t, reg.registered[0].Image)
	})

	t.Run("rejected", func(t *testing.T) {
		reg := &registryMock{registerErr: &student.RejectionError{Status: 400, Body: map[string]interface{}{"email": []interface{}{"taken"}}}}
		a := testutil.NewApp(t, reg)
		testutil.CreateEligible(t, a.StudentRepo, dept, student.EligibleStudent{StudentID: "ETS0001/12"})

		_, err := a.StudentSvc.Register(context.Background(), newStudent("ETS0001/12", "abebe@aastustudent.edu.et"))
		require.Error(t, err)
		assert.Equal(t, "This email address is already registered. Please use a different email or try logging in.", err.Error())

		_, err = a.StudentSvc.Get(context.Background(), student.GetFilter{StudentID: "ETS0001/12"})
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("unavailable", func(t *testing.T) {
		reg := &registryMock{registerErr: student.ErrRegistryUnavailable}
		a := testutil.NewApp(t, reg)
		testutil.CreateEligible(t, a.StudentRepo, dept, student.EligibleStudent{StudentID: "ETS0001/12"})

		std, err := a.StudentSvc.Register(context.Background(), newStudent("ETS0001/12", "abebe@aastustudent.edu.et"))
		require.NoError(t, err)
		assert.Equal(t, student.OriginLocal, std.Origin)
	})

	t.Run("accepted id of an offline account", func(t *testing.T) {
		ctx := context.Background()
		reg := &registryMock{registerErr: student.ErrRegistryUnavailable}
		a := testutil.NewApp(t, reg)
		testutil.CreateEligible(t, a.StudentRepo, dept, student.EligibleStudent{StudentID: "ETS0001/12"})

		_, err := a.StudentSvc.Register(ctx, newStudent("ETS0001/12", "abebe@aastustudent.edu.et"))
		require.NoError(t, err)

		// the registry comes back and accepts someone else with the same id
		reg.registerErr = nil
		intruder := newStudent("ETS0001/12", "intruder@aastustudent.edu.et")
		intruder.Password, intruder.PasswordConfirm = "An0therPass!", "An0therPass!"
		_, err = a.StudentSvc.Register(ctx, intruder)
		assert.Equal(t, student.ErrExistsLocally, validationCause(t, err))

		reg.loginErr = student.ErrRegistryUnavailable
		std, err := a.StudentSvc.Authenticate(ctx, student.Credentials{Email: "abebe@aastustudent.edu.et", Password: "Str0ngPass!"})
		require.NoError(t, err)
		assert.Equal(t, "ETS0001/12", std.StudentID)

		_, err = a.StudentSvc.Get(ctx, student.GetFilter{Email: "intruder@aastustudent.edu.et"})
		assert.Equal(t, student.ErrNotFound, err)
	})
}

func TestService_AuthenticateWithRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("first remote login is mirrored", func(t *testing.T) {
		reg := &registryMock{profile: student.RegistryProfile{ID: "ETS0001/12", Name: "Abebe K.", Phone: "0911000000"}}
		a := testutil.NewApp(t, reg)
		testutil.CreateEligible(t, a.StudentRepo, dept, student.EligibleStudent{StudentID: "ETS0001/12", FullName: "Abebe Kebede"})

		std, err := a.StudentSvc.Authenticate(ctx, student.Credentials{Email: "abebe@aastustudent.edu.et", Password: "Str0ngPass!"})
		require.NoError(t, err)
		assert.Equal(t, "ETS0001/12", std.StudentID)
		assert.Equal(t, "Abebe K.", std.Name)
		assert.Equal(t, dept, std.Department)
		assert.Equal(t, student.OriginRemote, std.Origin)

		// the mirrored password works when the registry goes away
		reg.loginErr = student.ErrRegistryUnavailable
		_, err = a.StudentSvc.Authenticate(ctx, student.Credentials{Email: "abebe@aastustudent.edu.et", Password: "Str0ngPass!"})
		assert.NoError(t, err)
	})

	t.Run("rejected remote keeps local accounts", func(t *testing.T) {
		reg := &registryMock{loginErr: &student.RejectionError{Status: 401}}
		a := testutil.NewApp(t, reg)
		testutil.CreateStudent(t, a.StudentRepo, "ETS0001/12", "Local", "local@aastustudent.edu.et", dept, "Str0ngPass!")

		remote := testutil.CreateStudent(t, a.StudentRepo, "ETS0002/12", "Remote", "remote@aastustudent.edu.et", dept, "Str0ngPass!")
		remote.Origin = student.OriginRemote
		_, err := a.StudentRepo.UpdateStudent(ctx, remote)
		require.NoError(t, err)

		_, err = a.StudentSvc.Authenticate(ctx, student.Credentials{Email: "local@aastustudent.edu.et", Password: "Str0ngPass!"})
		assert.NoError(t, err)
		_, err = a.StudentSvc.Authenticate(ctx, student.Credentials{Email: "remote@aastustudent.edu.et", Password: "Str0ngPass!"})
		assert.Equal(t, student.ErrInvalidCredentials, err)
	})
}

func TestService_AuthenticateWithRegistry_IDOfAnotherAccount(t *testing.T) {
	ctx := context.Background()
	reg := &registryMock{profile: student.RegistryProfile{ID: "ETS0001/12"}}
	a := testutil.NewApp(t, reg)
	testutil.CreateStudent(t, a.StudentRepo, "ETS0001/12", "Abebe", "abebe@aastustudent.edu.et", dept, "Str0ngPass!")

	_, err := a.StudentSvc.Authenticate(ctx, student.Credentials{Email: "intruder@aastustudent.edu.et", Password: "An0therPass!"})
	assert.Equal(t, student.ErrExistsLocally, validationCause(t, err))

	std, err := a.StudentSvc.Get(ctx, student.GetFilter{StudentID: "ETS0001/12"})
	require.NoError(t, err)
	assert.Equal(t, "abebe@aastustudent.edu.et", std.Email)
	assert.NoError(t, std.CheckPassword("Str0ngPass!"))
}

func TestService_SetPassword(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()
	testutil.CreateStudent(t, a.StudentRepo, "ETS0001/12", "Abebe", "abebe@aastustudent.edu.et", dept, "old")

	_, err := a.StudentSvc.SetPassword(ctx, student.GetFilter{StudentID: "ETS0404/12"}, "new")
	assert.Equal(t, student.ErrNotFound, err)

	std, err := a.StudentSvc.SetPassword(ctx, student.GetFilter{Email: "ABEBE@aastustudent.edu.et"}, "new")
	require.NoError(t, err)
	assert.NoError(t, std.CheckPassword("new"))
}
