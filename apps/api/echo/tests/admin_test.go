package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/dashboard"
	"github.com/aastu-its/interntrack/core/staff"
	"github.com/aastu-its/interntrack/core/student"
	"github.com/aastu-its/interntrack/tests"
)

func adminToken(t *testing.T, a *testutil.App) string {
	return getToken(t, a.Conf, core.Session{Role: core.RoleAdmin, ID: a.Conf.Admin.Username, Name: "Administrator", Email: a.Conf.Admin.Email})
}

func Test_adminApi_users(t *testing.T) {
	app, a := setup(t)
	token := adminToken(t, a)

	testutil.CreateStudent(t, a.StudentRepo, "ETS0001/12", "Abebe Kebede", "abebe@aastustudent.edu.et", dept, "Str0ngPass!")
	testutil.CreateStudent(t, a.StudentRepo, "ETS0500/12", "Other", "other@aastustudent.edu.et", "Electrical Engineering", "Str0ngPass!")
	testutil.CreateStaff(t, a.StaffRepo, "coord", core.RoleCoordinator, dept, "")
	testutil.CreateCompany(t, a.CompanyRepo, "Ethio Telecom", "hr@ethiotelecom.et", "Str0ngPass!", true)
	testutil.CreateCompany(t, a.CompanyRepo, "Safaricom", "hr@safaricom.et", "Str0ngPass!", false)

	t.Run("users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/users", token)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var users []dashboard.User
		unmarshal(t, rec, &users)
		require.Len(t, users, 4)

		roles := map[core.Role]int{}
		for _, u := range users {
			roles[u.Role]++
			assert.NotEqual(t, "hr@safaricom.et", u.Email)
		}
		assert.Equal(t, map[core.Role]int{core.RoleStudent: 2, core.RoleCoordinator: 1, core.RoleCompany: 1}, roles)
	})

	t.Run("students by department", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/students?department=software+engineering", token)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var stds []student.Student
		unmarshal(t, rec, &stds)
		require.Len(t, stds, 1)
		assert.Equal(t, "ETS0001/12", stds[0].StudentID)
	})
}

func Test_adminApi_staff(t *testing.T) {
	app, a := setup(t)
	token := adminToken(t, a)

	testutil.CreateStaff(t, a.StaffRepo, "advisor1", core.RoleAdvisor, dept, "")

	newStaff := func(username, email string, role core.Role) []byte {
		return marchallObj(t, staff.NewStaff{
			Username:   username,
			Email:      email,
			Name:       "Dr. " + username,
			Password:   "Str0ngPass!",
			Role:       role,
			Department: dept,
		})
	}

	tests := []httpTest{
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/v1/admin/staff",
			body:     []byte(`{}`),
			token:    token,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "username taken",
			method:   http.MethodPost,
			path:     "/v1/admin/staff",
			body:     newStaff("Advisor1", "other@aastu.edu.et", core.RoleStaff),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": staff.ErrUsernameExists.Error(),
				"error":    staff.ErrUsernameExists.Error(),
			}),
		},
		{
			name:     "email taken",
			method:   http.MethodPost,
			path:     "/v1/admin/staff",
			body:     newStaff("someone", "advisor1@aastu.edu.et", core.RoleStaff),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email": staff.ErrEmailExists.Error(),
				"error": staff.ErrEmailExists.Error(),
			}),
		},
		{
			name:     "promote unknown",
			method:   http.MethodPost,
			path:     "/v1/admin/staff/ghost/promote",
			token:    token,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "promote advisor",
			method:   http.MethodPost,
			path:     "/v1/admin/staff/advisor1/promote",
			token:    token,
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: staff.ErrNotPlainStaff.Error()}),
		},
	}
	runHTTPTests(t, app, tests)

	t.Run("create then promote", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/admin/staff", token, newStaff("tsegaye", "tsegaye@aastu.edu.et", core.RoleStaff))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var member staff.Staff
		unmarshal(t, rec, &member)
		assert.Equal(t, "tsegaye", member.Username)
		assert.Equal(t, core.RoleStaff, member.Role)
		assert.NotContains(t, rec.Body.String(), "Str0ngPass!")

		req, rec = newAuthRequest(http.MethodPost, "/v1/admin/staff/tsegaye/promote", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		unmarshal(t, rec, &member)
		assert.Equal(t, core.RoleCoordinator, member.Role)

		// the new coordinator can sign in right away
		body := marchallObj(t, loginBody{Role: "coordinator", Identifier: "tsegaye@aastu.edu.et", Password: "Str0ngPass!"})
		req, rec = newRequest(http.MethodPost, "/v1/auth/login", body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("list by role", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/staff?role=advisor&role=coordinator", token)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var members []staff.Staff
		unmarshal(t, rec, &members)
		assert.Len(t, members, 2)

		req, rec = newAuthRequest(http.MethodGet, "/v1/admin/staff?role=dean", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func Test_adminApi_companies(t *testing.T) {
	app, a := setup(t)
	token := adminToken(t, a)

	testutil.CreateCompany(t, a.CompanyRepo, "Ethio Telecom", "hr@ethiotelecom.et", "Str0ngPass!", true)
	pending := testutil.CreateCompany(t, a.CompanyRepo, "Safaricom", "hr@safaricom.et", "Str0ngPass!", false)

	tests := []httpTest{
		{
			name:     "verify unknown",
			method:   http.MethodPost,
			path:     "/v1/admin/companies/nope/verify",
			token:    token,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "bad verified filter",
			method:   http.MethodGet,
			path:     "/v1/admin/companies?verified=maybe",
			token:    token,
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
	}
	runHTTPTests(t, app, tests)

	t.Run("pending list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/companies?verified=false", token)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var cmps []company.Company
		unmarshal(t, rec, &cmps)
		require.Len(t, cmps, 1)
		assert.Equal(t, pending.ID, cmps[0].ID)
		assert.NotEmpty(t, cmps[0].DocumentData)
	})

	t.Run("verify is idempotent", func(t *testing.T) {
		a.Mail.Reset()
		for i := 0; i < 2; i++ {
			req, rec := newAuthRequest(http.MethodPost, "/v1/admin/companies/"+pending.ID+"/verify", token)
			app.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var cmp company.Company
			unmarshal(t, rec, &cmp)
			assert.True(t, cmp.Verified)
			assert.NotNil(t, cmp.VerifiedAt)
		}

		sent := a.Mail.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "company_verified", sent[0].TemplateName)
		assert.Equal(t, "hr@safaricom.et", sent[0].To[0].Address)
	})

	t.Run("verified company can sign in", func(t *testing.T) {
		body := marchallObj(t, loginBody{Role: "company", Identifier: "hr@safaricom.et", Password: "Str0ngPass!"})
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		req, rec = newAuthRequest(http.MethodGet, "/v1/admin/companies?verified=true", token)
		app.ServeHTTP(rec, req)
		var cmps []company.Company
		unmarshal(t, rec, &cmps)
		assert.Len(t, cmps, 2)
	})
}

// loginBody is the login payload as a client sends it.
type loginBody struct {
	Role       string `json:"role"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}
