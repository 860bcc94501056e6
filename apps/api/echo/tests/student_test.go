package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/application"
	"github.com/aastu-its/interntrack/core/dashboard"
	"github.com/aastu-its/interntrack/core/logbook"
	"github.com/aastu-its/interntrack/core/notification"
	"github.com/aastu-its/interntrack/core/placement"
	"github.com/aastu-its/interntrack/core/student"
	"github.com/aastu-its/interntrack/tests"
)

const dept = "Software Engineering"

func Test_registrationApi_registerStudent(t *testing.T) {
	app, a := setup(t)
	testutil.CreateEligible(t, a.StudentRepo, dept,
		student.EligibleStudent{StudentID: "ETS0001/12", Email: "abebe@aastustudent.edu.et", FullName: "Abebe Kebede"},
		student.EligibleStudent{StudentID: "ETS0002/12", FullName: "Sara Tesfaye"},
	)

	body := func(name, email, id, phone, pwd, confirm string) []byte {
		return marchallObj(t, student.NewStudent{
			Name:            name,
			Email:           email,
			StudentID:       id,
			Phone:           phone,
			Password:        pwd,
			PasswordConfirm: confirm,
		})
	}

	tests := []httpTest{
		{
			name:     "email outside the student domain",
			method:   http.MethodPost,
			path:     "/v1/students/register",
			body:     body("Abebe Kebede", "abebe@gmail.com", "ETS0001/12", "0911223344", "Str0ngPass!", "Str0ngPass!"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": student.ErrEmailDomain.Error()}),
		},
		{
			name:     "invalid fields",
			method:   http.MethodPost,
			path:     "/v1/students/register",
			body:     body("Abebe Kebede", "abebe@aastustudent.edu.et", "", "09-11", "Str0ngPass!", "other"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"studentId":       "this field is required",
				"phone":           "please enter a valid phone number (digits only, 9-15 characters)",
				"confirmPassword": "passwords do not match",
			}),
		},
		{
			name:     "not eligible",
			method:   http.MethodPost,
			path:     "/v1/students/register",
			body:     body("Kebede", "kebede@aastustudent.edu.et", "ETS9999/12", "0911223344", "Str0ngPass!", "Str0ngPass!"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: student.ErrNotEligible.Error()}),
		},
	}
	runHTTPTests(t, app, tests)

	t.Run("eligible", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/students/register",
			body("Abebe Kebede", "Abebe@aastustudent.edu.et", "ETS0001/12", "0911223344", "Str0ngPass!", "Str0ngPass!"))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var std student.Student
		unmarshal(t, rec, &std)
		assert.Equal(t, "ETS0001/12", std.StudentID)
		assert.Equal(t, "abebe@aastustudent.edu.et", std.Email)
		assert.Equal(t, dept, std.Department)
		assert.Equal(t, student.OriginLocal, std.Origin)
	})

	t.Run("already registered", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/students/register",
			body("Abebe Kebede", "abebe@aastustudent.edu.et", "ETS0001/12", "0911223344", "Str0ngPass!", "Str0ngPass!"))
		app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: student.ErrExistsLocally.Error()}),
		}, rec)
	})
}

func Test_studentApi_applications(t *testing.T) {
	app, a := setup(t)

	std := testutil.CreateStudent(t, a.StudentRepo, "ETS0001/12", "Abebe Kebede", "abebe@aastustudent.edu.et", dept, "")
	verified := testutil.CreateCompany(t, a.CompanyRepo, "Ethio Telecom", "hr@ethiotelecom.et", "", true)
	unverified := testutil.CreateCompany(t, a.CompanyRepo, "Safaricom", "hr@safaricom.et", "", false)
	token := getToken(t, a.Conf, std.Session())

	apply := func(companyID, reason string) []byte {
		return marchallObj(t, application.NewApplication{CompanyID: companyID, Reason: reason})
	}

	t.Run("companies lists verified only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/companies", token)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var cmps []map[string]interface{}
		unmarshal(t, rec, &cmps)
		require.Len(t, cmps, 1)
		assert.Equal(t, "Ethio Telecom", cmps[0]["companyName"])
		assert.NotContains(t, cmps[0], "documentData")
	})

	tests := []httpTest{
		{
			name:     "no reason",
			method:   http.MethodPost,
			path:     "/v1/student/applications",
			body:     apply(verified.ID, "  "),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"error":  application.ErrReasonRequired.Error(),
				"reason": application.ErrReasonRequired.Error(),
			}),
		},
		{
			name:     "unverified company",
			method:   http.MethodPost,
			path:     "/v1/student/applications",
			body:     apply(unverified.ID, "I like telecom"),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: application.ErrCompanyNotVerified.Error()}),
		},
	}
	runHTTPTests(t, app, tests)

	var applied application.Application
	t.Run("apply", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/student/applications", token, apply(verified.ID, "I like telecom"))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		unmarshal(t, rec, &applied)
		assert.Equal(t, application.StatusPending, applied.Status)
		assert.Equal(t, std.StudentID, applied.StudentID)
		assert.Equal(t, "Ethio Telecom", applied.CompanyName)
	})

	runHTTPTests(t, app, []httpTest{{
		name:     "apply twice",
		method:   http.MethodPost,
		path:     "/v1/student/applications",
		body:     apply(verified.ID, "again"),
		token:    token,
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: application.ErrAlreadyApplied.Error()}),
	}})

	t.Run("query", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/applications", token)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var apps []application.Application
		unmarshal(t, rec, &apps)
		require.Len(t, apps, 1)
		assert.Equal(t, applied.ID, apps[0].ID)
	})

	t.Run("notifications", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/notifications", token)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var items []notification.Item
		unmarshal(t, rec, &items)
		require.Len(t, items, 1)
		assert.Equal(t, "Application submitted to Ethio Telecom", items[0].Title)
		assert.False(t, items[0].Read)

		req, rec = newAuthRequest(http.MethodPost, "/v1/student/notifications/"+items[0].ID+"/read", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		n, err := a.NotifSvc.UnreadCount(req.Context(), std.StudentID)
		require.NoError(t, err)
		assert.Zero(t, n)

		req, rec = newAuthRequest(http.MethodPost, "/v1/student/notifications/unknown/read", token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("dashboard", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/dashboard", token)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var dash dashboard.StudentDashboard
		unmarshal(t, rec, &dash)
		assert.Equal(t, application.InternshipPending, dash.InternshipStatus)
		assert.Equal(t, 1, dash.Applications)
		assert.Equal(t, 1, dash.PendingApplications)
		assert.Zero(t, dash.UnreadNotifications)
	})
}

func Test_studentApi_placement(t *testing.T) {
	app, a := setup(t)

	std := testutil.CreateStudent(t, a.StudentRepo, "ETS0001/12", "Abebe Kebede", "abebe@aastustudent.edu.et", dept, "")
	token := getToken(t, a.Conf, std.Session())
	coordinator := getToken(t, a.Conf, core.Session{Role: core.RoleCoordinator, ID: "coord", Department: dept})
	otherCoordinator := getToken(t, a.Conf, core.Session{Role: core.RoleCoordinator, ID: "coord2", Department: "Civil Engineering"})

	np := placement.NewPlacement{
		CompanyName:         "Kifiya",
		RepresentativeName:  "Hana",
		RepresentativeEmail: "hana@kifiya.com",
		CompanyLicense:      "data:application/pdf;base64,JVBERi0=",
		LicenseFileName:     "license.pdf",
	}

	runHTTPTests(t, app, []httpTest{
		{
			name:     "none yet",
			method:   http.MethodGet,
			path:     "/v1/student/placement",
			token:    token,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/v1/student/placement",
			body:     marchallObj(t, placement.NewPlacement{CompanyName: "Kifiya"}),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"error":               placement.ErrRequiredFields.Error(),
				"representativeEmail": "this field is required",
				"companyLicense":      "this field is required",
			}),
		},
	})

	var submitted placement.Placement
	t.Run("submit", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/student/placement", token, marchallObj(t, np))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		unmarshal(t, rec, &submitted)
		assert.Equal(t, placement.StatusPending, submitted.Status)
		assert.Equal(t, dept, submitted.Department)
	})

	runHTTPTests(t, app, []httpTest{
		{
			name:     "second pending request",
			method:   http.MethodPost,
			path:     "/v1/student/placement",
			body:     marchallObj(t, np),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: placement.ErrPendingExists.Error()}),
		},
		{
			name:     "other department cannot review",
			method:   http.MethodPost,
			path:     "/v1/placements/" + submitted.ID + "/review",
			body:     marchallObj(t, placement.Review{Approve: true}),
			token:    otherCoordinator,
			wantCode: http.StatusNotFound,
		},
	})

	t.Run("review", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/placements?status="+url.QueryEscape(string(placement.StatusPending)), coordinator)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var pending []placement.Placement
		unmarshal(t, rec, &pending)
		require.Len(t, pending, 1)

		req, rec = newAuthRequest(http.MethodPost, "/v1/placements/"+submitted.ID+"/review", coordinator,
			marchallObj(t, placement.Review{Approve: true, Note: "Looks good"}))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var reviewed placement.Placement
		unmarshal(t, rec, &reviewed)
		assert.Equal(t, placement.StatusApproved, reviewed.Status)
		assert.Equal(t, "coord", reviewed.ReviewedBy)

		// reviewed once
		req, rec = newAuthRequest(http.MethodPost, "/v1/placements/"+submitted.ID+"/review", coordinator,
			marchallObj(t, placement.Review{Approve: false}))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)

		sent := a.Mail.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "abebe@aastustudent.edu.et", sent[0].To[0].Address)
	})
}

func Test_studentApi_logbooks(t *testing.T) {
	app, a := setup(t)

	std := testutil.CreateStudent(t, a.StudentRepo, "ETS0001/12", "Abebe Kebede", "abebe@aastustudent.edu.et", dept, "")
	cmp := testutil.CreateCompany(t, a.CompanyRepo, "Ethio Telecom", "hr@ethiotelecom.et", "", true)
	token := getToken(t, a.Conf, std.Session())
	entry := logbook.NewEntry{Date: "2024-02-26", Tasks: "Configured routers"}

	runHTTPTests(t, app, []httpTest{
		{
			name:     "no internship",
			method:   http.MethodPost,
			path:     "/v1/student/logbooks",
			body:     marchallObj(t, entry),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: logbook.ErrNoInternship.Error()}),
		},
		{
			name:     "bad date",
			method:   http.MethodPost,
			path:     "/v1/student/logbooks",
			body:     marchallObj(t, logbook.NewEntry{Date: "26/02/2024", Tasks: "Configured routers"}),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": "must be a date like 2024-02-26"}),
		},
	})

	testutil.Accept(t, a, std, cmp)

	req, rec := newAuthRequest(http.MethodPost, "/v1/student/logbooks", token, marchallObj(t, entry))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created logbook.Entry
	unmarshal(t, rec, &created)
	assert.Equal(t, cmp.ID, created.CompanyID)
	assert.Equal(t, logbook.StatusPending, created.Status)

	req, rec = newAuthRequest(http.MethodGet, "/v1/student/logbooks", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []logbook.Entry
	unmarshal(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].ID)
}
