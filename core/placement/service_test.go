package placement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/notification"
	"github.com/aastu-its/interntrack/core/placement"
	"github.com/aastu-its/interntrack/tests"
)

const (
	dept    = "Software Engineering"
	license = "data:application/pdf;base64,JVBERi0="
)

func TestNewPlacement_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	tests := []struct {
		name       string
		np         placement.NewPlacement
		wantCause  error
		wantFields []string
	}{
		{
			name:       "missing",
			np:         placement.NewPlacement{CompanyName: "  "},
			wantCause:  placement.ErrRequiredFields,
			wantFields: []string{"companyLicense", "companyName", "representativeEmail"},
		},
		{
			name:       "license only",
			np:         placement.NewPlacement{CompanyLicense: license},
			wantCause:  placement.ErrRequiredFields,
			wantFields: []string{"companyName", "representativeEmail"},
		},
		{
			name: "ok",
			np: placement.NewPlacement{
				CompanyName:         " Kifiya ",
				RepresentativeEmail: " HR@Kifiya.com ",
				CompanyLicense:      license,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.np.Validate(validate)
			if tt.wantCause == nil {
				require.NoError(t, err)
				assert.Equal(t, "Kifiya", tt.np.CompanyName)
				assert.Equal(t, "hr@kifiya.com", tt.np.RepresentativeEmail)
				return
			}
			var verr *core.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantCause, verr.Err)
			var fields []string
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}

	np := placement.NewPlacement{CompanyName: "Kifiya", RepresentativeEmail: "not-an-email", CompanyLicense: license}
	assert.Error(t, np.Validate(validate))
}

func TestService(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()

	std := testutil.CreateStudent(t, a.StudentRepo, "ETS0001/12", "Abebe", "abebe@aastustudent.edu.et", dept, "")
	other := testutil.CreateStudent(t, a.StudentRepo, "ETS0500/12", "Other", "other@aastustudent.edu.et", "Electrical Engineering", "")
	coord := testutil.CreateStaff(t, a.StaffRepo, "coord", core.RoleCoordinator, dept, "")
	admin := core.Session{Role: core.RoleAdmin, ID: "admin"}

	np := placement.NewPlacement{CompanyName: "Kifiya", RepresentativeEmail: "hr@kifiya.com", CompanyLicense: license}

	_, err := a.PlacementSvc.GetForStudent(ctx, std.StudentID)
	assert.Equal(t, placement.ErrNotFound, err)

	p, err := a.PlacementSvc.Submit(ctx, std.Session(), np)
	require.NoError(t, err)
	assert.Equal(t, placement.StatusPending, p.Status)
	assert.Equal(t, dept, p.Department)

	_, err = a.PlacementSvc.Submit(ctx, std.Session(), np)
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, placement.ErrPendingExists, verr.Err)

	otherP, err := a.PlacementSvc.Submit(ctx, other.Session(), np)
	require.NoError(t, err)

	t.Run("query", func(t *testing.T) {
		ps, err := a.PlacementSvc.Query(ctx, coord.Session(), "")
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.Equal(t, p.ID, ps[0].ID)

		ps, err = a.PlacementSvc.Query(ctx, admin, placement.StatusPending)
		require.NoError(t, err)
		assert.Len(t, ps, 2)

		ps, err = a.PlacementSvc.Query(ctx, core.Session{Role: core.RoleCoordinator, ID: "nodept"}, "")
		require.NoError(t, err)
		assert.Empty(t, ps)
	})

	t.Run("coordinator of another department", func(t *testing.T) {
		_, err := a.PlacementSvc.Review(ctx, coord.Session(), otherP.ID, placement.Review{Approve: true})
		assert.Equal(t, placement.ErrNotFound, err)
	})

	t.Run("approve", func(t *testing.T) {
		a.Mail.Reset()
		got, err := a.PlacementSvc.Review(ctx, coord.Session(), p.ID, placement.Review{Approve: true, Note: " welcome "})
		require.NoError(t, err)
		assert.Equal(t, placement.StatusApproved, got.Status)
		assert.Equal(t, "welcome", got.ReviewNote)
		assert.Equal(t, coord.Username, got.ReviewedBy)
		assert.NotNil(t, got.ReviewedAt)

		_, err = a.PlacementSvc.Review(ctx, coord.Session(), p.ID, placement.Review{})
		assert.Equal(t, placement.ErrAlreadyReviewed, err)

		sent := a.Mail.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "placement_reviewed", sent[0].TemplateName)

		feed, err := a.NotifSvc.Feed(ctx, std.StudentID)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, notification.TypeSuccess, feed[0].Type)
		assert.Equal(t, "Self placement at Kifiya approved", feed[0].Title)
	})

	t.Run("reject then resubmit", func(t *testing.T) {
		got, err := a.PlacementSvc.Review(ctx, admin, otherP.ID, placement.Review{})
		require.NoError(t, err)
		assert.Equal(t, placement.StatusRejected, got.Status)

		feed, err := a.NotifSvc.Feed(ctx, other.StudentID)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, notification.TypeError, feed[0].Type)
		assert.Equal(t, "Your self placement request is now Rejected", feed[0].Message)

		again, err := a.PlacementSvc.Submit(ctx, other.Session(), np)
		require.NoError(t, err)

		latest, err := a.PlacementSvc.GetForStudent(ctx, other.StudentID)
		require.NoError(t, err)
		assert.Contains(t, []string{again.ID, otherP.ID}, latest.ID)
		assert.False(t, latest.SubmittedAt.Before(otherP.SubmittedAt))
	})
}
