package company_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/tests"
)

func newCompany(name, email string) company.NewCompany {
	return company.NewCompany{
		Name:            name,
		Email:           email,
		Phone:           "0911223344",
		Password:        "Str0ngPass!",
		PasswordConfirm: "Str0ngPass!",
		DocumentName:    "license.pdf",
		DocumentData:    "data:application/pdf;base64,JVBERi0=",
	}
}

func TestNewCompany_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	tests := []struct {
		name      string
		mutate    func(nc *company.NewCompany)
		wantField string
		wantTag   string
	}{
		{name: "valid", mutate: func(nc *company.NewCompany) {}},
		{name: "no name", mutate: func(nc *company.NewCompany) { nc.Name = "  " }, wantField: "companyName", wantTag: "required"},
		{name: "bad phone", mutate: func(nc *company.NewCompany) { nc.Phone = "+251-911" }, wantField: "phone", wantTag: "phone"},
		{name: "passwords differ", mutate: func(nc *company.NewCompany) { nc.PasswordConfirm = "Other1234" }, wantField: "confirmPassword", wantTag: "eqfield"},
		{name: "not a data uri", mutate: func(nc *company.NewCompany) { nc.DocumentData = "JVBERi0=" }, wantField: "documentData", wantTag: "datauri"},
		{name: "password like the name", mutate: func(nc *company.NewCompany) {
			nc.Password, nc.PasswordConfirm = "Ethio Telecom", "Ethio Telecom"
		}, wantField: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nc := newCompany(" Ethio Telecom ", " HR@EthioTelecom.et ")
			tt.mutate(&nc)
			err := nc.Validate(validate)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "Ethio Telecom", nc.Name)
				assert.Equal(t, "hr@ethiotelecom.et", nc.Email)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantField, verrs[0].Field())
			if tt.wantTag != "" {
				assert.Equal(t, tt.wantTag, verrs[0].Tag())
			}
		})
	}
}

func TestService_RegisterAndVerify(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()

	cmp, err := a.CompanySvc.Register(ctx, newCompany("Ethio Telecom", "hr@ethiotelecom.et"))
	require.NoError(t, err)
	assert.NotEmpty(t, cmp.ID)
	assert.False(t, cmp.Verified)
	assert.Empty(t, cmp.Public().DocumentData)
	assert.NotEmpty(t, cmp.DocumentData)

	var verr *core.ValidationError
	_, err = a.CompanySvc.Register(ctx, newCompany("ETHIO TELECOM", "other@ethiotelecom.et"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "companyName", verr.Fields[0].Field)

	_, err = a.CompanySvc.Register(ctx, newCompany("Ethio Mobile", "hr@ethiotelecom.et"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Fields[0].Field)

	_, err = a.CompanySvc.Authenticate(ctx, "hr@ethiotelecom.et", "Str0ngPass!")
	assert.Equal(t, company.ErrNotVerified, err)

	_, err = a.CompanySvc.Verify(ctx, "nope")
	assert.Equal(t, company.ErrNotFound, err)

	for i := 0; i < 2; i++ {
		cmp, err = a.CompanySvc.Verify(ctx, cmp.ID)
		require.NoError(t, err)
		assert.True(t, cmp.Verified)
	}
	sent := a.Mail.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "company_verified", sent[0].TemplateName)
	assert.Contains(t, sent[0].TextContent, "Ethio Telecom")

	verified, err := a.CompanySvc.QueryVerified(ctx)
	require.NoError(t, err)
	assert.Len(t, verified, 1)
}

func TestService_Authenticate(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()
	cmp := testutil.CreateCompany(t, a.CompanyRepo, "Ethio Telecom", "hr@ethiotelecom.et", "Str0ngPass!", true)

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{name: "ok", email: " HR@ethiotelecom.et ", pwd: "Str0ngPass!"},
		{name: "wrong password", email: "hr@ethiotelecom.et", pwd: "nope", wantErr: company.ErrInvalidCredentials},
		{name: "unknown", email: "hr@safaricom.et", pwd: "Str0ngPass!", wantErr: company.ErrNoVerifiedAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.CompanySvc.Authenticate(ctx, tt.email, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cmp.ID, got.ID)
			assert.Equal(t, core.Session{Role: core.RoleCompany, ID: cmp.ID, Name: "Ethio Telecom", Email: "hr@ethiotelecom.et"}, got.Session())
		})
	}

	_, err := a.CompanySvc.SetPassword(ctx, "hr@ethiotelecom.et", "N3wPassword")
	require.NoError(t, err)
	_, err = a.CompanySvc.Authenticate(ctx, "hr@ethiotelecom.et", "N3wPassword")
	assert.NoError(t, err)
}
