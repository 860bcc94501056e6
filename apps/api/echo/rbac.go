package echoapi

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
)

// resources guarded by the enforcer
const (
	resStudent          = "student"
	resCompany          = "company"
	resCoordinator      = "coordinator"
	resPlacements       = "placements"
	resAssignedStudents = "assigned-students"
	resAdmin            = "admin"

	actRead  = "read"
	actWrite = "write"

	// groups the roles that follow assigned students
	groupStaffReviewer = "staff-reviewer"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

var (
	rbacPolicies = [][]string{
		{string(core.RoleStudent), resStudent, "*"},
		{string(core.RoleCompany), resCompany, "*"},
		{string(core.RoleCoordinator), resCoordinator, "*"},
		{string(core.RoleCoordinator), resPlacements, "*"},
		{string(core.RoleAdmin), resPlacements, "*"},
		{string(core.RoleAdmin), resAdmin, "*"},
		{groupStaffReviewer, resAssignedStudents, actRead},
	}

	rbacGroupings = [][]string{
		{string(core.RoleAdvisor), groupStaffReviewer},
		{string(core.RoleExaminer), groupStaffReviewer},
		{string(core.RoleSupervisor), groupStaffReviewer},
	}
)

type enforcer struct {
	e *casbin.SyncedEnforcer
}

func newEnforcer() (*enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, errors.Wrap(err, "parsing rbac model")
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, errors.Wrap(err, "creating enforcer")
	}
	e.EnableLog(false)

	if _, err = e.AddPolicies(rbacPolicies); err != nil {
		return nil, errors.Wrap(err, "adding policies")
	}
	if _, err = e.AddGroupingPolicies(rbacGroupings); err != nil {
		return nil, errors.Wrap(err, "adding role groupings")
	}
	return &enforcer{e: e}, nil
}

func mustNewEnforcer() *enforcer {
	e, err := newEnforcer()
	if err != nil {
		panic(err)
	}
	return e
}

func (enf *enforcer) allowed(role core.Role, resource, action string) bool {
	ok, err := enf.e.Enforce(string(role), resource, action)
	return err == nil && ok
}

// authorize lets through the sessions whose role may act on resource.
// GET and HEAD requests read, everything else writes.
func (enf *enforcer) authorize(resource string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context session")
			}
			action := actWrite
			if m := ctx.Request().Method; m == http.MethodGet || m == http.MethodHead {
				action = actRead
			}
			if !enf.allowed(sess.Role, resource, action) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
