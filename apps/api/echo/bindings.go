package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/aastu-its/interntrack/core"
)

type (
	// LoginRequest accepts the identifier under the name each login form uses for it.
	LoginRequest struct {
		Role       core.Role `json:"role" validate:"required"`
		Identifier string    `json:"identifier" validate:"required"`
		Username   string    `json:"username"`
		Email      string    `json:"email"`
		Password   string    `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token    string       `json:"token"`
		Session  core.Session `json:"user"`
		Redirect string       `json:"redirect,omitempty"`
	}

	RoleResponse struct {
		Role      core.Role `json:"role"`
		Dashboard string    `json:"dashboard"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	CountResponse struct {
		Count int `json:"count"`
	}

	SupervisorRequest struct {
		Supervisor string `json:"supervisor"`
	}

	ReasonRequest struct {
		Reason string `json:"reason"`
	}

	MessageRequest struct {
		Message string `json:"message"`
	}

	// MarkReadRequest marks the listed notifications read, or all of them when IDs is empty.
	MarkReadRequest struct {
		IDs []string `json:"ids"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	if lr.Identifier == "" {
		lr.Identifier = lr.Username
	}
	if lr.Identifier == "" {
		lr.Identifier = lr.Email
	}
	lr.Identifier = core.CleanString(lr.Identifier)
	if lr.Role != "" {
		role, err := core.ParseRole(string(lr.Role))
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "role", Error: err.Error()})
		}
		lr.Role = role
	}
	return validate.Struct(lr)
}

// statusParam reads the optional ?status= filter.
func statusParam(ctx echo.Context) string {
	return core.CleanString(ctx.QueryParam("status"))
}
