package student

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrRegistryUnavailable wraps every registry failure that did not come with a client error answer:
// network errors, timeouts and 5xx responses. Registration and login then fall back to the local store.
var ErrRegistryUnavailable = errors.New("student registry unavailable")

// Registry is the remote student directory.
type Registry interface {
	Register(ctx context.Context, rs RegistryStudent) error
	Login(ctx context.Context, email, password string) (RegistryProfile, error)
}

// RegistryStudent is the payload of a remote registration.
type RegistryStudent struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    string  `json:"phone"`
	ID       string  `json:"id"`
	Image    *string `json:"image"`
}

type RegistryProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// RejectionError is a 4xx answer of the registry. Body holds the decoded JSON error document, if any.
type RejectionError struct {
	Status int
	Body   map[string]interface{}
}

func (err *RejectionError) Error() string {
	return fmt.Sprintf("student registry rejected the request (%d)", err.Status)
}

func (err *RejectionError) detail() string {
	if d, ok := err.Body["detail"]; ok && d != nil {
		return strings.ToLower(fmt.Sprint(d))
	}
	return ""
}

// FriendlyMessage turns the rejection into a message a student can act on.
func (err *RejectionError) FriendlyMessage() string {
	const (
		emailTaken = "This email address is already registered. Please use a different email or try logging in."
		idTaken    = "This student ID is already registered. Please check your student ID or contact support."
		exists     = "An account with these details already exists. Please try logging in instead."
		invalid    = "Please check your information and try again."
		failed     = "Registration failed. Please check your information and try again."
		fallback   = "Registration failed. Please check your information and try again. If the problem persists, contact support."
	)

	detail := err.detail()
	if _, ok := err.Body["email"]; ok || strings.Contains(detail, "email") {
		return emailTaken
	}
	if _, ok := err.Body["id"]; ok || strings.Contains(detail, "student id") {
		return idTaken
	}
	if detail != "" {
		switch {
		case strings.Contains(detail, "already exists"), strings.Contains(detail, "duplicate"):
			return exists
		case strings.Contains(detail, "invalid"):
			return invalid
		}
		return failed
	}
	for _, v := range err.Body {
		first := v
		if list, ok := v.([]interface{}); ok && len(list) > 0 {
			first = list[0]
		}
		msg := strings.ToLower(fmt.Sprint(first))
		if strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate") {
			return exists
		}
	}
	return fallback
}
