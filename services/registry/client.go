// Package registrysvc talks to the university's remote student registry.
package registrysvc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/student"
)

const (
	registerPath = "/api/students/register/"
	loginPath    = "/api/students/login/"
)

type Client struct {
	baseURL string
	rest    *rest.Client
}

var _ student.Registry = (*Client)(nil)

// NewClient returns nil when no registry is configured, which keeps student accounts local.
func NewClient(conf *core.Config) student.Registry {
	if conf.Registry.BaseURL == "" {
		return nil
	}
	return &Client{
		baseURL: conf.Registry.BaseURL,
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.Registry.Timeout}},
	}
}

func (c *Client) Register(ctx context.Context, rs student.RegistryStudent) error {
	_, err := c.post(ctx, registerPath, rs)
	return err
}

func (c *Client) Login(ctx context.Context, email, password string) (student.RegistryProfile, error) {
	body, err := c.post(ctx, loginPath, map[string]string{"email": email, "password": password})
	if err != nil {
		return student.RegistryProfile{}, err
	}

	var profile student.RegistryProfile
	if err = json.Unmarshal([]byte(body), &profile); err != nil {
		return student.RegistryProfile{}, errors.Wrap(student.ErrRegistryUnavailable, "decoding login response: "+err.Error())
	}
	if profile.Email == "" {
		profile.Email = email
	}
	return profile, nil
}

// post returns the body of a 2xx answer, a *student.RejectionError for 4xx
// and student.ErrRegistryUnavailable (wrapped) for everything else.
func (c *Client) post(ctx context.Context, path string, payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "encoding payload")
	}

	req, err := rest.BuildRequestObject(rest.Request{
		Method:  rest.Post,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body: b,
	})
	if err != nil {
		return "", errors.Wrap(err, "building registry request")
	}
	httpRes, err := c.rest.MakeRequest(req.WithContext(ctx))
	if err != nil {
		return "", errors.Wrap(student.ErrRegistryUnavailable, err.Error())
	}
	defer httpRes.Body.Close()
	res, err := rest.BuildResponse(httpRes)
	if err != nil {
		return "", errors.Wrap(student.ErrRegistryUnavailable, err.Error())
	}

	switch {
	case res.StatusCode >= http.StatusInternalServerError:
		return "", errors.Wrapf(student.ErrRegistryUnavailable, "POST %s: status %d", path, res.StatusCode)
	case res.StatusCode >= http.StatusBadRequest:
		rejection := &student.RejectionError{Status: res.StatusCode}
		// a body that is not a JSON object leaves the generic message
		_ = json.Unmarshal([]byte(res.Body), &rejection.Body)
		return "", rejection
	}
	return res.Body, nil
}
