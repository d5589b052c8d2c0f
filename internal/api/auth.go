package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. The caller decides what to
// do with it; typically session.Login.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	const op = "Login"
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password})
	if err != nil {
		return "", &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", decodeError(op, resp)
	}
	var body loginResponse
	if err := decodeInto(resp, &body); err != nil {
		return "", &Error{Op: op, Err: err}
	}
	if strings.TrimSpace(body.Token) == "" {
		return "", &Error{Op: op, Status: http.StatusOK, Err: errors.New("empty token in response")}
	}
	return body.Token, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	const op = "Register"
	resp, err := c.doJSON(ctx, http.MethodPost, "/users/register", nil, registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusCreated {
		return decodeError(op, resp)
	}
	return decodeInto(resp, nil)
}
