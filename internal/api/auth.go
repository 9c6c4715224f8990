package api

import (
	"context"
	"net/http"

	"github.com/memoboard/memoboard-go/internal/errors"
	"github.com/memoboard/memoboard-go/internal/types"
)

// Signup registers a new account. The backend does not log the account
// in; callers chain Login afterwards.
func Signup(ctx context.Context, httpClient HTTPClient, baseURL string, req types.SignupRequest) error {
	const op = "signup"
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateCredentials(req.Email, req.Password); err != nil {
		return errors.New(op, errors.Validation, err)
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, baseURL+"/signup", req)
	if err != nil {
		return errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return errors.Network(op, err)
	}
	defer resp.Body.Close()

	return checkStatus(op, resp, http.StatusCreated, http.StatusOK)
}

// Login exchanges credentials for a session token.
func Login(ctx context.Context, httpClient HTTPClient, baseURL string, req types.LoginRequest) (*types.LoginResponse, error) {
	const op = "login"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateCredentials(req.Email, req.Password); err != nil {
		return nil, errors.New(op, errors.Validation, err)
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, baseURL+"/login", req)
	if err != nil {
		return nil, errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Network(op, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp, http.StatusOK); err != nil {
		return nil, err
	}
	var lr types.LoginResponse
	if err := decodeJSON(op, resp, &lr); err != nil {
		return nil, err
	}
	return &lr, nil
}

// Logout tells the backend to terminate the session. Callers treat a
// failure here as best-effort; local state is cleared regardless.
func Logout(ctx context.Context, httpClient HTTPClient, baseURL string) error {
	const op = "logout"
	if err := ctx.Err(); err != nil {
		return err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, baseURL+"/logout", nil)
	if err != nil {
		return errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return errors.Network(op, err)
	}
	defer resp.Body.Close()

	return checkStatus(op, resp, http.StatusOK, http.StatusNoContent)
}

// CurrentUser fetches the authenticated account descriptor.
func CurrentUser(ctx context.Context, httpClient HTTPClient, baseURL string) (*types.User, error) {
	const op = "currentUser"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	httpReq, err := newJSONRequest(ctx, http.MethodGet, baseURL+"/users/me", nil)
	if err != nil {
		return nil, errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Network(op, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp, http.StatusOK); err != nil {
		return nil, err
	}
	var u types.User
	if err := decodeJSON(op, resp, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangePassword rotates the account password.
func ChangePassword(ctx context.Context, httpClient HTTPClient, baseURL string, req types.ChangePasswordRequest) error {
	const op = "changePassword"
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return errors.Validationf(op, "current and new password are required")
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPut, baseURL+"/users/password", req)
	if err != nil {
		return errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return errors.Network(op, err)
	}
	defer resp.Body.Close()

	return checkStatus(op, resp, http.StatusOK, http.StatusNoContent)
}

// DeleteAccount removes the account. The password travels in the request
// body as confirmation.
func DeleteAccount(ctx context.Context, httpClient HTTPClient, baseURL string, req types.DeleteAccountRequest) error {
	const op = "deleteAccount"
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Password == "" {
		return errors.Validationf(op, "password is required")
	}
	httpReq, err := newJSONRequest(ctx, http.MethodDelete, baseURL+"/users", req)
	if err != nil {
		return errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return errors.Network(op, err)
	}
	defer resp.Body.Close()

	return checkStatus(op, resp, http.StatusOK, http.StatusNoContent)
}
