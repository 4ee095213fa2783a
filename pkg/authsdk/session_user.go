package authsdk

import (
	"context"
	"net/http"
)

// Profile returns the account the session's token belongs to.
func (s *Session) Profile(ctx context.Context) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/profile", nil, nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}

// ChangePassword replaces the password after the server checks the current one.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	req := ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	if s.client.Validate {
		if err := validationError(req.Validate()); err != nil {
			return err
		}
	}
	return s.put(ctx, "/v1/profile/password", req)
}

// ChangeUsername renames the account. The slug changes with it.
func (s *Session) ChangeUsername(ctx context.Context, username string) error {
	req := ChangeUsernameRequest{Username: username}
	if s.client.Validate {
		if err := validationError(req.Validate()); err != nil {
			return err
		}
	}
	return s.put(ctx, "/v1/profile/username", req)
}

// ChangeImage replaces the avatar URL.
func (s *Session) ChangeImage(ctx context.Context, image string) error {
	return s.put(ctx, "/v1/profile/image", ChangeImageRequest{Image: image})
}

func (s *Session) put(ctx context.Context, path string, body any) error {
	r, err := encodeBody(body)
	if err != nil {
		return err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPut, path, r, jsonHeaders)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}
