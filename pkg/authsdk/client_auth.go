package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// SignUp creates an account and returns it together with a fresh token.
func (c *SDKClient) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	if c.Validate {
		if err := validationError(req.Validate()); err != nil {
			return nil, err
		}
	}
	return c.postAuth(ctx, "/v1/auth/signup", req, http.StatusCreated)
}

// SignIn exchanges an email and password for a token.
func (c *SDKClient) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	if c.Validate {
		if err := validationError(req.Validate()); err != nil {
			return nil, err
		}
	}
	return c.postAuth(ctx, "/v1/auth/signin", req, http.StatusOK)
}

// AuthenticateWithPassword signs in and wraps the token in a Session.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.SignIn(ctx, SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return c.NewSession(resp.Token), nil
}

// GetUserBySlug fetches the public view of the user owning slug.
func (c *SDKClient) GetUserBySlug(ctx context.Context, slug string) (*PublicUserResponse, error) {
	return getJSON[PublicUserResponse](ctx, c, "/v1/users/"+url.PathEscape(slug))
}

func (c *SDKClient) postAuth(ctx context.Context, path string, body any, expected int) (*AuthResponse, error) {
	r, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, r, jsonHeaders)
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := decodeJSON(resp, &auth, expected); err != nil {
		return nil, err
	}

	return &auth, nil
}
