/*
Package authsdk provides a client SDK for the accounts service.

# Overview

The package is organized around two types:

  - SDKClient: public operations (sign-up, sign-in, user lookup, health, JWKS)
  - Session: operations on the signed-in account, authenticated with a bearer token

Create an SDKClient and sign in to obtain a Session:

	client := authsdk.NewSDKClient("https://accounts.example.com")

	resp, err := client.SignUp(ctx, authsdk.SignUpRequest{
		Email:    "jane@example.com",
		Username: "Jane Doe",
		Password: "correct horse battery",
	})

	session, err := client.AuthenticateWithPassword(ctx, "jane@example.com", "correct horse battery")

	profile, err := session.Profile(ctx)
	err = session.ChangeUsername(ctx, "Jane Q Doe")

Anyone can look a user up by slug. The public view carries no email:

	user, err := client.GetUserBySlug(ctx, "jane-q-doe")

# Errors

Every failed request returns an *APIError. APIError values match by code,
so the predefined errors can be used with errors.Is:

	_, err := client.SignIn(ctx, req)
	if errors.Is(err, authsdk.ErrInvalidCredentials) {
		// wrong email or password
	}

Validation failures (client or server side) carry per-field reasons in
APIError.Details and match ErrValidation.

# Token verification

Tokens are EdDSA signed JWTs. Services that only need to verify them can
fetch the public keys with GetJWKS and add them to a jwtx.KeySet with
AddJWK.
*/
package authsdk
