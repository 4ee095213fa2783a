package authsdk

import "context"

// GetJWKS fetches the public keys that verify issued tokens. Load them into a
// jwtx.KeySet to check tokens without calling the service.
func (c *SDKClient) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	return getJSON[JWKSResponse](ctx, c, "/.well-known/jwks.json")
}
