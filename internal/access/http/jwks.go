package http

import (
	"net/http"

	"github.com/truenorthhq/truenorth/pkg/accesssdk"
	"github.com/truenorthhq/truenorth/pkg/httpx"
	"github.com/truenorthhq/truenorth/pkg/jwtx"
)

// JWKSHandler exposes the JSON Web Key Set for public key discovery.
// Retired keys stay published until their grace period runs out, so tokens
// signed before a rotation keep verifying.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify access tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	accesssdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, accesssdk.JWKSResponse(keys.PublicJWKS()))
	}
}
