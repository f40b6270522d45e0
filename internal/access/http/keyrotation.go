package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
	"github.com/truenorthhq/truenorth/pkg/httpx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

// KeyRotationHandler handles signing key rotation for both ephemeral and
// persistent modes. All endpoints require the manage-users capability.
type KeyRotationHandler struct {
	KeyRotationService *service.KeyRotationService
}

func sdkKey(k service.SigningKeyInfo) accesssdk.SigningKeyInfo {
	return accesssdk.SigningKeyInfo{
		Kid:       k.Kid,
		Algorithm: k.Algorithm,
		CreatedAt: k.CreatedAt,
		RetiredAt: k.RetiredAt,
		ExpiresAt: k.ExpiresAt,
	}
}

func sdkKeys(keys []service.SigningKeyInfo) []accesssdk.SigningKeyInfo {
	out := make([]accesssdk.SigningKeyInfo, len(keys))
	for i, k := range keys {
		out[i] = sdkKey(k)
	}
	return out
}

// HandleRotate handles POST /v1/keys/rotate
//
//	@Summary		Rotate signing keys
//	@Description	Generates a new signing key and activates it; with retire_existing the old keys stop signing but keep verifying until their grace period runs out. The manager never drops to zero signing keys mid-rotation.
//	@Tags			Keys
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.RotateKeyRequest	true	"Rotation options"
//	@Success		200		{object}	accesssdk.RotateKeyResponse	"New key and rotation outcome"
//	@Failure		400		{object}	accesssdk.ErrorResponse		"Malformed request body"
//	@Failure		401		{object}	accesssdk.ErrorResponse		"Invalid or missing credential"
//	@Failure		403		{object}	accesssdk.ErrorResponse		"Caller lacks the manage-users capability"
//	@Failure		500		{object}	accesssdk.ErrorResponse		"Internal server error"
//	@Router			/v1/keys/rotate [post].
func (h *KeyRotationHandler) HandleRotate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.RotateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	resp, err := h.KeyRotationService.RotateKey(ctx, service.RotateKeyRequest{
		RetireExisting: req.RetireExisting,
	})
	if err != nil {
		log.Error("key rotation failed", "err", err)
		accesssdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.RotateKeyResponse{
		NewKey:      sdkKey(resp.NewKey),
		RetiredKeys: sdkKeys(resp.RetiredKeys),
		ActiveKeys:  resp.ActiveKeys,
	})
}

// HandleListKeys handles GET /v1/keys
//
//	@Summary		List signing keys
//	@Description	Lists every signing key with its status. Persistent mode includes retirement and expiry timestamps; ephemeral mode lists the in-memory signers.
//	@Tags			Keys
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accesssdk.ListKeysResponse	"All known signing keys"
//	@Failure		401	{object}	accesssdk.ErrorResponse		"Invalid or missing credential"
//	@Failure		403	{object}	accesssdk.ErrorResponse		"Caller lacks the manage-users capability"
//	@Failure		500	{object}	accesssdk.ErrorResponse		"Internal server error"
//	@Router			/v1/keys [get].
func (h *KeyRotationHandler) HandleListKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	keys, err := h.KeyRotationService.ListSigningKeys(ctx)
	if err != nil {
		log.Error("listing signing keys failed", "err", err)
		accesssdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.ListKeysResponse{Keys: sdkKeys(keys)})
}

// HandleRetireKey handles POST /v1/keys/{kid}/retire
//
//	@Summary		Retire a signing key
//	@Description	Stops signing with the named key while leaving it verifiable until its grace period runs out. The last active key cannot be retired.
//	@Tags			Keys
//	@Security		BearerAuth
//	@Produce		json
//	@Param			kid	path	string	true	"Key id"
//	@Success		204	"Key retired"
//	@Failure		401	{object}	accesssdk.ErrorResponse	"Invalid or missing credential"
//	@Failure		403	{object}	accesssdk.ErrorResponse	"Caller lacks the manage-users capability"
//	@Failure		404	{object}	accesssdk.ErrorResponse	"Unknown key id"
//	@Failure		409	{object}	accesssdk.ErrorResponse	"Key already retired, or it is the last signing key"
//	@Failure		500	{object}	accesssdk.ErrorResponse	"Internal server error"
//	@Router			/v1/keys/{kid}/retire [post].
func (h *KeyRotationHandler) HandleRetireKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	kid := r.PathValue("kid")
	err := h.KeyRotationService.RetireKey(ctx, kid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrKeyNotFound):
			accesssdk.NewAPIError(http.StatusNotFound,
				"not_found",
				"no such signing key").WriteError(w)
		case errors.Is(err, service.ErrKeyAlreadyRetired):
			accesssdk.NewAPIError(http.StatusConflict,
				accesssdk.ErrorCodeConflict,
				"signing key is already retired").WriteError(w)
		case errors.Is(err, service.ErrLastSigningKey):
			accesssdk.NewAPIError(http.StatusConflict,
				accesssdk.ErrorCodeConflict,
				"cannot retire the last signing key").WriteError(w)
		default:
			log.Error("key retirement failed", "kid", kid, "err", err)
			accesssdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
