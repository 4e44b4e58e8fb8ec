package http

import (
	"net/http"
)

// generateKeys creates a ledger key pair for a new account. The private
// key is returned to the caller once and kept only in the in-memory
// pairing cache.
func (ser server) generateKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := ser.app.CreateAccountKeys(r.Context())
	if err != nil {
		ser.serverError(w, "failed to generate the account keys: "+err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"publicKey":  keys.PublicHex(),
		"privateKey": keys.PrivateHex(),
	})
}
