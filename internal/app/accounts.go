package app

import (
	"context"

	"land-registry/internal/keymanager"

	"go.uber.org/zap"
)

// CreateAccountKeys generates a ledger key pair for a new account.
// The public to private pairing is cached, so a later purchase may
// reference the account by its public key alone.
func (a App) CreateAccountKeys(ctx context.Context) (keymanager.UserKeys, error) {
	keys, err := a.keys.GenerateKeys()
	if err != nil {
		return keymanager.UserKeys{}, err
	}

	a.logger.Info("account keys generated", zap.String("publicKey", keys.PublicHex()))
	return keys, nil
}
