package keymanager_test

import (
	"land-registry/internal/keymanager"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateKey(t *testing.T) {
	keys, err := keymanager.GenerateKeys()
	assert.NoError(t, err)
	assert.NotEmpty(t, keys.PrivateKey)
	assert.NotEmpty(t, keys.PublicKey)

	priv := secp256k1.PrivKeyFromBytes(keys.PrivateKey.Serialize())

	assert.Equal(t, priv.PubKey().SerializeCompressed(), keys.PublicKey.SerializeCompressed())
}

func TestParseKeysRoundtrip(t *testing.T) {
	keys, err := keymanager.GenerateKeys()
	require.NoError(t, err)

	parsed, err := keymanager.ParseKeys(keys.PrivateHex())
	require.NoError(t, err)
	assert.Equal(t, keys.PublicHex(), parsed.PublicHex())
	assert.True(t, parsed.Valid())
}

func TestParseKeysRejectsGarbage(t *testing.T) {
	_, err := keymanager.ParseKeys("not hex")
	assert.Error(t, err)

	_, err = keymanager.ParseKeys("abcd")
	assert.Error(t, err)
}

func TestManagerCachesPairing(t *testing.T) {
	manager := keymanager.NewKeyManager(zap.NewNop())

	keys, err := manager.GenerateKeys()
	require.NoError(t, err)

	assert.Equal(t, keys.PrivateHex(), manager.GetPrivateKey(keys.PublicHex()))
	assert.Empty(t, manager.GetPrivateKey("unknown"))
}
