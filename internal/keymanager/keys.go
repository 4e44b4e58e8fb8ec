package keymanager

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/btcsuite/btcd/btcec"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// UserKeys is a secp256k1 signing key pair of a ledger account.
type UserKeys struct {
	PrivateKey *secp256k1.PrivateKey
	PublicKey  *secp256k1.PublicKey
}

func (u UserKeys) Valid() bool {
	return u.PrivateKey != nil && u.PublicKey != nil
}

func (u UserKeys) PrivateHex() string {
	return hex.EncodeToString(u.PrivateKey.Serialize())
}

func (u UserKeys) PublicHex() string {
	return hex.EncodeToString(u.PublicKey.SerializeCompressed())
}

// KeyManager generates account keys and keeps an in-memory pairing of
// public to private keys for accounts created by this process.
type KeyManager struct {
	logger   *zap.Logger
	keyCache *cache.Cache
}

func NewKeyManager(logger *zap.Logger) KeyManager {
	return KeyManager{
		logger:   logger,
		keyCache: cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

// source: https://github.com/ethereum/go-ethereum/blob/86d547707965685cef732aa28c15e6811ea98408/crypto/secp256k1/secp256_test.go#L19
func GenerateKeys() (UserKeys, error) {
	key, err := ecdsa.GenerateKey(btcec.S256(), rand.Reader)
	if err != nil {
		return UserKeys{}, errors.New("failed to generate the keys: " + err.Error())
	}

	privkey := make([]byte, 32)
	blob := key.D.Bytes()
	copy(privkey[32-len(blob):], blob)

	private := secp256k1.PrivKeyFromBytes(privkey)

	return UserKeys{
		PrivateKey: private,
		PublicKey:  private.PubKey(),
	}, nil
}

// ParseKeys restores a key pair from a hex encoded private key, as
// supplied by a buyer in a purchase request.
func ParseKeys(privateHex string) (UserKeys, error) {
	raw, err := hex.DecodeString(privateHex)
	if err != nil {
		return UserKeys{}, errors.New("private key is not valid hex: " + err.Error())
	}
	if len(raw) != 32 {
		return UserKeys{}, errors.New("private key must be 32 bytes")
	}

	private := secp256k1.PrivKeyFromBytes(raw)

	return UserKeys{
		PrivateKey: private,
		PublicKey:  private.PubKey(),
	}, nil
}

func (k KeyManager) GenerateKeys() (UserKeys, error) {
	keys, err := GenerateKeys()
	if err != nil {
		return UserKeys{}, err
	}
	k.keyCache.SetDefault(keys.PublicHex(), keys.PrivateHex())

	return keys, nil
}

func (k KeyManager) GetPrivateKey(publicKey string) string {
	private, ok := k.keyCache.Get(publicKey)
	if !ok {
		return ""
	}

	return private.(string)
}
