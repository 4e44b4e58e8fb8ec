package ledger

import (
	"encoding/hex"
	"errors"

	"land-registry/internal/hashing"
	"land-registry/internal/keymanager"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/fxamacker/cbor"
)

// Transaction is the signed envelope submitted to the ledger gateway.
// The payload is canonically CBOR encoded so the same logical intent
// always produces the same bytes to sign.
type Transaction struct {
	Payload       []byte      `json:"payload"`
	PayloadSHA512 string      `json:"payloadSha512"`
	Signatures    []Signature `json:"signatures"`
}

type Signature struct {
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

// NewTransaction encodes the payload and gathers a signature from every
// signer. All required signatures are collected before submission, the
// gateway rejects envelopes with missing parties.
func NewTransaction(payload map[string]interface{}, signers ...keymanager.UserKeys) (Transaction, error) {
	if len(signers) == 0 {
		return Transaction{}, errors.New("a transaction needs at least one signer")
	}

	payloadDump, err := cbor.Marshal(payload, cbor.CanonicalEncOptions())
	if err != nil {
		return Transaction{}, errors.New("failed to dump the payload: " + err.Error())
	}

	payloadHash := hashing.Calculate(payloadDump)
	digest, err := hex.DecodeString(payloadHash)
	if err != nil {
		return Transaction{}, errors.New("failed to decode the payload hash: " + err.Error())
	}

	signatures := make([]Signature, len(signers))
	for i, signer := range signers {
		if !signer.Valid() {
			return Transaction{}, errors.New("signer key pair is incomplete")
		}

		signature := ecdsa.Sign(signer.PrivateKey, digest[:32])
		signatures[i] = Signature{
			PublicKey: signer.PublicHex(),
			Signature: hex.EncodeToString(signature.Serialize()),
		}
	}

	return Transaction{
		Payload:       payloadDump,
		PayloadSHA512: payloadHash,
		Signatures:    signatures,
	}, nil
}

// GetTransactionID returns the id the gateway derives for the envelope,
// the hex signature of the first (paying) signer.
func (t Transaction) GetTransactionID() string {
	if len(t.Signatures) == 0 {
		return ""
	}

	return t.Signatures[0].Signature
}
