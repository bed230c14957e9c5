package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Verification failure modes. Callers map these to distinct per-voucher
// rejection reasons; none of them is ever allowed to surface as a panic or
// abort a batch.
var (
	ErrMalformedPublicKey = errors.New("malformed public key")
	ErrMalformedSignature = errors.New("malformed signature")
	ErrSignatureMismatch  = errors.New("signature does not match payload")
)

// Secp256k1Verifier implements ports.SignatureVerifier for ECDSA over the
// secp256k1 curve with DER-encoded signatures. It holds no state and is safe
// for concurrent use.
type Secp256k1Verifier struct{}

// NewSecp256k1Verifier creates a new Secp256k1Verifier.
func NewSecp256k1Verifier() *Secp256k1Verifier {
	return &Secp256k1Verifier{}
}

// Verify checks signatureHex (DER) over the SHA-256 digest of payload using
// the hex-encoded public key. Both compressed (33-byte) and uncompressed
// (65-byte) key encodings are accepted.
func (v *Secp256k1Verifier) Verify(payload []byte, publicKeyHex string, signatureHex string) error {
	keyBytes, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return ErrMalformedPublicKey
	}
	pubKey, err := secp256k1.ParsePubKey(keyBytes)
	if err != nil {
		return ErrMalformedPublicKey
	}

	sigBytes, err := hex.DecodeString(signatureHex)
	if err != nil {
		return ErrMalformedSignature
	}
	sig, err := secpecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return ErrMalformedSignature
	}

	digest := sha256.Sum256(payload)
	if !sig.Verify(digest[:], pubKey) {
		return ErrSignatureMismatch
	}
	return nil
}
