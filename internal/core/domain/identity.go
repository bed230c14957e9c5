package domain

import "time"

// IdentityKey is a durable binding between a payer identity and the secp256k1
// public key it signs vouchers with. Created either by explicit registration
// or auto-provisioned by the first successfully verified voucher naming the
// identity. Once written the key is immutable; no code path updates it.
type IdentityKey struct {
	Identity     string    `json:"identity"`
	PublicKeyHex string    `json:"public_key_hex"`
	CreatedAt    time.Time `json:"created_at"`
}
