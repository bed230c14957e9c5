package domain

import "time"

// VoucherStatus represents the lifecycle state of a voucher.
type VoucherStatus string

const (
	// VoucherStatusOffline exists only client-side, before a merchant uploads
	// the voucher. It is never persisted by the ledger.
	VoucherStatusOffline VoucherStatus = "OFFLINE"
	// VoucherStatusSynced is the only persisted state and is terminal.
	VoucherStatusSynced VoucherStatus = "SYNCED"
)

// Voucher is a one-time, offline-signed payment claim. Once admitted into the
// settlement ledger it is immutable; the voucher ID is unique across the
// ledger for all time.
type Voucher struct {
	VoucherID    string        `json:"voucher_id"`
	MerchantID   string        `json:"merchant_id"`
	Amount       int64         `json:"amount"` // Minor currency unit
	CreatedAtRaw string        `json:"created_at"`
	IssuedTo     string        `json:"issued_to"`
	PublicKeyHex string        `json:"public_key_hex,omitempty"`
	Signature    string        `json:"-"` // Hex-encoded DER signature
	Status       VoucherStatus `json:"status"`
	SyncedAt     time.Time     `json:"synced_at"`
}

// Rejection reasons returned per voucher in a batch sync response. These are
// part of the API contract; clients match on them.
const (
	RejectMissingVoucherID   = "Missing voucherId"
	RejectMerchantMismatch   = "Merchant mismatch"
	RejectInvalidAmount      = "Invalid amount"
	RejectMissingIssuedTo    = "Missing issuedTo"
	RejectMissingSignature   = "Missing signature"
	RejectMissingPublicKey   = "Missing public key"
	RejectMalformedPublicKey = "Malformed public key"
	RejectMalformedSignature = "Malformed signature"
	RejectBadSignature       = "Bad signature"
	RejectVerificationError  = "Verification error"
	RejectDuplicateVoucher   = "Duplicate voucherId"
	RejectStoreUnavailable   = "Settlement store unavailable"
)

// RejectedVoucher pairs a voucher ID with the reason it was not admitted.
type RejectedVoucher struct {
	VoucherID string `json:"voucher_id"`
	Reason    string `json:"reason"`
}

// BatchResult is the outcome of one sync batch. Rejections are local to the
// offending voucher; admitted vouchers are never rolled back by later ones.
type BatchResult struct {
	SyncedIDs   []string          `json:"synced_ids"`
	Rejected    []RejectedVoucher `json:"rejected"`
	TotalStored int64             `json:"total_stored"`
}
