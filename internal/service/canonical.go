package service

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// CanonicalPayloadBuilder implements ports.PayloadBuilder.
//
// The payer device signs the SHA-256 digest of a compact JSON object holding
// exactly five fields in this order: voucherId, merchantId, amount, createdAt,
// issuedTo. Reproducing those bytes exactly is what makes verification
// possible: any reordering, whitespace, or rendering amount as a string
// invalidates every signature ever produced. The signature and public key are
// never part of the signed payload.
type CanonicalPayloadBuilder struct{}

// NewCanonicalPayloadBuilder creates a new CanonicalPayloadBuilder.
func NewCanonicalPayloadBuilder() *CanonicalPayloadBuilder {
	return &CanonicalPayloadBuilder{}
}

// Build returns the canonical byte encoding of the signed voucher fields.
// Pure: no I/O, no failure modes, safe for concurrent use.
func (b *CanonicalPayloadBuilder) Build(voucherID, merchantID string, amount int64, createdAt, issuedTo string) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"voucherId":`)
	buf.Write(jsonString(voucherID))
	buf.WriteString(`,"merchantId":`)
	buf.Write(jsonString(merchantID))
	buf.WriteString(`,"amount":`)
	buf.WriteString(strconv.FormatInt(amount, 10))
	buf.WriteString(`,"createdAt":`)
	buf.Write(jsonString(createdAt))
	buf.WriteString(`,"issuedTo":`)
	buf.Write(jsonString(issuedTo))
	buf.WriteByte('}')
	return buf.Bytes()
}

// jsonString renders s as a JSON string literal. encoding/json escapes
// deterministically, which keeps the output byte-stable.
func jsonString(s string) []byte {
	out, err := json.Marshal(s)
	if err != nil {
		// json.Marshal of a string cannot fail.
		panic(err)
	}
	return out
}
