package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPayloadBuilder_ExactBytes(t *testing.T) {
	b := NewCanonicalPayloadBuilder()

	payload := b.Build("v1", "M1", 50, "2026-08-30T10:15:00Z", "u1")

	expected := `{"voucherId":"v1","merchantId":"M1","amount":50,"createdAt":"2026-08-30T10:15:00Z","issuedTo":"u1"}`
	assert.Equal(t, expected, string(payload))
}

func TestCanonicalPayloadBuilder_Deterministic(t *testing.T) {
	b := NewCanonicalPayloadBuilder()

	first := b.Build("voucher-abc", "merchant-9", 123456789, "2026-01-01T00:00:00Z", "payer-7")
	second := b.Build("voucher-abc", "merchant-9", 123456789, "2026-01-01T00:00:00Z", "payer-7")

	assert.Equal(t, first, second)
}

func TestCanonicalPayloadBuilder_FieldSensitivity(t *testing.T) {
	b := NewCanonicalPayloadBuilder()
	base := b.Build("v1", "M1", 50, "ts", "u1")

	mutations := []struct {
		name    string
		payload []byte
	}{
		{"voucherId", b.Build("v2", "M1", 50, "ts", "u1")},
		{"merchantId", b.Build("v1", "M2", 50, "ts", "u1")},
		{"amount", b.Build("v1", "M1", 51, "ts", "u1")},
		{"createdAt", b.Build("v1", "M1", 50, "ts2", "u1")},
		{"issuedTo", b.Build("v1", "M1", 50, "ts", "u2")},
	}

	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			assert.NotEqual(t, base, m.payload)
		})
	}
}

func TestCanonicalPayloadBuilder_EscapesSpecialCharacters(t *testing.T) {
	b := NewCanonicalPayloadBuilder()

	payload := b.Build(`v"1`, "M1", 1, "ts", "u1")

	assert.Contains(t, string(payload), `"voucherId":"v\"1"`)
}

func TestCanonicalPayloadBuilder_ExcludesSignatureFields(t *testing.T) {
	b := NewCanonicalPayloadBuilder()

	payload := string(b.Build("v1", "M1", 50, "ts", "u1"))

	assert.NotContains(t, payload, "signature")
	assert.NotContains(t, payload, "publicKey")
}
