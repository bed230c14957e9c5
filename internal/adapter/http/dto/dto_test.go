package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Offline devices are built against these exact field names; renaming any of
// them strands vouchers already queued on payer hardware.
func TestSyncVoucher_WireFieldNames(t *testing.T) {
	raw := `{
		"voucherId": "v-001",
		"merchantId": "MERCH-001",
		"amount": 5000,
		"createdAt": "2026-08-30T10:15:00Z",
		"issuedTo": "payer-1",
		"signature": "3045deadbeef",
		"publicKeyHex": "02aabb"
	}`

	var v SyncVoucher
	require.NoError(t, json.Unmarshal([]byte(raw), &v))

	assert.Equal(t, "v-001", v.VoucherID)
	assert.Equal(t, "MERCH-001", v.MerchantID)
	assert.Equal(t, int64(5000), v.Amount)
	assert.Equal(t, "2026-08-30T10:15:00Z", v.CreatedAt)
	assert.Equal(t, "payer-1", v.IssuedTo)
	assert.Equal(t, "3045deadbeef", v.Signature)
	assert.Equal(t, "02aabb", v.PublicKeyHex, "inline key must arrive under publicKeyHex")
}

func TestSyncResponse_WireFieldNames(t *testing.T) {
	out, err := json.Marshal(SyncResponse{
		SyncedIDs:   []string{"v-001"},
		Rejected:    []RejectedVoucher{{VoucherID: "v-002", Reason: "Bad signature"}},
		TotalStored: 7,
	})
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &m))

	assert.Contains(t, m, "syncedIds")
	assert.Contains(t, m, "rejected")
	assert.Contains(t, m, "totalStored")
	assert.NotContains(t, m, "synced")
	assert.Equal(t, []interface{}{"v-001"}, m["syncedIds"])
}
