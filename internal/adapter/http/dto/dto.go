package dto

// SyncVoucher is one voucher in an upload batch. Fields carry no binding tags
// on purpose: a malformed voucher is rejected individually with a reason, it
// must not fail the whole batch at the binding layer.
type SyncVoucher struct {
	VoucherID    string `json:"voucherId"`
	MerchantID   string `json:"merchantId"`
	Amount       int64  `json:"amount"`
	CreatedAt    string `json:"createdAt"`
	IssuedTo     string `json:"issuedTo"`
	Signature    string `json:"signature"`
	PublicKeyHex string `json:"publicKeyHex,omitempty"`
}

// SyncRequest is the request body for a voucher batch upload.
type SyncRequest struct {
	MerchantID string        `json:"merchantId" binding:"required,max=100"`
	Vouchers   []SyncVoucher `json:"vouchers" binding:"required"`
}

// RejectedVoucher reports one voucher that was not admitted, with the reason.
type RejectedVoucher struct {
	VoucherID string `json:"voucherId"`
	Reason    string `json:"reason"`
}

// SyncResponse is the partial-success result of a batch upload.
type SyncResponse struct {
	SyncedIDs   []string          `json:"syncedIds"`
	Rejected    []RejectedVoucher `json:"rejected"`
	TotalStored int64             `json:"totalStored"`
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"omitempty,oneof=USER MERCHANT"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// TopupRequest is the request body for adding funds to a wallet.
type TopupRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// PayRequest is the request body for a wallet payment.
type PayRequest struct {
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	MerchantID string `json:"merchant_id" binding:"required,max=100"`
	VoucherID  string `json:"voucher_id,omitempty"`
}

// MovementResponse is one balance movement in the wallet history.
type MovementResponse struct {
	ID              string  `json:"id"`
	MovementType    string  `json:"movement_type"`
	Amount          int64   `json:"amount"`
	PreviousBalance int64   `json:"previous_balance"`
	NewBalance      int64   `json:"new_balance"`
	MerchantID      *string `json:"merchant_id,omitempty"`
	VoucherID       *string `json:"voucher_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// WalletBalanceResponse is the response for a balance query.
type WalletBalanceResponse struct {
	Balance   int64              `json:"balance"`
	Movements []MovementResponse `json:"movements"`
}

// WalletResponse is the response for a balance mutation.
type WalletResponse struct {
	Balance int64 `json:"balance"`
}

// VoucherResponse is one settled voucher in a reporting listing.
type VoucherResponse struct {
	VoucherID string `json:"voucherId"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"createdAt"`
	IssuedTo  string `json:"issuedTo"`
	Status    string `json:"status"`
	SyncedAt  string `json:"syncedAt"`
}

// VoucherListResponse wraps a paginated voucher listing.
type VoucherListResponse struct {
	Items      []VoucherResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// DashboardStatsResponse is the response for merchant settlement statistics.
type DashboardStatsResponse struct {
	TotalVouchers int64 `json:"total_vouchers"`
	TotalAmount   int64 `json:"total_amount"`
	UniquePayers  int64 `json:"unique_payers"`
}
