package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Role identifies which dashboard a signed-in user belongs to. The backend
// returns it on login and scopes every endpoint path by it.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
	RoleCustomer Role = "CUSTOMER"
)

// PathSegment returns the lowercase URL segment the backend expects,
// e.g. /admin/profile for RoleAdmin.
func (r Role) PathSegment() string {
	return strings.ToLower(string(r))
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleCustomer:
		return true
	}
	return false
}

// TxType is the transaction kind as recorded by the backend.
type TxType string

const (
	TxDeposit    TxType = "DEPOSIT"
	TxWithdrawal TxType = "WITHDRAWAL"
	TxIntraBank  TxType = "INTRA_BANK"
	TxInterBank  TxType = "INTER_BANK"
)

// TxStatus is the terminal state of a transaction.
type TxStatus string

const (
	TxSuccess TxStatus = "SUCCESS"
	TxFailed  TxStatus = "FAILED"
)

// TransactionRecord is a backend-created, read-only transaction row.
// CreatedAt is epoch milliseconds; amounts are decimals as returned by the
// backend, never rounded client-side.
type TransactionRecord struct {
	TransactionID            int64           `json:"transaction_id"`
	ReferenceNumber          int64           `json:"transaction_reference_number"`
	AccountNumber            int64           `json:"account_number"`
	Type                     TxType          `json:"type"`
	Amount                   decimal.Decimal `json:"amount"`
	ClosingBalance           decimal.Decimal `json:"closing_balance"`
	DoneBy                   string          `json:"done_by"`
	UserID                   int64           `json:"user_id"`
	CreatedAt                int64           `json:"created_at"`
	Status                   TxStatus        `json:"status"`
	IFSCCode                 string          `json:"ifsc_code,omitempty"`
	BeneficiaryAccountNumber int64           `json:"beneficiary_account_number,omitempty"`
}

// UserProfile is the identity object returned by /auth/login and
// /{role}/profile. It is the sole source of identity for the session.
type UserProfile struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Role    Role   `json:"role"`
}

// Account is a customer account as listed by /{role}/accounts. The backend
// uses camelCase keys on this endpoint only.
type Account struct {
	AccountNumber int64           `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	CreatedAt     int64           `json:"createdAt"`
}
