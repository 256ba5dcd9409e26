// Package money builds and submits deposit, withdrawal and transfer
// requests. Payload shapes follow the backend contract exactly; in
// particular the ifsc_code key is present if and only if the transfer is
// inter-bank.
package money

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/meridianbank/console/internal/api"
	"github.com/meridianbank/console/internal/models"
)

// Deposit credits an account.
type Deposit struct {
	AccountNumber int64
	Amount        decimal.Decimal
}

// Withdraw debits an account.
type Withdraw struct {
	AccountNumber int64
	Amount        decimal.Decimal
}

// Transfer moves money between two accounts. IFSCCode matters only for
// inter-bank transfers; whether it is empty is not checked client-side, the
// backend owns that rule.
type Transfer struct {
	FromAccount int64
	ToAccount   int64
	Amount      decimal.Decimal
	Type        models.TxType
	IFSCCode    string
}

// TransferResult carries the paired records a successful transfer returns.
// Credit is the receiver side, Debit the sender side; they are not
// interchangeable.
type TransferResult struct {
	Message string
	Credit  models.TransactionRecord
	Debit   models.TransactionRecord
}

// Service submits money-movement requests for one role.
type Service struct {
	client *api.Client
	role   models.Role
}

func NewService(client *api.Client, role models.Role) *Service {
	return &Service{client: client, role: role}
}

type accountAmountPayload struct {
	AccountNumber int64           `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
}

type transferPayload struct {
	FromAccount int64           `json:"from_account"`
	ToAccount   int64           `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Type        models.TxType   `json:"type"`
	// Pointer so the key is omitted entirely for intra-bank transfers; an
	// inter-bank transfer sends the key even when the value is empty.
	IFSCCode *string `json:"ifsc_code,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Deposit submits the deposit and returns the backend's message, falling
// back to "Deposit successful!" when the backend sent none.
func (s *Service) Deposit(ctx context.Context, d Deposit) (string, error) {
	if err := checkAmount(d.Amount); err != nil {
		return "", err
	}

	var resp messageResponse
	payload := accountAmountPayload{AccountNumber: d.AccountNumber, Amount: d.Amount}
	if err := s.client.Post(ctx, s.path("deposit"), payload, &resp); err != nil {
		return "", err
	}
	if resp.Message == "" {
		resp.Message = "Deposit successful!"
	}
	log.Printf("[MONEY] deposit of %s to %d completed", d.Amount, d.AccountNumber)
	return resp.Message, nil
}

// Withdraw submits the withdrawal, with "Withdrawal successful!" as the
// fallback message.
func (s *Service) Withdraw(ctx context.Context, w Withdraw) (string, error) {
	if err := checkAmount(w.Amount); err != nil {
		return "", err
	}

	var resp messageResponse
	payload := accountAmountPayload{AccountNumber: w.AccountNumber, Amount: w.Amount}
	if err := s.client.Post(ctx, s.path("withdraw"), payload, &resp); err != nil {
		return "", err
	}
	if resp.Message == "" {
		resp.Message = "Withdrawal successful!"
	}
	log.Printf("[MONEY] withdrawal of %s from %d completed", w.Amount, w.AccountNumber)
	return resp.Message, nil
}

// Transfer submits the transfer and returns the credit/debit pair.
func (s *Service) Transfer(ctx context.Context, t Transfer) (*TransferResult, error) {
	if t.Type != models.TxIntraBank && t.Type != models.TxInterBank {
		return nil, fmt.Errorf("invalid transfer type %q", t.Type)
	}
	if err := checkAmount(t.Amount); err != nil {
		return nil, err
	}

	payload := transferPayload{
		FromAccount: t.FromAccount,
		ToAccount:   t.ToAccount,
		Amount:      t.Amount,
		Type:        t.Type,
	}
	if t.Type == models.TxInterBank {
		ifsc := t.IFSCCode
		payload.IFSCCode = &ifsc
	}

	var resp struct {
		Message string                   `json:"message"`
		Credit  models.TransactionRecord `json:"credit_transaction"`
		Debit   models.TransactionRecord `json:"debit_transaction"`
	}
	if err := s.client.Post(ctx, s.path("transfer"), payload, &resp); err != nil {
		return nil, err
	}

	log.Printf("[MONEY] transfer %d -> %d (%s) completed, txn %d / %d",
		t.FromAccount, t.ToAccount, t.Type, resp.Debit.TransactionID, resp.Credit.TransactionID)
	return &TransferResult{Message: resp.Message, Credit: resp.Credit, Debit: resp.Debit}, nil
}

func (s *Service) path(op string) string {
	return fmt.Sprintf("/%s/%s", s.role.PathSegment(), op)
}

func checkAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}
