package money

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/meridianbank/console/internal/api"
	"github.com/meridianbank/console/internal/models"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(server.URL, 5*time.Second)
	assert.NoError(t, err)
	return NewService(client, models.RoleCustomer)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestService_Deposit(t *testing.T) {
	t.Run("payload shape and backend message", func(t *testing.T) {
		var payload map[string]any
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/customer/deposit", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			json.NewEncoder(w).Encode(map[string]string{"message": "Deposited 500 to 7001"})
		}))

		msg, err := svc.Deposit(context.Background(), Deposit{AccountNumber: 7001, Amount: dec("500")})
		assert.NoError(t, err)
		assert.Equal(t, "Deposited 500 to 7001", msg)
		assert.Equal(t, float64(7001), payload["account_number"])
		// decimals go over the wire as quoted strings
		assert.Equal(t, "500", payload["amount"])
	})

	t.Run("fallback message when backend sends none", func(t *testing.T) {
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))

		msg, err := svc.Deposit(context.Background(), Deposit{AccountNumber: 7001, Amount: dec("500")})
		assert.NoError(t, err)
		assert.Equal(t, "Deposit successful!", msg)
	})

	t.Run("non-positive amount rejected before network", func(t *testing.T) {
		called := false
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		_, err := svc.Deposit(context.Background(), Deposit{AccountNumber: 7001, Amount: dec("0")})
		assert.Error(t, err)
		assert.False(t, called)
	})
}

func TestService_Withdraw(t *testing.T) {
	t.Run("backend error surfaces verbatim", func(t *testing.T) {
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Insufficient balance"})
		}))

		_, err := svc.Withdraw(context.Background(), Withdraw{AccountNumber: 7001, Amount: dec("99999")})
		var apiErr *api.APIError
		assert.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Insufficient balance", apiErr.Message)
		assert.Equal(t, "Insufficient balance", api.UserMessage(err, "withdrawal"))
	})

	t.Run("unstructured failure gets the generic message", func(t *testing.T) {
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := svc.Withdraw(context.Background(), Withdraw{AccountNumber: 7001, Amount: dec("10")})
		assert.Error(t, err)
		assert.Equal(t, "An error occurred during withdrawal.", api.UserMessage(err, "withdrawal"))
	})
}

func TestService_TransferIFSCKey(t *testing.T) {
	t.Run("intra-bank payload has no ifsc_code key", func(t *testing.T) {
		var payload map[string]any
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			json.NewEncoder(w).Encode(map[string]any{"message": "ok"})
		}))

		_, err := svc.Transfer(context.Background(), Transfer{
			FromAccount: 900111,
			ToAccount:   900112,
			Amount:      dec("50"),
			Type:        models.TxIntraBank,
			IFSCCode:    "MERI0001234", // must still be omitted for intra-bank
		})
		assert.NoError(t, err)
		_, present := payload["ifsc_code"]
		assert.False(t, present)
		assert.Equal(t, "INTRA_BANK", payload["type"])
	})

	t.Run("inter-bank payload always has ifsc_code key", func(t *testing.T) {
		var payload map[string]any
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			json.NewEncoder(w).Encode(map[string]any{"message": "ok"})
		}))

		_, err := svc.Transfer(context.Background(), Transfer{
			FromAccount: 900111,
			ToAccount:   555000,
			Amount:      dec("50"),
			Type:        models.TxInterBank,
			IFSCCode:    "MERI0001234",
		})
		assert.NoError(t, err)
		assert.Equal(t, "MERI0001234", payload["ifsc_code"])
	})

	t.Run("inter-bank with empty IFSC still sends the request", func(t *testing.T) {
		var payload map[string]any
		called := false
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			json.NewEncoder(w).Encode(map[string]any{"message": "ok"})
		}))

		_, err := svc.Transfer(context.Background(), Transfer{
			FromAccount: 900111,
			ToAccount:   555000,
			Amount:      dec("50"),
			Type:        models.TxInterBank,
		})
		assert.NoError(t, err)
		assert.True(t, called)
		ifsc, present := payload["ifsc_code"]
		assert.True(t, present)
		assert.Equal(t, "", ifsc)
	})

	t.Run("unknown transfer type rejected", func(t *testing.T) {
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		_, err := svc.Transfer(context.Background(), Transfer{
			FromAccount: 1, ToAccount: 2, Amount: dec("1"), Type: models.TxDeposit,
		})
		assert.Error(t, err)
	})
}

func TestService_TransferThreadsPair(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message":            "Transfer completed",
			"credit_transaction": map[string]any{"transaction_id": 12, "account_number": 900112},
			"debit_transaction":  map[string]any{"transaction_id": 11, "account_number": 900111},
		})
	}))

	result, err := svc.Transfer(context.Background(), Transfer{
		FromAccount: 900111, ToAccount: 900112, Amount: dec("50"), Type: models.TxIntraBank,
	})
	assert.NoError(t, err)
	assert.EqualValues(t, 11, result.Debit.TransactionID)
	assert.EqualValues(t, 900111, result.Debit.AccountNumber)
	assert.EqualValues(t, 12, result.Credit.TransactionID)
	assert.EqualValues(t, 900112, result.Credit.AccountNumber)
}
