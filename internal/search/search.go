// Package search implements the client side of the transaction search
// contract: mode-dependent validation, query payload construction and
// offset/limit paging against POST /{role}/transactions/find.
package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mode selects which input fields are active and which payload shape is
// built. Exactly one mode is active at a time.
type Mode int

const (
	ModeByID Mode = iota
	ModeByFilter
)

func (m Mode) String() string {
	if m == ModeByID {
		return "by-id"
	}
	return "by-filter"
}

// Validation error codes. These are stable identifiers; the Message is the
// text shown inline to the user.
const (
	CodeBothProvided  = "both-provided"
	CodeNoneProvided  = "none-provided"
	CodeXORViolation  = "xor-violation"
	CodeDatesRequired = "dates-required"
	CodeBadNumber     = "bad-number"
	CodeBadDate       = "bad-date"
)

// ValidationError rejects a search submission before any network call.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Inputs holds the raw field values as entered. All fields are text; numeric
// and date parsing happens in BuildQuery so malformed input is rejected with
// a typed error instead of feeding a garbage value into the request.
type Inputs struct {
	TransactionID   string
	ReferenceNumber string
	CustomerID      string
	AccountNumber   string
	FromDate        string // YYYY-MM-DD
	ToDate          string // YYYY-MM-DD
}

// Query is the wire payload for POST /{role}/transactions/find. In by-id
// mode only the one identifier field is present; limit/offset accompany
// filter queries only.
type Query struct {
	TransactionID   *int64 `json:"transaction_id,omitempty"`
	ReferenceNumber *int64 `json:"transaction_reference_number,omitempty"`
	CustomerID      *int64 `json:"customer_id,omitempty"`
	AccountNumber   *int64 `json:"account_number,omitempty"`
	FromDate        *int64 `json:"from_date,omitempty"`
	ToDate          *int64 `json:"to_date,omitempty"`
	Limit           *int   `json:"limit,omitempty"`
	Offset          *int   `json:"offset,omitempty"`
}

// BuildQuery validates the raw inputs for the given mode and builds the
// normalized payload. limit and offset are only applied in filter mode.
func BuildQuery(mode Mode, in Inputs, limit, offset int) (*Query, *ValidationError) {
	switch mode {
	case ModeByID:
		return buildByID(in)
	case ModeByFilter:
		return buildByFilter(in, limit, offset)
	}
	return nil, &ValidationError{Code: CodeNoneProvided, Message: "unknown search mode"}
}

func buildByID(in Inputs) (*Query, *ValidationError) {
	txn := strings.TrimSpace(in.TransactionID)
	ref := strings.TrimSpace(in.ReferenceNumber)

	if txn != "" && ref != "" {
		return nil, &ValidationError{
			Code:    CodeBothProvided,
			Message: "provide either a transaction ID or a reference number, not both",
		}
	}
	if txn == "" && ref == "" {
		return nil, &ValidationError{
			Code:    CodeNoneProvided,
			Message: "provide a transaction ID or a reference number",
		}
	}

	q := &Query{}
	if txn != "" {
		id, verr := parseID("transaction ID", txn)
		if verr != nil {
			return nil, verr
		}
		q.TransactionID = &id
	} else {
		id, verr := parseID("reference number", ref)
		if verr != nil {
			return nil, verr
		}
		q.ReferenceNumber = &id
	}
	return q, nil
}

func buildByFilter(in Inputs, limit, offset int) (*Query, *ValidationError) {
	cust := strings.TrimSpace(in.CustomerID)
	acct := strings.TrimSpace(in.AccountNumber)

	if (cust == "") == (acct == "") {
		return nil, &ValidationError{
			Code:    CodeXORViolation,
			Message: "provide exactly one of customer ID or account number",
		}
	}
	if strings.TrimSpace(in.FromDate) == "" || strings.TrimSpace(in.ToDate) == "" {
		return nil, &ValidationError{
			Code:    CodeDatesRequired,
			Message: "both from and to dates are required",
		}
	}

	q := &Query{}
	if cust != "" {
		id, verr := parseID("customer ID", cust)
		if verr != nil {
			return nil, verr
		}
		q.CustomerID = &id
	} else {
		id, verr := parseID("account number", acct)
		if verr != nil {
			return nil, verr
		}
		q.AccountNumber = &id
	}

	from, verr := parseDate("from date", in.FromDate)
	if verr != nil {
		return nil, verr
	}
	to, verr := parseDate("to date", in.ToDate)
	if verr != nil {
		return nil, verr
	}
	q.FromDate = &from
	q.ToDate = &to

	q.Limit = &limit
	q.Offset = &offset
	return q, nil
}

func parseID(field, raw string) (int64, *ValidationError) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &ValidationError{
			Code:    CodeBadNumber,
			Field:   field,
			Message: fmt.Sprintf("%q is not a number", raw),
		}
	}
	return n, nil
}

// parseDate converts a YYYY-MM-DD input into epoch milliseconds at UTC
// midnight, which is what the backend compares against.
func parseDate(field, raw string) (int64, *ValidationError) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{
			Code:    CodeBadDate,
			Field:   field,
			Message: fmt.Sprintf("%q is not a valid date (expected YYYY-MM-DD)", raw),
		}
	}
	return t.UnixMilli(), nil
}
