package sandbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/meridianbank/console/internal/models"
)

// findQuery mirrors the POST /{role}/transactions/find payload.
type findQuery struct {
	TransactionID   *int64 `json:"transaction_id"`
	ReferenceNumber *int64 `json:"transaction_reference_number"`
	CustomerID      *int64 `json:"customer_id"`
	AccountNumber   *int64 `json:"account_number"`
	FromDate        *int64 `json:"from_date"`
	ToDate          *int64 `json:"to_date"`
	Limit           *int   `json:"limit"`
	Offset          *int   `json:"offset"`
}

var errNoCriteria = errors.New("No search criteria provided")

type txnGroup struct {
	key     string
	records []models.TransactionRecord
}

// groupedTransactions marshals as a JSON object whose keys keep slice
// order. encoding/json would sort map keys, and clients render the groups
// in wire order.
type groupedTransactions []txnGroup

func (g groupedTransactions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, grp := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(grp.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		records, err := json.Marshal(grp.records)
		if err != nil {
			return nil, err
		}
		buf.Write(records)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// find resolves a query for the given caller. Identifier and account
// queries return a flat list; customer queries return one group per account
// in account-creation order. Customers only ever see their own records.
func (s *Store) find(q findQuery, callerID int64, role models.Role) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case q.TransactionID != nil:
		return s.findByRecord(func(r models.TransactionRecord) bool {
			return r.TransactionID == *q.TransactionID
		}, callerID, role), nil

	case q.ReferenceNumber != nil:
		return s.findByRecord(func(r models.TransactionRecord) bool {
			return r.ReferenceNumber == *q.ReferenceNumber
		}, callerID, role), nil

	case q.AccountNumber != nil:
		a, ok := s.accounts[*q.AccountNumber]
		if !ok || !s.visible(a, callerID, role) {
			return nil, errAccountNotFound
		}
		records := s.dateFiltered(a.number, q)
		return page(records, q), nil

	case q.CustomerID != nil:
		if role == models.RoleCustomer && *q.CustomerID != callerID {
			return nil, errAccountNotFound
		}
		groups := groupedTransactions{}
		for _, number := range s.accountOrder {
			a := s.accounts[number]
			if a.customerID != *q.CustomerID {
				continue
			}
			records := page(s.dateFiltered(a.number, q), q)
			groups = append(groups, txnGroup{key: formatAccountKey(a.number), records: records})
		}
		if len(groups) == 0 {
			return nil, errAccountNotFound
		}
		return groups, nil
	}
	return nil, errNoCriteria
}

func formatAccountKey(number int64) string {
	return strconv.FormatInt(number, 10)
}

func (s *Store) findByRecord(match func(models.TransactionRecord) bool, callerID int64, role models.Role) []models.TransactionRecord {
	out := []models.TransactionRecord{}
	for _, r := range s.transactions {
		if !match(r) {
			continue
		}
		if a, ok := s.accounts[r.AccountNumber]; ok && !s.visible(a, callerID, role) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Store) visible(a *account, callerID int64, role models.Role) bool {
	return role != models.RoleCustomer || a.customerID == callerID
}

func (s *Store) dateFiltered(accountNo int64, q findQuery) []models.TransactionRecord {
	out := []models.TransactionRecord{}
	for _, r := range s.transactions {
		if r.AccountNumber != accountNo {
			continue
		}
		if q.FromDate != nil && r.CreatedAt < *q.FromDate {
			continue
		}
		if q.ToDate != nil && r.CreatedAt > *q.ToDate {
			continue
		}
		out = append(out, r)
	}
	return out
}

func page(records []models.TransactionRecord, q findQuery) []models.TransactionRecord {
	offset, limit := 0, len(records)
	if q.Offset != nil && *q.Offset > 0 {
		offset = *q.Offset
	}
	if q.Limit != nil && *q.Limit > 0 {
		limit = *q.Limit
	}
	if offset >= len(records) {
		return []models.TransactionRecord{}
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}
