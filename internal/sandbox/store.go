package sandbox

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianbank/console/internal/models"
)

var (
	errUserNotFound      = errors.New("User not found")
	errBadCredentials    = errors.New("Invalid user ID or password")
	errAccountNotFound   = errors.New("Account not found")
	errAccountInactive   = errors.New("Account is not active")
	errInsufficientFunds = errors.New("Insufficient balance")
	errSameAccount       = errors.New("Cannot transfer to the same account")
	errIFSCRequired      = errors.New("IFSC code is required for inter-bank transfers")
)

type user struct {
	profile      models.UserProfile
	passwordHash string
}

type account struct {
	number     int64
	customerID int64
	balance    decimal.Decimal
	status     string
	createdAt  int64
}

// Store is the sandbox's in-memory bank: users, accounts and an append-only
// transaction log, all guarded by one mutex.
type Store struct {
	mu sync.Mutex

	users map[int64]*user
	// accountOrder preserves creation order; grouped find responses emit
	// keys in this order.
	accounts     map[int64]*account
	accountOrder []int64
	transactions []models.TransactionRecord

	nextUserID    int64
	nextAccountNo int64
	nextTxnID     int64
	nextRefNo     int64
}

// NewStore returns a store seeded with one user per role and a few
// customer accounts, ready for local development and tests.
func NewStore() *Store {
	s := &Store{
		users:         make(map[int64]*user),
		accounts:      make(map[int64]*account),
		nextUserID:    4000,
		nextAccountNo: 900200,
		nextTxnID:     5000,
		nextRefNo:     70000,
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	seedUsers := []struct {
		id       int64
		name     string
		role     models.Role
		password string
	}{
		{1001, "Asha Verma", models.RoleAdmin, "admin@123"},
		{2001, "Rahul Nair", models.RoleEmployee, "employee@123"},
		{3001, "Priya Menon", models.RoleCustomer, "customer@123"},
		{3002, "Dev Sharma", models.RoleCustomer, "customer@123"},
	}
	for _, u := range seedUsers {
		hash, err := hashPassword(u.password)
		if err != nil {
			panic(fmt.Sprintf("sandbox seed: %v", err))
		}
		s.users[u.id] = &user{
			profile: models.UserProfile{
				UserID:  u.id,
				Name:    u.name,
				Email:   fmt.Sprintf("user%d@meridianbank.example", u.id),
				Phone:   "9000000000",
				Address: "12 MG Road",
				Role:    u.role,
			},
			passwordHash: hash,
		}
	}

	now := time.Now().UnixMilli()
	for _, a := range []struct {
		number     int64
		customerID int64
		balance    string
	}{
		{900111, 3001, "25000.00"},
		{900112, 3001, "1200.50"},
		{900113, 3002, "84000.00"},
	} {
		bal, _ := decimal.NewFromString(a.balance)
		s.accounts[a.number] = &account{
			number:     a.number,
			customerID: a.customerID,
			balance:    bal,
			status:     "ACTIVE",
			createdAt:  now,
		}
		s.accountOrder = append(s.accountOrder, a.number)
	}
}

func (s *Store) authenticate(userID int64, password string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || !verifyPassword(password, u.passwordHash) {
		return nil, errBadCredentials
	}
	profile := u.profile
	return &profile, nil
}

func (s *Store) profileFor(userID int64) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, errUserNotFound
	}
	profile := u.profile
	return &profile, nil
}

func (s *Store) updateProfile(userID int64, email, phone, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return errUserNotFound
	}
	if email != "" {
		u.profile.Email = email
	}
	if phone != "" {
		u.profile.Phone = phone
	}
	if address != "" {
		u.profile.Address = address
	}
	return nil
}

func (s *Store) createUser(name string, role models.Role, password string) (*models.UserProfile, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	id := s.nextUserID
	s.users[id] = &user{
		profile: models.UserProfile{
			UserID: id,
			Name:   name,
			Role:   role,
		},
		passwordHash: hash,
	}
	profile := s.users[id].profile
	return &profile, nil
}

func (s *Store) openAccount(customerID int64, opening decimal.Decimal) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[customerID]
	if !ok || u.profile.Role != models.RoleCustomer {
		return nil, errUserNotFound
	}
	if opening.Sign() < 0 {
		return nil, errors.New("Opening balance cannot be negative")
	}

	s.nextAccountNo++
	a := &account{
		number:     s.nextAccountNo,
		customerID: customerID,
		balance:    opening,
		status:     "ACTIVE",
		createdAt:  time.Now().UnixMilli(),
	}
	s.accounts[a.number] = a
	s.accountOrder = append(s.accountOrder, a.number)
	return accountView(a), nil
}

// accountsFor lists the caller's own accounts for customers and every
// account for staff roles, in creation order.
func (s *Store) accountsFor(userID int64, role models.Role) []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Account{}
	for _, number := range s.accountOrder {
		a := s.accounts[number]
		if role == models.RoleCustomer && a.customerID != userID {
			continue
		}
		out = append(out, *accountView(a))
	}
	return out
}

func accountView(a *account) *models.Account {
	return &models.Account{
		AccountNumber: a.number,
		Balance:       a.balance,
		Status:        a.status,
		CreatedAt:     a.createdAt,
	}
}

func (s *Store) deposit(accountNo int64, amount decimal.Decimal, doneBy string) (*models.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.activeAccount(accountNo)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, errors.New("Amount must be greater than zero")
	}

	a.balance = a.balance.Add(amount)
	rec := s.appendTxn(a, models.TxDeposit, amount, doneBy, "", 0)
	return rec, nil
}

func (s *Store) withdraw(accountNo int64, amount decimal.Decimal, doneBy string) (*models.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.activeAccount(accountNo)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, errors.New("Amount must be greater than zero")
	}
	if a.balance.LessThan(amount) {
		return nil, errInsufficientFunds
	}

	a.balance = a.balance.Sub(amount)
	rec := s.appendTxn(a, models.TxWithdrawal, amount, doneBy, "", 0)
	return rec, nil
}

// transfer debits the sender and credits the receiver, producing the paired
// records a transfer response returns. For inter-bank transfers the
// receiving account lives at another bank: the credit record is synthesized
// against the beneficiary number and no local account is credited.
func (s *Store) transfer(from, to int64, amount decimal.Decimal, txType models.TxType, ifsc, doneBy string) (credit, debit *models.TransactionRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if from == to {
		return nil, nil, errSameAccount
	}
	if amount.Sign() <= 0 {
		return nil, nil, errors.New("Amount must be greater than zero")
	}
	if txType == models.TxInterBank && ifsc == "" {
		return nil, nil, errIFSCRequired
	}

	src, err := s.activeAccount(from)
	if err != nil {
		return nil, nil, err
	}
	if src.balance.LessThan(amount) {
		return nil, nil, errInsufficientFunds
	}

	switch txType {
	case models.TxIntraBank:
		dst, err := s.activeAccount(to)
		if err != nil {
			return nil, nil, err
		}
		src.balance = src.balance.Sub(amount)
		dst.balance = dst.balance.Add(amount)
		debit = s.appendTxn(src, txType, amount, doneBy, "", to)
		credit = s.appendTxn(dst, txType, amount, doneBy, "", 0)
	case models.TxInterBank:
		src.balance = src.balance.Sub(amount)
		debit = s.appendTxn(src, txType, amount, doneBy, ifsc, to)
		credit = s.externalCredit(to, amount, doneBy, ifsc)
	default:
		return nil, nil, fmt.Errorf("Unknown transfer type %q", txType)
	}
	return credit, debit, nil
}

func (s *Store) activeAccount(number int64) (*account, error) {
	a, ok := s.accounts[number]
	if !ok {
		return nil, errAccountNotFound
	}
	if a.status != "ACTIVE" {
		return nil, errAccountInactive
	}
	return a, nil
}

// appendTxn records one side of a movement against a local account.
// Caller holds the mutex.
func (s *Store) appendTxn(a *account, txType models.TxType, amount decimal.Decimal, doneBy, ifsc string, beneficiary int64) *models.TransactionRecord {
	s.nextTxnID++
	s.nextRefNo++
	rec := models.TransactionRecord{
		TransactionID:            s.nextTxnID,
		ReferenceNumber:          s.nextRefNo,
		AccountNumber:            a.number,
		Type:                     txType,
		Amount:                   amount,
		ClosingBalance:           a.balance,
		DoneBy:                   doneBy,
		UserID:                   a.customerID,
		CreatedAt:                time.Now().UnixMilli(),
		Status:                   models.TxSuccess,
		IFSCCode:                 ifsc,
		BeneficiaryAccountNumber: beneficiary,
	}
	s.transactions = append(s.transactions, rec)
	return &rec
}

// externalCredit is the receiver-side record of an inter-bank transfer. It
// is returned to the caller for the receipt but not held in the local log,
// since the beneficiary account belongs to another bank.
func (s *Store) externalCredit(beneficiary int64, amount decimal.Decimal, doneBy, ifsc string) *models.TransactionRecord {
	s.nextTxnID++
	s.nextRefNo++
	return &models.TransactionRecord{
		TransactionID:   s.nextTxnID,
		ReferenceNumber: s.nextRefNo,
		AccountNumber:   beneficiary,
		Type:            models.TxInterBank,
		Amount:          amount,
		DoneBy:          doneBy,
		CreatedAt:       time.Now().UnixMilli(),
		Status:          models.TxSuccess,
		IFSCCode:        ifsc,
	}
}
