package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/meridianbank/console/internal/models"
)

type contextKey string

const (
	ctxUserID contextKey = "userID"
	ctxRole   contextKey = "role"
)

// errorResponse is the structured error body every endpoint returns.
type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func sendError(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := errorResponse{Error: message}
	var verrs validator.ValidationErrors
	if errors.As(validationErr, &verrs) {
		resp.Details = make(map[string]string)
		for _, err := range verrs {
			resp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}
	json.NewEncoder(w).Encode(resp)
}

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendError(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		sendError(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

type loginRequest struct {
	UserID   int64  `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	profile, err := s.store.authenticate(req.UserID, req.Password)
	if err != nil {
		log.Printf("[AUTH] login failed for user %d: %v", req.UserID, err)
		sendError(w, err.Error(), http.StatusUnauthorized, nil)
		return
	}

	token, err := s.issueToken(profile.UserID, profile.Role)
	if err != nil {
		sendError(w, "Failed to create session", http.StatusInternalServerError, nil)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(s.sessionTTL),
	})
	log.Printf("[AUTH] user %d signed in as %s", profile.UserID, profile.Role)
	sendJSON(w, http.StatusOK, profile)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	sendJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(ctxUserID).(int64)
	profile, err := s.store.profileFor(userID)
	if err != nil {
		sendError(w, err.Error(), http.StatusNotFound, nil)
		return
	}
	sendJSON(w, http.StatusOK, profile)
}

type profileUpdateRequest struct {
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,min=7,max=15"`
	Address string `json:"address" validate:"omitempty,max=200"`
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if !s.decode(w, r, &req) {
		return
	}

	userID := r.Context().Value(ctxUserID).(int64)
	if err := s.store.updateProfile(userID, req.Email, req.Phone, req.Address); err != nil {
		sendError(w, err.Error(), http.StatusNotFound, nil)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

type moveRequest struct {
	AccountNumber int64           `json:"account_number" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleMove(w, r, "deposit")
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleMove(w, r, "withdraw")
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, op string) {
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}

	userID := r.Context().Value(ctxUserID).(int64)
	doneBy := s.actorName(userID)

	var rec *models.TransactionRecord
	var err error
	if op == "deposit" {
		rec, err = s.store.deposit(req.AccountNumber, req.Amount, doneBy)
	} else {
		rec, err = s.store.withdraw(req.AccountNumber, req.Amount, doneBy)
	}
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	log.Printf("[MOVE] %s of %s on account %d by user %d", op, req.Amount, req.AccountNumber, userID)
	sendJSON(w, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("Transaction %d completed", rec.TransactionID),
		"transaction": rec,
	})
}

type transferRequest struct {
	FromAccount int64           `json:"from_account" validate:"required"`
	ToAccount   int64           `json:"to_account" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        models.TxType   `json:"type" validate:"required,oneof=INTRA_BANK INTER_BANK"`
	IFSCCode    *string         `json:"ifsc_code"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !s.decode(w, r, &req) {
		return
	}

	userID := r.Context().Value(ctxUserID).(int64)
	ifsc := ""
	if req.IFSCCode != nil {
		ifsc = *req.IFSCCode
	}

	credit, debit, err := s.store.transfer(req.FromAccount, req.ToAccount, req.Amount, req.Type, ifsc, s.actorName(userID))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	log.Printf("[TRANSFER] %d -> %d (%s) amount %s by user %d", req.FromAccount, req.ToAccount, req.Type, req.Amount, userID)
	sendJSON(w, http.StatusOK, map[string]any{
		"message":            "Transfer completed",
		"credit_transaction": credit,
		"debit_transaction":  debit,
	})
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	var q findQuery
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		sendError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	userID := r.Context().Value(ctxUserID).(int64)
	role := r.Context().Value(ctxRole).(models.Role)

	result, err := s.store.find(q, userID, role)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"transactions": result})
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(ctxUserID).(int64)
	role := r.Context().Value(ctxRole).(models.Role)
	sendJSON(w, http.StatusOK, map[string]any{"accounts": s.store.accountsFor(userID, role)})
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Role     string `json:"role" validate:"required,oneof=ADMIN EMPLOYEE CUSTOMER"`
	Password string `json:"password" validate:"required,min=8"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !s.decode(w, r, &req) {
		return
	}

	profile, err := s.store.createUser(req.Name, models.Role(req.Role), req.Password)
	if err != nil {
		sendError(w, "Failed to create user", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[USERS] created user %d (%s)", profile.UserID, profile.Role)
	sendJSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("User %d created", profile.UserID),
		"user":    profile,
	})
}

type openAccountRequest struct {
	CustomerID     int64           `json:"customer_id" validate:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

func (s *Server) handleOpenAccount(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if !s.decode(w, r, &req) {
		return
	}

	acct, err := s.store.openAccount(req.CustomerID, req.OpeningBalance)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	log.Printf("[ACCOUNTS] opened account %d for customer %d", acct.AccountNumber, req.CustomerID)
	sendJSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("Account %d opened", acct.AccountNumber),
		"account": acct,
	})
}

func (s *Server) actorName(userID int64) string {
	profile, err := s.store.profileFor(userID)
	if err != nil {
		return fmt.Sprintf("user-%d", userID)
	}
	return profile.Name
}
