// Package session owns authentication state for one console run: login,
// logout, profile loading and the memoized account list.
package session

import (
	"context"
	"fmt"
	"log"

	"github.com/meridianbank/console/internal/accounts"
	"github.com/meridianbank/console/internal/api"
	"github.com/meridianbank/console/internal/models"
)

// Manager holds the signed-in profile and the session-scoped account cache.
// The profile returned by the backend is the sole source of identity; it is
// never merged with anything else.
type Manager struct {
	client  *api.Client
	profile *models.UserProfile
	cache   *accounts.Cache
}

func NewManager(client *api.Client) *Manager {
	m := &Manager{client: client}
	m.cache = accounts.NewCache(m.fetchAccounts)
	return m
}

type loginRequest struct {
	UserID   int64  `json:"user_id"`
	Password string `json:"password"`
}

// Login authenticates and stores the returned profile. The profile's role
// field drives which controller the console dispatches to.
func (m *Manager) Login(ctx context.Context, userID int64, password string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := m.client.Post(ctx, "/auth/login", loginRequest{UserID: userID, Password: password}, &profile); err != nil {
		return nil, err
	}
	if !profile.Role.Valid() {
		return nil, fmt.Errorf("backend returned unknown role %q", profile.Role)
	}

	m.profile = &profile
	m.cache.Invalidate()
	log.Printf("[SESSION] user %d signed in as %s", profile.UserID, profile.Role)
	return &profile, nil
}

// Logout ends the backend session and drops all session-scoped state.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.client.Post(ctx, "/auth/logout", struct{}{}, nil)
	m.profile = nil
	m.cache.Invalidate()
	if err != nil {
		log.Printf("[SESSION] logout failed: %v", err)
		return err
	}
	log.Printf("[SESSION] signed out")
	return nil
}

// LoadProfile refreshes the profile for the given role. An auth failure
// comes back as api.ErrLoginRequired; any other error is surfaced to the
// caller rather than treated as a redirect.
func (m *Manager) LoadProfile(ctx context.Context, role models.Role) (*models.UserProfile, error) {
	var profile models.UserProfile
	path := fmt.Sprintf("/%s/profile", role.PathSegment())
	if err := m.client.Get(ctx, path, &profile); err != nil {
		return nil, err
	}
	m.profile = &profile
	return &profile, nil
}

// ProfileUpdate is a partial profile edit; empty fields are left unchanged
// by the backend.
type ProfileUpdate struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// UpdateProfile submits a profile edit for the signed-in role and returns
// the backend's confirmation message.
func (m *Manager) UpdateProfile(ctx context.Context, upd ProfileUpdate) (string, error) {
	if m.profile == nil {
		return "", api.ErrLoginRequired
	}

	var resp struct {
		Message string `json:"message"`
	}
	path := fmt.Sprintf("/%s/profile", m.profile.Role.PathSegment())
	if err := m.client.Put(ctx, path, upd, &resp); err != nil {
		return "", err
	}

	// Refresh so the held identity matches what the backend now has.
	if _, err := m.LoadProfile(ctx, m.profile.Role); err != nil {
		log.Printf("[SESSION] profile refresh after update failed: %v", err)
	}
	return resp.Message, nil
}

// Profile returns the held profile, or nil when signed out.
func (m *Manager) Profile() *models.UserProfile {
	return m.profile
}

// Accounts returns the session's account list through the single-flight
// cache.
func (m *Manager) Accounts(ctx context.Context) ([]models.Account, error) {
	if m.profile == nil {
		return nil, api.ErrLoginRequired
	}
	return m.cache.Get(ctx)
}

func (m *Manager) fetchAccounts(ctx context.Context) ([]models.Account, error) {
	if m.profile == nil {
		return nil, api.ErrLoginRequired
	}

	var resp struct {
		Accounts []models.Account `json:"accounts"`
	}
	path := fmt.Sprintf("/%s/accounts", m.profile.Role.PathSegment())
	if err := m.client.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}
