package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"net/http"

	"go-store-builder/internal/auth"
	"go-store-builder/internal/data"
	"go-store-builder/internal/logger"
	"go-store-builder/internal/session"

	"github.com/casbin/casbin/v2"
	"golang.org/x/oauth2"
)

// Identifier runs the OIDC authorization code flow.
type Identifier interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Identify(ctx context.Context, code string) (*auth.Claims, error)
}

// UserStore records users on sign-in.
type UserStore interface {
	UpsertBySubject(ctx context.Context, subject, email, name string) (*data.User, error)
}

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	auth     Identifier
	session  session.Manager
	enforcer casbin.IEnforcer
	users    UserStore
	log      logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(a Identifier, sm session.Manager, e casbin.IEnforcer, users UserStore, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: a, session: sm, enforcer: e, users: users, log: log}
}

// handleLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string for CSRF protection.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randString(16)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.session.Put(r.Context(), session.KeyState, state)
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
}

// handleCallback is the redirect URL for the OIDC provider.
// It verifies the identity, records the user and starts a session.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	state := h.session.PopString(r.Context(), session.KeyState)
	if state == "" || r.URL.Query().Get("state") != state {
		http.Error(w, "state did not match", http.StatusBadRequest)
		return
	}

	claims, err := h.auth.Identify(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.log.Error(err, "OIDC callback failed")
		http.Error(w, "Authentication failed", http.StatusUnauthorized)
		return
	}

	user, err := h.users.UpsertBySubject(r.Context(), claims.Subject, claims.Email, claims.Name)
	if err != nil {
		h.log.Error(err, "Failed to record user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := auth.GrantMerchant(h.enforcer, claims.Subject); err != nil {
		h.log.Error(err, "Failed to grant merchant role")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Prevent session fixation.
	if err := h.session.RenewToken(r.Context()); err != nil {
		h.log.Error(err, "Failed to renew session token")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.session.Put(r.Context(), session.KeySubject, claims.Subject)
	h.session.Put(r.Context(), session.KeyUserID, user.ID)

	h.log.With(map[string]interface{}{"user_id": user.ID}).Info("user signed in")
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout destroys the session.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Destroy(r.Context()); err != nil {
		h.log.Error(err, "Failed to destroy session")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
