// Package testutil provides common test utilities, including an in-process
// stand-in for the staff backend. The fake issues real HS256 tokens with real
// expiry so client-side code sees the same behavior the production backend
// exhibits: tokens are opaque to the client and die server-side.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// BackendAccount is a login-able identity registered on the fake backend.
type BackendAccount struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	// Role is returned numerically from /Auth/login and as a string name
	// from /Auth/me, mirroring the production backend's inconsistency.
	Role int
}

// FakeBackend serves /Auth/login and /Auth/me the way the staff backend does.
type FakeBackend struct {
	Server *httptest.Server

	secret   []byte
	tokenTTL time.Duration

	mu       sync.Mutex
	accounts map[string]*BackendAccount
}

// NewFakeBackend starts the fake and registers cleanup with t.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	b := &FakeBackend{
		secret:   []byte(uuid.NewString()),
		tokenTTL: time.Hour,
		accounts: make(map[string]*BackendAccount),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /Auth/login", b.handleLogin)
	mux.HandleFunc("GET /Auth/me", b.handleMe)

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend base URL.
func (b *FakeBackend) URL() string {
	return b.Server.URL
}

// AddAccount registers an identity and returns it with a generated ID.
func (b *FakeBackend) AddAccount(email, password string, role int, firstName, lastName string) *BackendAccount {
	account := &BackendAccount{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
	b.mu.Lock()
	b.accounts[email] = account
	b.mu.Unlock()
	return account
}

// IssueToken mints a valid token for the account, as if it had logged in.
func (b *FakeBackend) IssueToken(account *BackendAccount) string {
	return b.sign(account, time.Now().Add(b.tokenTTL))
}

// IssueExpiredToken mints a token the backend will reject as expired.
func (b *FakeBackend) IssueExpiredToken(account *BackendAccount) string {
	return b.sign(account, time.Now().Add(-time.Minute))
}

func (b *FakeBackend) sign(account *BackendAccount, expiresAt time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"exp":   expiresAt.Unix(),
	})
	signed, err := token.SignedString(b.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (b *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed request")
		return
	}

	b.mu.Lock()
	account, ok := b.accounts[body.Email]
	b.mu.Unlock()
	if !ok || account.Password != body.Password {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	expiresAt := time.Now().Add(b.tokenTTL)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token":     b.sign(account, expiresAt),
		"expiresAt": expiresAt,
		"employee": map[string]any{
			"id":        account.ID,
			"firstName": account.FirstName,
			"lastName":  account.LastName,
			"email":     account.Email,
			"role":      account.Role,
		},
	})
}

func (b *FakeBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		writeMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "token expired")
		return
	}

	email, _ := claims["email"].(string)
	b.mu.Lock()
	account, ok := b.accounts[email]
	b.mu.Unlock()
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unknown account")
		return
	}

	roleName := [...]string{1: "Employee", 2: "Leader", 3: "Director"}
	role := "Employee"
	if account.Role >= 1 && account.Role <= 3 {
		role = roleName[account.Role]
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":    account.ID,
		"name":  account.FirstName + " " + account.LastName,
		"email": account.Email,
		"role":  role,
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
