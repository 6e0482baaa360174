package integration_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

type mockUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

var mockUsers = map[string]mockUser{
	"valid_code_1": {
		ID:      "mock_user_1",
		Email:   "user1@example.com",
		Name:    "Test User 1",
		Picture: "https://example.com/avatar1.jpg",
	},
	"valid_code_2": {
		ID:      "mock_user_1",
		Email:   "user1@example.com",
		Name:    "Test User 1",
		Picture: "https://example.com/avatar1.jpg",
	},
	"another_user_code": {
		ID:      "mock_user_2",
		Email:   "user2@example.com",
		Name:    "Test User 2",
		Picture: "https://example.com/avatar2.jpg",
	},
	"concurrent_code_a": {
		ID:      "mock_user_3",
		Email:   "race@example.com",
		Name:    "Race User",
		Picture: "https://example.com/avatar3.jpg",
	},
	"concurrent_code_b": {
		ID:      "mock_user_3",
		Email:   "race@example.com",
		Name:    "Race User",
		Picture: "https://example.com/avatar3.jpg",
	},
	"no_email_code": {
		ID:   "mock_user_4",
		Name: "No Email User",
	},
}

type MockOAuthServer struct {
	server       *httptest.Server
	accessTokens map[string]mockUser
	mu           sync.Mutex
}

func NewMockOAuthServer() *MockOAuthServer {
	m := &MockOAuthServer{
		accessTokens: make(map[string]mockUser),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", m.handleToken)
	mux.HandleFunc("/oauth2/v2/userinfo", m.handleUserInfo)

	m.server = httptest.NewServer(mux)
	return m
}

func (m *MockOAuthServer) URL() string {
	return m.server.URL
}

func (m *MockOAuthServer) Close() {
	m.server.Close()
}

func (m *MockOAuthServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	code := r.PostForm.Get("code")
	user, ok := mockUsers[code]
	if r.PostForm.Get("grant_type") != "authorization_code" || !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
		return
	}

	accessToken := "access_" + code
	m.mu.Lock()
	m.accessTokens[accessToken] = user
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": accessToken,
		"expires_in":   3600,
		"token_type":   "Bearer",
	})
}

func (m *MockOAuthServer) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_token"})
		return
	}

	m.mu.Lock()
	user, ok := m.accessTokens[auth[7:]]
	m.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_token"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":             user.ID,
		"email":          user.Email,
		"name":           user.Name,
		"picture":        user.Picture,
		"verified_email": true,
	})
}
