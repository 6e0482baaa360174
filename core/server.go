package core

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	stateCookieName = "oauth_state"
	stateTTL        = 5 * time.Minute

	// frontendCallbackPath is appended to the configured frontend URL for
	// browser-mode responses.
	frontendCallbackPath = "/auth/google/callback"

	// genericAuthError is the only failure text ever placed in a redirect URL.
	genericAuthError = "Google authentication failed"
)

// ResponseMode selects how the callback answers: a JSON body for API callers
// or a redirect to the frontend for browser callers.
type ResponseMode int

const (
	ModeRedirect ResponseMode = iota
	ModeJSON
)

type Server struct {
	authService *AuthService
	config      *Config
}

func NewServer(authService *AuthService, config *Config) *Server {
	return &Server{
		authService: authService,
		config:      config,
	}
}

// HandleGoogleLogin initiates the OAuth flow: binds a CSRF state token to the
// caller and redirects to the provider authorization URL.
func (s *Server) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !validateMethod(w, r, http.MethodGet) {
		return
	}

	state, err := bindState(w)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to start authentication")
		return
	}

	http.Redirect(w, r, s.authService.AuthorizationURL(state), http.StatusFound)
}

// HandleGoogleCallback receives the provider redirect carrying the
// authorization code. Every failure collapses to a single outcome: JSON
// callers get the error detail with status 500, browser callers get a generic
// error marker in the frontend redirect.
func (s *Server) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !validateMethod(w, r, http.MethodGet) {
		return
	}

	mode := responseMode(r)

	if !verifyState(r) {
		s.respondLoginError(w, r, mode, "state token missing or mismatched")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		s.respondLoginError(w, r, mode, "missing authorization code")
		return
	}

	result, err := s.authService.Login(r.Context(), code)
	if err != nil {
		log.Printf("Google login failed: %v", err)
		s.respondLoginError(w, r, mode, err.Error())
		return
	}

	if mode == ModeJSON {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Successfully authenticated with Google",
			"user":    result.User,
			"authorization": map[string]string{
				"token": result.Token,
				"type":  result.TokenType,
			},
		})
		return
	}

	userJSON, err := json.Marshal(result.User)
	if err != nil {
		s.respondLoginError(w, r, mode, err.Error())
		return
	}

	q := url.Values{}
	q.Set("token", result.Token)
	q.Set("user", string(userJSON))
	http.Redirect(w, r, s.frontendCallbackURL()+"?"+q.Encode(), http.StatusFound)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondLoginError maps a callback failure to the response mode. The
// underlying detail goes only into JSON bodies; redirect URLs end up in
// browser history and logs, so they carry the generic marker instead.
func (s *Server) respondLoginError(w http.ResponseWriter, r *http.Request, mode ResponseMode, detail string) {
	if mode == ModeJSON {
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"message": genericAuthError,
			"error":   detail,
		})
		return
	}

	q := url.Values{}
	q.Set("error", genericAuthError)
	http.Redirect(w, r, s.frontendCallbackURL()+"?"+q.Encode(), http.StatusFound)
}

func (s *Server) frontendCallbackURL() string {
	base := s.config.FrontendURL
	if base == "" {
		base = DefaultFrontendURL
	}
	return strings.TrimSuffix(base, "/") + frontendCallbackPath
}

// responseMode picks JSON for callers that declare they accept it. The method
// and path never influence the branch.
func responseMode(r *http.Request) ResponseMode {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return ModeJSON
	}
	return ModeRedirect
}

// bindState issues the CSRF state token carried across the redirect
// round-trip and binds it to the caller via an HttpOnly cookie.
func bindState(w http.ResponseWriter) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	state := base64.RawURLEncoding.EncodeToString(b)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(stateTTL.Seconds()),
	})

	return state, nil
}

// verifyState checks the state echoed by the provider against the bound cookie.
func verifyState(r *http.Request) bool {
	state := r.URL.Query().Get("state")
	if state == "" {
		return false
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		return false
	}

	return cookie.Value == state
}

// Helper functions

func validateMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	respondJSON(w, statusCode, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}
