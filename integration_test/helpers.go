package integration_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

type callbackSuccess struct {
	Message string `json:"message"`
	User    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Authorization struct {
		Token string `json:"token"`
		Type  string `json:"type"`
	} `json:"authorization"`
}

type callbackFailure struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// noRedirectClient returns 3xx responses instead of following them, so tests
// can inspect Location headers.
func noRedirectClient() *http.Client {
	return &http.Client{
		// Generous: bcrypt cost 12 on account creation is slow under race
		// detector instrumentation.
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// startFlow hits the redirect initiator and returns the bound state cookie
// and the state carried in the provider authorization URL.
func startFlow(baseURL string) (*http.Cookie, string, error) {
	client := noRedirectClient()

	resp, err := client.Get(baseURL + "/auth/google")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var stateCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}

	location, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		return nil, "", err
	}

	return stateCookie, location.Query().Get("state"), nil
}

// callback completes the flow for the given authorization code. jsonMode
// controls the Accept header and therefore the response branch.
func callback(baseURL, code string, jsonMode bool) (*http.Response, error) {
	stateCookie, state, err := startFlow(baseURL)
	if err != nil {
		return nil, err
	}

	target := baseURL + "/auth/google/callback?state=" + url.QueryEscape(state) + "&code=" + url.QueryEscape(code)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.AddCookie(stateCookie)
	if jsonMode {
		req.Header.Set("Accept", "application/json")
	}

	return noRedirectClient().Do(req)
}

func parseCallbackSuccess(resp *http.Response) (*callbackSuccess, error) {
	var result callbackSuccess
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func parseCallbackFailure(resp *http.Response) (*callbackFailure, error) {
	var result callbackFailure
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func countUsers(dbPath string) (int, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func cleanDatabase(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("DELETE FROM users")
	return err
}
