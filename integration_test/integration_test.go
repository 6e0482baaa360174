package integration_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"authgate/core"
	"authgate/core/providers"
	"authgate/storage"

	"github.com/stretchr/testify/suite"
)

const frontendURL = "http://localhost:3000"

type IntegrationTestSuite struct {
	suite.Suite
	mockOAuth  *MockOAuthServer
	httpServer *httptest.Server
	repo       *storage.SQLiteRepository
	config     *core.Config
	dbPath     string
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.mockOAuth = NewMockOAuthServer()
	s.dbPath = filepath.Join(s.T().TempDir(), "authgate-integration.db")

	repo, err := storage.NewSQLiteRepository(s.dbPath)
	if err != nil {
		s.T().Fatalf("Failed to create repository: %v", err)
	}
	s.repo = repo

	s.config = &core.Config{
		JWTSecret:           "integration-test-secret-key",
		AccessTokenDuration: 1800,
		FrontendURL:         frontendURL,
	}

	provider := providers.NewGoogleProvider(&providers.GoogleConfig{
		ClientID:        "test_client_id",
		ClientSecret:    "test_client_secret",
		RedirectURI:     "http://localhost:8082/auth/google/callback",
		OAuthBaseURL:    s.mockOAuth.URL(),
		UserInfoBaseURL: s.mockOAuth.URL(),
	})

	authService := core.NewAuthService(repo, s.config, provider)
	server := core.NewServer(authService, s.config)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/google", server.HandleGoogleLogin)
	mux.HandleFunc("/auth/google/callback", server.HandleGoogleCallback)
	mux.HandleFunc("/health", server.HandleHealth)

	s.httpServer = httptest.NewServer(mux)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.httpServer != nil {
		s.httpServer.Close()
	}
	if s.repo != nil {
		s.repo.Close()
	}
	if s.mockOAuth != nil {
		s.mockOAuth.Close()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	if err := cleanDatabase(s.dbPath); err != nil {
		s.T().Fatalf("Failed to clean database: %v", err)
	}
}

func (s *IntegrationTestSuite) TestLoginRedirectsToProvider() {
	stateCookie, state, err := startFlow(s.httpServer.URL)
	s.Require().NoError(err)

	s.Require().NotNil(stateCookie)
	s.NotEmpty(state)
	s.Equal(stateCookie.Value, state)
}

func (s *IntegrationTestSuite) TestFullFlowJSON() {
	resp, err := callback(s.httpServer.URL, "valid_code_1", true)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	result, err := parseCallbackSuccess(resp)
	s.Require().NoError(err)
	s.Equal("Successfully authenticated with Google", result.Message)
	s.Equal("user1@example.com", result.User.Email)
	s.Equal("Test User 1", result.User.Name)
	s.NotEmpty(result.Authorization.Token)
	s.Equal("bearer", result.Authorization.Type)

	userID, err := core.ValidateAccessToken(result.Authorization.Token, s.config)
	s.Require().NoError(err)
	s.Equal(result.User.ID, userID.String())

	count, err := countUsers(s.dbPath)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *IntegrationTestSuite) TestRepeatLoginReusesAccount() {
	first, err := callback(s.httpServer.URL, "valid_code_1", true)
	s.Require().NoError(err)
	defer first.Body.Close()
	firstResult, err := parseCallbackSuccess(first)
	s.Require().NoError(err)

	// Different code, same provider account
	second, err := callback(s.httpServer.URL, "valid_code_2", true)
	s.Require().NoError(err)
	defer second.Body.Close()
	secondResult, err := parseCallbackSuccess(second)
	s.Require().NoError(err)

	s.Equal(firstResult.User.ID, secondResult.User.ID)

	count, err := countUsers(s.dbPath)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *IntegrationTestSuite) TestSeparateEmailsSeparateAccounts() {
	first, err := callback(s.httpServer.URL, "valid_code_1", true)
	s.Require().NoError(err)
	first.Body.Close()

	second, err := callback(s.httpServer.URL, "another_user_code", true)
	s.Require().NoError(err)
	second.Body.Close()

	count, err := countUsers(s.dbPath)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *IntegrationTestSuite) TestFullFlowRedirectMode() {
	resp, err := callback(s.httpServer.URL, "another_user_code", false)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	s.True(strings.HasPrefix(location.String(), frontendURL+"/auth/google/callback"))
	s.NotEmpty(location.Query().Get("token"))
	s.Contains(location.Query().Get("user"), "user2@example.com")
}

func (s *IntegrationTestSuite) TestInvalidCodeJSON() {
	resp, err := callback(s.httpServer.URL, "bogus_code", true)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusInternalServerError, resp.StatusCode)

	result, err := parseCallbackFailure(resp)
	s.Require().NoError(err)
	s.Equal("Google authentication failed", result.Message)
	s.NotEmpty(result.Error)

	count, err := countUsers(s.dbPath)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *IntegrationTestSuite) TestInvalidCodeRedirectIsGeneric() {
	resp, err := callback(s.httpServer.URL, "bogus_code", false)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusFound, resp.StatusCode)

	rawLocation := resp.Header.Get("Location")
	location, err := url.Parse(rawLocation)
	s.Require().NoError(err)
	s.Equal("Google authentication failed", location.Query().Get("error"))

	// Provider error detail must not leak into the redirect URL
	s.NotContains(rawLocation, "invalid_grant")
	s.NotContains(rawLocation, "bogus_code")
}

func (s *IntegrationTestSuite) TestProfileWithoutEmailFails() {
	resp, err := callback(s.httpServer.URL, "no_email_code", true)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusInternalServerError, resp.StatusCode)

	count, err := countUsers(s.dbPath)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *IntegrationTestSuite) TestConcurrentCallbacksSingleAccount() {
	var wg sync.WaitGroup
	codes := []string{"concurrent_code_a", "concurrent_code_b"}
	statuses := make([]int, len(codes))

	for i, code := range codes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			resp, err := callback(s.httpServer.URL, code, true)
			if err != nil {
				return
			}
			defer resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i, code)
	}
	wg.Wait()

	s.Equal(http.StatusOK, statuses[0])
	s.Equal(http.StatusOK, statuses[1])

	count, err := countUsers(s.dbPath)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *IntegrationTestSuite) TestHealth() {
	resp, err := http.Get(s.httpServer.URL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
