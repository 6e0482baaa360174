package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"authgate/core"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`

	// Endpoint overrides for tests. Production leaves them empty and talks
	// to Google.
	OAuthBaseURL    string `yaml:"oauth_base_url,omitempty"`
	UserInfoBaseURL string `yaml:"userinfo_base_url,omitempty"`
}

type GoogleProvider struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

func NewGoogleProvider(config *GoogleConfig) *GoogleProvider {
	endpoint := google.Endpoint
	if config.OAuthBaseURL != "" {
		endpoint = oauth2.Endpoint{
			AuthURL:  config.OAuthBaseURL + "/auth",
			TokenURL: config.OAuthBaseURL + "/token",
		}
	}

	userInfoURL := defaultUserInfoURL
	if config.UserInfoBaseURL != "" {
		userInfoURL = config.UserInfoBaseURL + "/oauth2/v2/userinfo"
	}

	return &GoogleProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURI,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "profile", "email"},
		},
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *GoogleProvider) Authenticate(ctx context.Context, code string) (*core.Profile, error) {
	// Bounded client for both the token exchange and the userinfo fetch
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrProviderExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrProviderExchange, err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrProviderExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", core.ErrProviderExchange, resp.StatusCode, string(body))
	}

	var userInfo googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrProviderExchange, err)
	}

	if userInfo.Email == "" {
		return nil, fmt.Errorf("%w: email", core.ErrProfileIncomplete)
	}

	return &core.Profile{
		ProviderUserID: userInfo.ID,
		Email:          userInfo.Email,
		Name:           userInfo.Name,
		Picture:        userInfo.Picture,
	}, nil
}
