package providers

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"authgate/core"
)

// Predefined test authorization codes
const (
	ValidCode1  = "mock_auth_code_1"
	ValidCode2  = "mock_auth_code_2"
	ValidCode3  = "mock_auth_code_3"
	NoEmailCode = "mock_auth_code_no_email"
)

// Predefined test profiles
var (
	Profile1 = &core.Profile{
		ProviderUserID: "mock_user_1",
		Email:          "user1@mock.test",
		Name:           "Mock User One",
		Picture:        "https://mock.test/avatar1.jpg",
	}

	Profile2 = &core.Profile{
		ProviderUserID: "mock_user_2",
		Email:          "user2@mock.test",
		Name:           "Mock User Two",
		Picture:        "https://mock.test/avatar2.jpg",
	}

	Profile3 = &core.Profile{
		ProviderUserID: "mock_user_3",
		Email:          "user3@mock.test",
		Name:           "Mock User Three",
		Picture:        "https://mock.test/avatar3.jpg",
	}

	// ProfileNoEmail simulates a provider response missing the email field
	ProfileNoEmail = &core.Profile{
		ProviderUserID: "mock_user_no_email",
		Name:           "Mock User Without Email",
	}
)

// MockProvider is a test implementation of IdentityProvider
type MockProvider struct {
	mu            sync.Mutex
	codeToProfile map[string]*core.Profile

	// track method calls for verification
	AuthCodeURLCalls  int
	AuthenticateCalls int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		codeToProfile: map[string]*core.Profile{
			ValidCode1:  Profile1,
			ValidCode2:  Profile2,
			ValidCode3:  Profile3,
			NoEmailCode: ProfileNoEmail,
		},
	}
}

func (m *MockProvider) AuthCodeURL(state string) string {
	m.mu.Lock()
	m.AuthCodeURLCalls++
	m.mu.Unlock()

	return "https://auth.mock.test/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (m *MockProvider) Authenticate(ctx context.Context, code string) (*core.Profile, error) {
	m.mu.Lock()
	m.AuthenticateCalls++
	m.mu.Unlock()

	profile, ok := m.codeToProfile[code]
	if !ok {
		return nil, fmt.Errorf("%w: invalid authorization code", core.ErrProviderExchange)
	}

	return profile, nil
}
