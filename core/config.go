package core

// DefaultFrontendURL is used for browser-mode redirects when no frontend URL
// is configured.
const DefaultFrontendURL = "http://localhost:3000"

type Config struct {
	// JWT configuration
	JWTSecret           string `yaml:"jwt_secret"`            // Secret key for signing JWT tokens
	AccessTokenDuration int    `yaml:"access_token_duration"` // Access token lifetime in seconds

	// FrontendURL is the base URL of the front-end application that receives
	// browser-mode callback redirects.
	FrontendURL string `yaml:"frontend_url"`
}
