package auth

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ServiceTokenConfig holds the settings for minting backend service tokens.
type ServiceTokenConfig struct {
	// Secret is the HS256 signing key shared with the backend.
	Secret []byte

	// Issuer is the iss claim. Default: "modelgate".
	Issuer string

	// Subject is the sub claim identifying this client.
	Subject string

	// Audience is the aud claim. If empty, no audience is set.
	Audience string

	// TTL is the token lifetime. Default: 5 minutes.
	TTL time.Duration

	// RefreshMargin controls how long before expiry a new token is
	// minted. Default: 30 seconds.
	RefreshMargin time.Duration
}

func (c *ServiceTokenConfig) applyDefaults() {
	if c.Issuer == "" {
		c.Issuer = "modelgate"
	}
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.RefreshMargin == 0 {
		c.RefreshMargin = 30 * time.Second
	}
}

// ServiceToken mints short-lived HS256 bearer tokens for backends that
// authenticate with signed JWTs. A minted token is reused until it
// approaches expiry.
type ServiceToken struct {
	cfg ServiceTokenConfig

	// now is injectable for tests.
	now func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewServiceToken creates a service-token credential. Returns an error if no
// signing secret is configured.
func NewServiceToken(cfg ServiceTokenConfig) (*ServiceToken, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("auth: service token requires a signing secret")
	}
	cfg.applyDefaults()
	return &ServiceToken{cfg: cfg, now: time.Now}, nil
}

// Apply sets a Bearer token on the request, minting a fresh one when the
// cached token is absent or about to expire.
func (s *ServiceToken) Apply(req *http.Request) error {
	token, err := s.current()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (s *ServiceToken) current() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(s.cfg.RefreshMargin).Before(s.expiry) {
		return s.token, nil
	}

	expiry := now.Add(s.cfg.TTL)
	claims := jwtlib.RegisteredClaims{
		Issuer:    s.cfg.Issuer,
		Subject:   s.cfg.Subject,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(expiry),
	}
	if s.cfg.Audience != "" {
		claims.Audience = jwtlib.ClaimStrings{s.cfg.Audience}
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing service token: %w", err)
	}

	s.token = signed
	s.expiry = expiry
	return signed, nil
}
