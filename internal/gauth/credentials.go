// internal/gauth/credentials.go
package gauth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/lumenbio/labsite/internal/errors"
)

// Scopes granted to the service account: read-only document structure and
// Drive file content.
var Scopes = []string{
	"https://www.googleapis.com/auth/documents.readonly",
	"https://www.googleapis.com/auth/drive.readonly",
}

const (
	tokenEndpoint  = "https://oauth2.googleapis.com/token"
	jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// Credentials is a service-account credential holder: constructed once per
// process, lazily authorized on first use, and reused until the access token
// expires. It replaces module-global auth state with an explicitly injected
// dependency.
type Credentials struct {
	clientEmail string
	privateKey  *rsa.PrivateKey
	scopes      []string
	tokenURL    string
	httpClient  *http.Client

	mu          sync.Mutex
	accessToken string
	expiry      time.Time
}

// NewCredentials parses the service-account key and returns a credential
// holder. Missing email or key is a configuration error; it is reported here
// rather than at first request so the 500 detail names the real problem.
func NewCredentials(clientEmail, privateKeyPEM string) (*Credentials, error) {
	if clientEmail == "" || privateKeyPEM == "" {
		return nil, apperrors.NewConfigError("Google service account credentials are not configured", nil)
	}

	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, apperrors.NewConfigError("Google service account private key is not parseable", err)
	}

	return &Credentials{
		clientEmail: clientEmail,
		privateKey:  key,
		scopes:      Scopes,
		tokenURL:    tokenEndpoint,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// parsePrivateKey accepts PKCS#8 ("PRIVATE KEY") and PKCS#1 ("RSA PRIVATE
// KEY") PEM blocks; Google issues PKCS#8.
func parsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key")
	}

	if parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is %T, want *rsa.PrivateKey", parsed)
		}
		return key, nil
	}

	return x509.ParsePKCS1PrivateKey(block.Bytes)
}

// Token returns a bearer token for the configured scopes, refreshing through
// the JWT bearer grant when the cached one is within a minute of expiry.
func (c *Credentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.expiry) > time.Minute {
		return c.accessToken, nil
	}

	assertion, err := c.signAssertion()
	if err != nil {
		return "", apperrors.NewConfigError("unable to sign service account assertion", err)
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewUpstreamError("token exchange failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewUpstreamError("token exchange read failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewUpstreamError("token exchange failed",
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", apperrors.NewParseError("token response is not valid JSON", err)
	}
	if tokenResp.AccessToken == "" {
		return "", apperrors.NewUpstreamError("token response carried no access token", nil)
	}

	c.accessToken = tokenResp.AccessToken
	c.expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// signAssertion builds the RS256 service-account assertion.
func (c *Credentials) signAssertion() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   c.clientEmail,
		"scope": strings.Join(c.scopes, " "),
		"aud":   c.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.privateKey)
}

// Get performs an authorized GET and returns the body and the response
// Content-Type. Used for both the Docs API and per-image content URIs.
func (c *Credentials) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", apperrors.NewUpstreamError("request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", apperrors.NewUpstreamError("response read failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", apperrors.NewUpstreamError("request failed",
			fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode))
	}

	return body, resp.Header.Get("Content-Type"), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
