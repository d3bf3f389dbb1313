// Package furgonetka is the client for the Furgonetka.pl shipping API.
// It handles OAuth client-credentials tokens and return-shipment creation.
package furgonetka

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// refreshBuffer renews tokens this long before they expire.
const refreshBuffer = 5 * time.Minute

// TokenSource fetches and caches an OAuth access token. It is an injected
// collaborator instance, not a process-wide singleton; the mutex guards the
// cached token across concurrent requests.
type TokenSource struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewTokenSource(clientID, clientSecret, baseURL string, httpClient *http.Client) *TokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   httpClient,
	}
}

// Token returns a valid access token, refreshing it when close to expiry.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Now().Before(t.expiry.Add(-refreshBuffer)) {
		return t.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {t.clientID},
		"client_secret": {t.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed: %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	t.token = body.AccessToken
	t.expiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return t.token, nil
}
