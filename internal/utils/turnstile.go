package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TurnstileClient talks to the Cloudflare Turnstile siteverify endpoint
// (or anything speaking the same form-POST contract).
type TurnstileClient struct {
	Secret    string
	VerifyURL string
	HTTP      *http.Client
}

type VerifyResponse struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

func NewTurnstileClient(secret, verifyURL string, timeout time.Duration) *TurnstileClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TurnstileClient{
		Secret:    secret,
		VerifyURL: verifyURL,
		HTTP:      &http.Client{Timeout: timeout},
	}
}

// Verify redeems the token. Any transport error, non-200 status or
// unparseable body comes back as error; the caller decides to fail closed.
func (c *TurnstileClient) Verify(ctx context.Context, token, remoteIP string) (*VerifyResponse, error) {
	form := url.Values{
		"secret":   {c.Secret},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read verify response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verifier returned status %d", resp.StatusCode)
	}

	var result VerifyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse verify response: %w", err)
	}
	return &result, nil
}
