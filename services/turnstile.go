package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// turnstileVerifyURL is a var so tests can point it at a local server
var turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

var turnstileClient = &http.Client{Timeout: 10 * time.Second}

type TurnstileResponse struct {
	Success     bool      `json:"success"`
	ChallengeTS time.Time `json:"challenge_ts"`
	Hostname    string    `json:"hostname"`
	ErrorCodes  []string  `json:"error-codes"`
}

// VerifyTurnstileToken checks a Cloudflare Turnstile token issued to the public registration form
func VerifyTurnstileToken(ctx context.Context, token, secretKey, ip string) (bool, error) {
	if token == "" || secretKey == "" {
		return false, fmt.Errorf("missing token or secret key")
	}

	form := url.Values{
		"secret":   {secretKey},
		"response": {token},
		"remoteip": {ip},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, turnstileVerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := turnstileClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	var result TurnstileResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode turnstile response: %w", err)
	}

	if !result.Success {
		return false, fmt.Errorf("turnstile verification failed, error codes: %v", result.ErrorCodes)
	}
	return true, nil
}

// CheckRegistrationChallenge gates self-service registration when a Turnstile secret is configured.
// Without a secret the check is disabled.
func CheckRegistrationChallenge(ctx context.Context, secretKey, token, ip string) error {
	if secretKey == "" {
		return nil
	}
	if token == "" {
		return ValidationError("bot challenge token is required")
	}
	ok, err := VerifyTurnstileToken(ctx, token, secretKey, ip)
	if !ok {
		log.Printf("[SECURITY] Registration challenge rejected from %s: %v", ip, err)
		return ForbiddenError("bot challenge failed")
	}
	return nil
}
