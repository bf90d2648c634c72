package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTurnstile(t *testing.T, success bool) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.PostForm.Get("secret"))
		w.Header().Set("Content-Type", "application/json")
		resp := TurnstileResponse{Success: success}
		if !success {
			resp.ErrorCodes = []string{"invalid-input-response"}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	oldURL := turnstileVerifyURL
	turnstileVerifyURL = server.URL
	t.Cleanup(func() {
		turnstileVerifyURL = oldURL
		server.Close()
	})
}

func TestVerifyTurnstileToken(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingInputs", func(t *testing.T) {
		ok, err := VerifyTurnstileToken(ctx, "", "secret", "127.0.0.1")
		assert.False(t, ok)
		assert.Contains(t, err.Error(), "missing token")
	})

	t.Run("Success", func(t *testing.T) {
		fakeTurnstile(t, true)
		ok, err := VerifyTurnstileToken(ctx, "valid-token", "secret", "1.1.1.1")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Failure", func(t *testing.T) {
		fakeTurnstile(t, false)
		ok, err := VerifyTurnstileToken(ctx, "bad-token", "secret", "1.1.1.1")
		assert.False(t, ok)
		assert.Contains(t, err.Error(), "invalid-input-response")
	})
}

func TestCheckRegistrationChallenge(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, CheckRegistrationChallenge(ctx, "", "", "1.1.1.1"), "disabled without a secret")

	err := CheckRegistrationChallenge(ctx, "secret", "", "1.1.1.1")
	assert.Equal(t, KindValidation, KindOf(err))

	fakeTurnstile(t, false)
	err = CheckRegistrationChallenge(ctx, "secret", "bad", "1.1.1.1")
	assert.Equal(t, KindForbidden, KindOf(err))
}
