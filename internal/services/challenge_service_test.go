package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"bouncer/internal/utils"
)

func TestVerifyTokenMissingTokenFailsWithoutCall(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	svc := NewChallengeService(utils.NewTurnstileClient("s", srv.URL, time.Second), zap.NewNop())

	assert.ErrorIs(t, svc.VerifyToken(context.Background(), "", "ip"), ErrChallengeFailed)
	assert.ErrorIs(t, svc.VerifyToken(context.Background(), "   ", "ip"), ErrChallengeFailed)
	assert.Equal(t, int64(0), calls.Load(), "an empty token must not be redeemed")
}

func TestVerifyTokenRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["timeout-or-duplicate"]}`))
	}))
	defer srv.Close()

	svc := NewChallengeService(utils.NewTurnstileClient("s", srv.URL, time.Second), zap.NewNop())
	assert.ErrorIs(t, svc.VerifyToken(context.Background(), "tok", "ip"), ErrChallengeFailed)
}

func TestVerifyTokenUnreachableVerifierFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	svc := NewChallengeService(utils.NewTurnstileClient("s", srv.URL, time.Second), zap.NewNop())
	assert.ErrorIs(t, svc.VerifyToken(context.Background(), "tok", "ip"), ErrChallengeFailed)
}

func TestVerifyTokenSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	svc := NewChallengeService(utils.NewTurnstileClient("s", srv.URL, time.Second), zap.NewNop())
	assert.NoError(t, svc.VerifyToken(context.Background(), "tok", "ip"))
}
