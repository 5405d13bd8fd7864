package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnstileVerifySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "sekret", r.PostFormValue("secret"))
		assert.Equal(t, "tok-123", r.PostFormValue("response"))
		assert.Equal(t, "203.0.113.7", r.PostFormValue("remoteip"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"hostname":"example.com"}`))
	}))
	defer srv.Close()

	client := NewTurnstileClient("sekret", srv.URL, time.Second)
	resp, err := client.Verify(context.Background(), "tok-123", "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "example.com", resp.Hostname)
}

func TestTurnstileVerifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	client := NewTurnstileClient("sekret", srv.URL, time.Second)
	resp, err := client.Verify(context.Background(), "bad", "")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, []string{"invalid-input-response"}, resp.ErrorCodes)
}

func TestTurnstileVerifyNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewTurnstileClient("sekret", srv.URL, time.Second)
	_, err := client.Verify(context.Background(), "tok", "")
	assert.Error(t, err)
}

func TestTurnstileVerifyMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client := NewTurnstileClient("sekret", srv.URL, time.Second)
	_, err := client.Verify(context.Background(), "tok", "")
	assert.Error(t, err)
}

func TestTurnstileVerifyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := NewTurnstileClient("sekret", srv.URL, 50*time.Millisecond)
	_, err := client.Verify(context.Background(), "tok", "")
	assert.Error(t, err, "a stalled verifier must surface as an error, not success")
}
