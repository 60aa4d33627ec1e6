package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFingerprint_StableAndShaped(t *testing.T) {
	a := fingerprint()
	b := fingerprint()
	require.Equal(t, a, b, "fingerprint must be stable within a host")
	require.Regexp(t, regexp.MustCompile(`^\d+-.+$`), a)
}

func TestPing_AuthorizedAndNot(t *testing.T) {
	var gotBody map[string]string
	authorized := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ping", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"authorized": authorized})
	}))
	defer ts.Close()

	client := &http.Client{Timeout: time.Second}

	ok, err := ping(client, ts.URL, "123-host", "PROG-1")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "123-host", gotBody["hwid"])
	require.Equal(t, "PROG-1", gotBody["program_code"])

	authorized = true
	ok, err = ping(client, ts.URL, "123-host", "PROG-1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPing_BadRequestSurfacesReason(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"authorized": false, "reason": "missing_parameters"})
	}))
	defer ts.Close()

	_, err := ping(&http.Client{Timeout: time.Second}, ts.URL, "", "PROG-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing_parameters")
}

func TestRequestActivation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/request_activation", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "message": "request_received"})
	}))
	defer ts.Close()

	err := requestActivation(&http.Client{Timeout: time.Second}, ts.URL, "123-host", "PROG-1", "hi")
	require.NoError(t, err)
}
