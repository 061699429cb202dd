package handlers_test

import (
	"net/http"
	"testing"

	"github.com/splitbook/splitbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name       string
		body       map[string]string
		setup      func(t *testing.T)
		wantStatus int
	}{
		{
			name: "valid registration",
			body: map[string]string{
				"email":       "new@example.com",
				"password":    "password123",
				"displayName": "newuser",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing email",
			body: map[string]string{
				"password":    "password123",
				"displayName": "newuser",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "short password",
			body: map[string]string{
				"email":       "new@example.com",
				"password":    "short",
				"displayName": "newuser",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: map[string]string{
				"email":       "taken@example.com",
				"password":    "password123",
				"displayName": "newuser",
			},
			setup: func(t *testing.T) {
				register(t, ts, "taken@example.com", "first")
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)
			if tt.setup != nil {
				tt.setup(t)
			}

			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/register"), "", tt.body)
			defer resp.Body.Close()
			testutil.AssertStatusCode(t, resp, tt.wantStatus)

			if tt.wantStatus == http.StatusCreated {
				var auth testutil.AuthResponse
				testutil.AssertJSONResponse(t, resp, &auth)
				assert.NotEmpty(t, auth.AccessToken)
				assert.NotEmpty(t, auth.RefreshToken)
			}
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.DB.Truncate(t)
	register(t, ts, "alice@example.com", "alice")

	t.Run("valid credentials", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/login"), "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/login"), "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrongpassword",
		})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}

func TestSessionEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.DB.Truncate(t)

	alice := register(t, ts, "alice@example.com", "alice")

	// A second login opens a second session.
	resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/login"), "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	var second testutil.AuthResponse
	testutil.AssertJSONResponse(t, resp, &second)
	resp.Body.Close()

	t.Run("list sessions marks the caller's own", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/sessions"), alice.AccessToken, nil)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var sessions []struct {
			ID        string `json:"id"`
			IsCurrent bool   `json:"isCurrent"`
		}
		testutil.AssertJSONResponse(t, resp, &sessions)
		require.Len(t, sessions, 2)

		current := 0
		for _, s := range sessions {
			if s.IsCurrent {
				current++
			}
		}
		assert.Equal(t, 1, current)
	})

	t.Run("refresh issues a working access token", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/refresh"), "", map[string]string{
			"refreshToken": second.RefreshToken,
		})
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		var refreshed struct {
			AccessToken string `json:"accessToken"`
		}
		testutil.AssertJSONResponse(t, resp, &refreshed)
		resp.Body.Close()

		resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/me"), refreshed.AccessToken, nil)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})

	t.Run("logout invalidates the session", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/logout"), second.AccessToken, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		resp.Body.Close()

		resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/me"), second.AccessToken, nil)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)

		// The revoked session's refresh token is dead too.
		resp2 := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/refresh"), "", map[string]string{
			"refreshToken": second.RefreshToken,
		})
		defer resp2.Body.Close()
		testutil.AssertStatusCode(t, resp2, http.StatusUnauthorized)
	})
}
