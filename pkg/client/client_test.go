package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOwnProfiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/allProfiles/42", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":7,"userId":42,"name":"Asha"}]}`))
	}))
	defer srv.Close()

	profiles, err := New(srv.URL+"/", "tok").ListOwnProfiles(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, uint(7), profiles[0].ID)
	assert.Equal(t, "Asha", profiles[0].Name)
}

func TestExpressInterest(t *testing.T) {
	var got InterestRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/profile-interest/99/interests", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"message":"Interest sent successfully"}`))
	}))
	defer srv.Close()

	req := InterestRequest{SenderUserID: 42, SenderProfileID: 7, ReceiverUserID: 81, SenderProfile: SenderSnapshot{Name: "Asha"}}
	require.NoError(t, New(srv.URL, "tok").ExpressInterest(context.Background(), 99, req))
	assert.Equal(t, req, got)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		message   string
		duplicate bool
	}{
		{"conflict", http.StatusConflict, `{"success":false,"message":"Interest already sent"}`, "Interest already sent", true},
		{"success false on 200", http.StatusOK, `{"success":false,"message":"nope"}`, "nope", false},
		{"non json", http.StatusBadGateway, "bad gateway", "bad gateway", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(srv.URL, "").ExpressInterest(context.Background(), 1, InterestRequest{})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.duplicate, apiErr.Duplicate())
		})
	}
}
