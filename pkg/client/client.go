// Package client is a small JSON client for the member-facing API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Profile is the slice of a profile the selection modal shows
type Profile struct {
	ID              uint   `json:"id"`
	UserID          uint   `json:"userId"`
	ProfileRelation string `json:"profileRelation"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DOB             string `json:"dob"`
	Gender          string `json:"gender"`
	City            string `json:"city"`
	State           string `json:"state"`
	Address         string `json:"address"`
	FatherName      string `json:"fatherName"`
	Photo1          string `json:"photo1,omitempty"`
}

// SenderSnapshot is the sender identity sent along with interest
type SenderSnapshot struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	DOB        string `json:"dob"`
	Address    string `json:"address"`
	FatherName string `json:"fatherName"`
	State      string `json:"state"`
}

// SnapshotOf copies the identifying fields of p
func SnapshotOf(p Profile) SenderSnapshot {
	return SenderSnapshot{
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		City:       p.City,
		DOB:        p.DOB,
		Address:    p.Address,
		FatherName: p.FatherName,
		State:      p.State,
	}
}

// InterestRequest is the body of an expression of interest
type InterestRequest struct {
	SenderUserID    uint           `json:"senderUserId"`
	SenderProfileID uint           `json:"senderProfileId"`
	ReceiverUserID  uint           `json:"receiverUserId"`
	SenderProfile   SenderSnapshot `json:"senderProfile"`
	Message         string         `json:"message,omitempty"`
}

// APIError is a non-2xx or success:false response
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Duplicate reports whether the server already holds this interest
func (e *APIError) Duplicate() bool {
	return e.Status == http.StatusConflict
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the API on behalf of one signed-in member
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New creates a client for baseURL authenticated with token
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ListOwnProfiles fetches the member's own profiles
func (c *Client) ListOwnProfiles(ctx context.Context, userID uint) ([]Profile, error) {
	var profiles []Profile
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/allProfiles/%d", userID), nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ExpressInterest posts interest in receiverProfileID
func (c *Client) ExpressInterest(ctx context.Context, receiverProfileID uint, req InterestRequest) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/profile-interest/%d/interests", receiverProfileID), req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
