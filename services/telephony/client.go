package telephony

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiTimeout = 30 * time.Second

// Client places outbound calls against the telephony provider.
type Client struct {
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
}

// NewClient creates a telephony client. An empty base URL, account SID, auth
// token or from-number leaves the client unconfigured.
func NewClient(baseURL, accountSID, authToken, fromNumber string) *Client {
	return &Client{
		baseURL:    baseURL,
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{
			Timeout: apiTimeout,
		},
	}
}

// IsConfigured returns true if the client has required credentials.
func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != "" && c.accountSID != "" && c.authToken != "" && c.fromNumber != ""
}

// CallRequest is the request body for initiating a call.
type CallRequest struct {
	To                string `json:"to"`
	From              string `json:"from"`
	AnswerURL         string `json:"answerUrl"`
	StatusCallbackURL string `json:"statusCallbackUrl"`
}

// CallResponse is the provider's response to an initiated call.
type CallResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PlaceCall initiates an outbound call to the given number, directing the
// provider at the answer and status webhooks.
func (c *Client) PlaceCall(ctx context.Context, toNumber, answerURL, statusURL string) (*CallResponse, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("telephony client not configured")
	}

	body, err := json.Marshal(CallRequest{
		To:                toNumber,
		From:              c.fromNumber,
		AnswerURL:         answerURL,
		StatusCallbackURL: statusURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calls", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("telephony API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var callResp CallResponse
	if err := json.Unmarshal(respBody, &callResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &callResp, nil
}
