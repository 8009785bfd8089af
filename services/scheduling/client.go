package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bookline/models"
)

const clientTimeout = 10 * time.Second

// Client is a typed client for the scheduling provider's REST API. Every
// operation returns an explicit error and never panics past this boundary;
// the API key is supplied per call and never stored.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a scheduling provider client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := fmt.Sprintf("%s%s?%s", c.BaseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach scheduling provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scheduling provider error (status %d): %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// GetProfile returns the account holder's username and time zone.
func (c *Client) GetProfile(ctx context.Context, apiKey string) (*models.Profile, error) {
	q := url.Values{"apiKey": {apiKey}}
	var resp struct {
		User models.Profile `json:"user"`
	}
	if err := c.get(ctx, "/me", q, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// GetEventType returns the event type's title and duration. A missing or zero
// duration defaults to 30 minutes.
func (c *Client) GetEventType(ctx context.Context, apiKey string, eventTypeID int) (*models.EventType, error) {
	q := url.Values{"apiKey": {apiKey}}
	var resp struct {
		EventType models.EventType `json:"event_type"`
	}
	if err := c.get(ctx, "/event-types/"+strconv.Itoa(eventTypeID), q, &resp); err != nil {
		return nil, err
	}
	if resp.EventType.DurationMinutes <= 0 {
		resp.EventType.DurationMinutes = 30
	}
	return &resp.EventType, nil
}

// GetSchedules returns the account's working-hour rules.
func (c *Client) GetSchedules(ctx context.Context, apiKey string) ([]models.ScheduleRule, error) {
	q := url.Values{"apiKey": {apiKey}}
	var resp struct {
		Schedules []struct {
			Availability []models.ScheduleRule `json:"availability"`
		} `json:"schedules"`
	}
	if err := c.get(ctx, "/schedules", q, &resp); err != nil {
		return nil, err
	}
	var rules []models.ScheduleRule
	for _, s := range resp.Schedules {
		rules = append(rules, s.Availability...)
	}
	return rules, nil
}

// GetBusyTimes returns the busy intervals for the given user and date.
func (c *Client) GetBusyTimes(ctx context.Context, apiKey string, eventTypeID int, username, date, timezone string) ([]models.BusyInterval, error) {
	q := url.Values{
		"apiKey":      {apiKey},
		"eventTypeId": {strconv.Itoa(eventTypeID)},
		"username":    {username},
		"dateFrom":    {date},
		"dateTo":      {date},
		"timeZone":    {timezone},
	}
	var resp struct {
		Busy []models.BusyInterval `json:"busy"`
	}
	if err := c.get(ctx, "/availability", q, &resp); err != nil {
		return nil, err
	}
	return resp.Busy, nil
}

// ListSlots returns the open slots between startUTC and endUTC.
func (c *Client) ListSlots(ctx context.Context, apiKey string, eventTypeID int, startUTC, endUTC time.Time) ([]models.Slot, error) {
	q := url.Values{
		"apiKey":      {apiKey},
		"eventTypeId": {strconv.Itoa(eventTypeID)},
		"startTime":   {startUTC.Format(time.RFC3339)},
		"endTime":     {endUTC.Format(time.RFC3339)},
	}
	var resp struct {
		Slots []models.Slot `json:"slots"`
	}
	if err := c.get(ctx, "/slots", q, &resp); err != nil {
		return nil, err
	}
	return resp.Slots, nil
}

// BookingPayload is the request body for CreateBooking.
type BookingPayload struct {
	EventTypeID int       `json:"eventTypeId"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TimeZone    string    `json:"timeZone"`
	Language    string    `json:"language"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
}

// CreateBooking submits a booking. Provider rejections are classified into
// the BookingFailure taxonomy rather than returned as errors; only transport
// failures produce a non-nil error.
func (c *Client) CreateBooking(ctx context.Context, apiKey string, payload BookingPayload) (*models.BookingResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking payload: %w", err)
	}

	u := fmt.Sprintf("%s/bookings?apiKey=%s", c.BaseURL, url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach scheduling provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw := string(respBody)
		return &models.BookingResult{
			Success:  false,
			Failure:  ClassifyBookingError(raw),
			RawError: raw,
		}, nil
	}

	var created struct {
		ID  int    `json:"id"`
		UID string `json:"uid"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("failed to parse booking response: %w", err)
	}
	return &models.BookingResult{
		Success:         true,
		BookingID:       created.ID,
		ConfirmationUID: created.UID,
	}, nil
}
