package scheduling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "key123", r.URL.Query().Get("apiKey"))
		w.Write([]byte(`{"user":{"username":"drsmith","timeZone":"America/New_York"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	profile, err := client.GetProfile(context.Background(), "key123")
	require.NoError(t, err)
	assert.Equal(t, "drsmith", profile.Username)
	assert.Equal(t, "America/New_York", profile.TimeZone)
}

func TestGetEventTypeDefaultsDuration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/event-types/42", r.URL.Path)
		w.Write([]byte(`{"event_type":{"id":42,"title":"Consultation"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	et, err := client.GetEventType(context.Background(), "key123", 42)
	require.NoError(t, err)
	assert.Equal(t, "Consultation", et.Title)
	assert.Equal(t, 30, et.DurationMinutes)
}

func TestGetBusyTimes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/availability", r.URL.Path)
		assert.Equal(t, "2026-09-15", r.URL.Query().Get("dateFrom"))
		w.Write([]byte(`{"busy":[{"start":"2026-09-15T14:00:00Z","end":"2026-09-15T14:30:00Z"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	busy, err := client.GetBusyTimes(context.Background(), "key123", 42, "drsmith", "2026-09-15", "UTC")
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC), busy[0].Start)
}

func TestCreateBookingSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":917,"uid":"abc123xyz"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.CreateBooking(context.Background(), "key123", BookingPayload{
		EventTypeID: 42,
		Name:        "Pat Jones",
		Email:       "pat@example.com",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 917, result.BookingID)
	assert.Equal(t, "abc123xyz", result.ConfirmationUID)
}

func TestCreateBookingClassifiesRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"no_available_users_found_error"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.CreateBooking(context.Background(), "key123", BookingPayload{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, models.FailureSlotTaken, result.Failure)
	assert.Contains(t, result.RawError, "no_available_users_found")
}

func TestCreateBookingTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.CreateBooking(context.Background(), "key123", BookingPayload{})
	assert.Error(t, err)
}

func TestClassifyBookingError(t *testing.T) {
	tests := []struct {
		raw  string
		want models.BookingFailure
	}{
		{`{"message":"no_available_users_found_error"}`, models.FailureSlotTaken},
		{`minimum_booking_notice violated`, models.FailureMinimumNotice},
		{`invalid_event_length`, models.FailureInvalidDuration},
		{`something else entirely`, models.FailureUnknown},
		{``, models.FailureUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyBookingError(tt.raw), tt.raw)
	}
}
