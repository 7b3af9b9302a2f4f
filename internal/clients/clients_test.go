package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingClient_FetchBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/BK123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"reference":      "BK123",
			"name":           "Asha Mrema",
			"phone":          "255751234567",
			"amount":         "25000.00",
			"currency":       "TZS",
			"payment_status": "PENDING",
		})
	}))
	defer srv.Close()

	client := NewBookingClient(srv.URL)
	booking, err := client.FetchBooking(context.Background(), "BK123")
	require.NoError(t, err)

	assert.Equal(t, "BK123", booking.Reference)
	assert.Equal(t, "PENDING", booking.PaymentStatus)
	// Monetary values stay decimal strings.
	assert.Equal(t, "25000.00", booking.Amount)
}

func TestBookingClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewBookingClient(srv.URL)
	_, err := client.FetchBooking(context.Background(), "BK404")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestBookingClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewBookingClient(srv.URL)
	_, err := client.FetchBooking(context.Background(), "BK123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBookingNotFound)
}

func TestPaymentClient_InitiatePush(t *testing.T) {
	var received pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments/push", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, 0)
	err := client.InitiatePush(context.Background(), "BK123", "255751234567")
	require.NoError(t, err)

	assert.Equal(t, "BK123", received.BookingReference)
	assert.Equal(t, "255751234567", received.PhoneNumber)
}

func TestPaymentClient_GatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "error",
			"comment": "subscriber not registered for mobile money",
		})
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, 0)
	err := client.InitiatePush(context.Background(), "BK123", "255751234567")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscriber not registered")
}

func TestPaymentClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewPaymentClient(srv.URL, 0)
	err := client.InitiatePush(context.Background(), "BK123", "255751234567")
	assert.Error(t, err)
}
