// Package clients holds the HTTP JSON clients for the external collaborators:
// the booking service and the mobile-money push gateway.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/models"
)

var ErrBookingNotFound = errors.New("clients: booking not found")

// BookingClient reads bookings from the booking service.
type BookingClient struct {
	baseURL string
	client  *http.Client
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *BookingClient) FetchBooking(ctx context.Context, reference string) (*models.Booking, error) {
	url := fmt.Sprintf("%s/bookings/%s", c.baseURL, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build booking request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrBookingNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("booking service returned %d", resp.StatusCode)
	}

	var booking models.Booking
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		return nil, fmt.Errorf("failed to decode booking: %w", err)
	}
	return &booking, nil
}
