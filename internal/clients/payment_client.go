package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PaymentClient triggers push-payment prompts via the mobile-money gateway.
// The call is fire-and-acknowledge: a 2xx means the prompt was queued for the
// subscriber's handset, nothing more.
type PaymentClient struct {
	baseURL string
	client  *http.Client
}

// NewPaymentClient builds a client with the given per-request timeout. A
// gateway that has not acknowledged within the timeout is treated as failed;
// the caller may retry.
func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PaymentClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type pushRequest struct {
	BookingReference string `json:"booking_reference"`
	PhoneNumber      string `json:"phone_number"`
}

type pushResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (c *PaymentClient) InitiatePush(ctx context.Context, bookingReference, phone string) error {
	body, err := json.Marshal(pushRequest{
		BookingReference: bookingReference,
		PhoneNumber:      phone,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	url := fmt.Sprintf("%s/payments/push", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		var pr pushResponse
		if json.Unmarshal(raw, &pr) == nil && pr.Comment != "" {
			return fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, pr.Comment)
		}
		return fmt.Errorf("payment gateway returned %d", resp.StatusCode)
	}

	return nil
}
