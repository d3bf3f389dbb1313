package furgonetka

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const contentType = "application/vnd.furgonetka.v1+json"

// ShipmentRequest carries the return fields Furgonetka needs for a
// customer-to-store return label.
type ShipmentRequest struct {
	ReturnID      string `json:"return_id"`
	OrderID       string `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
	Description   string `json:"description"`
}

// ShipmentLabel is the carrier's answer: a QR code the customer shows at a
// parcel point and the shipment's tracking number.
type ShipmentLabel struct {
	QRCodeURL      string `json:"qr_code_url"`
	TrackingNumber string `json:"tracking_number"`
}

// Client talks to the Furgonetka API using a shared token source.
type Client struct {
	tokens     *TokenSource
	baseURL    string
	httpClient *http.Client
}

func NewClient(tokens *TokenSource, baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		tokens:     tokens,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateReturnShipment requests a return label. Callers treat failure as
// non-fatal: the return exists without tracking fields and label creation
// is retried out-of-band.
func (c *Client) CreateReturnShipment(ctx context.Context, req ShipmentRequest) (*ShipmentLabel, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("furgonetka auth failed: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode shipment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/packages/return", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build shipment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", contentType)
	httpReq.Header.Set("X-Language", "pl_PL")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("shipment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("shipment request failed: %s", resp.Status)
	}

	var label ShipmentLabel
	if err := json.NewDecoder(resp.Body).Decode(&label); err != nil {
		return nil, fmt.Errorf("failed to decode shipment response: %w", err)
	}
	return &label, nil
}
