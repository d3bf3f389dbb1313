// Package email sends transactional mail through the Resend API. Without an
// API key the service runs in mock mode and only logs, so development and
// tests never require credentials. Delivery failures are always non-fatal
// to the operation that triggered them.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const defaultEndpoint = "https://api.resend.com/emails"

type Config struct {
	APIKey   string
	From     string
	ReplyTo  string
	Endpoint string
	Timeout  time.Duration
}

type Service struct {
	config     Config
	httpClient *http.Client
}

func NewService(config Config) *Service {
	if config.Endpoint == "" {
		config.Endpoint = defaultEndpoint
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.APIKey == "" {
		log.Println("email: no API key configured, running in mock mode")
	}
	return &Service{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

type message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *Service) send(ctx context.Context, to, subject, html string) error {
	if s.config.APIKey == "" {
		log.Printf("email (mock): to=%s subject=%q", to, subject)
		return nil
	}

	payload, err := json.Marshal(message{
		From:    s.config.From,
		To:      []string{to},
		ReplyTo: s.config.ReplyTo,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email delivery failed: %s", resp.Status)
	}
	return nil
}

// SendReturnConfirmation mails the customer their return label details.
func (s *Service) SendReturnConfirmation(ctx context.Context, data ReturnConfirmationData) error {
	subject := fmt.Sprintf("Return %s confirmed", data.ReturnID)
	return s.send(ctx, data.CustomerEmail, subject, renderReturnConfirmation(data))
}

// SendReturnProcessed mails the customer that their refund is done.
func (s *Service) SendReturnProcessed(ctx context.Context, data ReturnProcessedData) error {
	subject := fmt.Sprintf("Return %s processed", data.ReturnID)
	return s.send(ctx, data.CustomerEmail, subject, renderReturnProcessed(data))
}

// SendPointsEarned mails the customer about a points credit.
func (s *Service) SendPointsEarned(ctx context.Context, data PointsEarnedData) error {
	subject := fmt.Sprintf("You earned %d loyalty points", data.Points)
	return s.send(ctx, data.CustomerEmail, subject, renderPointsEarned(data))
}
