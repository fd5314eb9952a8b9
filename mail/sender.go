// Package mail delivers verification codes to users. Delivery is a
// capability the engine treats as best-effort: a failed send never blocks
// code issuance.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Sender delivers a verification code to an email address.
type Sender interface {
	SendCode(ctx context.Context, email, code string) error
}

const (
	defaultBaseURL = "https://api.resend.com"
	sendTimeout    = 10 * time.Second
)

// ResendClient sends verification-code emails through the Resend HTTP API.
type ResendClient struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

func NewResendClient(apiKey, from string) *ResendClient {
	return &ResendClient{
		apiKey:  apiKey,
		from:    from,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: sendTimeout},
	}
}

type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendCode posts the code email. Any non-2xx response is an error.
func (c *ResendClient) SendCode(ctx context.Context, email, code string) error {
	payload, err := json.Marshal(resendEmailRequest{
		From:    c.from,
		To:      []string{email},
		Subject: "SecureApp - Verification Code",
		HTML:    codeTemplate(code),
	})
	if err != nil {
		return fmt.Errorf("encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send email: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Ready checks that the API key is accepted. Used once at startup so a
// misconfigured key downgrades delivery to log-only instead of failing
// every send-code request.
func (c *ResendClient) Ready(ctx context.Context) bool {
	if c.apiKey == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/domains", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func codeTemplate(code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="text-align: center;">SecureApp Verification Code</h2>
  <p style="font-size: 32px; font-weight: bold; text-align: center; letter-spacing: 3px;">%s</p>
  <p style="color: #666; text-align: center;">This code will expire in 5 minutes.<br>
  If you didn't request this code, please ignore this email.</p>
</div>`, code)
}

// LogSender writes codes to the log instead of sending email. Used when no
// delivery provider is configured, so development setups still surface the
// code through an operational channel.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendCode(_ context.Context, email, code string) error {
	s.logger.Warn("email delivery not configured, logging verification code",
		"email", email, "code", code)
	return nil
}
