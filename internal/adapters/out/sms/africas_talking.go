package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/errs"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	LiveBaseURL    = "https://api.africastalking.com"
	SandboxBaseURL = "https://api.sandbox.africastalking.com"

	messagingPath = "/version1/messaging"
	statusSuccess = "Success"
)

type Config struct {
	Username string
	APIKey   string
	SenderID string
	Sandbox  bool

	// BaseURL overrides the live and sandbox hosts.
	BaseURL string
	Timeout time.Duration
}

func (c Config) baseURL() string {
	switch {
	case c.BaseURL != "":
		return strings.TrimRight(c.BaseURL, "/")
	case c.Sandbox:
		return SandboxBaseURL
	default:
		return LiveBaseURL
	}
}

type AfricasTalkingSender struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewAfricasTalkingSender(cfg Config, logger *slog.Logger) *AfricasTalkingSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AfricasTalkingSender{
		cfg:      cfg,
		endpoint: cfg.baseURL() + messagingPath,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.With("component", "africas_talking_sender"),
	}
}

type sendResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Status     string `json:"status"`
			Cost       string `json:"cost"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// Send implements ports.SMSSender. Transport failures and 5xx answers are
// returned as errors; any other answer without a successful first recipient
// is a rejection.
func (s *AfricasTalkingSender) Send(ctx context.Context, phone kernel.PhoneNumber, message string) (bool, error) {
	form := url.Values{}
	form.Set("username", s.cfg.Username)
	form.Set("to", phone.String())
	form.Set("message", message)
	if s.cfg.SenderID != "" {
		form.Set("from", s.cfg.SenderID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, errs.NewDependencyUnavailableError("sms", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return false, errs.NewDependencyUnavailableError("sms", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return false, errs.NewDependencyUnavailableError("sms",
			fmt.Errorf("provider returned status %d", resp.StatusCode))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.ErrorContext(ctx, "provider refused request",
			"status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
		return false, nil
	}

	var parsed sendResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		s.logger.ErrorContext(ctx, "unreadable provider response", "status", resp.StatusCode, "error", err)
		return false, nil
	}

	recipients := parsed.SMSMessageData.Recipients
	if len(recipients) == 0 {
		s.logger.ErrorContext(ctx, "no recipients in provider response",
			"to", phone.String(), "message", parsed.SMSMessageData.Message)
		return false, nil
	}

	first := recipients[0]
	if first.Status != statusSuccess {
		s.logger.WarnContext(ctx, "message rejected by provider",
			"to", phone.String(), "status", first.Status, "status_code", first.StatusCode)
		return false, nil
	}

	s.logger.InfoContext(ctx, "message accepted by provider",
		"to", phone.String(), "message_id", first.MessageID, "cost", first.Cost)
	return true, nil
}
