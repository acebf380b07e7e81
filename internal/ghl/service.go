// Package ghl delivers normalized registrants to the Go High Level webhook.
package ghl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/avanza-marketing/webhook-relay/config"
	"github.com/avanza-marketing/webhook-relay/internal/models"
)

// GHL accepts the registration payload on a webhook trigger URL authenticated
// by this header.
const authHeader = "X-Auth-Key"

// requestTimeout bounds the single delivery attempt; there are no retries.
const requestTimeout = 40 * time.Second

// Result is the normalized outcome of a GHL delivery attempt.
type Result struct {
	Success    bool
	Body       map[string]any
	StatusCode int
}

// Service sends webinar registrations to the configured GHL webhook.
type Service struct {
	webhookURL     string
	apiKey         string
	whatsAppNumber string
	templateName   string
	client         *http.Client
	logger         *zap.Logger
}

// NewService creates a GHL service from configuration.
func NewService(cfg config.GHLConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		webhookURL:     cfg.WebhookURL,
		apiKey:         cfg.APIKey,
		whatsAppNumber: cfg.WhatsAppNumber,
		templateName:   cfg.TemplateName,
		client:         &http.Client{Timeout: requestTimeout},
		logger:         logger,
	}
}

// SendWebinarRegistration delivers the registrant to GHL. Missing configuration
// fails immediately without a network call; transport and parse failures are
// folded into a 500 failure Result and never escape.
func (s *Service) SendWebinarRegistration(ctx context.Context, registrant *models.Registrant) Result {
	if s.webhookURL == "" || s.apiKey == "" {
		s.logger.Error("cannot send to GHL: webhook url or api key not configured")
		return Result{Body: map[string]any{"error": "GHL configuration missing"}, StatusCode: http.StatusInternalServerError}
	}

	encoded, err := json.Marshal(registrant.WirePayload(s.templateName))
	if err != nil {
		return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(encoded))
	if err != nil {
		return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(authHeader, s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("GHL request failed", zap.Error(err), zap.String("phone", registrant.Phone))
		return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Error("GHL response read failed", zap.Error(err))
		return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
	}
	respBody := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &respBody); err != nil {
			s.logger.Error("GHL response parse failed", zap.Error(err))
			return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.logger.Info("GHL delivery succeeded",
			zap.Int("status", resp.StatusCode),
			zap.String("email", registrant.Email),
			zap.String("whatsapp_number", s.whatsAppNumber),
		)
		return Result{Success: true, Body: respBody, StatusCode: resp.StatusCode}
	}
	s.logger.Error("GHL delivery rejected",
		zap.Int("status", resp.StatusCode),
		zap.String("email", registrant.Email),
	)
	return Result{Body: respBody, StatusCode: resp.StatusCode}
}
