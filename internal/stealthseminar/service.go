// Package stealthseminar normalizes inbound Stealth Seminar webhooks and
// talks to the provider's API.
package stealthseminar

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avanza-marketing/webhook-relay/config"
	"github.com/avanza-marketing/webhook-relay/internal/apperror"
	"github.com/avanza-marketing/webhook-relay/internal/models"
	"github.com/avanza-marketing/webhook-relay/internal/payload"
)

// Event names sent by the provider. Registration arrives either as the plain
// "register" or the human-phrased "they register".
const (
	EventPing          = "ping"
	EventRegister      = "register"
	EventRegisterAlias = "they register"
)

// phoneFormatHint names the phone formats the provider is expected to send.
// Advisory only; the value itself is not pattern-checked.
const phoneFormatHint = "10 digits (e.g. 3528093144) or E.164 (e.g. +13528093144)"

// phoneFields are the candidate payload keys for a phone number, in priority order.
var phoneFields = []string{"phone", "sms_number", "phone_number"}

// requiredFields must be present and non-empty for a complete registration.
var requiredFields = []string{"email", "first_name", "last_name"}

// Result is the normalized outcome of a provider API call.
type Result struct {
	Success    bool
	Body       map[string]any
	StatusCode int
}

// Service verifies, validates and normalizes Stealth Seminar webhook payloads,
// and exposes the provider's registration/read API.
type Service struct {
	apiKey        string
	webhookSecret string
	baseURL       string
	client        *http.Client
	logger        *zap.Logger
}

// NewService creates a Stealth Seminar service from configuration.
func NewService(cfg config.StealthSeminarConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		apiKey:        cfg.APIKey,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		client:        &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
	}
}

// HasWebhookSecret reports whether a webhook secret is configured.
func (s *Service) HasWebhookSecret() bool { return s.webhookSecret != "" }

// VerifySignature checks that signature is the hex HMAC-SHA256 of body under
// the configured webhook secret. Returns false when either the secret or the
// signature is missing.
func (s *Service) VerifySignature(signature string, body []byte) bool {
	if s.webhookSecret == "" || signature == "" {
		s.logger.Warn("cannot verify signature: webhook secret or signature missing")
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ResolveEventType returns the lower-cased event names found at the top level
// and nested under "data". Either may be empty.
func ResolveEventType(data map[string]any) (top, nested string) {
	if v, ok := payload.String(data, "event"); ok {
		top = strings.ToLower(v)
	}
	if nestedObj, ok := payload.Object(data, "data"); ok {
		if v, ok := payload.String(nestedObj, "event"); ok {
			nested = strings.ToLower(v)
		}
	}
	return top, nested
}

// IsRegisterEvent reports whether event names a webinar registration.
func IsRegisterEvent(event string) bool {
	return event == EventRegister || event == EventRegisterAlias
}

// RegistrantData returns the object holding the registrant fields: the nested
// "data" object when present, otherwise the top-level payload itself.
func RegistrantData(data map[string]any) map[string]any {
	if nested, ok := payload.Object(data, "data"); ok {
		return nested
	}
	return data
}

// ExtractPhone resolves the registrant's phone number, trying phone,
// sms_number and phone_number in that order. First non-empty value wins.
func ExtractPhone(data map[string]any) (string, bool) {
	return payload.FirstNonEmpty(data, phoneFields...)
}

// ValidateRegistrationData checks that the registration carries every required
// field. The error names all missing fields, comma-joined, in declared order.
func (s *Service) ValidateRegistrationData(data map[string]any) error {
	var missing []string
	for _, field := range requiredFields {
		if v, ok := payload.String(data, field); !ok || v == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		err := apperror.NewValidation("missing required fields: " + strings.Join(missing, ", "))
		s.logger.Error("registration validation failed", zap.String("reason", err.Error()))
		return err
	}
	return nil
}

// BuildRegistrant extracts and validates the registrant fields from the raw
// webhook data and constructs the canonical record.
func (s *Service) BuildRegistrant(data map[string]any) (*models.Registrant, error) {
	phone, ok := ExtractPhone(data)
	if !ok {
		s.logger.Error("phone number not found in registration data")
		return nil, apperror.NewValidationWithHint("phone number not found in registration data", phoneFormatHint)
	}
	return models.NewRegistrant(data, phone)
}

// RegisterForWebinar registers a user for a webinar through the provider API.
// The registration data is validated before any network call.
func (s *Service) RegisterForWebinar(ctx context.Context, data map[string]any) Result {
	if s.apiKey == "" {
		s.logger.Error("cannot register: stealth seminar api key not configured")
		return Result{Body: map[string]any{"error": "API key not configured"}, StatusCode: http.StatusInternalServerError}
	}
	if err := s.ValidateRegistrationData(data); err != nil {
		return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusBadRequest}
	}

	webinarID, _ := payload.String(data, "webinar_id")
	email, _ := payload.String(data, "email")
	firstName, _ := payload.String(data, "first_name")
	lastName, _ := payload.String(data, "last_name")
	phone, _ := ExtractPhone(data)
	body := map[string]any{
		"api_key":    s.apiKey,
		"webinar_id": webinarID,
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
		"phone":      phone,
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/webinars/register", bytes.NewReader(encoded))
	if err != nil {
		return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, "register for webinar")
}

// GetWebinarDetails fetches a webinar by id from the provider API.
func (s *Service) GetWebinarDetails(ctx context.Context, webinarID string) Result {
	if s.apiKey == "" {
		s.logger.Error("cannot get webinar details: stealth seminar api key not configured")
		return Result{Body: map[string]any{"error": "API key not configured"}, StatusCode: http.StatusInternalServerError}
	}
	u := s.baseURL + "/webinars/" + url.PathEscape(webinarID) + "?api_key=" + url.QueryEscape(s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
	}
	return s.do(req, "get webinar details")
}

// do executes the request and folds the response into a Result. Transport and
// body-parse failures never escape; they become a 500 failure Result.
func (s *Service) do(req *http.Request, op string) Result {
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("stealth seminar request failed", zap.String("op", op), zap.Error(err))
		return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Error("stealth seminar response read failed", zap.String("op", op), zap.Error(err))
		return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
	}
	respBody := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &respBody); err != nil {
			s.logger.Error("stealth seminar response parse failed", zap.String("op", op), zap.Error(err))
			return Result{Body: map[string]any{"error": err.Error()}, StatusCode: http.StatusInternalServerError}
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Result{Success: true, Body: respBody, StatusCode: resp.StatusCode}
	}
	s.logger.Error("stealth seminar request rejected",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
	)
	return Result{Body: respBody, StatusCode: resp.StatusCode}
}
