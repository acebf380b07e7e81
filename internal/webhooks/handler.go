// Package webhooks exposes the HTTP boundary of the relay: it receives
// Stealth Seminar notifications, runs them through the normalizer and hands
// registrations to the GHL dispatcher.
package webhooks

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avanza-marketing/webhook-relay/internal/apperror"
	"github.com/avanza-marketing/webhook-relay/internal/ghl"
	"github.com/avanza-marketing/webhook-relay/internal/payload"
	"github.com/avanza-marketing/webhook-relay/internal/stealthseminar"
	"github.com/avanza-marketing/webhook-relay/pkg/response"
)

// SignatureHeader carries the provider's HMAC signature of the raw body.
const SignatureHeader = "X-Webhook-Signature"

// Handler handles webhook HTTP endpoints.
type Handler struct {
	stealth *stealthseminar.Service
	ghl     *ghl.Service
	logger  *zap.Logger
}

// NewHandler creates a webhooks handler with its collaborators injected.
func NewHandler(stealth *stealthseminar.Service, ghlSvc *ghl.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{stealth: stealth, ghl: ghlSvc, logger: logger}
}

// StealthSeminar handles POST /api/webhooks/stealth-seminar. Ping events echo
// their challenge, registrations are normalized and relayed to GHL, and any
// other event is acknowledged with a warning so the provider does not retry.
func (h *Handler) StealthSeminar(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("stealth seminar webhook panicked", zap.Any("panic", r))
			response.Internal(c, "internal server error", fmt.Sprint(r))
		}
	}()

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "unable to read request body")
		return
	}

	// Signature check only runs when both sides opt in: a configured secret
	// and a signature header. Deployments without a secret stay permissive.
	if sig := c.GetHeader(SignatureHeader); sig != "" && h.stealth.HasWebhookSecret() {
		if !h.stealth.VerifySignature(sig, raw) {
			err := apperror.NewAuthentication("invalid webhook signature")
			h.logger.Warn("webhook rejected", zap.Error(err), zap.String("client_ip", c.ClientIP()))
			response.Unauthorized(c, err.Error())
			return
		}
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		h.logger.Error("invalid webhook body", zap.Error(err))
		response.BadRequest(c, "JSON data required")
		return
	}
	if len(data) == 0 {
		response.BadRequest(c, "no data received")
		return
	}

	top, nested := stealthseminar.ResolveEventType(data)
	h.logger.Debug("webhook event received", zap.String("event", top), zap.String("nested_event", nested))

	switch {
	case top == stealthseminar.EventPing || nested == stealthseminar.EventPing:
		h.handlePing(c, data)
	case stealthseminar.IsRegisterEvent(top) || stealthseminar.IsRegisterEvent(nested):
		h.handleRegistration(c, data)
	default:
		h.logger.Warn("unhandled webhook event", zap.String("event", top), zap.String("nested_event", nested))
		response.Warning(c, fmt.Sprintf("event %q (%q) not handled", top, nested))
	}
}

// handlePing echoes the challenge back verbatim. The provider's endpoint
// verification expects the bare token, not a JSON envelope.
func (h *Handler) handlePing(c *gin.Context, data map[string]any) {
	challenge, ok := payload.String(data, "challenge")
	if !ok || challenge == "" {
		response.BadRequest(c, "challenge not found in ping payload")
		return
	}
	response.Challenge(c, challenge)
}

func (h *Handler) handleRegistration(c *gin.Context, data map[string]any) {
	registrant, err := h.stealth.BuildRegistrant(stealthseminar.RegistrantData(data))
	if err != nil {
		h.logger.Error("failed to build registrant", zap.Error(err))
		if ve, ok := apperror.AsValidation(err); ok && ve.Hint != "" {
			response.BadRequestWith(c, ve.Message, gin.H{"required_format": ve.Hint})
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	res := h.ghl.SendWebinarRegistration(c.Request.Context(), registrant)
	if !res.Success {
		h.logger.Error("registration relay failed",
			zap.Int("status", res.StatusCode),
			zap.String("email", registrant.Email),
		)
		response.Error(c, res.StatusCode, "failed to send registration to GHL", res.Body)
		return
	}

	h.logger.Info("registration relayed",
		zap.String("email", registrant.Email),
		zap.String("event_id", registrant.EventID.String()),
	)
	response.Success(c, "registration processed", gin.H{
		"ghl_response": res.Body,
		"contact":      registrant.Phone,
	})
}

// Test handles GET /api/webhooks/test, a static liveness acknowledgment.
func (h *Handler) Test(c *gin.Context) {
	response.Success(c, "Webhook service is running", nil)
}
