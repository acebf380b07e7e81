package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avanza-marketing/webhook-relay/internal/apperror"
	"github.com/avanza-marketing/webhook-relay/internal/payload"
)

// SourceProvider marks where a registrant originated; stamped into every
// record's custom fields.
const SourceProvider = "stealth_seminar"

// RegistrantTag is the fixed tag every relayed registrant carries.
const RegistrantTag = "webinar_registrant"

// Registrant is the canonical record of one webinar sign-up event. It lives
// for a single request cycle and is immutable after construction.
type Registrant struct {
	EventID          uuid.UUID         `json:"event_id"`
	Email            string            `json:"email"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Phone            string            `json:"phone"`
	WebinarID        string            `json:"webinar_id"`
	RegistrationDate time.Time         `json:"registration_date"`
	IPAddress        string            `json:"ip_address,omitempty"`
	CustomFields     map[string]string `json:"custom_fields"`
	Tags             []string          `json:"tags"`
}

// NewRegistrant builds a Registrant from raw webhook fields and an already
// resolved phone number. The registration date is always assigned here, never
// taken from the untrusted payload.
func NewRegistrant(data map[string]any, phone string) (*Registrant, error) {
	if phone == "" {
		return nil, apperror.NewValidation("phone number is required")
	}
	email, _ := payload.String(data, "email")
	firstName, _ := payload.String(data, "first_name")
	lastName, _ := payload.String(data, "last_name")
	webinarID, _ := payload.String(data, "webinar_id")
	webinarName, _ := payload.String(data, "webinar_name")
	ipAddress, _ := payload.String(data, "ip_address")

	return &Registrant{
		EventID:          uuid.New(),
		Email:            email,
		FirstName:        firstName,
		LastName:         lastName,
		Phone:            phone,
		WebinarID:        webinarID,
		RegistrationDate: time.Now().UTC(),
		IPAddress:        ipAddress,
		Tags:             []string{RegistrantTag},
		CustomFields: map[string]string{
			"webinar_name": webinarName,
			"source":       SourceProvider,
		},
	}, nil
}

// WirePayload returns the outbound body fields for the GHL webhook. The
// template descriptor is assembled here so the dispatcher only supplies the
// configured template name.
func (r *Registrant) WirePayload(templateName string) map[string]any {
	return map[string]any{
		"phone":     r.Phone,
		"email":     r.Email,
		"firstName": r.FirstName,
		"lastName":  r.LastName,
		"tags":      r.Tags,
		"template": map[string]any{
			"name":       templateName,
			"language":   "es",
			"components": []any{},
		},
		"custom_fields": r.CustomFields,
	}
}
