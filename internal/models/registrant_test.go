package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRegistrant(t *testing.T) {
	data := map[string]any{
		"email":        "a@b.com",
		"first_name":   "Ana",
		"last_name":    "Blanco",
		"webinar_id":   "w1",
		"webinar_name": "Launch",
		"ip_address":   "10.0.0.1",
		// provider-supplied timestamps must be ignored
		"registration_date": "1999-01-01T00:00:00Z",
	}

	before := time.Now().UTC()
	r, err := NewRegistrant(data, "3528093144")
	assert.NoError(t, err)

	assert.Equal(t, "a@b.com", r.Email)
	assert.Equal(t, "Ana", r.FirstName)
	assert.Equal(t, "Blanco", r.LastName)
	assert.Equal(t, "3528093144", r.Phone)
	assert.Equal(t, "w1", r.WebinarID)
	assert.Equal(t, "10.0.0.1", r.IPAddress)
	assert.NotEqual(t, "", r.EventID.String())
	assert.Equal(t, []string{RegistrantTag}, r.Tags)
	assert.Equal(t, map[string]string{
		"webinar_name": "Launch",
		"source":       SourceProvider,
	}, r.CustomFields)
	assert.False(t, r.RegistrationDate.Before(before))
	assert.False(t, r.RegistrationDate.After(time.Now().UTC()))
}

func TestNewRegistrantMissingFieldsDefaultEmpty(t *testing.T) {
	r, err := NewRegistrant(map[string]any{}, "+13528093144")
	assert.NoError(t, err)
	assert.Equal(t, "", r.Email)
	assert.Equal(t, "", r.FirstName)
	assert.Equal(t, "", r.LastName)
	assert.Equal(t, "", r.WebinarID)
	assert.Equal(t, "", r.CustomFields["webinar_name"])
	assert.Equal(t, SourceProvider, r.CustomFields["source"])
}

func TestNewRegistrantRequiresPhone(t *testing.T) {
	r, err := NewRegistrant(map[string]any{"email": "a@b.com"}, "")
	assert.Error(t, err)
	assert.Nil(t, r)
}

func TestWirePayload(t *testing.T) {
	r, err := NewRegistrant(map[string]any{
		"email":        "a@b.com",
		"first_name":   "Ana",
		"last_name":    "Blanco",
		"webinar_name": "Launch",
	}, "3528093144")
	assert.NoError(t, err)

	p := r.WirePayload("confirm_es")
	assert.Equal(t, "3528093144", p["phone"])
	assert.Equal(t, "a@b.com", p["email"])
	assert.Equal(t, "Ana", p["firstName"])
	assert.Equal(t, "Blanco", p["lastName"])
	assert.Equal(t, []string{RegistrantTag}, p["tags"])
	assert.Equal(t, map[string]any{
		"name":       "confirm_es",
		"language":   "es",
		"components": []any{},
	}, p["template"])
	assert.Equal(t, r.CustomFields, p["custom_fields"])

	// conversion is deterministic for a given record
	assert.Equal(t, p, r.WirePayload("confirm_es"))
}
