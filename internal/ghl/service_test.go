package ghl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avanza-marketing/webhook-relay/config"
	"github.com/avanza-marketing/webhook-relay/internal/models"
)

func testRegistrant(t *testing.T) *models.Registrant {
	t.Helper()
	r, err := models.NewRegistrant(map[string]any{
		"email":        "a@b.com",
		"first_name":   "Ana",
		"last_name":    "Blanco",
		"webinar_id":   "w1",
		"webinar_name": "Launch",
	}, "3528093144")
	assert.NoError(t, err)
	return r
}

func TestSendWebinarRegistrationMissingConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.GHLConfig
	}{
		{name: "no webhook url", cfg: config.GHLConfig{APIKey: "k"}},
		{name: "no api key", cfg: config.GHLConfig{WebhookURL: "http://example.com"}},
		{name: "nothing configured", cfg: config.GHLConfig{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.cfg, nil)
			res := svc.SendWebinarRegistration(context.Background(), testRegistrant(t))
			assert.False(t, res.Success)
			assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
			assert.Equal(t, "GHL configuration missing", res.Body["error"])
		})
	}
}

func TestSendWebinarRegistrationSuccess(t *testing.T) {
	var gotBody map[string]any
	var gotAuth, gotContentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("X-Auth-Key")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"123"}`))
	}))
	defer ts.Close()

	svc := NewService(config.GHLConfig{
		WebhookURL:   ts.URL,
		APIKey:       "secret-key",
		TemplateName: "confirm_es",
	}, nil)
	res := svc.SendWebinarRegistration(context.Background(), testRegistrant(t))

	assert.True(t, res.Success)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "123", res.Body["id"])

	assert.Equal(t, "secret-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "3528093144", gotBody["phone"])
	assert.Equal(t, "a@b.com", gotBody["email"])
	assert.Equal(t, "Ana", gotBody["firstName"])
	assert.Equal(t, "Blanco", gotBody["lastName"])
	assert.Equal(t, []any{models.RegistrantTag}, gotBody["tags"])
	assert.Equal(t, map[string]any{
		"name":       "confirm_es",
		"language":   "es",
		"components": []any{},
	}, gotBody["template"])
	assert.Equal(t, map[string]any{
		"webinar_name": "Launch",
		"source":       models.SourceProvider,
	}, gotBody["custom_fields"])
}

func TestSendWebinarRegistrationEmptyResponseBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	svc := NewService(config.GHLConfig{WebhookURL: ts.URL, APIKey: "k"}, nil)
	res := svc.SendWebinarRegistration(context.Background(), testRegistrant(t))
	assert.True(t, res.Success)
	assert.Equal(t, http.StatusAccepted, res.StatusCode)
	assert.Equal(t, map[string]any{}, res.Body)
}

func TestSendWebinarRegistrationRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"down"}`))
	}))
	defer ts.Close()

	svc := NewService(config.GHLConfig{WebhookURL: ts.URL, APIKey: "k"}, nil)
	res := svc.SendWebinarRegistration(context.Background(), testRegistrant(t))
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, "down", res.Body["error"])
}

func TestSendWebinarRegistrationTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // refuse connections

	svc := NewService(config.GHLConfig{WebhookURL: ts.URL, APIKey: "k"}, nil)
	res := svc.SendWebinarRegistration(context.Background(), testRegistrant(t))
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.NotEmpty(t, res.Body["error"])
}

func TestSendWebinarRegistrationMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	svc := NewService(config.GHLConfig{WebhookURL: ts.URL, APIKey: "k"}, nil)
	res := svc.SendWebinarRegistration(context.Background(), testRegistrant(t))
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.NotEmpty(t, res.Body["error"])
}
