package services

import (
	"encoding/json"
	"fmt"

	"github.com/RobinJoby/food-surplus-platform/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
)

// PushService sends APNs alerts to users that registered a device token.
// It is inert when no certificate is configured.
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates a push service from config. A missing cert path
// yields a disabled service, not an error.
func NewPushService(cfg config.APNsConfig) (*PushService, error) {
	if cfg.CertPath == "" {
		return &PushService{}, nil
	}

	cert, err := certificate.FromP12File(cfg.CertPath, cfg.CertPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushService{client: client, topic: cfg.Topic}, nil
}

// Enabled reports whether pushes will actually be sent
func (s *PushService) Enabled() bool {
	return s.client != nil
}

type apsAlert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type apsPayload struct {
	APS struct {
		Alert apsAlert `json:"alert"`
		Sound string   `json:"sound"`
	} `json:"aps"`
}

// Send delivers an alert push to a device token. Failures are logged, not
// returned: push delivery is best effort on top of stored notifications.
func (s *PushService) Send(deviceToken, title, message string) {
	if !s.Enabled() || deviceToken == "" {
		return
	}

	var payload apsPayload
	payload.APS.Alert = apsAlert{Title: title, Body: message}
	payload.APS.Sound = "default"

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal push payload")
		return
	}

	res, err := s.client.Push(&apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     data,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send push")
		return
	}
	if !res.Sent() {
		log.Warn().Int("status", res.StatusCode).Str("reason", res.Reason).Msg("Push rejected")
	}
}
