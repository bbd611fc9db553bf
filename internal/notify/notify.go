package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crm-backend/internal/config"
)

// Provider delivers a text digest to one recipient. The daily briefing
// scheduler is the only caller; interactive queries never send anything.
type Provider interface {
	Send(recipient, message string) error
	Name() string
}

// New builds the configured provider, or nil when notifications are disabled
func New(cfg *config.Config) Provider {
	if !cfg.Notify.Enabled {
		return nil
	}
	switch cfg.Notify.Provider {
	case "aisensy":
		return NewAiSensyProvider(cfg.Notify.APIKey, cfg.Notify.Template)
	default:
		return NewWebhookProvider(cfg.Notify.WebhookURL)
	}
}

// AiSensyProvider sends WhatsApp template messages through the AiSensy
// campaign API
type AiSensyProvider struct {
	apiKey   string
	template string
	baseURL  string
	client   *http.Client
}

func NewAiSensyProvider(apiKey, template string) *AiSensyProvider {
	return &AiSensyProvider{
		apiKey:   apiKey,
		template: template,
		baseURL:  "https://backend.aisensy.com/campaign/t1/api/v2",
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *AiSensyProvider) Send(recipient, message string) error {
	payload := map[string]interface{}{
		"apiKey":         p.apiKey,
		"campaignName":   p.template,
		"destination":    recipient,
		"userName":       "CRM",
		"templateParams": []string{message},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AiSensy API error: %s", string(body))
	}
	return nil
}

func (p *AiSensyProvider) Name() string { return "AiSensy" }

// WebhookProvider POSTs the digest as JSON to a configured URL, for Telegram
// bot bridges and similar relays
type WebhookProvider struct {
	url    string
	client *http.Client
}

func NewWebhookProvider(url string) *WebhookProvider {
	return &WebhookProvider{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *WebhookProvider) Send(recipient, message string) error {
	if p.url == "" {
		return fmt.Errorf("webhook URL not configured")
	}

	payload := map[string]string{
		"recipient": recipient,
		"message":   message,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := p.client.Post(p.url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook error: %s", string(body))
	}
	return nil
}

func (p *WebhookProvider) Name() string { return "Webhook" }
