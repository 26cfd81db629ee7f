// services/delivery_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DeliveryClient pushes composed notices back through the event
// gateway so the messaging surface can render them in the configured
// channel.
type DeliveryClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewDeliveryClient(baseURL, token string) *DeliveryClient {
	return &DeliveryClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *DeliveryClient) DeliverNotice(ctx context.Context, channelID string, notice WelcomeNotice) error {
	endpoint := fmt.Sprintf("%s/api/v1/channels/%s/messages", c.BaseURL, url.PathEscape(channelID))

	jsonData, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("build delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
