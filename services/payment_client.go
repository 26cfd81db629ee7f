// services/payment_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// TransferResult is the outcome of a single card transfer attempt.
// Failures carry a reason for logging; the client never retries, so a
// caller that wants at-most-once semantics gets them for free.
type TransferResult struct {
	Success bool
	Reason  string
}

type PaymentClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewPaymentClient(baseURL, token string) *PaymentClient {
	return &PaymentClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type transferRequest struct {
	CardCode string      `json:"cardCode"`
	ToID     string      `json:"toId"`
	Amount   json.Number `json:"amount"`
}

// Transfer performs exactly one call to the payment service. Anything
// other than a 2xx response carrying {"success": true} is a failure:
// non-2xx status, malformed body, network error, timeout.
func (c *PaymentClient) Transfer(ctx context.Context, cardCode, toID string, amount decimal.Decimal) TransferResult {
	url := fmt.Sprintf("%s/api/transfer/card", c.BaseURL)

	jsonData, err := json.Marshal(transferRequest{
		CardCode: cardCode,
		ToID:     toID,
		Amount:   json.Number(amount.StringFixed(WorthScale)),
	})
	if err != nil {
		return TransferResult{Reason: fmt.Sprintf("encode transfer request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return TransferResult{Reason: fmt.Sprintf("build transfer request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return TransferResult{Reason: fmt.Sprintf("call payment service: %v", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return TransferResult{Reason: fmt.Sprintf("payment service returned %d: %s", resp.StatusCode, string(body))}
	}

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return TransferResult{Reason: fmt.Sprintf("decode payment response: %v", err)}
	}
	if !out.Success {
		reason := out.Message
		if reason == "" {
			reason = "payment service reported success=false"
		}
		return TransferResult{Reason: reason}
	}

	return TransferResult{Success: true}
}
