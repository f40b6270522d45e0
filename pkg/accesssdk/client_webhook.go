package accesssdk

import (
	"bytes"
	"context"
	"net/http"

	"github.com/truenorthhq/truenorth/pkg/cryptox"
)

// BillingSignatureHeader carries the hex HMAC-SHA256 of the raw webhook payload.
const BillingSignatureHeader = "X-Billing-Signature"

// PostBillingWebhook delivers a billing provider event to the access service.
// The signature must be the hex HMAC-SHA256 of the exact payload bytes, keyed
// with the shared webhook secret. Real deliveries come from the billing
// provider; this method exists for integration tests and local simulators.
func (c *SDKClient) PostBillingWebhook(
	ctx context.Context,
	payload []byte,
	signature string,
) (*WebhookReceipt, error) {
	headers := map[string]string{
		"Content-Type":         "application/json",
		BillingSignatureHeader: signature,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/billing/webhook", bytes.NewReader(payload), headers)
	if err != nil {
		return nil, err
	}

	var receipt WebhookReceipt
	if err := decodeJSON(resp, &receipt, http.StatusOK); err != nil {
		return nil, err
	}

	return &receipt, nil
}

// SignBillingWebhook computes the signature PostBillingWebhook expects for a
// payload, keyed with the shared webhook secret.
func SignBillingWebhook(secret string, payload []byte) string {
	return cryptox.SignHMAC(secret, payload)
}
