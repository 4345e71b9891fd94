// FILE: internal/service/payment_notification.go
package service

import "strings"

// PaymentNotification is the canonical form of a gateway callback. Provider
// payloads vary in shape, so every channel funnels through one normalizer
// instead of each handler guessing at keys.
type PaymentNotification struct {
	InvoiceNumber string
	Success       bool
	Failed        bool
	Status        string

	// Gateway-reported identifiers, stored on completion when present.
	GatewayOrderId       string
	GatewayTransactionId string
	PaymentMethod        string
}

var invoiceKeys = []string{"invoice_number", "invoice", "inv", "order_id"}

// NormalizePaymentNotification extracts the invoice number and payment
// outcome from a raw payload. The second return is false when no invoice
// number can be found under any known key; such payloads are unprocessable
// and must be acknowledged without side effects.
func NormalizePaymentNotification(payload map[string]interface{}) (*PaymentNotification, bool) {
	if payload == nil {
		return nil, false
	}

	// A nested "order" object takes priority over top-level keys.
	scopes := []map[string]interface{}{}
	if order, ok := payload["order"].(map[string]interface{}); ok {
		scopes = append(scopes, order)
	}
	scopes = append(scopes, payload)

	invoice := ""
	for _, scope := range scopes {
		for _, key := range invoiceKeys {
			if v, ok := stringField(scope, key); ok && v != "" {
				invoice = v
				break
			}
		}
		if invoice != "" {
			break
		}
	}
	if invoice == "" {
		return nil, false
	}

	result := &PaymentNotification{InvoiceNumber: invoice}

	for _, scope := range scopes {
		if t, ok := stringField(scope, "notification_type"); ok && strings.EqualFold(t, "order paid") {
			result.Success = true
		}
		if t, ok := stringField(scope, "type"); ok && strings.EqualFold(t, "order paid") {
			result.Success = true
		}
		for _, key := range []string{"status", "transaction_status", "payment_status"} {
			if s, ok := stringField(scope, key); ok && s != "" {
				if result.Status == "" {
					result.Status = s
				}
				switch strings.ToLower(s) {
				case "paid", "settlement", "capture", "success":
					result.Success = true
				case "deny", "denied", "cancel", "cancelled", "expire", "expired", "failure", "failed":
					result.Failed = true
				}
			}
		}
	}

	for _, scope := range scopes {
		if result.GatewayOrderId == "" {
			if v, ok := stringField(scope, "order_id"); ok && v != "" {
				result.GatewayOrderId = v
			}
		}
		if result.GatewayTransactionId == "" {
			if v, ok := stringField(scope, "transaction_id"); ok && v != "" {
				result.GatewayTransactionId = v
			}
		}
		for _, key := range []string{"payment_type", "payment_method"} {
			if result.PaymentMethod != "" {
				break
			}
			if v, ok := stringField(scope, key); ok && v != "" {
				result.PaymentMethod = v
			}
		}
	}

	// Success wins when a payload carries contradictory hints.
	if result.Success {
		result.Failed = false
	}

	return result, true
}

func stringField(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}
