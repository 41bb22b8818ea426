package payment_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
	"love-surprise-backend/internal/payment"
)

const secret = "whsec_test"

func signed(t *testing.T, payload string) ([]byte, string) {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return sp.Payload, sp.Header
}

func eventJSON(eventType, object string) string {
	return fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":"2023-10-16","type":%q,"data":{"object":%s}}`, eventType, object)
}

func TestParseWebhook(t *testing.T) {
	provider := payment.NewStripeProvider("sk_test", secret, zap.NewNop())
	surpriseID := uuid.New()

	tests := []struct {
		name      string
		eventType string
		object    string
		kind      payment.EventKind
		ref       string
	}{
		{
			name:      "payment intent succeeded",
			eventType: "payment_intent.succeeded",
			object:    fmt.Sprintf(`{"id":"pi_1","object":"payment_intent","metadata":{"surpriseId":%q}}`, surpriseID),
			kind:      payment.EventSucceeded,
			ref:       "pi_1",
		},
		{
			name:      "payment intent failed",
			eventType: "payment_intent.payment_failed",
			object:    fmt.Sprintf(`{"id":"pi_2","object":"payment_intent","metadata":{"surpriseId":%q}}`, surpriseID),
			kind:      payment.EventFailed,
			ref:       "pi_2",
		},
		{
			name:      "checkout session completed",
			eventType: "checkout.session.completed",
			object:    fmt.Sprintf(`{"id":"cs_1","object":"checkout.session","payment_intent":"pi_3","metadata":{"surpriseId":%q}}`, surpriseID),
			kind:      payment.EventSucceeded,
			ref:       "pi_3",
		},
		{
			name:      "missing metadata",
			eventType: "payment_intent.succeeded",
			object:    `{"id":"pi_4","object":"payment_intent","metadata":{}}`,
			kind:      payment.EventIgnored,
			ref:       "pi_4",
		},
		{
			name:      "unrelated event",
			eventType: "customer.created",
			object:    `{"id":"cus_1","object":"customer"}`,
			kind:      payment.EventIgnored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, header := signed(t, eventJSON(tt.eventType, tt.object))

			event, err := provider.ParseWebhook(body, header)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, event.Kind)
			assert.Equal(t, tt.ref, event.ProviderRef)
			if tt.kind != payment.EventIgnored {
				assert.Equal(t, surpriseID, event.SurpriseID)
			}
		})
	}
}

func TestParseWebhook_BadSignature(t *testing.T) {
	provider := payment.NewStripeProvider("sk_test", secret, zap.NewNop())
	body, _ := signed(t, eventJSON("payment_intent.succeeded", `{"id":"pi_1","object":"payment_intent"}`))

	_, err := provider.ParseWebhook(body, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}
