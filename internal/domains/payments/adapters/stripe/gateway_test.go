package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v79"

	"github.com/Apurer/courier-api/internal/domains/payments/domain"
	"github.com/Apurer/courier-api/internal/domains/payments/ports"
)

type recordedCall struct {
	path string
	form map[string]string
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	backend := stripego.GetBackendWithConfig(stripego.APIBackend, &stripego.BackendConfig{
		URL:               stripego.String(srv.URL),
		MaxNetworkRetries: stripego.Int64(0),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelNull},
	})
	return NewGateway("sk_test_123", "pk_test_456", &stripego.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestCreateIntent(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		versions := r.Header.Values("Stripe-Version")
		form := map[string]string{}
		if len(versions) > 0 {
			form["Stripe-Version"] = versions[len(versions)-1]
		}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		mu.Lock()
		calls = append(calls, recordedCall{path: r.URL.Path, form: form})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/customers":
			_, _ = w.Write([]byte(`{"id":"cus_123","object":"customer"}`))
		case "/v1/ephemeral_keys":
			_, _ = w.Write([]byte(`{"id":"ephkey_1","object":"ephemeral_key","secret":"ek_test_secret"}`))
		case "/v1/payment_intents":
			_, _ = w.Write([]byte(`{"id":"pi_1","object":"payment_intent","client_secret":"pi_1_secret_abc"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	intent, err := gw.CreateIntent(context.Background(), 49950, "")
	require.NoError(t, err)
	assert.Equal(t, &domain.GatewayIntent{
		PaymentIntent:  "pi_1_secret_abc",
		EphemeralKey:   "ek_test_secret",
		Customer:       "cus_123",
		PublishableKey: "pk_test_456",
	}, intent)

	require.Len(t, calls, 3)
	assert.Equal(t, "/v1/customers", calls[0].path)
	assert.Equal(t, "/v1/ephemeral_keys", calls[1].path)
	assert.Equal(t, "cus_123", calls[1].form["customer"])
	assert.Equal(t, EphemeralKeyVersion, calls[1].form["Stripe-Version"])
	assert.Equal(t, "/v1/payment_intents", calls[2].path)
	assert.Equal(t, "49950", calls[2].form["amount"])
	assert.Equal(t, "inr", calls[2].form["currency"])
	assert.Equal(t, "true", calls[2].form["automatic_payment_methods[enabled]"])
}

func TestCreateIntentProviderFailure(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
	})

	_, err := gw.CreateIntent(context.Background(), 100, "usd")
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrProvider)
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestCreateIntentRejectsNonPositiveAmount(t *testing.T) {
	gw := NewGateway("sk_test", "pk_test", nil)
	_, err := gw.CreateIntent(context.Background(), 0, "inr")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}
