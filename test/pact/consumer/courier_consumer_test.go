//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/courier-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type shipmentPayload struct {
	ShipmentID   string  `json:"shipmentId"`
	Status       string  `json:"status"`
	SenderName   string  `json:"senderName"`
	ReceiverName string  `json:"receiverName"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Cost         float64 `json:"cost"`
	DriverName   string  `json:"driverName"`
}

type createdPayload struct {
	Message  string          `json:"message"`
	Shipment shipmentPayload `json:"shipment"`
}

type ratePayload struct {
	BaseAmount float64 `json:"baseAmount"`
	Divisor    float64 `json:"divisor"`
	Rate       float64 `json:"rate"`
	ETA        string  `json:"eta"`
}

type pricingPayload struct {
	Economy ratePayload `json:"economy"`
	Express ratePayload `json:"express"`
	Satchel struct {
		A4 float64 `json:"a4"`
		A3 float64 `json:"a3"`
	} `json:"satchel"`
	UpdatedAt string `json:"updatedAt"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestAdminPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	booking := pacttest.ExampleLegacyShipment()
	shipmentMatcher := matchers.Map{
		"shipmentId":   matchers.Term(pacttest.ExistingShipmentID, `^SHP\d{3,}$`),
		"status":       matchers.Term("Pending", "Pending|Shipping|Delivered"),
		"senderName":   matchers.Like(booking["senderName"]),
		"receiverName": matchers.Like(booking["receiverName"]),
		"start":        matchers.Like(booking["start"]),
		"end":          matchers.Like(booking["end"]),
		"cost":         matchers.Like(150.0),
		"driverName":   matchers.Like("Unassigned"),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateShipmentsBaseline).
		UponReceiving("a request to book a shipment").
		WithRequest("POST", "/api/shipments", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(booking)
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message":  matchers.S("Shipment created successfully"),
				"shipment": shipmentMatcher,
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateShipmentExists).
		UponReceiving("a request to fetch an existing shipment").
		WithRequest("GET", "/api/shipments/"+pacttest.ExistingShipmentID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(shipmentMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateShipmentMissing).
		UponReceiving("a request for a missing shipment").
		WithRequest("GET", "/api/shipments/"+pacttest.MissingShipmentID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StatePricing).
		UponReceiving("a request for the tariff").
		WithRequest("GET", "/api/pricing").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			rate := matchers.Map{
				"baseAmount": matchers.Like(20.0),
				"divisor":    matchers.Like(5000.0),
				"rate":       matchers.Like(1.2),
				"eta":        matchers.Like("1-4 days"),
			}
			b.JSONBody(matchers.Map{
				"economy":   rate,
				"express":   rate,
				"satchel":   matchers.Map{"a4": matchers.Like(90.0), "a3": matchers.Like(110.0)},
				"updatedAt": matchers.Like("2024-05-01T08:00:00Z"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newCourierClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.BookShipment(ctx, booking)
		if err != nil {
			return fmt.Errorf("book shipment: %w", err)
		}
		if created.Shipment.ShipmentID == "" {
			return fmt.Errorf("expected shipment id to be set")
		}

		fetched, err := client.GetShipment(ctx, pacttest.ExistingShipmentID)
		if err != nil {
			return fmt.Errorf("get shipment: %w", err)
		}
		if fetched.ShipmentID != pacttest.ExistingShipmentID {
			return fmt.Errorf("expected shipment %s, got %+v", pacttest.ExistingShipmentID, fetched)
		}

		if _, err := client.GetShipment(ctx, pacttest.MissingShipmentID); err == nil {
			return fmt.Errorf("expected 404 for shipment %s", pacttest.MissingShipmentID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		pricing, err := client.Pricing(ctx)
		if err != nil {
			return fmt.Errorf("get pricing: %w", err)
		}
		if pricing.Economy.Divisor <= 0 || pricing.Express.Divisor <= 0 {
			return fmt.Errorf("expected positive volumetric divisors")
		}
		return nil
	})
	require.NoError(t, err)
}

type courierClient struct {
	baseURL    string
	httpClient *http.Client
}

func newCourierClient(config pactconsumer.MockServerConfig) *courierClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &courierClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *courierClient) BookShipment(ctx context.Context, booking map[string]any) (*createdPayload, error) {
	body, err := json.Marshal(booking)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/shipments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out createdPayload
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *courierClient) GetShipment(ctx context.Context, id string) (*shipmentPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/shipments/"+id, nil)
	if err != nil {
		return nil, err
	}
	var out shipmentPayload
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *courierClient) Pricing(ctx context.Context) (*pricingPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/pricing", nil)
	if err != nil {
		return nil, err
	}
	var out pricingPayload
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *courierClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
