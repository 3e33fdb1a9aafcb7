package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/enrollment"
)

// mockBackend implements stripe.Backend for testing
type mockBackend struct {
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

func setupMockBackend(handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)) func() {
	mock := &mockBackend{handler: handler}
	stripe.SetBackend(stripe.APIBackend, mock)
	return func() {
		stripe.SetBackend(stripe.APIBackend, nil)
	}
}

func testStripeConfig() *StripeConfig {
	return &StripeConfig{
		SecretKey:     "sk_test_123456789",
		WebhookSecret: "whsec_test_123456789",
		Currency:      "USD",
	}
}

func testInitiateRequest(t *testing.T, planType catalog.PaymentPlanType) *enrollment.InitiatePaymentRequest {
	t.Helper()

	entityID := uuid.New()
	plan, err := catalog.NewPaymentPlan(uuid.New(), catalog.EntityTypeCourse, entityID, "Full access", planType, "USD")
	require.NoError(t, err)

	switch planType {
	case catalog.PaymentPlanTypeOneTime:
		require.NoError(t, plan.SetOneTimeAmount(decimal.NewFromInt(49)))
	case catalog.PaymentPlanTypeSubscription:
		require.NoError(t, plan.SetSubscriptionAmounts(decimal.NewFromInt(15), decimal.NewFromInt(150)))
	}

	return &enrollment.InitiatePaymentRequest{
		Metadata: enrollment.PaymentMetadata{
			MembershipID:    uuid.New(),
			InvoiceID:       uuid.New(),
			CurrencyISOCode: "USD",
			EntityID:        entityID,
		},
		Plan:    plan,
		Product: catalog.Product{ID: entityID, Title: "Go from scratch", Type: catalog.EntityTypeCourse},
		Origin:  "https://school.example.com",
	}
}

func TestNewStripeProcessor_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config *StripeConfig
	}{
		{name: "missing secret key", config: &StripeConfig{Currency: "USD"}},
		{name: "missing currency", config: &StripeConfig{SecretKey: "sk_test_123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor, err := NewStripeProcessor(tt.config, zap.NewNop())
			assert.Error(t, err)
			assert.Nil(t, processor)
		})
	}
}

func TestStripeProcessor_Name(t *testing.T) {
	processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "stripe", processor.Name())
	assert.Equal(t, "USD", processor.CurrencyISOCode())
}

func TestStripeProcessor_Initiate_Success(t *testing.T) {
	cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return json.Marshal(map[string]any{"id": "cs_test_abc123"})
	})
	defer cleanup()

	processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	tracker, err := processor.Initiate(context.Background(), testInitiateRequest(t, catalog.PaymentPlanTypeOneTime))

	require.NoError(t, err)
	assert.Equal(t, "cs_test_abc123", tracker)
}

func TestStripeProcessor_Initiate_BackendError(t *testing.T) {
	cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return nil, fmt.Errorf("connection refused")
	})
	defer cleanup()

	processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	tracker, err := processor.Initiate(context.Background(), testInitiateRequest(t, catalog.PaymentPlanTypeOneTime))

	assert.ErrorIs(t, err, enrollment.ErrProcessorRequestFailed)
	assert.Empty(t, tracker)
}

func TestStripeProcessor_Initiate_EmptySessionID(t *testing.T) {
	cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return json.Marshal(map[string]any{})
	})
	defer cleanup()

	processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	_, err = processor.Initiate(context.Background(), testInitiateRequest(t, catalog.PaymentPlanTypeOneTime))

	assert.ErrorIs(t, err, enrollment.ErrProcessorInvalidResponse)
}

func TestStripeProcessor_Initiate_InvalidRequest(t *testing.T) {
	processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	req := testInitiateRequest(t, catalog.PaymentPlanTypeOneTime)
	req.Metadata.InvoiceID = uuid.Nil

	_, err = processor.Initiate(context.Background(), req)
	assert.Error(t, err)
}

func TestStripeProcessor_BuildSessionParams_OneTime(t *testing.T) {
	processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	req := testInitiateRequest(t, catalog.PaymentPlanTypeOneTime)
	params := processor.buildSessionParams(req)

	assert.Equal(t, string(stripe.CheckoutSessionModePayment), *params.Mode)
	require.Len(t, params.LineItems, 1)
	priceData := params.LineItems[0].PriceData
	assert.Equal(t, "usd", *priceData.Currency)
	assert.Equal(t, int64(4900), *priceData.UnitAmount)
	assert.Nil(t, priceData.Recurring)
	assert.Equal(t, "Go from scratch", *priceData.ProductData.Name)
	assert.Equal(t, req.Metadata.InvoiceID.String(), params.Metadata["invoice_id"])
	assert.Equal(t, req.Metadata.MembershipID.String(), params.Metadata["membership_id"])
	assert.Equal(t, "COURSE", params.Metadata["entity_type"])
	assert.Equal(t, "https://school.example.com/payment/cancelled", *params.CancelURL)
}

func TestStripeProcessor_BuildSessionParams_Subscription(t *testing.T) {
	processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	req := testInitiateRequest(t, catalog.PaymentPlanTypeSubscription)
	params := processor.buildSessionParams(req)

	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), *params.Mode)
	require.Len(t, params.LineItems, 1)
	priceData := params.LineItems[0].PriceData
	assert.Equal(t, int64(1500), *priceData.UnitAmount)
	require.NotNil(t, priceData.Recurring)
	assert.Equal(t, "month", *priceData.Recurring.Interval)
}

func TestStripeProcessor_ValidateSubscription(t *testing.T) {
	tests := []struct {
		name   string
		status string
		valid  bool
	}{
		{name: "active", status: "active", valid: true},
		{name: "trialing", status: "trialing", valid: true},
		{name: "canceled", status: "canceled", valid: false},
		{name: "past due", status: "past_due", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
				return json.Marshal(map[string]any{"id": "sub_123", "status": tt.status})
			})
			defer cleanup()

			processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())
			require.NoError(t, err)

			valid, err := processor.ValidateSubscription(context.Background(), "sub_123")
			require.NoError(t, err)
			assert.Equal(t, tt.valid, valid)
		})
	}
}

func TestStripeProcessor_ValidateSubscription_EmptyID(t *testing.T) {
	processor, err := NewStripeProcessor(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	valid, err := processor.ValidateSubscription(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestNoopProcessor(t *testing.T) {
	processor := NewNoopProcessor("")

	assert.Equal(t, "noop", processor.Name())
	assert.Equal(t, "USD", processor.CurrencyISOCode())

	req := testInitiateRequest(t, catalog.PaymentPlanTypeOneTime)
	tracker, err := processor.Initiate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "noop_"+req.Metadata.InvoiceID.String(), tracker)

	// Same invoice yields the same tracker
	again, err := processor.Initiate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, tracker, again)

	valid, err := processor.ValidateSubscription(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestNoopProcessor_InvalidRequest(t *testing.T) {
	processor := NewNoopProcessor("EUR")

	req := testInitiateRequest(t, catalog.PaymentPlanTypeOneTime)
	req.Origin = ""

	_, err := processor.Initiate(context.Background(), req)
	assert.Error(t, err)
}
