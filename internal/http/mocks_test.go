package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/Pu11en/peptide-website/internal/domain"
	"github.com/Pu11en/peptide-website/internal/orders"
	"github.com/Pu11en/peptide-website/internal/payments"
)

// gatewayMock lets each test script the provider calls it cares about.
type gatewayMock struct {
	createSessionFn func(ctx context.Context, input *payments.SessionInput) (*payments.Session, error)
	getSessionFn    func(ctx context.Context, id string) (*payments.Session, error)
	createIntentFn  func(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payments.Intent, error)
	verifyFn        func(payload []byte, signatureHeader string) (stripe.Event, error)

	lastSessionInput *payments.SessionInput
}

func (m *gatewayMock) CreateCheckoutSession(ctx context.Context, input *payments.SessionInput) (*payments.Session, error) {
	m.lastSessionInput = input
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, input)
	}
	return &payments.Session{ID: "cs_test_mock", URL: "https://checkout.example.com/cs_test_mock"}, nil
}

func (m *gatewayMock) GetCheckoutSession(ctx context.Context, id string) (*payments.Session, error) {
	if m.getSessionFn != nil {
		return m.getSessionFn(ctx, id)
	}
	return nil, errors.New("no session scripted")
}

func (m *gatewayMock) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	if m.createIntentFn != nil {
		return m.createIntentFn(ctx, amountCents, currency, metadata)
	}
	return &payments.Intent{ID: "pi_test_mock", ClientSecret: "pi_test_mock_secret"}, nil
}

func (m *gatewayMock) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	if m.verifyFn != nil {
		return m.verifyFn(payload, signatureHeader)
	}
	return stripe.Event{}, errors.New("no event scripted")
}

// orderRepoMock records created orders keyed by payment ref.
type orderRepoMock struct {
	mu        sync.Mutex
	byRef     map[string]*domain.Order
	createErr error
	creates   int
}

func newOrderRepoMock() *orderRepoMock {
	return &orderRepoMock{byRef: make(map[string]*domain.Order)}
}

func (m *orderRepoMock) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if order.PaymentRef != "" {
		if _, exists := m.byRef[order.PaymentRef]; exists {
			return orders.ErrDuplicatePaymentRef
		}
	}
	m.creates++
	m.byRef[order.PaymentRef] = order
	return nil
}

func (m *orderRepoMock) GetOrderByID(context.Context, uuid.UUID) (*domain.Order, error) {
	return nil, orders.ErrOrderNotFound
}

func (m *orderRepoMock) GetOrderByPaymentRef(_ context.Context, ref string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.byRef[ref]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return order, nil
}

func (m *orderRepoMock) Close() error { return nil }

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
