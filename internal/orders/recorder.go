package orders

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Pu11en/peptide-website/internal/domain"
	"github.com/Pu11en/peptide-website/internal/pricing"
)

// Notifier is the fire-and-forget automation webhook capability.
type Notifier interface {
	Notify(payload any)
}

// EventPublisher emits order lifecycle events to the message broker.
type EventPublisher interface {
	PublishOrderCreated(order *domain.Order)
}

type RecordRequest struct {
	Email    string
	Items    []pricing.Request
	Metadata map[string]any
}

type RecordResult struct {
	OrderID    string
	TotalCents int64
	Status     domain.OrderStatus
	Persisted  bool
	UsingDB    bool
	// Duplicate is set when the payment reference was already recorded
	// and the existing order was returned instead of a new one.
	Duplicate bool
}

// Recorder creates the authoritative order record. It always re-resolves
// pricing; upstream totals are never trusted. Persistence failures
// downgrade to an unpersisted order because the payment has already
// succeeded and must not be reversed over a storage hiccup.
type Recorder struct {
	resolver  *pricing.Resolver
	repo      Repository
	notifier  Notifier
	publisher EventPublisher
}

func NewRecorder(resolver *pricing.Resolver, repo Repository, notifier Notifier, publisher EventPublisher) *Recorder {
	return &Recorder{
		resolver:  resolver,
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
	}
}

func (r *Recorder) Record(ctx context.Context, req *RecordRequest) (*RecordResult, error) {
	resolution, err := r.resolver.Resolve(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:         uuid.New(),
		Email:      req.Email,
		TotalCents: resolution.SubtotalCents,
		Status:     domain.OrderStatusPending,
		PaymentRef: paymentRef(req.Metadata),
		Items:      resolution.OrderItems(),
		CreatedAt:  time.Now().UTC(),
	}

	result := &RecordResult{
		OrderID:    order.ID.String(),
		TotalCents: order.TotalCents,
		Status:     order.Status,
		UsingDB:    resolution.FromDatabase,
	}

	if r.repo != nil {
		switch createErr := r.repo.CreateOrder(ctx, order); {
		case createErr == nil:
			result.Persisted = true
		case errors.Is(createErr, ErrDuplicatePaymentRef):
			existing, getErr := r.repo.GetOrderByPaymentRef(ctx, order.PaymentRef)
			if getErr != nil {
				log.Printf("duplicate payment ref %q but lookup failed: %v", order.PaymentRef, getErr)
				return result, nil
			}
			result.OrderID = existing.ID.String()
			result.TotalCents = existing.TotalCents
			result.Status = existing.Status
			result.Persisted = true
			result.Duplicate = true
			// Side effects already fired on the first delivery.
			return result, nil
		default:
			// Swallow and downgrade: the payment already went through.
			log.Printf("order persistence failed, continuing unpersisted: %v", createErr)
		}
	}

	if r.notifier != nil {
		r.notifier.Notify(map[string]any{
			"orderId":    result.OrderID,
			"email":      req.Email,
			"items":      req.Items,
			"totalCents": result.TotalCents,
			"status":     result.Status,
			"persisted":  result.Persisted,
			"metadata":   req.Metadata,
		})
	}
	if r.publisher != nil {
		r.publisher.PublishOrderCreated(order)
	}

	return result, nil
}

// paymentRef picks the dedup key out of webhook metadata: the payment
// intent id for embedded payment events, the session id for hosted
// checkout events.
func paymentRef(metadata map[string]any) string {
	for _, key := range []string{"paymentIntentId", "sessionId"} {
		if v, ok := metadata[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
