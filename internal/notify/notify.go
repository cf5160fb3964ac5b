// Package notify tells interested views that approval data went stale.
//
// The usecases call a ChangeNotifier after every committed transition. Backends
// either drop cached aggregates (Redis) or publish a change event for remote
// consumers (Kafka, RabbitMQ).
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/model"
)

type Topic string

const (
	TopicProductApprovals Topic = "product-approvals"
	TopicVariantApprovals Topic = "variant-approvals"
	TopicApprovalStats    Topic = "approval-stats"
	TopicProductDetail    Topic = "product-detail"
)

// AllTopics is what a single approval transition invalidates.
var AllTopics = []Topic{
	TopicProductApprovals,
	TopicVariantApprovals,
	TopicApprovalStats,
	TopicProductDetail,
}

type Change struct {
	Topics     []Topic      `json:"topics"`
	ProductID  string       `json:"product_id,omitempty"`
	VariantIDs []string     `json:"variant_ids,omitempty"`
	Status     model.Status `json:"status"`
	ActorID    string       `json:"actor_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type ChangeNotifier interface {
	Notify(ctx context.Context, change Change) error
}

type Nop struct{}

func (Nop) Notify(context.Context, Change) error { return nil }

// Multi fans a change out to every notifier and joins their errors.
type Multi []ChangeNotifier

func (m Multi) Notify(ctx context.Context, change Change) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if c, ok := n.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// WithTimeout bounds every Notify call of n by d. A zero d leaves n as is.
func WithTimeout(n ChangeNotifier, d time.Duration) ChangeNotifier {
	if d <= 0 {
		return n
	}
	return timeoutNotifier{next: n, timeout: d}
}

type timeoutNotifier struct {
	next    ChangeNotifier
	timeout time.Duration
}

func (t timeoutNotifier) Notify(ctx context.Context, change Change) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Notify(ctx, change)
}

func (t timeoutNotifier) Close() error {
	if c, ok := t.next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
