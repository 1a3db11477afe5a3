package gateway

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentdao/subpay"
)

// InMemoryGateway is a subscription gateway backed by a process-local
// map. Suitable for simulation mode and tests; state does not survive
// restarts and is not shared across instances.
type InMemoryGateway struct {
	mu            sync.Mutex
	subscriptions map[string]*subpay.Subscription
}

var _ subpay.SubscriptionGateway = (*InMemoryGateway)(nil)

// NewInMemoryGateway creates an empty in-memory gateway.
func NewInMemoryGateway() *InMemoryGateway {
	return &InMemoryGateway{
		subscriptions: make(map[string]*subpay.Subscription),
	}
}

// CreateSubscription records a subscription, replacing any existing one
// for the address.
func (g *InMemoryGateway) CreateSubscription(_ context.Context, userAddress, planID string, cycle subpay.BillingCycle) (*subpay.Subscription, error) {
	now := time.Now().UTC()
	sub := &subpay.Subscription{
		ID:           "sub_" + uuid.NewString(),
		UserAddress:  userAddress,
		PlanID:       planID,
		BillingCycle: cycle,
		Status:       "active",
		CreatedAt:    now,
		ExpiresAt:    now.Add(cycleDuration(cycle)),
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscriptions[strings.ToLower(userAddress)] = sub

	return sub, nil
}

// CheckSubscription returns the subscription state for an address.
func (g *InMemoryGateway) CheckSubscription(_ context.Context, userAddress string) (*subpay.SubscriptionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sub, ok := g.subscriptions[strings.ToLower(userAddress)]
	if !ok || sub.Status != "active" {
		return &subpay.SubscriptionStatus{Active: false}, nil
	}
	copied := *sub
	return &subpay.SubscriptionStatus{Active: true, Subscription: &copied}, nil
}

// CancelSubscription marks the subscription cancelled. Returns false
// when no active subscription exists for the address.
func (g *InMemoryGateway) CancelSubscription(_ context.Context, userAddress string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sub, ok := g.subscriptions[strings.ToLower(userAddress)]
	if !ok || sub.Status != "active" {
		return false, nil
	}
	sub.Status = "cancelled"
	return true, nil
}

func cycleDuration(cycle subpay.BillingCycle) time.Duration {
	const day = 24 * time.Hour
	switch cycle {
	case subpay.BillingQuarterly:
		return 90 * day
	case subpay.BillingAnnually:
		return 365 * day
	default:
		return 30 * day
	}
}
