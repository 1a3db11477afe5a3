package gateway

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdao/subpay"
)

const memTestAddress = "0xAbCd000000000000000000000000000000001234"

func TestInMemoryGatewayLifecycle(t *testing.T) {
	g := NewInMemoryGateway()
	ctx := context.Background()

	status, err := g.CheckSubscription(ctx, memTestAddress)
	require.NoError(t, err)
	assert.False(t, status.Active)

	sub, err := g.CreateSubscription(ctx, memTestAddress, "pro", subpay.BillingQuarterly)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sub.ID, "sub_"))
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "pro", sub.PlanID)
	assert.True(t, sub.ExpiresAt.After(sub.CreatedAt))

	// Lookup is case-insensitive on the address.
	status, err = g.CheckSubscription(ctx, strings.ToLower(memTestAddress))
	require.NoError(t, err)
	assert.True(t, status.Active)
	require.NotNil(t, status.Subscription)
	assert.Equal(t, sub.ID, status.Subscription.ID)

	cancelled, err := g.CancelSubscription(ctx, memTestAddress)
	require.NoError(t, err)
	assert.True(t, cancelled)

	status, err = g.CheckSubscription(ctx, memTestAddress)
	require.NoError(t, err)
	assert.False(t, status.Active)

	// Cancelling again is a no-op.
	cancelled, err = g.CancelSubscription(ctx, memTestAddress)
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestInMemoryGatewayReplacesSubscription(t *testing.T) {
	g := NewInMemoryGateway()
	ctx := context.Background()

	first, err := g.CreateSubscription(ctx, memTestAddress, "basic", subpay.BillingMonthly)
	require.NoError(t, err)

	second, err := g.CreateSubscription(ctx, memTestAddress, "enterprise", subpay.BillingAnnually)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	status, err := g.CheckSubscription(ctx, memTestAddress)
	require.NoError(t, err)
	require.True(t, status.Active)
	assert.Equal(t, "enterprise", status.Subscription.PlanID)
}

func TestCycleDuration(t *testing.T) {
	assert.Greater(t, cycleDuration(subpay.BillingAnnually), cycleDuration(subpay.BillingQuarterly))
	assert.Greater(t, cycleDuration(subpay.BillingQuarterly), cycleDuration(subpay.BillingMonthly))
}
