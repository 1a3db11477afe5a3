package subpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlanCatalog(t *testing.T) {
	catalog, err := NewPlanCatalog(DefaultPlans())
	require.NoError(t, err)

	assert.Len(t, catalog.Plans(), 3)

	basic, ok := catalog.Plan("basic")
	require.True(t, ok)
	assert.Equal(t, "Basic Plan", basic.Name)

	price, ok := catalog.Price("basic", BillingMonthly)
	require.True(t, ok)
	assert.Equal(t, float64(100), price.Price)

	price, ok = catalog.Price("enterprise", BillingAnnually)
	require.True(t, ok)
	assert.Equal(t, float64(19200), price.Price)
	assert.Equal(t, 20, price.Discount)

	_, ok = catalog.Plan("platinum")
	assert.False(t, ok)
}

func TestPlanCatalogOrder(t *testing.T) {
	catalog, err := NewPlanCatalog(DefaultPlans())
	require.NoError(t, err)

	ids := make([]string, 0, 3)
	for _, p := range catalog.Plans() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"basic", "pro", "enterprise"}, ids)
}

func TestPlanCatalogRejectsIncompletePricing(t *testing.T) {
	plans := []SubscriptionPlan{
		{
			ID:   "partial",
			Name: "Partial",
			Pricing: map[BillingCycle]PlanPrice{
				BillingMonthly: {Price: 10},
			},
		},
	}
	_, err := NewPlanCatalog(plans)
	assert.Error(t, err)
}

func TestPlanCatalogRejectsNegativePrice(t *testing.T) {
	plans := DefaultPlans()
	plans[0].Pricing[BillingMonthly] = PlanPrice{Price: -1}
	_, err := NewPlanCatalog(plans)
	assert.Error(t, err)
}

func TestPlanCatalogRejectsDuplicateIDs(t *testing.T) {
	plans := append(DefaultPlans(), DefaultPlans()[0])
	_, err := NewPlanCatalog(plans)
	assert.Error(t, err)
}

func TestPlanCatalogRejectsEmpty(t *testing.T) {
	_, err := NewPlanCatalog(nil)
	assert.Error(t, err)
}
