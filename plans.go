package subpay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// PlanPrice is the price of one billing cycle, with the discount applied
// relative to paying month by month.
type PlanPrice struct {
	Price    float64 `json:"price"`
	Discount int     `json:"discount"`
}

// PlanBilling carries the billing metadata for a plan.
type PlanBilling struct {
	DefaultPeriod     BillingCycle `json:"defaultPeriod"`
	AllowPeriodChange bool         `json:"allowPeriodChange"`
	ProrationEnabled  bool         `json:"prorationEnabled"`
	TrialDays         int          `json:"trialDays,omitempty"`
	GracePeriodDays   int          `json:"gracePeriodDays,omitempty"`
}

// SubscriptionPlan is static configuration describing one plan tier.
// Every plan must price all three billing cycles; the catalog enforces
// this at construction.
type SubscriptionPlan struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Features    []string                   `json:"features"`
	Pricing     map[BillingCycle]PlanPrice `json:"pricing"`
	Billing     PlanBilling                `json:"billing"`
}

// planSchema is the structural invariant for the plan catalog: every
// plan prices monthly, quarterly and annually with a non-negative price.
const planSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["id", "name", "pricing"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string", "minLength": 1},
      "pricing": {
        "type": "object",
        "required": ["monthly", "quarterly", "annually"],
        "additionalProperties": false,
        "properties": {
          "monthly": {"$ref": "#/definitions/price"},
          "quarterly": {"$ref": "#/definitions/price"},
          "annually": {"$ref": "#/definitions/price"}
        }
      }
    }
  },
  "definitions": {
    "price": {
      "type": "object",
      "required": ["price"],
      "properties": {
        "price": {"type": "number", "minimum": 0},
        "discount": {"type": "integer", "minimum": 0, "maximum": 100}
      }
    }
  }
}`

// PlanCatalog is the immutable set of plans a processor sells.
type PlanCatalog struct {
	plans map[string]SubscriptionPlan
	order []string
}

// NewPlanCatalog validates the plans against the catalog schema and
// returns an indexed catalog.
func NewPlanCatalog(plans []SubscriptionPlan) (*PlanCatalog, error) {
	doc, err := json.Marshal(plans)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plans: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(planSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate plan catalog: %w", err)
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, fmt.Errorf("invalid plan catalog: %s", strings.Join(reasons, "; "))
	}

	catalog := &PlanCatalog{plans: make(map[string]SubscriptionPlan, len(plans))}
	for _, p := range plans {
		if _, exists := catalog.plans[p.ID]; exists {
			return nil, fmt.Errorf("duplicate plan id: %s", p.ID)
		}
		catalog.plans[p.ID] = p
		catalog.order = append(catalog.order, p.ID)
	}
	return catalog, nil
}

// Plan returns the plan for the given id.
func (c *PlanCatalog) Plan(id string) (SubscriptionPlan, bool) {
	p, ok := c.plans[id]
	return p, ok
}

// Plans returns all plans in declaration order.
func (c *PlanCatalog) Plans() []SubscriptionPlan {
	out := make([]SubscriptionPlan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}

// Price returns the price entry for a plan and billing cycle.
func (c *PlanCatalog) Price(planID string, cycle BillingCycle) (PlanPrice, bool) {
	p, ok := c.plans[planID]
	if !ok {
		return PlanPrice{}, false
	}
	price, ok := p.Pricing[cycle]
	return price, ok
}

// DefaultPlans returns the standard three-tier catalog.
func DefaultPlans() []SubscriptionPlan {
	return []SubscriptionPlan{
		{
			ID:          "basic",
			Name:        "Basic Plan",
			Description: "Essential features for individuals",
			Features:    []string{"chat", "basic_analytics", "email_support"},
			Pricing: map[BillingCycle]PlanPrice{
				BillingMonthly:   {Price: 100, Discount: 0},
				BillingQuarterly: {Price: 270, Discount: 10},
				BillingAnnually:  {Price: 960, Discount: 20},
			},
			Billing: PlanBilling{
				DefaultPeriod:     BillingMonthly,
				AllowPeriodChange: true,
				ProrationEnabled:  true,
				TrialDays:         7,
				GracePeriodDays:   3,
			},
		},
		{
			ID:          "pro",
			Name:        "Pro Plan",
			Description: "Advanced features for teams",
			Features:    []string{"chat", "advanced_analytics", "priority_support", "api_access"},
			Pricing: map[BillingCycle]PlanPrice{
				BillingMonthly:   {Price: 500, Discount: 0},
				BillingQuarterly: {Price: 1350, Discount: 10},
				BillingAnnually:  {Price: 4800, Discount: 20},
			},
			Billing: PlanBilling{
				DefaultPeriod:     BillingMonthly,
				AllowPeriodChange: true,
				ProrationEnabled:  true,
				TrialDays:         7,
				GracePeriodDays:   3,
			},
		},
		{
			ID:          "enterprise",
			Name:        "Enterprise Plan",
			Description: "Custom solutions for large organizations",
			Features:    []string{"chat", "enterprise_analytics", "dedicated_support", "custom_integrations"},
			Pricing: map[BillingCycle]PlanPrice{
				BillingMonthly:   {Price: 2000, Discount: 0},
				BillingQuarterly: {Price: 5400, Discount: 10},
				BillingAnnually:  {Price: 19200, Discount: 20},
			},
			Billing: PlanBilling{
				DefaultPeriod:     BillingMonthly,
				AllowPeriodChange: true,
				ProrationEnabled:  true,
				TrialDays:         7,
				GracePeriodDays:   3,
			},
		},
	}
}
