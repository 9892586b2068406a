package domain

import "github.com/shopspring/decimal"

// Recurring billing intervals accepted by Shopify
const (
	BillingIntervalEvery30Days = "EVERY_30_DAYS"
	BillingIntervalAnnual      = "ANNUAL"
)

// BillingPlan describes the recurring subscription a shop must hold to use the app
type BillingPlan struct {
	Name         string
	Amount       decimal.Decimal
	CurrencyCode string
	Interval     string
	Required     bool
	Test         bool
}

// DefaultBillingPlan is the SmartFAQ.AI monthly plan
func DefaultBillingPlan() BillingPlan {
	return BillingPlan{
		Name:         "SmartFAQ.AI Monthly",
		Amount:       decimal.RequireFromString("9.99"),
		CurrencyCode: "USD",
		Interval:     BillingIntervalEvery30Days,
		Required:     true,
	}
}
