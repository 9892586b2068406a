package shopify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartfaq-shopify-layer/internal/domain"
)

const activeSubscriptionsQuery = `query appSubscriptions {
  currentAppInstallation {
    activeSubscriptions {
      name
      test
      status
    }
  }
}`

const createSubscriptionMutation = `mutation appSubscriptionCreate($name: String!, $returnUrl: URL!, $test: Boolean, $lineItems: [AppSubscriptionLineItemInput!]!) {
  appSubscriptionCreate(name: $name, returnUrl: $returnUrl, test: $test, lineItems: $lineItems) {
    confirmationUrl
    userErrors {
      field
      message
    }
  }
}`

type activeSubscriptionsResponse struct {
	CurrentAppInstallation struct {
		ActiveSubscriptions []struct {
			Name   string `json:"name"`
			Test   bool   `json:"test"`
			Status string `json:"status"`
		} `json:"activeSubscriptions"`
	} `json:"currentAppInstallation"`
}

type createSubscriptionResponse struct {
	AppSubscriptionCreate struct {
		ConfirmationURL string `json:"confirmationUrl"`
		UserErrors      []struct {
			Field   []string `json:"field"`
			Message string   `json:"message"`
		} `json:"userErrors"`
	} `json:"appSubscriptionCreate"`
}

// HasActiveBilling reports whether the shop holds an active subscription named after the plan.
// Test subscriptions only count when the plan itself is in test mode.
func (p *Platform) HasActiveBilling(ctx context.Context, session *domain.Session, plan domain.BillingPlan) (bool, error) {
	client, err := p.restClient(session)
	if err != nil {
		return false, err
	}

	var resp activeSubscriptionsResponse
	if err := client.GraphQL.Query(ctx, activeSubscriptionsQuery, nil, &resp); err != nil {
		return false, p.upstreamError("POST", "graphql.json", session, err)
	}

	for _, sub := range resp.CurrentAppInstallation.ActiveSubscriptions {
		if sub.Name != plan.Name || !strings.EqualFold(sub.Status, "ACTIVE") {
			continue
		}
		if sub.Test && !plan.Test {
			continue
		}
		return true, nil
	}
	return false, nil
}

// RequestBilling creates a recurring subscription for the plan and returns the merchant confirmation URL
func (p *Platform) RequestBilling(ctx context.Context, session *domain.Session, plan domain.BillingPlan, returnURL string) (string, error) {
	client, err := p.restClient(session)
	if err != nil {
		return "", err
	}

	vars := map[string]interface{}{
		"name":      plan.Name,
		"returnUrl": returnURL,
		"test":      plan.Test,
		"lineItems": []interface{}{
			map[string]interface{}{
				"plan": map[string]interface{}{
					"appRecurringPricingDetails": map[string]interface{}{
						"interval": plan.Interval,
						"price": map[string]interface{}{
							"amount":       plan.Amount,
							"currencyCode": plan.CurrencyCode,
						},
					},
				},
			},
		},
	}

	var resp createSubscriptionResponse
	if err := client.GraphQL.Query(ctx, createSubscriptionMutation, vars, &resp); err != nil {
		return "", p.upstreamError("POST", "graphql.json", session, err)
	}

	result := resp.AppSubscriptionCreate
	if len(result.UserErrors) > 0 {
		messages := make([]string, 0, len(result.UserErrors))
		for _, e := range result.UserErrors {
			messages = append(messages, e.Message)
		}
		return "", fmt.Errorf("subscription rejected: %s", strings.Join(messages, "; "))
	}
	if result.ConfirmationURL == "" {
		return "", errors.Join(domain.ErrInvalidUpstreamResponse, errors.New("subscription created without confirmation URL"))
	}
	return result.ConfirmationURL, nil
}
