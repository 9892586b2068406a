package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartfaq-shopify-layer/internal/domain"
)

// rewriteTransport sends every request to the test server, keeping path and query
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// fakeAdmin is a minimal Admin API answering graphql.json with canned bodies
type fakeAdmin struct {
	mu           sync.Mutex
	requests     []graphQLRequest
	subscription string
	mutation     string
}

func (f *fakeAdmin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/admin/api/2024-10/graphql.json" || r.Header.Get("X-Shopify-Access-Token") != "shpat_1" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if strings.Contains(req.Query, "appSubscriptionCreate") {
		_, _ = w.Write([]byte(f.mutation))
		return
	}
	_, _ = w.Write([]byte(f.subscription))
}

func newAdminPlatform(t *testing.T, handler http.Handler) *Platform {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	p, _ := newTestPlatform(t)
	p.httpClient = &http.Client{Transport: rewriteTransport{target: target}}
	return p
}

func adminSession() *domain.Session {
	return &domain.Session{ID: domain.OfflineSessionID(testShop), Shop: testShop, AccessToken: "shpat_1"}
}

func TestHasActiveBilling(t *testing.T) {
	plan := domain.DefaultBillingPlan()
	testPlan := plan
	testPlan.Test = true

	tests := []struct {
		name          string
		subscriptions string
		plan          domain.BillingPlan
		want          bool
	}{
		{
			name:          "active subscription for plan",
			subscriptions: `[{"name":"SmartFAQ.AI Monthly","test":false,"status":"ACTIVE"}]`,
			plan:          plan,
			want:          true,
		},
		{
			name:          "other plan",
			subscriptions: `[{"name":"Legacy","test":false,"status":"ACTIVE"}]`,
			plan:          plan,
		},
		{
			name:          "pending subscription",
			subscriptions: `[{"name":"SmartFAQ.AI Monthly","test":false,"status":"PENDING"}]`,
			plan:          plan,
		},
		{
			name:          "test subscription on live plan",
			subscriptions: `[{"name":"SmartFAQ.AI Monthly","test":true,"status":"ACTIVE"}]`,
			plan:          plan,
		},
		{
			name:          "test subscription on test plan",
			subscriptions: `[{"name":"SmartFAQ.AI Monthly","test":true,"status":"ACTIVE"}]`,
			plan:          testPlan,
			want:          true,
		},
		{
			name:          "no subscriptions",
			subscriptions: `[]`,
			plan:          plan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := &fakeAdmin{
				subscription: `{"data":{"currentAppInstallation":{"activeSubscriptions":` + tt.subscriptions + `}}}`,
			}
			p := newAdminPlatform(t, admin)

			got, err := p.HasActiveBilling(context.Background(), adminSession(), tt.plan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.Len(t, admin.requests, 1)
			assert.Contains(t, admin.requests[0].Query, "activeSubscriptions")
		})
	}
}

func TestHasActiveBillingGraphQLError(t *testing.T) {
	admin := &fakeAdmin{subscription: `{"errors":[{"message":"Access denied for currentAppInstallation"}]}`}
	p := newAdminPlatform(t, admin)

	_, err := p.HasActiveBilling(context.Background(), adminSession(), domain.DefaultBillingPlan())
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "shopify admin", upstream.Service)
}

func TestRequestBilling(t *testing.T) {
	tests := []struct {
		name     string
		mutation string
		wantURL  string
		wantErr  string
		errIs    error
	}{
		{
			name:     "confirmation url returned",
			mutation: `{"data":{"appSubscriptionCreate":{"confirmationUrl":"https://demo.myshopify.com/admin/charges/1/confirm","userErrors":[]}}}`,
			wantURL:  "https://demo.myshopify.com/admin/charges/1/confirm",
		},
		{
			name:     "user errors",
			mutation: `{"data":{"appSubscriptionCreate":{"confirmationUrl":null,"userErrors":[{"field":["returnUrl"],"message":"Return url is invalid"}]}}}`,
			wantErr:  "Return url is invalid",
		},
		{
			name:     "missing confirmation url",
			mutation: `{"data":{"appSubscriptionCreate":{"confirmationUrl":"","userErrors":[]}}}`,
			errIs:    domain.ErrInvalidUpstreamResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := &fakeAdmin{mutation: tt.mutation}
			p := newAdminPlatform(t, admin)

			got, err := p.RequestBilling(context.Background(), adminSession(), domain.DefaultBillingPlan(), "https://faq.example.com/?shop=demo.myshopify.com")
			switch {
			case tt.wantErr != "":
				assert.ErrorContains(t, err, tt.wantErr)
			case tt.errIs != nil:
				assert.ErrorIs(t, err, tt.errIs)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantURL, got)
			}

			require.Len(t, admin.requests, 1)
			vars := admin.requests[0].Variables
			assert.Equal(t, "SmartFAQ.AI Monthly", vars["name"])
			assert.Equal(t, "https://faq.example.com/?shop=demo.myshopify.com", vars["returnUrl"])
			assert.Equal(t, false, vars["test"])

			lineItems, ok := vars["lineItems"].([]interface{})
			require.True(t, ok)
			require.Len(t, lineItems, 1)
			pricing := lineItems[0].(map[string]interface{})["plan"].(map[string]interface{})["appRecurringPricingDetails"].(map[string]interface{})
			assert.Equal(t, domain.BillingIntervalEvery30Days, pricing["interval"])
			price := pricing["price"].(map[string]interface{})
			assert.Equal(t, "9.99", price["amount"])
			assert.Equal(t, "USD", price["currencyCode"])
		})
	}
}

func TestAdminRESTCalls(t *testing.T) {
	var gotPath, gotQuery, gotMethod string
	var gotBody map[string]interface{}
	p := newAdminPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		if r.Method == http.MethodPut {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"id":42,"title":"Mug"}]}`))
	}))
	ctx := context.Background()

	var resp struct {
		Products []domain.Product `json:"products"`
	}
	options := struct {
		Fields string `url:"fields"`
	}{Fields: "id,title"}
	require.NoError(t, p.Get(ctx, adminSession(), "products.json", options, &resp))
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/admin/api/2024-10/products.json", gotPath)
	assert.Equal(t, "fields=id%2Ctitle", gotQuery)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Mug", resp.Products[0].Title)

	body := map[string]string{"value": "[]"}
	require.NoError(t, p.Put(ctx, adminSession(), "products/42/metafields.json", body, nil))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/admin/api/2024-10/products/42/metafields.json", gotPath)
	assert.Equal(t, "[]", gotBody["value"])
}

func TestAdminRESTErrorStatus(t *testing.T) {
	p := newAdminPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"value":["is invalid"]}}`))
	}))

	err := p.Put(context.Background(), adminSession(), "products/42/metafields.json", map[string]string{"value": "x"}, nil)
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnprocessableEntity, upstream.StatusCode)
}
