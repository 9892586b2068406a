package application

import (
	"context"
	"net/http"

	"smartfaq-shopify-layer/internal/domain"
)

type stubPlatform struct {
	beginCalls int
	authURL    string
	beginErr   error

	completeSession *domain.Session
	completeErr     error

	session    *domain.Session
	sessionErr error

	active        bool
	activeErr     error
	activeChecks  int
	confirmation  string
	requestErr    error
	requestedWith []string

	getPath    string
	getOptions interface{}
	getBody    string
	getErr     error

	putPaths  []string
	putBodies []interface{}
	putErr    error
}

func (s *stubPlatform) BeginAuth(w http.ResponseWriter, r *http.Request, shop string) (string, error) {
	s.beginCalls++
	return s.authURL, s.beginErr
}

func (s *stubPlatform) CompleteAuth(w http.ResponseWriter, r *http.Request) (*domain.Session, error) {
	return s.completeSession, s.completeErr
}

func (s *stubPlatform) GetSession(r *http.Request) (*domain.Session, error) {
	return s.session, s.sessionErr
}

func (s *stubPlatform) RequestBilling(ctx context.Context, session *domain.Session, plan domain.BillingPlan, returnURL string) (string, error) {
	s.requestedWith = append(s.requestedWith, returnURL)
	return s.confirmation, s.requestErr
}

func (s *stubPlatform) HasActiveBilling(ctx context.Context, session *domain.Session, plan domain.BillingPlan) (bool, error) {
	s.activeChecks++
	return s.active, s.activeErr
}

func (s *stubPlatform) Get(ctx context.Context, session *domain.Session, path string, options interface{}, resource interface{}) error {
	s.getPath = path
	s.getOptions = options
	if s.getErr != nil {
		return s.getErr
	}
	return jsonInto(s.getBody, resource)
}

func (s *stubPlatform) Put(ctx context.Context, session *domain.Session, path string, body interface{}, resource interface{}) error {
	s.putPaths = append(s.putPaths, path)
	s.putBodies = append(s.putBodies, body)
	return s.putErr
}

func (s *stubPlatform) VerifyWebhook(r *http.Request) bool {
	return true
}

type stubCompletion struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubCompletion) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}
