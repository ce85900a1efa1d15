package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/bistrokit/bistrokit/config"
)

// PaymentStatusPaid is the provider's settled state; anything else means the
// session must not produce an order.
const PaymentStatusPaid = "paid"

var ErrNotConfigured = errors.New("payment provider not configured")

// CheckoutRequest describes one hosted-checkout session to create.
type CheckoutRequest struct {
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	ProductName string            `json:"product_name"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata"`
}

// CheckoutSession is the provider's view of a session. Metadata round-trips
// verbatim so the success handler can rebuild the pending order from it.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

// CheckoutProvider creates and retrieves hosted-checkout sessions.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

// Client talks to the external checkout service over its JSON API.
type Client struct {
	baseURL   string
	secretKey string
	timeout   time.Duration
}

func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		timeout:   10 * time.Second,
	}
}

func (c *Client) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	var sess CheckoutSession
	var code int
	err := gout.POST(c.baseURL+"/checkout/sessions").
		WithContext(ctx).
		SetHeader(gout.H{"Authorization": "Bearer " + c.secretKey}).
		SetJSON(req).
		BindJSON(&sess).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "create checkout session")
	}
	if code >= 300 {
		return nil, errors.Errorf("create checkout session: provider returned %d", code)
	}
	return &sess, nil
}

func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	var sess CheckoutSession
	var code int
	err := gout.GET(fmt.Sprintf("%s/checkout/sessions/%s", c.baseURL, sessionID)).
		WithContext(ctx).
		SetHeader(gout.H{"Authorization": "Bearer " + c.secretKey}).
		BindJSON(&sess).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "retrieve checkout session")
	}
	if code >= 300 {
		return nil, errors.Errorf("retrieve checkout session: provider returned %d", code)
	}
	return &sess, nil
}
