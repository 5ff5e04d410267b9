// Package billing upgrades teams to premium through a payment gateway.
package billing

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

//go:generate mockgen -destination=mocks_test.go -package=billing . Gateway

// ChargeRequest is one charge submitted to the gateway
type ChargeRequest struct {
	Source         string
	Amount         int64
	Currency       string
	IdempotencyKey string
}

// ChargeResult is the gateway's answer to a charge
type ChargeResult struct {
	ID     string
	Paid   bool
	Status string
}

// Gateway charges payment sources
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// StripeGateway charges through the Stripe charges API
type StripeGateway struct {
	client charge.Client
}

// NewStripeGateway creates a gateway for a secret key
func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{client: charge.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}}
}

// Charge creates a Stripe charge. The idempotency key makes a retried
// request return the original charge instead of charging twice.
func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
	}
	if err := params.SetSource(req.Source); err != nil {
		return nil, err
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	params.Context = ctx

	ch, err := g.client.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return nil, errors.New(stripeErr.Msg)
		}
		return nil, err
	}
	return &ChargeResult{ID: ch.ID, Paid: ch.Paid, Status: string(ch.Status)}, nil
}
