package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mikepea/teamhome/pkg/teamhome/apperr"
	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"github.com/mikepea/teamhome/pkg/teamhome/store"
	"go.uber.org/zap"
)

// DefaultCurrency is charged when none is configured
const DefaultCurrency = "usd"

// Teams is the part of the team repository billing needs
type Teams interface {
	FindByID(ctx context.Context, id uint) (*models.Team, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Team, error)
}

// Charges persists charge intents
type Charges interface {
	FindByKey(ctx context.Context, key string) (*models.PremiumCharge, error)
	Insert(ctx context.Context, charge *models.PremiumCharge) error
	Save(ctx context.Context, charge *models.PremiumCharge) error
}

// UpgradeInput is a premium upgrade request
type UpgradeInput struct {
	Source string
	Amount int64
	// IdempotencyKey identifies the upgrade across client retries. A random
	// key is used when empty.
	IdempotencyKey string
}

// Service runs premium upgrades
type Service struct {
	teams    Teams
	charges  Charges
	gateway  Gateway
	currency string
	logger   *zap.Logger
}

// NewService creates a new billing service
func NewService(teams Teams, charges Charges, gateway Gateway, currency string, logger *zap.Logger) *Service {
	if currency == "" {
		currency = DefaultCurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{teams: teams, charges: charges, gateway: gateway, currency: currency, logger: logger}
}

func paymentError(err error) *apperr.Error {
	return apperr.Wrap(apperr.PaymentError, "payment error", err)
}

func teamMissing() *apperr.Error {
	return apperr.New(apperr.NotFound, "Team doesn't exist")
}

// UpgradeToPremium charges the source and marks the team premium. The team
// is verified before any charge, and a pending intent is recorded under the
// idempotency key before the gateway is called. The premium flag is never
// set unless the charge succeeded.
func (s *Service) UpgradeToPremium(ctx context.Context, teamID, userID uint, in UpgradeInput) (*models.Team, error) {
	if in.Source == "" {
		return nil, apperr.New(apperr.InvalidInput, "A payment source is required.")
	}
	if in.Amount <= 0 {
		return nil, apperr.New(apperr.InvalidInput, "The charge amount must be positive.")
	}

	team, err := s.teams.FindByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, teamMissing()
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load team", err)
	}

	key := in.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	intent, err := s.charges.FindByKey(ctx, key)
	switch {
	case err == nil:
		return s.replay(ctx, team, intent)
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperr.Wrap(apperr.Internal, "Failed to load charge", err)
	}

	intent = &models.PremiumCharge{
		TeamID:         teamID,
		UserID:         userID,
		IdempotencyKey: key,
		Amount:         in.Amount,
		Currency:       s.currency,
		Status:         models.ChargePending,
	}
	if err := s.charges.Insert(ctx, intent); err != nil {
		// most likely a concurrent request with the same key
		return nil, apperr.Wrap(apperr.Conflict, "A charge with this key is already in progress.", err)
	}

	result, err := s.gateway.Charge(ctx, ChargeRequest{
		Source:         in.Source,
		Amount:         in.Amount,
		Currency:       s.currency,
		IdempotencyKey: key,
	})
	if err == nil && !result.Paid {
		err = fmt.Errorf("charge %s not paid: %s", result.ID, result.Status)
	}
	if err != nil {
		intent.Status = models.ChargeFailed
		intent.FailureReason = err.Error()
		s.save(ctx, intent)
		s.logger.Warn("premium charge failed",
			zap.Uint("team_id", teamID),
			zap.String("idempotency_key", key),
			zap.Error(err))
		return nil, paymentError(err)
	}

	intent.Status = models.ChargeSucceeded
	intent.GatewayChargeID = result.ID
	s.save(ctx, intent)

	return s.applyPremium(ctx, intent)
}

// replay answers a repeated request without charging again
func (s *Service) replay(ctx context.Context, team *models.Team, intent *models.PremiumCharge) (*models.Team, error) {
	if intent.TeamID != team.ID {
		return nil, apperr.New(apperr.Conflict, "The idempotency key was used for another team.")
	}
	switch intent.Status {
	case models.ChargeSucceeded:
		if team.Premium {
			return team, nil
		}
		return s.applyPremium(ctx, intent)
	case models.ChargeFailed:
		return nil, paymentError(errors.New(intent.FailureReason))
	case models.ChargeOrphaned:
		// the team this key paid for was deleted mid-charge
		return nil, teamMissing()
	default:
		return nil, apperr.New(apperr.Conflict, "A charge with this key is already in progress.")
	}
}

func (s *Service) applyPremium(ctx context.Context, intent *models.PremiumCharge) (*models.Team, error) {
	team, err := s.teams.Update(ctx, intent.TeamID, map[string]interface{}{"premium": true})
	if errors.Is(err, store.ErrNotFound) {
		intent.Status = models.ChargeOrphaned
		s.save(ctx, intent)
		s.logger.Error("premium charge captured for a deleted team, refund required",
			zap.Uint("team_id", intent.TeamID),
			zap.String("gateway_charge_id", intent.GatewayChargeID),
			zap.Int64("amount", intent.Amount))
		return nil, teamMissing()
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to update team", err)
	}

	s.logger.Info("team upgraded to premium",
		zap.Uint("team_id", team.ID),
		zap.String("gateway_charge_id", intent.GatewayChargeID))
	return team, nil
}

// save persists intent progress. The outcome must be stored even when the
// request context is already done.
func (s *Service) save(ctx context.Context, intent *models.PremiumCharge) {
	if err := s.charges.Save(context.WithoutCancel(ctx), intent); err != nil {
		s.logger.Error("failed to record charge outcome",
			zap.Uint("team_id", intent.TeamID),
			zap.String("idempotency_key", intent.IdempotencyKey),
			zap.String("status", string(intent.Status)),
			zap.Error(err))
	}
}
