package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/mikepea/teamhome/pkg/teamhome/apperr"
	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"github.com/mikepea/teamhome/pkg/teamhome/store"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func setupService(t *testing.T) (*gorm.DB, *store.Repositories, *MockGateway, *Service, models.Team) {
	db := setupTestDB(t)
	repos := store.New(db)

	user := models.User{Email: "admin@example.com", FirstName: "Test", LastName: "Admin"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	team := models.Team{Name: "Test Team", Members: []models.TeamMember{{UserID: user.ID, Admin: true}}}
	if err := repos.Teams.Insert(context.Background(), &team); err != nil {
		t.Fatalf("Failed to create test team: %v", err)
	}

	ctrl := gomock.NewController(t)
	gateway := NewMockGateway(ctrl)
	svc := NewService(repos.Teams, repos.Charges, gateway, "", zap.NewNop())
	return db, repos, gateway, svc, team
}

func TestUpgradeSuccess(t *testing.T) {
	_, repos, gateway, svc, team := setupService(t)

	gateway.EXPECT().Charge(gomock.Any(), ChargeRequest{
		Source:         "tok_visa",
		Amount:         999,
		Currency:       "usd",
		IdempotencyKey: "upgrade-1",
	}).Return(&ChargeResult{ID: "ch_123", Paid: true, Status: "succeeded"}, nil)

	updated, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, UpgradeInput{
		Source:         "tok_visa",
		Amount:         999,
		IdempotencyKey: "upgrade-1",
	})
	if err != nil {
		t.Fatalf("UpgradeToPremium failed: %v", err)
	}
	if !updated.Premium {
		t.Error("Expected team to be premium")
	}
	if len(updated.Members) != 1 {
		t.Errorf("Expected roster returned with team, got %d members", len(updated.Members))
	}

	intent, err := repos.Charges.FindByKey(context.Background(), "upgrade-1")
	if err != nil {
		t.Fatalf("FindByKey failed: %v", err)
	}
	if intent.Status != models.ChargeSucceeded || intent.GatewayChargeID != "ch_123" {
		t.Errorf("Expected succeeded intent, got %+v", intent)
	}
}

func TestUpgradeGatewayFailure(t *testing.T) {
	_, repos, gateway, svc, team := setupService(t)

	gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(nil, errors.New("Your card was declined."))

	_, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, UpgradeInput{
		Source:         "tok_chargeDeclined",
		Amount:         999,
		IdempotencyKey: "upgrade-1",
	})
	if !apperr.Is(err, apperr.PaymentError) {
		t.Fatalf("Expected PaymentError, got %v", err)
	}

	found, _ := repos.Teams.FindByID(context.Background(), team.ID)
	if found.Premium {
		t.Error("Expected premium unchanged after failed charge")
	}
	intent, _ := repos.Charges.FindByKey(context.Background(), "upgrade-1")
	if intent.Status != models.ChargeFailed || intent.FailureReason == "" {
		t.Errorf("Expected failed intent, got %+v", intent)
	}
}

func TestUpgradeUnpaidCharge(t *testing.T) {
	_, repos, gateway, svc, team := setupService(t)

	gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(&ChargeResult{ID: "ch_1", Paid: false, Status: "failed"}, nil)

	_, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, UpgradeInput{Source: "tok_visa", Amount: 999})
	if !apperr.Is(err, apperr.PaymentError) {
		t.Fatalf("Expected PaymentError, got %v", err)
	}
	found, _ := repos.Teams.FindByID(context.Background(), team.ID)
	if found.Premium {
		t.Error("Expected premium unchanged for unpaid charge")
	}
}

func TestUpgradeMissingTeamNeverCharges(t *testing.T) {
	_, _, _, svc, _ := setupService(t)
	// no gateway expectations: a charge fails the test

	_, err := svc.UpgradeToPremium(context.Background(), 404, 1, UpgradeInput{Source: "tok_visa", Amount: 999})
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("Expected NotFound, got %v", err)
	}
}

func TestUpgradeValidation(t *testing.T) {
	_, _, _, svc, team := setupService(t)

	tests := []struct {
		name  string
		input UpgradeInput
	}{
		{"missing source", UpgradeInput{Amount: 999}},
		{"zero amount", UpgradeInput{Source: "tok_visa"}},
		{"negative amount", UpgradeInput{Source: "tok_visa", Amount: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, tt.input)
			if !apperr.Is(err, apperr.InvalidInput) {
				t.Errorf("Expected InvalidInput, got %v", err)
			}
		})
	}
}

func TestUpgradeReplaySkipsGateway(t *testing.T) {
	_, _, gateway, svc, team := setupService(t)

	gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).
		Return(&ChargeResult{ID: "ch_123", Paid: true}, nil).
		Times(1)

	in := UpgradeInput{Source: "tok_visa", Amount: 999, IdempotencyKey: "retry-me"}
	if _, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, in); err != nil {
		t.Fatalf("First upgrade failed: %v", err)
	}
	updated, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, in)
	if err != nil {
		t.Fatalf("Replayed upgrade failed: %v", err)
	}
	if !updated.Premium {
		t.Error("Expected replay to return the premium team")
	}
}

func TestUpgradeReplayOfFailedCharge(t *testing.T) {
	_, _, gateway, svc, team := setupService(t)

	gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(nil, errors.New("declined")).Times(1)

	in := UpgradeInput{Source: "tok_visa", Amount: 999, IdempotencyKey: "declined-key"}
	svc.UpgradeToPremium(context.Background(), team.ID, 1, in)
	if _, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, in); !apperr.Is(err, apperr.PaymentError) {
		t.Errorf("Expected PaymentError on replay, got %v", err)
	}
}

func TestUpgradeKeyReusedForOtherTeam(t *testing.T) {
	db, repos, gateway, svc, team := setupService(t)

	var admin models.User
	db.First(&admin)
	other := models.Team{Name: "Other", Members: []models.TeamMember{{UserID: admin.ID, Admin: true}}}
	if err := repos.Teams.Insert(context.Background(), &other); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(&ChargeResult{ID: "ch_1", Paid: true}, nil).Times(1)

	in := UpgradeInput{Source: "tok_visa", Amount: 999, IdempotencyKey: "shared"}
	if _, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, in); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}
	if _, err := svc.UpgradeToPremium(context.Background(), other.ID, 1, in); !apperr.Is(err, apperr.Conflict) {
		t.Errorf("Expected Conflict, got %v", err)
	}
}

func TestUpgradeTeamDeletedDuringCharge(t *testing.T) {
	_, repos, gateway, svc, team := setupService(t)

	gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ ChargeRequest) (*ChargeResult, error) {
			if _, err := repos.Teams.DeleteByID(ctx, team.ID); err != nil {
				t.Fatalf("DeleteByID failed: %v", err)
			}
			return &ChargeResult{ID: "ch_gone", Paid: true}, nil
		})

	_, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, UpgradeInput{
		Source:         "tok_visa",
		Amount:         999,
		IdempotencyKey: "orphan",
	})
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("Expected NotFound, got %v", err)
	}

	intent, _ := repos.Charges.FindByKey(context.Background(), "orphan")
	if intent.Status != models.ChargeOrphaned || intent.GatewayChargeID != "ch_gone" {
		t.Errorf("Expected orphaned intent with charge id, got %+v", intent)
	}
}

func TestUpgradeReplayOfOrphanedCharge(t *testing.T) {
	db, _, gateway, svc, team := setupService(t)

	// a captured charge whose team vanished; a team now holds the same id
	orphan := models.PremiumCharge{
		TeamID:          team.ID,
		UserID:          1,
		IdempotencyKey:  "orphaned-key",
		Amount:          999,
		Currency:        "usd",
		Status:          models.ChargeOrphaned,
		GatewayChargeID: "ch_gone",
	}
	if err := db.Create(&orphan).Error; err != nil {
		t.Fatalf("Failed to seed charge: %v", err)
	}
	gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, UpgradeInput{
		Source:         "tok_visa",
		Amount:         999,
		IdempotencyKey: "orphaned-key",
	})
	if !apperr.Is(err, apperr.NotFound) {
		t.Errorf("Expected NotFound on replay, got %v", err)
	}

	var reloaded models.Team
	db.First(&reloaded, team.ID)
	if reloaded.Premium {
		t.Error("Expected team to stay on the free tier")
	}
}

func TestUpgradeGeneratesIdempotencyKey(t *testing.T) {
	_, _, gateway, svc, team := setupService(t)

	gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
			if req.IdempotencyKey == "" {
				t.Error("Expected a generated idempotency key")
			}
			if req.Currency != DefaultCurrency {
				t.Errorf("Expected currency %s, got %s", DefaultCurrency, req.Currency)
			}
			return &ChargeResult{ID: "ch_1", Paid: true}, nil
		})

	if _, err := svc.UpgradeToPremium(context.Background(), team.ID, 1, UpgradeInput{Source: "tok_visa", Amount: 100}); err != nil {
		t.Fatalf("UpgradeToPremium failed: %v", err)
	}
}
