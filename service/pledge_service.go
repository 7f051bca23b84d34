package service

import (
	"context"
	"fmt"
	"time"

	"hushhush/events"
	"hushhush/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MaxPledgesListed caps a backer's pledge listing
const MaxPledgesListed = 100

// PledgeRecorder receives pledge outcomes for metrics
type PledgeRecorder interface {
	RecordPledge(amount float64, funded bool)
}

type pledgeService struct {
	uowFactory UnitOfWorkFactory
	recorder   PledgeRecorder
	now        func() time.Time
}

// NewPledgeService creates a new pledge engine. recorder may be nil.
func NewPledgeService(uowFactory UnitOfWorkFactory, recorder PledgeRecorder) PledgeService {
	return &pledgeService{
		uowFactory: uowFactory,
		recorder:   recorder,
		now:        time.Now,
	}
}

// CreatePledge records a pledge and applies it to the vault in the same transaction.
// The vault row is locked and the counters are incremented in place, so concurrent pledges
// to one vault are serialized and never lose an update. Pledges are accepted whatever the
// vault's status; only a live vault moves to funded.
func (s *pledgeService) CreatePledge(ctx context.Context, userID string, req CreatePledgeRequest) (*models.Pledge, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	backer, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get backer: %w", err)
	}
	if backer == nil {
		return nil, notFound(msgUserNotFound)
	}
	if !backer.UserType.CanListen() {
		return nil, forbidden(msgOnlyListeners)
	}

	before, err := uow.VaultRepository().GetByIDForUpdate(ctx, req.VaultID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	if before == nil {
		return nil, notFound(msgVaultNotFound)
	}

	pledge := &models.Pledge{
		ID:                   uuid.NewString(),
		VaultID:              before.ID,
		UserID:               backer.ID,
		Amount:               req.Amount,
		Status:               models.PledgeStatusAuthorized,
		ReferralCreditEarned: models.ReferralCredit(req.Amount, req.hasReferrer()),
		CreatedAt:            s.now().UTC(),
	}
	if req.hasReferrer() {
		pledge.ReferrerID = req.ReferrerID
	}

	if err := uow.PledgeRepository().Create(ctx, pledge); err != nil {
		return nil, fmt.Errorf("failed to create pledge: %w", err)
	}

	after, err := uow.VaultRepository().ApplyPledge(ctx, before.ID, pledge.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to apply pledge to vault: %w", err)
	}
	if after == nil {
		return nil, notFound(msgVaultNotFound)
	}

	if err := uow.UserRepository().AddPledged(ctx, backer.ID, pledge.Amount); err != nil {
		return nil, fmt.Errorf("failed to update backer totals: %w", err)
	}

	if pledge.ReferralCreditEarned > 0 {
		if err := s.creditReferrer(ctx, uow, *pledge.ReferrerID, pledge.ReferralCreditEarned); err != nil {
			return nil, err
		}
	}

	uow.EventBus().Publish(events.PledgeCreatedEvent{
		PledgeID:       pledge.ID,
		VaultID:        pledge.VaultID,
		UserID:         pledge.UserID,
		Amount:         pledge.Amount,
		ReferralCredit: pledge.ReferralCreditEarned,
		PledgedAmount:  after.PledgedAmount,
		BackersCount:   after.BackersCount,
	})

	funded := before.IsLive() && after.Status == models.VaultStatusFunded
	if funded {
		uow.EventBus().Publish(events.VaultFundedEvent{
			VaultID:       after.ID,
			WhispererID:   after.WhispererID,
			Title:         after.Title,
			FundingGoal:   after.FundingGoal,
			PledgedAmount: after.PledgedAmount,
			BackersCount:  after.BackersCount,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordPledge(pledge.Amount, funded)
	}

	log.WithFields(log.Fields{
		"pledgeID":      pledge.ID,
		"vaultID":       pledge.VaultID,
		"amount":        pledge.Amount,
		"pledgedAmount": after.PledgedAmount,
		"vaultStatus":   after.Status,
	}).Info("Pledge accepted")

	return pledge, nil
}

// creditReferrer adds the referral credit to the referrer's earnings. The reference may be a
// user id or a referral code; an unknown referrer is ignored.
func (s *pledgeService) creditReferrer(ctx context.Context, uow UnitOfWork, reference string, credit float64) error {
	referrer, err := uow.UserRepository().GetByID(ctx, reference)
	if err != nil {
		return fmt.Errorf("failed to get referrer: %w", err)
	}
	if referrer == nil {
		referrer, err = uow.UserRepository().GetByReferralCode(ctx, reference)
		if err != nil {
			return fmt.Errorf("failed to get referrer by code: %w", err)
		}
	}
	if referrer == nil {
		log.WithField("referrer", reference).Debug("Referrer not found, credit not paid out")
		return nil
	}

	if err := uow.UserRepository().AddEarned(ctx, referrer.ID, credit); err != nil {
		return fmt.Errorf("failed to credit referrer: %w", err)
	}
	return nil
}

// ListMyPledges returns a backer's pledges with their vault titles
func (s *pledgeService) ListMyPledges(ctx context.Context, userID string) ([]*models.PledgeView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return listPledgeViews(ctx, uow, userID)
}

func listPledgeViews(ctx context.Context, uow UnitOfWork, userID string) ([]*models.PledgeView, error) {
	pledges, err := uow.PledgeRepository().ListByUser(ctx, userID, MaxPledgesListed)
	if err != nil {
		return nil, fmt.Errorf("failed to list pledges: %w", err)
	}

	vaults := make(map[string]*models.Vault)
	views := make([]*models.PledgeView, 0, len(pledges))
	for _, pledge := range pledges {
		vault, seen := vaults[pledge.VaultID]
		if !seen {
			vault, err = uow.VaultRepository().GetByID(ctx, pledge.VaultID)
			if err != nil {
				return nil, fmt.Errorf("failed to get pledged vault: %w", err)
			}
			vaults[pledge.VaultID] = vault
		}
		views = append(views, models.NewPledgeView(pledge, vault))
	}
	return views, nil
}
