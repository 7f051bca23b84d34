package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hushhush/events"
	"hushhush/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// referralCodeAttempts bounds how often Register draws a new code after a collision
const referralCodeAttempts = 3

type identityService struct {
	uowFactory      UnitOfWorkFactory
	hasher          PasswordHasher
	now             func() time.Time
	newReferralCode func() string
}

// NewIdentityService creates a new identity service
func NewIdentityService(uowFactory UnitOfWorkFactory, hasher PasswordHasher) IdentityService {
	return &identityService{
		uowFactory:      uowFactory,
		hasher:          hasher,
		now:             time.Now,
		newReferralCode: models.NewReferralCode,
	}
}

// Register creates an account with a fresh referral code
func (s *identityService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	// hash outside the transaction, bcrypt is slow on purpose
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *models.User
	for attempt := 1; ; attempt++ {
		user, err = s.createUser(ctx, req, passwordHash)
		if !errors.Is(err, ErrReferralCodeTaken) || attempt == referralCodeAttempts {
			break
		}
		log.WithField("attempt", attempt).Warn("Referral code collision, drawing a new code")
	}
	if errors.Is(err, ErrReferralCodeTaken) {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":   user.ID,
		"userType": user.UserType,
	}).Info("Registered user")

	return user, nil
}

// createUser inserts the account in its own unit of work, so a unique violation on the
// referral code can be retried with a fresh transaction
func (s *identityService) createUser(ctx context.Context, req RegisterRequest, passwordHash string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, conflict(msgEmailTaken)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		UserType:     req.UserType,
		IsActive:     true,
		Bio:          req.Bio,
		ReferralCode: s.newReferralCode(),
		ReferredBy:   req.ReferredBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, conflict(msgEmailTaken)
		}
		if errors.Is(err, ErrReferralCodeTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uow.EventBus().Publish(events.UserRegisteredEvent{
		UserID:     user.ID,
		Username:   user.Username,
		UserType:   user.UserType,
		ReferredBy: user.ReferredBy,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return user, nil
}

// Authenticate verifies an email and password pair
func (s *identityService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, unauthenticated(msgBadCredentials)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, unauthenticated(msgBadCredentials)
	}

	return user, nil
}

// GetUser returns a user by id
func (s *identityService) GetUser(ctx context.Context, id string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, notFound(msgUserNotFound)
	}
	return user, nil
}

// UpdateProfile changes username, bio and avatar
func (s *identityService) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return nil, invalid("Username cannot be empty")
		}
		update.Username = &username
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if update.IsEmpty() {
		user, err := uow.UserRepository().GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, notFound(msgUserNotFound)
		}
		return user, nil
	}

	user, err := uow.UserRepository().UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if user == nil {
		return nil, notFound(msgUserNotFound)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return user, nil
}

// UpdateReputation sets verification and credibility score
func (s *identityService) UpdateReputation(ctx context.Context, id string, isVerified bool, credibilityScore int) error {
	if credibilityScore < 0 || credibilityScore > 100 {
		return invalid("Credibility score must be between 0 and 100")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return notFound(msgUserNotFound)
	}

	if err := uow.UserRepository().UpdateReputation(ctx, id, isVerified, credibilityScore); err != nil {
		return fmt.Errorf("failed to update reputation: %w", err)
	}

	return uow.Commit()
}
