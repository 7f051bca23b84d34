package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hushhush/models"

	"github.com/google/uuid"
)

type commentService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewCommentService creates a new comment service
func NewCommentService(uowFactory UnitOfWorkFactory) CommentService {
	return &commentService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// CreateComment stores a comment with the author's current username
func (s *commentService) CreateComment(ctx context.Context, userID string, req CreateCommentRequest) (*models.Comment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	author, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	if author == nil {
		return nil, notFound(msgUserNotFound)
	}

	vault, err := uow.VaultRepository().GetByID(ctx, req.VaultID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return nil, notFound(msgVaultNotFound)
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		VaultID:   vault.ID,
		UserID:    author.ID,
		Username:  author.Username,
		Content:   strings.TrimSpace(req.Content),
		CreatedAt: s.now().UTC(),
	}
	if err := uow.CommentRepository().Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return comment, nil
}

// ListComments returns a vault's latest comments, newest first
func (s *commentService) ListComments(ctx context.Context, vaultID string) ([]*models.Comment, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	comments, err := uow.CommentRepository().ListByVault(ctx, vaultID, models.MaxCommentsListed)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
