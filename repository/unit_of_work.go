package repository

import (
	"context"
	"fmt"

	"hushhush/database"
	"hushhush/events"
	"hushhush/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements service.UnitOfWork over one Postgres transaction
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	userRepo         service.UserRepository
	vaultRepo        service.VaultRepository
	pledgeRepo       service.PledgeRepository
	commentRepo      service.CommentRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = newUserRepositoryWithTx(tx)
	u.vaultRepo = newVaultRepositoryWithTx(tx)
	u.pledgeRepo = newPledgeRepositoryWithTx(tx)
	u.commentRepo = newCommentRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and then delivers the pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}
	return nil
}

// Rollback rolls back the transaction and drops the pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}
	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// VaultRepository returns the vault repository for this unit of work
func (u *unitOfWork) VaultRepository() service.VaultRepository {
	if u.vaultRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.vaultRepo
}

// PledgeRepository returns the pledge repository for this unit of work
func (u *unitOfWork) PledgeRepository() service.PledgeRepository {
	if u.pledgeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pledgeRepo
}

// CommentRepository returns the comment repository for this unit of work
func (u *unitOfWork) CommentRepository() service.CommentRepository {
	if u.commentRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.commentRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
