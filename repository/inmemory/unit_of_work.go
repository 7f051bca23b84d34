package inmemory

import (
	"context"
	"fmt"

	"hushhush/events"
	"hushhush/service"
)

type unitOfWorkFactory struct {
	store    *Store
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates units of work over store
func NewUnitOfWorkFactory(store *Store, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{store: store, eventBus: eventBus}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		store:            f.store,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

type unitOfWork struct {
	store            *Store
	ctx              context.Context
	active           bool
	undo             []func()
	transactionalBus *events.TransactionalBus
	userRepo         *userRepository
	vaultRepo        *vaultRepository
	pledgeRepo       *pledgeRepository
	commentRepo      *commentRepository
}

// Begin takes the store lock for the lifetime of the unit of work
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.store.mu.Lock()
	u.active = true
	u.ctx = ctx
	u.undo = nil

	u.userRepo = &userRepository{uow: u}
	u.vaultRepo = &vaultRepository{uow: u}
	u.pledgeRepo = &pledgeRepository{uow: u}
	u.commentRepo = &commentRepository{uow: u}
	return nil
}

// Commit keeps the changes, releases the lock and delivers pending events
func (u *unitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}

	u.undo = nil
	u.active = false
	u.store.mu.Unlock()

	u.transactionalBus.Flush(u.ctx)
	return nil
}

// Rollback undoes the changes in reverse order and releases the lock
func (u *unitOfWork) Rollback() error {
	if !u.active {
		return nil
	}

	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.undo = nil
	u.active = false
	u.store.mu.Unlock()

	u.transactionalBus.Discard()
	return nil
}

func (u *unitOfWork) record(undo func()) {
	u.undo = append(u.undo, undo)
}

func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

func (u *unitOfWork) VaultRepository() service.VaultRepository {
	if u.vaultRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.vaultRepo
}

func (u *unitOfWork) PledgeRepository() service.PledgeRepository {
	if u.pledgeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pledgeRepo
}

func (u *unitOfWork) CommentRepository() service.CommentRepository {
	if u.commentRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.commentRepo
}

func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
