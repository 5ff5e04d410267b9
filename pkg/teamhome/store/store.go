// Package store holds the gorm-backed repositories used by the TeamHome
// workflows. Every repository is atomic at the single-record level only;
// multi-record atomicity is available through Transactor.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an optimistic version check fails
	ErrConflict = errors.New("version conflict")
)

type txKey struct{}

// Transactor runs functions inside a database transaction
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a new transactor
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// RunInTransaction executes fn in a transaction carried on the context.
// Repositories called with that context join the transaction. Nested calls
// reuse the outer transaction.
func (t *Transactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if extractTx(ctx) != nil {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func extractTx(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// conn returns the transaction from the context or the base connection
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := extractTx(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Repositories bundles every gorm repository over one database
type Repositories struct {
	Teams       *TeamStore
	Users       *UserStore
	Messages    *MessageStore
	MsgComments *MsgCommentStore
	Documents   *DocumentStore
	DocComments *DocCommentStore
	Folders     *FolderStore
	Events      *EventStore
	Deletions   *DeletionStore
	Charges     *ChargeStore
	Tx          *Transactor
}

// New creates all repositories over db
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Teams:       NewTeamStore(db),
		Users:       NewUserStore(db),
		Messages:    NewMessageStore(db),
		MsgComments: NewMsgCommentStore(db),
		Documents:   NewDocumentStore(db),
		DocComments: NewDocCommentStore(db),
		Folders:     NewFolderStore(db),
		Events:      NewEventStore(db),
		Deletions:   NewDeletionStore(db),
		Charges:     NewChargeStore(db),
		Tx:          NewTransactor(db),
	}
}
