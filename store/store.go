package store

import (
	"context"
	"errors"

	"github.com/fintrackhq/fintrack-backend/models"
)

// ErrNotFound is returned when a record does not exist or the caller is not
// allowed to see that it exists.
var ErrNotFound = errors.New("record not found")

// ListOptions carries optional pagination for transaction listings. A zero
// Limit means no limit.
type ListOptions struct {
	Limit int64
	Page  int64
}

type TransactionStore interface {
	InsertTransaction(ctx context.Context, tx models.Transaction) error
	ListTransactions(ctx context.Context, userID string, opts ListOptions) ([]models.Transaction, int64, error)
	DeleteTransaction(ctx context.Context, id, userID string) error
	SummarizeTransactions(ctx context.Context, userID string) (models.Summary, error)
}

type UserStore interface {
	UpsertUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	SetPlaidAccessToken(ctx context.Context, userID, token string) error
}

type CodeStore interface {
	SaveLoginCode(ctx context.Context, code models.LoginCode) error
	GetLoginCode(ctx context.Context, email string) (models.LoginCode, error)
	DeleteLoginCode(ctx context.Context, email string) error
}

// Store is the full persistence surface the handlers depend on.
type Store interface {
	TransactionStore
	UserStore
	CodeStore
}
