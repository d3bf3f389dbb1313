// Package repositories provides the data access layer.
// It owns all database operations and persistence logic; no handler or
// service composes SQL outside of it.
package repositories

import (
	"context"
	"errors"

	"falko/internal/models"
)

var (
	ErrAccountNotFound    = errors.New("loyalty account not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidPoints      = errors.New("points must be positive")
	ErrNothingToReverse   = errors.New("no earned transaction to reverse")
)

// LedgerRepository is the single gateway to the points ledger. Each mutation
// runs as one database transaction: the append-only transaction row and the
// account balance update commit or roll back together. Mutations for the
// same customer serialize on a row-level lock, so concurrent credits,
// debits and reversals never race on the balance.
type LedgerRepository interface {
	// Credit appends an earned transaction and increments the balance,
	// creating the account on first use.
	Credit(ctx context.Context, customerID string, points int, orderID, description string, metadata models.JSON) error

	// Debit appends a spent transaction and decrements the balance.
	// Returns ErrInsufficientPoints without mutating state when the balance
	// cannot cover the request.
	Debit(ctx context.Context, customerID string, points int, rewardID, description string) (*models.LoyaltyTransaction, error)

	// Reverse finds the most recent earned transaction for the order and
	// appends a refunded transaction for the same amount, clamping the
	// balance at zero. Returns ErrNothingToReverse when no earned
	// transaction exists for the (customer, order) pair.
	Reverse(ctx context.Context, customerID, orderID, description string) (int, error)

	GetAccount(ctx context.Context, customerID string) (*models.LoyaltyAccount, error)
	GetTransactions(ctx context.Context, customerID string, limit int) ([]models.LoyaltyTransaction, error)
	CountTransactions(ctx context.Context, customerID string) (int64, error)
	CountEarned(ctx context.Context, customerID string) (int64, error)
}
