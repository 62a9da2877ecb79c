package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rupify/backend/internal/types"
	"github.com/rupify/backend/pkg/models"
)

// Store is the persistence boundary of the ledger.
//
// Lookups that find nothing return an error wrapping ErrNotFound, every other
// failure wraps ErrStoreUnavailable. All methods called on the Store passed to
// the Atomic callback are part of one unit of work that is committed when the
// callback returns nil and rolled back otherwise.
type Store interface {
	Atomic(ctx context.Context, fn func(tx Store) error) error

	// EnsureUser creates the user or updates email and name of the user
	// with the same ExternalID. The ID of the stored user is written back.
	EnsureUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)

	// GetAccount returns the account only if it is owned by ownerID.
	GetAccount(ctx context.Context, ownerID, accountID uuid.UUID) (models.Account, error)
	ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]models.Account, error)
	DefaultAccount(ctx context.Context, ownerID uuid.UUID) (models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	ClearDefault(ctx context.Context, ownerID uuid.UUID) error
	SetDefault(ctx context.Context, accountID uuid.UUID) error

	// AdjustBalance adds delta to the balance in a single statement.
	AdjustBalance(ctx context.Context, accountID uuid.UUID, delta types.Money) error

	UpsertTransaction(ctx context.Context, transaction *models.Transaction) error
	// FindTransactions returns the transactions among ids that are owned by ownerID.
	FindTransactions(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Transaction, error)
	AccountTransactions(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error)
	DeleteTransactions(ctx context.Context, ids []uuid.UUID) error

	ListBudgets(ctx context.Context) ([]models.Budget, error)
	GetBudget(ctx context.Context, id uuid.UUID) (models.Budget, error)
	BudgetByOwner(ctx context.Context, ownerID uuid.UUID) (models.Budget, error)
	UpsertBudget(ctx context.Context, budget *models.Budget) error
	SetLastAlertSent(ctx context.Context, budgetID uuid.UUID, at time.Time) error

	// AggregateExpense sums the EXPENSE amounts of the account dated in [from, to).
	AggregateExpense(ctx context.Context, accountID uuid.UUID, from, to time.Time) (types.Money, error)
}
