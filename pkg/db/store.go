package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rupify/backend/internal/types"
	"github.com/rupify/backend/pkg/ledger"
	"github.com/rupify/backend/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements ledger.Store.
type Store struct {
	db *gorm.DB
}

var _ ledger.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// translate maps gorm and driver errors to the ledger error kinds.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ledger.ErrNotFound, resource)
	}

	// Rejected by a model hook or by Money.Value, the data is at fault
	if errors.Is(err, models.ErrRecurrenceIncomplete) {
		return fmt.Errorf("%w: %s: %w", ledger.ErrInvalidRequest, resource, err)
	}

	if errors.Is(err, ledger.ErrInvalidAmount) {
		return fmt.Errorf("%s: %w", resource, err)
	}

	return fmt.Errorf("%w: %s: %w", ledger.ErrStoreUnavailable, resource, err)
}

func (s *Store) Atomic(ctx context.Context, fn func(tx ledger.Store) error) error {
	var fnErr error

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&Store{db: tx})
		return fnErr
	})

	// Errors of the unit of work are already classified
	if fnErr != nil {
		return fnErr
	}

	return translate(err, "unit of work")
}

func (s *Store) EnsureUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return translate(err, "user")
	}

	// On conflict, the ID generated for the insert is not the stored one
	var stored models.User
	err = s.db.WithContext(ctx).Where("external_id = ?", user.ExternalID).First(&stored).Error
	if err != nil {
		return translate(err, "user")
	}

	*user = stored
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (user models.User, err error) {
	err = s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return user, translate(err, "user")
}

func (s *Store) GetAccount(ctx context.Context, ownerID, accountID uuid.UUID) (account models.Account, err error) {
	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", accountID, ownerID).
		First(&account).
		Error
	return account, translate(err, "account")
}

func (s *Store) ListAccounts(ctx context.Context, ownerID uuid.UUID) (accounts []models.Account, err error) {
	err = s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id ASC").
		Find(&accounts).
		Error
	return accounts, translate(err, "accounts")
}

func (s *Store) DefaultAccount(ctx context.Context, ownerID uuid.UUID) (account models.Account, err error) {
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", ownerID, true).
		First(&account).
		Error
	return account, translate(err, "default account")
}

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	return translate(s.db.WithContext(ctx).Create(account).Error, "account")
}

func (s *Store) ClearDefault(ctx context.Context, ownerID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("user_id = ? AND is_default = ?", ownerID, true).
		Update("is_default", false).
		Error
	return translate(err, "accounts")
}

func (s *Store) SetDefault(ctx context.Context, accountID uuid.UUID) error {
	tx := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("is_default", true)
	if tx.Error != nil {
		return translate(tx.Error, "account")
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: account", ledger.ErrNotFound)
	}

	return nil
}

// AdjustBalance increments the balance in the database. The read and write
// of the balance happen in one statement.
func (s *Store) AdjustBalance(ctx context.Context, accountID uuid.UUID, delta types.Money) error {
	tx := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta.Cents()))
	if tx.Error != nil {
		return translate(tx.Error, "account balance")
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: account", ledger.ErrNotFound)
	}

	return nil
}

func (s *Store) UpsertTransaction(ctx context.Context, transaction *models.Transaction) error {
	return translate(s.db.WithContext(ctx).Save(transaction).Error, "transaction")
}

func (s *Store) FindTransactions(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (transactions []models.Transaction, err error) {
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Find(&transactions).
		Error
	return transactions, translate(err, "transactions")
}

func (s *Store) AccountTransactions(ctx context.Context, accountID uuid.UUID) (transactions []models.Transaction, err error) {
	err = s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date DESC, created_at DESC").
		Find(&transactions).
		Error
	return transactions, translate(err, "transactions")
}

func (s *Store) DeleteTransactions(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.Transaction{}).
		Error
	return translate(err, "transactions")
}

func (s *Store) ListBudgets(ctx context.Context) (budgets []models.Budget, err error) {
	err = s.db.WithContext(ctx).Order("created_at ASC").Find(&budgets).Error
	return budgets, translate(err, "budgets")
}

func (s *Store) GetBudget(ctx context.Context, id uuid.UUID) (budget models.Budget, err error) {
	err = s.db.WithContext(ctx).Where("id = ?", id).First(&budget).Error
	return budget, translate(err, "budget")
}

func (s *Store) BudgetByOwner(ctx context.Context, ownerID uuid.UUID) (budget models.Budget, err error) {
	err = s.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&budget).Error
	return budget, translate(err, "budget")
}

// UpsertBudget creates the budget of the user or updates its amount.
func (s *Store) UpsertBudget(ctx context.Context, budget *models.Budget) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(budget).Error
	return translate(err, "budget")
}

func (s *Store) SetLastAlertSent(ctx context.Context, budgetID uuid.UUID, at time.Time) error {
	tx := s.db.WithContext(ctx).
		Model(&models.Budget{}).
		Where("id = ?", budgetID).
		Update("last_alert_sent", at.UTC())
	if tx.Error != nil {
		return translate(tx.Error, "budget")
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: budget", ledger.ErrNotFound)
	}

	return nil
}

func (s *Store) AggregateExpense(ctx context.Context, accountID uuid.UUID, from, to time.Time) (types.Money, error) {
	var cents sql.NullInt64

	err := s.db.WithContext(ctx).
		Select("SUM(amount)").
		Table("transactions").
		Where("account_id = ? AND type = ?", accountID, models.TransactionExpense).
		Where("transactions.date >= date(?) AND transactions.date < date(?)", from.UTC(), to.UTC()).
		Find(&cents).
		Error
	if err != nil {
		return types.Money{}, translate(err, "expenses")
	}

	// If no transactions are found, the value is nil
	if !cents.Valid {
		return types.MoneyFromCents(0), nil
	}

	return types.MoneyFromCents(cents.Int64), nil
}

// Ping checks that the database can be reached.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return translate(err, "database")
	}

	return translate(sqlDB.PingContext(ctx), "database")
}
