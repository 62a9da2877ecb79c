// Package ledger keeps account balances consistent with the transactions
// booked against them and enforces that every user has exactly one default
// account once they have any.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/rupify/backend/internal/recurrence"
	"github.com/rupify/backend/internal/types"
	"github.com/rupify/backend/pkg/models"
	"golang.org/x/exp/slices"
)

// Identity is the caller as asserted by the identity provider.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

type TransactionCreate struct {
	AccountID   uuid.UUID
	Type        models.TransactionType
	Amount      types.Money
	Date        time.Time
	Description string
	Category    string
	Status      models.TransactionStatus
	ReceiptURL  string // Link to an image of the receipt, optional

	// When set, the transaction recurs with this interval
	RecurringInterval *recurrence.Interval
}

type AccountCreate struct {
	Name      string
	Type      models.AccountType
	Balance   types.Money // Initial balance
	IsDefault bool
}

type AccountDetail struct {
	Account          models.Account
	Transactions     []models.Transaction
	TransactionCount int
}

// BudgetStatus is the budget of a user together with the expenses of one
// account in a month. Budget is nil when the user has not set one.
type BudgetStatus struct {
	Budget          *models.Budget
	AccountID       uuid.UUID
	Month           types.Month
	CurrentExpenses types.Money
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// ResolveUser returns the user for the identity, creating it on first use.
func (s *Service) ResolveUser(ctx context.Context, identity Identity) (models.User, error) {
	subject := strings.TrimSpace(identity.Subject)
	if subject == "" {
		return models.User{}, ErrUnauthorized
	}

	user := models.User{
		ExternalID: subject,
		Email:      identity.Email,
		Name:       identity.Name,
	}

	err := s.store.EnsureUser(ctx, &user)
	if err != nil {
		return models.User{}, fmt.Errorf("resolving user: %w", err)
	}

	return user, nil
}

// CreateTransaction books a transaction and applies its amount to the
// account balance in the same unit of work.
func (s *Service) CreateTransaction(ctx context.Context, ownerID uuid.UUID, create TransactionCreate) (models.Transaction, error) {
	if !create.Amount.IsPositive() {
		return models.Transaction{}, fmt.Errorf("%w: the amount must be greater than zero", ErrInvalidAmount)
	}

	if !create.Amount.InRange() {
		return models.Transaction{}, fmt.Errorf("%w: the amount is too large", ErrInvalidAmount)
	}

	if !create.Type.Valid() {
		return models.Transaction{}, fmt.Errorf("%w: transaction type must be INCOME or EXPENSE", ErrInvalidRequest)
	}

	if create.Status != "" && !create.Status.Valid() {
		return models.Transaction{}, fmt.Errorf("%w: unknown transaction status %q", ErrInvalidRequest, create.Status)
	}

	receipt, err := receiptURL(create.ReceiptURL)
	if err != nil {
		return models.Transaction{}, err
	}

	if create.RecurringInterval != nil && !create.RecurringInterval.Valid() {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidRequest, recurrence.ErrInvalidInterval)
	}

	date := create.Date
	if date.IsZero() {
		date = s.now()
	}
	date = recurrence.Normalize(date)

	transaction := models.Transaction{
		UserID:      ownerID,
		AccountID:   create.AccountID,
		Type:        create.Type,
		Amount:      create.Amount,
		Date:        date,
		Description: create.Description,
		Category:    create.Category,
		Status:      create.Status,
		ReceiptURL:  receipt,
	}

	if create.RecurringInterval != nil {
		interval := *create.RecurringInterval
		next := recurrence.Next(date, interval)

		transaction.IsRecurring = true
		transaction.RecurringInterval = &interval
		transaction.NextRecurringDate = &next
	}

	delta := create.Amount
	if create.Type == models.TransactionExpense {
		delta = delta.Neg()
	}

	err = s.store.Atomic(ctx, func(tx Store) error {
		account, err := tx.GetAccount(ctx, ownerID, create.AccountID)
		if err != nil {
			return err
		}

		err = checkBalance(account, delta)
		if err != nil {
			return err
		}

		err = tx.UpsertTransaction(ctx, &transaction)
		if err != nil {
			return err
		}

		return tx.AdjustBalance(ctx, create.AccountID, delta)
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("creating transaction: %w", err)
	}

	return transaction, nil
}

// DeleteTransactions deletes the transactions among ids owned by ownerID and
// reverts their effect on the account balances. IDs that do not exist or are
// owned by someone else are ignored.
func (s *Service) DeleteTransactions(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	err := s.store.Atomic(ctx, func(tx Store) error {
		transactions, err := tx.FindTransactions(ctx, ownerID, ids)
		if err != nil {
			return err
		}

		if len(transactions) == 0 {
			return nil
		}

		reversals := make(map[uuid.UUID]types.Money)
		owned := make([]uuid.UUID, 0, len(transactions))
		for _, t := range transactions {
			owned = append(owned, t.ID)

			reversal := t.Amount
			if t.Type == models.TransactionIncome {
				reversal = reversal.Neg()
			}
			reversals[t.AccountID] = reversals[t.AccountID].Add(reversal)
		}

		err = tx.DeleteTransactions(ctx, owned)
		if err != nil {
			return err
		}

		// Fixed order so that concurrent deletions lock accounts in the same sequence
		accounts := make([]uuid.UUID, 0, len(reversals))
		for id := range reversals {
			accounts = append(accounts, id)
		}
		slices.SortFunc(accounts, func(a, b uuid.UUID) int {
			return bytes.Compare(a[:], b[:])
		})

		for _, id := range accounts {
			if reversals[id].IsZero() {
				continue
			}

			account, err := tx.GetAccount(ctx, ownerID, id)
			if err != nil {
				return err
			}

			err = checkBalance(account, reversals[id])
			if err != nil {
				return err
			}

			err = tx.AdjustBalance(ctx, id, reversals[id])
			if err != nil {
				return err
			}
		}

		log.Debug().Str("user", ownerID.String()).Int("transactions", len(owned)).Int("accounts", len(accounts)).Msg("Deleted transactions")
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting transactions: %w", err)
	}

	return nil
}

// receiptURL validates the link to a receipt. An empty link is no receipt.
func receiptURL(link string) (*string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, nil
	}

	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: the receipt URL must be an absolute http or https URL", ErrInvalidRequest)
	}

	return &link, nil
}

// checkBalance fails when applying delta would move the balance of the
// account out of the storable range.
func checkBalance(account models.Account, delta types.Money) error {
	if !account.Balance.Add(delta).InRange() {
		return fmt.Errorf("%w: the balance of account %s would exceed the supported range", ErrInvalidAmount, account.ID)
	}

	return nil
}

// CreateAccount creates an account. The first account of a user is always
// the default account.
func (s *Service) CreateAccount(ctx context.Context, ownerID uuid.UUID, create AccountCreate) (models.Account, error) {
	name := strings.TrimSpace(create.Name)
	if name == "" {
		return models.Account{}, fmt.Errorf("%w: the account name must not be empty", ErrInvalidRequest)
	}

	if create.Type == "" {
		create.Type = models.AccountCurrent
	}

	if !create.Type.Valid() {
		return models.Account{}, fmt.Errorf("%w: account type must be CURRENT or SAVINGS", ErrInvalidRequest)
	}

	if !create.Balance.InRange() {
		return models.Account{}, fmt.Errorf("%w: the balance is too large", ErrInvalidAmount)
	}

	account := models.Account{
		UserID:  ownerID,
		Name:    name,
		Type:    create.Type,
		Balance: create.Balance,
	}

	err := s.store.Atomic(ctx, func(tx Store) error {
		existing, err := tx.ListAccounts(ctx, ownerID)
		if err != nil {
			return err
		}

		account.IsDefault = create.IsDefault || len(existing) == 0
		if account.IsDefault {
			err = tx.ClearDefault(ctx, ownerID)
			if err != nil {
				return err
			}
		}

		return tx.CreateAccount(ctx, &account)
	})
	if err != nil {
		return models.Account{}, fmt.Errorf("creating account: %w", err)
	}

	return account, nil
}

// SetDefaultAccount makes the account the only default account of its owner.
func (s *Service) SetDefaultAccount(ctx context.Context, ownerID, accountID uuid.UUID) (models.Account, error) {
	var account models.Account

	err := s.store.Atomic(ctx, func(tx Store) (err error) {
		account, err = tx.GetAccount(ctx, ownerID, accountID)
		if err != nil {
			return err
		}

		err = tx.ClearDefault(ctx, ownerID)
		if err != nil {
			return err
		}

		return tx.SetDefault(ctx, accountID)
	})
	if err != nil {
		return models.Account{}, fmt.Errorf("setting default account: %w", err)
	}

	account.IsDefault = true
	return account, nil
}

// ListAccounts returns the accounts of the user, newest first.
func (s *Service) ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]models.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	return accounts, nil
}

// GetAccount returns the account with all its transactions, newest first.
func (s *Service) GetAccount(ctx context.Context, ownerID, accountID uuid.UUID) (AccountDetail, error) {
	account, err := s.store.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return AccountDetail{}, fmt.Errorf("getting account: %w", err)
	}

	transactions, err := s.store.AccountTransactions(ctx, account.ID)
	if err != nil {
		return AccountDetail{}, fmt.Errorf("getting account transactions: %w", err)
	}

	return AccountDetail{
		Account:          account,
		Transactions:     transactions,
		TransactionCount: len(transactions),
	}, nil
}

// UpsertBudget sets the monthly budget of the user.
func (s *Service) UpsertBudget(ctx context.Context, ownerID uuid.UUID, amount types.Money) (models.Budget, error) {
	if !amount.IsPositive() {
		return models.Budget{}, fmt.Errorf("%w: the budget must be greater than zero", ErrInvalidAmount)
	}

	if !amount.InRange() {
		return models.Budget{}, fmt.Errorf("%w: the budget is too large", ErrInvalidAmount)
	}

	var budget models.Budget
	err := s.store.Atomic(ctx, func(tx Store) (err error) {
		err = tx.UpsertBudget(ctx, &models.Budget{UserID: ownerID, Amount: amount})
		if err != nil {
			return err
		}

		budget, err = tx.BudgetByOwner(ctx, ownerID)
		return err
	})
	if err != nil {
		return models.Budget{}, fmt.Errorf("updating budget: %w", err)
	}

	return budget, nil
}

// CurrentBudget returns the budget of the user and the expenses booked on
// the account in the month. A zero month means the current month.
func (s *Service) CurrentBudget(ctx context.Context, ownerID, accountID uuid.UUID, month types.Month) (BudgetStatus, error) {
	if month.IsZero() {
		month = types.MonthOf(s.now())
	}

	_, err := s.store.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return BudgetStatus{}, fmt.Errorf("getting budget: %w", err)
	}

	status := BudgetStatus{
		AccountID: accountID,
		Month:     month,
	}

	budget, err := s.store.BudgetByOwner(ctx, ownerID)
	if err == nil {
		status.Budget = &budget
	} else if !errors.Is(err, ErrNotFound) {
		return BudgetStatus{}, fmt.Errorf("getting budget: %w", err)
	}

	status.CurrentExpenses, err = s.store.AggregateExpense(ctx, accountID, month.Start(), month.End())
	if err != nil {
		return BudgetStatus{}, fmt.Errorf("getting budget expenses: %w", err)
	}

	return status, nil
}
