// Package alerts notifies users whose expenses on their default account
// reach a share of their monthly budget.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/rupify/backend/internal/types"
	"github.com/rupify/backend/pkg/ledger"
	"github.com/rupify/backend/pkg/models"
	"github.com/rupify/backend/pkg/notify"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Threshold is the share of the budget in percent at which users are alerted.
const Threshold = 75

const (
	DefaultConcurrency = 4
	DefaultTimeout     = 30 * time.Second
)

type outcome string

const (
	outcomeSent           outcome = "sent"
	outcomeBelowThreshold outcome = "below_threshold"
	outcomeAlreadyAlerted outcome = "already_alerted"
	outcomeNoDefault      outcome = "no_default_account"
	outcomeNoContact      outcome = "no_contact"
	outcomeFailed         outcome = "failed"
)

// Report summarizes one alert pass.
type Report struct {
	Budgets int `json:"budgets"` // Number of budgets evaluated
	Sent    int `json:"sent"`    // Alerts sent
	Skipped int `json:"skipped"` // Budgets that needed no alert
	Failed  int `json:"failed"`  // Budgets that could not be evaluated or alerted
}

type Scheduler struct {
	store       ledger.Store
	notifier    notify.Notifier
	concurrency int
	timeout     time.Duration
	locale      language.Tag
	now         func() time.Time
	locks       keyedMutex
}

// Option configures the scheduler
type Option func(*Scheduler)

// WithConcurrency sets how many budgets are evaluated in parallel
func WithConcurrency(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithTimeout bounds the evaluation of a single budget, including sending the alert
func WithTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLocale sets the locale used to format amounts in alert messages
func WithLocale(tag language.Tag) Option {
	return func(s *Scheduler) {
		s.locale = tag
	}
}

// WithClock sets the source of the current time
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

func NewScheduler(store ledger.Store, notifier notify.Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:       store,
		notifier:    notifier,
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
		locale:      language.English,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run evaluates all budgets and alerts every user whose expenses on the
// default account reached Threshold percent of the budget in the current
// month, unless they have already been alerted this month.
//
// A budget that fails does not stop the others, it is counted in the report.
// The error is only set when the budgets cannot be listed.
func (s *Scheduler) Run(ctx context.Context) (Report, error) {
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		passCount.WithLabelValues("failed").Inc()
		return Report{}, fmt.Errorf("listing budgets: %w", err)
	}

	now := s.now().UTC()
	report := Report{Budgets: len(budgets)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, budget := range budgets {
		id := budget.ID

		g.Go(func() error {
			result, err := s.evaluate(ctx, id, now)
			budgetCount.WithLabelValues(string(result)).Inc()

			mu.Lock()
			defer mu.Unlock()

			switch result {
			case outcomeSent:
				report.Sent++
			case outcomeFailed:
				report.Failed++
				log.Error().Err(err).Str("budget", id.String()).Msg("Budget alert")
			default:
				report.Skipped++
			}

			return nil
		})
	}

	_ = g.Wait()

	passCount.WithLabelValues("completed").Inc()
	log.Info().Int("budgets", report.Budgets).Int("sent", report.Sent).Int("skipped", report.Skipped).Int("failed", report.Failed).Msg("Budget alert pass")

	return report, nil
}

// evaluate runs the alert check for one budget while holding the lock for it.
func (s *Scheduler) evaluate(ctx context.Context, budgetID uuid.UUID, now time.Time) (outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	unlock := s.locks.lock(budgetID)
	defer unlock()

	// Read again under the lock, another pass might have sent the alert
	budget, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return outcomeFailed, err
	}

	account, err := s.store.DefaultAccount(ctx, budget.UserID)
	if errors.Is(err, ledger.ErrNotFound) {
		return outcomeNoDefault, nil
	} else if err != nil {
		return outcomeFailed, err
	}

	month := types.MonthOf(now)
	expenses, err := s.store.AggregateExpense(ctx, account.ID, month.Start(), month.End())
	if err != nil {
		return outcomeFailed, err
	}

	percent := expenses.Percent(budget.Amount)
	logger := log.With().Str("budget", budget.ID.String()).Str("account", account.ID.String()).Str("percent", percent.StringFixed(1)).Logger()

	if percent.LessThan(decimal.NewFromInt(Threshold)) {
		logger.Debug().Msg("Budget below alert threshold")
		return outcomeBelowThreshold, nil
	}

	if budget.LastAlertSent != nil && types.MonthOf(*budget.LastAlertSent).Equal(month) {
		logger.Debug().Time("last-alert", *budget.LastAlertSent).Msg("Budget already alerted this month")
		return outcomeAlreadyAlerted, nil
	}

	user, err := s.store.GetUser(ctx, budget.UserID)
	if err != nil {
		return outcomeFailed, err
	}

	// Not recorded, the alert goes out once the user has an address
	if strings.TrimSpace(user.Email) == "" {
		logger.Warn().Str("user", user.ID.String()).Msg("Budget alert skipped, the user has no email address")
		return outcomeNoContact, nil
	}

	err = s.notifier.Send(ctx, s.message(user, account, budget, expenses, percent))
	if err != nil {
		return outcomeFailed, fmt.Errorf("%w: %w", ledger.ErrNotifyUnavailable, err)
	}

	// Only record the alert once it has been sent so that a failed send is retried
	err = s.store.SetLastAlertSent(ctx, budget.ID, now)
	if err != nil {
		return outcomeFailed, err
	}

	logger.Info().Msg("Budget alert sent")
	return outcomeSent, nil
}

func (s *Scheduler) message(user models.User, account models.Account, budget models.Budget, expenses types.Money, percent decimal.Decimal) notify.Message {
	p := message.NewPrinter(s.locale)

	name := user.Name
	if name == "" {
		name = user.Email
	}

	amount := func(m types.Money) number.Formatter {
		return number.Decimal(m.Decimal().InexactFloat64(), number.Scale(2))
	}

	return notify.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Budget Alert for %s", account.Name),
		Body: p.Sprintf("Hello %s,\n\nyou have used %v%% of your monthly budget for %s.\n\nBudget: %v\nSpent so far: %v\nRemaining: %v\n",
			name,
			number.Decimal(percent.InexactFloat64(), number.Scale(1)),
			account.Name,
			amount(budget.Amount),
			amount(expenses),
			amount(budget.Amount.Sub(expenses)),
		),
	}
}
