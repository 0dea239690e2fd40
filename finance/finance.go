// Package finance holds the display-facing finance entities of the precifi
// app: transactions, budgets, and vault locks, together with the simple
// arithmetic the screens summarize them with. Amounts are display values,
// not ledger entries.
package finance

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidAmount is returned when an amount fails validation.
var ErrInvalidAmount = errors.New("invalid amount")

// Transaction is a single dated movement of money. A negative amount is an
// expense, a positive one income.
type Transaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category,omitempty"`
}

// Expense reports whether the transaction is an outgoing amount.
func (t Transaction) Expense() bool {
	return t.Amount < 0
}

// Summary aggregates a set of transactions for the dashboard header.
type Summary struct {
	Balance  float64 `json:"balance"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// Summarize computes the balance, total income, and total expenses of the
// given transactions. Expenses is reported as a positive magnitude.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		s.Balance += t.Amount
		if t.Amount >= 0 {
			s.Income += t.Amount
		} else {
			s.Expenses -= t.Amount
		}
	}
	return s
}

// Recent returns up to n transactions, newest first. The input is not
// modified.
func Recent(txs []Transaction, n int) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Budget is a monthly spending target for a category.
type Budget struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Limit    float64 `json:"amount"`
	Spent    float64 `json:"spent"`
}

// PercentUsed reports spending as a percentage of the limit. It is not
// capped at 100; the budget screen renders over-limit bars.
func (b Budget) PercentUsed() float64 {
	if b.Limit <= 0 {
		return 0
	}
	return b.Spent / b.Limit * 100
}

// Over reports whether spending has exceeded the limit.
func (b Budget) Over() bool {
	return b.Spent > b.Limit
}

// Remaining is the amount left before the limit; negative when over.
func (b Budget) Remaining() float64 {
	return b.Limit - b.Spent
}

// Frequency is a vault lock's release cadence.
type Frequency string

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

// Valid reports whether the frequency is one of the supported cadences.
func (f Frequency) Valid() bool {
	switch f {
	case Weekly, Biweekly, Monthly:
		return true
	}
	return false
}

// next returns the release date following t for this frequency.
func (f Frequency) next(t time.Time) time.Time {
	switch f {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Biweekly:
		return t.AddDate(0, 0, 14)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// VaultLock is an amount of money locked away and released back in fixed
// installments on a cadence.
type VaultLock struct {
	ID         string    `json:"id"`
	Amount     float64   `json:"amount"`
	PerRelease float64   `json:"per_release"`
	Frequency  Frequency `json:"frequency"`
	Start      time.Time `json:"start"`
}

// NewVaultLock validates and creates a lock. The lock-funds screen rejects
// zero and negative amounts before ever calling this; the model enforces
// it regardless.
func NewVaultLock(id string, amount, perRelease float64, freq Frequency, start time.Time) (VaultLock, error) {
	if amount <= 0 {
		return VaultLock{}, fmt.Errorf("lock amount %.2f: %w", amount, ErrInvalidAmount)
	}
	if perRelease <= 0 || perRelease > amount {
		return VaultLock{}, fmt.Errorf("release amount %.2f: %w", perRelease, ErrInvalidAmount)
	}
	if !freq.Valid() {
		return VaultLock{}, fmt.Errorf("unknown frequency %q", freq)
	}
	return VaultLock{ID: id, Amount: amount, PerRelease: perRelease, Frequency: freq, Start: start}, nil
}

// Release is one past installment returned to the user.
type Release struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// ReleasesBy returns the installments released on or before now, oldest
// first. The final installment may be smaller than PerRelease.
func (v VaultLock) ReleasesBy(now time.Time) []Release {
	var out []Release
	remaining := v.Amount
	for due := v.Frequency.next(v.Start); !due.After(now) && remaining > 0; due = v.Frequency.next(due) {
		amt := v.PerRelease
		if amt > remaining {
			amt = remaining
		}
		out = append(out, Release{Date: due, Amount: amt})
		remaining -= amt
	}
	return out
}

// ReleasedBy is the total amount released on or before now.
func (v VaultLock) ReleasedBy(now time.Time) float64 {
	var total float64
	for _, r := range v.ReleasesBy(now) {
		total += r.Amount
	}
	return total
}

// Remaining is the amount still locked at now.
func (v VaultLock) Remaining(now time.Time) float64 {
	return v.Amount - v.ReleasedBy(now)
}

// VaultSummary aggregates the vault screen's header numbers.
type VaultSummary struct {
	TotalLocked float64 `json:"total_locked"`
	// WeeklyRelease is the combined per-release amount of all weekly
	// locks, the figure the vault header quotes.
	WeeklyRelease float64 `json:"weekly_release"`
}

// SummarizeVault computes the total still locked across locks and the
// combined weekly release rate.
func SummarizeVault(locks []VaultLock, now time.Time) VaultSummary {
	var s VaultSummary
	for _, v := range locks {
		s.TotalLocked += v.Remaining(now)
		if v.Frequency == Weekly && v.Remaining(now) > 0 {
			s.WeeklyRelease += v.PerRelease
		}
	}
	return s
}
