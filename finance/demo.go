package finance

import "time"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DemoTransactions is the seeded transaction list served by the mock
// backend for development builds.
func DemoTransactions() []Transaction {
	return []Transaction{
		{ID: "1", Description: "Groceries", Amount: -50.25, Date: day(2025, time.July, 10), Category: "groceries"},
		{ID: "2", Description: "Paycheck", Amount: 2000, Date: day(2025, time.July, 9), Category: "income"},
		{ID: "3", Description: "Rent", Amount: -1200, Date: day(2025, time.July, 8), Category: "housing"},
		{ID: "4", Description: "Gas", Amount: -35.70, Date: day(2025, time.July, 7), Category: "transport"},
		{ID: "5", Description: "Dinner", Amount: -60, Date: day(2025, time.July, 6), Category: "dining"},
		{ID: "6", Description: "Freelance", Amount: 500, Date: day(2025, time.July, 5), Category: "income"},
		{ID: "7", Description: "Movie Tickets", Amount: -25, Date: day(2025, time.July, 4), Category: "entertainment"},
		{ID: "8", Description: "Coffee", Amount: -5.50, Date: day(2025, time.July, 3), Category: "dining"},
		{ID: "9", Description: "Gym Membership", Amount: -40, Date: day(2025, time.July, 2), Category: "health"},
		{ID: "10", Description: "Birthday Gift", Amount: -75, Date: day(2025, time.July, 1), Category: "gifts"},
	}
}

// DemoBudgets is the seeded budget list. The Shopping budget is
// deliberately over its limit.
func DemoBudgets() []Budget {
	return []Budget{
		{ID: "1", Category: "Groceries", Limit: 500, Spent: 250.75},
		{ID: "2", Category: "Dining Out", Limit: 200, Spent: 150},
		{ID: "3", Category: "Shopping", Limit: 300, Spent: 350},
		{ID: "4", Category: "Transportation", Limit: 100, Spent: 75},
	}
}

// DemoVaultLocks is the seeded vault: one weekly lock releasing $50 per
// week since mid June 2025.
func DemoVaultLocks() []VaultLock {
	return []VaultLock{
		{ID: "1", Amount: 600, PerRelease: 50, Frequency: Weekly, Start: day(2025, time.June, 19)},
	}
}
