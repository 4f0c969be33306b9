package types

import "github.com/shopspring/decimal"

// Account is the ledger record of one land currency. The ID is whatever the
// external ownership service hands out (UUID, ULID, ...) and is never parsed.
type Account struct {
	ID          string
	Name        string
	BankBalance decimal.Decimal
	IssuedCount int
}

func NewAccount(id string, name string) *Account {
	return &Account{
		ID:          id,
		Name:        name,
		BankBalance: decimal.Zero,
	}
}

// DisplayName falls back to "Land" for accounts that were never named.
func (account *Account) DisplayName() string {
	if account.Name == "" {
		return "Land"
	}

	return account.Name
}

func (account *Account) AddIssued(n int) {
	if n <= 0 {
		return
	}

	account.IssuedCount += n
}

func (account *Account) RemoveOneIssued() bool {
	if account.IssuedCount <= 0 {
		return false
	}

	account.IssuedCount -= 1

	return true
}

func (account *Account) SetIssuedCount(count int) {
	if count < 0 {
		count = 0
	}

	account.IssuedCount = count
}

// ParseBalance reads a stored balance string, clamping to zero when the text
// is missing or unparsable so a corrupt record never poisons the ledger.
func ParseBalance(text string) decimal.Decimal {
	if text == "" {
		return decimal.Zero
	}

	balance, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}

	return balance
}
