package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/badbank/internal/domain"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:      "acc-1",
		Email:   "alice@example.com",
		Name:    "Alice",
		UID:     "uid-1",
		Roles:   []string{"customer"},
		Balance: decimal.RequireFromString("123.45"),
		History: []domain.LedgerEntry{
			{ID: "e-1", AccountEmail: "alice@example.com", Amount: decimal.RequireFromString("123.45"), Kind: domain.EntryKindDeposit, CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID || !resp.Balance.Equal(account.Balance) {
		t.Fatalf("unexpected account response: %+v", resp)
	}

	if len(resp.History) != 1 || resp.History[0].ID != "e-1" {
		t.Fatalf("unexpected history: %+v", resp.History)
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if len(list) != 1 || list[0].Email != account.Email {
		t.Fatalf("AccountsFromDomain returned %+v", list)
	}
}

func TestEntryFromDomain(t *testing.T) {
	now := time.Now()
	entry := &domain.LedgerEntry{
		ID:           "e-1",
		AccountEmail: "alice@example.com",
		Amount:       decimal.RequireFromString("-20"),
		Kind:         domain.EntryKindWithdrawal,
		Description:  "groceries",
		CreatedAt:    now,
	}

	resp := EntryFromDomain(entry)
	if resp.ID != entry.ID || !resp.Amount.Equal(entry.Amount) || resp.Kind != domain.EntryKindWithdrawal {
		t.Fatalf("unexpected entry response: %+v", resp)
	}

	list := EntriesFromDomain([]*domain.LedgerEntry{entry})
	if len(list) != 1 || list[0].ID != entry.ID {
		t.Fatalf("EntriesFromDomain returned %+v", list)
	}
}
