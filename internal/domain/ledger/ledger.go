package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidKind   = errors.New("invalid ledger entry kind")
)

// Amount is a positive quantity of minor currency units (cents). Zero and
// negative amounts are rejected at construction so store operations can assume
// well-formed input.
type Amount struct {
	cents int64
}

func NewAmount(cents int64) (Amount, error) {
	if cents <= 0 {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{cents: cents}, nil
}

func (a Amount) Cents() int64 {
	return a.cents
}

// Account is the read-side projection of a user's savings card and its hold.
// Both counters are independently non-negative; pending may exceed balance
// because freezing never validates against the actual counter.
type Account struct {
	UserID       uuid.UUID
	BalanceCents int64
	PendingCents int64
	Version      int64
}

// AvailableCents is display-only; commit-time checks use BalanceCents alone.
func (a Account) AvailableCents() int64 {
	return a.BalanceCents - a.PendingCents
}

type EntryKind string

const (
	EntryTopUp  EntryKind = "TOP_UP"
	EntrySpend  EntryKind = "SPEND"
	EntryRefund EntryKind = "REFUND"
)

func (k EntryKind) IsValid() bool {
	switch k {
	case EntryTopUp, EntrySpend, EntryRefund:
		return true
	default:
		return false
	}
}

// Entry is one immutable row of balance history, written in the same
// transaction as the mutation it records.
type Entry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Kind        EntryKind
	AmountCents int64
	RefKind     *string
	RefID       *uuid.UUID
	CreatedAt   time.Time
}
