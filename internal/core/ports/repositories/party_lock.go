package repositories

import "context"

// PartyLocker serialises writers of a party ledger across processes. It complements the
// unit-of-work lock, which only covers one database.
type PartyLocker interface {
	// Acquire takes the lock for key and returns a function that releases it.
	Acquire(ctx context.Context, key string) (release func(context.Context), err error)
}
