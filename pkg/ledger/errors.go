package ledger

import "errors"

var (
	// ErrInvalidAmount is returned when a settlement is requested with a negative amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrExceedsOutstanding is returned when the direct amount is larger than the
	// sum of unpaid balances across the tenant's open dues.
	ErrExceedsOutstanding = errors.New("amount exceeds outstanding balance")
	// ErrUnresolvedDues is returned when a month cannot be closed because dues remain unpaid.
	ErrUnresolvedDues = errors.New("month has unresolved dues")
	// ErrMonthNotStarted is returned when closing a month that was never started.
	ErrMonthNotStarted = errors.New("month not started")
	// ErrInvalidMonth is returned for month keys that are not YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month key")
)
