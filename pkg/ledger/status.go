package ledger

import (
	"regexp"
	"time"
)

// Status is the payment state of a monthly due.
type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

var monthRE = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// MonthOf formats t as a YYYY-MM month key.
func MonthOf(t time.Time) string {
	return t.Format("2006-01")
}

// ValidMonth reports whether s is a YYYY-MM month key.
func ValidMonth(s string) bool {
	return monthRE.MatchString(s)
}

// Derive computes the effective status of a due as of a given month. The
// stored status field on a due is only a snapshot: overdue-ness depends on
// elapsed wall-clock time, so callers must re-derive on every read instead of
// trusting the stored value.
//
// A due is overdue once its month lies strictly before asOfMonth. YYYY-MM keys
// compare lexicographically in chronological order, so a plain string compare
// suffices.
func Derive(paidAmount, totalAmount int64, month, asOfMonth string) Status {
	if paidAmount >= totalAmount {
		return StatusPaid
	}
	if month < asOfMonth {
		return StatusOverdue
	}
	if paidAmount > 0 {
		return StatusPartial
	}
	return StatusPending
}
