package ledger

import "sort"

// OpenDue is the slice of a rent due the settlement planner needs.
type OpenDue struct {
	ID          string
	Month       string
	TotalAmount int64
	PaidAmount  int64
}

// Unpaid returns the remaining balance on the due.
func (d OpenDue) Unpaid() int64 {
	if d.TotalAmount <= d.PaidAmount {
		return 0
	}
	return d.TotalAmount - d.PaidAmount
}

// Allocation is one due's share of a settled payment.
type Allocation struct {
	DueID         string
	Month         string
	Applied       int64
	NewPaidAmount int64
	NewStatus     Status
}

// Result describes a fully validated settlement plan. Nothing has been
// persisted yet when a Result is returned; the caller applies it atomically.
type Result struct {
	Allocations  []Allocation
	AdvanceDrawn int64
	TotalApplied int64
}

// Plan allocates an incoming payment across a tenant's open dues, oldest month
// first, optionally blending in a draw from the tenant's advance balance.
//
// The requested advance draw is clamped to what is actually available and to
// what the open dues can absorb after the direct amount; it never fails for
// being too large. The direct amount, by contrast, is rejected with
// ErrExceedsOutstanding when it cannot be fully absorbed, so that money is
// never silently dropped.
//
// Invariant on success: sum of Applied across allocations == amount + drawn
// advance, and every allocation keeps 0 <= NewPaidAmount <= TotalAmount.
func Plan(dues []OpenDue, amount, advanceRequested, advanceAvailable int64, asOfMonth string) (Result, error) {
	if amount < 0 || advanceRequested < 0 {
		return Result{}, ErrInvalidAmount
	}

	open := make([]OpenDue, 0, len(dues))
	var outstanding int64
	for _, d := range dues {
		if d.Unpaid() > 0 {
			open = append(open, d)
			outstanding += d.Unpaid()
		}
	}
	// Oldest month first; ties broken by id so the walk is deterministic.
	sort.Slice(open, func(i, j int) bool {
		if open[i].Month != open[j].Month {
			return open[i].Month < open[j].Month
		}
		return open[i].ID < open[j].ID
	})

	if amount > outstanding {
		return Result{}, ErrExceedsOutstanding
	}

	draw := advanceRequested
	if draw > advanceAvailable {
		draw = advanceAvailable
	}
	if rest := outstanding - amount; draw > rest {
		draw = rest
	}

	pool := amount + draw
	res := Result{AdvanceDrawn: draw, TotalApplied: pool}
	if pool == 0 {
		return res, nil
	}

	remaining := pool
	for _, d := range open {
		if remaining == 0 {
			break
		}
		applied := d.Unpaid()
		if applied > remaining {
			applied = remaining
		}
		newPaid := d.PaidAmount + applied
		res.Allocations = append(res.Allocations, Allocation{
			DueID:         d.ID,
			Month:         d.Month,
			Applied:       applied,
			NewPaidAmount: newPaid,
			NewStatus:     Derive(newPaid, d.TotalAmount, d.Month, asOfMonth),
		})
		remaining -= applied
	}
	return res, nil
}
