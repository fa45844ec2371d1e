// Package reconcile keeps an in-memory expense list consistent with
// confirmed backend mutations, so a view can re-render after a create,
// update, or delete without a full re-fetch. All operations assume the
// mutation already succeeded server-side; nothing here performs I/O.
package reconcile

import (
	"fintrack/internal/api"
	apperrors "fintrack/internal/errors"
)

// ExpenseList is an ordered list of expense records in backend order.
// The order is never changed client-side.
type ExpenseList struct {
	items []api.Expense
}

// NewExpenseList wraps a freshly fetched list of records.
func NewExpenseList(items []api.Expense) *ExpenseList {
	l := &ExpenseList{items: make([]api.Expense, len(items))}
	copy(l.items, items)
	return l
}

// AfterCreate appends a record confirmed by the backend. The record must be
// the backend's response, not the request: the server-assigned ID and the
// resolved category name are required for display.
func (l *ExpenseList) AfterCreate(rec api.Expense) {
	l.items = append(l.items, rec)
}

// AfterUpdate replaces the record with the same ID in place, preserving
// list order. It fails with RECORD_NOT_FOUND when no such record exists;
// silently inserting would let the list drift from a real fetch.
func (l *ExpenseList) AfterUpdate(rec api.Expense) error {
	for i := range l.items {
		if l.items[i].ID == rec.ID {
			l.items[i] = rec
			return nil
		}
	}
	return apperrors.ErrRecordNotFound
}

// AfterDelete removes the record with the given ID. Removing an absent ID
// is a no-op, so repeated or out-of-order delete confirmations are safe.
func (l *ExpenseList) AfterDelete(id int64) {
	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Items returns a snapshot of the list.
func (l *ExpenseList) Items() []api.Expense {
	out := make([]api.Expense, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of records in the list.
func (l *ExpenseList) Len() int {
	return len(l.items)
}
