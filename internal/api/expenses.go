package api

import (
	"context"
	"fmt"
	"net/http"

	"fintrack/internal/transport"
)

// Payment modes accepted by the backend.
const (
	PaymentModeCash         = "Cash"
	PaymentModeCreditCard   = "CreditCard"
	PaymentModeDebitCard    = "DebitCard"
	PaymentModeBankTransfer = "BankTransfer"
	PaymentModeUPI          = "UPI"
	PaymentModeOther        = "Other"
)

// Expense represents an expense record as returned by the backend.
// CategoryName is resolved server-side from the category reference.
type Expense struct {
	ID           int64   `json:"id"`
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName,omitempty"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	Date         string  `json:"date"` // YYYY-MM-DD
	PaymentMode  string  `json:"paymentMode"`
}

// ExpenseRequest is the payload for creating or updating an expense.
type ExpenseRequest struct {
	CategoryID  int64   `json:"categoryId" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	PaymentMode string  `json:"paymentMode" validate:"required,payment_mode"`
}

// ExpensesClient calls the expense CRUD endpoints.
type ExpensesClient struct {
	transport *transport.Client
}

// NewExpensesClient creates a new ExpensesClient.
func NewExpensesClient(t *transport.Client) *ExpensesClient {
	return &ExpensesClient{transport: t}
}

// List fetches all expenses in backend order.
func (c *ExpensesClient) List(ctx context.Context) ([]Expense, error) {
	var expenses []Expense
	if err := c.transport.Do(ctx, http.MethodGet, "/expenses", nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// Get fetches a single expense by ID.
func (c *ExpensesClient) Get(ctx context.Context, id int64) (*Expense, error) {
	var expense Expense
	if err := c.transport.Do(ctx, http.MethodGet, fmt.Sprintf("/expenses/%d", id), nil, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// Create submits a new expense and returns the record with its
// server-assigned ID and resolved category name.
func (c *ExpensesClient) Create(ctx context.Context, req ExpenseRequest) (*Expense, error) {
	var expense Expense
	if err := c.transport.Do(ctx, http.MethodPost, "/expenses", req, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// Update replaces an existing expense and returns the updated record.
func (c *ExpensesClient) Update(ctx context.Context, id int64, req ExpenseRequest) (*Expense, error) {
	var expense Expense
	if err := c.transport.Do(ctx, http.MethodPut, fmt.Sprintf("/expenses/%d", id), req, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// Delete removes an expense by ID.
func (c *ExpensesClient) Delete(ctx context.Context, id int64) error {
	return c.transport.Do(ctx, http.MethodDelete, fmt.Sprintf("/expenses/%d", id), nil, nil)
}
