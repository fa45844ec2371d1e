package validator

import (
	"errors"
	"testing"

	"fintrack/internal/api"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/testutil"
)

func TestValidateExpenseRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := api.ExpenseRequest{CategoryID: 3, Amount: 42.00, Date: "2024-06-01", PaymentMode: "Cash"}
		testutil.AssertNoError(t, Validate(req))
	})

	t.Run("collects_field_reasons_under_wire_names", func(t *testing.T) {
		req := api.ExpenseRequest{Amount: -5, Date: "June 1st", PaymentMode: "Cheque"}
		err := Validate(req)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		var appErr *apperrors.AppError
		errors.As(err, &appErr)
		for _, field := range []string{"categoryId", "amount", "date", "paymentMode"} {
			if appErr.Fields[field] == "" {
				t.Errorf("expected a reason for field %q, got %+v", field, appErr.Fields)
			}
		}
	})

	t.Run("payment_mode_enum", func(t *testing.T) {
		for _, mode := range []string{"Cash", "CreditCard", "DebitCard", "BankTransfer", "UPI", "Other"} {
			req := api.ExpenseRequest{CategoryID: 1, Amount: 1, Date: "2024-06-01", PaymentMode: mode}
			if err := Validate(req); err != nil {
				t.Errorf("mode %q should be valid: %v", mode, err)
			}
		}

		req := api.ExpenseRequest{CategoryID: 1, Amount: 1, Date: "2024-06-01", PaymentMode: "cash"}
		err := Validate(req)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		var appErr *apperrors.AppError
		errors.As(err, &appErr)
		if appErr.Fields["paymentMode"] == "" {
			t.Errorf("expected a paymentMode reason, got %+v", appErr.Fields)
		}
	})
}

func TestValidateAuthRequests(t *testing.T) {
	t.Run("register", func(t *testing.T) {
		testutil.AssertNoError(t, Validate(api.RegisterRequest{
			Name: "Ada", Email: "ada@example.com", Password: "password123",
		}))

		err := Validate(api.RegisterRequest{Name: "Ada", Email: "not-an-email", Password: "short"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		var appErr *apperrors.AppError
		errors.As(err, &appErr)
		if appErr.Fields["email"] == "" || appErr.Fields["password"] == "" {
			t.Errorf("expected email and password reasons, got %+v", appErr.Fields)
		}
	})

	t.Run("login", func(t *testing.T) {
		err := Validate(api.LoginRequest{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestValidateCategoryRequest(t *testing.T) {
	testutil.AssertNoError(t, Validate(api.CategoryRequest{Name: "Books"}))

	err := Validate(api.CategoryRequest{Description: "no name"})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	var appErr *apperrors.AppError
	errors.As(err, &appErr)
	if appErr.Fields["name"] == "" {
		t.Errorf("expected a name reason, got %+v", appErr.Fields)
	}
}
