package dashboard

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"fintrack/internal/api"
)

type fakeAnalytics struct {
	monthly   []api.MonthlySummary
	yearly    []api.YearlySummary
	byCat     []api.CategorySummary
	trends    []api.TrendPoint
	predicted *api.PredictedExpense

	errs   map[string]error
	delays map[string]time.Duration
}

func (f *fakeAnalytics) wait(call string) error {
	if d, ok := f.delays[call]; ok {
		time.Sleep(d)
	}
	return f.errs[call]
}

func (f *fakeAnalytics) MonthlySummary(context.Context) ([]api.MonthlySummary, error) {
	if err := f.wait("monthly"); err != nil {
		return nil, err
	}
	return f.monthly, nil
}

func (f *fakeAnalytics) YearlySummary(context.Context) ([]api.YearlySummary, error) {
	if err := f.wait("yearly"); err != nil {
		return nil, err
	}
	return f.yearly, nil
}

func (f *fakeAnalytics) ByCategory(context.Context) ([]api.CategorySummary, error) {
	if err := f.wait("by-category"); err != nil {
		return nil, err
	}
	return f.byCat, nil
}

func (f *fakeAnalytics) Trends(context.Context) ([]api.TrendPoint, error) {
	if err := f.wait("trends"); err != nil {
		return nil, err
	}
	return f.trends, nil
}

func (f *fakeAnalytics) PredictedExpense(context.Context) (*api.PredictedExpense, error) {
	if err := f.wait("predicted"); err != nil {
		return nil, err
	}
	return f.predicted, nil
}

type fakeExpenses struct {
	expenses []api.Expense
	err      error
	delay    time.Duration
}

func (f *fakeExpenses) List(context.Context) ([]api.Expense, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.expenses, nil
}

func fixedNow() time.Time {
	return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
}

func testAnalytics() *fakeAnalytics {
	return &fakeAnalytics{
		monthly: []api.MonthlySummary{
			{Month: "2024-05", Total: 120.00},
			{Month: "2024-06", Total: 75.50},
		},
		yearly: []api.YearlySummary{
			{Year: 2023, Total: 1800.00, Count: 240},
			{Year: 2024, Total: 500.25, Count: 61},
		},
		byCat: []api.CategorySummary{
			{CategoryID: 3, CategoryName: "Food", Total: 300.00},
			{CategoryID: 4, CategoryName: "Transport", Total: 120.00},
		},
		trends:    []api.TrendPoint{{Date: "2024-06-01", Total: 42.00}},
		predicted: &api.PredictedExpense{PredictedAmount: 80.10, MonthsConsidered: 6},
	}
}

func testExpenses(n int) *fakeExpenses {
	expenses := make([]api.Expense, n)
	for i := range expenses {
		expenses[i] = api.Expense{ID: int64(i + 1), Amount: float64(i+1) * 10}
	}
	return &fakeExpenses{expenses: expenses}
}

func TestLoadDashboard_Derivation(t *testing.T) {
	agg := NewAggregator(testExpenses(7), testAnalytics())
	agg.now = fixedNow

	vm, err := agg.LoadDashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if vm.MonthlyTotal != 75.50 {
		t.Errorf("expected monthly total 75.50 for 2024-06, got %v", vm.MonthlyTotal)
	}
	if vm.YearlyTotal != 500.25 {
		t.Errorf("expected yearly total 500.25 for 2024, got %v", vm.YearlyTotal)
	}
	if vm.TopCategory == nil || vm.TopCategory.Name != "Food" || vm.TopCategory.Total != 300.00 {
		t.Errorf("expected top category Food/300.00, got %+v", vm.TopCategory)
	}
	if vm.Prediction == nil || vm.Prediction.Amount != 80.10 || vm.Prediction.MonthsConsidered != 6 {
		t.Errorf("expected prediction 80.10/6, got %+v", vm.Prediction)
	}
	if len(vm.RecentExpenses) != 5 {
		t.Fatalf("expected 5 recent expenses, got %d", len(vm.RecentExpenses))
	}
	// Backend order, first N, never re-sorted.
	for i, e := range vm.RecentExpenses {
		if e.ID != int64(i+1) {
			t.Errorf("recent expense %d: expected id %d, got %d", i, i+1, e.ID)
		}
	}
}

func TestLoadDashboard_AllOrNothing(t *testing.T) {
	calls := []string{"monthly", "yearly", "by-category", "predicted"}
	for _, failing := range calls {
		t.Run(failing+"_fails", func(t *testing.T) {
			analytics := testAnalytics()
			analytics.errs = map[string]error{failing: errors.New("boom")}

			agg := NewAggregator(testExpenses(3), analytics)
			agg.now = fixedNow

			vm, err := agg.LoadDashboard(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if vm != nil {
				t.Errorf("expected no partial view model, got %+v", vm)
			}
		})
	}

	t.Run("expenses_fail", func(t *testing.T) {
		agg := NewAggregator(&fakeExpenses{err: errors.New("boom")}, testAnalytics())
		agg.now = fixedNow

		vm, err := agg.LoadDashboard(context.Background())
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if vm != nil {
			t.Errorf("expected no partial view model, got %+v", vm)
		}
	})
}

func TestLoadDashboard_OrderIndependence(t *testing.T) {
	permutations := []map[string]time.Duration{
		{"monthly": 30 * time.Millisecond, "yearly": 20 * time.Millisecond, "by-category": 10 * time.Millisecond},
		{"monthly": 0, "yearly": 30 * time.Millisecond, "predicted": 15 * time.Millisecond},
		{"by-category": 30 * time.Millisecond, "predicted": 0},
	}

	var first *ViewModel
	for i, delays := range permutations {
		analytics := testAnalytics()
		analytics.delays = delays
		expenses := testExpenses(7)
		expenses.delay = time.Duration(i) * 10 * time.Millisecond

		agg := NewAggregator(expenses, analytics)
		agg.now = fixedNow

		vm, err := agg.LoadDashboard(context.Background())
		if err != nil {
			t.Fatalf("permutation %d: unexpected error: %v", i, err)
		}
		if first == nil {
			first = vm
			continue
		}
		if !reflect.DeepEqual(first, vm) {
			t.Errorf("permutation %d produced a different view model:\n%+v\nvs\n%+v", i, vm, first)
		}
	}
}

func TestLoadDashboard_AbsentEntriesMeanZero(t *testing.T) {
	analytics := testAnalytics()
	analytics.monthly = []api.MonthlySummary{{Month: "2023-12", Total: 99.00}}
	analytics.yearly = []api.YearlySummary{{Year: 2019, Total: 10.00}}

	agg := NewAggregator(testExpenses(1), analytics)
	agg.now = fixedNow

	vm, err := agg.LoadDashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vm.MonthlyTotal != 0 {
		t.Errorf("expected monthly total 0, got %v", vm.MonthlyTotal)
	}
	if vm.YearlyTotal != 0 {
		t.Errorf("expected yearly total 0, got %v", vm.YearlyTotal)
	}
}

func TestLoadDashboard_EmptyCategorySummary(t *testing.T) {
	analytics := testAnalytics()
	analytics.byCat = nil

	agg := NewAggregator(testExpenses(1), analytics)
	agg.now = fixedNow

	vm, err := agg.LoadDashboard(context.Background())
	if err != nil {
		t.Fatalf("expected empty category summary to be tolerated, got %v", err)
	}
	if vm.TopCategory != nil {
		t.Errorf("expected no top category, got %+v", vm.TopCategory)
	}
}

func TestLoadDashboard_NoResourcesConfigured(t *testing.T) {
	agg := NewAggregator(nil, nil)
	agg.now = fixedNow

	vm, err := agg.LoadDashboard(context.Background())
	if err != nil {
		t.Fatalf("expected vacuous defaults, got error: %v", err)
	}
	if vm.MonthlyTotal != 0 || vm.YearlyTotal != 0 {
		t.Errorf("expected zero totals, got %+v", vm)
	}
	if vm.TopCategory != nil || vm.Prediction != nil {
		t.Errorf("expected no top category or prediction, got %+v", vm)
	}
	if len(vm.RecentExpenses) != 0 {
		t.Errorf("expected no recent expenses, got %d", len(vm.RecentExpenses))
	}
}

func TestLoadAnalytics(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		analytics := testAnalytics()
		agg := NewAggregator(nil, analytics)

		vm, err := agg.LoadAnalytics(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(vm.Monthly) != 2 || len(vm.Yearly) != 2 || len(vm.ByCategory) != 2 || len(vm.Trends) != 1 {
			t.Errorf("unexpected view model: %+v", vm)
		}
		if vm.Predicted == nil || vm.Predicted.MonthsConsidered != 6 {
			t.Errorf("expected prediction carried through, got %+v", vm.Predicted)
		}
		// Backend ranking is opaque; the order must come through untouched.
		if vm.ByCategory[0].CategoryName != "Food" || vm.ByCategory[1].CategoryName != "Transport" {
			t.Errorf("category order changed: %+v", vm.ByCategory)
		}
	})

	t.Run("trends_failure_fails_the_load", func(t *testing.T) {
		analytics := testAnalytics()
		analytics.errs = map[string]error{"trends": errors.New("boom")}
		agg := NewAggregator(nil, analytics)

		vm, err := agg.LoadAnalytics(context.Background())
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if vm != nil {
			t.Errorf("expected no partial view model, got %+v", vm)
		}
	})
}
