// Package dashboard merges several concurrent backend queries into the
// single view model a dashboard or analytics view renders from. A load is
// all-or-nothing: if any one fetch fails the whole load fails, because
// cross-referencing an incomplete set of resources risks rendering an
// inconsistent state. Failed loads are retried only by explicit caller
// action; nothing here retries in the background.
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/api"
)

// recentExpenseCount bounds the dashboard's recent-expenses prefix.
const recentExpenseCount = 5

// ExpenseSource is the slice of the expenses client the aggregator needs.
type ExpenseSource interface {
	List(ctx context.Context) ([]api.Expense, error)
}

// AnalyticsSource is the slice of the analytics client the aggregator needs.
type AnalyticsSource interface {
	MonthlySummary(ctx context.Context) ([]api.MonthlySummary, error)
	YearlySummary(ctx context.Context) ([]api.YearlySummary, error)
	ByCategory(ctx context.Context) ([]api.CategorySummary, error)
	Trends(ctx context.Context) ([]api.TrendPoint, error)
	PredictedExpense(ctx context.Context) (*api.PredictedExpense, error)
}

// TopCategory is the highest-ranked spending category, per backend order.
type TopCategory struct {
	Name  string
	Total float64
}

// Prediction is the backend's next-month spending estimate.
type Prediction struct {
	Amount           float64
	MonthsConsidered int
}

// ViewModel is the derived dashboard state for one render cycle. It is
// recomputed on every load and never persisted.
type ViewModel struct {
	MonthlyTotal   float64
	YearlyTotal    float64
	TopCategory    *TopCategory
	Prediction     *Prediction
	RecentExpenses []api.Expense
}

// AnalyticsViewModel carries the analytics view's resources, fetched in one
// consistent load.
type AnalyticsViewModel struct {
	Monthly    []api.MonthlySummary
	Yearly     []api.YearlySummary
	ByCategory []api.CategorySummary
	Trends     []api.TrendPoint
	Predicted  *api.PredictedExpense
}

// Aggregator orchestrates concurrent fetches and derives view models.
type Aggregator struct {
	expenses  ExpenseSource
	analytics AnalyticsSource
	now       func() time.Time
}

// NewAggregator creates an aggregator over the given sources. A nil source
// is skipped: its slice of the view model stays at the vacuous default
// instead of failing the load.
func NewAggregator(expenses ExpenseSource, analytics AnalyticsSource) *Aggregator {
	return &Aggregator{
		expenses:  expenses,
		analytics: analytics,
		now:       time.Now,
	}
}

// LoadDashboard fans out the dashboard's backend queries concurrently,
// awaits them all, and derives the view model locally. Completion order of
// the fetches never affects the result.
func (a *Aggregator) LoadDashboard(ctx context.Context) (*ViewModel, error) {
	var (
		monthly   []api.MonthlySummary
		yearly    []api.YearlySummary
		byCat     []api.CategorySummary
		predicted *api.PredictedExpense
		expenses  []api.Expense
	)

	g, ctx := errgroup.WithContext(ctx)
	if a.analytics != nil {
		g.Go(func() error {
			var err error
			monthly, err = a.analytics.MonthlySummary(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			yearly, err = a.analytics.YearlySummary(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			byCat, err = a.analytics.ByCategory(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			predicted, err = a.analytics.PredictedExpense(ctx)
			return err
		})
	}
	if a.expenses != nil {
		g.Go(func() error {
			var err error
			expenses, err = a.expenses.List(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	vm := &ViewModel{
		MonthlyTotal: currentMonthTotal(monthly, a.now()),
		YearlyTotal:  currentYearTotal(yearly, a.now()),
	}
	if len(byCat) > 0 {
		vm.TopCategory = &TopCategory{Name: byCat[0].CategoryName, Total: byCat[0].Total}
	}
	if predicted != nil {
		vm.Prediction = &Prediction{Amount: predicted.PredictedAmount, MonthsConsidered: predicted.MonthsConsidered}
	}
	if len(expenses) > recentExpenseCount {
		expenses = expenses[:recentExpenseCount]
	}
	vm.RecentExpenses = expenses

	return vm, nil
}

// LoadAnalytics fetches the analytics view's resources in one consistent
// load, with the same all-or-nothing policy as the dashboard.
func (a *Aggregator) LoadAnalytics(ctx context.Context) (*AnalyticsViewModel, error) {
	vm := &AnalyticsViewModel{}
	if a.analytics == nil {
		return vm, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vm.Monthly, err = a.analytics.MonthlySummary(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		vm.Yearly, err = a.analytics.YearlySummary(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		vm.ByCategory, err = a.analytics.ByCategory(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		vm.Trends, err = a.analytics.Trends(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		vm.Predicted, err = a.analytics.PredictedExpense(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vm, nil
}

// currentMonthTotal picks the entry whose label matches the current
// calendar year-month in local time. Absent means zero, not an error.
func currentMonthTotal(monthly []api.MonthlySummary, now time.Time) float64 {
	label := now.Format("2006-01")
	for _, m := range monthly {
		if m.Month == label {
			return m.Total
		}
	}
	return 0
}

// currentYearTotal picks the entry for the current calendar year.
func currentYearTotal(yearly []api.YearlySummary, now time.Time) float64 {
	for _, y := range yearly {
		if y.Year == now.Year() {
			return y.Total
		}
	}
	return 0
}
