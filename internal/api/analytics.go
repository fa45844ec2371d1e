package api

import (
	"context"
	"net/http"

	"fintrack/internal/transport"
)

// MonthlySummary is one month's spending total. Month is a "YYYY-MM" label.
type MonthlySummary struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// YearlySummary is one year's spending total and expense count.
type YearlySummary struct {
	Year  int     `json:"year"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// CategorySummary is the spending total for one category. The backend
// returns these already ranked; the client never re-sorts them.
type CategorySummary struct {
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Total        float64 `json:"total"`
}

// TrendPoint is the spending total for one calendar day.
type TrendPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Total float64 `json:"total"`
}

// PredictedExpense is the backend's next-month spending prediction.
type PredictedExpense struct {
	PredictedAmount  float64 `json:"predictedAmount"`
	MonthsConsidered int     `json:"monthsConsidered"`
}

// AnalyticsClient calls the server-computed analytics endpoints.
type AnalyticsClient struct {
	transport *transport.Client
}

// NewAnalyticsClient creates a new AnalyticsClient.
func NewAnalyticsClient(t *transport.Client) *AnalyticsClient {
	return &AnalyticsClient{transport: t}
}

// MonthlySummary fetches per-month totals for the trailing year.
func (c *AnalyticsClient) MonthlySummary(ctx context.Context) ([]MonthlySummary, error) {
	var summaries []MonthlySummary
	if err := c.transport.Do(ctx, http.MethodGet, "/analytics/monthly-summary", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// YearlySummary fetches per-year totals.
func (c *AnalyticsClient) YearlySummary(ctx context.Context) ([]YearlySummary, error) {
	var summaries []YearlySummary
	if err := c.transport.Do(ctx, http.MethodGet, "/analytics/yearly-summary", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// ByCategory fetches per-category totals in backend ranking order.
func (c *AnalyticsClient) ByCategory(ctx context.Context) ([]CategorySummary, error) {
	var summaries []CategorySummary
	if err := c.transport.Do(ctx, http.MethodGet, "/analytics/by-category", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Trends fetches daily spending totals for the trailing months.
func (c *AnalyticsClient) Trends(ctx context.Context) ([]TrendPoint, error) {
	var points []TrendPoint
	if err := c.transport.Do(ctx, http.MethodGet, "/analytics/trends", nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// PredictedExpense fetches the next-month prediction.
func (c *AnalyticsClient) PredictedExpense(ctx context.Context) (*PredictedExpense, error) {
	var predicted PredictedExpense
	if err := c.transport.Do(ctx, http.MethodGet, "/analytics/predicted-expense", nil, &predicted); err != nil {
		return nil, err
	}
	return &predicted, nil
}
