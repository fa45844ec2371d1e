package api

import (
	"context"
	"io"
	"net/http"
	"testing"

	"fintrack/internal/testutil"
)

func TestReportsExport(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		c, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/reports/export" || r.URL.Query().Get("format") != "csv" {
				t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
			}
			w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
			_, _ = io.WriteString(w, "id,amount\n")
		}))
		defer done()

		body, filename, err := NewReportsClient(c).Export(context.Background(), ExportFormatCSV)
		testutil.AssertNoError(t, err)
		defer func() { _ = body.Close() }()

		if filename != "expenses.csv" {
			t.Errorf("unexpected filename: %q", filename)
		}
		data, _ := io.ReadAll(body)
		if string(data) != "id,amount\n" {
			t.Errorf("unexpected stream: %q", data)
		}
	})

	t.Run("rejects_unknown_format", func(t *testing.T) {
		c, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("no request should reach the backend for a bad format")
		}))
		defer done()

		_, _, err := NewReportsClient(c).Export(context.Background(), "xlsx")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
