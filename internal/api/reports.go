package api

import (
	"context"
	"io"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/transport"
)

// Export formats supported by the backend.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ReportsClient calls the report export endpoint.
type ReportsClient struct {
	transport *transport.Client
}

// NewReportsClient creates a new ReportsClient.
func NewReportsClient(t *transport.Client) *ReportsClient {
	return &ReportsClient{transport: t}
}

// Export streams an expense report in the given format. The stream is opaque
// to the client; the caller owns the ReadCloser. The returned filename comes
// from the backend and may be empty.
func (c *ReportsClient) Export(ctx context.Context, format string) (io.ReadCloser, string, error) {
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "export format must be csv or pdf")
	}
	return c.transport.Download(ctx, "/reports/export?format="+format)
}
