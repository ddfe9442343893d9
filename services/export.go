// File: services/export.go
package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"cmv-site/logger"
)

// CSVSource streams the registrations export.
type CSVSource interface {
	ExportRegistrationsCSV(ctx context.Context) (io.ReadCloser, error)
}

// RegistrationsExportFilename names the download for the UTC date of t,
// e.g. cgcc2025-registrations-2025-01-31.csv.
func RegistrationsExportFilename(t time.Time) string {
	return fmt.Sprintf("cgcc2025-registrations-%s.csv", t.UTC().Format("2006-01-02"))
}

// ExportRegistrations copies the CSV stream to w and returns the byte count.
func ExportRegistrations(ctx context.Context, src CSVSource, w io.Writer) (int64, error) {
	rc, err := src.ExportRegistrationsCSV(ctx)
	if err != nil {
		return 0, fmt.Errorf("export registrations: %w", err)
	}
	defer rc.Close()

	n, err := io.Copy(w, rc)
	if err != nil {
		return n, fmt.Errorf("export registrations: copy: %w", err)
	}
	logger.Info.Printf("ExportRegistrations: wrote %d bytes", n)
	return n, nil
}
