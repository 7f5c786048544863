package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ecom-analytics/pkg/models"
)

// WriteReport writes the two-section revenue report: monthly trends, one
// blank line, category performance. Field values never contain commas, so
// rows are emitted verbatim without quoting.
func WriteReport(w io.Writer, snap *models.Snapshot) error {
	if _, err := io.WriteString(w, "Monthly Revenue Report\nMonth,Revenue,Orders,Customers,AOV\n"); err != nil {
		return err
	}
	for _, row := range snap.MonthlyTrends {
		if _, err := fmt.Fprintf(w, "%s,%d,%d,%d,%d\n",
			row.Month, row.Revenue, row.Orders, row.Customers, row.AOV); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\nCategory Performance\nCategory,Revenue,Units,Profit,Margin\n"); err != nil {
		return err
	}
	for _, row := range snap.CategoryPerformance {
		if _, err := fmt.Fprintf(w, "%s,%d,%d,%d,%d%%\n",
			row.Category, row.Revenue, row.Units, row.Profit, row.Margin); err != nil {
			return err
		}
	}
	return nil
}

// ExportReport writes the report to path, creating parent directories as
// needed.
func ExportReport(path string, snap *models.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if err := WriteReport(file, snap); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
