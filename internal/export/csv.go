// Package export renders admin order lists as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/example/storefront/internal/infrastructure/reporting"
)

var header = []string{
	"id", "orderNumber", "status", "customer", "email", "phone",
	"address", "payment", "items", "total", "placedAt",
}

// WriteOrders writes order rows as CSV. Items are flattened to a single
// "title × qty; ..." column, the shape the console has always exported.
func WriteOrders(w io.Writer, rows []reporting.OrderRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		items := make([]string, 0, len(row.Items))
		for _, line := range row.Items {
			items = append(items, fmt.Sprintf("%s × %d", line.Item.Title, line.Quantity))
		}

		record := []string{
			row.ID,
			row.OrderNumber,
			row.Status,
			row.Customer,
			row.Email,
			row.Phone,
			row.Address,
			row.Payment,
			strings.Join(items, "; "),
			row.Total.StringFixed(2),
			row.PlacedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
