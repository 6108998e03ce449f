package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"marketplace-app/internal/models"
)

// Receipt rendering for the invoice branch. The document is HTML stored at a
// deterministic key so re-running the same transition overwrites rather than
// duplicates.

func receiptObjectKey(bookingID string, now time.Time) string {
	return fmt.Sprintf("invoices/%s_%s.html", bookingID, now.Format("20060102"))
}

func renderReceiptHTML(booking *models.Booking, now time.Time) string {
	return fmt.Sprintf(`
    <html>
    <body>
        <h1>Receipt: %s</h1>
        <p><strong>Status:</strong> PAID</p>
        <p><strong>Date:</strong> %s</p>
        <hr/>
        <p><strong>Service:</strong> %s</p>
        <p><strong>Customer:</strong> %s</p>
        <p><strong>Address:</strong> %s</p>
        <h2>Total: CAD $%s</h2>
    </body>
    </html>
    `,
		booking.BookingID,
		now.Format("2006-01-02"),
		orDefault(booking.ServiceName, "Service"),
		orDefault(booking.CustomerName, "Customer"),
		orDefault(booking.CustomerAddress, "N/A"),
		FormatAmount(booking.ServicePrice),
	)
}

// FormatAmount normalizes an exact-decimal amount string to two fraction
// digits, rounding half up. Amounts never pass through a float. Anything
// unparseable renders as 0.00, matching how a missing price is billed.
func FormatAmount(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "0.00"
	}
	intPart, fracPart, _ := strings.Cut(raw, ".")
	if intPart == "" {
		intPart = "0"
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || whole < 0 {
		return "0.00"
	}
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return "0.00"
		}
	}
	frac := fracPart + "00"
	cents, _ := strconv.ParseInt(frac[:2], 10, 64)
	if len(frac) > 2 && frac[2] >= '5' {
		cents++
	}
	if cents == 100 {
		whole++
		cents = 0
	}
	return fmt.Sprintf("%d.%02d", whole, cents)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
