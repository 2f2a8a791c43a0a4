package pricing

import (
	"fmt"
	"math/rand"
	"time"
)

// InvoicePeriod is the YYYYMM block that prefixes invoice numbers issued at t.
func InvoicePeriod(t time.Time) string {
	return t.Format("200601")
}

// FormatInvoiceNumber renders prefix + YYYYMM + a four digit sequence.
func FormatInvoiceNumber(prefix, period string, seq int64) string {
	return fmt.Sprintf("%s%s%04d", prefix, period, seq)
}

// NewOrderNumber returns ORD-<unix millis>-<0..999>.
func NewOrderNumber(t time.Time) string {
	return fmt.Sprintf("ORD-%d-%d", t.UnixMilli(), rand.Intn(1000))
}

// ReturnCode is the code printed on the pickup receipt.
func ReturnCode(invoiceNumber string) string {
	return invoiceNumber + "W"
}
