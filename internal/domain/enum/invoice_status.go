package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// InvoiceStatus is the payment state of an invoice. It is independent of workflow progress.
type InvoiceStatus int

const (
	InvoiceStatusPending   InvoiceStatus = 0
	InvoiceStatusPaid      InvoiceStatus = 1
	InvoiceStatusCancelled InvoiceStatus = 2
)

var invoiceStatusNames = [...]string{"pending", "paid", "cancelled"}

func (s InvoiceStatus) String() string {
	if int(s) < 0 || int(s) >= len(invoiceStatusNames) {
		return "pending"
	}
	return invoiceStatusNames[s]
}

// ParseInvoiceStatus accepts the status name in any case.
func ParseInvoiceStatus(str string) (InvoiceStatus, error) {
	for i, name := range invoiceStatusNames {
		if strings.EqualFold(name, strings.TrimSpace(str)) {
			return InvoiceStatus(i), nil
		}
	}
	return InvoiceStatusPending, fmt.Errorf("unknown invoice status %q", str)
}

// CanTransitionTo reports whether the payment state may move to next.
// pending -> paid, pending|paid -> cancelled.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	switch next {
	case InvoiceStatusPaid:
		return s == InvoiceStatusPending
	case InvoiceStatusCancelled:
		return s == InvoiceStatusPending || s == InvoiceStatusPaid
	default:
		return false
	}
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	parsed, err := ParseInvoiceStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
