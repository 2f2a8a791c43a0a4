package pricing

import (
	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/pkg/apperror"
)

// ValidateForIssue checks that a customer is selected and every line has a quantity and a service.
func ValidateForIssue(customerID *uuid.UUID, items []LineItem) error {
	if customerID == nil || *customerID == uuid.Nil {
		return apperror.ErrMissingCustomer
	}
	if len(items) == 0 {
		return apperror.ErrEmptyCart
	}
	for i, item := range items {
		if item.Quantity < 1 {
			return apperror.ErrInvalidQuantity.With("line", i).With("sub_item", item.SubItemName)
		}
		if len(item.Services) == 0 {
			return apperror.ErrLineItemMissingService.With("line", i).With("sub_item", item.SubItemName)
		}
	}
	return nil
}
