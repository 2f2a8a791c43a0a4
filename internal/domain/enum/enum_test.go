package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvoiceStatusTransitions(t *testing.T) {
	require.True(t, InvoiceStatusPending.CanTransitionTo(InvoiceStatusPaid))
	require.True(t, InvoiceStatusPending.CanTransitionTo(InvoiceStatusCancelled))
	require.True(t, InvoiceStatusPaid.CanTransitionTo(InvoiceStatusCancelled))

	require.False(t, InvoiceStatusPaid.CanTransitionTo(InvoiceStatusPending))
	require.False(t, InvoiceStatusPaid.CanTransitionTo(InvoiceStatusPaid))
	require.False(t, InvoiceStatusCancelled.CanTransitionTo(InvoiceStatusPaid))
	require.False(t, InvoiceStatusCancelled.CanTransitionTo(InvoiceStatusCancelled))
}

func TestInvoiceStatusJSONAcceptsNameOrNumber(t *testing.T) {
	var s InvoiceStatus
	require.NoError(t, json.Unmarshal([]byte(`"Paid"`), &s))
	require.Equal(t, InvoiceStatusPaid, s)

	require.NoError(t, json.Unmarshal([]byte(`2`), &s))
	require.Equal(t, InvoiceStatusCancelled, s)

	require.Error(t, json.Unmarshal([]byte(`"settled"`), &s))

	out, err := json.Marshal(InvoiceStatusPending)
	require.NoError(t, err)
	require.JSONEq(t, `"pending"`, string(out))
}

func TestWorkflowStatusOrdering(t *testing.T) {
	require.True(t, WorkflowStatusNotStarted.Before(WorkflowStatusInProgress))
	require.True(t, WorkflowStatusInProgress.Before(WorkflowStatusCompleted))
	require.False(t, WorkflowStatusCompleted.Before(WorkflowStatusInProgress))
	require.False(t, WorkflowStatusInProgress.Before(WorkflowStatusInProgress))
}

func TestPaymentMethodValidity(t *testing.T) {
	require.True(t, PaymentMethodBankTransfer.IsValid())
	require.False(t, PaymentMethod("cheque").IsValid())
	require.True(t, DiscountTypePercentage.IsValid())
	require.False(t, DiscountType("item").IsValid())
}
