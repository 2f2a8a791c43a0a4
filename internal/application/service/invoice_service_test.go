package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	infraRepo "github.com/sangkips/laundry-api/internal/infrastructure/repository"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestIssueInvoice_PricesAndNumbers(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	out, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 2, cat.dryClean.ID)},
		AmountPaid: dec("60"),
	})
	require.NoError(t, err)
	require.False(t, out.Replayed)

	inv := out.Invoice
	require.Equal(t, "2026030001", inv.InvoiceNumber)
	require.Contains(t, inv.OrderNumber, "ORD-")
	requireMoney(t, "50", inv.Subtotal)
	requireMoney(t, "0", inv.Discount)
	requireMoney(t, "7.5", inv.Tax)
	requireMoney(t, "57.5", inv.Total)
	requireMoney(t, "2.5", inv.Remaining)
	require.Equal(t, 2, inv.PiecesCount)
	require.Equal(t, enum.InvoiceStatusPaid, inv.Status)
	require.Equal(t, enum.PaymentMethodCash, inv.PaymentMethod)
	require.NotNil(t, inv.PaidAt)

	stored, err := env.invoices.GetInvoice(env.ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	require.Equal(t, "Shirt", stored.Items[0].SubItemName)
	require.Equal(t, "Clothes", stored.Items[0].DepartmentName)
	require.Len(t, stored.Items[0].Services, 1)
	require.Equal(t, "Dry clean", stored.Items[0].Services[0].ServiceName)
	requireMoney(t, "57.5", stored.Total)

	second, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 1, cat.wash.ID, cat.iron.ID)},
	})
	require.NoError(t, err)
	require.Equal(t, "2026030002", second.Invoice.InvoiceNumber)
	// Iron uses the shirt price of 7, not the base price of 5
	requireMoney(t, "17", second.Invoice.Subtotal)
}

func TestIssueInvoice_ClientPriceIsKept(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	seen := dec("20")
	out, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines: []LineInput{{
			SubItemID: cat.shirt.ID,
			Quantity:  1,
			Services:  []LineServiceInput{{ServiceID: cat.dryClean.ID, UnitPrice: &seen}},
		}},
	})
	require.NoError(t, err)
	requireMoney(t, "20", out.Invoice.Subtotal)
}

func TestIssueInvoice_Validation(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")
	unknown := uuid.New()

	tests := []struct {
		name  string
		input *IssueInvoiceInput
		kind  apperror.Kind
	}{
		{
			name:  "no customer",
			input: &IssueInvoiceInput{Lines: []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)}},
			kind:  apperror.KindMissingCustomer,
		},
		{
			name:  "unknown customer",
			input: &IssueInvoiceInput{CustomerID: &unknown, Lines: []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)}},
			kind:  apperror.KindMissingCustomer,
		},
		{
			name:  "empty cart",
			input: &IssueInvoiceInput{CustomerID: &customer.ID},
			kind:  apperror.KindEmptyCart,
		},
		{
			name:  "zero quantity",
			input: &IssueInvoiceInput{CustomerID: &customer.ID, Lines: []LineInput{line(cat.shirt.ID, 0, cat.wash.ID)}},
			kind:  apperror.KindInvalidQuantity,
		},
		{
			name:  "line without service",
			input: &IssueInvoiceInput{CustomerID: &customer.ID, Lines: []LineInput{line(cat.shirt.ID, 1)}},
			kind:  apperror.KindLineItemMissingService,
		},
		{
			name:  "missing customer wins over empty cart",
			input: &IssueInvoiceInput{},
			kind:  apperror.KindMissingCustomer,
		},
		{
			name: "bad payment method",
			input: &IssueInvoiceInput{
				CustomerID:    &customer.ID,
				Lines:         []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)},
				PaymentMethod: enum.PaymentMethod("cheque"),
			},
			kind: apperror.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.invoices.IssueInvoice(env.ctx, tt.input)
			require.Error(t, err)
			require.True(t, apperror.IsKind(err, tt.kind), "got %v", err)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&entity.Invoice{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestIssueInvoice_LineContextOnMissingService(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	_, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines: []LineInput{
			line(cat.shirt.ID, 1, cat.wash.ID),
			line(cat.shirt.ID, 1),
		},
	})
	appErr := apperror.GetAppError(err)
	require.Equal(t, apperror.KindLineItemMissingService, appErr.Kind)
	require.Equal(t, 1, appErr.Context["line"])
}

func TestIssueInvoice_Coupons(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	limit := 1
	coupon, err := env.coupons.CreateCoupon(env.ctx, &CouponInput{
		Code:          "save10",
		DiscountType:  enum.DiscountTypePercentage,
		DiscountValue: dec("10"),
		UsageLimit:    &limit,
		Active:        true,
	})
	require.NoError(t, err)
	require.Equal(t, "SAVE10", coupon.Code)

	input := func() *IssueInvoiceInput {
		return &IssueInvoiceInput{
			CustomerID: &customer.ID,
			Lines:      []LineInput{line(cat.shirt.ID, 2, cat.dryClean.ID)},
			Discount:   dec("3"),
			CouponCode: " save10 ",
		}
	}

	out, err := env.invoices.IssueInvoice(env.ctx, input())
	require.NoError(t, err)
	inv := out.Invoice
	// The coupon replaces the manual discount of 3
	requireMoney(t, "5", inv.Discount)
	requireMoney(t, "6.75", inv.Tax)
	requireMoney(t, "51.75", inv.Total)
	require.NotNil(t, inv.CouponCode)
	require.Equal(t, "SAVE10", *inv.CouponCode)

	used, err := env.coupons.GetCoupon(env.ctx, coupon.ID)
	require.NoError(t, err)
	require.Equal(t, 1, used.UsedCount)

	_, err = env.invoices.IssueInvoice(env.ctx, input())
	require.True(t, apperror.IsKind(err, apperror.KindInvalidCoupon))

	// The rejected checkout consumed neither a number nor a coupon use
	next, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)},
	})
	require.NoError(t, err)
	require.Equal(t, "2026030002", next.Invoice.InvoiceNumber)

	used, err = env.coupons.GetCoupon(env.ctx, coupon.ID)
	require.NoError(t, err)
	require.Equal(t, 1, used.UsedCount)
}

func TestIssueInvoice_FixedCouponCappedAtSubtotal(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	_, err := env.coupons.CreateCoupon(env.ctx, &CouponInput{
		Code:          "BIG",
		DiscountType:  enum.DiscountTypeFixed,
		DiscountValue: dec("100"),
		Active:        true,
	})
	require.NoError(t, err)

	out, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 2, cat.dryClean.ID)},
		CouponCode: "BIG",
	})
	require.NoError(t, err)
	requireMoney(t, "50", out.Invoice.Discount)
	requireMoney(t, "0", out.Invoice.Tax)
	requireMoney(t, "0", out.Invoice.Total)
}

func TestIssueInvoice_ConcurrentCouponRedemption(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	limit := 2
	coupon, err := env.coupons.CreateCoupon(env.ctx, &CouponInput{
		Code:          "TWICE",
		DiscountType:  enum.DiscountTypeFixed,
		DiscountValue: dec("5"),
		UsageLimit:    &limit,
		Active:        true,
	})
	require.NoError(t, err)

	const workers = 6
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
				CustomerID: &customer.ID,
				Lines:      []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)},
				CouponCode: "TWICE",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t, apperror.IsKind(err, apperror.KindInvalidCoupon), "got %v", err)
	}
	require.Equal(t, limit, succeeded)

	stored, err := env.coupons.GetCoupon(env.ctx, coupon.ID)
	require.NoError(t, err)
	require.Equal(t, limit, stored.UsedCount)
}

func TestIssueInvoice_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	input := &IssueInvoiceInput{
		CustomerID:     &customer.ID,
		Lines:          []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)},
		IdempotencyKey: "checkout-1",
	}

	first, err := env.invoices.IssueInvoice(env.ctx, input)
	require.NoError(t, err)
	again, err := env.invoices.IssueInvoice(env.ctx, input)
	require.NoError(t, err)

	require.True(t, again.Replayed)
	require.Equal(t, first.Invoice.ID, again.Invoice.ID)

	var count int64
	require.NoError(t, env.db.Model(&entity.Invoice{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestIssueInvoice_RequireFullPayment(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	require := require.New(t)
	on := true
	_, err := env.settings.UpdateSettings(env.ctx, &UpdateSettingsInput{RequireFullPayment: &on})
	require.NoError(err)

	_, err = env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 2, cat.dryClean.ID)},
		AmountPaid: dec("50"),
	})
	require.True(apperror.IsKind(err, apperror.KindInsufficientPayment))
	require.Equal("57.50", apperror.GetAppError(err).Context["total"])

	out, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 2, cat.dryClean.ID)},
		AmountPaid: dec("57.5"),
	})
	require.NoError(err)
	requireMoney(t, "0", out.Invoice.Remaining)
}

func TestIssueInvoice_ShopSettings(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	rate := dec("5")
	prefix := "CC-"
	status := "pending"
	_, err := env.settings.UpdateSettings(env.ctx, &UpdateSettingsInput{
		TaxRate:              &rate,
		InvoicePrefix:        &prefix,
		DefaultInvoiceStatus: &status,
	})
	require.NoError(t, err)

	out, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 2, cat.dryClean.ID)},
	})
	require.NoError(t, err)
	require.Equal(t, "CC-2026030001", out.Invoice.InvoiceNumber)
	require.Equal(t, enum.InvoiceStatusPending, out.Invoice.Status)
	require.Nil(t, out.Invoice.PaidAt)
	requireMoney(t, "2.5", out.Invoice.Tax)
	requireMoney(t, "52.5", out.Invoice.Total)
}

func TestQuote_DoesNotRedeemCoupon(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)

	coupon, err := env.coupons.CreateCoupon(env.ctx, &CouponInput{
		Code:          "SAVE10",
		DiscountType:  enum.DiscountTypePercentage,
		DiscountValue: dec("10"),
		Active:        true,
	})
	require.NoError(t, err)

	quote, err := env.invoices.Quote(env.ctx, &QuoteInput{
		Lines:      []LineInput{line(cat.shirt.ID, 2, cat.dryClean.ID)},
		Discount:   dec("2"),
		CouponCode: "SAVE10",
	})
	require.NoError(t, err)
	require.Equal(t, "SAR", quote.Currency)
	require.Equal(t, "SAVE10", quote.Breakdown.CouponCode)
	requireMoney(t, "5", quote.Breakdown.Discount)
	requireMoney(t, "51.75", quote.Breakdown.Total)

	stored, err := env.coupons.GetCoupon(env.ctx, coupon.ID)
	require.NoError(t, err)
	require.Zero(t, stored.UsedCount)

	// An empty code falls back to the manual discount
	quote, err = env.invoices.Quote(env.ctx, &QuoteInput{
		Lines:    []LineInput{line(cat.shirt.ID, 2, cat.dryClean.ID)},
		Discount: dec("2"),
	})
	require.NoError(t, err)
	requireMoney(t, "2", quote.Breakdown.Discount)

	_, err = env.invoices.Quote(env.ctx, &QuoteInput{
		Lines:      []LineInput{line(cat.shirt.ID, 1, cat.dryClean.ID)},
		CouponCode: "NOPE",
	})
	require.True(t, apperror.IsKind(err, apperror.KindInvalidCoupon))
	require.Equal(t, "not_found", apperror.GetAppError(err).Context["reason"])
}

func TestReturnInvoice(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	out, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 2, cat.dryClean.ID)},
	})
	require.NoError(t, err)

	returned, err := env.invoices.ReturnInvoice(env.ctx, out.Invoice.ID, "")
	require.NoError(t, err)
	require.True(t, returned.IsReturned)
	require.Equal(t, "2026030001W", *returned.ReturnCode)

	_, err = env.invoices.ReturnInvoice(env.ctx, out.Invoice.ID, "OTHER")
	require.True(t, apperror.IsKind(err, apperror.KindAlreadyReturned))

	stored, err := env.invoices.GetInvoice(env.ctx, out.Invoice.ID)
	require.NoError(t, err)
	require.Equal(t, "2026030001W", *stored.ReturnCode)
	requireMoney(t, "57.5", stored.Total)

	_, err = env.invoices.CancelInvoice(env.ctx, out.Invoice.ID)
	require.True(t, apperror.IsKind(err, apperror.KindInvalidStatusTransition))
}

func TestPaymentTransitions(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	pending := enum.InvoiceStatusPending
	out, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)},
		Status:     &pending,
	})
	require.NoError(t, err)
	id := out.Invoice.ID

	paid, err := env.invoices.MarkPaid(env.ctx, id)
	require.NoError(t, err)
	require.Equal(t, enum.InvoiceStatusPaid, paid.Status)

	_, err = env.invoices.MarkPaid(env.ctx, id)
	require.True(t, apperror.IsKind(err, apperror.KindInvalidStatusTransition))

	cancelled, err := env.invoices.CancelInvoice(env.ctx, id)
	require.NoError(t, err)
	require.Equal(t, enum.InvoiceStatusCancelled, cancelled.Status)

	_, err = env.invoices.CancelInvoice(env.ctx, id)
	require.True(t, apperror.IsKind(err, apperror.KindInvalidStatusTransition))

	stored, err := env.invoices.GetInvoice(env.ctx, id)
	require.NoError(t, err)
	require.Equal(t, enum.InvoiceStatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)
}

func TestInvoices_TenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	out, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)},
	})
	require.NoError(t, err)

	other := env.createShop(t, "Other Shop")
	otherCtx := infraRepo.WithTenant(env.ctx, other.ID)

	_, err = env.invoices.GetInvoice(otherCtx, out.Invoice.ID)
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))

	// Numbering is per shop
	otherCustomer, err := env.customers.CreateCustomer(otherCtx, &CreateCustomerInput{Name: "Omar"})
	require.NoError(t, err)
	_, err = env.invoices.IssueInvoice(otherCtx, &IssueInvoiceInput{
		CustomerID: &otherCustomer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)},
	})
	require.True(t, apperror.IsKind(err, apperror.KindNotFound), "catalog of another shop must not resolve")
}

func TestListInvoices_Filters(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	sara := env.createCustomer(t, "Sara", "0500000001")
	omar := env.createCustomer(t, "Omar", "0500000002")

	for _, c := range []*entity.Customer{sara, sara, omar} {
		_, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
			CustomerID: &c.ID,
			Lines:      []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)},
		})
		require.NoError(t, err)
	}

	result, err := env.invoices.ListInvoices(env.ctx, &repository.InvoiceFilterParams{
		InvoiceFilter: repository.InvoiceFilter{CustomerID: &sara.ID},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.EqualValues(t, 2, result.Pagination.Total)

	byNumber, err := env.invoices.GetInvoiceByNumber(env.ctx, "2026030003")
	require.NoError(t, err)
	require.Equal(t, omar.ID, byNumber.CustomerID)

	cursor, err := env.invoices.ListInvoicesWithCursor(env.ctx, &repository.InvoiceCursorFilterParams{
		Cursor: &pagination.CursorParams{Direction: pagination.CursorDirectionNext, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, cursor.Items, 2)
	require.True(t, cursor.Pagination.HasNext)
}

func TestSubtotalIsAdditive(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)

	one, err := env.invoices.Quote(env.ctx, &QuoteInput{Lines: []LineInput{line(cat.shirt.ID, 1, cat.wash.ID)}})
	require.NoError(t, err)
	two, err := env.invoices.Quote(env.ctx, &QuoteInput{Lines: []LineInput{
		line(cat.shirt.ID, 1, cat.wash.ID),
		line(cat.shirt.ID, 3, cat.iron.ID, cat.dryClean.ID),
	}})
	require.NoError(t, err)

	require.True(t, two.Breakdown.Subtotal.GreaterThan(one.Breakdown.Subtotal))
	require.True(t, two.Breakdown.Subtotal.Equal(decimal.NewFromInt(10+3*(7+25))))
}
