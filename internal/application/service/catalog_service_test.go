package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/pkg/apperror"
	"github.com/sangkips/laundry-api/pkg/pagination"
	"github.com/stretchr/testify/require"
)

func TestServicesForSubItem(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)

	priced, err := env.catalog.ServicesForSubItem(env.ctx, cat.shirt.ID)
	require.NoError(t, err)
	require.Len(t, priced, 3)

	prices := map[uuid.UUID]string{}
	for _, p := range priced {
		prices[p.ServiceID] = p.UnitPrice.StringFixed(2)
	}
	require.Equal(t, "7.00", prices[cat.iron.ID])
	require.Equal(t, "10.00", prices[cat.wash.ID])

	inactive := false
	_, err = env.catalog.UpdateService(env.ctx, &UpdateServiceInput{ID: cat.wash.ID, Active: &inactive})
	require.NoError(t, err)

	priced, err = env.catalog.ServicesForSubItem(env.ctx, cat.shirt.ID)
	require.NoError(t, err)
	require.Len(t, priced, 2)
}

func TestResolveLines(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)

	items, err := env.catalog.ResolveLines(env.ctx, []LineInput{
		line(cat.shirt.ID, 2, cat.iron.ID, cat.iron.ID, cat.wash.ID),
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, items[0].Services, 2, "a repeated service is priced once")
	requireMoney(t, "17", items[0].UnitTotal())
	requireMoney(t, "34", items[0].LineTotal())

	_, err = env.catalog.ResolveLines(env.ctx, []LineInput{line(uuid.New(), 1, cat.iron.ID)})
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = env.catalog.ResolveLines(env.ctx, []LineInput{line(cat.shirt.ID, 1, uuid.New())})
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))

	negative := dec("-1")
	_, err = env.catalog.ResolveLines(env.ctx, []LineInput{{
		SubItemID: cat.shirt.ID,
		Quantity:  1,
		Services:  []LineServiceInput{{ServiceID: cat.iron.ID, UnitPrice: &negative}},
	}})
	require.Error(t, err)
}

func TestCatalogPricesDoNotRewriteInvoices(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCatalog(t)
	customer := env.createCustomer(t, "Sara", "0500000001")

	out, err := env.invoices.IssueInvoice(env.ctx, &IssueInvoiceInput{
		CustomerID: &customer.ID,
		Lines:      []LineInput{line(cat.shirt.ID, 2, cat.dryClean.ID)},
	})
	require.NoError(t, err)

	price := dec("40")
	name := "Premium dry clean"
	_, err = env.catalog.UpdateService(env.ctx, &UpdateServiceInput{ID: cat.dryClean.ID, Name: &name, BasePrice: &price})
	require.NoError(t, err)

	stored, err := env.invoices.GetInvoice(env.ctx, out.Invoice.ID)
	require.NoError(t, err)
	requireMoney(t, "57.5", stored.Total)
	require.Equal(t, "Dry clean", stored.Items[0].Services[0].ServiceName)
	requireMoney(t, "25", stored.Items[0].Services[0].UnitPrice)
}

func TestCoupons(t *testing.T) {
	env := newTestEnv(t)

	minPurchase := dec("30")
	ends := testNow.Add(24 * time.Hour)
	coupon, err := env.coupons.CreateCoupon(env.ctx, &CouponInput{
		Code:          "Spring",
		DiscountType:  enum.DiscountTypePercentage,
		DiscountValue: dec("20"),
		MinPurchase:   &minPurchase,
		EndsAt:        &ends,
		Active:        true,
	})
	require.NoError(t, err)

	_, err = env.coupons.CreateCoupon(env.ctx, &CouponInput{Code: "SPRING", DiscountType: enum.DiscountTypeFixed, DiscountValue: dec("1"), Active: true})
	require.True(t, apperror.IsKind(err, apperror.KindConflict))

	_, err = env.coupons.CreateCoupon(env.ctx, &CouponInput{Code: "BAD", DiscountType: enum.DiscountTypePercentage, DiscountValue: dec("120")})
	require.True(t, apperror.IsKind(err, apperror.KindValidation))

	result, err := env.coupons.ValidateCoupon(env.ctx, "spring", dec("50"))
	require.NoError(t, err)
	require.Equal(t, coupon.ID, result.Coupon.ID)
	requireMoney(t, "10", result.Discount)

	_, err = env.coupons.ValidateCoupon(env.ctx, "spring", dec("20"))
	require.True(t, apperror.IsKind(err, apperror.KindInvalidCoupon))
	require.Equal(t, "below_min_purchase", apperror.GetAppError(err).Context["reason"])

	_, err = env.coupons.ValidateCoupon(env.ctx, "unknown", dec("50"))
	require.True(t, apperror.IsKind(err, apperror.KindInvalidCoupon))
	require.Equal(t, "not_found", apperror.GetAppError(err).Context["reason"])

	env.coupons.now = func() time.Time { return ends.Add(time.Minute) }
	_, err = env.coupons.ValidateCoupon(env.ctx, "spring", dec("50"))
	require.Equal(t, "expired", apperror.GetAppError(err).Context["reason"])

	list, err := env.coupons.ListCoupons(env.ctx, pagination.DefaultPagination(), "")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	require.NoError(t, env.coupons.DeleteCoupon(env.ctx, coupon.ID))
	_, err = env.coupons.GetCoupon(env.ctx, coupon.ID)
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestCustomers(t *testing.T) {
	env := newTestEnv(t)

	sara := env.createCustomer(t, "Sara", "0500000001")

	_, err := env.customers.CreateCustomer(env.ctx, &CreateCustomerInput{Name: "Sara again", Phone: sara.Phone})
	require.True(t, apperror.IsKind(err, apperror.KindConflict))
	require.Equal(t, sara.ID.String(), apperror.GetAppError(err).Context["customer_id"])

	_, err = env.customers.CreateCustomer(env.ctx, &CreateCustomerInput{Name: "  "})
	require.True(t, apperror.IsKind(err, apperror.KindValidation))

	found, err := env.customers.FindByPhone(env.ctx, "0500000001")
	require.NoError(t, err)
	require.Equal(t, sara.ID, found.ID)

	env.createCustomer(t, "Omar", "0500000002")
	list, err := env.customers.ListCustomers(env.ctx, pagination.DefaultPagination(), "sar")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	page, err := env.customers.ListCustomersWithCursor(env.ctx, &pagination.CursorParams{Direction: pagination.CursorDirectionNext, Limit: 1}, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.True(t, page.Pagination.HasNext)

	_, err = env.customers.ListCustomersWithCursor(env.ctx, &pagination.CursorParams{Cursor: "%%%", Limit: 1}, "")
	require.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	require.NoError(t, env.customers.DeleteCustomer(env.ctx, sara.ID))
	_, err = env.customers.GetCustomer(env.ctx, sara.ID)
	require.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
